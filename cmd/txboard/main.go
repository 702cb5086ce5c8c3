// Package main is the txboard entry point: an HTTP API over a month-scoped
// product transaction dataset.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appName = "txboard"

// Version is overridden at build time with -ldflags.
var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Product transaction dashboard API",
		Long: `txboard seeds a transaction store from a remote JSON dataset and serves
month-scoped views over it: a paginated transaction list, sale statistics,
a price histogram and a category breakdown.

Configuration comes from environment variables, an optional .env file and
an optional YAML file named by CONFIG_FILE.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(serveCmd(), seedCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}
