package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"txboard/internal/cli"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the remote dataset into the store once and exit",
		Long: `seed downloads the configured dataset and appends every record to the
store. Running it twice duplicates the data. With AMQP configured it
publishes dataset.seeded, which makes running servers purge their view caches.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			n, err := a.seedService(nil).Seed(ctx)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d records from %s\n", n, a.cfg.DatasetURL)
			return nil
		},
	}
}
