package storage

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"modernc.org/sqlite"
)

// SQLite's lower() and LIKE fold ASCII only. txfold applies full Unicode
// lower-casing so search matches the other stores.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("txfold", 1, fold)
}

func fold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return nil, fmt.Errorf("txfold: unsupported argument type %T", v)
	}
}
