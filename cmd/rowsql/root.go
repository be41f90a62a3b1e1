package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tarmac-project/rowset"
	"github.com/tarmac-project/rowset/driver/sqlbridge"
)

var (
	driverName string
	dsn        string
	utf16Mode  bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "rowsql",
	Short: "SQL batch runner and shell over the rowset data-access layer",
	Long: `rowsql executes SQL against any registered database/sql driver and
prints result rows as JSON objects, one per line.

Examples:
  rowsql run --driver sqlite --dsn :memory: batch.sql
  cat batch.sql | rowsql run --driver mysql --dsn "user:pass@/db"
  rowsql shell --driver postgres --dsn "postgres://localhost/db"`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&driverName, "driver", "sqlite", "database/sql driver name (mysql, postgres, pgx, sqlite)")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "connection string for the selected driver")
	rootCmd.PersistentFlags().BoolVar(&utf16Mode, "utf16", false, "decode character columns through the wide (UTF-16) path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log driver activity to stderr")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(shellCmd)
}

func openDB() (*rowset.DB, error) {
	config := rowset.Config{
		Connector:    sqlbridge.New(driverName),
		ConnString:   dsn,
		UTF16Strings: utf16Mode,
	}
	if verbose {
		config.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return rowset.Connect(config)
}

// printRows writes every row of the result set as a JSON object keyed by
// column name. Rows with no result set print nothing.
func printRows(rows *rowset.Rows) error {
	defer rows.Close()

	schema := rows.Schema()
	for rows.Next() {
		fields := make(map[string]*structpb.Value, len(schema))
		for i, value := range rows.Row() {
			fields[schema[i].Name] = value
		}
		payload, err := (&structpb.Struct{Fields: fields}).MarshalJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
	}
	return rows.Err()
}
