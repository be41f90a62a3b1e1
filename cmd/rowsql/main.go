// Command rowsql runs SQL batches and an interactive shell on top of the
// rowset data-access layer, using any registered database/sql driver.
package main

import (
	"fmt"
	"os"

	// Register the supported database/sql drivers.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
