package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Execute a multi-statement SQL batch from a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			batch []byte
			err   error
		)
		if len(args) == 0 || args[0] == "-" {
			batch, err = io.ReadAll(os.Stdin)
		} else {
			batch, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		for rows, err := range db.QueryBatch(string(batch)) {
			if err != nil {
				return err
			}
			if err := printRows(rows); err != nil {
				return err
			}
		}
		return nil
	},
}
