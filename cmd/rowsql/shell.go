package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/tarmac-project/rowset/sqlsplit"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive SQL shell",
	Long: `shell reads statements interactively. Input accumulates across lines
until it ends with a semicolon, then every complete statement in the buffer is
executed. Type 'exit' or 'quit' to leave.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "sql> ",
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return err
		}
		defer rl.Close()

		var buf strings.Builder
		for {
			if buf.Len() > 0 {
				rl.SetPrompt("  -> ")
			} else {
				rl.SetPrompt("sql> ")
			}

			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				buf.Reset()
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}

			trimmed := strings.TrimSpace(line)
			if buf.Len() == 0 {
				if trimmed == "" {
					continue
				}
				if strings.EqualFold(trimmed, "exit") || strings.EqualFold(trimmed, "quit") {
					return nil
				}
			}

			buf.WriteString(line)
			buf.WriteString("\n")
			if !strings.HasSuffix(trimmed, ";") {
				continue
			}

			batch := buf.String()
			buf.Reset()
			for statement, err := range sqlsplit.Statements(batch) {
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					break
				}
				rows, err := db.Query(statement)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
					continue
				}
				if err := printRows(rows); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				}
			}
		}
	},
}
