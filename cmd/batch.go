package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/UnknownOlympus/compass/internal/batch"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	var (
		output string
		column string
	)

	cmd := &cobra.Command{
		Use:   "batch <input.csv>",
		Short: "Resolve every row of a CSV file",
		Long: `
Reads a CSV file, resolves the location column of every row and writes the rows
with latitude, longitude, normalized_name, provider_id and geocoding_error appended.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := newApp(ctx, os.Stderr)
			if err != nil {
				return err
			}
			defer app.close(ctx)

			in, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening input: %w", err)
			}
			defer in.Close()

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, errCreate := os.Create(output)
				if errCreate != nil {
					return fmt.Errorf("creating output: %w", errCreate)
				}
				defer file.Close()
				out = file
			}

			opts := batch.Options{Column: column}
			if isatty.IsTerminal(os.Stderr.Fd()) {
				opts.Progress = os.Stderr
			}

			summary, err := batch.NewProcessor(app.log, app.resolver, opts).Process(ctx, in, out)
			if encodeErr := json.NewEncoder(cmd.ErrOrStderr()).Encode(summary); encodeErr != nil {
				return encodeErr
			}

			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&column, "column", "c", batch.DefaultColumn, "name of the location column")

	return cmd
}
