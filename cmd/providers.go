package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "Print the effective provider chain in attempt order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := newApp(ctx, os.Stderr)
			if err != nil {
				return err
			}
			defer app.close(ctx)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tPRIORITY\tENDPOINT")
			for _, spec := range app.resolver.Chain() {
				endpoint := spec.Endpoint
				if endpoint == "" {
					endpoint = "(default)"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", spec.ID, spec.Type, spec.Priority, endpoint)
			}

			return w.Flush()
		},
	}
}
