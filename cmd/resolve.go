package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/UnknownOlympus/compass/internal/resolver"
	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "resolve <location...>",
		Short:   "Resolve one location and print the result as JSON",
		Example: `  compass resolve Toronto, Ontario`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := newApp(ctx, os.Stderr)
			if err != nil {
				return err
			}
			defer app.close(ctx)

			result, err := app.resolver.Resolve(ctx, strings.Join(args, " "))
			if err != nil {
				var exhausted *resolver.ExhaustedError
				if errors.As(err, &exhausted) {
					for _, attempt := range exhausted.Attempts {
						fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", attempt.ProviderID, attempt.Err)
					}
					return resolver.ErrAllProvidersExhausted
				}
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")

			return encoder.Encode(result)
		},
	}
}
