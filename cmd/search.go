package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// newSearchCmd creates the 'search' subcommand, which discovers award
// sites through web search and harvests them.
func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search",
		Short: "Discovers award sites via web search and harvests them",
		Long: `Runs the configured search queries against DuckDuckGo, filters the
hits down to likely book awards, extracts a record from each unique
site, and reconciles the batch into Airtable.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if !searchOnly {
				if err := a.cfg.ValidateAirtable(); err != nil {
					return err
				}
			}

			sum, err := buildRunner(a).RunSearch(cmd.Context())
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("search run: %w", err)
			}
			fmt.Printf("Processed %d candidates: %d extracted, %d reconciled, %d failed\n",
				sum.Total, sum.Extracted, sum.Reconciled, sum.Failed)
			return nil
		},
	}
}
