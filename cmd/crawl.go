package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// newCrawlCmd creates the 'crawl' subcommand, which processes a seed
// URL file and annotates each line with its outcome.
func newCrawlCmd() *cobra.Command {
	var seedPath string

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Harvests award data from a seed URL file",
		Long: `Reads a line-oriented file of award website URLs, extracts a record
from each one, saves progress locally, and upserts the records into
Airtable. Each seed line is annotated with its outcome so interrupted
runs can be audited.`,

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

			sum, err := buildRunner(a).RunSeeds(cmd.Context(), seedPath)
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("seed run: %w", err)
			}
			fmt.Printf("Processed %d seeds: %d extracted, %d reconciled, %d failed\n",
				sum.Total, sum.Extracted, sum.Reconciled, sum.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&seedPath, "seeds", "", "path to the seed URL file")
	_ = cmd.MarkFlagRequired("seeds")

	return cmd
}
