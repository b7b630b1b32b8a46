package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSyncCmd creates the 'sync' subcommand, which replays a progress
// file into Airtable without fetching anything.
func newSyncCmd() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Upserts records from a saved progress file into Airtable",

		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.cfg.ValidateAirtable(); err != nil {
				return err
			}

			res, err := buildRunner(a).RunUpdateOnly(cmd.Context(), inputPath)
			if err != nil {
				return fmt.Errorf("sync run: %w", err)
			}
			fmt.Printf("Reconciled: %d created, %d updated, %d failed\n",
				res.Created, res.Updated, res.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "book_awards_data.json",
		"path of the JSON progress file to replay")

	return cmd
}
