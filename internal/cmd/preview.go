package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oarkflow/mailmerge/internal/render"
	"github.com/oarkflow/mailmerge/internal/roster"
)

var previewRow int

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the rendered email for one roster row",
	Long: `Render the subject and body templates against a single roster row and
print the result without sending anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if rosterFile != "" {
			cfg.Roster = rosterFile
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		records, err := roster.Load(cfg.Roster)
		if err != nil {
			return err
		}
		if previewRow < 1 || previewRow > len(records) {
			return fmt.Errorf("row %d out of range: roster has %d rows", previewRow, len(records))
		}
		rec := records[previewRow-1]

		subject, err := render.Render(cfg.Subject, rec)
		if err != nil {
			return err
		}
		body, err := render.Render(cfg.Body, rec)
		if err != nil {
			return err
		}

		fmt.Printf("To:      %s, %s\n", rec.MentorEmail, rec.MenteeEmail)
		if cfg.CC != "" {
			fmt.Printf("Cc:      %s\n", cfg.CC)
		}
		fmt.Printf("Subject: %s\n\n%s\n", subject, body)
		return nil
	},
}

func init() {
	previewCmd.Flags().IntVar(&previewRow, "row", 1, "roster row to preview (1-based)")
	previewCmd.Flags().StringVar(&rosterFile, "roster", "", "override the roster path from the config")
}
