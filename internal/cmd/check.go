package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oarkflow/mailmerge"
	"github.com/oarkflow/mailmerge/internal/config"
	"github.com/oarkflow/mailmerge/internal/render"
	"github.com/oarkflow/mailmerge/internal/roster"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate config, roster, and templates without sending",
	Long: `Check that a run would start cleanly.

This validates:
  - YAML syntax and required fields
  - Roster schema (required columns)
  - Template placeholders against the roster field set
  - Every row's recipient addresses and the CC address`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}

		if err := render.Check(cfg.Subject); err != nil {
			return fmt.Errorf("subject template: %w", err)
		}
		if err := render.Check(cfg.Body); err != nil {
			return fmt.Errorf("body template: %w", err)
		}
		if cfg.CC != "" {
			if err := roster.ValidateAddress(cfg.CC); err != nil {
				return fmt.Errorf("cc address: %w", err)
			}
		}

		records, err := roster.Load(cfg.Roster)
		if err != nil {
			return err
		}

		invalid := 0
		for i, rec := range records {
			if err := roster.ValidateRecord(rec); err != nil {
				invalid++
				fmt.Printf("  row %d: %v\n", i+1, err)
			}
		}

		fmt.Printf("✓ Configuration and templates are valid\n")
		fmt.Printf("✓ Roster %s: %d rows, %d with invalid addresses\n", cfg.Roster, len(records), invalid)
		if invalid > 0 {
			fmt.Println("\nRows with invalid addresses will be skipped and written to the failure CSV.")
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new configuration file",
	Long: `Initialize a new .mailmerge.yaml configuration file.

This creates a basic configuration file with the default subject and body
template that you can customize for your program.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}

		template := config.DefaultTemplate()
		if err := os.WriteFile(path, []byte(template), 0644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Printf("✓ Created %s\n", path)
		fmt.Println("\nEdit this file, then run 'mailmerge check' before your first send.")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit, and build date of Mailmerge.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Mailmerge %s\n", mailmerge.Version)
		if mailmerge.GitCommit != "" {
			fmt.Printf("  Commit: %s\n", mailmerge.GitCommit)
		}
		if mailmerge.BuildDate != "" {
			fmt.Printf("  Built:  %s\n", mailmerge.BuildDate)
		}
	},
}
