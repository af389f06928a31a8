/*
Package cmd provides the CLI commands for Mailmerge.
*/
package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	debug   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mailmerge",
	Short: "A personalized mass-mail merge tool",
	Long: `Mailmerge renders one email per row of a recipient roster from a
plain-text template and delivers them over an authenticated SMTP session.

Rows that fail validation or delivery never abort the run; they are logged
and written back out as a CSV that can be resubmitted.

Example:
  mailmerge send                # Deliver one email per roster row
  mailmerge preview --row 3     # Print the rendered email for row 3
  mailmerge check               # Validate config, roster, and template
  mailmerge init                # Create a starter .mailmerge.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .mailmerge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	// Add subcommands
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if debug {
		log.SetLevel(log.DebugLevel)
	} else if verbose {
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	// Local .env is the usual home for MAILMERGE_PASSWORD and
	// MAILMERGE_CLIENT_SECRET during development.
	_ = godotenv.Load()
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return ".mailmerge.yaml"
}
