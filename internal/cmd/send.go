package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/oarkflow/mailmerge/internal/config"
	"github.com/oarkflow/mailmerge/internal/credentials"
	"github.com/oarkflow/mailmerge/internal/delivery"
	"github.com/oarkflow/mailmerge/internal/roster"
	"github.com/oarkflow/mailmerge/internal/transport"
)

var (
	rosterFile string
	ccOverride string
	subjectOvr string
	outputFile string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Render and deliver one email per roster row",
	Long: `Render the subject and body templates for each roster row and deliver
the emails over a single authenticated SMTP session.

Each row produces one log line with its outcome. Rows that fail validation
or delivery are collected and written to the output CSV with the same
columns as the input roster so they can be resubmitted.

Credentials come from the environment:
  MAILMERGE_PASSWORD        password for auth.method: password
  MAILMERGE_CLIENT_SECRET   OAuth client secret for auth.method: oauth2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if rosterFile != "" {
			cfg.Roster = rosterFile
		}
		if cmd.Flags().Changed("cc") {
			cfg.CC = ccOverride
		}
		if subjectOvr != "" {
			cfg.Subject = subjectOvr
		}
		if outputFile != "" {
			cfg.Output = outputFile
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		records, err := roster.Load(cfg.Roster)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return fmt.Errorf("roster %s has no rows", cfg.Roster)
		}

		provider, err := buildProvider(cfg)
		if err != nil {
			return err
		}

		sink := func(failed []roster.Record) (string, error) {
			if err := roster.SaveFailed(cfg.Output, failed); err != nil {
				return "", err
			}
			return cfg.Output, nil
		}

		var mirror *os.File
		if cfg.LogFile != "" {
			mirror, err = os.Create(cfg.LogFile)
			if err != nil {
				return fmt.Errorf("failed to create log file: %w", err)
			}
			defer mirror.Close()
		}

		engine := delivery.New(delivery.RunConfig{
			Subject: cfg.Subject,
			Body:    cfg.Body,
			CC:      cfg.CC,
		}, provider, sink)

		log.Info("Starting delivery", "roster", cfg.Roster, "rows", len(records))

		// The engine runs on its own worker; this side only consumes the
		// append-only result stream until the channel closes.
		type runOutcome struct {
			summary *delivery.Summary
			err     error
		}
		done := make(chan runOutcome, 1)
		go func() {
			summary, err := engine.Run(ctx, records)
			done <- runOutcome{summary, err}
		}()

		for res := range engine.Results() {
			line := formatResult(res)
			fmt.Println(line)
			if mirror != nil {
				fmt.Fprintln(mirror, line)
			}
			if res.Err != nil {
				log.Debug("Row failed", "row", res.Row, "error", res.Err)
			}
		}

		outcome := <-done
		if outcome.err != nil {
			return fmt.Errorf("delivery failed: %w", outcome.err)
		}

		summary := outcome.summary
		summaryLine := fmt.Sprintf("Delivery complete: sent=%d, failed=%d", summary.Sent, summary.Failed)
		fmt.Println(summaryLine)
		if mirror != nil {
			fmt.Fprintln(mirror, summaryLine)
		}
		if summary.FailedPath != "" {
			fmt.Printf("Failed rows saved to %s for resubmission\n", summary.FailedPath)
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&rosterFile, "roster", "", "override the roster path from the config")
	sendCmd.Flags().StringVar(&ccOverride, "cc", "", "override the CC address (empty disables CC)")
	sendCmd.Flags().StringVar(&subjectOvr, "subject", "", "override the subject template")
	sendCmd.Flags().StringVar(&outputFile, "output", "", "override the failed-rows output path")
}

func formatResult(res delivery.Result) string {
	pair := fmt.Sprintf("%s, %s", res.Record.MentorEmail, res.Record.MenteeEmail)
	if res.Err != nil {
		return fmt.Sprintf("row %d: failed to send to %s: %v", res.Row, pair, res.Err)
	}
	return fmt.Sprintf("row %d: sent to %s", res.Row, pair)
}

func loadConfig() (*config.Config, error) {
	path := configPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'mailmerge init' to create one)", path)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func buildProvider(cfg *config.Config) (credentials.Provider, error) {
	server := transport.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Insecure: cfg.SMTP.Insecure,
	}

	switch cfg.Auth.Method {
	case config.MethodPassword:
		secret := os.Getenv("MAILMERGE_PASSWORD")
		if secret == "" {
			return nil, fmt.Errorf("MAILMERGE_PASSWORD environment variable not set")
		}
		return &credentials.Password{
			Address: cfg.Auth.Address,
			Secret:  secret,
			Server:  server,
		}, nil

	case config.MethodOAuth2:
		clientSecret := os.Getenv("MAILMERGE_CLIENT_SECRET")
		if clientSecret == "" {
			return nil, fmt.Errorf("MAILMERGE_CLIENT_SECRET environment variable not set")
		}
		store := credentials.NewTokenStore(cfg.Auth.TokenFile)
		return credentials.NewOAuth2(cfg.Auth.ClientID, clientSecret, store, consoleAuthorizer, server), nil

	default:
		return nil, fmt.Errorf("unsupported auth method: %s", cfg.Auth.Method)
	}
}

// consoleAuthorizer runs the interactive consent step without a browser
// integration: it prints the consent URL and reads the resulting code from
// stdin.
func consoleAuthorizer(_ context.Context, authURL string) (string, error) {
	fmt.Printf("Open the following URL in your browser and authorize access:\n\n  %s\n\nEnter the authorization code: ", authURL)
	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read authorization code: %w", err)
	}
	return strings.TrimSpace(code), nil
}
