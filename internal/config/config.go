/*
Package config provides configuration loading and validation for Mailmerge.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Auth method names.
const (
	MethodPassword = "password"
	MethodOAuth2   = "oauth2"
)

// Config represents the complete Mailmerge configuration
type Config struct {
	// Roster is the path to the recipient CSV
	Roster string `yaml:"roster,omitempty"`

	// Subject template for every email
	Subject string `yaml:"subject,omitempty"`

	// CC is an optional single address copied on every email
	CC string `yaml:"cc,omitempty"`

	// Body is the inline body template
	Body string `yaml:"body,omitempty"`

	// BodyFile is an alternative to Body: a file the template is read from
	BodyFile string `yaml:"body_file,omitempty"`

	// Output is where failed rows are written for resubmission
	Output string `yaml:"output,omitempty"`

	// LogFile mirrors the per-row send log to a file; empty disables
	LogFile string `yaml:"log_file,omitempty"`

	// SMTP endpoint configuration
	SMTP SMTP `yaml:"smtp,omitempty"`

	// Auth strategy configuration
	Auth Auth `yaml:"auth,omitempty"`
}

// SMTP contains the mail endpoint parameters
type SMTP struct {
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Insecure bool   `yaml:"insecure,omitempty"`
}

// Auth selects and parameterizes the credential strategy. Secrets are never
// stored here: the password comes from MAILMERGE_PASSWORD and the OAuth
// client secret from MAILMERGE_CLIENT_SECRET.
type Auth struct {
	// Method is either "password" or "oauth2"
	Method string `yaml:"method,omitempty"`

	// Address is the sender address for password auth. Under oauth2 the
	// address is derived from the provider's profile endpoint instead.
	Address string `yaml:"address,omitempty"`

	// ClientID for the oauth2 method
	ClientID string `yaml:"client_id,omitempty"`

	// TokenFile is where the oauth2 token blob is persisted
	TokenFile string `yaml:"token_file,omitempty"`
}

// Default returns the built-in configuration defaults.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Output: "failed_emails.csv",
		SMTP: SMTP{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Auth: Auth{
			Method:    MethodPassword,
			TokenFile: filepath.Join(home, ".config", "mailmerge", "token.json"),
		},
	}
}

// Load loads configuration from a file, expands environment variables,
// fills unset fields from the defaults, and resolves body_file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := mergo.Merge(&cfg, Default()); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	if cfg.BodyFile != "" {
		bodyPath := cfg.BodyFile
		if !filepath.IsAbs(bodyPath) {
			bodyPath = filepath.Join(filepath.Dir(path), cfg.BodyFile)
		}
		body, err := os.ReadFile(bodyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read body template %s: %w", cfg.BodyFile, err)
		}
		cfg.Body = string(body)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Roster == "" {
		return fmt.Errorf("roster is required")
	}
	if strings.TrimSpace(c.Subject) == "" {
		return fmt.Errorf("subject is required")
	}
	if strings.TrimSpace(c.Body) == "" {
		return fmt.Errorf("body or body_file is required")
	}
	if c.SMTP.Host == "" {
		return fmt.Errorf("smtp.host is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("smtp.port must be between 1 and 65535")
	}

	switch c.Auth.Method {
	case MethodPassword:
		if c.Auth.Address == "" {
			return fmt.Errorf("auth.address is required for password auth")
		}
	case MethodOAuth2:
		if c.Auth.ClientID == "" {
			return fmt.Errorf("auth.client_id is required for oauth2 auth")
		}
		if c.Auth.TokenFile == "" {
			return fmt.Errorf("auth.token_file is required for oauth2 auth")
		}
	default:
		return fmt.Errorf("auth.method must be %q or %q", MethodPassword, MethodOAuth2)
	}

	return nil
}

// DefaultTemplate returns the default configuration template
func DefaultTemplate() string {
	return `# Mailmerge configuration file
# See https://github.com/oarkflow/mailmerge for documentation

# Recipient roster. Required columns:
#   MentorEmail, MenteeEmail, MentorFirstName, MentorLastName,
#   MenteeFirstName, MenteeLastName, JobTitle, PlaceOfWork, Major, University
roster: pairings.csv

subject: "Summer 2025 O4U Mentorship Program Pairing"

# Optional: copied on every email
cc: mentoring@outforundergrad.org

# Failed rows are written here for resubmission
output: failed_emails.csv

# Optional: mirror the per-row send log to a file
log_file: email_send_log.txt

smtp:
  host: smtp.gmail.com
  port: 587

auth:
  # password: plain login with MAILMERGE_PASSWORD from the environment
  # oauth2:   Gmail bearer token; client secret from MAILMERGE_CLIENT_SECRET
  method: password
  address: you@example.com

body: |
  Hey {MentorFirstName} and {MenteeFirstName}!

  In preparation for program kickoff, we are so excited to formally introduce
  you to your Summer 2025 O4U mentorship program pairing!

  Mentor: {MentorFirstName} {MentorLastName}, {JobTitle} at {PlaceOfWork}
  Mentee: {MenteeFirstName} {MenteeLastName}, studying {Major} at {University}

  Please feel free to use this email thread to introduce yourselves to each
  other before kickoff -- and get your first meeting in the books! Remember
  that we expect mentors and mentees to meet twice a month.

  If you don't hear back from your mentor / mentee within a week, feel free
  to reach out to mentoring@outforundergrad.org.

  Best,
  The Mentoring Team
`
}
