/*
Package mailmerge provides a personalized mass-mail merge tool for mentorship
program pairings.

Mailmerge takes a CSV roster of mentor/mentee pairs and a plain-text template
with {FieldName} placeholders, renders one email per row, and delivers them
over a single authenticated SMTP session. Rows that fail validation or
delivery are collected and written back out as a CSV with the same columns as
the input, ready to be resubmitted.

# Configuration

Mailmerge uses a YAML configuration file (.mailmerge.yaml) to define the run:
the roster path, subject and body templates, an optional CC address, the SMTP
endpoint, and the authentication method (password or oauth2). Secrets are
never read from the file; they come from the environment
(MAILMERGE_PASSWORD, MAILMERGE_CLIENT_SECRET).

# Usage

Basic usage:

	mailmerge send                # Render and deliver one email per roster row
	mailmerge preview --row 3     # Print the rendered email for row 3
	mailmerge check               # Validate config, roster, and template
	mailmerge init                # Create a starter .mailmerge.yaml

For more information, see the documentation at https://github.com/oarkflow/mailmerge
*/
package mailmerge

// Version is the current version of Mailmerge
const Version = "1.0.0"

// BuildDate is set at build time
var BuildDate string

// GitCommit is set at build time
var GitCommit string
