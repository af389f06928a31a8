package roster

import (
	"fmt"
	"net/mail"
	"strings"
)

// InvalidAddressError reports an email address that failed syntactic
// validation, with the offending address and the reason.
type InvalidAddressError struct {
	Address string
	Reason  string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid email address %q: %s", e.Address, e.Reason)
}

// ValidateAddress checks that addr is a well-formed bare email address with
// a resolvable-looking domain. Validation is purely syntactic; no DNS or MX
// lookups are performed.
func ValidateAddress(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return &InvalidAddressError{Address: addr, Reason: "empty address"}
	}
	for _, r := range addr {
		if r == ' ' || r == '\t' || r < 0x20 || r == 0x7f {
			return &InvalidAddressError{Address: addr, Reason: "contains whitespace or control characters"}
		}
	}

	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return &InvalidAddressError{Address: addr, Reason: err.Error()}
	}
	// Reject display-name forms like "Name <a@b.com>"; the roster carries
	// bare addresses only.
	if parsed.Address != addr {
		return &InvalidAddressError{Address: addr, Reason: "must be a bare address without display name"}
	}

	at := strings.LastIndex(addr, "@")
	local, domain := addr[:at], addr[at+1:]
	if local == "" {
		return &InvalidAddressError{Address: addr, Reason: "empty local part"}
	}
	if !strings.Contains(domain, ".") {
		return &InvalidAddressError{Address: addr, Reason: "domain has no dot"}
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return &InvalidAddressError{Address: addr, Reason: "malformed domain"}
	}
	return nil
}

// ValidateRecord checks both recipient addresses of a record. A failure
// marks the row as skippable; it is never fatal to the run.
func ValidateRecord(r Record) error {
	if err := ValidateAddress(r.MentorEmail); err != nil {
		return fmt.Errorf("mentor: %w", err)
	}
	if err := ValidateAddress(r.MenteeEmail); err != nil {
		return fmt.Errorf("mentee: %w", err)
	}
	return nil
}
