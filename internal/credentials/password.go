package credentials

import (
	"context"
	"net/smtp"

	"github.com/oarkflow/mailmerge/internal/transport"
)

// Password authenticates with a sender address and a plaintext secret via
// plain login over STARTTLS.
type Password struct {
	Address string
	Secret  string
	Server  transport.Config
}

var _ Provider = (*Password)(nil)

// Open connects to the SMTP endpoint and authenticates with the static
// credentials. The secret is never logged or persisted.
func (p *Password) Open(ctx context.Context) (transport.Session, string, error) {
	if p.Address == "" || p.Secret == "" {
		return nil, "", ErrMissingCredentials
	}
	auth := smtp.PlainAuth("", p.Address, p.Secret, p.Server.Host)
	sess, err := transport.Open(ctx, p.Server, auth)
	if err != nil {
		return nil, "", err
	}
	return sess, p.Address, nil
}
