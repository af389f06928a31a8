/*
Package credentials produces authenticated SMTP sessions for a delivery run.

Two strategies are supported: a static address/password pair, and an OAuth2
bearer token with a persisted token store and the XOAUTH2 SASL mechanism.
Either strategy's failure is fatal to the whole run before any row is
attempted.
*/
package credentials

import (
	"context"
	"errors"

	"github.com/oarkflow/mailmerge/internal/transport"
)

var (
	// ErrMissingCredentials indicates the sender address or secret was not supplied.
	ErrMissingCredentials = errors.New("sender address and password are required")

	// ErrNoAuthorizer indicates an interactive consent step was needed but no
	// authorizer was injected.
	ErrNoAuthorizer = errors.New("stored token is unusable and no authorizer is available")
)

// Provider authenticates against the SMTP endpoint and returns the live
// session together with the sender address it is bound to.
type Provider interface {
	Open(ctx context.Context) (transport.Session, string, error)
}
