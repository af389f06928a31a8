package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/oarkflow/mailmerge/internal/transport"
)

const gmailProfileURL = "https://gmail.googleapis.com/gmail/v1/users/me/profile"

// DefaultScopes returns the Gmail scopes a delivery run needs: sending,
// reading (for the profile lookup), and full mail access.
func DefaultScopes() []string {
	return []string{
		"https://www.googleapis.com/auth/gmail.send",
		"https://www.googleapis.com/auth/gmail.readonly",
		"https://mail.google.com/",
	}
}

// Authorizer obtains an authorization code via an external interactive step,
// typically by directing the user to authURL and collecting the code from
// the provider's consent screen.
type Authorizer func(ctx context.Context, authURL string) (code string, err error)

// OAuth2 authenticates with a bearer token obtained from the provider's
// token endpoint. A stored token is reused while valid, refreshed when
// expired, and replaced via the interactive consent flow when neither is
// possible. The sender address is derived from the mail provider's profile
// endpoint, not from the roster.
type OAuth2 struct {
	Config     *oauth2.Config
	Store      *TokenStore
	Authorize  Authorizer
	Server     transport.Config
	ProfileURL string       // overridable for tests; defaults to the Gmail profile endpoint
	HTTPClient *http.Client // overridable for tests
}

var _ Provider = (*OAuth2)(nil)

// NewOAuth2 creates an OAuth2 provider against Google's endpoints.
func NewOAuth2(clientID, clientSecret string, store *TokenStore, authorize Authorizer, server transport.Config) *OAuth2 {
	return &OAuth2{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes:       DefaultScopes(),
			Endpoint:     google.Endpoint,
		},
		Store:     store,
		Authorize: authorize,
		Server:    server,
	}
}

// Open obtains a valid bearer token, resolves the sender's own address via
// the profile endpoint, and authenticates the SMTP session with XOAUTH2.
func (p *OAuth2) Open(ctx context.Context) (transport.Session, string, error) {
	tok, err := p.Token(ctx)
	if err != nil {
		return nil, "", err
	}

	address, err := p.SenderAddress(ctx, tok)
	if err != nil {
		return nil, "", err
	}

	sess, err := transport.Open(ctx, p.Server, XOAUTH2(address, tok.AccessToken))
	if err != nil {
		return nil, "", err
	}
	return sess, address, nil
}

// Token returns a valid access token, persisting any renewal:
// a stored unexpired token is reused; an expired token with a refresh token
// is refreshed against the token endpoint; otherwise the interactive
// authorization-code flow runs. A refresh failure is fatal rather than a
// trigger for re-consent, since it usually means revoked access the user
// should know about.
func (p *OAuth2) Token(ctx context.Context) (*oauth2.Token, error) {
	ctx = p.contextWithHTTPClient(ctx)

	tok, err := p.Store.Load()
	if err != nil {
		return nil, err
	}
	if tok != nil && tok.Valid() {
		return tok, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		fresh, err := p.Config.TokenSource(ctx, tok).Token()
		if err != nil {
			return nil, fmt.Errorf("failed to refresh token: %w", err)
		}
		if err := p.Store.Save(fresh, p.Config.Scopes); err != nil {
			return nil, err
		}
		return fresh, nil
	}

	if p.Authorize == nil {
		return nil, ErrNoAuthorizer
	}
	code, err := p.Authorize(ctx, p.Config.AuthCodeURL("mailmerge", oauth2.AccessTypeOffline))
	if err != nil {
		return nil, fmt.Errorf("authorization failed: %w", err)
	}
	fresh, err := p.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if err := p.Store.Save(fresh, p.Config.Scopes); err != nil {
		return nil, err
	}
	return fresh, nil
}

// SenderAddress fetches the authenticated user's own email address from the
// mail provider's profile endpoint.
func (p *OAuth2) SenderAddress(ctx context.Context, tok *oauth2.Token) (string, error) {
	url := p.ProfileURL
	if url == "" {
		url = gmailProfileURL
	}

	client := oauth2.NewClient(p.contextWithHTTPClient(ctx), oauth2.StaticTokenSource(tok))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build profile request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("profile request failed: status=%d body=%s", resp.StatusCode, body)
	}

	var profile struct {
		EmailAddress string `json:"emailAddress"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return "", fmt.Errorf("failed to decode profile: %w", err)
	}
	if profile.EmailAddress == "" {
		return "", fmt.Errorf("profile response has no email address")
	}
	return profile.EmailAddress, nil
}

func (p *OAuth2) contextWithHTTPClient(ctx context.Context) context.Context {
	if p.HTTPClient != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, p.HTTPClient)
	}
	return ctx
}
