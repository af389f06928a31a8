package credentials

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestProvider(t *testing.T, tokenURL string) (*OAuth2, *TokenStore) {
	t.Helper()

	store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
	p := &OAuth2{
		Config: &oauth2.Config{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
			Scopes:       DefaultScopes(),
			Endpoint: oauth2.Endpoint{
				AuthURL:  tokenURL + "/auth",
				TokenURL: tokenURL + "/token",
			},
		},
		Store: store,
	}
	return p, store
}

func tokenHandler(t *testing.T, grants *[]string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		*grants = append(*grants, r.Form.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "fresh-access",
			"token_type":    "Bearer",
			"refresh_token": "fresh-refresh",
			"expires_in":    3600,
		})
	})
}

func TestOAuth2_Token_ReusesValidToken(t *testing.T) {
	t.Parallel()

	var grants []string
	srv := httptest.NewServer(tokenHandler(t, &grants))
	defer srv.Close()

	p, store := newTestProvider(t, srv.URL)
	stored := &oauth2.Token{
		AccessToken:  "still-good",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(stored, nil))

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "still-good", tok.AccessToken)
	require.Empty(t, grants, "a valid stored token must not hit the token endpoint")
}

func TestOAuth2_Token_RefreshesExpiredToken(t *testing.T) {
	t.Parallel()

	var grants []string
	srv := httptest.NewServer(tokenHandler(t, &grants))
	defer srv.Close()

	p, store := newTestProvider(t, srv.URL)
	stored := &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "old-refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.Save(stored, nil))

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh-access", tok.AccessToken)
	require.Equal(t, []string{"refresh_token"}, grants)

	// The renewed token is persisted before any send is attempted.
	persisted, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "fresh-access", persisted.AccessToken)
	require.Equal(t, "fresh-refresh", persisted.RefreshToken)
}

func TestOAuth2_Token_FallsBackToConsentFlow(t *testing.T) {
	t.Parallel()

	var grants []string
	srv := httptest.NewServer(tokenHandler(t, &grants))
	defer srv.Close()

	p, store := newTestProvider(t, srv.URL)
	stored := &oauth2.Token{
		AccessToken: "stale",
		Expiry:      time.Now().Add(-time.Hour),
		// No refresh token: the interactive flow must run.
	}
	require.NoError(t, store.Save(stored, nil))

	var seenURL string
	p.Authorize = func(ctx context.Context, authURL string) (string, error) {
		seenURL = authURL
		return "consent-code", nil
	}

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "fresh-access", tok.AccessToken)
	require.Contains(t, seenURL, srv.URL+"/auth")
	require.Contains(t, seenURL, "access_type=offline")
	require.Equal(t, []string{"authorization_code"}, grants)

	persisted, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "fresh-access", persisted.AccessToken)
}

func TestOAuth2_Token_NoStoredTokenNoAuthorizer(t *testing.T) {
	t.Parallel()

	p, _ := newTestProvider(t, "http://127.0.0.1:0")
	_, err := p.Token(context.Background())
	require.ErrorIs(t, err, ErrNoAuthorizer)
}

func TestOAuth2_SenderAddress(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"emailAddress":  "sender@gmail.com",
			"messagesTotal": 42,
		})
	}))
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)
	p.ProfileURL = srv.URL

	addr, err := p.SenderAddress(context.Background(), &oauth2.Token{AccessToken: "token-123", TokenType: "Bearer"})
	require.NoError(t, err)
	require.Equal(t, "sender@gmail.com", addr)
	require.Equal(t, "Bearer token-123", gotAuth)
}

func TestOAuth2_SenderAddress_Non200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	p, _ := newTestProvider(t, srv.URL)
	p.ProfileURL = srv.URL

	_, err := p.SenderAddress(context.Background(), &oauth2.Token{AccessToken: "t", TokenType: "Bearer"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=403")
}
