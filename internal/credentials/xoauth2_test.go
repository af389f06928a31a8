package credentials

import (
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXOAUTH2_Start(t *testing.T) {
	t.Parallel()

	auth := XOAUTH2("user@example.com", "ya29.token")
	mech, payload, err := auth.Start(&smtp.ServerInfo{Name: "smtp.gmail.com", TLS: true})
	require.NoError(t, err)
	require.Equal(t, "XOAUTH2", mech)

	// net/smtp base64-encodes this initial response before issuing AUTH;
	// mail servers validate the decoded form byte for byte.
	want := "user=user@example.com\x01auth=Bearer ya29.token\x01\x01"
	require.Equal(t, want, string(payload))
}

func TestXOAUTH2_RequiresTLS(t *testing.T) {
	t.Parallel()

	auth := XOAUTH2("user@example.com", "tok")
	_, _, err := auth.Start(&smtp.ServerInfo{Name: "smtp.gmail.com", TLS: false})
	require.Error(t, err)
}

func TestXOAUTH2_Next(t *testing.T) {
	t.Parallel()

	auth := XOAUTH2("user@example.com", "tok")

	// An error challenge from the server gets an empty response so the
	// exchange fails with a proper SMTP error.
	resp, err := auth.Next([]byte(`{"status":"401"}`), true)
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Empty(t, resp)

	resp, err = auth.Next(nil, false)
	require.NoError(t, err)
	require.Nil(t, resp)
}
