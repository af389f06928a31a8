package credentials

import (
	"errors"
	"fmt"
	"net/smtp"
)

// XOAUTH2 returns an smtp.Auth implementing the XOAUTH2 SASL mechanism for
// the given user address and OAuth2 access token. The initial response is
// the literal string "user=<addr>\x01auth=Bearer <token>\x01\x01";
// net/smtp base64-encodes it before issuing the AUTH command, and mail
// servers validate the decoded form byte for byte.
func XOAUTH2(user, accessToken string) smtp.Auth {
	return &xoauth2Auth{user: user, token: accessToken}
}

type xoauth2Auth struct {
	user  string
	token string
}

func (a *xoauth2Auth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	if !server.TLS {
		return "", nil, errors.New("XOAUTH2 requires a TLS connection")
	}
	payload := fmt.Sprintf("user=%s\x01auth=Bearer %s\x01\x01", a.user, a.token)
	return "XOAUTH2", []byte(payload), nil
}

func (a *xoauth2Auth) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		// The server sent a base64 JSON error challenge; an empty response
		// makes it fail the exchange with a proper SMTP error.
		return []byte{}, nil
	}
	return nil, nil
}
