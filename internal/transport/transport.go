/*
Package transport manages the SMTP session a delivery run sends through.
*/
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
)

// Config contains SMTP connection parameters.
type Config struct {
	Host     string // smtp.gmail.com
	Port     int    // 587 for STARTTLS
	Insecure bool   // skip certificate verification
}

// Addr returns the host:port dial address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Session is an open, authenticated mail transport. One session serializes
// all sends of a run; it is owned by the delivery engine and closed exactly
// once.
type Session interface {
	// Send delivers one serialized message to the given envelope recipients.
	Send(from string, to []string, msg []byte) error
	Close() error
}

// Open dials the SMTP endpoint, upgrades the connection with STARTTLS, and
// authenticates. STARTTLS is mandatory: a server that does not offer it is
// rejected before any credentials are sent.
func Open(ctx context.Context, cfg Config, auth smtp.Auth) (Session, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Addr(), err)
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open SMTP session: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); !ok {
		client.Close()
		return nil, fmt.Errorf("server %s does not support STARTTLS", cfg.Host)
	}
	tlsConfig := &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.Insecure, // #nosec G402
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	return &session{client: client}, nil
}

type session struct {
	client *smtp.Client
}

func (s *session) Send(from string, to []string, msg []byte) error {
	if err := s.client.Mail(from); err != nil {
		return s.fail(fmt.Errorf("failed to set sender: %w", err))
	}
	for _, addr := range to {
		if err := s.client.Rcpt(addr); err != nil {
			return s.fail(fmt.Errorf("failed to set recipient %s: %w", addr, err))
		}
	}
	w, err := s.client.Data()
	if err != nil {
		return s.fail(fmt.Errorf("failed to open data writer: %w", err))
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return s.fail(fmt.Errorf("failed to write message: %w", err))
	}
	if err := w.Close(); err != nil {
		return s.fail(fmt.Errorf("failed to finish message: %w", err))
	}
	return nil
}

// fail resets the transaction so the session stays usable for the next row.
func (s *session) fail(err error) error {
	_ = s.client.Reset()
	return err
}

func (s *session) Close() error {
	if err := s.client.Quit(); err != nil {
		return s.client.Close()
	}
	return nil
}
