package credentials

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oarkflow/mailmerge/internal/transport"
)

func TestPasswordRequiresCredentials(t *testing.T) {
	t.Parallel()

	server := transport.Config{Host: "smtp.gmail.com", Port: 587}

	tests := []struct {
		name string
		p    Password
	}{
		{"no address", Password{Secret: "hunter2", Server: server}},
		{"no secret", Password{Address: "sender@example.com", Server: server}},
		{"neither", Password{Server: server}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := tt.p.Open(context.Background())
			require.ErrorIs(t, err, ErrMissingCredentials)
		})
	}
}
