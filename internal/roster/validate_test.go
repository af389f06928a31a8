package roster

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAddress(t *testing.T) {
	t.Parallel()

	valid := []string{
		"alice@example.com",
		"a.b+tag@sub.domain.org",
		"x@y.co",
	}
	for _, addr := range valid {
		require.NoError(t, ValidateAddress(addr), "expected %q to be valid", addr)
	}

	invalid := []string{
		"",
		"   ",
		"no-at-sign.example.com",
		"@example.com",
		"alice@nodot",
		"alice bob@example.com",
		"alice@example.com, bob@example.com",
		"Alice <alice@example.com>",
		"alice@.example.com",
		"alice@example.com.",
		"alice\t@example.com",
	}
	for _, addr := range invalid {
		err := ValidateAddress(addr)
		require.Error(t, err, "expected %q to be rejected", addr)

		var invalidErr *InvalidAddressError
		require.True(t, errors.As(err, &invalidErr))
		require.Equal(t, addr, invalidErr.Address)
		require.NotEmpty(t, invalidErr.Reason)
	}
}

func TestValidateRecord(t *testing.T) {
	t.Parallel()

	ok := Record{MentorEmail: "mentor@example.com", MenteeEmail: "mentee@campus.edu"}
	require.NoError(t, ValidateRecord(ok))

	badMentor := Record{MentorEmail: "not-an-address", MenteeEmail: "mentee@campus.edu"}
	err := ValidateRecord(badMentor)
	require.Error(t, err)
	require.Contains(t, err.Error(), "mentor")

	badMentee := Record{MentorEmail: "mentor@example.com", MenteeEmail: "mentee@nodot"}
	err = ValidateRecord(badMentee)
	require.Error(t, err)
	require.Contains(t, err.Error(), "mentee")
}
