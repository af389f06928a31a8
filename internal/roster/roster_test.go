package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleCSV = `MentorEmail,MenteeEmail,MentorFirstName,MentorLastName,MenteeFirstName,MenteeLastName,JobTitle,PlaceOfWork,Major,University
alice@example.com,bob@campus.edu,Alice,Anders,Bob,Baker,Engineer,Acme,CS,State U
carol@example.com,dan@campus.edu,Carol,Clark,Dan,Drake,Designer,Initech,Art,Tech U
`

func TestParse(t *testing.T) {
	t.Parallel()

	records, err := Parse([]byte(sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Equal(t, "alice@example.com", records[0].MentorEmail)
	require.Equal(t, "bob@campus.edu", records[0].MenteeEmail)
	require.Equal(t, "Bob", records[0].MenteeFirstName)
	require.Equal(t, "Tech U", records[1].University)
}

func TestParse_MissingColumn(t *testing.T) {
	t.Parallel()

	data := `MentorEmail,MenteeEmail,MentorFirstName
a@b.com,c@d.com,Alice
`
	_, err := Parse([]byte(data))
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing required columns")
	require.Contains(t, err.Error(), "University")
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Parse(nil)
	require.Error(t, err)
}

func TestSaveFailed_RoundTrip(t *testing.T) {
	t.Parallel()

	original, err := Parse([]byte(sampleCSV))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "failed_emails.csv")
	require.NoError(t, SaveFailed(path, original))

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, original, reloaded)
}

func TestSaveFailed_NoDerivedColumns(t *testing.T) {
	t.Parallel()

	records, err := Parse([]byte(sampleCSV))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "failed_emails.csv")
	require.NoError(t, SaveFailed(path, records[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "outcome")
	require.NotContains(t, string(data), "reason")
}

func TestFields_CoversFieldNames(t *testing.T) {
	t.Parallel()

	rec := Record{MentorEmail: "a@b.com", University: "State U"}
	fields := rec.Fields()
	for _, name := range FieldNames() {
		_, ok := fields[name]
		require.True(t, ok, "field %s missing from Fields()", name)
	}
	require.Equal(t, "a@b.com", fields["MentorEmail"])
	require.Equal(t, "State U", fields["University"])
}
