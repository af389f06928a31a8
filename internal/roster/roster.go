/*
Package roster provides loading, validation, and saving of the recipient
roster for Mailmerge.
*/
package roster

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
)

// Record is one row of the roster: a mentor/mentee pairing with the fields
// the templates may reference. Records are read-only once loaded.
type Record struct {
	MentorEmail     string `csv:"MentorEmail"`
	MenteeEmail     string `csv:"MenteeEmail"`
	MentorFirstName string `csv:"MentorFirstName"`
	MentorLastName  string `csv:"MentorLastName"`
	MenteeFirstName string `csv:"MenteeFirstName"`
	MenteeLastName  string `csv:"MenteeLastName"`
	JobTitle        string `csv:"JobTitle"`
	PlaceOfWork     string `csv:"PlaceOfWork"`
	Major           string `csv:"Major"`
	University      string `csv:"University"`
}

// FieldNames returns the fixed field set of a Record, in column order.
func FieldNames() []string {
	return []string{
		"MentorEmail",
		"MenteeEmail",
		"MentorFirstName",
		"MentorLastName",
		"MenteeFirstName",
		"MenteeLastName",
		"JobTitle",
		"PlaceOfWork",
		"Major",
		"University",
	}
}

// Fields returns the record as a field-name to value mapping for template
// substitution.
func (r Record) Fields() map[string]string {
	return map[string]string{
		"MentorEmail":     r.MentorEmail,
		"MenteeEmail":     r.MenteeEmail,
		"MentorFirstName": r.MentorFirstName,
		"MentorLastName":  r.MentorLastName,
		"MenteeFirstName": r.MenteeFirstName,
		"MenteeLastName":  r.MenteeLastName,
		"JobTitle":        r.JobTitle,
		"PlaceOfWork":     r.PlaceOfWork,
		"Major":           r.Major,
		"University":      r.University,
	}
}

// Load reads a roster CSV from path. A missing required column is a fatal
// load error; per-row content is not validated here.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	return Parse(data)
}

// Parse decodes roster CSV bytes, verifying the header carries every
// required column before decoding rows.
func Parse(data []byte) ([]Record, error) {
	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read roster header: %w", err)
	}

	have := make(map[string]bool, len(header))
	for _, col := range header {
		have[strings.TrimSpace(col)] = true
	}
	var missing []string
	for _, col := range FieldNames() {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("roster is missing required columns: %s", strings.Join(missing, ", "))
	}

	var records []Record
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	return records, nil
}

// SaveFailed writes the failed records to path with the same column set as
// the input roster so the file can be resubmitted as-is. No outcome or
// reason columns are added.
func SaveFailed(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(&records, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
