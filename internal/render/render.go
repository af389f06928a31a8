/*
Package render performs {FieldName} placeholder substitution for subject and
body templates.
*/
package render

import (
	"fmt"
	"regexp"

	"github.com/oarkflow/mailmerge/internal/roster"
)

// tokenRe matches a {FieldName} placeholder. Anything else, including
// unmatched braces, passes through as literal text.
var tokenRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// aliases maps legacy placeholder spellings, found in old stored templates,
// to their canonical field names.
var aliases = map[string]string{
	"MenteeFistName": "MenteeFirstName",
}

// UnknownFieldError reports a template placeholder that does not match any
// roster field. It indicates a template/roster mismatch and aborts the whole
// run rather than a single row.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("template references unknown field {%s}", e.Field)
}

// Render substitutes every {FieldName} placeholder in tmpl with the
// corresponding field value of rec. Substitution is textual and not
// recursive: substituted values are never re-scanned for placeholders.
// Rendering the same (tmpl, rec) pair twice yields identical output.
func Render(tmpl string, rec roster.Record) (string, error) {
	if err := Check(tmpl); err != nil {
		return "", err
	}
	fields := rec.Fields()
	return tokenRe.ReplaceAllStringFunc(tmpl, func(tok string) string {
		name := canonical(tokenRe.FindStringSubmatch(tok)[1])
		return fields[name]
	}), nil
}

// Check verifies that every placeholder in tmpl refers to a known roster
// field, resolving legacy aliases first.
func Check(tmpl string) error {
	for _, field := range Fields(tmpl) {
		if !known[field] {
			return &UnknownFieldError{Field: field}
		}
	}
	return nil
}

// Fields returns the distinct canonical field names referenced by tmpl, in
// order of first appearance. Unknown names are included so callers can
// report them.
func Fields(tmpl string) []string {
	var fields []string
	seen := make(map[string]bool)
	for _, m := range tokenRe.FindAllStringSubmatch(tmpl, -1) {
		name := canonical(m[1])
		if !seen[name] {
			seen[name] = true
			fields = append(fields, name)
		}
	}
	return fields
}

func canonical(name string) string {
	if alias, ok := aliases[name]; ok {
		return alias
	}
	return name
}

var known = func() map[string]bool {
	m := make(map[string]bool)
	for _, name := range roster.FieldNames() {
		m[name] = true
	}
	return m
}()
