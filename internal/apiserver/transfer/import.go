package transfer

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/amoylab/assocmanager/internal/i18n"
	"github.com/oklog/ulid/v2"
)

// Separator splits the fields of an import line
const Separator = ";"

var (
	spaces    = regexp.MustCompile(`\s+`)
	nonDigits = regexp.MustCompile(`[^0-9]`)
)

// HasSeparator reports whether any field would split an import line
func HasSeparator(fields ...string) bool {
	for _, f := range fields {
		if strings.ContainsAny(f, Separator+"\r\n") {
			return true
		}
	}
	return false
}

var flatten = strings.NewReplacer(Separator, ",", "\r\n", " ", "\n", " ", "\r", " ")

// cell flattens a value into a single import field
func cell(s string) string {
	return flatten.Replace(s)
}

// Entry is a member line ready to import
type Entry struct {
	Line             int    `json:"line,omitempty"`
	Name             string `json:"name"`
	CustomFieldValue string `json:"customFieldValue"`
	Phone            string `json:"phone,omitempty"`
}

// Duplicate is a line whose phone already belongs to a user
type Duplicate struct {
	Line           int    `json:"line"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	ExistingMember string `json:"existingMember,omitempty"`
}

// LineError is a line that could not be parsed
type LineError struct {
	Line    int
	Content string
	Err     *i18n.ErrorWithCode
}

// Preview is the outcome of checking an import text
type Preview struct {
	Total      int
	Entries    []Entry
	Duplicates []Duplicate
	Errors     []LineError
}

// PhoneLookup reports the member name owning phone, if any user has it
type PhoneLookup func(ctx context.Context, phone string) (existingName string, found bool, err error)

func isComment(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//")
}

// CleanPhone collapses whitespace runs in a phone number
func CleanPhone(phone string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(phone, " "))
}

// ParseLine parses "name;customFieldValue;phone". Phone is optional.
func ParseLine(line string) (Entry, *i18n.ErrorWithCode) {
	parts := strings.Split(line, Separator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 {
		return Entry{}, i18n.ErrImportLineFormat
	}
	if parts[0] == "" {
		return Entry{}, i18n.ErrImportNameRequired
	}
	e := Entry{Name: parts[0], CustomFieldValue: parts[1]}
	if len(parts) > 2 {
		e.Phone = CleanPhone(parts[2])
	}
	return e, nil
}

// ParsePreview parses content line by line, skipping blanks and comments.
// Lines whose phone is already known to lookup are reported as duplicates.
func ParsePreview(ctx context.Context, content string, lookup PhoneLookup) (*Preview, error) {
	p := &Preview{
		Entries:    []Entry{},
		Duplicates: []Duplicate{},
		Errors:     []LineError{},
	}

	lines := strings.Split(strings.TrimSpace(content), "\n")
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || isComment(line) {
			continue
		}
		p.Total++

		e, perr := ParseLine(line)
		if perr != nil {
			p.Errors = append(p.Errors, LineError{Line: i + 1, Content: line, Err: perr})
			continue
		}
		e.Line = i + 1

		if e.Phone != "" && lookup != nil {
			existing, found, err := lookup(ctx, e.Phone)
			if err != nil {
				return nil, err
			}
			if found {
				p.Duplicates = append(p.Duplicates, Duplicate{Line: e.Line, Name: e.Name, Phone: e.Phone, ExistingMember: existing})
				continue
			}
		}
		p.Entries = append(p.Entries, e)
	}
	return p, nil
}

// ImportEmail derives the placeholder email of an imported member
func ImportEmail(phone string) string {
	if digits := nonDigits.ReplaceAllString(phone, ""); digits != "" {
		return digits + "@temp.local"
	}
	return "member_" + strings.ToLower(ulid.Make().String()) + "@temp.local"
}

// CSVToImport converts an exported members CSV into import text,
// one "name;customFieldValue;phone" line per member. Separators and line
// breaks inside a cell are flattened so every line keeps three fields.
func CSVToImport(r io.Reader) (string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var b strings.Builder
	first := true
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if first {
			first = false
			if len(record) > 0 && strings.TrimPrefix(record[0], "\ufeff") == MembersHeader[0] {
				continue
			}
		}
		if len(record) < 2 {
			continue
		}
		phone := ""
		if len(record) > 2 {
			phone = record[2]
		}
		b.WriteString(strings.Join([]string{cell(record[0]), cell(record[1]), cell(phone)}, Separator))
		b.WriteString("\n")
	}
	return b.String(), nil
}
