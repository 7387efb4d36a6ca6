package templates

import (
	"strings"
	"unicode/utf8"
)

// Template is one candidate line of text. Equality is by content.
type Template string

// String returns the template text
func (t Template) String() string {
	return string(t)
}

// ParseResult holds the outcome of scanning a templates file
type ParseResult struct {
	// Header is the discarded first line
	Header string

	// Templates are the usable lines in file order
	Templates []Template

	// BlankLines counts data rows dropped because they were empty after trimming
	BlankLines int
}

// Scan splits text into a header and template lines. The first line is always
// the header. Lines are trimmed and blank lines dropped; fields are not split,
// so each line is one whole template. Scan does not require any templates.
func Scan(text string) (*ParseResult, error) {
	if !utf8.ValidString(text) {
		return nil, newMalformedError("", "invalid UTF-8")
	}
	if strings.ContainsRune(text, 0) {
		return nil, newMalformedError("", "contains NUL bytes")
	}

	lines := strings.Split(text, "\n")
	// a terminating newline does not start another row
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	result := &ParseResult{
		Header: strings.TrimSpace(strings.TrimPrefix(lines[0], "\ufeff")),
	}

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			result.BlankLines++
			continue
		}
		result.Templates = append(result.Templates, Template(line))
	}

	return result, nil
}

// Parse returns the usable templates in text, or a *LoadError when there are none
func Parse(text string) ([]Template, error) {
	result, err := Scan(text)
	if err != nil {
		return nil, err
	}
	if len(result.Templates) == 0 {
		return nil, newEmptyError("")
	}
	return result.Templates, nil
}
