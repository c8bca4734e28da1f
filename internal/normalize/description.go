package normalize

import (
	"regexp"
	"strings"
)

var (
	// symbolRe matches the noise characters bills tend to carry in
	// descriptions (store separators, transaction-id glue). Basic
	// punctuation (. , ; : ' " ( )) and single hyphens survive.
	symbolRe = regexp.MustCompile("[#*@&/\\\\|<>~`^_+=\\[\\]{}]")

	// dashRunRe matches runs of two or more hyphens, which act as
	// separators rather than hyphenation.
	dashRunRe = regexp.MustCompile(`--+`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Description normalizes free text to a single non-empty line: runs of
// whitespace (including newlines) collapse to single spaces and the result
// is trimmed. With cleanSymbols set, the configured symbol set is replaced
// by spaces first. Quoting for delimited output is a serialization concern
// and deliberately not done here. Fails with FieldError("description",
// "empty") when nothing remains after cleaning.
func Description(raw string, cleanSymbols bool) (string, error) {
	s := raw
	if cleanSymbols {
		s = symbolRe.ReplaceAllString(s, " ")
		s = dashRunRe.ReplaceAllString(s, " ")
	}
	s = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
	if s == "" {
		return "", newFieldError("description", "empty")
	}
	return s, nil
}
