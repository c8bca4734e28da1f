package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// payeeRule maps a raw-description token to a canonical merchant name.
// Rules are evaluated in priority order; the first match wins.
type payeeRule struct {
	pattern   *regexp.Regexp
	canonical string
}

var payeeRules = []payeeRule{
	{regexp.MustCompile(`(?i)\bdoordash\b`), "DoorDash"},
	{regexp.MustCompile(`(?i)\buber\b`), "Uber"},
	{regexp.MustCompile(`(?i)\bwal-?mart\b`), "Walmart"},
	{regexp.MustCompile(`(?i)\b(amazon|amz)\b`), "Amazon"},
	{regexp.MustCompile(`(?i)\bpaypal\b`), "PayPal"},
	{regexp.MustCompile(`(?i)\b7[- ]?eleven\b`), "7-Eleven"},
	{regexp.MustCompile(`(?i)\bmcdonald'?s?\b`), "McDonald's"},
	{regexp.MustCompile(`(?i)\bstarbucks\b`), "Starbucks"},
	{regexp.MustCompile(`(?i)\btarget\b`), "Target"},
	{regexp.MustCompile(`(?i)\bcostco\b`), "Costco"},
	{regexp.MustCompile(`(?i)\bbest\s+buy\b`), "Best Buy"},
}

// servicePrefixRe strips card-processor prefixes (Toast, Square, and
// similar) that precede the actual merchant token.
var servicePrefixRe = regexp.MustCompile(`(?i)^(TST|SQ|SP)\s*\*\s*`)

// suffixNoiseRe cuts store numbers and transaction-id suffixes
// ("#1234", "*XYZ789") off the merchant token.
var suffixNoiseRe = regexp.MustCompile(`\s*[#*].*$`)

// Payee extracts a best-effort merchant name from the raw (pre-cleaned)
// description. Known merchants resolve through the rule table; otherwise the
// first contiguous run of non-numeric, non-symbol characters is returned
// with the original script preserved. Never fails: an entirely
// numeric/symbolic description yields the empty string, which is a valid
// (optional) payee.
func Payee(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	for _, rule := range payeeRules {
		if rule.pattern.MatchString(s) {
			return rule.canonical
		}
	}

	s = servicePrefixRe.ReplaceAllString(s, "")
	s = suffixNoiseRe.ReplaceAllString(s, "")

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(firstNameRun(s), " "))
}

// firstNameRun returns the first contiguous run of letters (any script)
// plus the inner punctuation merchant names legitimately carry.
func firstNameRun(s string) string {
	var b strings.Builder
	started := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
			started = true
		case started && (r == ' ' || r == '\'' || r == '-' || r == '&' || r == '.'):
			b.WriteRune(r)
		case started:
			return b.String()
		}
	}
	return b.String()
}
