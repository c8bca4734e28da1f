package normalize

import (
	"regexp"
	"strings"
)

// amountRe is the canonical grammar: optional single leading minus, digits,
// optional fractional part. Anything else is rejected.
var amountRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// currencyRe strips leading/trailing currency symbols before the grammar check.
var currencyRe = regexp.MustCompile(`[$£€¥₹¢]`)

// amountReplacer folds Unicode minus variants to ASCII and drops thousands
// separators (commas and spaces).
var amountReplacer = strings.NewReplacer(
	"−", "-", // minus sign
	"–", "-", // en dash
	",", "",
	" ", "",
)

// Amount normalizes a free-text numeric token to a plain signed decimal
// string. The sign is taken verbatim from the input (charge/credit polarity
// is the extraction service's job) and the number of decimal digits present
// in the input is preserved. Fails with FieldError("amount", "invalid format")
// on any deviation from the grammar after cleanup. Idempotent: a canonical
// amount normalizes to itself.
func Amount(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", newFieldError("amount", "invalid format")
	}

	s = amountReplacer.Replace(s)

	// Accounting-style negatives: (120.50) means -120.50.
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	s = currencyRe.ReplaceAllString(s, "")

	if !amountRe.MatchString(s) {
		return "", newFieldError("amount", "invalid format")
	}
	return s, nil
}
