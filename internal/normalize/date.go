package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Dates are date-only; no timezone or time-of-day handling anywhere.
const (
	minYear = 1900
	maxYear = 2100
)

// dateLayouts are tried in order; the first syntactic match decides how the
// token is read. Both separators are accepted but must be consistent within
// one token.
var dateLayouts = []struct {
	re      *regexp.Regexp
	yearPos int // capture group index of the year
}{
	{regexp.MustCompile(`^(\d{1,2})([-/])(\d{1,2})[-/](\d{4})$`), 4}, // D-M-YYYY, D/M/YYYY
	{regexp.MustCompile(`^(\d{4})([-/])(\d{1,2})[-/](\d{1,2})$`), 1}, // YYYY-M-D, YYYY/M/D
}

var dateSepRe = regexp.MustCompile(`[-/]`)

// Date normalizes a free-text date token to canonical DD-MM-YYYY form.
// Returns FieldError("date", "unparseable") when no supported layout matches
// and FieldError("date", "implausible") when a layout matches syntactically
// but the calendar date is impossible (day 32, month 13, year out of bounds).
func Date(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", newFieldError("date", "unparseable")
	}

	for _, layout := range dateLayouts {
		m := layout.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		// Separators must agree: "13-06/2018" is not a layout we know.
		seps := dateSepRe.FindAllString(s, -1)
		if len(seps) != 2 || seps[0] != seps[1] {
			continue
		}

		var day, month, year int
		if layout.yearPos == 1 {
			year, _ = strconv.Atoi(m[1])
			month, _ = strconv.Atoi(m[3])
			day, _ = strconv.Atoi(m[4])
		} else {
			day, _ = strconv.Atoi(m[1])
			month, _ = strconv.Atoi(m[3])
			year, _ = strconv.Atoi(m[4])
		}

		d := civil.Date{Year: year, Month: time.Month(month), Day: day}
		if month < 1 || month > 12 || year < minYear || year > maxYear || !d.IsValid() {
			return "", newFieldError("date", "implausible")
		}
		return fmt.Sprintf("%02d-%02d-%04d", day, month, year), nil
	}

	return "", newFieldError("date", "unparseable")
}
