// Package extract recovers the delimited table embedded in a raw model
// response. Models wrap their output in markdown fences and explanatory
// prose often enough that the response cannot be fed to a CSV reader
// directly.
package extract

import (
	"errors"
	"strings"
)

// ErrHeaderNotFound means the response contains no line matching the
// expected column header, so there is no table to validate. This is the
// only batch-fatal condition in the pipeline.
var ErrHeaderNotFound = errors.New("header not found")

// Table scans the raw response line by line, top to bottom, for the exact
// expected header (case-sensitive, exact column set and order) and returns
// everything from that line to the end of the text with markdown fence
// markers and comment-looking lines stripped. The first header wins: models
// sometimes echo the instructions (header included) twice, and the first
// occurrence is treated as the authoritative output. Later candidate tables
// are not merged.
func Table(raw string, header []string) (string, error) {
	want := strings.Join(header, ",")

	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == want {
			start = i
			break
		}
	}
	if start < 0 {
		return "", ErrHeaderNotFound
	}

	kept := make([]string, 0, len(lines)-start)
	kept = append(kept, want)
	for _, line := range lines[start+1:] {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "```"):
			continue
		case strings.HasPrefix(trimmed, "#"), strings.HasPrefix(trimmed, "//"):
			// Explanatory text the model slipped in despite instructions.
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n"), nil
}
