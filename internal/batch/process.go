package batch

import (
	"encoding/csv"
	"fmt"
	"strings"
)

const reasonMalformed = "malformed row syntax"

// Processor runs the row validator over every data row of an extracted
// table and partitions the results.
type Processor struct {
	validator *Validator
}

// NewProcessor wraps a row validator.
func NewProcessor(v *Validator) *Processor {
	return &Processor{validator: v}
}

// Process parses the extracted table (standard delimited-text rules: quoted
// fields may contain the delimiter and embedded newlines, quotes escape by
// doubling), skips the header row, and validates every remaining row in
// input order. Malformed delimited syntax within a row rejects that row and
// parsing resumes at the next line boundary; it is never batch-fatal. A
// header-only table yields an empty result with total 0, since some documents
// legitimately have no itemizable rows.
func (p *Processor) Process(table string) (*Result, error) {
	text := strings.TrimRight(strings.ReplaceAll(table, "\r\n", "\n"), "\n")
	lines := strings.Split(text, "\n")
	if strings.TrimSpace(lines[0]) == "" {
		return nil, fmt.Errorf("batch.Process: empty table")
	}

	result := &Result{}
	index := 0 // 1-based data row index, stable within the batch

	i := 1 // line 0 is the header
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == "" {
			i++
			continue
		}

		// A record spans physical lines while its quote parity stays odd
		// (an open quoted field may legitimately contain newlines).
		start := i
		quotes := strings.Count(lines[i], `"`)
		i++
		for quotes%2 == 1 && i < len(lines) {
			quotes += strings.Count(lines[i], `"`)
			i++
		}
		index++

		if quotes%2 == 1 {
			// Quote never closed before end of input. Reject just the
			// opening line and resume at the next line boundary.
			result.Rejected = append(result.Rejected, RejectedRow{
				Row:    index,
				Reason: reasonMalformed,
				Raw:    lines[start],
			})
			i = start + 1
			continue
		}

		chunk := strings.Join(lines[start:i], "\n")
		record, err := p.parseOne(chunk)
		if err != nil {
			result.Rejected = append(result.Rejected, RejectedRow{
				Row:    index,
				Reason: reasonMalformed,
				Raw:    chunk,
			})
			continue
		}

		normalized, rejected := p.validator.ValidateRow(RawRow(record), index)
		if rejected != nil {
			result.Rejected = append(result.Rejected, *rejected)
			continue
		}
		result.Accepted = append(result.Accepted, normalized)
	}

	result.Counts = Counts{
		Total:    index,
		Accepted: len(result.Accepted),
		Rejected: len(result.Rejected),
	}
	return result, nil
}

// parseOne decodes a single record's worth of text.
func (p *Processor) parseOne(chunk string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(chunk))
	reader.FieldsPerRecord = len(p.validator.schema.Columns())
	reader.TrimLeadingSpace = true
	return reader.Read()
}

// joinRow re-encodes a parsed row as one delimited line for audit output.
func joinRow(fields []string) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	w.Write(fields)
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}
