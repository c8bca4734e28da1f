package batch

import (
	"errors"
	"fmt"
)

// RawRow is one ordered tuple of string fields as parsed from the table,
// positionally mapped through the Schema. Not yet validated.
type RawRow []string

// Record is one fully normalized transaction row. Every field has passed its
// normalizer; the amount sign follows the charge-negative/credit-positive
// convention the extraction prompt enforces.
type Record struct {
	Date        string // DD-MM-YYYY
	Description string // single line, non-empty, whitespace-normalized
	Payee       string // canonical merchant name, original script, may be empty
	Amount      string // signed decimal, input precision preserved
	Category    string // "Main" or "Main > Sub"
}

// RejectedRow records a row that failed validation: the 1-based data row
// index (stable within the batch), the first failing field's reason, and
// the untouched raw row content for audit.
type RejectedRow struct {
	Row    int
	Reason string
	Raw    string
}

// Counts summarizes a batch. Total == Accepted + Rejected always.
type Counts struct {
	Total    int
	Accepted int
	Rejected int
}

// Result is the outcome of one batch, immutable once returned. Accepted
// records keep input order.
type Result struct {
	Accepted []Record
	Rejected []RejectedRow
	Counts   Counts
}

// ErrRejectedRows is the strict-mode failure signal.
var ErrRejectedRows = errors.New("batch contains rejected rows")

// StrictErr promotes "any rejected row exists" into a batch-level failure.
// This is a post-hoc policy check: the Result is fully computed either way
// and row processing is unaffected.
func (r *Result) StrictErr() error {
	if r.Counts.Rejected > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRejectedRows, r.Counts.Rejected, r.Counts.Total)
	}
	return nil
}
