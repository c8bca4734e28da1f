package batch

import (
	"github.com/dvloznov/bill2csv/internal/category"
	"github.com/dvloznov/bill2csv/internal/normalize"
)

// Validator composes the field normalizers and the category index over one
// parsed row. It owns no mutable state and is safe to share across batches.
type Validator struct {
	schema           Schema
	categories       *category.Index
	cleanDescription bool
}

// NewValidator builds a row validator for the given schema. With
// cleanDescription set, descriptions go through symbol cleaning before
// whitespace normalization.
func NewValidator(schema Schema, categories *category.Index, cleanDescription bool) *Validator {
	return &Validator{
		schema:           schema,
		categories:       categories,
		cleanDescription: cleanDescription,
	}
}

// ValidateRow normalizes one raw row. Normalizers run in fixed order: date,
// description, amount, payee, category. The first failing field decides the
// rejection reason and short-circuits the rest; payee and category never
// fail, so a row with valid date, description and amount is always accepted.
func (v *Validator) ValidateRow(row RawRow, index int) (Record, *RejectedRow) {
	reject := func(err error) (Record, *RejectedRow) {
		return Record{}, &RejectedRow{Row: index, Reason: err.Error(), Raw: joinRow(row)}
	}

	date, err := normalize.Date(row[v.schema.dateIdx()])
	if err != nil {
		return reject(err)
	}

	rawDescription := row[v.schema.descriptionIdx()]
	description, err := normalize.Description(rawDescription, v.cleanDescription)
	if err != nil {
		return reject(err)
	}

	amount, err := normalize.Amount(row[v.schema.amountIdx()])
	if err != nil {
		return reject(err)
	}

	// Payee never fails. The payee column, when present and non-empty, is
	// still pushed through the extractor so known merchants canonicalize;
	// otherwise the raw (pre-cleaned) description is the source.
	var payee string
	if v.schema.HasPayee() {
		payee = normalize.Payee(row[v.schema.payeeIdx()])
		if payee == "" {
			payee = normalize.Payee(rawDescription)
		}
	}

	// Category never fails either: unknown suggestions degrade to the
	// default label rather than rejecting the row.
	label := v.categories.Resolve(row[v.schema.categoryIdx()])

	return Record{
		Date:        date,
		Description: description,
		Payee:       payee,
		Amount:      amount,
		Category:    label,
	}, nil
}
