// Package batch turns the extracted table text into a BatchResult: accepted
// normalized records and rejected rows, partitioned per row so one malformed
// row never fails the batch.
package batch

// Schema identifies which column layout the extraction prompt asked for.
// The two layouts differ in column positions, so the deployment picks one
// explicitly; rows are never sniffed per batch.
type Schema int

const (
	// SchemaBasic is Date,Description,Amount,Category.
	SchemaBasic Schema = iota
	// SchemaWithPayee is Date,Description,Payee,Amount,Category.
	SchemaWithPayee
)

// Columns returns the expected header, in order.
func (s Schema) Columns() []string {
	if s == SchemaWithPayee {
		return []string{"Date", "Description", "Payee", "Amount", "Category"}
	}
	return []string{"Date", "Description", "Amount", "Category"}
}

// HasPayee reports whether the layout carries a payee column.
func (s Schema) HasPayee() bool {
	return s == SchemaWithPayee
}

// Field positions, resolved once from the schema rather than per row.
func (s Schema) dateIdx() int        { return 0 }
func (s Schema) descriptionIdx() int { return 1 }

func (s Schema) payeeIdx() int {
	if s.HasPayee() {
		return 2
	}
	return -1
}

func (s Schema) amountIdx() int {
	if s.HasPayee() {
		return 3
	}
	return 2
}

func (s Schema) categoryIdx() int {
	if s.HasPayee() {
		return 4
	}
	return 3
}
