package normalize

// FieldError reports why a single field failed normalization. The field name
// and reason together become the rejection reason for the whole row.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

func newFieldError(field, reason string) *FieldError {
	return &FieldError{Field: field, Reason: reason}
}
