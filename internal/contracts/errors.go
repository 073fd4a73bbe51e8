package contracts

import (
	"errors"
	"fmt"
)

// Failures are detected close to their source and surfaced as typed errors.
// The core performs no retries and no partial recovery.

var (
	// ErrEmptyEvents is returned by every aggregator when the event table
	// has no rows.
	ErrEmptyEvents = errors.New("event table is empty")

	// ErrNoOverlap is returned by the label joiner when the feature table
	// and the label table share no subjects.
	ErrNoOverlap = errors.New("no subjects shared between features and labels")
)

// SchemaError reports a required column that is absent or unparseable in an
// input table.
type SchemaError struct {
	Table  string
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("schema error in %s: column %q missing", e.Table, e.Column)
	}
	return fmt.Sprintf("schema error in %s: column %q: %s", e.Table, e.Column, e.Reason)
}

// IsSchemaError reports whether err is a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}
