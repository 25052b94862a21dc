// internal/engine/errors.go
package engine

import (
	"errors"
	"fmt"
)

// MissingTableError means a required report was never ingested, so the run
// cannot produce a meaningful result. Handlers map it to a client error.
type MissingTableError struct {
	Table string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("required table not loaded: %s", e.Table)
}

func NewMissingTable(table string) error {
	return &MissingTableError{Table: table}
}

// IsMissingTable reports whether err wraps a MissingTableError.
func IsMissingTable(err error) bool {
	var mte *MissingTableError
	return errors.As(err, &mte)
}
