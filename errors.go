package pgmerge

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSourceRows is returned when compiling a merge whose source has no
	// rows. There is no statement to send: executing such a merge is a
	// zero-effect success, not a failure, and the terminal Exec methods
	// swallow this sentinel.
	ErrNoSourceRows = errors.New("pgmerge: source has no rows")

	// ErrNoTable is returned when the target relation is missing or unnamed.
	ErrNoTable = errors.New("pgmerge: no target table")

	// ErrNoColumns is returned when the target relation has no non-identity
	// columns to merge.
	ErrNoColumns = errors.New("pgmerge: target table has no mergeable columns")

	// ErrNoMatchFields is returned when no ON fields were given.
	ErrNoMatchFields = errors.New("pgmerge: no columns to match on")
)

// MissingColumnError is returned when a source row has no value for a column
// referenced by the statement. It is detected while building the VALUES list,
// before anything reaches the database.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("pgmerge: source row has no value for column %q", e.Column)
}

func (e *MissingColumnError) Equal(err error) bool {
	var e2 *MissingColumnError
	if errors.As(err, &e2) {
		return e2.Column == e.Column
	}

	return false
}
