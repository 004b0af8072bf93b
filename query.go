package pgmerge

import (
	"context"
	"io"
)

// Query is a fully-formed statement that can be rendered to SQL text and a
// parameter list.
type Query interface {
	// It should satisfy the Expression interface so that it can be used
	// as a sub-select, for example as the source of a merge
	Expression

	// WriteQuery writes the full query to the writer.
	// start is the index of the args, usually 1.
	// It is present to allow re-indexing when the query is nested.
	WriteQuery(ctx context.Context, w io.Writer, start int) (args []any, err error)
}
