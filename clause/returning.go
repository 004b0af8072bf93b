package clause

import (
	"context"
	"io"

	"github.com/pgkit/pgmerge"
)

// Returning renders the RETURNING clause of a merge. merge_action() always
// comes first so callers can classify each returned row; the requested
// target columns follow:
//
//	RETURNING merge_action(), target."c1", target."c2"
//
// With no columns, only merge_action() is returned.
type Returning struct {
	Columns []string
}

func (r Returning) WriteSQL(ctx context.Context, w io.Writer, d pgmerge.Dialect, start int) ([]any, error) {
	w.Write([]byte("RETURNING merge_action()"))

	for _, col := range r.Columns {
		w.Write([]byte(", "))
		w.Write([]byte(TargetAlias))
		w.Write([]byte("."))
		d.WriteQuoted(w, col)
	}

	return nil, nil
}
