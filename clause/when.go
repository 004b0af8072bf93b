package clause

import (
	"context"
	"errors"
	"io"

	"github.com/pgkit/pgmerge"
)

// When is one guarded action of a merge statement.
// It renders: WHEN [NOT] MATCHED [BY SOURCE] THEN <action>
// BY TARGET is the implicit default and is never printed.
type When struct {
	Matched  bool
	BySource bool
	Action   Action
}

func (wh When) WriteSQL(ctx context.Context, w io.Writer, d pgmerge.Dialect, start int) ([]any, error) {
	if wh.Action == nil {
		return nil, errors.New("pgmerge: WHEN clause has no action")
	}

	w.Write([]byte("WHEN "))
	if !wh.Matched {
		w.Write([]byte("NOT "))
	}
	w.Write([]byte("MATCHED"))
	if wh.BySource {
		w.Write([]byte(" BY SOURCE"))
	}
	w.Write([]byte(" THEN "))

	return wh.Action.WriteSQL(ctx, w, d, start)
}
