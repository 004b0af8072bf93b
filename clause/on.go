package clause

import (
	"context"
	"io"

	"github.com/pgkit/pgmerge"
)

// On is the match predicate of a merge: one source/target comparison per
// field, joined by AND. NullSafe selects IS NOT DISTINCT FROM so that two
// NULLs match; otherwise plain = is used.
// Free-form predicates are deliberately not supported.
type On struct {
	Fields   []string
	NullSafe bool
}

func (o On) WriteSQL(ctx context.Context, w io.Writer, d pgmerge.Dialect, start int) ([]any, error) {
	op := " = "
	if o.NullSafe {
		op = " IS NOT DISTINCT FROM "
	}

	for k, field := range o.Fields {
		if k != 0 {
			w.Write([]byte(" AND "))
		}

		w.Write([]byte(SourceAlias))
		w.Write([]byte("."))
		d.WriteQuoted(w, field)
		w.Write([]byte(op))
		w.Write([]byte(TargetAlias))
		w.Write([]byte("."))
		d.WriteQuoted(w, field)
	}

	return nil, nil
}
