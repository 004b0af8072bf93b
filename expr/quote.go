package expr

import (
	"context"
	"io"

	"github.com/pgkit/pgmerge"
)

// Quote returns the parts double quoted and joined with dots,
// something like "users"."id"
func Quote(ss ...string) pgmerge.Expression {
	return quoted(ss)
}

type quoted []string

func (q quoted) WriteSQL(ctx context.Context, w io.Writer, d pgmerge.Dialect, start int) ([]any, error) {
	for k, s := range q {
		if k != 0 {
			w.Write([]byte("."))
		}

		d.WriteQuoted(w, s)
	}

	return nil, nil
}

// Qualified returns a bare qualifier followed by a quoted identifier,
// something like source."sku". Merge statements qualify columns with the
// fixed source/target aliases, which are written unquoted.
func Qualified(qualifier, name string) pgmerge.Expression {
	return qualified{qualifier: qualifier, name: name}
}

type qualified struct {
	qualifier string
	name      string
}

func (q qualified) WriteSQL(ctx context.Context, w io.Writer, d pgmerge.Dialect, start int) ([]any, error) {
	w.Write([]byte(q.qualifier))
	w.Write([]byte("."))
	d.WriteQuoted(w, q.name)

	return nil, nil
}
