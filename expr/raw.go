package expr

import (
	"context"
	"io"

	"github.com/pgkit/pgmerge"
)

// Raw is SQL text written to the query as-is.
type Raw string

func (r Raw) WriteSQL(ctx context.Context, w io.Writer, d pgmerge.Dialect, start int) ([]any, error) {
	w.Write([]byte(r))
	return nil, nil
}

// Arg writes one placeholder per value and passes the values through as
// bound parameters.
func Arg(vals ...any) pgmerge.Expression {
	return args{vals: vals}
}

type args struct {
	vals []any
}

func (a args) WriteSQL(ctx context.Context, w io.Writer, d pgmerge.Dialect, start int) ([]any, error) {
	for k := range a.vals {
		if k > 0 {
			w.Write([]byte(", "))
		}

		d.WriteArg(w, start+k)
	}

	return a.vals, nil
}
