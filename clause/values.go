package clause

import (
	"context"
	"io"

	"github.com/pgkit/pgmerge"
)

// Values serializes source rows into a VALUES list:
// VALUES ($1, $2), ($3, $4), ... with one placeholder group per row and
// the flattened args in row-major order. Every value travels as a bound
// parameter; nothing from the rows is ever interpolated into the SQL text.
type Values struct {
	Columns []string
	Rows    []pgmerge.Row
}

func (v Values) WriteSQL(ctx context.Context, w io.Writer, d pgmerge.Dialect, start int) ([]any, error) {
	if len(v.Rows) == 0 {
		return nil, pgmerge.ErrNoSourceRows
	}

	w.Write([]byte("VALUES "))

	args := make([]any, 0, len(v.Rows)*len(v.Columns))
	for i, row := range v.Rows {
		if i != 0 {
			w.Write([]byte(", "))
		}

		w.Write([]byte("("))
		for k, col := range v.Columns {
			if k != 0 {
				w.Write([]byte(", "))
			}

			val, ok := row.Value(col)
			if !ok {
				return nil, &pgmerge.MissingColumnError{Column: col}
			}

			d.WriteArg(w, start+len(args))
			args = append(args, val)
		}
		w.Write([]byte(")"))
	}

	return args, nil
}
