package clause

import (
	"context"
	"io"

	"github.com/pgkit/pgmerge"
)

// Aliases given to the two relations of a merge statement. They are fixed:
// every clause that references a column qualifies it with one of these.
const (
	SourceAlias = "source"
	TargetAlias = "target"
)

// Using renders the USING clause of a merge: either a VALUES list built from
// the source rows, or a subquery, wrapped in parentheses and aliased with
// its column list:
//
//	USING (VALUES ($1, $2)) AS source ("a", "b")
//	USING (SELECT ...) AS source ("a", "b")
//
// Query takes priority over Rows when both are set.
type Using struct {
	Rows    []pgmerge.Row
	Query   pgmerge.Query
	Columns []string
}

func (u Using) WriteSQL(ctx context.Context, w io.Writer, d pgmerge.Dialect, start int) ([]any, error) {
	w.Write([]byte("USING ("))

	var args []any
	var err error
	if u.Query != nil {
		args, err = u.Query.WriteQuery(ctx, w, start)
	} else {
		args, err = Values{Columns: u.Columns, Rows: u.Rows}.WriteSQL(ctx, w, d, start)
	}
	if err != nil {
		return nil, err
	}

	w.Write([]byte(") AS "))
	w.Write([]byte(SourceAlias))

	w.Write([]byte(" ("))
	for k, col := range u.Columns {
		if k != 0 {
			w.Write([]byte(", "))
		}
		d.WriteQuoted(w, col)
	}
	w.Write([]byte(")"))

	return args, nil
}
