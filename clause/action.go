package clause

import (
	"context"
	"io"

	"github.com/pgkit/pgmerge"
)

// Action is the closed set of things a WHEN clause can do: Update, Insert,
// Delete or DoNothing. Nothing else satisfies the interface.
// Rendering is pure: no action writes placeholders or carries args.
type Action interface {
	pgmerge.Expression
	action()
}

var (
	_ Action = Update{}
	_ Action = Insert{}
	_ Action = Delete{}
	_ Action = DoNothing{}
)

// Update renders: UPDATE SET "f1" = source."f1", "f2" = source."f2", ...
// The target side is unqualified; PostgreSQL forbids qualifying SET columns.
type Update struct {
	Fields []string
}

func (Update) action() {}

func (u Update) WriteSQL(ctx context.Context, w io.Writer, d pgmerge.Dialect, start int) ([]any, error) {
	w.Write([]byte("UPDATE SET "))

	for k, field := range u.Fields {
		if k != 0 {
			w.Write([]byte(", "))
		}

		d.WriteQuoted(w, field)
		w.Write([]byte(" = "))
		w.Write([]byte(SourceAlias))
		w.Write([]byte("."))
		d.WriteQuoted(w, field)
	}

	return nil, nil
}

// Insert renders: INSERT ("c1", ...) VALUES (v1, ...)
// With no columns the parenthesized list is omitted.
type Insert struct {
	Columns []string
	Values  []pgmerge.Expression
}

func (Insert) action() {}

func (i Insert) WriteSQL(ctx context.Context, w io.Writer, d pgmerge.Dialect, start int) ([]any, error) {
	w.Write([]byte("INSERT"))

	if len(i.Columns) > 0 {
		w.Write([]byte(" ("))
		for k, col := range i.Columns {
			if k != 0 {
				w.Write([]byte(", "))
			}
			d.WriteQuoted(w, col)
		}
		w.Write([]byte(")"))
	}

	return pgmerge.ExpressSlice(ctx, w, d, start, i.Values, " VALUES (", ", ", ")")
}

// Delete renders: DELETE
type Delete struct{}

func (Delete) action() {}

func (Delete) WriteSQL(ctx context.Context, w io.Writer, d pgmerge.Dialect, start int) ([]any, error) {
	w.Write([]byte("DELETE"))
	return nil, nil
}

// DoNothing renders: DO NOTHING
type DoNothing struct{}

func (DoNothing) action() {}

func (DoNothing) WriteSQL(ctx context.Context, w io.Writer, d pgmerge.Dialect, start int) ([]any, error) {
	w.Write([]byte("DO NOTHING"))
	return nil, nil
}
