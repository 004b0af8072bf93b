package psql

import (
	"context"
	"io"
	"slices"

	"github.com/pgkit/pgmerge"
	"github.com/pgkit/pgmerge/clause"
)

// Merge starts a merge statement that merges the given rows into table.
// The returned stage is an immutable value: every chained call returns a
// new statement and leaves the receiver untouched, so partially built
// statements can be shared and branched freely.
func Merge(table pgmerge.Relation, rows ...pgmerge.Row) UsingStage {
	return UsingStage{query: MergeQuery{Table: table, Rows: rows}}
}

// MergeFrom starts a merge statement whose source rows come from a subquery
// instead of a VALUES list. The subquery must produce the target's
// non-identity columns in declaration order.
func MergeFrom(table pgmerge.Relation, query pgmerge.Query) UsingStage {
	return UsingStage{query: MergeQuery{Table: table, Query: query}}
}

// MergeQuery is one snapshot of a merge statement.
// Structured as documented in
// https://www.postgresql.org/docs/current/sql-merge.html
// restricted to the shape this package emits:
//
//	MERGE INTO "<table>" target
//	USING (VALUES ... | <subquery>) AS source ("c1", ...)
//	ON source."f" <op> target."f" [AND ...]
//	WHEN [NOT] MATCHED [BY SOURCE] THEN <action> [...]
//	[RETURNING merge_action(), target."c1", ...]
type MergeQuery struct {
	Table     pgmerge.Relation
	Rows      []pgmerge.Row
	Query     pgmerge.Query
	On        clause.On
	Whens     []clause.When
	Returning *clause.Returning
}

// WriteSQL validates the snapshot and renders the full statement.
// All compile-time failures surface here, before anything reaches the
// database: a missing or unnamed table, a target without mergeable columns,
// missing ON fields, a row lacking a referenced column, and the
// ErrNoSourceRows sentinel for an empty VALUES source.
func (m MergeQuery) WriteSQL(ctx context.Context, w io.Writer, d pgmerge.Dialect, start int) ([]any, error) {
	if m.Table == nil || m.Table.Name() == "" {
		return nil, pgmerge.ErrNoTable
	}
	if m.Query == nil && len(m.Rows) == 0 {
		return nil, pgmerge.ErrNoSourceRows
	}

	columns := pgmerge.MergeableColumns(m.Table)
	if len(columns) == 0 {
		return nil, pgmerge.ErrNoColumns
	}

	if len(m.On.Fields) == 0 {
		return nil, pgmerge.ErrNoMatchFields
	}

	w.Write([]byte("MERGE INTO "))
	d.WriteQuoted(w, m.Table.Name())
	w.Write([]byte(" "))
	w.Write([]byte(clause.TargetAlias))

	using := clause.Using{
		Rows:    m.Rows,
		Query:   m.Query,
		Columns: columns,
	}
	args, err := pgmerge.ExpressIf(ctx, w, d, start, using, true, "\n", "")
	if err != nil {
		return nil, err
	}

	onArgs, err := pgmerge.ExpressIf(ctx, w, d, start+len(args), m.On, true, "\nON ", "")
	if err != nil {
		return nil, err
	}
	args = append(args, onArgs...)

	for _, when := range m.Whens {
		whenArgs, err := pgmerge.ExpressIf(ctx, w, d, start+len(args), when, true, "\n", "")
		if err != nil {
			return nil, err
		}
		args = append(args, whenArgs...)
	}

	if m.Returning != nil {
		retArgs, err := pgmerge.ExpressIf(ctx, w, d, start+len(args), *m.Returning, true, "\n", "")
		if err != nil {
			return nil, err
		}
		args = append(args, retArgs...)
	}

	return args, nil
}

// WriteQuery satisfies [pgmerge.Query] using the PostgreSQL dialect.
func (m MergeQuery) WriteQuery(ctx context.Context, w io.Writer, start int) ([]any, error) {
	return m.WriteSQL(ctx, w, Dialect, start)
}

// Compile renders the statement to SQL text and its parameter list.
// Compiling the same snapshot twice yields identical output.
func (m MergeQuery) Compile(ctx context.Context) (string, []any, error) {
	return pgmerge.Build(ctx, m)
}

// clone copies the snapshot so that the slices owned by the statement can
// be extended without aliasing earlier snapshots. The Relation and the Row
// values themselves are borrowed read-only, never copied.
func (m MergeQuery) clone() MergeQuery {
	m.Rows = slices.Clone(m.Rows)
	m.On.Fields = slices.Clone(m.On.Fields)
	m.Whens = slices.Clone(m.Whens)
	if m.Returning != nil {
		m.Returning = &clause.Returning{Columns: slices.Clone(m.Returning.Columns)}
	}

	return m
}
