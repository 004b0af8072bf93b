package psql

import (
	"context"
	"errors"
	"slices"

	"github.com/pgkit/pgmerge"
	"github.com/pgkit/pgmerge/clause"
	"github.com/pgkit/pgmerge/expr"
)

// UsingStage is a merge statement with a target and a source. It only
// exposes the ON methods: a match predicate must be set before any WHEN
// clause can be added.
type UsingStage struct {
	query MergeQuery
}

// On sets the fields to match source rows against target rows, comparing
// with IS NOT DISTINCT FROM so that two NULLs match.
// Use OnEqual for plain equality.
func (u UsingStage) On(fields ...string) OnStage {
	q := u.query.clone()
	q.On = clause.On{Fields: slices.Clone(fields), NullSafe: true}

	return OnStage{query: q}
}

// OnEqual sets the fields to match on, comparing with plain =.
// Rows with NULL key fields never match.
func (u UsingStage) OnEqual(fields ...string) OnStage {
	q := u.query.clone()
	q.On = clause.On{Fields: slices.Clone(fields)}

	return OnStage{query: q}
}

// OnStage is a merge statement ready to accept WHEN clauses or a terminal
// call. PostgreSQL permits any number of WHEN clauses; they are evaluated
// in the order they were added.
type OnStage struct {
	query MergeQuery
}

// WhenMatched scopes the next action to rows present in both source and
// target.
func (o OnStage) WhenMatched() MatchedStage {
	return MatchedStage{query: o.query}
}

// WhenMatchedBySource scopes the next action with an explicit BY SOURCE
// disambiguator.
func (o OnStage) WhenMatchedBySource() MatchedStage {
	return MatchedStage{query: o.query, bySource: true}
}

// WhenNotMatched scopes the next action to source rows with no matching
// target row.
func (o OnStage) WhenNotMatched() NotMatchedStage {
	return NotMatchedStage{query: o.query}
}

// WhenNotMatchedBySource scopes the next action to target rows with no
// matching source row.
func (o OnStage) WhenNotMatchedBySource() NotMatchedBySourceStage {
	return NotMatchedBySourceStage{query: o.query}
}

// Returning requests RETURNING merge_action() plus the given target
// columns. With no arguments, every non-identity column of the target is
// returned.
func (o OnStage) Returning(columns ...string) ReturningStage {
	q := o.query.clone()
	if len(columns) == 0 {
		columns = pgmerge.MergeableColumns(q.Table)
	}
	q.Returning = &clause.Returning{Columns: slices.Clone(columns)}

	return ReturningStage{query: q}
}

// Query returns the statement snapshot behind this stage.
func (o OnStage) Query() MergeQuery {
	return o.query.clone()
}

// Compile renders the statement to SQL text and its parameter list without
// executing it.
func (o OnStage) Compile(ctx context.Context) (string, []any, error) {
	return o.query.Compile(ctx)
}

// Exec compiles and runs the statement without RETURNING.
// A source with no rows is a zero-effect success: nothing is sent to the
// database and Exec returns nil.
func (o OnStage) Exec(ctx context.Context, exec pgmerge.Executor) error {
	sql, args, err := o.query.Compile(ctx)
	if errors.Is(err, pgmerge.ErrNoSourceRows) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = exec.ExecContext(ctx, sql, args...)
	return err
}

// MatchedStage chooses the action for a WHEN MATCHED clause. Only Update,
// Delete and DoNothing exist here; inserting a matched row is not a thing
// the statement can express.
type MatchedStage struct {
	query    MergeQuery
	bySource bool
}

// Update appends WHEN MATCHED THEN UPDATE SET, setting each field from the
// matching source column. With no arguments every non-identity column of
// the target is updated.
func (m MatchedStage) Update(fields ...string) OnStage {
	if len(fields) == 0 {
		fields = pgmerge.MergeableColumns(m.query.Table)
	}

	return m.then(clause.Update{Fields: slices.Clone(fields)})
}

// Delete appends WHEN MATCHED THEN DELETE.
func (m MatchedStage) Delete() OnStage {
	return m.then(clause.Delete{})
}

// DoNothing appends WHEN MATCHED THEN DO NOTHING.
func (m MatchedStage) DoNothing() OnStage {
	return m.then(clause.DoNothing{})
}

func (m MatchedStage) then(action clause.Action) OnStage {
	q := m.query.clone()
	q.Whens = append(q.Whens, clause.When{
		Matched:  true,
		BySource: m.bySource,
		Action:   action,
	})

	return OnStage{query: q}
}

// NotMatchedStage chooses the action for a WHEN NOT MATCHED clause. Only
// Insert and DoNothing exist here.
type NotMatchedStage struct {
	query MergeQuery
}

// Insert appends WHEN NOT MATCHED THEN INSERT, inserting every non-identity
// column of the target from the matching source column.
func (n NotMatchedStage) Insert() OnStage {
	columns := pgmerge.MergeableColumns(n.query.Table)
	values := make([]pgmerge.Expression, len(columns))
	for i, col := range columns {
		values[i] = expr.Qualified(clause.SourceAlias, col)
	}

	return n.then(clause.Insert{Columns: columns, Values: values})
}

// DoNothing appends WHEN NOT MATCHED THEN DO NOTHING.
func (n NotMatchedStage) DoNothing() OnStage {
	return n.then(clause.DoNothing{})
}

func (n NotMatchedStage) then(action clause.Action) OnStage {
	q := n.query.clone()
	q.Whens = append(q.Whens, clause.When{Matched: false, Action: action})

	return OnStage{query: q}
}

// NotMatchedBySourceStage chooses the action for a WHEN NOT MATCHED BY
// SOURCE clause: target rows with no matching source row. There is no
// source row to read from in this clause, so only Delete and DoNothing
// exist; Insert and the source-assigning Update cannot be expressed.
type NotMatchedBySourceStage struct {
	query MergeQuery
}

// Delete appends WHEN NOT MATCHED BY SOURCE THEN DELETE, removing target
// rows the source no longer carries.
func (n NotMatchedBySourceStage) Delete() OnStage {
	return n.then(clause.Delete{})
}

// DoNothing appends WHEN NOT MATCHED BY SOURCE THEN DO NOTHING.
func (n NotMatchedBySourceStage) DoNothing() OnStage {
	return n.then(clause.DoNothing{})
}

func (n NotMatchedBySourceStage) then(action clause.Action) OnStage {
	q := n.query.clone()
	q.Whens = append(q.Whens, clause.When{BySource: true, Action: action})

	return OnStage{query: q}
}

// ReturningStage is a merge statement with a RETURNING clause. Its Exec
// materializes the returned rows into a [MergeResult].
type ReturningStage struct {
	query MergeQuery
}

// Query returns the statement snapshot behind this stage.
func (r ReturningStage) Query() MergeQuery {
	return r.query.clone()
}

// Compile renders the statement to SQL text and its parameter list without
// executing it.
func (r ReturningStage) Compile(ctx context.Context) (string, []any, error) {
	return r.query.Compile(ctx)
}
