package psql

import (
	"context"
	"errors"

	"github.com/stephenafamo/scan"

	"github.com/pgkit/pgmerge"
)

// Values reported by merge_action() for returned rows.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// The synthetic column name PostgreSQL gives the merge_action() call.
const actionColumn = "merge_action"

// Exec compiles and runs the statement, materializing the returned rows.
// A source with no rows is a zero-effect success: nothing is sent to the
// database and an empty result is returned. The result is never nil.
func (r ReturningStage) Exec(ctx context.Context, exec pgmerge.Executor) (MergeResult, error) {
	sql, args, err := r.query.Compile(ctx)
	if errors.Is(err, pgmerge.ErrNoSourceRows) {
		return MergeResult{}, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := scan.All(ctx, exec, scan.MapMapper[any], sql, args...)
	if err != nil {
		return nil, err
	}

	result := make(MergeResult, len(rows))
	for i, row := range rows {
		result[i] = MergeRow(row)
	}

	return result, nil
}

// MergeRow is one returned row, keyed by column name. The merge_action
// column is always present; the other keys are the requested RETURNING
// columns.
type MergeRow map[string]any

// Action reports which action produced the row: INSERT, UPDATE or DELETE.
func (r MergeRow) Action() string {
	// text columns surface as string or []byte depending on the driver
	switch v := r[actionColumn].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	}

	return ""
}

// Get returns the row's value for the named column.
func (r MergeRow) Get(column string) any {
	return r[column]
}

// MergeResult is every row returned from a merge, in the order the database
// produced them.
type MergeResult []MergeRow

// Created returns the rows that were inserted.
func (m MergeResult) Created() []MergeRow {
	return m.filter(ActionInsert)
}

// Updated returns the rows that were updated.
func (m MergeResult) Updated() []MergeRow {
	return m.filter(ActionUpdate)
}

// Deleted returns the rows that were deleted.
func (m MergeResult) Deleted() []MergeRow {
	return m.filter(ActionDelete)
}

func (m MergeResult) filter(action string) []MergeRow {
	rows := []MergeRow{}
	for _, row := range m {
		if row.Action() == action {
			rows = append(rows, row)
		}
	}

	return rows
}
