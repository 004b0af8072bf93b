package pgmerge

import (
	"reflect"
	"slices"

	"github.com/pgkit/pgmerge/internal/mappings"
)

// Column describes a single column of a target relation.
type Column struct {
	Name string

	// Identity marks a column whose value is assigned by the database,
	// such as a sequence-backed primary key. Identity columns are excluded
	// from value lists, SET clauses and RETURNING defaults.
	Identity bool
}

// Relation describes the target table of a merge: its name and its columns
// in declaration order. A Relation is borrowed read-only by every builder
// stage and is never mutated.
type Relation interface {
	Name() string
	Columns() []Column
}

// NewRelation returns a Relation with the given table name and columns.
func NewRelation(name string, columns ...Column) Relation {
	return relation{name: name, columns: columns}
}

// RelationFor derives a Relation for a struct type from its `db` tags.
// Untagged fields map to the snake_case of the field name. Fields tagged
// with any of "identity", "generated" or "autoincr" become identity columns,
// fields tagged "-" are skipped.
func RelationFor[T any](name string) Relation {
	var model T

	cols := mappings.Columns(reflect.TypeOf(model))
	columns := make([]Column, len(cols))
	for i, c := range cols {
		columns[i] = Column{Name: c.Name, Identity: c.Identity}
	}

	return relation{name: name, columns: columns}
}

type relation struct {
	name    string
	columns []Column
}

func (r relation) Name() string { return r.name }

func (r relation) Columns() []Column { return slices.Clone(r.columns) }

// MergeableColumns returns the names of the relation's non-identity columns,
// in declaration order.
func MergeableColumns(r Relation) []string {
	if r == nil {
		return nil
	}

	columns := r.Columns()
	names := make([]string, 0, len(columns))
	for _, c := range columns {
		if c.Identity {
			continue
		}
		names = append(names, c.Name)
	}

	return names
}
