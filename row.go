package pgmerge

import (
	"reflect"

	"github.com/pgkit/pgmerge/internal/mappings"
)

// Row supplies the values of one source row.
type Row interface {
	// Value returns the row's value for the named column and reports
	// whether the row has that column.
	Value(column string) (any, bool)
}

// RowMap is a Row backed by a map from column name to value.
type RowMap map[string]any

func (r RowMap) Value(column string) (any, bool) {
	v, ok := r[column]
	return v, ok
}

// StructRow adapts a struct, or a pointer to one, into a [Row].
// Column names are resolved the same way as in [RelationFor]: from `db`
// tags, falling back to the snake_case of the field name.
func StructRow(v any) Row {
	val := reflect.Indirect(reflect.ValueOf(v))

	fields := make(map[string]int)
	for _, c := range mappings.Columns(val.Type()) {
		fields[c.Name] = c.Field
	}

	return structRow{val: val, fields: fields}
}

// StructRows adapts a slice of structs into rows, one per element.
func StructRows[T any](vs []T) []Row {
	rows := make([]Row, len(vs))
	for i, v := range vs {
		rows[i] = StructRow(v)
	}

	return rows
}

type structRow struct {
	val    reflect.Value
	fields map[string]int
}

func (s structRow) Value(column string) (any, bool) {
	i, ok := s.fields[column]
	if !ok {
		return nil, false
	}

	return s.val.Field(i).Interface(), true
}
