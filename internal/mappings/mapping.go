package mappings

import (
	"reflect"
	"regexp"
	"strings"
)

var (
	matchFirstCapRe = regexp.MustCompile("(.)([A-Z][a-z]+)")
	matchAllCapRe   = regexp.MustCompile("([a-z0-9])([A-Z])")
)

// Col is the column a struct field maps to.
type Col struct {
	Name     string
	Identity bool
	Field    int // struct field index
}

// Columns maps the exported fields of a struct type to column names using
// `db` tags. Untagged fields map to the snake_case of the field name,
// fields tagged "-" are skipped. The tag options "identity", "generated"
// and "autoincr" all mark the column as database-assigned.
func Columns(typ reflect.Type) []Col {
	if typ == nil {
		return nil
	}

	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Struct {
		return nil
	}

	cols := make([]Col, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		// Don't consider unexported fields
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "-" {
			continue
		}

		col := Col{Field: i}

		parts := strings.Split(tag, ",")
		col.Name = parts[0]
		if col.Name == "" {
			col.Name = snakeCase(field.Name)
		}

		for _, part := range parts[1:] {
			switch part {
			case "identity", "generated", "autoincr":
				col.Identity = true
			}
		}

		cols = append(cols, col)
	}

	return cols
}

// snakeCase maps a struct field name to snake case.
func snakeCase(str string) string {
	snake := matchFirstCapRe.ReplaceAllString(str, "${1}_${2}")
	snake = matchAllCapRe.ReplaceAllString(snake, "${1}_${2}")
	return strings.ToLower(snake)
}
