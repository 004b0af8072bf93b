package psql

import (
	"io"
	"strconv"
	"strings"
)

//nolint:gochecknoglobals
var (
	// Dialect is the PostgreSQL dialect: $N placeholders and double-quoted
	// identifiers.
	Dialect dialect

	dollar      = []byte("$")
	doubleQuote = []byte(`"`)
)

type dialect struct{}

func (d dialect) WriteArg(w io.Writer, position int) {
	w.Write(dollar)
	w.Write([]byte(strconv.Itoa(position)))
}

// WriteQuoted double-quotes the identifier, doubling any embedded quote.
// Identifiers cannot travel as bound parameters, so every table and column
// name written into a statement goes through here.
func (d dialect) WriteQuoted(w io.Writer, s string) {
	w.Write(doubleQuote)
	w.Write([]byte(strings.ReplaceAll(s, `"`, `""`)))
	w.Write(doubleQuote)
}
