package testutils

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stephenafamo/scan"

	"github.com/pgkit/pgmerge"
)

type Testcases map[string]Testcase

type Testcase struct {
	Query        pgmerge.Query
	ExpectedSQL  string
	ExpectedArgs []any
	ExpectedErr  error
}

var (
	oneOrMoreSpace      = regexp.MustCompile(`\s+`)
	spaceAroundBrackets = regexp.MustCompile(`\s*([\(|\)])\s*`)
)

func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = oneOrMoreSpace.ReplaceAllLiteralString(s, " ")
	s = spaceAroundBrackets.ReplaceAllString(s, " $1 ")
	return s
}

func QueryDiff(a, b string) string {
	return cmp.Diff(Clean(a), Clean(b))
}

func ArgsDiff(a, b []any) string {
	return cmp.Diff(a, b)
}

func RunTests(t *testing.T, cases Testcases) {
	t.Helper()
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			sql, args, err := pgmerge.Build(context.Background(), tc.Query)

			if tc.ExpectedErr != nil {
				if !matchErr(tc.ExpectedErr, err) {
					t.Fatalf("expected error %v, got %v", tc.ExpectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("error: %v", err)
			}
			if diff := QueryDiff(tc.ExpectedSQL, sql); diff != "" {
				t.Fatalf("diff: %s\ngot: %s", diff, sql)
			}
			if diff := ArgsDiff(tc.ExpectedArgs, args); diff != "" {
				t.Fatalf("diff: %s", diff)
			}
		})
	}
}

func matchErr(want, got error) bool {
	if errors.Is(got, want) {
		return true
	}

	type equaler interface{ Equal(error) bool }
	if e, ok := want.(equaler); ok {
		return e.Equal(got)
	}

	return false
}

// NoopExecutor records the statements it is asked to run without talking
// to a database.
type NoopExecutor struct {
	Queries []string
	Execs   []string
}

func (n *NoopExecutor) QueryContext(ctx context.Context, query string, args ...any) (scan.Rows, error) {
	n.Queries = append(n.Queries, query)
	return nil, errors.New("testutils: no rows to return")
}

func (n *NoopExecutor) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	n.Execs = append(n.Execs, query)
	return nil, nil //nolint:nilnil
}
