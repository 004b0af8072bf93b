package psql_test

import (
	"context"
	"io"
	"testing"

	"github.com/pgkit/pgmerge"
	"github.com/pgkit/pgmerge/dialect/psql"
	testutils "github.com/pgkit/pgmerge/test/utils"
)

var products = pgmerge.NewRelation(
	"products",
	pgmerge.Column{Name: "id", Identity: true},
	pgmerge.Column{Name: "sku"},
	pgmerge.Column{Name: "name"},
	pgmerge.Column{Name: "amount"},
)

func productRows() []pgmerge.Row {
	return []pgmerge.Row{
		pgmerge.RowMap{"sku": "widget-1", "name": "widget", "amount": 10},
		pgmerge.RowMap{"sku": "gadget-7", "name": "gadget", "amount": 3},
	}
}

// rawQuery is a stand-in subquery for MergeFrom tests.
type rawQuery string

func (r rawQuery) WriteSQL(ctx context.Context, w io.Writer, d pgmerge.Dialect, start int) ([]any, error) {
	w.Write([]byte(r))
	return nil, nil
}

func (r rawQuery) WriteQuery(ctx context.Context, w io.Writer, start int) ([]any, error) {
	w.Write([]byte(r))
	return nil, nil
}

func TestMerge(t *testing.T) {
	examples := testutils.Testcases{
		"update and insert": {
			Query: psql.Merge(products, productRows()...).
				On("sku").
				WhenMatched().Update().
				WhenNotMatched().Insert().
				Query(),
			ExpectedSQL: `MERGE INTO "products" target
				USING (VALUES ($1, $2, $3), ($4, $5, $6)) AS source ("sku", "name", "amount")
				ON source."sku" IS NOT DISTINCT FROM target."sku"
				WHEN MATCHED THEN UPDATE SET "sku" = source."sku", "name" = source."name", "amount" = source."amount"
				WHEN NOT MATCHED THEN INSERT ("sku", "name", "amount") VALUES (source."sku", source."name", source."amount")`,
			ExpectedArgs: []any{"widget-1", "widget", 10, "gadget-7", "gadget", 3},
		},
		"explicit update fields keep their order": {
			Query: psql.Merge(products, productRows()[0]).
				On("sku").
				WhenMatched().Update("amount", "name").
				Query(),
			ExpectedSQL: `MERGE INTO "products" target
				USING (VALUES ($1, $2, $3)) AS source ("sku", "name", "amount")
				ON source."sku" IS NOT DISTINCT FROM target."sku"
				WHEN MATCHED THEN UPDATE SET "amount" = source."amount", "name" = source."name"`,
			ExpectedArgs: []any{"widget-1", "widget", 10},
		},
		"plain equality match": {
			Query: psql.Merge(products, productRows()[0]).
				OnEqual("sku", "name").
				WhenMatched().Delete().
				Query(),
			ExpectedSQL: `MERGE INTO "products" target
				USING (VALUES ($1, $2, $3)) AS source ("sku", "name", "amount")
				ON source."sku" = target."sku" AND source."name" = target."name"
				WHEN MATCHED THEN DELETE`,
			ExpectedArgs: []any{"widget-1", "widget", 10},
		},
		"when clauses keep declaration order": {
			Query: psql.Merge(products, productRows()[0]).
				On("sku").
				WhenMatched().Delete().
				WhenNotMatched().DoNothing().
				WhenMatched().DoNothing().
				Query(),
			ExpectedSQL: `MERGE INTO "products" target
				USING (VALUES ($1, $2, $3)) AS source ("sku", "name", "amount")
				ON source."sku" IS NOT DISTINCT FROM target."sku"
				WHEN MATCHED THEN DELETE
				WHEN NOT MATCHED THEN DO NOTHING
				WHEN MATCHED THEN DO NOTHING`,
			ExpectedArgs: []any{"widget-1", "widget", 10},
		},
		"not matched by source": {
			Query: psql.Merge(products, productRows()[0]).
				On("sku").
				WhenMatched().Update().
				WhenNotMatchedBySource().DoNothing().
				Query(),
			ExpectedSQL: `MERGE INTO "products" target
				USING (VALUES ($1, $2, $3)) AS source ("sku", "name", "amount")
				ON source."sku" IS NOT DISTINCT FROM target."sku"
				WHEN MATCHED THEN UPDATE SET "sku" = source."sku", "name" = source."name", "amount" = source."amount"
				WHEN NOT MATCHED BY SOURCE THEN DO NOTHING`,
			ExpectedArgs: []any{"widget-1", "widget", 10},
		},
		"delete rows absent from source": {
			Query: psql.Merge(products, productRows()[0]).
				On("sku").
				WhenMatched().DoNothing().
				WhenNotMatchedBySource().Delete().
				Query(),
			ExpectedSQL: `MERGE INTO "products" target
				USING (VALUES ($1, $2, $3)) AS source ("sku", "name", "amount")
				ON source."sku" IS NOT DISTINCT FROM target."sku"
				WHEN MATCHED THEN DO NOTHING
				WHEN NOT MATCHED BY SOURCE THEN DELETE`,
			ExpectedArgs: []any{"widget-1", "widget", 10},
		},
		"matched by source": {
			Query: psql.Merge(products, productRows()[0]).
				On("sku").
				WhenMatchedBySource().Delete().
				Query(),
			ExpectedSQL: `MERGE INTO "products" target
				USING (VALUES ($1, $2, $3)) AS source ("sku", "name", "amount")
				ON source."sku" IS NOT DISTINCT FROM target."sku"
				WHEN MATCHED BY SOURCE THEN DELETE`,
			ExpectedArgs: []any{"widget-1", "widget", 10},
		},
		"returning all mergeable columns": {
			Query: psql.Merge(products, productRows()[0]).
				On("sku").
				WhenNotMatched().Insert().
				Returning().
				Query(),
			ExpectedSQL: `MERGE INTO "products" target
				USING (VALUES ($1, $2, $3)) AS source ("sku", "name", "amount")
				ON source."sku" IS NOT DISTINCT FROM target."sku"
				WHEN NOT MATCHED THEN INSERT ("sku", "name", "amount") VALUES (source."sku", source."name", source."amount")
				RETURNING merge_action(), target."sku", target."name", target."amount"`,
			ExpectedArgs: []any{"widget-1", "widget", 10},
		},
		"returning a subset": {
			Query: psql.Merge(products, productRows()[0]).
				On("sku").
				WhenNotMatched().Insert().
				Returning("name").
				Query(),
			ExpectedSQL: `MERGE INTO "products" target
				USING (VALUES ($1, $2, $3)) AS source ("sku", "name", "amount")
				ON source."sku" IS NOT DISTINCT FROM target."sku"
				WHEN NOT MATCHED THEN INSERT ("sku", "name", "amount") VALUES (source."sku", source."name", source."amount")
				RETURNING merge_action(), target."name"`,
			ExpectedArgs: []any{"widget-1", "widget", 10},
		},
		"subquery source": {
			Query: psql.MergeFrom(products, rawQuery("SELECT sku, name, amount FROM staging_products")).
				On("sku").
				WhenMatched().Update().
				Query(),
			ExpectedSQL: `MERGE INTO "products" target
				USING (SELECT sku, name, amount FROM staging_products) AS source ("sku", "name", "amount")
				ON source."sku" IS NOT DISTINCT FROM target."sku"
				WHEN MATCHED THEN UPDATE SET "sku" = source."sku", "name" = source."name", "amount" = source."amount"`,
		},
		"struct rows": {
			Query: psql.Merge(products, pgmerge.StructRows([]productRow{
				{SKU: "widget-1", Name: "widget", Amount: 10},
			})...).
				On("sku").
				WhenMatched().Update("name").
				Query(),
			ExpectedSQL: `MERGE INTO "products" target
				USING (VALUES ($1, $2, $3)) AS source ("sku", "name", "amount")
				ON source."sku" IS NOT DISTINCT FROM target."sku"
				WHEN MATCHED THEN UPDATE SET "name" = source."name"`,
			ExpectedArgs: []any{"widget-1", "widget", 10},
		},
		"empty source yields the no-statement sentinel": {
			Query: psql.Merge(products).
				On("sku").
				WhenMatched().Update().
				Query(),
			ExpectedErr: pgmerge.ErrNoSourceRows,
		},
		"missing table": {
			Query: psql.Merge(nil, productRows()[0]).
				On("sku").
				WhenMatched().Update().
				Query(),
			ExpectedErr: pgmerge.ErrNoTable,
		},
		"no mergeable columns": {
			Query: psql.Merge(
				pgmerge.NewRelation("events", pgmerge.Column{Name: "id", Identity: true}),
				pgmerge.RowMap{"id": 1},
			).
				On("id").
				WhenMatched().Delete().
				Query(),
			ExpectedErr: pgmerge.ErrNoColumns,
		},
		"missing on fields": {
			Query: psql.Merge(products, productRows()[0]).
				On().
				WhenMatched().Update().
				Query(),
			ExpectedErr: pgmerge.ErrNoMatchFields,
		},
		"row missing a referenced column": {
			Query: psql.Merge(products, pgmerge.RowMap{"sku": "widget-1", "name": "widget"}).
				On("sku").
				WhenMatched().Update().
				Query(),
			ExpectedErr: &pgmerge.MissingColumnError{Column: "amount"},
		},
	}

	testutils.RunTests(t, examples)
}

type productRow struct {
	ID     int64  `db:"id,identity"`
	SKU    string `db:"sku"`
	Name   string `db:"name"`
	Amount int    `db:"amount"`
}

func TestMergeCompileIsDeterministic(t *testing.T) {
	ctx := context.Background()

	stage := psql.Merge(products, productRows()...).
		On("sku").
		WhenMatched().Update().
		WhenNotMatched().Insert().
		Returning()

	sql1, args1, err := stage.Compile(ctx)
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	sql2, args2, err := stage.Compile(ctx)
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	if sql1 != sql2 {
		t.Errorf("recompilation changed the SQL:\n%s\n%s", sql1, sql2)
	}
	if diff := testutils.ArgsDiff(args1, args2); diff != "" {
		t.Errorf("recompilation changed the args: %s", diff)
	}
}

func TestMergeStagesAreImmutable(t *testing.T) {
	ctx := context.Background()

	base := psql.Merge(products, productRows()[0]).
		On("sku").
		WhenMatched().Update()

	baseSQL, _, err := base.Compile(ctx)
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	// branch in two directions from the same stage
	withDelete, _, err := base.WhenMatched().Delete().Compile(ctx)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	withInsert, _, err := base.WhenNotMatched().Insert().Compile(ctx)
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	if withDelete == withInsert {
		t.Errorf("branches compiled to the same SQL: %s", withDelete)
	}

	afterSQL, _, err := base.Compile(ctx)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if baseSQL != afterSQL {
		t.Errorf("branching mutated the base stage:\n%s\n%s", baseSQL, afterSQL)
	}
}

func TestMergeExecSkipsEmptySource(t *testing.T) {
	ctx := context.Background()
	exec := &testutils.NoopExecutor{}

	err := psql.Merge(products).
		On("sku").
		WhenMatched().Update().
		Exec(ctx, exec)
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	if len(exec.Execs) != 0 || len(exec.Queries) != 0 {
		t.Errorf("empty source reached the database: %v %v", exec.Execs, exec.Queries)
	}

	res, err := psql.Merge(products).
		On("sku").
		WhenNotMatched().Insert().
		Returning().
		Exec(ctx, exec)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if res == nil || len(res) != 0 {
		t.Errorf("expected an empty result, got %v", res)
	}
	if len(exec.Queries) != 0 {
		t.Errorf("empty source reached the database: %v", exec.Queries)
	}
}

func TestMergeExecRunsStatement(t *testing.T) {
	ctx := context.Background()
	exec := &testutils.NoopExecutor{}

	err := psql.Merge(products, productRows()[0]).
		On("sku").
		WhenNotMatched().Insert().
		Exec(ctx, exec)
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	if len(exec.Execs) != 1 {
		t.Fatalf("expected one statement, got %d", len(exec.Execs))
	}
}
