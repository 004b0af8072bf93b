package pgmerge

import (
	"context"
	"database/sql"

	"github.com/stephenafamo/scan"
)

// Executor can run statements and scan their result rows.
// It is satisfied by the database/sql wrappers in this package and by the
// adapters in drivers/pgx.
type Executor interface {
	scan.Queryer
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Transaction is an [Executor] that must be finalized with Commit or Rollback.
// The merge builder never opens or closes transactions itself; the caller
// controls transactional scope.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
