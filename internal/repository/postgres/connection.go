package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"newsdesk/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing shared by the server and the seed tool
const (
	MaxConns = 25
	MinConns = 5
)

// PgxIface is the subset of *pgxpool.Pool the repositories use.
// pgxmock.PgxPoolIface satisfies it as well.
type PgxIface interface {
	repositories.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   PgxIface
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Authors    string
	Categories string
	Tags       string
	Articles   string
	Citations  string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Authors:    fmt.Sprintf("%sauthors", prefix),
		Categories: fmt.Sprintf("%scategories", prefix),
		Tags:       fmt.Sprintf("%stags", prefix),
		Articles:   fmt.Sprintf("%sarticles", prefix),
		Citations:  fmt.Sprintf("%scitations", prefix),
	}
}

// All returns every table in dependency order (parents first)
func (t *TableNames) All() []string {
	return []string{t.Authors, t.Categories, t.Tags, t.Articles, t.Citations}
}

// CreateConnectionPool creates a pgx pool with PgBouncer compatibility.
//
// Port 6543 (Supabase transaction pooler) does not support prepared statements,
// so it is switched to QueryExecModeCacheDescribe unless the connection string
// already sets default_query_exec_mode. Direct connections keep the default
// statement cache.
//
// Table prefixes are interpolated with fmt.Sprintf before the SQL reaches the
// server, so each environment gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = MaxConns
	config.MinConns = MinConns

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction carried by ctx, or the pool when there is none.
// Repositories call this so they join an enclosing ExecTx automatically.
func GetExecutor(ctx context.Context, pool PgxIface) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
