// Package store persists the leasing aggregates through database/sql, on
// SQLite (modernc.org/sqlite) or PostgreSQL (pgx stdlib driver).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/rpggio/spacelease/internal/leasing"
	"github.com/rpggio/spacelease/internal/repository"
	"github.com/rpggio/spacelease/migrations"
)

// Dialect selects placeholder style and schema.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL.
func (d Dialect) rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DB wraps a database connection pool and its dialect
type DB struct {
	*sql.DB
	dialect Dialect
	logger  *slog.Logger
}

// Open connects to the database. For SQLite the pool is limited to one
// connection, which serializes writers and keeps :memory: databases shared.
func Open(dialect Dialect, dsn string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch dialect {
	case SQLite:
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		return &DB{DB: db, dialect: dialect, logger: logger}, nil
	case Postgres:
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		return &DB{DB: db, dialect: dialect, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dialect)
	}
}

// Dialect reports the SQL dialect in use.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// RunMigrations applies the embedded schema files for the dialect in name order.
func (db *DB) RunMigrations(ctx context.Context) error {
	dir := string(db.dialect)
	entries, err := fs.ReadDir(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		data, err := fs.ReadFile(migrations.FS, dir+"/"+entry.Name())
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
		db.logger.Debug("migration applied", "file", entry.Name(), "dialect", db.dialect)
	}
	return nil
}

// WithinTx implements leasing.Store.
func (db *DB) WithinTx(ctx context.Context, fn func(tx leasing.Tx) error) error {
	sqlTx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(newTxRepos(conn{q: sqlTx, dialect: db.dialect})); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) conn() conn {
	return conn{q: db.DB, dialect: db.dialect}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn runs dialect-neutral queries against a pool or a transaction.
type conn struct {
	q       querier
	dialect Dialect
}

func (c conn) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.q.ExecContext(ctx, c.dialect.rebind(query), args...)
}

func (c conn) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.q.QueryContext(ctx, c.dialect.rebind(query), args...)
}

func (c conn) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.q.QueryRowContext(ctx, c.dialect.rebind(query), args...)
}

// atomically runs fn in a transaction unless c already is one.
func (c conn) atomically(ctx context.Context, fn func(conn) error) error {
	db, ok := c.q.(*sql.DB)
	if !ok {
		return fn(c)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(conn{q: tx, dialect: c.dialect}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// casResult turns a zero-row compare-and-swap into ErrNotFound or ErrConflict.
func (c conn) casResult(ctx context.Context, result sql.Result, table, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM ` + table + ` WHERE id = ?)`
	if err := c.queryRow(ctx, checkQuery, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check %s existence: %w", table, err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}
