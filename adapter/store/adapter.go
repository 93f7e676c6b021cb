package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/RichardKnop/casedocs/db"
)

// maxParamsPerQuery keeps batched in (...) clauses under driver parameter limits.
const maxParamsPerQuery = 500

type Adapter struct {
	db      *sql.DB
	dialect db.Dialect
	logger  *zap.Logger
}

type Option func(*Adapter)

func WithDialect(dialect db.Dialect) Option {
	return func(a *Adapter) {
		a.dialect = dialect
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

func New(sqlDB *sql.DB, options ...Option) *Adapter {
	a := &Adapter{
		db:      sqlDB,
		dialect: db.DialectSQLite,
		logger:  zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	a.logger.Sugar().With(
		"dialect", a.dialect,
	).Info("init store adapter")

	return a
}

type Scannable interface {
	Scan(dest ...any) error
}

type Query interface {
	SQL() (string, []any)
}

// rebind rewrites ? placeholders for dialects that number their parameters.
func (a *Adapter) rebind(query string) string {
	if a.dialect == db.DialectPostgres {
		return toPostgresParams(query)
	}
	return query
}

func (a *Adapter) execQueryCheckRowsAffected(ctx context.Context, tx *sql.Tx, q Query) error {
	query, args := q.SQL()
	stmt, err := tx.PrepareContext(ctx, a.rebind(query))
	if err != nil {
		return fmt.Errorf("prepare statement failed: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return fmt.Errorf("exec context failed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected failed: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected")
	}

	return nil
}

func (a *Adapter) execQuery(ctx context.Context, tx *sql.Tx, q Query) error {
	query, args := q.SQL()
	stmt, err := tx.PrepareContext(ctx, a.rebind(query))
	if err != nil {
		return fmt.Errorf("prepare statement failed: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, args...); err != nil {
		return fmt.Errorf("exec context failed: %w", err)
	}

	return nil
}

// placeholders returns "?, ?, ?" for n parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func whereClause(clauses []string, args []any, partialClauses string, partialArgs []any) (string, []any) {
	if partialClauses != "" {
		clauses = append(clauses, partialClauses)
		args = append(args, partialArgs...)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " where " + strings.Join(clauses, " and "), args
}
