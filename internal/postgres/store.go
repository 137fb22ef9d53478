package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ridemarket/marketplace/internal/marketplace"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	DB *pgxpool.Pool
}

var _ marketplace.Store = (*Store)(nil)

func (s *Store) Repo() marketplace.Repository {
	return &repo{q: s.DB}
}

// InTx runs fn in a read committed transaction. Row locks taken with
// SELECT ... FOR UPDATE are held until fn returns.
func (s *Store) InTx(ctx context.Context, fn func(marketplace.Repository) error) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&repo{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapErr(fmt.Errorf("commit: %w", err))
	}
	return nil
}

type repo struct {
	q querier
}

type scanner interface {
	Scan(dest ...any) error
}

func one[T any](ctx context.Context, q querier, scan func(scanner) (T, error), sql string, args ...any) (T, bool, error) {
	v, err := scan(q.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		var zero T
		return zero, false, nil
	}
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}

func many[T any](ctx context.Context, q querier, scan func(scanner) (T, error), sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// exec runs a write and reports NotFound when no row was touched.
func exec(ctx context.Context, q querier, entity string, id int64, sql string, args ...any) error {
	ct, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return mapErr(err)
	}
	if ct.RowsAffected() == 0 {
		return marketplace.NotFoundf("%s with Id %d not found", entity, id)
	}
	return nil
}

// where accumulates equality filters with positional parameters.
type where struct {
	conds []string
	args  []any
}

func (w *where) eq(col string, v any, set bool) {
	if !set {
		return
	}
	w.args = append(w.args, v)
	w.conds = append(w.conds, fmt.Sprintf("%s = $%d", col, len(w.args)))
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

var uniqueMessages = map[string]string{
	"payments_trip_id_key":      "Trip already has a payment",
	"reviews_trip_customer_key": "You have already reviewed this trip.",
	"categories_name_key":       "Category already exists",
	"customers_email_key":       "Customer email already exists",
	"merchants_email_key":       "Merchant email already exists",
	"drivers_email_key":         "Driver email already exists",
}

// mapErr turns constraint violations into business errors.
func mapErr(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case uniqueViolation:
		if msg, ok := uniqueMessages[pgErr.ConstraintName]; ok {
			return marketplace.Conflictf("%s", msg)
		}
		return marketplace.Conflictf("duplicate value violates %s", pgErr.ConstraintName)
	case foreignKeyViolation:
		return marketplace.Conflictf("row is still referenced or references a missing row (%s)", pgErr.ConstraintName)
	case checkViolation:
		return marketplace.BadRequestf("value violates %s", pgErr.ConstraintName)
	}
	return err
}
