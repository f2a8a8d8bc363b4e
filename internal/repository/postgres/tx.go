package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SyntaxSorcerers2025/ticketly/internal/apperr"
)

// maxTxRetries bounds recovery from serialization failures before the race
// is surfaced to the caller as Conflict.
const maxTxRetries = 3

// txBeginner is the slice of pgxpool.Pool the transaction runner needs.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// inTx runs fn inside a transaction, rolling back on error and retrying
// the whole unit when the store reports a serialization/deadlock failure.
func inTx(ctx context.Context, db txBeginner, fn func(tx pgx.Tx) error) error {
	var last error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		tx, err := db.Begin(ctx)
		if err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback(ctx)
			if retryable(err) {
				last = err
				continue
			}
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			if retryable(err) {
				last = err
				continue
			}
			return err
		}
		return nil
	}
	return apperr.Newf(apperr.Conflict, "write conflict persisted after %d attempts: %v", maxTxRetries, last)
}

// retryable recognizes serialization_failure and deadlock_detected.
func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// uniqueViolation recognizes unique_violation for duplicate-key handling.
func uniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
