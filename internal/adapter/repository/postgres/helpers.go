package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/priyabank/core-ledger/internal/domain"
)

const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation. The approval workflow uses this to retry with a fresh account
// number candidate.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}

// execRequiredRows runs a statement inside tx and fails with notMatched when
// it touches no rows. Guarded UPDATEs rely on this to turn a lost balance
// check into a typed error instead of a silent no-op.
func execRequiredRows(ctx context.Context, tx *sql.Tx, notMatched error, query string, args ...any) error {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("execute transaction statement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if rows == 0 {
		return notMatched
	}
	return nil
}

// mapStoreErr wraps driver-level failures as domain.ErrStoreUnavailable so
// services report a stable kind for backend outages. Typed domain errors pass
// through untouched.
func mapStoreErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrConflict):
		return err
	default:
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}
}
