package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/priyabank/core-ledger/internal/logger"
)

type LoanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

// Upsert stores the caller's loan application, replacing any previous one.
func (r *LoanRepository) Upsert(ctx context.Context, loan domain.LoanApplication) (domain.LoanApplication, error) {
	logger.Info("loan repository upsert", logger.Fields{
		"callerId": loan.CallerID,
		"amount":   loan.Amount,
	})

	const query = `
INSERT INTO loans (caller_id, amount, purpose, status)
VALUES ($1, $2, $3, $4)
ON CONFLICT (caller_id)
DO UPDATE SET amount = EXCLUDED.amount,
              purpose = EXCLUDED.purpose,
              status = EXCLUDED.status,
              updated_at = NOW()
RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		loan.CallerID,
		loan.Amount,
		loan.Purpose,
		loan.Status,
	).Scan(&loan.CreatedAt, &loan.UpdatedAt)
	if err != nil {
		logger.Error("loan repository upsert failed", err, logger.Fields{
			"callerId": loan.CallerID,
		})
		return domain.LoanApplication{}, mapStoreErr("upsert loan application", err)
	}

	return loan, nil
}

func (r *LoanRepository) GetByCallerID(ctx context.Context, callerID string) (domain.LoanApplication, error) {
	const query = `
SELECT caller_id, amount, purpose, status, created_at, updated_at
FROM loans
WHERE caller_id = $1`

	var loan domain.LoanApplication
	err := r.db.QueryRowContext(ctx, query, callerID).Scan(
		&loan.CallerID,
		&loan.Amount,
		&loan.Purpose,
		&loan.Status,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.LoanApplication{}, domain.ErrRecordNotFound
		}
		logger.Error("loan repository get failed", err, logger.Fields{
			"callerId": callerID,
		})
		return domain.LoanApplication{}, mapStoreErr("get loan application", err)
	}

	return loan, nil
}
