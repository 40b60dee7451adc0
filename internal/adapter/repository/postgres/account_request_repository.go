package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/priyabank/core-ledger/internal/logger"
	"github.com/shopspring/decimal"
)

const requestColumns = `
caller_id, customer_id, name, email, phone_number, aadhaar_number,
pan_number, ifsc_code, status, created_at`

type AccountRequestRepository struct {
	db *sql.DB
}

func NewAccountRequestRepository(db *sql.DB) *AccountRequestRepository {
	return &AccountRequestRepository{db: db}
}

func (r *AccountRequestRepository) Create(ctx context.Context, request domain.AccountRequest) (domain.AccountRequest, error) {
	logger.Info("account request repository create", logger.Fields{
		"callerId":   request.CallerID,
		"customerId": request.CustomerID,
	})

	const query = `
INSERT INTO account_requests (
	caller_id, customer_id, name, email, phone_number,
	aadhaar_number, pan_number, ifsc_code, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		request.CallerID,
		request.CustomerID,
		request.Name,
		request.Email,
		request.PhoneNumber,
		request.AadhaarNumber,
		request.PANNumber,
		request.IFSCCode,
		request.Status,
	).Scan(&request.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.AccountRequest{}, fmt.Errorf("a live request already exists for this caller: %w", domain.ErrConflict)
		}
		logger.Error("account request repository create failed", err, logger.Fields{
			"callerId": request.CallerID,
		})
		return domain.AccountRequest{}, mapStoreErr("create account request", err)
	}

	return request, nil
}

func (r *AccountRequestRepository) GetByCallerID(ctx context.Context, callerID string) (domain.AccountRequest, error) {
	const query = `
SELECT ` + requestColumns + `
FROM account_requests
WHERE caller_id = $1`

	request, err := scanRequest(r.db.QueryRowContext(ctx, query, callerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AccountRequest{}, domain.ErrRecordNotFound
		}
		logger.Error("account request repository get failed", err, logger.Fields{
			"callerId": callerID,
		})
		return domain.AccountRequest{}, mapStoreErr("get account request", err)
	}

	return request, nil
}

func (r *AccountRequestRepository) ListPending(ctx context.Context) ([]domain.AccountRequest, error) {
	const query = `
SELECT ` + requestColumns + `
FROM account_requests
WHERE status = $1
ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, domain.RequestStatusPending)
	if err != nil {
		logger.Error("account request repository list pending failed", err, nil)
		return nil, mapStoreErr("list pending requests", err)
	}
	defer rows.Close()

	var requests []domain.AccountRequest
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, mapStoreErr("scan request row", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreErr("iterate request rows", err)
	}

	return requests, nil
}

// Approve copies the pending request into accounts with the opening balance
// and removes the request, all in one transaction. A duplicate account number
// aborts the transaction and surfaces as domain.ErrConflict; the request row
// is untouched in that case so the caller can retry.
func (r *AccountRequestRepository) Approve(ctx context.Context, callerID string, accountNumber string, openingBalance decimal.Decimal) (domain.Account, error) {
	logger.Info("account request repository approve", logger.Fields{
		"callerId":      callerID,
		"accountNumber": accountNumber,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("account request repository begin tx failed", err, nil)
		return domain.Account{}, mapStoreErr("begin approval transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertQuery = `
INSERT INTO accounts (
	caller_id, customer_id, account_number, name, email, phone_number,
	aadhaar_number, pan_number, ifsc_code, balance, transfer_limit, status
)
SELECT caller_id, customer_id, $2, name, email, phone_number,
       aadhaar_number, pan_number, ifsc_code, $3, 0, $4
FROM account_requests
WHERE caller_id = $1
RETURNING ` + accountColumns

	var account domain.Account
	account, err = scanAccount(tx.QueryRowContext(
		ctx,
		insertQuery,
		callerID,
		accountNumber,
		openingBalance,
		domain.AccountStatusApproved,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrRecordNotFound
			return domain.Account{}, err
		}
		if IsUniqueViolation(err) {
			err = fmt.Errorf("account number %s already allocated: %w", accountNumber, domain.ErrConflict)
			return domain.Account{}, err
		}
		logger.Error("account request repository approve insert failed", err, logger.Fields{
			"callerId": callerID,
		})
		return domain.Account{}, mapStoreErr("insert approved account", err)
	}

	if err = execRequiredRows(ctx, tx, domain.ErrRecordNotFound,
		`DELETE FROM account_requests WHERE caller_id = $1`, callerID); err != nil {
		return domain.Account{}, err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("account request repository approve commit failed", err, logger.Fields{
			"callerId": callerID,
		})
		return domain.Account{}, mapStoreErr("commit approval transaction", err)
	}

	logger.Info("account request repository approve success", logger.Fields{
		"callerId":      callerID,
		"accountNumber": account.AccountNumber,
		"customerId":    account.CustomerID,
	})

	return account, nil
}

func (r *AccountRequestRepository) Delete(ctx context.Context, callerID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM account_requests WHERE caller_id = $1`, callerID)
	if err != nil {
		logger.Error("account request repository delete failed", err, logger.Fields{
			"callerId": callerID,
		})
		return mapStoreErr("delete account request", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return mapStoreErr("read rows affected", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func scanRequest(row rowScanner) (domain.AccountRequest, error) {
	var request domain.AccountRequest
	err := row.Scan(
		&request.CallerID,
		&request.CustomerID,
		&request.Name,
		&request.Email,
		&request.PhoneNumber,
		&request.AadhaarNumber,
		&request.PANNumber,
		&request.IFSCCode,
		&request.Status,
		&request.CreatedAt,
	)
	return request, err
}
