package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/priyabank/core-ledger/internal/logger"
)

const accountColumns = `
caller_id, customer_id, account_number, name, email, phone_number,
aadhaar_number, pan_number, ifsc_code, balance, transfer_limit, status,
created_at, updated_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByCallerID(ctx context.Context, callerID string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE caller_id = $1`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, callerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		logger.Error("account repository get by caller id failed", err, logger.Fields{
			"callerId": callerID,
		})
		return domain.Account{}, mapStoreErr("get account by caller id", err)
	}

	return account, nil
}

func (r *AccountRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE phone_number = $1
ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, phoneNumber)
	if err != nil {
		logger.Error("account repository find by phone number failed", err, logger.Fields{
			"phoneNumber": phoneNumber,
		})
		return nil, mapStoreErr("find accounts by phone number", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, mapStoreErr("scan account row", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreErr("iterate account rows", err)
	}

	return accounts, nil
}

func (r *AccountRepository) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM accounts WHERE account_number = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(&exists); err != nil {
		logger.Error("account repository exists by account number failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return false, mapStoreErr("check account number", err)
	}

	return exists, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
ORDER BY customer_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("account repository list failed", err, nil)
		return nil, mapStoreErr("list accounts", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, mapStoreErr("scan account row", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreErr("iterate account rows", err)
	}

	return accounts, nil
}

func (r *AccountRepository) UpdateHolderDetails(ctx context.Context, callerID string, update domain.HolderUpdate) (domain.Account, error) {
	logger.Info("account repository update holder details", logger.Fields{
		"callerId": callerID,
	})

	const query = `
UPDATE accounts
SET email          = COALESCE($2, email),
    phone_number   = COALESCE($3, phone_number),
    aadhaar_number = COALESCE($4, aadhaar_number),
    pan_number     = COALESCE($5, pan_number),
    transfer_limit = COALESCE($6, transfer_limit),
    updated_at     = NOW()
WHERE caller_id = $1
RETURNING ` + accountColumns

	var limit *string
	if update.TransferLimit != nil {
		v := update.TransferLimit.String()
		limit = &v
	}

	account, err := scanAccount(r.db.QueryRowContext(
		ctx,
		query,
		callerID,
		update.Email,
		update.PhoneNumber,
		update.AadhaarNumber,
		update.PANNumber,
		limit,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		logger.Error("account repository update holder details failed", err, logger.Fields{
			"callerId": callerID,
		})
		return domain.Account{}, mapStoreErr("update holder details", err)
	}

	return account, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.CallerID,
		&account.CustomerID,
		&account.AccountNumber,
		&account.Name,
		&account.Email,
		&account.PhoneNumber,
		&account.AadhaarNumber,
		&account.PANNumber,
		&account.IFSCCode,
		&account.Balance,
		&account.TransferLimit,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	return account, err
}
