package postgres

import (
	"context"
	"database/sql"

	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/priyabank/core-ledger/internal/logger"
	"github.com/shopspring/decimal"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ProcessTransfer posts the debit, the credit and the ledger entry in one
// transaction. The debit statement carries a balance guard; when another
// transfer drains the sender first, the guard matches no row and the whole
// posting rolls back with domain.ErrInsufficientFunds.
func (r *TransactionRepository) ProcessTransfer(ctx context.Context, senderID, recipientID, recipientName string, amount decimal.Decimal, transactionType string) (domain.Transaction, error) {
	logger.Info("transaction repository process transfer", logger.Fields{
		"senderId":    senderID,
		"recipientId": recipientID,
		"amount":      amount,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("transaction repository begin tx failed", err, nil)
		return domain.Transaction{}, mapStoreErr("begin transfer transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const debitQuery = `
UPDATE accounts
SET balance    = balance - $2::numeric,
    updated_at = NOW()
WHERE caller_id = $1
  AND balance >= $2::numeric`
	if err = execRequiredRows(ctx, tx, domain.ErrInsufficientFunds, debitQuery, senderID, amount); err != nil {
		return domain.Transaction{}, err
	}

	const creditQuery = `
UPDATE accounts
SET balance    = balance + $2::numeric,
    updated_at = NOW()
WHERE caller_id = $1`
	if err = execRequiredRows(ctx, tx, domain.ErrRecordNotFound, creditQuery, recipientID, amount); err != nil {
		return domain.Transaction{}, err
	}

	const appendQuery = `
INSERT INTO transactions (sender_id, recipient_id, recipient_name, amount, type, status)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`

	record := domain.Transaction{
		SenderID:      senderID,
		RecipientID:   recipientID,
		RecipientName: recipientName,
		Amount:        amount,
		Type:          transactionType,
		Status:        domain.TransactionStatusCompleted,
	}
	if err = tx.QueryRowContext(
		ctx,
		appendQuery,
		record.SenderID,
		record.RecipientID,
		record.RecipientName,
		record.Amount,
		record.Type,
		record.Status,
	).Scan(&record.ID, &record.CreatedAt); err != nil {
		logger.Error("transaction repository ledger append failed", err, logger.Fields{
			"senderId": senderID,
		})
		return domain.Transaction{}, mapStoreErr("append ledger entry", err)
	}

	if err = tx.Commit(); err != nil {
		logger.Error("transaction repository commit tx failed", err, nil)
		return domain.Transaction{}, mapStoreErr("commit transfer transaction", err)
	}

	logger.Info("transaction repository process transfer success", logger.Fields{
		"transactionId": record.ID,
		"senderId":      senderID,
		"recipientId":   recipientID,
	})

	return record, nil
}

func (r *TransactionRepository) ListBySender(ctx context.Context, senderID string) ([]domain.Transaction, error) {
	const query = `
SELECT id, sender_id, recipient_id, recipient_name, amount, type, status, created_at
FROM transactions
WHERE sender_id = $1
ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, senderID)
	if err != nil {
		logger.Error("transaction repository list by sender failed", err, logger.Fields{
			"senderId": senderID,
		})
		return nil, mapStoreErr("list transactions by sender", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var record domain.Transaction
		if err := rows.Scan(
			&record.ID,
			&record.SenderID,
			&record.RecipientID,
			&record.RecipientName,
			&record.Amount,
			&record.Type,
			&record.Status,
			&record.CreatedAt,
		); err != nil {
			return nil, mapStoreErr("scan transaction row", err)
		}
		transactions = append(transactions, record)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreErr("iterate transaction rows", err)
	}

	return transactions, nil
}
