package repo_interfaces

import (
	"context"

	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type TransactionRepository interface {
	// ProcessTransfer applies the debit, the credit and the ledger append as
	// one store transaction. The debit carries a balance guard, so concurrent
	// transfers against the same sender serialize and can never drive the
	// balance negative; a lost guard maps to domain.ErrInsufficientFunds with
	// no writes applied.
	ProcessTransfer(ctx context.Context, senderID, recipientID, recipientName string, amount decimal.Decimal, transactionType string) (domain.Transaction, error)

	ListBySender(ctx context.Context, senderID string) ([]domain.Transaction, error)
}
