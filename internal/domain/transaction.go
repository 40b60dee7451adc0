package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const TransactionStatusCompleted TransactionStatus = "Completed"

const TransactionTypeTransfer = "transfer"

// Transaction is an immutable ledger entry. Sender and recipient reference
// accounts by owner identity; rows are append-only.
type Transaction struct {
	ID            string
	SenderID      string
	RecipientID   string
	RecipientName string
	Amount        decimal.Decimal
	Type          string
	Status        TransactionStatus
	CreatedAt     time.Time
}
