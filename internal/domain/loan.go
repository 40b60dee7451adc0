package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const LoanStatusPending LoanStatus = "pending"

// LoanApplication is keyed by caller identity; resubmitting replaces the
// previous application.
type LoanApplication struct {
	CallerID  string
	Amount    decimal.Decimal
	Purpose   string
	Status    LoanStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
