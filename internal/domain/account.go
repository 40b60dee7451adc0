package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusApproved AccountStatus = "approved"
	AccountStatusFrozen   AccountStatus = "frozen"
)

// OpeningCredit is the fixed balance granted to every newly approved account.
var OpeningCredit = decimal.NewFromInt(100000)

// Account is a customer bank account. It is created only by the approval
// workflow; AccountNumber is globally unique and never changes afterwards.
type Account struct {
	CallerID      string
	CustomerID    int64
	AccountNumber string
	Name          string
	Email         string
	PhoneNumber   string
	AadhaarNumber string
	PANNumber     string
	IFSCCode      string
	Balance       decimal.Decimal
	TransferLimit decimal.Decimal
	Status        AccountStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HolderUpdate carries the account fields the holder may change. Nil fields
// are left untouched.
type HolderUpdate struct {
	Email         *string
	PhoneNumber   *string
	AadhaarNumber *string
	PANNumber     *string
	TransferLimit *decimal.Decimal
}
