package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type LoanRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Purpose string          `json:"purpose"`
}

func (r LoanRequest) Validate() error {
	var errs []string

	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}
	if strings.TrimSpace(r.Purpose) == "" {
		errs = append(errs, "purpose is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type LoanResponse struct {
	CallerID  string          `json:"callerId"`
	Amount    decimal.Decimal `json:"amount"`
	Purpose   string          `json:"purpose"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
