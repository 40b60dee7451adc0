package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AccountResponse struct {
	CallerID      string          `json:"callerId"`
	CustomerID    int64           `json:"customerId"`
	AccountNumber string          `json:"accountNumber"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	PhoneNumber   string          `json:"phoneNumber"`
	AadhaarNumber string          `json:"aadhaarNumber"`
	PANNumber     string          `json:"panNumber"`
	IFSCCode      string          `json:"ifscCode"`
	Balance       decimal.Decimal `json:"balance"`
	TransferLimit decimal.Decimal `json:"transferLimit"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type UpdateAccountRequest struct {
	Email         *string          `json:"email,omitempty"`
	PhoneNumber   *string          `json:"phoneNumber,omitempty"`
	AadhaarNumber *string          `json:"aadhaarNumber,omitempty"`
	PANNumber     *string          `json:"panNumber,omitempty"`
	TransferLimit *decimal.Decimal `json:"transferLimit,omitempty"`
}

func (r UpdateAccountRequest) Validate() error {
	var errs []string

	if r.Email == nil && r.PhoneNumber == nil && r.AadhaarNumber == nil &&
		r.PANNumber == nil && r.TransferLimit == nil {
		errs = append(errs, "at least one field must be provided")
	}
	if r.Email != nil && !isEmail(*r.Email) {
		errs = append(errs, "email must be a valid address")
	}
	if r.PhoneNumber != nil && !isPhoneNumber(*r.PhoneNumber) {
		errs = append(errs, "phoneNumber must be 10 digits")
	}
	if r.AadhaarNumber != nil {
		aadhaar := strings.TrimSpace(*r.AadhaarNumber)
		if len(aadhaar) != 12 || !digitsOnly(aadhaar) {
			errs = append(errs, "aadhaarNumber must be exactly 12 digits")
		}
	}
	if r.PANNumber != nil && len(strings.TrimSpace(*r.PANNumber)) != 10 {
		errs = append(errs, "panNumber must be exactly 10 characters")
	}
	if r.TransferLimit != nil && r.TransferLimit.IsNegative() {
		errs = append(errs, "transferLimit cannot be negative")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
