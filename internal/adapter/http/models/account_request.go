package models

import (
	"errors"
	"strings"
	"time"
)

type SubmitAccountRequestRequest struct {
	AadhaarNumber string `json:"aadhaarNumber"`
	PANNumber     string `json:"panNumber"`
}

func (r SubmitAccountRequestRequest) Validate() error {
	var errs []string

	aadhaar := strings.TrimSpace(r.AadhaarNumber)
	if len(aadhaar) != 12 || !digitsOnly(aadhaar) {
		errs = append(errs, "aadhaarNumber must be exactly 12 digits")
	}
	if len(strings.TrimSpace(r.PANNumber)) != 10 {
		errs = append(errs, "panNumber must be exactly 10 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type AccountRequestResponse struct {
	CallerID    string    `json:"callerId"`
	CustomerID  int64     `json:"customerId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	IFSCCode    string    `json:"ifscCode"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
