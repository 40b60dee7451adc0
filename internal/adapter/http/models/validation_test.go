package models

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRegisterRequestValidate(t *testing.T) {
	valid := RegisterRequest{
		Name:        "Asha Verma",
		DOB:         "1990-01-01",
		Email:       "asha@example.com",
		PhoneNumber: "9000000001",
		Password:    "longenough",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid registration rejected: %v", err)
	}

	short := valid
	short.Password = "short"
	if err := short.Validate(); err == nil || !strings.Contains(err.Error(), "password") {
		t.Fatalf("expected password error, got %v", err)
	}

	badPhone := valid
	badPhone.PhoneNumber = "90000"
	if err := badPhone.Validate(); err == nil || !strings.Contains(err.Error(), "phoneNumber") {
		t.Fatalf("expected phone error, got %v", err)
	}

	badEmail := valid
	badEmail.Email = "not-an-email"
	if err := badEmail.Validate(); err == nil || !strings.Contains(err.Error(), "email") {
		t.Fatalf("expected email error, got %v", err)
	}
}

func TestSubmitAccountRequestValidate(t *testing.T) {
	valid := SubmitAccountRequestRequest{
		AadhaarNumber: "123456789012",
		PANNumber:     "ABCDE1234F",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	badAadhaar := valid
	badAadhaar.AadhaarNumber = "12345"
	if err := badAadhaar.Validate(); err == nil || !strings.Contains(err.Error(), "aadhaarNumber") {
		t.Fatalf("expected aadhaar error, got %v", err)
	}

	badPAN := valid
	badPAN.PANNumber = "ABC"
	if err := badPAN.Validate(); err == nil || !strings.Contains(err.Error(), "panNumber") {
		t.Fatalf("expected pan error, got %v", err)
	}
}

func TestUpdateAccountRequestValidate(t *testing.T) {
	if err := (UpdateAccountRequest{}).Validate(); err == nil {
		t.Fatal("expected error for empty update")
	}

	negative := decimal.NewFromInt(-1)
	if err := (UpdateAccountRequest{TransferLimit: &negative}).Validate(); err == nil {
		t.Fatal("expected error for negative transfer limit")
	}

	zero := decimal.Zero
	if err := (UpdateAccountRequest{TransferLimit: &zero}).Validate(); err != nil {
		t.Fatalf("zero limit clears the cap and must validate: %v", err)
	}
}

func TestTransferRequestValidate(t *testing.T) {
	valid := TransferRequest{
		RecipientPhoneNumber: "9000000001",
		Amount:               decimal.NewFromInt(10),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transfer rejected: %v", err)
	}

	if err := (TransferRequest{RecipientPhoneNumber: "letters904"}).Validate(); err == nil {
		t.Fatal("expected error for non-numeric phone")
	}
}
