package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type TransferRequest struct {
	RecipientPhoneNumber string          `json:"recipientPhoneNumber"`
	Amount               decimal.Decimal `json:"amount"`
}

func (r TransferRequest) Validate() error {
	if !isPhoneNumber(r.RecipientPhoneNumber) {
		return errors.New("recipientPhoneNumber must be 10 digits")
	}
	return nil
}

type TransferResponse struct {
	TransactionID string          `json:"transactionId"`
	RecipientID   string          `json:"recipientId"`
	RecipientName string          `json:"recipientName"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type TransactionEntry struct {
	ID            string          `json:"id"`
	SenderID      string          `json:"senderId"`
	SenderName    string          `json:"senderName"`
	RecipientID   string          `json:"recipientId"`
	RecipientName string          `json:"recipientName"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}
