package events

import "time"

// Event types
const (
	RequestCreated  = "request.created"
	RequestApproved = "request.approved"
	RequestRejected = "request.rejected"

	AccountUpdated = "account.updated"

	TransactionCreated = "transaction.created"
)

// Stream names
const (
	RequestEventsStream = "request.events"
	AccountEventsStream = "account.events"
	LedgerEventsStream  = "ledger.events"
)

type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type RequestCreatedEvent struct {
	CallerID   string `json:"callerId"`
	CustomerID int64  `json:"customerId"`
	Name       string `json:"name"`
}

type RequestApprovedEvent struct {
	CallerID      string `json:"callerId"`
	CustomerID    int64  `json:"customerId"`
	AccountNumber string `json:"accountNumber"`
}

type RequestRejectedEvent struct {
	CallerID string `json:"callerId"`
}

type AccountUpdatedEvent struct {
	CallerID string `json:"callerId"`
}

type TransactionCreatedEvent struct {
	TransactionID string `json:"transactionId"`
	SenderID      string `json:"senderId"`
	RecipientID   string `json:"recipientId"`
	Amount        string `json:"amount"`
	Type          string `json:"type"`
}
