package domain

import "time"

type RequestStatus string

const RequestStatusPending RequestStatus = "pending"

// AccountRequest is a pending account-creation request, keyed by the caller
// identity. At most one live request exists per caller; approval or rejection
// deletes it.
type AccountRequest struct {
	CallerID      string
	CustomerID    int64
	Name          string
	Email         string
	PhoneNumber   string
	AadhaarNumber string
	PANNumber     string
	IFSCCode      string
	Status        RequestStatus
	CreatedAt     time.Time
}
