package domain

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// UserProfile is the registered identity behind a caller. Account ownership
// is tracked separately; a profile exists from registration onwards.
type UserProfile struct {
	CallerID     string
	Name         string
	DOB          string
	Email        string
	PhoneNumber  string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

// Caller is the authenticated identity attached to a request context.
type Caller struct {
	ID    string
	Email string
	Role  Role
}
