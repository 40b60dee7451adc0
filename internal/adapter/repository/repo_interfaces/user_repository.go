package repo_interfaces

import (
	"context"

	"github.com/priyabank/core-ledger/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.UserProfile) (domain.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (domain.UserProfile, error)
	GetByCallerID(ctx context.Context, callerID string) (domain.UserProfile, error)
}
