package repo_interfaces

import (
	"context"

	"github.com/priyabank/core-ledger/internal/domain"
)

type AccountRepository interface {
	GetByCallerID(ctx context.Context, callerID string) (domain.Account, error)
	FindByPhoneNumber(ctx context.Context, phoneNumber string) ([]domain.Account, error)
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)
	List(ctx context.Context) ([]domain.Account, error)
	UpdateHolderDetails(ctx context.Context, callerID string, update domain.HolderUpdate) (domain.Account, error)
}
