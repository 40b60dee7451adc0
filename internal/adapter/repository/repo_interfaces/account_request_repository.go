package repo_interfaces

import (
	"context"

	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountRequestRepository interface {
	Create(ctx context.Context, request domain.AccountRequest) (domain.AccountRequest, error)
	GetByCallerID(ctx context.Context, callerID string) (domain.AccountRequest, error)
	ListPending(ctx context.Context) ([]domain.AccountRequest, error)

	// Approve materializes the pending request as an account and removes the
	// request in a single store transaction. The account number must be fresh;
	// a uniqueness collision surfaces as domain.ErrConflict so the caller can
	// retry with a new candidate.
	Approve(ctx context.Context, callerID string, accountNumber string, openingBalance decimal.Decimal) (domain.Account, error)

	Delete(ctx context.Context, callerID string) error
}
