package repo_interfaces

import (
	"context"

	"github.com/priyabank/core-ledger/internal/domain"
)

type LoanRepository interface {
	Upsert(ctx context.Context, loan domain.LoanApplication) (domain.LoanApplication, error)
	GetByCallerID(ctx context.Context, callerID string) (domain.LoanApplication, error)
}
