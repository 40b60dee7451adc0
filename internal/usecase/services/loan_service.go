package services

import (
	"context"
	"errors"

	"github.com/priyabank/core-ledger/internal/adapter/http/models"
	"github.com/priyabank/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/priyabank/core-ledger/internal/commons"
	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/priyabank/core-ledger/internal/logger"
)

// LoanService records loan applications. A caller holds at most one
// application; resubmitting replaces it and resets the status to pending.
type LoanService struct {
	loanRepo    repo_interfaces.LoanRepository
	accountRepo repo_interfaces.AccountRepository
}

func NewLoanService(loanRepo repo_interfaces.LoanRepository, accountRepo repo_interfaces.AccountRepository) *LoanService {
	return &LoanService{
		loanRepo:    loanRepo,
		accountRepo: accountRepo,
	}
}

func (s *LoanService) Apply(ctx context.Context, callerID string, req models.LoanRequest) (commons.Response[models.LoanResponse], error) {
	logger.Info("loan service apply request", logger.Fields{
		"callerId": callerID,
		"amount":   req.Amount.String(),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.LoanResponse]("validation failed", err.Error()), err
	}

	// Only account holders may apply.
	if _, err := s.accountRepo.GetByCallerID(ctx, callerID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.LoanResponse]("no account for this profile"), err
		}
		return commons.ErrorResponse[models.LoanResponse]("failed to apply", "Unable to apply right now"), err
	}

	loan, err := s.loanRepo.Upsert(ctx, domain.LoanApplication{
		CallerID: callerID,
		Amount:   req.Amount,
		Purpose:  req.Purpose,
		Status:   domain.LoanStatusPending,
	})
	if err != nil {
		logger.Error("loan service upsert failed", err, logger.Fields{
			"callerId": callerID,
		})
		return commons.ErrorResponse[models.LoanResponse]("failed to apply", "Unable to apply right now"), err
	}

	return commons.SuccessResponse("loan application submitted", toLoanResponse(loan)), nil
}

func (s *LoanService) Get(ctx context.Context, callerID string) (commons.Response[models.LoanResponse], error) {
	loan, err := s.loanRepo.GetByCallerID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.LoanResponse]("no loan application for this profile"), err
		}
		logger.Error("loan service get failed", err, logger.Fields{
			"callerId": callerID,
		})
		return commons.ErrorResponse[models.LoanResponse]("failed to load loan application", "Unable to load right now"), err
	}

	return commons.SuccessResponse("loan application", toLoanResponse(loan)), nil
}

func toLoanResponse(loan domain.LoanApplication) models.LoanResponse {
	return models.LoanResponse{
		CallerID:  loan.CallerID,
		Amount:    loan.Amount,
		Purpose:   loan.Purpose,
		Status:    string(loan.Status),
		CreatedAt: loan.CreatedAt,
		UpdatedAt: loan.UpdatedAt,
	}
}
