package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/priyabank/core-ledger/internal/adapter/http/models"
	"github.com/priyabank/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/priyabank/core-ledger/internal/commons"
	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/priyabank/core-ledger/internal/events"
	"github.com/priyabank/core-ledger/internal/logger"
)

// maxApprovalAttempts bounds the retry loop around account number
// collisions. A collision means another approval inserted the same number
// between our pre-check and the insert, so a fresh candidate almost always
// succeeds on the next attempt.
const maxApprovalAttempts = 5

type ApprovalService struct {
	requestRepo repo_interfaces.AccountRequestRepository
	accountRepo repo_interfaces.AccountRepository
	generator   *AccountNumberGenerator
	publisher   EventPublisher
}

func NewApprovalService(
	requestRepo repo_interfaces.AccountRequestRepository,
	accountRepo repo_interfaces.AccountRepository,
	generator *AccountNumberGenerator,
	publisher EventPublisher,
) *ApprovalService {
	return &ApprovalService{
		requestRepo: requestRepo,
		accountRepo: accountRepo,
		generator:   generator,
		publisher:   publisher,
	}
}

func (s *ApprovalService) ListPending(ctx context.Context) (commons.Response[[]models.AccountRequestResponse], error) {
	requests, err := s.requestRepo.ListPending(ctx)
	if err != nil {
		logger.Error("approval service list pending failed", err, nil)
		return commons.ErrorResponse[[]models.AccountRequestResponse]("failed to list requests", "Unable to list requests right now"), err
	}

	responses := make([]models.AccountRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, toAccountRequestResponse(request))
	}

	return commons.SuccessResponse("pending requests", responses), nil
}

func (s *ApprovalService) ListCustomers(ctx context.Context) (commons.Response[[]models.AccountResponse], error) {
	accounts, err := s.accountRepo.List(ctx)
	if err != nil {
		logger.Error("approval service list customers failed", err, nil)
		return commons.ErrorResponse[[]models.AccountResponse]("failed to list customers", "Unable to list customers right now"), err
	}

	responses := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, toAccountResponse(account))
	}

	return commons.SuccessResponse("customers", responses), nil
}

// Approve promotes a pending request into an active account. Each attempt
// draws a fresh 12-digit number; the store's uniqueness constraint is the
// final arbiter and a collision there retries with a new candidate. The
// request row is removed in the same store transaction that creates the
// account, so a request is never both pending and approved.
func (s *ApprovalService) Approve(ctx context.Context, req models.ApproveAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("approval service approve request", logger.Fields{
		"callerId": req.CallerID,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	var account domain.Account
	var err error

	for attempt := 0; attempt < maxApprovalAttempts; attempt++ {
		var accountNumber string
		accountNumber, err = s.generator.Generate(ctx)
		if err != nil {
			logger.Error("approval service generate account number failed", err, logger.Fields{
				"callerId": req.CallerID,
			})
			return commons.ErrorResponse[models.AccountResponse]("failed to approve request", "Unable to approve right now"), err
		}

		account, err = s.requestRepo.Approve(ctx, req.CallerID, accountNumber, domain.OpeningCredit)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrConflict) {
			logger.Warn("approval service account number collision", logger.Fields{
				"callerId": req.CallerID,
				"attempt":  attempt + 1,
			})
			continue
		}
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("no pending request for this caller"), err
		}
		logger.Error("approval service approve failed", err, logger.Fields{
			"callerId": req.CallerID,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to approve request", "Unable to approve right now"), err
	}
	if err != nil {
		err = fmt.Errorf("approve request after %d attempts: %w", maxApprovalAttempts, err)
		return commons.ErrorResponse[models.AccountResponse]("failed to approve request", "Unable to approve right now"), err
	}

	publishEvent(ctx, s.publisher, events.RequestEventsStream, events.RequestApproved, events.RequestApprovedEvent{
		CallerID:      account.CallerID,
		CustomerID:    account.CustomerID,
		AccountNumber: account.AccountNumber,
	})

	logger.Info("approval service request approved", logger.Fields{
		"callerId":      account.CallerID,
		"customerId":    account.CustomerID,
		"accountNumber": account.AccountNumber,
	})

	return commons.SuccessResponse("account request approved", toAccountResponse(account)), nil
}

func (s *ApprovalService) Reject(ctx context.Context, req models.RejectAccountRequest) (commons.Response[struct{}], error) {
	logger.Info("approval service reject request", logger.Fields{
		"callerId": req.CallerID,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[struct{}]("validation failed", err.Error()), err
	}

	if err := s.requestRepo.Delete(ctx, req.CallerID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[struct{}]("no pending request for this caller"), err
		}
		logger.Error("approval service reject failed", err, logger.Fields{
			"callerId": req.CallerID,
		})
		return commons.ErrorResponse[struct{}]("failed to reject request", "Unable to reject right now"), err
	}

	publishEvent(ctx, s.publisher, events.RequestEventsStream, events.RequestRejected, events.RequestRejectedEvent{
		CallerID: req.CallerID,
	})

	return commons.SuccessResponse("account request rejected", struct{}{}), nil
}

func toAccountResponse(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		CallerID:      account.CallerID,
		CustomerID:    account.CustomerID,
		AccountNumber: account.AccountNumber,
		Name:          account.Name,
		Email:         account.Email,
		PhoneNumber:   account.PhoneNumber,
		AadhaarNumber: account.AadhaarNumber,
		PANNumber:     account.PANNumber,
		IFSCCode:      account.IFSCCode,
		Balance:       account.Balance,
		TransferLimit: account.TransferLimit,
		Status:        string(account.Status),
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}
}
