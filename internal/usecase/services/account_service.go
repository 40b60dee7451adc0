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

type AccountService struct {
	accountRepo repo_interfaces.AccountRepository
	publisher   EventPublisher
}

func NewAccountService(accountRepo repo_interfaces.AccountRepository, publisher EventPublisher) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		publisher:   publisher,
	}
}

func (s *AccountService) GetDetails(ctx context.Context, callerID string) (commons.Response[models.AccountResponse], error) {
	account, err := s.accountRepo.GetByCallerID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("no account for this profile"), err
		}
		logger.Error("account service get details failed", err, logger.Fields{
			"callerId": callerID,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to load account", "Unable to load account right now"), err
	}

	return commons.SuccessResponse("account details", toAccountResponse(account)), nil
}

func (s *AccountService) UpdateDetails(ctx context.Context, callerID string, req models.UpdateAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service update details request", logger.Fields{
		"callerId": callerID,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	if req.PhoneNumber != nil {
		holders, err := s.accountRepo.FindByPhoneNumber(ctx, *req.PhoneNumber)
		if err != nil {
			return commons.ErrorResponse[models.AccountResponse]("failed to update account", "Unable to update right now"), err
		}
		for _, holder := range holders {
			if holder.CallerID != callerID {
				conflict := fmt.Errorf("phone number already backs another account: %w", domain.ErrConflict)
				return commons.ErrorResponse[models.AccountResponse]("phone number is already in use by another account"), conflict
			}
		}
	}

	account, err := s.accountRepo.UpdateHolderDetails(ctx, callerID, domain.HolderUpdate{
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
		AadhaarNumber: req.AadhaarNumber,
		PANNumber:     req.PANNumber,
		TransferLimit: req.TransferLimit,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("no account for this profile"), err
		}
		logger.Error("account service update details failed", err, logger.Fields{
			"callerId": callerID,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to update account", "Unable to update right now"), err
	}

	publishEvent(ctx, s.publisher, events.AccountEventsStream, events.AccountUpdated, events.AccountUpdatedEvent{
		CallerID: account.CallerID,
	})

	logger.Info("account service details updated", logger.Fields{
		"callerId": account.CallerID,
	})

	return commons.SuccessResponse("account updated", toAccountResponse(account)), nil
}
