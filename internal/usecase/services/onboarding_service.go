package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/priyabank/core-ledger/internal/adapter/http/models"
	"github.com/priyabank/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/priyabank/core-ledger/internal/commons"
	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/priyabank/core-ledger/internal/events"
	"github.com/priyabank/core-ledger/internal/logger"
)

// OnboardingService turns a registered profile into a pending account
// request. Customer identifiers are allocated here, before the request is
// stored, so the eventual account carries the number the customer was shown.
type OnboardingService struct {
	userRepo    repo_interfaces.UserRepository
	requestRepo repo_interfaces.AccountRequestRepository
	accountRepo repo_interfaces.AccountRepository
	counterRepo repo_interfaces.CustomerCounterRepository
	publisher   EventPublisher
	bankIFSC    string
}

func NewOnboardingService(
	userRepo repo_interfaces.UserRepository,
	requestRepo repo_interfaces.AccountRequestRepository,
	accountRepo repo_interfaces.AccountRepository,
	counterRepo repo_interfaces.CustomerCounterRepository,
	publisher EventPublisher,
	bankIFSC string,
) *OnboardingService {
	return &OnboardingService{
		userRepo:    userRepo,
		requestRepo: requestRepo,
		accountRepo: accountRepo,
		counterRepo: counterRepo,
		publisher:   publisher,
		bankIFSC:    bankIFSC,
	}
}

func (s *OnboardingService) SubmitAccountRequest(ctx context.Context, callerID string, req models.SubmitAccountRequestRequest) (commons.Response[models.AccountRequestResponse], error) {
	logger.Info("onboarding service submit request", logger.Fields{
		"callerId": callerID,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.AccountRequestResponse]("validation failed", err.Error()), err
	}

	profile, err := s.userRepo.GetByCallerID(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountRequestResponse]("profile not found"), err
		}
		return commons.ErrorResponse[models.AccountRequestResponse]("failed to submit request", "Unable to submit right now"), err
	}

	if _, err := s.accountRepo.GetByCallerID(ctx, callerID); err == nil {
		conflict := fmt.Errorf("caller already holds an account: %w", domain.ErrConflict)
		return commons.ErrorResponse[models.AccountRequestResponse]("an account already exists for this profile"), conflict
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		return commons.ErrorResponse[models.AccountRequestResponse]("failed to submit request", "Unable to submit right now"), err
	}

	if _, err := s.requestRepo.GetByCallerID(ctx, callerID); err == nil {
		conflict := fmt.Errorf("a request is already pending for this caller: %w", domain.ErrConflict)
		return commons.ErrorResponse[models.AccountRequestResponse]("a request is already pending for this profile"), conflict
	} else if !errors.Is(err, domain.ErrRecordNotFound) {
		return commons.ErrorResponse[models.AccountRequestResponse]("failed to submit request", "Unable to submit right now"), err
	}

	// Transfers resolve recipients by phone number, so a number may back at
	// most one account. Reject the request up front instead of creating an
	// account nobody can pay.
	holders, err := s.accountRepo.FindByPhoneNumber(ctx, profile.PhoneNumber)
	if err != nil {
		return commons.ErrorResponse[models.AccountRequestResponse]("failed to submit request", "Unable to submit right now"), err
	}
	if len(holders) > 0 {
		conflict := fmt.Errorf("phone number already backs an account: %w", domain.ErrConflict)
		return commons.ErrorResponse[models.AccountRequestResponse]("phone number is already in use by another account"), conflict
	}

	customerID, err := s.counterRepo.Next(ctx)
	if err != nil {
		logger.Error("onboarding service allocate customer id failed", err, logger.Fields{
			"callerId": callerID,
		})
		return commons.ErrorResponse[models.AccountRequestResponse]("failed to submit request", "Unable to submit right now"), err
	}

	request := domain.AccountRequest{
		CallerID:      callerID,
		CustomerID:    customerID,
		Name:          profile.Name,
		Email:         profile.Email,
		PhoneNumber:   profile.PhoneNumber,
		AadhaarNumber: strings.TrimSpace(req.AadhaarNumber),
		PANNumber:     strings.ToUpper(strings.TrimSpace(req.PANNumber)),
		IFSCCode:      s.bankIFSC,
		Status:        domain.RequestStatusPending,
	}

	created, err := s.requestRepo.Create(ctx, request)
	if err != nil {
		logger.Error("onboarding service create request failed", err, logger.Fields{
			"callerId": callerID,
		})
		if errors.Is(err, domain.ErrConflict) {
			return commons.ErrorResponse[models.AccountRequestResponse]("a request is already pending for this profile"), err
		}
		return commons.ErrorResponse[models.AccountRequestResponse]("failed to submit request", "Unable to submit right now"), err
	}

	publishEvent(ctx, s.publisher, events.RequestEventsStream, events.RequestCreated, events.RequestCreatedEvent{
		CallerID:   created.CallerID,
		CustomerID: created.CustomerID,
		Name:       created.Name,
	})

	logger.Info("onboarding service request created", logger.Fields{
		"callerId":   created.CallerID,
		"customerId": created.CustomerID,
	})

	return commons.SuccessResponse("account request submitted", toAccountRequestResponse(created)), nil
}

func toAccountRequestResponse(request domain.AccountRequest) models.AccountRequestResponse {
	return models.AccountRequestResponse{
		CallerID:    request.CallerID,
		CustomerID:  request.CustomerID,
		Name:        request.Name,
		Email:       request.Email,
		PhoneNumber: request.PhoneNumber,
		IFSCCode:    request.IFSCCode,
		Status:      string(request.Status),
		CreatedAt:   request.CreatedAt,
	}
}
