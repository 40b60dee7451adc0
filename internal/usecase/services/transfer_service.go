package services

import (
	"context"
	"errors"

	"github.com/priyabank/core-ledger/internal/adapter/http/models"
	"github.com/priyabank/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/priyabank/core-ledger/internal/commons"
	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/priyabank/core-ledger/internal/events"
	"github.com/priyabank/core-ledger/internal/logger"
	"github.com/shopspring/decimal"
)

// TransferService moves money between two accounts. Recipients are resolved
// by phone number at transfer time; the debit, credit and ledger append
// happen in one store transaction or not at all.
type TransferService struct {
	accountRepo     repo_interfaces.AccountRepository
	transactionRepo repo_interfaces.TransactionRepository
	publisher       EventPublisher
}

func NewTransferService(
	accountRepo repo_interfaces.AccountRepository,
	transactionRepo repo_interfaces.TransactionRepository,
	publisher EventPublisher,
) *TransferService {
	return &TransferService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
	}
}

func (s *TransferService) Transfer(ctx context.Context, caller domain.Caller, req models.TransferRequest) (commons.Response[models.TransferResponse], error) {
	logger.Info("transfer service transfer request", logger.Fields{
		"callerId": caller.ID,
		"amount":   req.Amount.String(),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return commons.ErrorResponse[models.TransferResponse](domain.ErrInvalidAmount.Error()), domain.ErrInvalidAmount
	}

	sender, err := s.accountRepo.GetByCallerID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransferResponse]("no account for this profile"), err
		}
		return commons.ErrorResponse[models.TransferResponse]("failed to transfer", "Unable to transfer right now"), err
	}

	recipient, err := s.resolveRecipient(ctx, req.RecipientPhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			return commons.ErrorResponse[models.TransferResponse]("no account matches this phone number"), err
		case errors.Is(err, domain.ErrAmbiguousRecipient):
			return commons.ErrorResponse[models.TransferResponse](domain.ErrAmbiguousRecipient.Error()), err
		default:
			return commons.ErrorResponse[models.TransferResponse]("failed to transfer", "Unable to transfer right now"), err
		}
	}

	if recipient.CallerID == sender.CallerID {
		return commons.ErrorResponse[models.TransferResponse](domain.ErrSelfTransfer.Error()), domain.ErrSelfTransfer
	}

	// A zero limit means the holder never configured one.
	if sender.TransferLimit.IsPositive() && req.Amount.GreaterThan(sender.TransferLimit) {
		return commons.ErrorResponse[models.TransferResponse](domain.ErrTransferLimitExceeded.Error()), domain.ErrTransferLimitExceeded
	}

	// Early rejection only; the store's balance guard decides under
	// concurrency.
	if sender.Balance.LessThan(req.Amount) {
		return commons.ErrorResponse[models.TransferResponse](domain.ErrInsufficientFunds.Error()), domain.ErrInsufficientFunds
	}

	transaction, err := s.transactionRepo.ProcessTransfer(ctx, sender.CallerID, recipient.CallerID, recipient.Name, req.Amount, domain.TransactionTypeTransfer)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			return commons.ErrorResponse[models.TransferResponse](domain.ErrInsufficientFunds.Error()), err
		}
		logger.Error("transfer service process transfer failed", err, logger.Fields{
			"callerId":    caller.ID,
			"recipientId": recipient.CallerID,
		})
		return commons.ErrorResponse[models.TransferResponse]("failed to transfer", "Unable to transfer right now"), err
	}

	publishEvent(ctx, s.publisher, events.LedgerEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: transaction.ID,
		SenderID:      transaction.SenderID,
		RecipientID:   transaction.RecipientID,
		Amount:        transaction.Amount.String(),
		Type:          transaction.Type,
	})

	logger.Info("transfer service transfer completed", logger.Fields{
		"transactionId": transaction.ID,
		"callerId":      caller.ID,
		"recipientId":   recipient.CallerID,
		"amount":        transaction.Amount.String(),
	})

	response := models.TransferResponse{
		TransactionID: transaction.ID,
		RecipientID:   transaction.RecipientID,
		RecipientName: transaction.RecipientName,
		Amount:        transaction.Amount,
		Type:          transaction.Type,
		Status:        string(transaction.Status),
		CreatedAt:     transaction.CreatedAt,
	}

	return commons.SuccessResponse("transfer completed", response), nil
}

// resolveRecipient maps a phone number to exactly one account. Zero matches
// is not found; more than one cannot be settled automatically and the caller
// must disambiguate out of band.
func (s *TransferService) resolveRecipient(ctx context.Context, phoneNumber string) (domain.Account, error) {
	matches, err := s.accountRepo.FindByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		return domain.Account{}, err
	}

	switch len(matches) {
	case 0:
		return domain.Account{}, domain.ErrRecordNotFound
	case 1:
		return matches[0], nil
	default:
		return domain.Account{}, domain.ErrAmbiguousRecipient
	}
}
