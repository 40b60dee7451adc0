package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/priyabank/core-ledger/internal/adapter/http/models"
	"github.com/priyabank/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/priyabank/core-ledger/internal/commons"
	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/priyabank/core-ledger/internal/events"
	"github.com/priyabank/core-ledger/internal/logger"
	"golang.org/x/sync/errgroup"
)

const unknownHolderName = "Unknown"

// enrichConcurrency caps parallel account lookups during name enrichment.
const enrichConcurrency = 4

// HistoryService renders a caller's ledger entries. Raw rows carry identity
// references and a recipient name snapshot; rendering enriches them with the
// holders' current display names so renames show up without rewriting
// history.
type HistoryService struct {
	accountRepo     repo_interfaces.AccountRepository
	transactionRepo repo_interfaces.TransactionRepository
}

func NewHistoryService(
	accountRepo repo_interfaces.AccountRepository,
	transactionRepo repo_interfaces.TransactionRepository,
) *HistoryService {
	return &HistoryService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// List returns the caller's transactions, newest first, optionally narrowed
// by a case-insensitive substring match on the transaction type.
func (s *HistoryService) List(ctx context.Context, callerID string, typeFilter string) (commons.Response[[]models.TransactionEntry], error) {
	entries, err := s.snapshot(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[[]models.TransactionEntry]("no account for this profile"), err
		}
		logger.Error("history service list failed", err, logger.Fields{
			"callerId": callerID,
		})
		return commons.ErrorResponse[[]models.TransactionEntry]("failed to list transactions", "Unable to list transactions right now"), err
	}

	entries = filterByType(entries, typeFilter)

	return commons.SuccessResponse("transactions", entries), nil
}

// Watch streams history snapshots for one caller. The first snapshot is sent
// immediately; afterwards every ledger event that touches the caller
// triggers a fresh one. The returned channel closes when ctx ends or the
// updates channel closes.
func (s *HistoryService) Watch(ctx context.Context, callerID string, updates <-chan events.Event) <-chan []models.TransactionEntry {
	out := make(chan []models.TransactionEntry, 1)

	go func() {
		defer close(out)

		emit := func() {
			entries, err := s.snapshot(ctx, callerID)
			if err != nil {
				if ctx.Err() == nil {
					logger.Error("history service snapshot failed", err, logger.Fields{
						"callerId": callerID,
					})
				}
				return
			}
			select {
			case out <- entries:
			case <-ctx.Done():
			}
		}

		emit()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-updates:
				if !ok {
					return
				}
				if !eventTouchesCaller(event, callerID) {
					continue
				}
				emit()
			}
		}
	}()

	return out
}

func (s *HistoryService) snapshot(ctx context.Context, callerID string) ([]models.TransactionEntry, error) {
	account, err := s.accountRepo.GetByCallerID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.ListBySender(ctx, callerID)
	if err != nil {
		return nil, err
	}

	names, err := s.lookupNames(ctx, distinctRecipientIDs(transactions))
	if err != nil {
		return nil, err
	}

	entries := make([]models.TransactionEntry, 0, len(transactions))
	for _, transaction := range transactions {
		recipientName := names[transaction.RecipientID]
		if recipientName == "" {
			// The recipient account may be gone; fall back to the name
			// recorded when the transfer settled.
			recipientName = transaction.RecipientName
		}
		if recipientName == "" {
			recipientName = unknownHolderName
		}

		entries = append(entries, models.TransactionEntry{
			ID:            transaction.ID,
			SenderID:      transaction.SenderID,
			SenderName:    account.Name,
			RecipientID:   transaction.RecipientID,
			RecipientName: recipientName,
			Amount:        transaction.Amount,
			Type:          transaction.Type,
			Status:        string(transaction.Status),
			CreatedAt:     transaction.CreatedAt,
		})
	}

	return entries, nil
}

// lookupNames fetches current display names for a set of account owners.
// Missing accounts resolve to an empty name; any other store error aborts.
func (s *HistoryService) lookupNames(ctx context.Context, callerIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(callerIDs))
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(enrichConcurrency)

	for _, id := range callerIDs {
		group.Go(func() error {
			account, err := s.accountRepo.GetByCallerID(groupCtx, id)
			if err != nil {
				if errors.Is(err, domain.ErrRecordNotFound) {
					return nil
				}
				return err
			}
			mu.Lock()
			names[id] = account.Name
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return names, nil
}

func distinctRecipientIDs(transactions []domain.Transaction) []string {
	seen := make(map[string]struct{}, len(transactions))
	ids := make([]string, 0, len(transactions))
	for _, transaction := range transactions {
		if _, ok := seen[transaction.RecipientID]; ok {
			continue
		}
		seen[transaction.RecipientID] = struct{}{}
		ids = append(ids, transaction.RecipientID)
	}
	return ids
}

func filterByType(entries []models.TransactionEntry, typeFilter string) []models.TransactionEntry {
	needle := strings.ToLower(strings.TrimSpace(typeFilter))
	if needle == "" {
		return entries
	}

	filtered := make([]models.TransactionEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Type), needle) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// eventTouchesCaller reports whether a ledger event involves the caller as
// sender or recipient. Events that cannot be inspected count as touching,
// so a malformed payload degrades to an extra refresh instead of a miss.
func eventTouchesCaller(event events.Event, callerID string) bool {
	if event.Type != events.TransactionCreated {
		return false
	}

	data, ok := event.Data.(map[string]any)
	if !ok {
		return true
	}

	senderID, _ := data["senderId"].(string)
	recipientID, _ := data["recipientId"].(string)
	if senderID == "" && recipientID == "" {
		return true
	}
	return senderID == callerID || recipientID == callerID
}
