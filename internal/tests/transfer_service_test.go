package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/priyabank/core-ledger/internal/adapter/http/models"
	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/priyabank/core-ledger/internal/events"
	"github.com/priyabank/core-ledger/internal/usecase/services"
	"github.com/shopspring/decimal"
)

func newTransferFixture() (*fakeState, *services.TransferService, *capturingPublisher) {
	state := newFakeState()
	publisher := &capturingPublisher{}
	svc := services.NewTransferService(
		&fakeAccountRepo{s: state},
		&fakeTransactionRepo{s: state},
		publisher,
	)
	return state, svc, publisher
}

func seedAccount(state *fakeState, callerID, name, phone string, balance int64) {
	state.addAccount(domain.Account{
		CallerID:      callerID,
		AccountNumber: "11111111111" + callerID[len(callerID)-1:],
		Name:          name,
		PhoneNumber:   phone,
		Balance:       decimal.NewFromInt(balance),
		TransferLimit: decimal.Zero,
		Status:        domain.AccountStatusApproved,
	})
}

func TestTransferServiceValidationError(t *testing.T) {
	_, svc, _ := newTransferFixture()

	_, err := svc.Transfer(context.Background(), domain.Caller{ID: "a"}, models.TransferRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty transfer request")
	}
}

func TestTransferServiceRejectsNonPositiveAmount(t *testing.T) {
	state, svc, _ := newTransferFixture()
	seedAccount(state, "sender-1", "Asha", "9000000001", 1000)
	seedAccount(state, "recipient-1", "Ravi", "9000000002", 1000)

	_, err := svc.Transfer(context.Background(), domain.Caller{ID: "sender-1"}, models.TransferRequest{
		RecipientPhoneNumber: "9000000002",
		Amount:               decimal.Zero,
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	if got := state.balanceOf("sender-1"); !got.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("sender balance changed on rejected transfer: %s", got)
	}
}

func TestTransferServiceUnknownRecipient(t *testing.T) {
	state, svc, _ := newTransferFixture()
	seedAccount(state, "sender-1", "Asha", "9000000001", 1000)

	_, err := svc.Transfer(context.Background(), domain.Caller{ID: "sender-1"}, models.TransferRequest{
		RecipientPhoneNumber: "9999999999",
		Amount:               decimal.NewFromInt(10),
	})
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestTransferServiceAmbiguousRecipient(t *testing.T) {
	state, svc, _ := newTransferFixture()
	seedAccount(state, "sender-1", "Asha", "9000000001", 1000)
	seedAccount(state, "recipient-1", "Ravi", "9000000002", 1000)
	seedAccount(state, "recipient-2", "Raj", "9000000002", 1000)

	_, err := svc.Transfer(context.Background(), domain.Caller{ID: "sender-1"}, models.TransferRequest{
		RecipientPhoneNumber: "9000000002",
		Amount:               decimal.NewFromInt(10),
	})
	if !errors.Is(err, domain.ErrAmbiguousRecipient) {
		t.Fatalf("expected ErrAmbiguousRecipient, got %v", err)
	}
}

func TestTransferServiceRejectsSelfTransfer(t *testing.T) {
	state, svc, _ := newTransferFixture()
	seedAccount(state, "sender-1", "Asha", "9000000001", 1000)

	_, err := svc.Transfer(context.Background(), domain.Caller{ID: "sender-1"}, models.TransferRequest{
		RecipientPhoneNumber: "9000000001",
		Amount:               decimal.NewFromInt(10),
	})
	if !errors.Is(err, domain.ErrSelfTransfer) {
		t.Fatalf("expected ErrSelfTransfer, got %v", err)
	}
}

func TestTransferServiceEnforcesTransferLimit(t *testing.T) {
	state, svc, _ := newTransferFixture()
	seedAccount(state, "sender-1", "Asha", "9000000001", 1000)
	seedAccount(state, "recipient-1", "Ravi", "9000000002", 1000)

	state.mu.Lock()
	sender := state.accounts["sender-1"]
	sender.TransferLimit = decimal.NewFromInt(50)
	state.accounts["sender-1"] = sender
	state.mu.Unlock()

	_, err := svc.Transfer(context.Background(), domain.Caller{ID: "sender-1"}, models.TransferRequest{
		RecipientPhoneNumber: "9000000002",
		Amount:               decimal.NewFromInt(51),
	})
	if !errors.Is(err, domain.ErrTransferLimitExceeded) {
		t.Fatalf("expected ErrTransferLimitExceeded, got %v", err)
	}

	// At the limit is still allowed.
	if _, err := svc.Transfer(context.Background(), domain.Caller{ID: "sender-1"}, models.TransferRequest{
		RecipientPhoneNumber: "9000000002",
		Amount:               decimal.NewFromInt(50),
	}); err != nil {
		t.Fatalf("transfer at the limit failed: %v", err)
	}
}

func TestTransferServiceInsufficientFunds(t *testing.T) {
	state, svc, _ := newTransferFixture()
	seedAccount(state, "sender-1", "Asha", "9000000001", 30)
	seedAccount(state, "recipient-1", "Ravi", "9000000002", 0)

	_, err := svc.Transfer(context.Background(), domain.Caller{ID: "sender-1"}, models.TransferRequest{
		RecipientPhoneNumber: "9000000002",
		Amount:               decimal.NewFromInt(31),
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if got := state.balanceOf("sender-1"); !got.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("sender balance changed on rejected transfer: %s", got)
	}
	if got := state.balanceOf("recipient-1"); !got.Equal(decimal.Zero) {
		t.Fatalf("recipient balance changed on rejected transfer: %s", got)
	}
}

func TestTransferServiceMovesMoneyAndRecordsEntry(t *testing.T) {
	state, svc, publisher := newTransferFixture()
	seedAccount(state, "sender-1", "Asha", "9000000001", 1000)
	seedAccount(state, "recipient-1", "Ravi", "9000000002", 200)

	response, err := svc.Transfer(context.Background(), domain.Caller{ID: "sender-1"}, models.TransferRequest{
		RecipientPhoneNumber: "9000000002",
		Amount:               decimal.NewFromInt(250),
	})
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	if response.Data == nil {
		t.Fatal("expected transfer response data")
	}
	if response.Data.RecipientName != "Ravi" {
		t.Fatalf("unexpected recipient name %q", response.Data.RecipientName)
	}
	if response.Data.Status != string(domain.TransactionStatusCompleted) {
		t.Fatalf("unexpected status %q", response.Data.Status)
	}

	if got := state.balanceOf("sender-1"); !got.Equal(decimal.NewFromInt(750)) {
		t.Fatalf("sender balance = %s, want 750", got)
	}
	if got := state.balanceOf("recipient-1"); !got.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("recipient balance = %s, want 450", got)
	}

	if got := publisher.byType(events.TransactionCreated); len(got) != 1 {
		t.Fatalf("expected one transaction.created event, got %d", len(got))
	}
}

// Concurrent transfers against one sender must never double-spend. With a
// balance covering only a subset of the attempts, the successful ones drain
// the account exactly and the rest fail with insufficient funds.
func TestTransferServiceConcurrentTransfersConserveMoney(t *testing.T) {
	state, svc, _ := newTransferFixture()
	seedAccount(state, "sender-1", "Asha", "9000000001", 500)
	seedAccount(state, "recipient-1", "Ravi", "9000000002", 0)

	const attempts = 20
	amount := decimal.NewFromInt(100)

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Transfer(context.Background(), domain.Caller{ID: "sender-1"}, models.TransferRequest{
				RecipientPhoneNumber: "9000000002",
				Amount:               amount,
			})
		}()
	}
	wg.Wait()

	var succeeded, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientFunds):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if succeeded != 5 {
		t.Fatalf("expected exactly 5 successful transfers, got %d", succeeded)
	}
	if succeeded+insufficient != attempts {
		t.Fatalf("accounted for %d attempts, want %d", succeeded+insufficient, attempts)
	}
	if got := state.balanceOf("sender-1"); !got.Equal(decimal.Zero) {
		t.Fatalf("sender balance = %s, want 0", got)
	}
	if got := state.balanceOf("recipient-1"); !got.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("recipient balance = %s, want 500", got)
	}
}
