package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/priyabank/core-ledger/internal/adapter/http/models"
	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/priyabank/core-ledger/internal/events"
	"github.com/priyabank/core-ledger/internal/usecase/services"
	"github.com/shopspring/decimal"
)

func newOnboardingFixture(state *fakeState) (*services.OnboardingService, *capturingPublisher) {
	publisher := &capturingPublisher{}
	svc := services.NewOnboardingService(
		&fakeUserRepo{s: state},
		&fakeRequestRepo{s: state},
		&fakeAccountRepo{s: state},
		&fakeCounterRepo{s: state},
		publisher,
		"PRIYA0510",
	)
	return svc, publisher
}

func seedProfile(state *fakeState, callerID, phone string) {
	state.mu.Lock()
	defer state.mu.Unlock()
	state.users[callerID] = domain.UserProfile{
		CallerID:    callerID,
		Name:        "Holder " + callerID,
		DOB:         "1990-01-01",
		Email:       callerID + "@example.com",
		PhoneNumber: phone,
		Role:        domain.RoleCustomer,
	}
}

var validKYC = models.SubmitAccountRequestRequest{
	AadhaarNumber: "123456789012",
	PANNumber:     "ABCDE1234F",
}

func TestOnboardingServiceValidationError(t *testing.T) {
	svc, _ := newOnboardingFixture(newFakeState())

	_, err := svc.SubmitAccountRequest(context.Background(), "caller-1", models.SubmitAccountRequestRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty request")
	}
}

func TestOnboardingServiceUnknownProfile(t *testing.T) {
	svc, _ := newOnboardingFixture(newFakeState())

	_, err := svc.SubmitAccountRequest(context.Background(), "caller-1", validKYC)
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestOnboardingServiceCreatesPendingRequest(t *testing.T) {
	state := newFakeState()
	svc, publisher := newOnboardingFixture(state)
	seedProfile(state, "caller-1", "9000000001")

	response, err := svc.SubmitAccountRequest(context.Background(), "caller-1", validKYC)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if response.Data == nil {
		t.Fatal("expected request response data")
	}
	if response.Data.Status != string(domain.RequestStatusPending) {
		t.Fatalf("unexpected status %q", response.Data.Status)
	}
	if response.Data.CustomerID != 1 {
		t.Fatalf("customer id = %d, want 1", response.Data.CustomerID)
	}
	if response.Data.IFSCCode != "PRIYA0510" {
		t.Fatalf("unexpected ifsc %q", response.Data.IFSCCode)
	}

	if got := publisher.byType(events.RequestCreated); len(got) != 1 {
		t.Fatalf("expected one request.created event, got %d", len(got))
	}
}

func TestOnboardingServiceRejectsDuplicateRequest(t *testing.T) {
	state := newFakeState()
	svc, _ := newOnboardingFixture(state)
	seedProfile(state, "caller-1", "9000000001")

	if _, err := svc.SubmitAccountRequest(context.Background(), "caller-1", validKYC); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	_, err := svc.SubmitAccountRequest(context.Background(), "caller-1", validKYC)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestOnboardingServiceRejectsExistingAccountHolder(t *testing.T) {
	state := newFakeState()
	svc, _ := newOnboardingFixture(state)
	seedProfile(state, "caller-1", "9000000001")
	state.addAccount(domain.Account{
		CallerID:    "caller-1",
		PhoneNumber: "9000000001",
		Balance:     decimal.Zero,
		Status:      domain.AccountStatusApproved,
	})

	_, err := svc.SubmitAccountRequest(context.Background(), "caller-1", validKYC)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestOnboardingServiceRejectsPhoneNumberInUse(t *testing.T) {
	state := newFakeState()
	svc, _ := newOnboardingFixture(state)
	seedProfile(state, "caller-1", "9000000001")
	state.addAccount(domain.Account{
		CallerID:    "other-caller",
		PhoneNumber: "9000000001",
		Balance:     decimal.Zero,
		Status:      domain.AccountStatusApproved,
	})

	_, err := svc.SubmitAccountRequest(context.Background(), "caller-1", validKYC)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

// The allocator hands out a strictly increasing sequence with no gaps or
// repeats, even under concurrent submissions.
func TestOnboardingServiceCustomerIDsAreSequential(t *testing.T) {
	state := newFakeState()
	svc, _ := newOnboardingFixture(state)

	const n = 20
	for i := 1; i <= n; i++ {
		seedProfile(state, fmt.Sprintf("caller-%d", i), fmt.Sprintf("90000%05d", i))
	}

	var wg sync.WaitGroup
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.SubmitAccountRequest(context.Background(), fmt.Sprintf("caller-%d", i), validKYC); err != nil {
				t.Errorf("submit %d failed: %v", i, err)
			}
		}()
	}
	wg.Wait()

	state.mu.Lock()
	defer state.mu.Unlock()
	seen := make(map[int64]bool, n)
	for _, request := range state.requests {
		if seen[request.CustomerID] {
			t.Fatalf("customer id %d allocated twice", request.CustomerID)
		}
		seen[request.CustomerID] = true
	}
	for i := int64(1); i <= n; i++ {
		if !seen[i] {
			t.Fatalf("customer id %d missing from allocated sequence", i)
		}
	}
}
