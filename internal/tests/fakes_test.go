package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// fakeState is the shared backing store for the repository fakes. One mutex
// covers everything so multi-step operations stay atomic, mirroring the
// store transactions the real repositories run.
type fakeState struct {
	mu           sync.Mutex
	users        map[string]domain.UserProfile
	requests     map[string]domain.AccountRequest
	accounts     map[string]domain.Account
	loans        map[string]domain.LoanApplication
	transactions []domain.Transaction
	counter      int64
	nextTxSeq    int64
}

func newFakeState() *fakeState {
	return &fakeState{
		users:    make(map[string]domain.UserProfile),
		requests: make(map[string]domain.AccountRequest),
		accounts: make(map[string]domain.Account),
		loans:    make(map[string]domain.LoanApplication),
	}
}

func (s *fakeState) addAccount(account domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.CallerID] = account
}

func (s *fakeState) addRequest(request domain.AccountRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[request.CallerID] = request
}

func (s *fakeState) balanceOf(callerID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[callerID].Balance
}

type fakeUserRepo struct{ s *fakeState }

func (r *fakeUserRepo) Create(_ context.Context, user domain.UserProfile) (domain.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return domain.UserProfile{}, domain.ErrConflict
		}
	}
	user.CreatedAt = time.Now()
	r.s.users[user.CallerID] = user
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (domain.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.UserProfile{}, domain.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByCallerID(_ context.Context, callerID string) (domain.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[callerID]
	if !ok {
		return domain.UserProfile{}, domain.ErrRecordNotFound
	}
	return user, nil
}

type fakeAccountRepo struct{ s *fakeState }

func (r *fakeAccountRepo) GetByCallerID(_ context.Context, callerID string) (domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account, ok := r.s.accounts[callerID]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	return account, nil
}

func (r *fakeAccountRepo) FindByPhoneNumber(_ context.Context, phoneNumber string) ([]domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matches []domain.Account
	for _, account := range r.s.accounts {
		if account.PhoneNumber == phoneNumber {
			matches = append(matches, account)
		}
	}
	return matches, nil
}

func (r *fakeAccountRepo) ExistsByAccountNumber(_ context.Context, accountNumber string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, account := range r.s.accounts {
		if account.AccountNumber == accountNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccountRepo) List(_ context.Context) ([]domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	accounts := make([]domain.Account, 0, len(r.s.accounts))
	for _, account := range r.s.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].CustomerID < accounts[j].CustomerID })
	return accounts, nil
}

func (r *fakeAccountRepo) UpdateHolderDetails(_ context.Context, callerID string, update domain.HolderUpdate) (domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account, ok := r.s.accounts[callerID]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	if update.Email != nil {
		account.Email = *update.Email
	}
	if update.PhoneNumber != nil {
		account.PhoneNumber = *update.PhoneNumber
	}
	if update.AadhaarNumber != nil {
		account.AadhaarNumber = *update.AadhaarNumber
	}
	if update.PANNumber != nil {
		account.PANNumber = *update.PANNumber
	}
	if update.TransferLimit != nil {
		account.TransferLimit = *update.TransferLimit
	}
	account.UpdatedAt = time.Now()
	r.s.accounts[callerID] = account
	return account, nil
}

type fakeRequestRepo struct{ s *fakeState }

func (r *fakeRequestRepo) Create(_ context.Context, request domain.AccountRequest) (domain.AccountRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requests[request.CallerID]; ok {
		return domain.AccountRequest{}, domain.ErrConflict
	}
	request.CreatedAt = time.Now()
	r.s.requests[request.CallerID] = request
	return request, nil
}

func (r *fakeRequestRepo) GetByCallerID(_ context.Context, callerID string) (domain.AccountRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	request, ok := r.s.requests[callerID]
	if !ok {
		return domain.AccountRequest{}, domain.ErrRecordNotFound
	}
	return request, nil
}

func (r *fakeRequestRepo) ListPending(_ context.Context) ([]domain.AccountRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	requests := make([]domain.AccountRequest, 0, len(r.s.requests))
	for _, request := range r.s.requests {
		requests = append(requests, request)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CustomerID < requests[j].CustomerID })
	return requests, nil
}

func (r *fakeRequestRepo) Approve(_ context.Context, callerID string, accountNumber string, openingBalance decimal.Decimal) (domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	request, ok := r.s.requests[callerID]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}
	for _, account := range r.s.accounts {
		if account.AccountNumber == accountNumber {
			return domain.Account{}, domain.ErrConflict
		}
	}

	now := time.Now()
	account := domain.Account{
		CallerID:      request.CallerID,
		CustomerID:    request.CustomerID,
		AccountNumber: accountNumber,
		Name:          request.Name,
		Email:         request.Email,
		PhoneNumber:   request.PhoneNumber,
		AadhaarNumber: request.AadhaarNumber,
		PANNumber:     request.PANNumber,
		IFSCCode:      request.IFSCCode,
		Balance:       openingBalance,
		TransferLimit: decimal.Zero,
		Status:        domain.AccountStatusApproved,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.s.accounts[callerID] = account
	delete(r.s.requests, callerID)
	return account, nil
}

func (r *fakeRequestRepo) Delete(_ context.Context, callerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requests[callerID]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.s.requests, callerID)
	return nil
}

type fakeTransactionRepo struct{ s *fakeState }

func (r *fakeTransactionRepo) ProcessTransfer(_ context.Context, senderID, recipientID, recipientName string, amount decimal.Decimal, transactionType string) (domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sender, ok := r.s.accounts[senderID]
	if !ok {
		return domain.Transaction{}, domain.ErrRecordNotFound
	}
	recipient, ok := r.s.accounts[recipientID]
	if !ok {
		return domain.Transaction{}, domain.ErrRecordNotFound
	}
	if sender.Balance.LessThan(amount) {
		return domain.Transaction{}, domain.ErrInsufficientFunds
	}

	sender.Balance = sender.Balance.Sub(amount)
	recipient.Balance = recipient.Balance.Add(amount)
	r.s.accounts[senderID] = sender
	r.s.accounts[recipientID] = recipient

	r.s.nextTxSeq++
	transaction := domain.Transaction{
		ID:            fmt.Sprintf("tx-%06d", r.s.nextTxSeq),
		SenderID:      senderID,
		RecipientID:   recipientID,
		RecipientName: recipientName,
		Amount:        amount,
		Type:          transactionType,
		Status:        domain.TransactionStatusCompleted,
		CreatedAt:     time.Now(),
	}
	r.s.transactions = append(r.s.transactions, transaction)
	return transaction, nil
}

func (r *fakeTransactionRepo) ListBySender(_ context.Context, senderID string) ([]domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Transaction
	for _, transaction := range r.s.transactions {
		if transaction.SenderID == senderID {
			out = append(out, transaction)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

type fakeCounterRepo struct{ s *fakeState }

func (r *fakeCounterRepo) Next(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.counter++
	return r.s.counter, nil
}

type fakeLoanRepo struct{ s *fakeState }

func (r *fakeLoanRepo) Upsert(_ context.Context, loan domain.LoanApplication) (domain.LoanApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	if existing, ok := r.s.loans[loan.CallerID]; ok {
		loan.CreatedAt = existing.CreatedAt
	} else {
		loan.CreatedAt = now
	}
	loan.UpdatedAt = now
	r.s.loans[loan.CallerID] = loan
	return loan, nil
}

func (r *fakeLoanRepo) GetByCallerID(_ context.Context, callerID string) (domain.LoanApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	loan, ok := r.s.loans[callerID]
	if !ok {
		return domain.LoanApplication{}, domain.ErrRecordNotFound
	}
	return loan, nil
}

type fakeSessionStore struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{revoked: make(map[string]bool)}
}

func (s *fakeSessionStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = true
	return nil
}

func (s *fakeSessionStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[tokenID], nil
}

type publishedEvent struct {
	Stream string
	Type   string
	Data   any
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *capturingPublisher) Publish(_ context.Context, stream, eventType string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Stream: stream, Type: eventType, Data: data})
	return nil
}

func (p *capturingPublisher) byType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, event := range p.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}
