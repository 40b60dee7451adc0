package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"

	"github.com/priyabank/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/priyabank/core-ledger/internal/domain"
)

const (
	accountNumberFloor = 100_000_000_000 // smallest 12-digit number
	accountNumberSpan  = 900_000_000_000
	maxNumberAttempts  = 8
)

// AccountNumberGenerator draws uniform 12-digit account numbers and checks
// the store before handing one out. The pre-check keeps collisions rare; the
// UNIQUE constraint on accounts.account_number is what actually guarantees
// uniqueness at insert time.
type AccountNumberGenerator struct {
	mu          sync.Mutex
	rng         *rand.Rand
	accountRepo repo_interfaces.AccountRepository
}

// NewAccountNumberGenerator builds a generator over src. Tests inject a
// seeded source for deterministic candidates.
func NewAccountNumberGenerator(src rand.Source, accountRepo repo_interfaces.AccountRepository) *AccountNumberGenerator {
	return &AccountNumberGenerator{
		rng:         rand.New(src),
		accountRepo: accountRepo,
	}
}

// Generate returns a candidate that did not exist in the store at query time.
// Attempts are bounded so a misbehaving store cannot spin forever.
func (g *AccountNumberGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		candidate := g.candidate()

		exists, err := g.accountRepo.ExistsByAccountNumber(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check account number candidate: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no unused account number after %d attempts: %w", maxNumberAttempts, domain.ErrConflict)
}

func (g *AccountNumberGenerator) candidate() string {
	g.mu.Lock()
	n := accountNumberFloor + g.rng.Int64N(accountNumberSpan)
	g.mu.Unlock()
	return strconv.FormatInt(n, 10)
}
