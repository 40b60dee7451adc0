package postgres

import (
	"context"
	"database/sql"

	"github.com/priyabank/core-ledger/internal/logger"
)

// counterKey is the primary key of the singleton counter row.
const counterKey = "singleton"

type CustomerCounterRepository struct {
	db *sql.DB
}

func NewCustomerCounterRepository(db *sql.DB) *CustomerCounterRepository {
	return &CustomerCounterRepository{db: db}
}

// Next increments and returns the customer id counter in a single statement,
// so two concurrent allocations can never observe the same value. An absent
// row behaves as a counter at zero.
func (r *CustomerCounterRepository) Next(ctx context.Context) (int64, error) {
	const query = `
INSERT INTO customer_id_counter (id, last_customer_id)
VALUES ($1, 1)
ON CONFLICT (id)
DO UPDATE SET last_customer_id = customer_id_counter.last_customer_id + 1
RETURNING last_customer_id`

	var next int64
	if err := r.db.QueryRowContext(ctx, query, counterKey).Scan(&next); err != nil {
		logger.Error("customer counter repository next failed", err, nil)
		return 0, mapStoreErr("allocate customer id", err)
	}

	return next, nil
}
