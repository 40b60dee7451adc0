package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerCounterNextIncrementsAtomically(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO customer_id_counter").
		WillReturnRows(sqlmock.NewRows([]string{"last_customer_id"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO customer_id_counter").
		WillReturnRows(sqlmock.NewRows([]string{"last_customer_id"}).AddRow(int64(2)))

	repo := NewCustomerCounterRepository(db)

	first, err := repo.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := repo.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)

	assert.NoError(t, mock.ExpectationsWereMet())
}
