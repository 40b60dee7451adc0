package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/priyabank/core-ledger/internal/logger"
)

const userColumns = `caller_id, name, dob, email, phone_number, role, password_hash, created_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.UserProfile) (domain.UserProfile, error) {
	logger.Info("user repository create", logger.Fields{
		"callerId": user.CallerID,
		"email":    user.Email,
	})

	const query = `
INSERT INTO users (caller_id, name, dob, email, phone_number, role, password_hash)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		user.CallerID,
		user.Name,
		user.DOB,
		user.Email,
		user.PhoneNumber,
		user.Role,
		user.PasswordHash,
	).Scan(&user.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return domain.UserProfile{}, fmt.Errorf("email is already registered: %w", domain.ErrConflict)
		}
		logger.Error("user repository create failed", err, logger.Fields{
			"callerId": user.CallerID,
		})
		return domain.UserProfile{}, mapStoreErr("create user", err)
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.UserProfile, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.UserProfile{}, domain.ErrRecordNotFound
		}
		logger.Error("user repository get by email failed", err, nil)
		return domain.UserProfile{}, mapStoreErr("get user by email", err)
	}

	return user, nil
}

func (r *UserRepository) GetByCallerID(ctx context.Context, callerID string) (domain.UserProfile, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE caller_id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, callerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.UserProfile{}, domain.ErrRecordNotFound
		}
		logger.Error("user repository get by caller id failed", err, logger.Fields{
			"callerId": callerID,
		})
		return domain.UserProfile{}, mapStoreErr("get user by caller id", err)
	}

	return user, nil
}

func scanUser(row rowScanner) (domain.UserProfile, error) {
	var user domain.UserProfile
	err := row.Scan(
		&user.CallerID,
		&user.Name,
		&user.DOB,
		&user.Email,
		&user.PhoneNumber,
		&user.Role,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	return user, err
}
