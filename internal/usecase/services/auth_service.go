package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/priyabank/core-ledger/internal/adapter/http/models"
	"github.com/priyabank/core-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/priyabank/core-ledger/internal/commons"
	"github.com/priyabank/core-ledger/internal/domain"
	"github.com/priyabank/core-ledger/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

// SessionStore tracks revoked token ids until their natural expiry.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Claims is the session token payload.
type Claims struct {
	CallerID string `json:"callerId"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo   repo_interfaces.UserRepository
	sessions   SessionStore
	jwtSecret  []byte
	sessionTTL time.Duration
}

func NewAuthService(userRepo repo_interfaces.UserRepository, sessions SessionStore, jwtSecret string, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		sessions:   sessions,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: sessionTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (commons.Response[models.RegisterResponse], error) {
	logger.Info("auth service register request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.RegisterResponse]("validation failed", err.Error()), err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(req.Password)), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("auth service hash password failed", err, nil)
		return commons.ErrorResponse[models.RegisterResponse]("failed to register", "Unable to register right now"), err
	}

	profile := domain.UserProfile{
		CallerID:     uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		DOB:          strings.TrimSpace(req.DOB),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Role:         domain.RoleCustomer,
		PasswordHash: string(hashed),
	}

	created, err := s.userRepo.Create(ctx, profile)
	if err != nil {
		logger.Error("auth service register repository failed", err, logger.Fields{
			"email": profile.Email,
		})
		if errors.Is(err, domain.ErrConflict) {
			return commons.ErrorResponse[models.RegisterResponse]("email is already registered"), err
		}
		return commons.ErrorResponse[models.RegisterResponse]("failed to register", "Unable to register right now"), err
	}

	response := models.RegisterResponse{
		CallerID:    created.CallerID,
		Name:        created.Name,
		Email:       created.Email,
		PhoneNumber: created.PhoneNumber,
		Role:        string(created.Role),
	}

	logger.Info("auth service register success", logger.Fields{
		"callerId": response.CallerID,
	})

	return commons.SuccessResponse("registered successfully", response), nil
}

func (s *AuthService) SignIn(ctx context.Context, req models.SignInRequest) (commons.Response[models.SignInResponse], error) {
	logger.Info("auth service sign in request", logger.Fields{
		"email": strings.ToLower(strings.TrimSpace(req.Email)),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.SignInResponse]("validation failed", err.Error()), err
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.SignInResponse]("invalid credentials"), domain.ErrInvalidCredentials
		}
		return commons.ErrorResponse[models.SignInResponse]("failed to sign in", "Unable to sign in right now"), err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Info("auth service sign in rejected", logger.Fields{
			"callerId": user.CallerID,
		})
		return commons.ErrorResponse[models.SignInResponse]("invalid credentials"), domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		logger.Error("auth service generate token failed", err, logger.Fields{
			"callerId": user.CallerID,
		})
		return commons.ErrorResponse[models.SignInResponse]("failed to sign in", "Unable to sign in right now"), err
	}

	response := models.SignInResponse{
		CallerID: user.CallerID,
		Role:     string(user.Role),
		Token:    token,
	}

	logger.Info("auth service sign in success", logger.Fields{
		"callerId": user.CallerID,
	})

	return commons.SuccessResponse("signed in successfully", response), nil
}

// SignOut revokes the presented token for the remainder of its lifetime.
func (s *AuthService) SignOut(ctx context.Context, rawToken string) (commons.Response[struct{}], error) {
	claims, err := s.parseToken(rawToken)
	if err != nil {
		return commons.ErrorResponse[struct{}]("invalid credentials"), domain.ErrInvalidCredentials
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.sessions.Revoke(ctx, claims.ID, ttl); err != nil {
		logger.Error("auth service revoke session failed", err, logger.Fields{
			"callerId": claims.CallerID,
		})
		return commons.ErrorResponse[struct{}]("failed to sign out", "Unable to sign out right now"), err
	}

	logger.Info("auth service sign out success", logger.Fields{
		"callerId": claims.CallerID,
	})

	return commons.SuccessResponse("signed out successfully", struct{}{}), nil
}

// Authenticate resolves a bearer token to a caller identity. The identity is
// always passed onwards explicitly; nothing downstream consults ambient state.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (domain.Caller, error) {
	claims, err := s.parseToken(rawToken)
	if err != nil {
		return domain.Caller{}, domain.ErrInvalidCredentials
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.Error("auth service revocation check failed", err, logger.Fields{
			"callerId": claims.CallerID,
		})
		return domain.Caller{}, fmt.Errorf("check session revocation: %w", err)
	}
	if revoked {
		return domain.Caller{}, domain.ErrInvalidCredentials
	}

	return domain.Caller{
		ID:    claims.CallerID,
		Email: claims.Email,
		Role:  domain.Role(claims.Role),
	}, nil
}

func (s *AuthService) generateToken(user domain.UserProfile) (string, error) {
	now := time.Now()
	claims := Claims{
		CallerID: user.CallerID,
		Email:    user.Email,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(rawToken string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(rawToken), claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}
