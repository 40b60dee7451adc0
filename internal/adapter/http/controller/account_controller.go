package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/priyabank/core-ledger/internal/adapter/http/middleware"
	"github.com/priyabank/core-ledger/internal/adapter/http/models"
	"github.com/priyabank/core-ledger/internal/commons"
	"github.com/priyabank/core-ledger/internal/logger"
)

type AccountService interface {
	GetDetails(ctx context.Context, callerID string) (commons.Response[models.AccountResponse], error)
	UpdateDetails(ctx context.Context, callerID string, req models.UpdateAccountRequest) (commons.Response[models.AccountResponse], error)
}

type OnboardingService interface {
	SubmitAccountRequest(ctx context.Context, callerID string, req models.SubmitAccountRequestRequest) (commons.Response[models.AccountRequestResponse], error)
}

type AccountController struct {
	accounts   AccountService
	onboarding OnboardingService
}

func NewAccountController(accounts AccountService, onboarding OnboardingService) *AccountController {
	return &AccountController{
		accounts:   accounts,
		onboarding: onboarding,
	}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	me := http.Handler(http.HandlerFunc(c.me))
	submit := http.Handler(http.HandlerFunc(c.submitRequest))
	if authMiddleware != nil {
		me = authMiddleware(me)
		submit = authMiddleware(submit)
	}

	mux.Handle("/accounts/me", me)
	mux.Handle("/account-requests", submit)
}

func (c *AccountController) me(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.getDetails(w, r)
	case http.MethodPatch:
		c.updateDetails(w, r)
	default:
		response := commons.ErrorResponse[models.AccountResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
	}
}

func (c *AccountController) getDetails(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.AccountResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	response, err := c.accounts.GetDetails(r.Context(), caller.ID)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) updateDetails(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.AccountResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	var req models.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.accounts.UpdateDetails(r.Context(), caller.ID, req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err)
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) submitRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.AccountRequestResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.AccountRequestResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	var req models.SubmitAccountRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccountRequestResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.onboarding.SubmitAccountRequest(r.Context(), caller.ID, req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusForError(err)
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}
