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

type LoanService interface {
	Apply(ctx context.Context, callerID string, req models.LoanRequest) (commons.Response[models.LoanResponse], error)
	Get(ctx context.Context, callerID string) (commons.Response[models.LoanResponse], error)
}

type LoanController struct {
	service LoanService
}

func NewLoanController(service LoanService) *LoanController {
	return &LoanController{service: service}
}

func (c *LoanController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	apply := http.Handler(http.HandlerFunc(c.apply))
	get := http.Handler(http.HandlerFunc(c.get))
	if authMiddleware != nil {
		apply = authMiddleware(apply)
		get = authMiddleware(get)
	}

	mux.Handle("/loans", apply)
	mux.Handle("/loans/me", get)
}

func (c *LoanController) apply(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.LoanResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.LoanResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	var req models.LoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.LoanResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Apply(r.Context(), caller.ID, req)
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

func (c *LoanController) get(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.LoanResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.LoanResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	response, err := c.service.Get(r.Context(), caller.ID)
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
