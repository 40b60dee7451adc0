package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/priyabank/core-ledger/internal/adapter/http/middleware"
	"github.com/priyabank/core-ledger/internal/adapter/http/models"
	"github.com/priyabank/core-ledger/internal/commons"
	"github.com/priyabank/core-ledger/internal/events"
	"github.com/priyabank/core-ledger/internal/logger"
)

// streamBuffer sizes each live-view subscription. A full buffer drops
// events; the next one that arrives still triggers a full refresh.
const streamBuffer = 16

type HistoryService interface {
	List(ctx context.Context, callerID string, typeFilter string) (commons.Response[[]models.TransactionEntry], error)
	Watch(ctx context.Context, callerID string, updates <-chan events.Event) <-chan []models.TransactionEntry
}

// LedgerFeed hands out per-client subscriptions to the ledger event stream.
type LedgerFeed interface {
	Subscribe(buffer int) (<-chan events.Event, func())
}

type HistoryController struct {
	service HistoryService
	feed    LedgerFeed
}

func NewHistoryController(service HistoryService, feed LedgerFeed) *HistoryController {
	return &HistoryController{service: service, feed: feed}
}

func (c *HistoryController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	list := http.Handler(http.HandlerFunc(c.list))
	stream := http.Handler(http.HandlerFunc(c.stream))
	if authMiddleware != nil {
		list = authMiddleware(list)
		stream = authMiddleware(stream)
	}

	mux.Handle("/transactions", list)
	mux.Handle("/transactions/stream", stream)
}

func (c *HistoryController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[[]models.TransactionEntry]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		response := commons.ErrorResponse[[]models.TransactionEntry]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	response, err := c.service.List(r.Context(), caller.ID, r.URL.Query().Get("type"))
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

// stream pushes history snapshots over server-sent events. The client gets
// the current snapshot on connect and a fresh one after every transfer that
// touches its account.
func (c *HistoryController) stream(w http.ResponseWriter, r *http.Request) {
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	caller, ok := middleware.CallerFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	updates, cancel := c.feed.Subscribe(streamBuffer)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	snapshots := c.service.Watch(r.Context(), caller.ID, updates)
	for snapshot := range snapshots {
		payload, err := json.Marshal(snapshot)
		if err != nil {
			logError(r, err, logger.Fields{"callerId": caller.ID})
			return
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return
		}
		flusher.Flush()
	}
}
