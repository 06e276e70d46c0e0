// backend/src/handlers/transaction_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/username/sadakatracker/backend/src/logger"
	"github.com/username/sadakatracker/backend/src/models"
	"github.com/username/sadakatracker/backend/src/services"
	"github.com/username/sadakatracker/backend/src/utils"
)

type TransactionHandler struct {
	ingestionService services.IngestionService
}

func NewTransactionHandler(service services.IngestionService) *TransactionHandler {
	return &TransactionHandler{
		ingestionService: service,
	}
}

// HandleRefreshTransactions re-runs the full pipeline over the stored
// messages and replaces the transaction set with the result.
func (h *TransactionHandler) HandleRefreshTransactions(w http.ResponseWriter, r *http.Request) {
	result, err := h.ingestionService.RefreshTransactions(r.Context())
	if err != nil {
		logger.L.Error("Error refreshing transactions", "error", err)
		utils.SendJSONError(w, "An internal error occurred while refreshing transactions.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding JSON response for refresh result", "error", err)
	}
}

// HandleGetTransactions returns the stored transactions, newest first.
// Optional query parameters: start and end (YYYY-MM-DD or RFC3339) bound
// the date range, q narrows by free-text search.
func (h *TransactionHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r.URL.Query().Get("start"), false)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Invalid 'start' parameter: %v", err), http.StatusBadRequest)
		return
	}
	to, err := parseDateParam(r.URL.Query().Get("end"), true)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Invalid 'end' parameter: %v", err), http.StatusBadRequest)
		return
	}

	transactions, err := h.ingestionService.GetTransactions(from, to, r.URL.Query().Get("q"))
	if err != nil {
		logger.L.Error("Error retrieving transactions", "error", err)
		utils.SendJSONError(w, "An internal error occurred while retrieving transactions.", http.StatusInternalServerError)
		return
	}
	if transactions == nil {
		transactions = []models.ParsedTransaction{}
	}

	currentETag, etagErr := utils.GenerateETag(transactions)
	if etagErr != nil {
		logger.L.Error("Failed to generate ETag for transaction list", "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				logger.L.Debug("ETag match for transaction list", "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(transactions); err != nil {
		logger.L.Error("Error encoding JSON response for transaction list", "error", err)
	}
}

// HandleGetTransactionSummary returns aggregate counts and totals over the
// full stored transaction set.
func (h *TransactionHandler) HandleGetTransactionSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ingestionService.GetSummary()
	if err != nil {
		logger.L.Error("Error building transaction summary", "error", err)
		utils.SendJSONError(w, "An internal error occurred while building the summary.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summary); err != nil {
		logger.L.Error("Error encoding JSON response for transaction summary", "error", err)
	}
}

// parseDateParam accepts a date-only value or a full RFC3339 timestamp. A
// date-only end bound is pushed to the last instant of that day so the whole
// day stays inside the range. Empty input means unbounded.
func parseDateParam(value string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Millisecond)
		}
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or RFC3339, got %q", value)
}
