package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hugodemenez/deltalytix/backend/src/logger"
	"github.com/hugodemenez/deltalytix/backend/src/models"
	"github.com/hugodemenez/deltalytix/backend/src/services"
	"github.com/hugodemenez/deltalytix/backend/src/utils"
)

type AccountHandler struct {
	riskService services.RiskService
}

func NewAccountHandler(service services.RiskService) *AccountHandler {
	return &AccountHandler{riskService: service}
}

func (h *AccountHandler) HandleUpsertAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}

	var cfg models.AccountConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		utils.SendJSONError(w, fmt.Sprintf("invalid account payload: %v", err), http.StatusBadRequest)
		return
	}
	cfg.UserID = userID
	if cfg.Number == "" {
		utils.SendJSONError(w, "account number is required", http.StatusBadRequest)
		return
	}
	if cfg.StartingBalance <= 0 {
		utils.SendJSONError(w, "starting balance must be positive", http.StatusBadRequest)
		return
	}

	if err := h.riskService.UpsertAccount(cfg); err != nil {
		logger.L.Error("Error upserting account", "userID", userID, "account", cfg.Number, "error", err)
		utils.SendJSONError(w, "Error saving account configuration", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "saved", "account": cfg.Number})
}

func (h *AccountHandler) HandleAddPayout(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	accountNumber := r.PathValue("number")

	var payout models.Payout
	if err := json.NewDecoder(r.Body).Decode(&payout); err != nil {
		utils.SendJSONError(w, fmt.Sprintf("invalid payout payload: %v", err), http.StatusBadRequest)
		return
	}
	if payout.Amount <= 0 {
		utils.SendJSONError(w, "payout amount must be positive", http.StatusBadRequest)
		return
	}

	if err := h.riskService.AddPayout(userID, accountNumber, payout); err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.L.Error("Error adding payout", "userID", userID, "account", accountNumber, "error", err)
		utils.SendJSONError(w, "Error saving payout", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"status": "saved", "account": accountNumber})
}

// HandleGetRiskSnapshot serves the derived risk state with ETag support so
// dashboard polling stays cheap.
func (h *AccountHandler) HandleGetRiskSnapshot(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	accountNumber := r.PathValue("number")

	snapshot, err := h.riskService.GetSnapshot(userID, accountNumber)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.L.Error("Error computing risk snapshot", "userID", userID, "account", accountNumber, "error", err)
		utils.SendJSONError(w, "Error computing risk snapshot", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-cache, private")
	if etag, etagErr := utils.GenerateETag(snapshot); etagErr == nil && etag != "" {
		quotedETag := fmt.Sprintf("%q", etag)
		w.Header().Set("ETag", quotedETag)
		for _, clientETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(clientETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		logger.L.Error("Error encoding risk snapshot response", "userID", userID, "error", err)
	}
}

func (h *AccountHandler) HandleGetDailyPnl(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or user ID not found in context", http.StatusUnauthorized)
		return
	}
	accountNumber := r.PathValue("number")

	daily, err := h.riskService.GetDailyPnl(userID, accountNumber)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.L.Error("Error computing daily pnl", "userID", userID, "account", accountNumber, "error", err)
		utils.SendJSONError(w, "Error computing daily pnl", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(daily); err != nil {
		logger.L.Error("Error encoding daily pnl response", "userID", userID, "error", err)
	}
}
