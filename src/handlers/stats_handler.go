package handlers

import (
	"net/http"

	"github.com/username/kopilka/backend/src/logger"
	"github.com/username/kopilka/backend/src/services"
	"github.com/username/kopilka/backend/src/store"
	"github.com/username/kopilka/backend/src/utils"
)

type StatsHandler struct {
	store          *store.Store
	ratesService   services.RatesService
	balanceService *services.BalanceService
}

func NewStatsHandler(st *store.Store, rates services.RatesService, balances *services.BalanceService) *StatsHandler {
	return &StatsHandler{
		store:          st,
		ratesService:   rates,
		balanceService: balances,
	}
}

// HandleOperations returns the group's merged transaction/transfer listing,
// newest first.
func (h *StatsHandler) HandleOperations(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	groupID, ok := requireGroupMember(w, r, h.store, userID)
	if !ok {
		return
	}

	transactions, err := h.store.TransactionsByGroup(groupID)
	if err != nil {
		logger.L.Error("Failed to load transactions for operations", "groupID", groupID, "error", err)
		utils.SendJSONError(w, "Failed to load operations", http.StatusInternalServerError)
		return
	}
	transfers, err := h.store.TransfersByGroup(groupID)
	if err != nil {
		logger.L.Error("Failed to load transfers for operations", "groupID", groupID, "error", err)
		utils.SendJSONError(w, "Failed to load operations", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, services.Operations(transactions, transfers), http.StatusOK)
}

// HandleExchangeRates exposes the current rate set. Never fails; the service
// degrades to cached or static rates on upstream trouble.
func (h *StatsHandler) HandleExchangeRates(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserIDFromContext(r.Context()); !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	utils.SendJSON(w, map[string]any{
		"reference": h.ratesService.ReferenceCurrency(),
		"rates":     h.ratesService.GetExchangeRates(),
	}, http.StatusOK)
}

// HandleGroupSummary returns per-account balances and the portfolio total,
// everything converted into the reference currency.
func (h *StatsHandler) HandleGroupSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	groupID, ok := requireGroupMember(w, r, h.store, userID)
	if !ok {
		return
	}

	accounts, err := h.store.AccountsByGroup(groupID)
	if err != nil {
		logger.L.Error("Failed to load accounts for summary", "groupID", groupID, "error", err)
		utils.SendJSONError(w, "Failed to load summary", http.StatusInternalServerError)
		return
	}
	transactions, err := h.store.TransactionsByGroup(groupID)
	if err != nil {
		logger.L.Error("Failed to load transactions for summary", "groupID", groupID, "error", err)
		utils.SendJSONError(w, "Failed to load summary", http.StatusInternalServerError)
		return
	}
	transfers, err := h.store.TransfersByGroup(groupID)
	if err != nil {
		logger.L.Error("Failed to load transfers for summary", "groupID", groupID, "error", err)
		utils.SendJSONError(w, "Failed to load summary", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, map[string]any{
		"reference":      h.ratesService.ReferenceCurrency(),
		"portfolioTotal": h.balanceService.PortfolioTotal(accounts, transactions),
		"accounts":       h.balanceService.AccountBalances(accounts, transactions, transfers),
	}, http.StatusOK)
}
