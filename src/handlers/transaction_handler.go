package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/kopilka/backend/src/logger"
	"github.com/username/kopilka/backend/src/models"
	"github.com/username/kopilka/backend/src/store"
	"github.com/username/kopilka/backend/src/utils"
)

type TransactionHandler struct {
	store *store.Store
}

func NewTransactionHandler(st *store.Store) *TransactionHandler {
	return &TransactionHandler{store: st}
}

type createTransactionRequest struct {
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"max=500"`
	Category    string `json:"category" validate:"max=100"`
	Kind        string `json:"kind" validate:"required,oneof=expense income"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	AccountID   int64  `json:"accountId" validate:"required"`
}

func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendJSONError(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.IsNegative() || amount.IsZero() {
		utils.SendJSONError(w, "Amount must be a positive number", http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.SendJSONError(w, "Invalid date", http.StatusBadRequest)
		return
	}

	account, err := h.store.AccountByID(req.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.SendJSONError(w, "Account not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to load account", http.StatusInternalServerError)
		return
	}
	member, err := h.store.IsGroupMember(account.GroupID, userID)
	if err != nil {
		utils.SendJSONError(w, "Failed to check group membership", http.StatusInternalServerError)
		return
	}
	if !member {
		utils.SendJSONError(w, "Not a member of this group", http.StatusForbidden)
		return
	}

	tx := &models.Transaction{
		Amount:      amount,
		Description: req.Description,
		Category:    req.Category,
		Kind:        req.Kind,
		Date:        date,
		AccountID:   account.ID,
		UserID:      userID,
		GroupID:     account.GroupID,
	}
	if err := h.store.CreateTransaction(tx); err != nil {
		logger.L.Error("Failed to create transaction", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, tx, http.StatusCreated)
}

func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
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
		logger.L.Error("Failed to list transactions", "groupID", groupID, "error", err)
		utils.SendJSONError(w, "Failed to list transactions", http.StatusInternalServerError)
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	utils.SendJSON(w, transactions, http.StatusOK)
}

func (h *TransactionHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid transaction id", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteTransaction(id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.SendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to delete transaction", "transactionID", id, "error", err)
		utils.SendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
