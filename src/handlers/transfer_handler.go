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

type TransferHandler struct {
	store *store.Store
}

func NewTransferHandler(st *store.Store) *TransferHandler {
	return &TransferHandler{store: st}
}

type createTransferRequest struct {
	FromAccountID int64  `json:"fromAccountId" validate:"required"`
	ToAccountID   int64  `json:"toAccountId" validate:"required"`
	FromAmount    string `json:"fromAmount" validate:"required"`
	ToAmount      string `json:"toAmount" validate:"required"`
	Description   string `json:"description" validate:"max=500"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
}

// HandleCreateTransfer records a two-legged transfer. Each leg is face value
// in its own account currency.
func (h *TransferHandler) HandleCreateTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req createTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendJSONError(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.FromAccountID == req.ToAccountID {
		utils.SendJSONError(w, "Cannot transfer to the same account", http.StatusBadRequest)
		return
	}

	fromAmount, err := decimal.NewFromString(req.FromAmount)
	if err != nil || !fromAmount.IsPositive() {
		utils.SendJSONError(w, "fromAmount must be a positive number", http.StatusBadRequest)
		return
	}
	toAmount, err := decimal.NewFromString(req.ToAmount)
	if err != nil || !toAmount.IsPositive() {
		utils.SendJSONError(w, "toAmount must be a positive number", http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.SendJSONError(w, "Invalid date", http.StatusBadRequest)
		return
	}

	from, err := h.store.AccountByID(req.FromAccountID)
	if err != nil {
		utils.SendJSONError(w, "Source account not found", http.StatusNotFound)
		return
	}
	to, err := h.store.AccountByID(req.ToAccountID)
	if err != nil {
		utils.SendJSONError(w, "Destination account not found", http.StatusNotFound)
		return
	}
	if from.GroupID != to.GroupID {
		utils.SendJSONError(w, "Both accounts must belong to the same group", http.StatusBadRequest)
		return
	}

	member, err := h.store.IsGroupMember(from.GroupID, userID)
	if err != nil {
		utils.SendJSONError(w, "Failed to check group membership", http.StatusInternalServerError)
		return
	}
	if !member {
		utils.SendJSONError(w, "Not a member of this group", http.StatusForbidden)
		return
	}

	transfer := &models.Transfer{
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
		FromAmount:    fromAmount,
		ToAmount:      toAmount,
		Description:   req.Description,
		Date:          date,
		UserID:        userID,
		GroupID:       from.GroupID,
	}
	if err := h.store.CreateTransfer(transfer); err != nil {
		logger.L.Error("Failed to create transfer", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to create transfer", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, transfer, http.StatusCreated)
}

func (h *TransferHandler) HandleListTransfers(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	groupID, ok := requireGroupMember(w, r, h.store, userID)
	if !ok {
		return
	}

	transfers, err := h.store.TransfersByGroup(groupID)
	if err != nil {
		logger.L.Error("Failed to list transfers", "groupID", groupID, "error", err)
		utils.SendJSONError(w, "Failed to list transfers", http.StatusInternalServerError)
		return
	}
	if transfers == nil {
		transfers = []models.Transfer{}
	}
	utils.SendJSON(w, transfers, http.StatusOK)
}

func (h *TransferHandler) HandleDeleteTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid transfer id", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteTransfer(id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.SendJSONError(w, "Transfer not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to delete transfer", "transferID", id, "error", err)
		utils.SendJSONError(w, "Failed to delete transfer", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
