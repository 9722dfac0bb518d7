package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/username/kopilka/backend/src/currency"
	"github.com/username/kopilka/backend/src/logger"
	"github.com/username/kopilka/backend/src/models"
	"github.com/username/kopilka/backend/src/store"
	"github.com/username/kopilka/backend/src/utils"
)

type AccountHandler struct {
	store *store.Store
}

func NewAccountHandler(st *store.Store) *AccountHandler {
	return &AccountHandler{store: st}
}

type createAccountRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	Type         string `json:"type" validate:"required,oneof=cash bank credit investment other"`
	CurrencyCode string `json:"currencyCode" validate:"required,len=3,alpha"`
	Balance      string `json:"balance"`
	GroupID      string `json:"groupId" validate:"required,uuid4"`
}

func (h *AccountHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendJSONError(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	member, err := h.store.IsGroupMember(req.GroupID, userID)
	if err != nil {
		utils.SendJSONError(w, "Failed to check group membership", http.StatusInternalServerError)
		return
	}
	if !member {
		utils.SendJSONError(w, "Not a member of this group", http.StatusForbidden)
		return
	}

	opening := decimal.Zero
	if req.Balance != "" {
		opening, err = decimal.NewFromString(req.Balance)
		if err != nil {
			utils.SendJSONError(w, "Invalid balance amount", http.StatusBadRequest)
			return
		}
	}

	currencyID, err := h.resolveCurrency(req.CurrencyCode)
	if err != nil {
		logger.L.Error("Failed to resolve currency", "code", req.CurrencyCode, "error", err)
		utils.SendJSONError(w, "Failed to resolve currency", http.StatusInternalServerError)
		return
	}

	if _, err := h.store.AccountByName(userID, req.GroupID, req.Name); err == nil {
		utils.SendJSONError(w, "An account with this name already exists in the group", http.StatusConflict)
		return
	}

	account := &models.Account{
		Name:       req.Name,
		Type:       req.Type,
		Balance:    opening,
		CurrencyID: currencyID,
		UserID:     userID,
		GroupID:    req.GroupID,
	}
	if err := h.store.CreateAccount(account); err != nil {
		logger.L.Error("Failed to create account", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to create account", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, account, http.StatusCreated)
}

func (h *AccountHandler) resolveCurrency(code string) (int64, error) {
	existing, err := h.store.CurrencyByCode(code)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return 0, err
	}
	info := currency.Lookup(code)
	created := &models.Currency{Code: code, Name: info.Name, Symbol: info.Symbol, IsActive: true}
	if err := h.store.CreateCurrency(created); err != nil {
		return 0, err
	}
	return created.ID, nil
}

func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
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
		logger.L.Error("Failed to list accounts", "groupID", groupID, "error", err)
		utils.SendJSONError(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	utils.SendJSON(w, accounts, http.StatusOK)
}

// HandleListCurrencies returns every currency seen so far, seeded or created
// during imports.
func (h *AccountHandler) HandleListCurrencies(w http.ResponseWriter, r *http.Request) {
	if _, ok := GetUserIDFromContext(r.Context()); !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	currencies, err := h.store.Currencies()
	if err != nil {
		logger.L.Error("Failed to list currencies", "error", err)
		utils.SendJSONError(w, "Failed to list currencies", http.StatusInternalServerError)
		return
	}
	if currencies == nil {
		currencies = []models.Currency{}
	}
	utils.SendJSON(w, currencies, http.StatusOK)
}

type updateAccountRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
	Type string `json:"type" validate:"required,oneof=cash bank credit investment other"`
}

func (h *AccountHandler) HandleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	accountID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid account id", http.StatusBadRequest)
		return
	}

	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendJSONError(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	account, err := h.store.AccountByID(accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.SendJSONError(w, "Account not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to load account", http.StatusInternalServerError)
		return
	}
	if account.UserID != userID {
		utils.SendJSONError(w, "Account not found", http.StatusNotFound)
		return
	}

	account.Name = req.Name
	account.Type = req.Type
	if err := h.store.UpdateAccount(account); err != nil {
		logger.L.Error("Failed to update account", "accountID", accountID, "error", err)
		utils.SendJSONError(w, "Failed to update account", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, account, http.StatusOK)
}

func (h *AccountHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	accountID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid account id", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteAccount(accountID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.SendJSONError(w, "Account not found", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to delete account", "accountID", accountID, "error", err)
		utils.SendJSONError(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
