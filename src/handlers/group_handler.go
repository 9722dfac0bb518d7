package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/username/kopilka/backend/src/logger"
	"github.com/username/kopilka/backend/src/models"
	"github.com/username/kopilka/backend/src/store"
	"github.com/username/kopilka/backend/src/utils"
)

type GroupHandler struct {
	store *store.Store
}

func NewGroupHandler(st *store.Store) *GroupHandler {
	return &GroupHandler{store: st}
}

type createGroupRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// HandleCreateGroup creates a group and enrolls the creator as admin.
func (h *GroupHandler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendJSONError(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	group := &models.Group{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CreatedBy: userID,
	}
	if err := h.store.CreateGroup(group); err != nil {
		logger.L.Error("Failed to create group", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to create group", http.StatusInternalServerError)
		return
	}

	logger.L.Info("Group created", "groupID", group.ID, "userID", userID)
	utils.SendJSON(w, group, http.StatusCreated)
}

type joinGroupRequest struct {
	GroupID string `json:"groupId" validate:"required,uuid4"`
}

// HandleJoinGroup enrolls the caller as a member of an existing group.
func (h *GroupHandler) HandleJoinGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req joinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendJSONError(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.store.GroupByID(req.GroupID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.SendJSONError(w, "Group not found", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to look up group", http.StatusInternalServerError)
		return
	}

	member, err := h.store.IsGroupMember(req.GroupID, userID)
	if err != nil {
		utils.SendJSONError(w, "Failed to check group membership", http.StatusInternalServerError)
		return
	}
	if member {
		utils.SendJSONError(w, "Already a member of this group", http.StatusConflict)
		return
	}

	if err := h.store.AddGroupMember(req.GroupID, userID, models.RoleMember); err != nil {
		logger.L.Error("Failed to join group", "groupID", req.GroupID, "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to join group", http.StatusInternalServerError)
		return
	}

	logger.L.Info("User joined group", "groupID", req.GroupID, "userID", userID)
	utils.SendJSON(w, map[string]string{"message": "joined group"}, http.StatusOK)
}

// HandleListGroups lists every group the caller belongs to.
func (h *GroupHandler) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	groups, err := h.store.GroupsForUser(userID)
	if err != nil {
		logger.L.Error("Failed to list groups", "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to list groups", http.StatusInternalServerError)
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}
	utils.SendJSON(w, groups, http.StatusOK)
}

// HandleListGroupMembers lists the memberships of a group the caller
// belongs to.
func (h *GroupHandler) HandleListGroupMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	groupID, ok := requireGroupMember(w, r, h.store, userID)
	if !ok {
		return
	}

	members, err := h.store.GroupMembers(groupID)
	if err != nil {
		logger.L.Error("Failed to list group members", "groupID", groupID, "error", err)
		utils.SendJSONError(w, "Failed to list group members", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, members, http.StatusOK)
}

type setDefaultGroupRequest struct {
	GroupID string `json:"groupId" validate:"required,uuid4"`
}

// HandleSetDefaultGroup marks one of the caller's memberships as default;
// all other memberships lose the flag in the same transaction.
func (h *GroupHandler) HandleSetDefaultGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req setDefaultGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.SendJSONError(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.SetDefaultGroup(userID, req.GroupID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.SendJSONError(w, "Not a member of this group", http.StatusNotFound)
			return
		}
		logger.L.Error("Failed to set default group", "groupID", req.GroupID, "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to set default group", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, map[string]string{"message": "default group updated"}, http.StatusOK)
}

// HandleDefaultGroup returns the caller's default group, if any.
func (h *GroupHandler) HandleDefaultGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	group, err := h.store.DefaultGroup(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.SendJSONError(w, "No default group set", http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, "Failed to load default group", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, group, http.StatusOK)
}
