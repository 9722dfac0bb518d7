package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/username/kopilka/backend/src/logger"
	"github.com/username/kopilka/backend/src/store"
	"github.com/username/kopilka/backend/src/utils"
)

// Unexported context key type so other packages cannot collide with it.
type contextKey string

const userIDContextKey contextKey = "userID"

// GetUserIDFromContext returns the authenticated user ID placed in the
// request context by AuthMiddleware.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return authHeader
}

// AuthMiddleware validates the bearer token and the backing session before
// stashing the user ID in the request context.
func (h *UserHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			logger.L.Debug("AuthMiddleware: Authorization header missing", "path", r.URL.Path)
			utils.SendJSONError(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		userID, err := h.authService.ValidateToken(tokenString)
		if err != nil {
			logger.L.Warn("AuthMiddleware: Token validation failed", "path", r.URL.Path, "error", err)
			utils.SendJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		session, err := h.store.SessionByToken(tokenString)
		if err != nil {
			logger.L.Warn("AuthMiddleware: No session for token", "path", r.URL.Path, "userID", userID)
			utils.SendJSONError(w, "Invalid or expired session", http.StatusUnauthorized)
			return
		}
		if time.Now().After(session.ExpiresAt) {
			utils.SendJSONError(w, "Session expired", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireGroupMember resolves the groupId query parameter and confirms the
// user belongs to that group. Writes the error response itself on failure.
func requireGroupMember(w http.ResponseWriter, r *http.Request, st *store.Store, userID int64) (string, bool) {
	groupID := r.URL.Query().Get("groupId")
	if groupID == "" {
		utils.SendJSONError(w, "groupId query parameter required", http.StatusBadRequest)
		return "", false
	}
	member, err := st.IsGroupMember(groupID, userID)
	if err != nil {
		logger.L.Error("Group membership check failed", "groupID", groupID, "userID", userID, "error", err)
		utils.SendJSONError(w, "Failed to check group membership", http.StatusInternalServerError)
		return "", false
	}
	if !member {
		utils.SendJSONError(w, "Not a member of this group", http.StatusForbidden)
		return "", false
	}
	return groupID, true
}
