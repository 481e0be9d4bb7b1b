package handlers

import (
	"errors"
	"net/http"

	"github.com/crucial707/travel-journal/internal/middleware"
	"github.com/crucial707/travel-journal/internal/repo"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Repo *repo.UserRepo
}

// GetUser returns the authenticated user. A token for a user that no longer
// exists is answered like an invalid token.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "Access token required", http.StatusUnauthorized)
		return
	}

	user, err := h.Repo.GetByID(r.Context(), userID)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "User not found", http.StatusUnauthorized)
		return
	}
	if err != nil {
		internalError(w, r, "get user", err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"message": "",
	})
}
