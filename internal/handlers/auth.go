package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/travel-journal/internal/repo"
	"github.com/crucial707/travel-journal/internal/token"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	UserRepo *repo.UserRepo
	Tokens   *token.Service
}

// ==========================
// Create Account
// ==========================
func (h *AuthHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var input struct {
		FullName string `json:"fullName" validate:"required"`
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if !readJSON(w, r, &input, "Invalid JSON body") {
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "All fields are required", fieldErrors(err), http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.Create(r.Context(), input.FullName, input.Email, input.Password)
	if errors.Is(err, repo.ErrConflict) {
		JSONError(w, "User already exists", http.StatusBadRequest)
		return
	}
	if err != nil {
		internalError(w, r, "create account", err)
		return
	}

	accessToken, err := h.Tokens.Issue(user.ID)
	if err != nil {
		internalError(w, r, "issue token", err)
		return
	}

	slog.Info("account created", "request_id", chimw.GetReqID(r.Context()), "user_id", user.ID)
	JSON(w, http.StatusCreated, map[string]interface{}{
		"user":        user.Profile(),
		"accessToken": accessToken,
		"message":     "Registration Successful",
	})
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if !readJSON(w, r, &input, "Invalid JSON body") {
		return
	}
	if err := validate.Struct(input); err != nil {
		JSONValidationError(w, "Email and Password are required", fieldErrors(err), http.StatusBadRequest)
		return
	}

	user, err := h.UserRepo.GetByEmail(r.Context(), input.Email)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "User not found", http.StatusBadRequest)
		return
	}
	if err != nil {
		internalError(w, r, "login", err)
		return
	}

	if !repo.VerifyPassword(user, input.Password) {
		JSONError(w, "Invalid Credentials", http.StatusBadRequest)
		return
	}

	accessToken, err := h.Tokens.Issue(user.ID)
	if err != nil {
		internalError(w, r, "issue token", err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Login successful",
		"user":        user.Profile(),
		"accessToken": accessToken,
	})
}
