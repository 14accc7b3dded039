package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Harith-design/webportal-sub000/internal/auth"
	"github.com/Harith-design/webportal-sub000/internal/core"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	CardCode string `json:"cardCode"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type customerView struct {
	CardCode string `json:"cardCode"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Same answer as a wrong password; don't leak which accounts exist.
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		slog.ErrorContext(r.Context(), "Login lookup failed", "error", err, "username", req.Username)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		slog.WarnContext(r.Context(), "Failed login attempt", "username", req.Username)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	session := auth.Session{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		CardCode: user.CardCode,
	}
	token, err := s.tokens.Issue(session)
	if err != nil {
		slog.ErrorContext(r.Context(), "Token issue failed", "error", err, "username", req.Username)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	slog.InfoContext(r.Context(), "User logged in", "username", user.Username, "card_code", user.CardCode)
	writeData(w, loginResponse{
		Token: token,
		User: userView{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
			CardCode: user.CardCode,
		},
	})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())

	user, err := s.users.GetUser(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// Token outlived the account.
			writeError(w, http.StatusUnauthorized, "account no longer exists")
			return
		}
		slog.ErrorContext(r.Context(), "Current user lookup failed", "error", err, "user_id", session.UserID)
		writeError(w, http.StatusInternalServerError, "failed loading user")
		return
	}

	writeData(w, userView{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		CardCode: user.CardCode,
	})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if len(req.NewPassword) < 8 {
		writeError(w, http.StatusUnprocessableEntity, "new password must be at least 8 characters")
		return
	}

	user, err := s.users.GetUser(r.Context(), session.UserID)
	if err != nil {
		writeServiceError(w, r, err, "failed loading user")
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
		writeError(w, http.StatusUnauthorized, "current password is wrong")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hash failed", "error", err, "user_id", session.UserID)
		writeError(w, http.StatusInternalServerError, "failed updating password")
		return
	}
	if err := s.users.UpdatePassword(r.Context(), session.UserID, hash); err != nil {
		writeServiceError(w, r, err, "failed updating password")
		return
	}

	slog.InfoContext(r.Context(), "Password updated", "user_id", session.UserID, "username", session.Username)
	writeData(w, map[string]bool{"updated": true})
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())

	customers, err := s.users.ListCustomers(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed listing customers")
		return
	}

	views := make([]customerView, 0, len(customers))
	for _, c := range customers {
		// Plain users see only their own directory entry.
		if session.Role != "admin" && c.CardCode != session.CardCode {
			continue
		}
		views = append(views, customerView{
			CardCode: c.CardCode,
			Name:     c.Name,
			Currency: c.Currency,
		})
	}

	writeData(w, views)
}
