package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SyntaxSorcerers2025/ticketly/internal/middleware"
	"github.com/SyntaxSorcerers2025/ticketly/internal/service"
	"github.com/SyntaxSorcerers2025/ticketly/internal/utils"
)

type AuthHTTP struct {
	svc      *service.AuthService
	tokenTTL time.Duration
}

func NewAuthHTTP(svc *service.AuthService, tokenTTL time.Duration) *AuthHTTP {
	return &AuthHTTP{svc: svc, tokenTTL: tokenTTL}
}

func (h *AuthHTTP) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		u, token, err := h.svc.Register(r.Context(), in)
		if err != nil {
			utils.AppError(w, err)
			return
		}
		h.setSessionCookie(w, token)
		utils.JSON(w, http.StatusCreated, map[string]any{
			"message": "User created successfully",
			"token":   token,
			"user":    u,
		})
	}
}

func (h *AuthHTTP) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		token, u, err := h.svc.Login(r.Context(), in.Email, in.Password)
		if err != nil {
			utils.AppError(w, err)
			return
		}
		h.setSessionCookie(w, token)
		utils.JSON(w, http.StatusOK, map[string]any{
			"message": "Login successful",
			"token":   token,
			"user":    u,
		})
	}
}

func (h *AuthHTTP) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     "session",
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// Profile returns the directory-resolved identity from the auth middleware.
func (h *AuthHTTP) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := middleware.Identity(r.Context())
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"user": u})
	}
}

func (h *AuthHTTP) Verify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := middleware.Identity(r.Context())
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"valid": true, "user": u})
	}
}

func (h *AuthHTTP) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.tokenTTL),
	})
}
