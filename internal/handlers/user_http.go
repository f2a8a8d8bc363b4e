package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SyntaxSorcerers2025/ticketly/internal/models"
	"github.com/SyntaxSorcerers2025/ticketly/internal/repository"
	"github.com/SyntaxSorcerers2025/ticketly/internal/utils"
)

// UserHTTP serves the coordinator-only directory endpoints. Route-level role
// gating happens in the router; these handlers assume a coordinator caller.
type UserHTTP struct {
	repo repository.UserRepository
}

func NewUserHTTP(repo repository.UserRepository) *UserHTTP { return &UserHTTP{repo: repo} }

// GET /api/users
func (h *UserHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.repo.List(r.Context())
		if err != nil {
			utils.AppError(w, err)
			return
		}
		if users == nil {
			users = []models.User{}
		}
		utils.JSON(w, http.StatusOK, map[string]any{"users": users, "count": len(users)})
	}
}

// GET /api/users/role/{role}
func (h *UserHTTP) ListByRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(chi.URLParam(r, "role"))
		role := models.Role(n)
		if err != nil || !role.Valid() {
			utils.Error(w, http.StatusBadRequest, "invalid role specified")
			return
		}
		users, err := h.repo.ListByRole(r.Context(), role)
		if err != nil {
			utils.AppError(w, err)
			return
		}
		if users == nil {
			users = []models.User{}
		}
		utils.JSON(w, http.StatusOK, map[string]any{"users": users, "count": len(users)})
	}
}

// GET /api/users/stats/overview
func (h *UserHTTP) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.repo.Stats(r.Context())
		if err != nil {
			utils.AppError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"stats": stats})
	}
}
