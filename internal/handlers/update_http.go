package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/SyntaxSorcerers2025/ticketly/internal/middleware"
	"github.com/SyntaxSorcerers2025/ticketly/internal/models"
	"github.com/SyntaxSorcerers2025/ticketly/internal/service"
	"github.com/SyntaxSorcerers2025/ticketly/internal/utils"
)

type UpdateHTTP struct {
	svc *service.TicketService
}

func NewUpdateHTTP(svc *service.TicketService) *UpdateHTTP { return &UpdateHTTP{svc: svc} }

// GET /api/updates/ticket/{ticketId}
func (h *UpdateHTTP) ListByTicket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := middleware.Identity(r.Context())
		ticketID, ok := pathID(r, "ticketId")
		if !ok {
			utils.Error(w, http.StatusBadRequest, "invalid ticket id")
			return
		}
		updates, err := h.svc.ListUpdates(r.Context(), caller, ticketID)
		if err != nil {
			utils.AppError(w, err)
			return
		}
		if updates == nil {
			updates = []models.Update{}
		}
		utils.JSON(w, http.StatusOK, map[string]any{"updates": updates, "count": len(updates)})
	}
}

// POST /api/updates
func (h *UpdateHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		TicketID int64  `json:"ticketId"`
		Message  string `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := middleware.Identity(r.Context())
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if in.TicketID <= 0 {
			utils.Error(w, http.StatusBadRequest, "valid ticket id is required")
			return
		}
		u, err := h.svc.AddUpdate(r.Context(), caller, in.TicketID, in.Message)
		if err != nil {
			utils.AppError(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, map[string]any{
			"message":  "Update added successfully",
			"updateId": u.ID,
			"update":   u,
		})
	}
}
