package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SyntaxSorcerers2025/ticketly/internal/middleware"
	"github.com/SyntaxSorcerers2025/ticketly/internal/models"
	"github.com/SyntaxSorcerers2025/ticketly/internal/repository"
	"github.com/SyntaxSorcerers2025/ticketly/internal/service"
	"github.com/SyntaxSorcerers2025/ticketly/internal/utils"
)

// TicketHTTP wires the ticket lifecycle endpoints to the service layer.
type TicketHTTP struct {
	svc *service.TicketService
}

func NewTicketHTTP(svc *service.TicketService) *TicketHTTP { return &TicketHTTP{svc: svc} }

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// GET /api/tickets
func (h *TicketHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := middleware.Identity(r.Context())
		qv := r.URL.Query()
		f := repository.TicketFilter{
			Q:        qv.Get("q"),
			Status:   models.Status(utils.QueryInt(qv, "status", 0)),
			Priority: models.Priority(utils.QueryInt(qv, "priority", 0)),
			Category: models.Category(utils.QueryInt(qv, "category", 0)),
			Limit:    utils.QueryInt(qv, "limit", 50),
			Offset:   utils.QueryInt(qv, "offset", 0),
		}

		items, total, err := h.svc.List(r.Context(), caller, f)
		if err != nil {
			utils.AppError(w, err)
			return
		}
		if items == nil {
			items = []models.Ticket{}
		}
		w.Header().Set("X-Total-Count", strconv.Itoa(total))
		utils.JSON(w, http.StatusOK, map[string]any{"tickets": items, "count": total})
	}
}

// GET /api/tickets/{id}
func (h *TicketHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := middleware.Identity(r.Context())
		id, ok := pathID(r, "id")
		if !ok {
			utils.Error(w, http.StatusBadRequest, "invalid ticket id")
			return
		}
		t, err := h.svc.Get(r.Context(), caller, id)
		if err != nil {
			utils.AppError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"ticket": t})
	}
}

// POST /api/tickets
func (h *TicketHTTP) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := middleware.Identity(r.Context())
		var in service.CreateTicketInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		t, err := h.svc.Create(r.Context(), caller, in)
		if err != nil {
			utils.AppError(w, err)
			return
		}
		utils.JSON(w, http.StatusCreated, map[string]any{
			"message":  "Ticket created successfully",
			"ticketId": t.ID,
			"ticket":   t,
		})
	}
}

// PUT /api/tickets/{id}
func (h *TicketHTTP) Update() http.HandlerFunc {
	type inDTO struct {
		Status     *models.Status   `json:"status"`
		AssignedTo *int64           `json:"assignedTo"`
		Priority   *models.Priority `json:"priority"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := middleware.Identity(r.Context())
		id, ok := pathID(r, "id")
		if !ok {
			utils.Error(w, http.StatusBadRequest, "invalid ticket id")
			return
		}
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		t, err := h.svc.UpdateFields(r.Context(), caller, id, repository.TicketPatch{
			Status:     in.Status,
			AssignedTo: in.AssignedTo,
			Priority:   in.Priority,
		})
		if err != nil {
			utils.AppError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{
			"message": "Ticket updated successfully",
			"ticket":  t,
		})
	}
}

// DELETE /api/tickets/{id}
func (h *TicketHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := middleware.Identity(r.Context())
		id, ok := pathID(r, "id")
		if !ok {
			utils.Error(w, http.StatusBadRequest, "invalid ticket id")
			return
		}
		if err := h.svc.Delete(r.Context(), caller, id); err != nil {
			utils.AppError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"message": "Ticket deleted successfully"})
	}
}

// GET /api/tickets/stats/overview
func (h *TicketHTTP) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, _ := middleware.Identity(r.Context())
		stats, err := h.svc.Stats(r.Context(), caller)
		if err != nil {
			utils.AppError(w, err)
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"stats": stats})
	}
}
