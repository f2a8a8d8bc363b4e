package repository

import "github.com/SyntaxSorcerers2025/ticketly/internal/models"

// TicketFilter narrows a scoped list. Zero enum values mean "any".
type TicketFilter struct {
	Q        string
	Status   models.Status
	Priority models.Priority
	Category models.Category
	Limit    int
	Offset   int
}

// TicketPatch is the fixed set of coordinator-mutable fields. A nil field is
// left untouched; present fields are validated together before any write.
type TicketPatch struct {
	Status     *models.Status
	AssignedTo *int64
	Priority   *models.Priority
}

func (p TicketPatch) Empty() bool {
	return p.Status == nil && p.AssignedTo == nil && p.Priority == nil
}
