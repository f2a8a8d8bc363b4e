package models

import "time"

// Update is an append-only note on a ticket. No edit or delete exists.
type Update struct {
	ID        int64     `json:"updateId"`
	TicketID  int64     `json:"ticketId"`
	UpdatedBy int64     `json:"updatedBy"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`

	AuthorName string `json:"authorName,omitempty"`
}
