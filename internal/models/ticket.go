package models

import "time"

type Status int

const (
	StatusOpen       Status = 1
	StatusInProgress Status = 2
	StatusResolved   Status = 3
	StatusClosed     Status = 4
)

func (s Status) Valid() bool { return s >= StatusOpen && s <= StatusClosed }

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusInProgress:
		return "in_progress"
	case StatusResolved:
		return "resolved"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// CanTransition reports whether a status write from cur to next is legal.
// Forward moves go one step at a time; any non-closed ticket may be closed
// directly as an administrative override. Closed is terminal. Writing the
// current status again is a permitted no-op so retries stay idempotent.
func CanTransition(cur, next Status) bool {
	if cur == next {
		return true
	}
	if cur == StatusClosed {
		return false
	}
	if next == StatusClosed {
		return true
	}
	switch cur {
	case StatusOpen:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusResolved
	default:
		return false
	}
}

type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
	PriorityUrgent Priority = 4
)

func (p Priority) Valid() bool { return p >= PriorityLow && p <= PriorityUrgent }

type Category int

const (
	CategoryHardware Category = 1
	CategorySoftware Category = 2
	CategoryNetwork  Category = 3
	CategoryOther    Category = 4
)

func (c Category) Valid() bool { return c >= CategoryHardware && c <= CategoryOther }

type Ticket struct {
	ID          int64     `json:"ticketId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	Category    Category  `json:"category"`
	CreatedBy   int64     `json:"createdBy"`
	AssignedTo  *int64    `json:"assignedTo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Joined display fields, empty when the join had no row.
	CreatorName  string `json:"creatorName,omitempty"`
	AssigneeName string `json:"assigneeName,omitempty"`
}

type TicketStats struct {
	Total      int `json:"total_tickets"`
	Open       int `json:"open_tickets"`
	InProgress int `json:"in_progress_tickets"`
	Resolved   int `json:"resolved_tickets"`
	Closed     int `json:"closed_tickets"`
	Urgent     int `json:"urgent_tickets"`
}
