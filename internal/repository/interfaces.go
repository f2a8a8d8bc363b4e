package repository

import (
	"context"

	"github.com/SyntaxSorcerers2025/ticketly/internal/models"
	"github.com/SyntaxSorcerers2025/ticketly/internal/policy"
)

type TicketRepository interface {
	// List returns tickets visible under scope, newest first, with optional
	// free-text/status filtering and pagination.
	List(ctx context.Context, scope policy.Scope, f TicketFilter) ([]models.Ticket, int, error)
	// Get returns nil when the ticket is absent or outside scope.
	Get(ctx context.Context, id int64, scope policy.Scope) (*models.Ticket, error)
	// Create allocates the ticket id and inserts in one transaction.
	Create(ctx context.Context, t *models.Ticket) error
	// UpdateFields locks the row, enforces the status transition rule and
	// applies the patch all-or-nothing, bumping updated_at.
	UpdateFields(ctx context.Context, id int64, p TicketPatch) (*models.Ticket, error)
	// Delete removes the ticket and all its updates in one transaction.
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.TicketStats, error)
}

type UpdateRepository interface {
	ListByTicket(ctx context.Context, ticketID int64) ([]models.Update, error)
	// Create allocates the update id, inserts it and bumps the parent
	// ticket's updated_at inside one transaction.
	Create(ctx context.Context, u *models.Update) error
}

type UserRepository interface {
	// Create allocates the user id and inserts in one transaction.
	Create(ctx context.Context, u *models.User, passwordHash string) error
	// GetByEmail returns (nil, "", nil) when no user matches.
	GetByEmail(ctx context.Context, email string) (*models.User, string, error)
	// GetByID returns (nil, nil) when no user matches.
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	Stats(ctx context.Context) (*models.UserStats, error)
}
