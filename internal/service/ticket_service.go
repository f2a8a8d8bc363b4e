package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/SyntaxSorcerers2025/ticketly/internal/ai"
	"github.com/SyntaxSorcerers2025/ticketly/internal/apperr"
	"github.com/SyntaxSorcerers2025/ticketly/internal/models"
	"github.com/SyntaxSorcerers2025/ticketly/internal/notify"
	"github.com/SyntaxSorcerers2025/ticketly/internal/policy"
	"github.com/SyntaxSorcerers2025/ticketly/internal/repository"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
	maxMessageLen     = 1000

	// Budget for post-commit side effects (events, AI suggestions).
	sideEffectTimeout = 5 * time.Second
)

// Notifier publishes lifecycle events. Implementations must be safe for
// concurrent use; nil disables notifications.
type Notifier interface {
	PublishTicketEvent(ctx context.Context, evt notify.Event) error
}

// Suggester is the advisory classification gateway; nil disables it.
type Suggester interface {
	Suggest(ctx context.Context, text string) (ai.Suggestion, error)
}

// TicketService is the only writer of ticket and update mutable state. It
// composes the policy engine, the repositories and the optional
// collaborators; everything transactional happens in the repos.
type TicketService struct {
	tickets   repository.TicketRepository
	updates   repository.UpdateRepository
	users     repository.UserRepository
	notifier  Notifier
	suggester Suggester
	log       zerolog.Logger
}

func NewTicketService(
	tickets repository.TicketRepository,
	updates repository.UpdateRepository,
	users repository.UserRepository,
	notifier Notifier,
	suggester Suggester,
	log zerolog.Logger,
) *TicketService {
	return &TicketService{
		tickets: tickets, updates: updates, users: users,
		notifier: notifier, suggester: suggester, log: log,
	}
}

type CreateTicketInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority"`
	Category    models.Category `json:"category"`
}

func (s *TicketService) Create(ctx context.Context, caller *models.User, in CreateTicketInput) (*models.Ticket, error) {
	if !policy.CanCreateTicket(caller.Role) {
		return nil, apperr.New(apperr.Forbidden, "coordinators cannot create tickets")
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	var fields []apperr.FieldError
	if l := len(in.Title); l < 1 || l > maxTitleLen {
		fields = append(fields, apperr.FieldError{Field: "title", Reason: "title is required and must be at most 200 characters"})
	}
	if l := len(in.Description); l < 1 || l > maxDescriptionLen {
		fields = append(fields, apperr.FieldError{Field: "description", Reason: "description is required and must be at most 2000 characters"})
	}
	if !in.Priority.Valid() {
		fields = append(fields, apperr.FieldError{Field: "priority", Reason: "valid priority is required"})
	}
	if !in.Category.Valid() {
		fields = append(fields, apperr.FieldError{Field: "category", Reason: "valid category is required"})
	}
	if len(fields) > 0 {
		return nil, apperr.NewValidation(fields...)
	}

	t := &models.Ticket{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Category:    in.Category,
		CreatedBy:   caller.ID,
	}
	if err := s.tickets.Create(ctx, t); err != nil {
		return nil, err
	}

	s.fireEvent(notify.Event{Type: "ticket.created", TicketID: t.ID, ActorID: caller.ID, Status: t.Status})
	s.adviseOnCreate(t)
	return t, nil
}

func (s *TicketService) List(ctx context.Context, caller *models.User, f repository.TicketFilter) ([]models.Ticket, int, error) {
	scope := policy.ListScope(caller.Role, caller.ID)
	return s.tickets.List(ctx, scope, f)
}

// Get answers NotFound both for absent tickets and for tickets outside the
// caller's visibility, so existence never leaks.
func (s *TicketService) Get(ctx context.Context, caller *models.User, id int64) (*models.Ticket, error) {
	scope := policy.ListScope(caller.Role, caller.ID)
	t, err := s.tickets.Get(ctx, id, scope)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.New(apperr.NotFound, "ticket not found")
	}
	return t, nil
}

// UpdateFields applies a coordinator patch all-or-nothing: every present
// field is validated before any write happens.
func (s *TicketService) UpdateFields(ctx context.Context, caller *models.User, id int64, p repository.TicketPatch) (*models.Ticket, error) {
	if !policy.CanMutateTicket(caller.Role) {
		return nil, apperr.New(apperr.Forbidden, "only IT coordinators can update tickets")
	}
	if p.Empty() {
		return nil, apperr.NewValidation(apperr.FieldError{Field: "body", Reason: "no valid fields to update"})
	}

	var fields []apperr.FieldError
	if p.Status != nil && !p.Status.Valid() {
		fields = append(fields, apperr.FieldError{Field: "status", Reason: "valid status is required"})
	}
	if p.Priority != nil && !p.Priority.Valid() {
		fields = append(fields, apperr.FieldError{Field: "priority", Reason: "valid priority is required"})
	}
	if p.AssignedTo != nil {
		assignee, err := s.users.GetByID(ctx, *p.AssignedTo)
		if err != nil {
			return nil, err
		}
		switch {
		case assignee == nil:
			fields = append(fields, apperr.FieldError{Field: "assignedTo", Reason: "assignee does not exist"})
		case assignee.Role != models.RoleCoordinator:
			fields = append(fields, apperr.FieldError{Field: "assignedTo", Reason: "assignee must be an IT coordinator"})
		}
	}
	if len(fields) > 0 {
		return nil, apperr.NewValidation(fields...)
	}

	t, err := s.tickets.UpdateFields(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.fireEvent(notify.Event{Type: "ticket.updated", TicketID: t.ID, ActorID: caller.ID, Status: t.Status})
	return t, nil
}

// Delete is creator-only. Unlike reads, a non-owner learns the ticket exists;
// delete is not an enumeration surface.
func (s *TicketService) Delete(ctx context.Context, caller *models.User, id int64) error {
	t, err := s.tickets.Get(ctx, id, policy.Scope{})
	if err != nil {
		return err
	}
	if t == nil {
		return apperr.New(apperr.NotFound, "ticket not found")
	}
	if !policy.CanDeleteTicket(caller.Role, caller.ID, t.CreatedBy) {
		return apperr.New(apperr.Forbidden, "you can only delete your own tickets")
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return err
	}
	s.fireEvent(notify.Event{Type: "ticket.deleted", TicketID: id, ActorID: caller.ID})
	return nil
}

// ListUpdates requires read access to the parent ticket; the access check
// and the NotFound uniformity both come from Get.
func (s *TicketService) ListUpdates(ctx context.Context, caller *models.User, ticketID int64) ([]models.Update, error) {
	if _, err := s.Get(ctx, caller, ticketID); err != nil {
		return nil, err
	}
	return s.updates.ListByTicket(ctx, ticketID)
}

func (s *TicketService) AddUpdate(ctx context.Context, caller *models.User, ticketID int64, message string) (*models.Update, error) {
	message = strings.TrimSpace(message)
	if l := len(message); l < 1 || l > maxMessageLen {
		return nil, apperr.NewValidation(apperr.FieldError{Field: "message", Reason: "message is required and must be at most 1000 characters"})
	}
	if _, err := s.Get(ctx, caller, ticketID); err != nil {
		return nil, err
	}

	u := &models.Update{TicketID: ticketID, UpdatedBy: caller.ID, Message: message}
	if err := s.updates.Create(ctx, u); err != nil {
		return nil, err
	}
	s.fireEvent(notify.Event{Type: "ticket.commented", TicketID: ticketID, ActorID: caller.ID})
	return u, nil
}

func (s *TicketService) Stats(ctx context.Context, caller *models.User) (*models.TicketStats, error) {
	if !policy.CanViewStats(caller.Role) {
		return nil, apperr.New(apperr.Forbidden, "insufficient permissions")
	}
	return s.tickets.Stats(ctx)
}

// fireEvent publishes out of band, after the transaction committed. A lost
// event is logged and forgotten.
func (s *TicketService) fireEvent(evt notify.Event) {
	if s.notifier == nil {
		return
	}
	evt.At = time.Now()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		if err := s.notifier.PublishTicketEvent(ctx, evt); err != nil {
			s.log.Warn().Err(err).Str("type", evt.Type).Int64("ticket_id", evt.TicketID).Msg("ticket event publish failed")
		}
	}()
}

// adviseOnCreate asks the gateway how it would have triaged the new ticket
// and logs a disagreement for the coordinators to review. Advisory only.
func (s *TicketService) adviseOnCreate(t *models.Ticket) {
	if s.suggester == nil {
		return
	}
	id, desc, prio, cat := t.ID, t.Description, t.Priority, t.Category
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()
		sug, err := s.suggester.Suggest(ctx, desc)
		if err != nil {
			s.log.Debug().Err(err).Int64("ticket_id", id).Msg("triage suggestion unavailable")
			return
		}
		if sug.Priority != prio || sug.Category != cat {
			s.log.Info().
				Int64("ticket_id", id).
				Int("filed_priority", int(prio)).
				Int("suggested_priority", int(sug.Priority)).
				Int("filed_category", int(cat)).
				Int("suggested_category", int(sug.Category)).
				Str("rationale", sug.Rationale).
				Msg("triage suggestion differs from filed values")
		}
	}()
}
