package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SyntaxSorcerers2025/ticketly/internal/apperr"
	"github.com/SyntaxSorcerers2025/ticketly/internal/models"
	"github.com/SyntaxSorcerers2025/ticketly/internal/policy"
	"github.com/SyntaxSorcerers2025/ticketly/internal/repository"
)

// memStore is an in-memory stand-in for the Postgres layer. One mutex plays
// the role of the store's transaction isolation; the per-name counters mimic
// the sequences table.
type memStore struct {
	mu      sync.Mutex
	seq     map[string]int64
	users   map[int64]models.User
	hashes  map[string]string // email -> password hash
	tickets map[int64]models.Ticket
	updates map[int64]models.Update
}

func newMemStore() *memStore {
	return &memStore{
		seq:     make(map[string]int64),
		users:   make(map[int64]models.User),
		hashes:  make(map[string]string),
		tickets: make(map[int64]models.Ticket),
		updates: make(map[int64]models.Update),
	}
}

// next increments a named counter; callers hold s.mu.
func (s *memStore) next(name string) int64 {
	s.seq[name]++
	return s.seq[name]
}

func (s *memStore) addUser(id int64, role models.Role) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := models.User{
		ID: id, Role: role,
		FirstName: "User", LastName: "Name",
		Email:     fmt.Sprintf("user%d@school.test", id),
		CreatedAt: time.Now(),
	}
	s.users[id] = u
	return &u
}

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Create(_ context.Context, u *models.User, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return apperr.NewValidation(apperr.FieldError{Field: "email", Reason: "already registered"})
		}
	}
	u.ID = r.s.next("user")
	u.CreatedAt = time.Now()
	r.s.users[u.ID] = *u
	r.s.hashes[u.Email] = hash
	return nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := u
			return &cp, r.s.hashes[email], nil
		}
	}
	return nil, "", nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		cp := u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.User
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.User
	for _, u := range r.s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Stats(_ context.Context) (*models.UserStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var st models.UserStats
	for _, u := range r.s.users {
		st.Total++
		switch u.Role {
		case models.RoleStudent:
			st.Students++
		case models.RoleTeacher:
			st.Teachers++
		case models.RoleCoordinator:
			st.ITCoordinators++
		}
	}
	return &st, nil
}

type fakeTicketRepo struct{ s *memStore }

func (r *fakeTicketRepo) List(_ context.Context, scope policy.Scope, f repository.TicketFilter) ([]models.Ticket, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Ticket
	for _, t := range r.s.tickets {
		if !scope.Unrestricted() && t.CreatedBy != *scope.CreatorID {
			continue
		}
		if f.Q != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Q)) &&
			!strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Q)) {
			continue
		}
		if f.Status != 0 && t.Status != f.Status {
			continue
		}
		if f.Priority != 0 && t.Priority != f.Priority {
			continue
		}
		if f.Category != 0 && t.Category != f.Category {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, len(out), nil
}

func (r *fakeTicketRepo) Get(_ context.Context, id int64, scope policy.Scope) (*models.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tickets[id]
	if !ok {
		return nil, nil
	}
	if !scope.Unrestricted() && t.CreatedBy != *scope.CreatorID {
		return nil, nil
	}
	cp := t
	return &cp, nil
}

func (r *fakeTicketRepo) Create(_ context.Context, t *models.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.next("ticket")
	t.Status = models.StatusOpen
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.s.tickets[t.ID] = *t
	return nil
}

func (r *fakeTicketRepo) UpdateFields(_ context.Context, id int64, p repository.TicketPatch) (*models.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.tickets[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "ticket not found")
	}
	if p.Status != nil && !models.CanTransition(cur.Status, *p.Status) {
		return nil, apperr.Newf(apperr.InvalidTransition, "cannot move ticket from %s to %s", cur.Status, *p.Status)
	}
	if p.Status != nil {
		cur.Status = *p.Status
	}
	if p.AssignedTo != nil {
		cur.AssignedTo = p.AssignedTo
	}
	if p.Priority != nil {
		cur.Priority = *p.Priority
	}
	cur.UpdatedAt = time.Now()
	r.s.tickets[id] = cur
	cp := cur
	return &cp, nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tickets[id]; !ok {
		return apperr.New(apperr.NotFound, "ticket not found")
	}
	for uid, u := range r.s.updates {
		if u.TicketID == id {
			delete(r.s.updates, uid)
		}
	}
	delete(r.s.tickets, id)
	return nil
}

func (r *fakeTicketRepo) Stats(_ context.Context) (*models.TicketStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var st models.TicketStats
	for _, t := range r.s.tickets {
		st.Total++
		switch t.Status {
		case models.StatusOpen:
			st.Open++
		case models.StatusInProgress:
			st.InProgress++
		case models.StatusResolved:
			st.Resolved++
		case models.StatusClosed:
			st.Closed++
		}
		if t.Priority == models.PriorityUrgent {
			st.Urgent++
		}
	}
	return &st, nil
}

type fakeUpdateRepo struct{ s *memStore }

func (r *fakeUpdateRepo) ListByTicket(_ context.Context, ticketID int64) ([]models.Update, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Update
	for _, u := range r.s.updates {
		if u.TicketID == ticketID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUpdateRepo) Create(_ context.Context, u *models.Update) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tickets[u.TicketID]
	if !ok {
		return apperr.New(apperr.NotFound, "ticket not found")
	}
	u.ID = r.s.next("update")
	u.CreatedAt = time.Now()
	t.UpdatedAt = u.CreatedAt
	r.s.tickets[u.TicketID] = t
	r.s.updates[u.ID] = *u
	return nil
}
