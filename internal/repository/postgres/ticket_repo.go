package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SyntaxSorcerers2025/ticketly/internal/apperr"
	"github.com/SyntaxSorcerers2025/ticketly/internal/models"
	"github.com/SyntaxSorcerers2025/ticketly/internal/policy"
	"github.com/SyntaxSorcerers2025/ticketly/internal/repository"
)

type TicketRepo struct {
	db   *pgxpool.Pool
	seqs *Sequences
}

func NewTicketRepo(db *pgxpool.Pool, seqs *Sequences) repository.TicketRepository {
	return &TicketRepo{db: db, seqs: seqs}
}

const ticketColumns = `
	t.ticket_id, t.title, t.description, t.priority, t.status, t.category,
	t.created_by, t.assigned_to, t.created_at, t.updated_at,
	COALESCE(u1.first_name || ' ' || u1.last_name, ''),
	COALESCE(u2.first_name || ' ' || u2.last_name, '')`

const ticketJoins = `
	FROM tickets t
	LEFT JOIN users u1 ON t.created_by = u1.user_id
	LEFT JOIN users u2 ON t.assigned_to = u2.user_id`

func (r *TicketRepo) List(ctx context.Context, scope policy.Scope, f repository.TicketFilter) ([]models.Ticket, int, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	whereSQL, args := buildTicketWhere(scope, f)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets t `+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	sql := `SELECT ` + ticketColumns + ticketJoins + `
		` + whereSQL + `
		ORDER BY t.created_at DESC
		LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := scanTicket(rows, &t); err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *TicketRepo) Get(ctx context.Context, id int64, scope policy.Scope) (*models.Ticket, error) {
	args := []any{id}
	cond := "WHERE t.ticket_id = $1"
	if !scope.Unrestricted() {
		args = append(args, *scope.CreatorID)
		cond += " AND t.created_by = $2"
	}

	var t models.Ticket
	err := r.db.QueryRow(ctx, `SELECT `+ticketColumns+ticketJoins+` `+cond, args...).
		Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status, &t.Category,
			&t.CreatedBy, &t.AssignedTo, &t.CreatedAt, &t.UpdatedAt,
			&t.CreatorName, &t.AssigneeName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepo) Create(ctx context.Context, t *models.Ticket) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		id, err := r.seqs.Next(ctx, tx, SeqTicket)
		if err != nil {
			return err
		}
		now := time.Now()
		_, err = tx.Exec(ctx, `
			INSERT INTO tickets (ticket_id, created_by, title, description, priority, status, category, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`, id, t.CreatedBy, t.Title, t.Description, t.Priority, models.StatusOpen, t.Category, now, now)
		if err != nil {
			return err
		}
		t.ID = id
		t.Status = models.StatusOpen
		t.CreatedAt = now
		t.UpdatedAt = now
		return nil
	})
}

// UpdateFields holds the row lock across the status check and the write so a
// concurrent coordinator cannot slip an illegal transition in between.
func (r *TicketRepo) UpdateFields(ctx context.Context, id int64, p repository.TicketPatch) (*models.Ticket, error) {
	var out *models.Ticket
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var cur models.Ticket
		err := tx.QueryRow(ctx, `
			SELECT ticket_id, title, description, priority, status, category,
			       created_by, assigned_to, created_at, updated_at
			FROM tickets WHERE ticket_id = $1
			FOR UPDATE
		`, id).Scan(&cur.ID, &cur.Title, &cur.Description, &cur.Priority, &cur.Status,
			&cur.Category, &cur.CreatedBy, &cur.AssignedTo, &cur.CreatedAt, &cur.UpdatedAt)
		if err != nil {
			if err == pgx.ErrNoRows {
				return apperr.New(apperr.NotFound, "ticket not found")
			}
			return err
		}

		if p.Status != nil && !models.CanTransition(cur.Status, *p.Status) {
			return apperr.Newf(apperr.InvalidTransition,
				"cannot move ticket from %s to %s", cur.Status, *p.Status)
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

		_, err = tx.Exec(ctx, `
			UPDATE tickets
			SET status=$1, assigned_to=$2, priority=$3, updated_at=$4
			WHERE ticket_id=$5
		`, cur.Status, cur.AssignedTo, cur.Priority, cur.UpdatedAt, cur.ID)
		if err != nil {
			return err
		}
		out = &cur
		return nil
	})
	return out, err
}

// Delete removes child updates before the ticket itself; FK order matters.
func (r *TicketRepo) Delete(ctx context.Context, id int64) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM updates WHERE ticket_id = $1`, id); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `DELETE FROM tickets WHERE ticket_id = $1`, id)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return apperr.New(apperr.NotFound, "ticket not found")
		}
		return nil
	})
}

func (r *TicketRepo) Stats(ctx context.Context) (*models.TicketStats, error) {
	var s models.TicketStats
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 1),
			COUNT(*) FILTER (WHERE status = 2),
			COUNT(*) FILTER (WHERE status = 3),
			COUNT(*) FILTER (WHERE status = 4),
			COUNT(*) FILTER (WHERE priority = 4)
		FROM tickets`).
		Scan(&s.Total, &s.Open, &s.InProgress, &s.Resolved, &s.Closed, &s.Urgent)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func buildTicketWhere(scope policy.Scope, f repository.TicketFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if !scope.Unrestricted() {
		args = append(args, *scope.CreatorID)
		clauses = append(clauses, "t.created_by = $"+itoa(len(args)))
	}
	if q := strings.TrimSpace(f.Q); q != "" {
		p := "%" + q + "%"
		args = append(args, p, p)
		clauses = append(clauses, "(t.title ILIKE $"+itoa(len(args)-1)+" OR t.description ILIKE $"+itoa(len(args))+")")
	}
	if f.Status != 0 {
		args = append(args, f.Status)
		clauses = append(clauses, "t.status = $"+itoa(len(args)))
	}
	if f.Priority != 0 {
		args = append(args, f.Priority)
		clauses = append(clauses, "t.priority = $"+itoa(len(args)))
	}
	if f.Category != 0 {
		args = append(args, f.Category)
		clauses = append(clauses, "t.category = $"+itoa(len(args)))
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func scanTicket(rows pgx.Rows, t *models.Ticket) error {
	return rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status, &t.Category,
		&t.CreatedBy, &t.AssignedTo, &t.CreatedAt, &t.UpdatedAt,
		&t.CreatorName, &t.AssigneeName)
}

// small helper to avoid fmt for query assembly.
func itoa(i int) string { return strconv.Itoa(i) }
