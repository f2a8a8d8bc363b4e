package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SyntaxSorcerers2025/ticketly/internal/apperr"
	"github.com/SyntaxSorcerers2025/ticketly/internal/models"
	"github.com/SyntaxSorcerers2025/ticketly/internal/repository"
)

type UpdateRepo struct {
	db   *pgxpool.Pool
	seqs *Sequences
}

func NewUpdateRepo(db *pgxpool.Pool, seqs *Sequences) repository.UpdateRepository {
	return &UpdateRepo{db: db, seqs: seqs}
}

func (r *UpdateRepo) ListByTicket(ctx context.Context, ticketID int64) ([]models.Update, error) {
	rows, err := r.db.Query(ctx, `
		SELECT u.update_id, u.ticket_id, u.updated_by, u.message, u.created_at,
		       COALESCE(usr.first_name || ' ' || usr.last_name, '')
		FROM updates u
		LEFT JOIN users usr ON u.updated_by = usr.user_id
		WHERE u.ticket_id = $1
		ORDER BY u.created_at ASC
	`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Update
	for rows.Next() {
		var u models.Update
		if err := rows.Scan(&u.ID, &u.TicketID, &u.UpdatedBy, &u.Message, &u.CreatedAt, &u.AuthorName); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Create inserts the update and bumps the parent's updated_at in one
// transaction, so readers observe the two together or not at all.
func (r *UpdateRepo) Create(ctx context.Context, u *models.Update) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		now := time.Now()

		// Bump first: the row lock it takes serializes concurrent appends to
		// the same ticket, and zero rows means the parent vanished.
		ct, err := tx.Exec(ctx, `UPDATE tickets SET updated_at = $1 WHERE ticket_id = $2`, now, u.TicketID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return apperr.New(apperr.NotFound, "ticket not found")
		}

		id, err := r.seqs.Next(ctx, tx, SeqUpdate)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO updates (update_id, ticket_id, updated_by, message, created_at)
			VALUES ($1,$2,$3,$4,$5)
		`, id, u.TicketID, u.UpdatedBy, u.Message, now)
		if err != nil {
			return err
		}
		u.ID = id
		u.CreatedAt = now
		return nil
	})
}
