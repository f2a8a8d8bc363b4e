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

type UserRepo struct {
	db   *pgxpool.Pool
	seqs *Sequences
}

func NewUserRepo(db *pgxpool.Pool, seqs *Sequences) repository.UserRepository {
	return &UserRepo{db: db, seqs: seqs}
}

func (r *UserRepo) Create(ctx context.Context, u *models.User, passwordHash string) error {
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		id, err := r.seqs.Next(ctx, tx, SeqUser)
		if err != nil {
			return err
		}
		now := time.Now()
		_, err = tx.Exec(ctx, `
			INSERT INTO users (user_id, first_name, last_name, email, password_hash, role, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, id, u.FirstName, u.LastName, u.Email, passwordHash, u.Role, now)
		if err != nil {
			return err
		}
		u.ID = id
		u.CreatedAt = now
		return nil
	})
	if uniqueViolation(err) {
		return apperr.NewValidation(apperr.FieldError{Field: "email", Reason: "already registered"})
	}
	return err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var u models.User
	var ph string
	err := r.db.QueryRow(ctx, `
		SELECT user_id, first_name, last_name, email, password_hash, role, created_at
		FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &ph, &u.Role, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &u, ph, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `
		SELECT user_id, first_name, last_name, email, role, created_at
		FROM users WHERE user_id=$1`, id).
		Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, first_name, last_name, email, role, created_at
		FROM users
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *UserRepo) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, first_name, last_name, email, role, created_at
		FROM users
		WHERE role=$1
		ORDER BY first_name, last_name`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *UserRepo) Stats(ctx context.Context) (*models.UserStats, error) {
	var s models.UserStats
	err := r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE role = 1),
			COUNT(*) FILTER (WHERE role = 2),
			COUNT(*) FILTER (WHERE role = 3)
		FROM users`).
		Scan(&s.Total, &s.Students, &s.Teachers, &s.ITCoordinators)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanUsers(rows pgx.Rows) ([]models.User, error) {
	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
