package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Sequence names. Each entity draws from its own counter.
const (
	SeqUser   = "user"
	SeqTicket = "ticket"
	SeqUpdate = "update"
)

// Sequences allocates collision-free, strictly increasing identifiers from a
// per-name counter row. The increment is a single atomic statement, so the
// row lock it takes is held until the surrounding transaction commits:
// concurrent allocators serialize on the store, never in process, and a
// rolled-back insert rolls its id back with it, keeping sequences gap-free.
// It is stateless; all work happens through the caller's transaction.
type Sequences struct{}

func NewSequences() *Sequences { return &Sequences{} }

// Next returns the next identifier for name inside the caller's transaction.
// The dependent insert must run in the same transaction.
func (s *Sequences) Next(ctx context.Context, tx pgx.Tx, name string) (int64, error) {
	var v int64
	err := tx.QueryRow(ctx, `
		INSERT INTO sequences (name, value)
		VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
		RETURNING value
	`, name).Scan(&v)
	return v, err
}
