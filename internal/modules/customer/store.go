// README: Customer store backed by PostgreSQL.
package customer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"freightquote/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) GetSubscription(ctx context.Context, id types.ID) (Account, error) {
	a := Account{ID: id}
	err := s.db.QueryRow(ctx, `SELECT is_subscribed FROM customers WHERE id = $1`, string(id)).Scan(&a.IsSubscribed)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}
	return a, nil
}

func (s *Store) Upsert(ctx context.Context, a Account) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO customers (id, is_subscribed) VALUES ($1, $2)
        ON CONFLICT (id) DO UPDATE SET is_subscribed = EXCLUDED.is_subscribed`,
		string(a.ID), a.IsSubscribed,
	)
	return err
}
