package state

import (
	"context"

	"github.com/ThiagoPax/wa-autoresponder/internal/engine"
	"github.com/ThiagoPax/wa-autoresponder/internal/store"
)

// PostgresStore adapts the pg store to the ThrottleStore interface.
type PostgresStore struct {
	store *store.Store
}

func NewPostgresStore(s *store.Store) *PostgresStore {
	return &PostgresStore{store: s}
}

func (p *PostgresStore) Load(ctx context.Context, scopeKey string) (engine.ThrottleState, error) {
	return p.store.LoadThrottleState(ctx, scopeKey)
}

func (p *PostgresStore) Save(ctx context.Context, scopeKey string, st engine.ThrottleState) error {
	return p.store.SaveThrottleState(ctx, scopeKey, st)
}
