package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ThiagoPax/wa-autoresponder/internal/engine"
)

// LoadThrottleState fetches the throttle state for a scope key. A missing row
// is a fresh state, not an error.
func (s *Store) LoadThrottleState(ctx context.Context, scopeKey string) (engine.ThrottleState, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT last_reply_at, last_hash, prev_reply_at, prev_hash
		FROM throttle_state WHERE scope_key = $1`, scopeKey)

	var (
		lastAt, prevAt     sql.NullTime
		lastHash, prevHash int64
	)
	err := row.Scan(&lastAt, &lastHash, &prevAt, &prevHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return engine.ThrottleState{}, nil
	}
	if err != nil {
		return engine.ThrottleState{}, fmt.Errorf("load throttle state: %w", err)
	}

	var st engine.ThrottleState
	if lastAt.Valid {
		st.LastReplyAt = lastAt.Time
	}
	if prevAt.Valid {
		st.PrevReplyAt = prevAt.Time
	}
	// Hashes are stored as the bit pattern in a signed column.
	st.LastHash = uint64(lastHash)
	st.PrevHash = uint64(prevHash)
	return st, nil
}

// SaveThrottleState upserts the state for a scope key in one statement, so
// commit and rollback writes are each a single atomic transition.
func (s *Store) SaveThrottleState(ctx context.Context, scopeKey string, st engine.ThrottleState) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO throttle_state (scope_key, last_reply_at, last_hash, prev_reply_at, prev_hash, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (scope_key) DO UPDATE SET
			last_reply_at = EXCLUDED.last_reply_at,
			last_hash = EXCLUDED.last_hash,
			prev_reply_at = EXCLUDED.prev_reply_at,
			prev_hash = EXCLUDED.prev_hash,
			updated_at = now()`,
		scopeKey, nullTime(st.LastReplyAt), int64(st.LastHash), nullTime(st.PrevReplyAt), int64(st.PrevHash),
	)
	if err != nil {
		return fmt.Errorf("save throttle state: %w", err)
	}
	return nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
