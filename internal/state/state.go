// Package state abstracts where throttle state lives. The engine works on
// plain values; implementations here load and save them per scope key.
package state

import (
	"context"

	"github.com/ThiagoPax/wa-autoresponder/internal/engine"
)

// ThrottleStore loads and saves throttle state for a scope key ("global" or
// one key per conversation, depending on configuration).
type ThrottleStore interface {
	Load(ctx context.Context, scopeKey string) (engine.ThrottleState, error)
	Save(ctx context.Context, scopeKey string, st engine.ThrottleState) error
}
