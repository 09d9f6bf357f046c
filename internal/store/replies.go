package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReplyRow is one entry of the reply log.
type ReplyRow struct {
	ID             uuid.UUID
	ConversationID string
	ChatTitle      string
	BlockIndex     int
	ReplyText      string
	Status         string
	CreatedAt      time.Time
}

// Reply status transitions: pending (accepted, awaiting delayed send) →
// sent | failed.
const (
	ReplyStatusPending = "pending"
	ReplyStatusSent    = "sent"
	ReplyStatusFailed  = "failed"
)

// InsertReply records an accepted verdict before the delayed send fires.
func (s *Store) InsertReply(ctx context.Context, r ReplyRow) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO replies (id, conversation_id, chat_title, block_index, reply_text, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		r.ID, r.ConversationID, r.ChatTitle, r.BlockIndex, r.ReplyText, r.Status,
	)
	if err != nil {
		return fmt.Errorf("insert reply: %w", err)
	}
	return nil
}

// UpdateReplyStatus marks a logged reply as sent or failed.
func (s *Store) UpdateReplyStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE replies SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update reply status: %w", err)
	}
	return nil
}

// RecentReplies returns the newest entries of the reply log.
func (s *Store) RecentReplies(ctx context.Context, limit int) ([]ReplyRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, conversation_id, chat_title, block_index, reply_text, status, created_at
		FROM replies ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query replies: %w", err)
	}
	defer rows.Close()

	var out []ReplyRow
	for rows.Next() {
		var r ReplyRow
		if err := rows.Scan(&r.ID, &r.ConversationID, &r.ChatTitle, &r.BlockIndex, &r.ReplyText, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
