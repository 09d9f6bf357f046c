// Package listener consumes decoded notification events, runs them through
// the engine and hands accepted replies to the replier. It owns the
// read-modify-write of throttle state, serialized under one lock so two
// concurrent events cannot both pass the throttle check.
package listener

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ThiagoPax/wa-autoresponder/internal/engine"
	"github.com/ThiagoPax/wa-autoresponder/internal/metrics"
	"github.com/ThiagoPax/wa-autoresponder/internal/schedule"
	"github.com/ThiagoPax/wa-autoresponder/internal/state"
	"github.com/ThiagoPax/wa-autoresponder/internal/store"
)

// NotificationEvent is the decoded payload published by the WhatsApp bridge.
type NotificationEvent struct {
	ConversationID string    `json:"conversation_id"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	ReceivedAt     time.Time `json:"received_at"`
}

// ReplyLog is the slice of the store the listener writes to.
type ReplyLog interface {
	InsertReply(ctx context.Context, r store.ReplyRow) error
	UpdateReplyStatus(ctx context.Context, id uuid.UUID, status string) error
}

// Scheduler delivers accepted replies after the verdict's delay.
type Scheduler interface {
	Schedule(replyID, conversationID, text string, delay time.Duration, onSuccess func(), onFailure func(reason string))
}

// ScopeGlobal throttles all conversations together (the historical
// behaviour); ScopeConversation keys state per conversation.
const (
	ScopeGlobal       = "global"
	ScopeConversation = "conversation"
)

const opTimeout = 10 * time.Second

type Listener struct {
	engine   *engine.Engine
	states   state.ThrottleStore
	replyLog ReplyLog
	sched    *schedule.Holder
	replier  Scheduler
	metrics  *metrics.Metrics
	logger   *slog.Logger
	scope    string

	enabled atomic.Bool
	mu      sync.Mutex
	now     func() time.Time
}

func New(
	eng *engine.Engine,
	states state.ThrottleStore,
	replyLog ReplyLog,
	sched *schedule.Holder,
	rep Scheduler,
	m *metrics.Metrics,
	scope string,
	logger *slog.Logger,
) *Listener {
	l := &Listener{
		engine:   eng,
		states:   states,
		replyLog: replyLog,
		sched:    sched,
		replier:  rep,
		metrics:  m,
		logger:   logger,
		scope:    scope,
		now:      time.Now,
	}
	l.enabled.Store(true)
	return l
}

// SetEnabled toggles processing at runtime; disabled events are logged and
// skipped.
func (l *Listener) SetEnabled(v bool) { l.enabled.Store(v) }

// Enabled reports the current toggle.
func (l *Listener) Enabled() bool { return l.enabled.Load() }

// HandleNotification is the bus subscription callback.
func (l *Listener) HandleNotification(_ string, data []byte) {
	if !l.enabled.Load() {
		l.logger.Debug("responder disabled, event skipped")
		return
	}

	var evt NotificationEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		l.logger.Warn("failed to parse notification event", "error", err)
		return
	}
	if evt.Title == "" && evt.Body == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	// Serialize evaluate + state write: two concurrent events must not
	// both pass the throttle check.
	l.mu.Lock()
	defer l.mu.Unlock()

	scopeKey := l.scopeKey(evt)
	st, err := l.states.Load(ctx, scopeKey)
	if err != nil {
		l.logger.Error("failed to load throttle state", "error", err, "scope", scopeKey)
		return
	}

	start := l.now()
	verdict, err := l.engine.Evaluate(evt.Title, evt.Body, l.sched.Get(), &st, start)
	l.metrics.EvaluationDuration.Observe(l.now().Sub(start).Seconds())
	if err != nil {
		// Contract violation, not message content. Log and skip the event.
		l.logger.Error("evaluation fault", "error", err, "title", evt.Title)
		return
	}

	if !verdict.CanRespond {
		l.metrics.EvaluationsTotal.WithLabelValues(string(verdict.Reason)).Inc()
		l.logger.Debug("no action", "reason", verdict.Reason, "title", evt.Title)
		return
	}
	l.metrics.EvaluationsTotal.WithLabelValues("accepted").Inc()

	// Persist the committed throttle state before scheduling, mirroring the
	// mark-before-delay pattern: a crash during the delay must not allow a
	// second signup.
	if err := l.states.Save(ctx, scopeKey, st); err != nil {
		l.logger.Error("failed to persist throttle state", "error", err, "scope", scopeKey)
		return
	}

	replyID := uuid.New()
	row := store.ReplyRow{
		ID:             replyID,
		ConversationID: evt.ConversationID,
		ChatTitle:      evt.Title,
		BlockIndex:     verdict.BlockIndex,
		ReplyText:      verdict.ReplyText,
		Status:         store.ReplyStatusPending,
	}
	if err := l.replyLog.InsertReply(ctx, row); err != nil {
		l.logger.Error("failed to log reply", "error", err, "reply_id", replyID)
	}

	l.logger.Info("block accepted, scheduling reply",
		"reply_id", replyID,
		"block", verdict.BlockIndex,
		"hour", verdict.Hour,
		"minute", verdict.Minute,
		"delay", verdict.SendDelay,
	)

	committed := st
	l.replier.Schedule(replyID.String(), evt.ConversationID, verdict.ReplyText, verdict.SendDelay,
		func() { l.onDelivered(replyID) },
		func(reason string) { l.onDeliveryFailed(replyID, scopeKey, committed, reason) },
	)
}

func (l *Listener) scopeKey(evt NotificationEvent) string {
	if l.scope != ScopeConversation {
		return ScopeGlobal
	}
	if evt.ConversationID != "" {
		return "conv:" + evt.ConversationID
	}
	return "conv:" + engine.Normalize(evt.Title)
}

func (l *Listener) onDelivered(replyID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	l.metrics.RepliesSent.Inc()
	if err := l.replyLog.UpdateReplyStatus(ctx, replyID, store.ReplyStatusSent); err != nil {
		l.logger.Error("failed to mark reply sent", "error", err, "reply_id", replyID)
	}
}

// onDeliveryFailed undoes the accepted side effect so a retry is possible.
func (l *Listener) onDeliveryFailed(replyID uuid.UUID, scopeKey string, committed engine.ThrottleState, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	l.mu.Lock()
	defer l.mu.Unlock()

	rolled := committed
	rolled.Rollback()
	if err := l.states.Save(ctx, scopeKey, rolled); err != nil {
		l.logger.Error("failed to roll back throttle state", "error", err, "scope", scopeKey)
	} else {
		l.metrics.RollbacksTotal.Inc()
	}

	l.metrics.RepliesFailed.Inc()
	if err := l.replyLog.UpdateReplyStatus(ctx, replyID, store.ReplyStatusFailed); err != nil {
		l.logger.Error("failed to mark reply failed", "error", err, "reply_id", replyID)
	}
	l.logger.Warn("delivery failed, throttle state rolled back", "reply_id", replyID, "reason", reason)
}
