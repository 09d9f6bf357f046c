// Package replier owns the delayed delivery of accepted replies. The engine
// only computes the delay; the replier schedules a cancellable timer, hands
// the text to the bridge over NATS and reports the outcome back so the
// listener can roll the throttle state back on failure.
package replier

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ThiagoPax/wa-autoresponder/internal/bus"
)

// Publisher is the outbound half of the bus client.
type Publisher interface {
	Publish(subject string, data any) error
}

// SendRequest is published on bus.SubjectReplySend.
type SendRequest struct {
	ReplyID        string `json:"reply_id"`
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

// Result arrives on bus.SubjectReplyResult from the bridge.
type Result struct {
	ReplyID string `json:"reply_id"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

type pendingReply struct {
	timer     *time.Timer
	onSuccess func()
	onFailure func(reason string)
}

type Replier struct {
	pub    Publisher
	logger *slog.Logger
	dryRun bool

	mu      sync.Mutex
	pending map[string]*pendingReply
}

func New(pub Publisher, dryRun bool, logger *slog.Logger) *Replier {
	return &Replier{
		pub:     pub,
		logger:  logger,
		dryRun:  dryRun,
		pending: make(map[string]*pendingReply),
	}
}

// Schedule arms a timer that publishes the reply after delay. onFailure runs
// if publishing fails or the bridge reports a delivery error; onSuccess runs
// on a confirmed delivery. In dry-run mode nothing is published and neither
// callback fires.
func (r *Replier) Schedule(replyID, conversationID, text string, delay time.Duration, onSuccess func(), onFailure func(reason string)) {
	if r.dryRun {
		r.logger.Info("dry run: reply suppressed", "reply_id", replyID, "conversation", conversationID)
		return
	}

	p := &pendingReply{onSuccess: onSuccess, onFailure: onFailure}
	p.timer = time.AfterFunc(delay, func() { r.fire(replyID, conversationID, text) })

	r.mu.Lock()
	r.pending[replyID] = p
	r.mu.Unlock()

	r.logger.Info("reply scheduled", "reply_id", replyID, "delay", delay)
}

// Cancel stops a scheduled reply that has not fired yet.
func (r *Replier) Cancel(replyID string) {
	r.mu.Lock()
	p, ok := r.pending[replyID]
	if ok {
		delete(r.pending, replyID)
	}
	r.mu.Unlock()
	if ok {
		p.timer.Stop()
		r.logger.Info("reply cancelled", "reply_id", replyID)
	}
}

func (r *Replier) fire(replyID, conversationID, text string) {
	err := r.pub.Publish(bus.SubjectReplySend, SendRequest{
		ReplyID:        replyID,
		ConversationID: conversationID,
		Text:           text,
	})
	if err == nil {
		// Delivery confirmation comes back on the result subject.
		r.logger.Info("reply published", "reply_id", replyID)
		return
	}

	r.logger.Error("failed to publish reply", "reply_id", replyID, "error", err)
	r.resolve(replyID, false, err.Error())
}

// HandleResult consumes bus.SubjectReplyResult events.
func (r *Replier) HandleResult(_ string, data []byte) {
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		r.logger.Warn("failed to parse reply result", "error", err)
		return
	}
	r.resolve(res.ReplyID, res.OK, res.Error)
}

func (r *Replier) resolve(replyID string, ok bool, reason string) {
	r.mu.Lock()
	p, found := r.pending[replyID]
	if found {
		delete(r.pending, replyID)
	}
	r.mu.Unlock()

	if !found {
		r.logger.Warn("result for unknown reply", "reply_id", replyID)
		return
	}
	p.timer.Stop()

	if ok {
		r.logger.Info("reply delivered", "reply_id", replyID)
		if p.onSuccess != nil {
			p.onSuccess()
		}
		return
	}

	r.logger.Warn("reply delivery failed", "reply_id", replyID, "reason", reason)
	if p.onFailure != nil {
		p.onFailure(reason)
	}
}
