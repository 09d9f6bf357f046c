package engine

import (
	"hash/fnv"
	"time"
)

// ThrottleState is the externally persisted anti-spam state for one scope
// (global or per conversation). The Prev pair records the values before the
// last accepted verdict so a failed delivery can be undone.
type ThrottleState struct {
	LastReplyAt time.Time
	LastHash    uint64
	PrevReplyAt time.Time
	PrevHash    uint64
}

// allowedAt reports whether enough time has passed since the last accepted
// reply. Rejected attempts never reset the interval.
func (s *ThrottleState) allowedAt(now time.Time, minInterval time.Duration) bool {
	if s.LastReplyAt.IsZero() {
		return true
	}
	return now.Sub(s.LastReplyAt) >= minInterval
}

// isDuplicate reports whether hash matches the previously accepted reply.
// With no prior reply there is nothing to duplicate.
func (s *ThrottleState) isDuplicate(hash uint64) bool {
	return !s.LastReplyAt.IsZero() && hash == s.LastHash
}

// commit records an accepted verdict: both fields move in one step, with the
// prior pair kept for rollback.
func (s *ThrottleState) commit(now time.Time, hash uint64) {
	s.PrevReplyAt, s.PrevHash = s.LastReplyAt, s.LastHash
	s.LastReplyAt, s.LastHash = now, hash
}

// Rollback restores the state recorded before the last accepted verdict.
// Hosts call this when delivery of the accepted reply fails, so a retry can
// pass the throttle again.
func (s *ThrottleState) Rollback() {
	s.LastReplyAt, s.LastHash = s.PrevReplyAt, s.PrevHash
}

// contentHash is a deterministic, seed-free 64-bit hash of the chosen
// block's canonicalized content. Stable across process restarts.
func contentHash(s string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return h.Sum64()
}
