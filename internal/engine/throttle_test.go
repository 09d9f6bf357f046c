package engine

import (
	"testing"
	"time"
)

func TestThrottleState_AllowedAt(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	var st ThrottleState
	if !st.allowedAt(now, time.Hour) {
		t.Error("fresh state must allow")
	}

	st.LastReplyAt = now.Add(-30 * time.Minute)
	if st.allowedAt(now, time.Hour) {
		t.Error("30m since last reply must be throttled at 1h interval")
	}
	if !st.allowedAt(now, 30*time.Minute) {
		t.Error("interval boundary is inclusive")
	}
}

func TestThrottleState_CommitAndRollback(t *testing.T) {
	first := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	second := first.Add(25 * time.Hour)

	var st ThrottleState
	st.commit(first, 111)
	st.commit(second, 222)

	if st.LastReplyAt != second || st.LastHash != 222 {
		t.Fatalf("unexpected state after commits: %+v", st)
	}

	st.Rollback()
	if st.LastReplyAt != first || st.LastHash != 111 {
		t.Errorf("rollback did not restore prior pair: %+v", st)
	}
}

func TestThrottleState_Dedupe(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

	var st ThrottleState
	if st.isDuplicate(contentHash("bloco")) {
		t.Error("no prior reply, nothing can be a duplicate")
	}
	st.commit(now, contentHash("bloco"))
	if !st.isDuplicate(contentHash("bloco")) {
		t.Error("identical content must be flagged as duplicate")
	}
	if st.isDuplicate(contentHash("outro bloco")) {
		t.Error("different content flagged as duplicate")
	}
}

func TestContentHash_Deterministic(t *testing.T) {
	a := contentHash("temos 2 vagas as 11h30\n-\n-")
	b := contentHash("temos 2 vagas as 11h30\n-\n-")
	if a != b {
		t.Error("hash must be stable for identical input")
	}
	if a == contentHash("temos 2 vagas as 11h30\n-") {
		t.Error("distinct inputs should not collide in this test corpus")
	}
}
