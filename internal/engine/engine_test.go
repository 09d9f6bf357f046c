package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/ThiagoPax/wa-autoresponder/internal/schedule"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Options{
		Groups:      []string{"GSTA1 - Tennis", "GSTA2 - Tennis"},
		Claimant:    "Thiago Soares",
		MinInterval: 24 * time.Hour,
		SendDelay:   10 * time.Second,
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func mondayWindow(enabled bool) schedule.Table {
	return schedule.Table{
		schedule.Monday: {Enabled: enabled, StartMinutes: 11 * 60, EndMinutes: 13*60 + 59},
	}
}

var evalNow = time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)

func TestEvaluate_AcceptsAndInjectsFirstSlot(t *testing.T) {
	e := testEngine(t)
	body := "Vagas segunda, temos 2 vagas às 11h30, quem topa?\n-\n-"

	var st ThrottleState
	v, err := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, evalNow)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !v.CanRespond {
		t.Fatalf("expected accept, got reason %q", v.Reason)
	}
	if v.Reason != ReasonNone {
		t.Errorf("accepting verdict must carry no reason, got %q", v.Reason)
	}
	want := "Vagas segunda, temos 2 vagas às 11h30, quem topa?\n- Thiago Soares\n-"
	if v.ReplyText != want {
		t.Errorf("reply:\ngot  %q\nwant %q", v.ReplyText, want)
	}
	if v.SendDelay != 10*time.Second {
		t.Errorf("send delay = %v", v.SendDelay)
	}
	if v.Hour != 11 || v.Minute != 30 {
		t.Errorf("detected time = %02d:%02d", v.Hour, v.Minute)
	}
	if st.LastReplyAt != evalNow {
		t.Error("accepted verdict must commit throttle state")
	}
}

func TestEvaluate_ReplyDiffersInExactlyOneLine(t *testing.T) {
	e := testEngine(t)
	body := "Vagas segunda às 11h30\n-\n-\n-"

	var st ThrottleState
	v, err := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, evalNow)
	if err != nil || !v.CanRespond {
		t.Fatalf("expected accept, got %+v err=%v", v, err)
	}

	orig := strings.Split(body, "\n")
	got := strings.Split(v.ReplyText, "\n")
	if len(orig) != len(got) {
		t.Fatalf("line count changed: %d -> %d", len(orig), len(got))
	}
	diff := 0
	for i := range orig {
		if orig[i] != got[i] {
			diff++
		}
	}
	if diff != 1 {
		t.Errorf("expected exactly 1 changed line, got %d", diff)
	}
}

func TestEvaluate_NotMonitoredGroup(t *testing.T) {
	e := testEngine(t)
	var st ThrottleState
	v, err := e.Evaluate("Família Soares", "Vagas segunda às 11h30\n-", mondayWindow(true), &st, evalNow)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v.CanRespond || v.Reason != ReasonNotMonitored {
		t.Errorf("got %+v, want not_monitored_group", v)
	}
}

func TestEvaluate_MissingKeywords(t *testing.T) {
	e := testEngine(t)
	var st ThrottleState
	v, _ := e.Evaluate("GSTA1 - Tennis", "treino segunda às 11h30\n-", mondayWindow(true), &st, evalNow)
	if v.CanRespond || v.Reason != ReasonMissingKeywords {
		t.Errorf("got %+v, want missing_required_keywords", v)
	}
}

func TestEvaluate_EmptyBodyRejectsWithoutError(t *testing.T) {
	e := testEngine(t)
	var st ThrottleState
	v, err := e.Evaluate("GSTA1 - Tennis", "", mondayWindow(true), &st, evalNow)
	if err != nil {
		t.Fatalf("malformed input must not error: %v", err)
	}
	if v.CanRespond {
		t.Error("empty body accepted")
	}
}

func TestEvaluate_NoWeekday(t *testing.T) {
	e := testEngine(t)
	var st ThrottleState
	v, _ := e.Evaluate("GSTA1 - Tennis", "temos 2 vagas às 11h30\n-", mondayWindow(true), &st, evalNow)
	if v.Reason != ReasonNoWeekday {
		t.Errorf("got reason %q, want no_weekday_identified", v.Reason)
	}
}

func TestEvaluate_NoTimeToken(t *testing.T) {
	e := testEngine(t)
	var st ThrottleState
	v, _ := e.Evaluate("GSTA1 - Tennis", "vagas segunda, quem topa?\n-", mondayWindow(true), &st, evalNow)
	if v.Reason != ReasonNoTimeToken {
		t.Errorf("got reason %q, want no_time_token_found", v.Reason)
	}
}

func TestEvaluate_WindowDisabled(t *testing.T) {
	e := testEngine(t)
	body := "Vagas segunda, temos 2 vagas às 11h30, quem topa?\n-\n-"
	var st ThrottleState
	v, _ := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(false), &st, evalNow)
	if v.CanRespond || v.Reason != ReasonOutsideWindow {
		t.Errorf("got %+v, want time_outside_window", v)
	}
}

func TestEvaluate_WeekdayStatedInMessageNotArrivalDay(t *testing.T) {
	e := testEngine(t)
	// Message arrives on a Friday but offers a Monday class; only the
	// Monday window matters.
	friday := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
	body := "Vagas segunda às 11h30\n-"
	var st ThrottleState
	v, _ := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, friday)
	if !v.CanRespond {
		t.Errorf("expected accept for stated weekday, got %q", v.Reason)
	}
}

func TestEvaluate_AlreadyClaimed(t *testing.T) {
	e := testEngine(t)
	body := "Vagas segunda às 11h30\n- Thiago Soares\n-"
	// The claimant's name anywhere in the block skips it even though an
	// empty slot remains.
	var st ThrottleState
	v, _ := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, evalNow)
	if v.CanRespond || v.Reason != ReasonAlreadyClaimed {
		t.Errorf("got %+v, want already_claimed", v)
	}
}

func TestEvaluate_AlreadyClaimedContinuesToNextBlock(t *testing.T) {
	e := testEngine(t)
	body := "Vagas segunda às 11h30\n- Thiago Soares\n-\nOUTRA TURMA\nsegunda às 12h00\n-"
	var st ThrottleState
	v, _ := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, evalNow)
	if !v.CanRespond {
		t.Fatalf("expected second block accepted, got %q", v.Reason)
	}
	if v.BlockIndex != 1 {
		t.Errorf("chosen block = %d, want 1", v.BlockIndex)
	}
}

func TestEvaluate_NoEmptySlot(t *testing.T) {
	e := testEngine(t)
	body := "Vagas segunda às 11h30\n- João\n- Maria"
	var st ThrottleState
	v, _ := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, evalNow)
	if v.CanRespond || v.Reason != ReasonNoEmptySlot {
		t.Errorf("got %+v, want no_empty_slot", v)
	}
}

func TestEvaluate_SelectsSecondBlockWhenFirstOutsideWindow(t *testing.T) {
	e := testEngine(t)
	body := "Vagas segunda\nTemos vagas às 08h00\n-\nOUTRA TURMA\nTemos vagas às 11h30\n-"
	var st ThrottleState
	v, _ := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, evalNow)
	if !v.CanRespond {
		t.Fatalf("expected accept, got %q", v.Reason)
	}
	if v.BlockIndex != 1 {
		t.Errorf("chosen block = %d, want 1", v.BlockIndex)
	}
	if !strings.Contains(v.ReplyText, "Temos vagas às 08h00\n-\n") {
		t.Error("first block's slot must stay untouched")
	}
	if !strings.Contains(v.ReplyText, "Temos vagas às 11h30\n- Thiago Soares") {
		t.Errorf("second block not injected: %q", v.ReplyText)
	}
}

func TestEvaluate_FirstMatchWins(t *testing.T) {
	e := testEngine(t)
	// Both blocks qualify; the scan must commit to the first and not
	// consider the second.
	body := "Vagas segunda às 11h30\n-\nOUTRA TURMA\nsegunda às 12h00\n-"
	var st ThrottleState
	v, _ := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, evalNow)
	if !v.CanRespond || v.BlockIndex != 0 {
		t.Errorf("expected first block chosen, got %+v", v)
	}
}

func TestEvaluate_Throttled(t *testing.T) {
	e := testEngine(t)
	body := "Vagas segunda às 11h30\n-\n-"

	var st ThrottleState
	v1, _ := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, evalNow)
	if !v1.CanRespond {
		t.Fatalf("first call should accept, got %q", v1.Reason)
	}

	v2, _ := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, evalNow.Add(time.Minute))
	if v2.CanRespond || v2.Reason != ReasonThrottled {
		t.Errorf("second call within interval: got %+v, want throttled", v2)
	}
}

func TestEvaluate_ThrottleMonotonicity(t *testing.T) {
	e := testEngine(t)
	body := "Vagas segunda às 11h30\n-\n-"

	// For any two calls closer than MinInterval, at most one accepts.
	for _, gap := range []time.Duration{0, time.Second, time.Hour, 23 * time.Hour} {
		var st ThrottleState
		v1, _ := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, evalNow)
		v2, _ := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, evalNow.Add(gap))
		if v1.CanRespond && v2.CanRespond {
			t.Errorf("gap %v: both evaluations accepted", gap)
		}
	}
}

func TestEvaluate_DuplicateContent(t *testing.T) {
	e := testEngine(t)
	body := "Vagas segunda às 11h30\n-\n-"

	var st ThrottleState
	v1, _ := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, evalNow)
	if !v1.CanRespond {
		t.Fatalf("first call should accept, got %q", v1.Reason)
	}

	// Past the throttle interval, identical content is still suppressed.
	v2, _ := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, evalNow.Add(25*time.Hour))
	if v2.CanRespond || v2.Reason != ReasonDuplicateContent {
		t.Errorf("got %+v, want duplicate_content", v2)
	}
}

func TestEvaluate_RollbackAllowsRetry(t *testing.T) {
	e := testEngine(t)
	body := "Vagas segunda às 11h30\n-\n-"

	var st ThrottleState
	v1, _ := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, evalNow)
	if !v1.CanRespond {
		t.Fatalf("first call should accept, got %q", v1.Reason)
	}

	// Delivery failed: the host rolls the state back and retries.
	st.Rollback()
	v2, _ := e.Evaluate("GSTA1 - Tennis", body, mondayWindow(true), &st, evalNow.Add(time.Minute))
	if !v2.CanRespond {
		t.Errorf("retry after rollback rejected: %q", v2.Reason)
	}
}

func TestEvaluate_NilStateErrors(t *testing.T) {
	e := testEngine(t)
	if _, err := e.Evaluate("GSTA1 - Tennis", "vagas segunda 11h30\n-", mondayWindow(true), nil, evalNow); err == nil {
		t.Error("nil throttle state must be a fatal error, not a verdict")
	}
}

func TestNew_RequiresClaimantAndGroups(t *testing.T) {
	if _, err := New(Options{Groups: []string{"g"}}, nil); err == nil {
		t.Error("expected error for missing claimant")
	}
	if _, err := New(Options{Claimant: "x"}, nil); err == nil {
		t.Error("expected error for missing groups")
	}
}
