package engine

import "time"

// Reason is the fixed vocabulary accompanying every rejecting verdict.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonNotMonitored     Reason = "not_monitored_group"
	ReasonMissingKeywords  Reason = "missing_required_keywords"
	ReasonNoWeekday        Reason = "no_weekday_identified"
	ReasonNoTimeToken      Reason = "no_time_token_found"
	ReasonOutsideWindow    Reason = "time_outside_window"
	ReasonAlreadyClaimed   Reason = "already_claimed"
	ReasonNoEmptySlot      Reason = "no_empty_slot"
	ReasonThrottled        Reason = "throttled"
	ReasonDuplicateContent Reason = "duplicate_content"
)

// Verdict is the immutable outcome of one evaluation. An accepting verdict
// always carries a ReplyText differing from the original body in exactly one
// line; a rejecting verdict always carries exactly one Reason.
type Verdict struct {
	CanRespond bool
	Reason     Reason
	BlockIndex int // -1 when no block was chosen
	ReplyText  string
	SendDelay  time.Duration
	Hour       int
	Minute     int
}

func reject(reason Reason) Verdict {
	return Verdict{CanRespond: false, Reason: reason, BlockIndex: -1}
}
