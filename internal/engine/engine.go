// Package engine holds the message classification and reply-injection logic:
// given a chat title and raw message body it decides whether to auto-reserve
// a slot, and if so produces the full replacement message plus a send delay.
// It performs no I/O; the only state it touches is the ThrottleState handed in.
package engine

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ThiagoPax/wa-autoresponder/internal/schedule"
)

// Engine evaluates notifications against its configured message format.
// Safe for concurrent use as long as callers serialize evaluations sharing a
// ThrottleState.
type Engine struct {
	opts   Options
	logger *slog.Logger
}

// New validates mandatory options and returns an Engine.
func New(opts Options, logger *slog.Logger) (*Engine, error) {
	if opts.Claimant == "" {
		return nil, errors.New("claimant name is required")
	}
	if len(opts.Groups) == 0 {
		return nil, errors.New("at least one monitored group is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{opts: opts.withDefaults(), logger: logger}, nil
}

// Options returns the engine's effective configuration.
func (e *Engine) Options() Options { return e.opts }

// blockStage orders per-block failures so the final reason reflects the
// furthest any block got through the checks.
type blockStage int

const (
	stageNoTime blockStage = iota
	stageOutsideWindow
	stageClaimed
	stageNoSlot
	stageAccepted
)

func (s blockStage) reason() Reason {
	switch s {
	case stageOutsideWindow:
		return ReasonOutsideWindow
	case stageClaimed:
		return ReasonAlreadyClaimed
	case stageNoSlot:
		return ReasonNoEmptySlot
	default:
		return ReasonNoTimeToken
	}
}

// Evaluate runs one notification through the decision sequence: group check,
// keyword check, weekday detection, block scan, throttle/dedupe. It mutates
// st only when the verdict is accepting; the caller persists st afterwards
// and calls st.Rollback if delivery fails.
//
// An error is returned only for contract violations (nil state), never for
// malformed message content, which always yields a rejecting Verdict.
func (e *Engine) Evaluate(title, body string, sched schedule.Table, st *ThrottleState, now time.Time) (Verdict, error) {
	if st == nil {
		return Verdict{}, errors.New("throttle state is required")
	}

	if !matchesGroup(title, e.opts.Groups) {
		return reject(ReasonNotMonitored), nil
	}

	normBody := Normalize(body)
	if !containsAnyKeyword(normBody, e.opts.Keywords) {
		return reject(ReasonMissingKeywords), nil
	}

	days := detectWeekdays(normBody)
	if len(days) == 0 {
		return reject(ReasonNoWeekday), nil
	}

	blocks := segmentBlocks(body, e.opts.Delimiter)
	normClaimant := Normalize(e.opts.Claimant)

	chosen := -1
	var chosenTime clockTime
	var chosenNorm string
	deepest := stageNoTime

	for i, block := range blocks {
		normBlock := Normalize(block.Raw)
		stage, ct := e.scanBlock(block, normBlock, normClaimant, days, sched)
		if stage == stageAccepted {
			chosen, chosenTime, chosenNorm = i, ct, normBlock
			break
		}
		if stage > deepest {
			deepest = stage
		}
	}

	if chosen < 0 {
		return reject(deepest.reason()), nil
	}

	if !st.allowedAt(now, e.opts.MinInterval) {
		return reject(ReasonThrottled), nil
	}
	hash := contentHash(chosenNorm)
	if st.isDuplicate(hash) {
		return reject(ReasonDuplicateContent), nil
	}

	reply := e.buildReply(blocks, chosen)
	st.commit(now, hash)

	e.logger.Debug("block accepted",
		"block", chosen,
		"hour", chosenTime.hour,
		"minute", chosenTime.minute,
	)

	return Verdict{
		CanRespond: true,
		BlockIndex: chosen,
		ReplyText:  reply,
		SendDelay:  e.opts.SendDelay,
		Hour:       chosenTime.hour,
		Minute:     chosenTime.minute,
	}, nil
}

// scanBlock checks one block: it must contain a time token validating against
// the schedule for at least one detected weekday, must not already carry the
// claimant's name, and must have an empty slot.
func (e *Engine) scanBlock(
	block Block,
	normBlock, normClaimant string,
	days []schedule.Weekday,
	sched schedule.Table,
) (blockStage, clockTime) {
	times := extractTimes(normBlock)
	if len(times) == 0 {
		return stageNoTime, clockTime{}
	}

	valid := clockTime{hour: -1}
	for _, ct := range times {
		for _, day := range days {
			if sched.Allows(day, ct.hour, ct.minute) {
				valid = ct
				break
			}
		}
		if valid.hour >= 0 {
			break
		}
	}
	if valid.hour < 0 {
		return stageOutsideWindow, clockTime{}
	}

	if containsClaimant(normBlock, normClaimant) {
		return stageClaimed, clockTime{}
	}
	if len(slotLineIndices(block.Lines, e.opts.SlotMarkers)) == 0 {
		return stageNoSlot, clockTime{}
	}
	return stageAccepted, valid
}

// buildReply rewrites only the chosen block's first empty slot and rejoins
// every block with the canonical delimiter.
func (e *Engine) buildReply(blocks []Block, chosen int) string {
	raws := make([]string, len(blocks))
	for i, block := range blocks {
		if i != chosen {
			raws[i] = block.Raw
			continue
		}
		slots := slotLineIndices(block.Lines, e.opts.SlotMarkers)
		lines := injectClaimant(block.Lines, slots[0], e.opts.Claimant)
		raws[i] = joinLines(lines)
	}
	return rejoinBlocks(raws, e.opts.Delimiter)
}

func containsAnyKeyword(normText string, keywords []string) bool {
	for _, kw := range keywords {
		nk := Normalize(kw)
		if nk != "" && strings.Contains(normText, nk) {
			return true
		}
	}
	return false
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
