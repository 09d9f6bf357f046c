package engine

import "time"

// Defaults mirror the message format of the monitored tennis groups.
const (
	DefaultDelimiter   = "OUTRA TURMA"
	DefaultSendDelay   = 10 * time.Second
	DefaultMinInterval = 24 * time.Hour
)

// DefaultSlotMarkers are the empty-signup glyphs: a bare dash and common
// bullet variants.
func DefaultSlotMarkers() []string { return []string{"-", "•", "*"} }

// DefaultKeywords gate evaluation to vacancy postings.
func DefaultKeywords() []string { return []string{"vaga", "vagas"} }

// Options are host-owned configuration constants. The engine never hardcodes
// the message format so it can adapt to other group conventions.
type Options struct {
	// Groups are the monitored chat titles, matched case/diacritic-insensitively.
	Groups []string
	// Keywords must appear (any of them) in the normalized body.
	Keywords []string
	// Delimiter separates blocks, matched as a whole line.
	Delimiter string
	// SlotMarkers are the glyphs that mark an empty signup line.
	SlotMarkers []string
	// Claimant is the display name injected into the first empty slot.
	Claimant string
	// MinInterval is the minimum elapsed time between two accepted replies.
	MinInterval time.Duration
	// SendDelay is handed back to the host, which owns the actual scheduling.
	SendDelay time.Duration
}

func (o Options) withDefaults() Options {
	if len(o.Keywords) == 0 {
		o.Keywords = DefaultKeywords()
	}
	if o.Delimiter == "" {
		o.Delimiter = DefaultDelimiter
	}
	if len(o.SlotMarkers) == 0 {
		o.SlotMarkers = DefaultSlotMarkers()
	}
	if o.MinInterval <= 0 {
		o.MinInterval = DefaultMinInterval
	}
	if o.SendDelay <= 0 {
		o.SendDelay = DefaultSendDelay
	}
	return o
}
