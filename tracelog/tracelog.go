// Package tracelog records simulation events for offline analysis: when
// the stream prefetcher armed and disarmed, and per-access outcomes,
// without the core simulator (sim) depending on any of it. It mirrors
// the donor's sim/trace package (decision-trace recording for cluster
// policy analysis), generalised from admission/routing decisions to
// prefetcher FSM transitions and per-access records, including its
// TraceLevel no-op path and Summarize-style aggregator.
package tracelog

import "github.com/memsim/memsim/sim"

// Level controls how much a Collector retains, mirroring the donor's
// TraceLevelNone/TraceLevelDecisions split.
type Level string

const (
	// LevelNone disables recording entirely; RecordX calls are no-ops.
	LevelNone Level = "none"
	// LevelTransitions retains only prefetcher FSM transitions.
	LevelTransitions Level = "transitions"
	// LevelFull retains transitions, per-access records, and prefetch
	// dispositions.
	LevelFull Level = "full"
)

// IsValidLevel reports whether level is a recognised Level string.
func IsValidLevel(level string) bool {
	switch Level(level) {
	case LevelNone, LevelTransitions, LevelFull, "":
		return true
	default:
		return false
	}
}

// Collector implements sim.Recorder, archiving events at the configured
// Level. A nil *Collector is not valid; use sim.NopRecorder{} (or a
// Collector at LevelNone) for zero-overhead runs.
type Collector struct {
	Level Level

	Accesses    []sim.AccessRecord
	Prefetches  []sim.PrefetchRecord
	Transitions []sim.FSMTransition
}

// NewCollector constructs a Collector at the given level.
func NewCollector(level Level) *Collector {
	return &Collector{Level: level}
}

func (c *Collector) RecordAccess(r sim.AccessRecord) {
	if c.Level != LevelFull {
		return
	}
	c.Accesses = append(c.Accesses, r)
}

func (c *Collector) RecordPrefetch(r sim.PrefetchRecord) {
	if c.Level != LevelFull {
		return
	}
	c.Prefetches = append(c.Prefetches, r)
}

func (c *Collector) RecordTransition(r sim.FSMTransition) {
	if c.Level == LevelNone {
		return
	}
	c.Transitions = append(c.Transitions, r)
}

// Summary aggregates statistics from a Collector's recorded transitions.
type Summary struct {
	Bursts          int // number of TRAINING -> STREAMING transitions
	CyclesStreaming uint64
	LongestStreak   uint64
}

// Summarize computes aggregate statistics from a Collector. Safe for nil
// or empty collectors (returns zero-value fields).
func Summarize(c *Collector) *Summary {
	summary := &Summary{}
	if c == nil {
		return summary
	}

	var streamStart uint64
	inStream := false
	for _, tr := range c.Transitions {
		if tr.To == "STREAMING" && tr.From != "STREAMING" {
			summary.Bursts++
			streamStart = tr.Cycle
			inStream = true
			continue
		}
		if inStream && tr.To != "STREAMING" {
			length := tr.Cycle - streamStart
			summary.CyclesStreaming += length
			if length > summary.LongestStreak {
				summary.LongestStreak = length
			}
			inStream = false
		}
	}
	return summary
}
