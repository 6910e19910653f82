package sim

import (
	"fmt"
	"strings"
)

// Config groups the construction-time parameters for a Simulator. All
// fields are validated together by Validate; an invalid Config fails
// construction with a *ConfigError and no Simulator is created.
type Config struct {
	T1TotalLines int // tier-1 aggregate capacity in lines (must be > 0)
	NumT1Banks   int // parallel tier-1 banks; must evenly divide T1TotalLines

	T2TotalLines int // tier-2 aggregate capacity in lines (must be > 0)
	NumT2Banks   int // parallel tier-2 banks; must evenly divide T2TotalLines

	LineBytes uint32 // bytes per line; must be a power of two (default 128)

	T1Latency uint64 // tier-1 service cycles (default 1)
	T2Latency uint64 // tier-2 fetch cycles (default 3)

	PrefetchTrigger    int // consecutive sequential reads that arm streaming (default 2)
	PrefetchLookahead  int // max lines ahead of last to prefetch (default 16)
	PrefetchIssueWidth int // max prefetches issued per observed read (default 4)

	// CycleBudget is an optional soft cap on current_cycle. Zero means
	// unbounded. Reaching it fails the run with *BudgetExceededError.
	CycleBudget uint64
}

// DefaultConfig returns a Config with every field the spec gives a default
// for pre-filled. Capacity and bank-count fields have no sensible default
// and are left zero; callers must set them before calling Validate.
func DefaultConfig() Config {
	return Config{
		LineBytes:          128,
		T1Latency:          1,
		T2Latency:          3,
		PrefetchTrigger:    2,
		PrefetchLookahead:  16,
		PrefetchIssueWidth: 4,
	}
}

// Validate checks every field and returns a single *ConfigError listing
// every problem found, or nil if the Config is well-formed.
func (c Config) Validate() error {
	var problems []string

	if c.LineBytes == 0 || c.LineBytes&(c.LineBytes-1) != 0 {
		problems = append(problems, fmt.Sprintf("LineBytes must be a power of two, got %d", c.LineBytes))
	}

	if c.T1TotalLines <= 0 {
		problems = append(problems, fmt.Sprintf("T1TotalLines must be > 0, got %d", c.T1TotalLines))
	}
	if c.NumT1Banks <= 0 {
		problems = append(problems, fmt.Sprintf("NumT1Banks must be > 0, got %d", c.NumT1Banks))
	} else if c.T1TotalLines > 0 && c.T1TotalLines%c.NumT1Banks != 0 {
		problems = append(problems, fmt.Sprintf("NumT1Banks (%d) must evenly divide T1TotalLines (%d)", c.NumT1Banks, c.T1TotalLines))
	}

	if c.T2TotalLines <= 0 {
		problems = append(problems, fmt.Sprintf("T2TotalLines must be > 0, got %d", c.T2TotalLines))
	}
	if c.NumT2Banks <= 0 {
		problems = append(problems, fmt.Sprintf("NumT2Banks must be > 0, got %d", c.NumT2Banks))
	} else if c.T2TotalLines > 0 && c.T2TotalLines%c.NumT2Banks != 0 {
		problems = append(problems, fmt.Sprintf("NumT2Banks (%d) must evenly divide T2TotalLines (%d)", c.NumT2Banks, c.T2TotalLines))
	}

	if c.T1Latency == 0 {
		problems = append(problems, "T1Latency must be > 0")
	}
	if c.T2Latency == 0 {
		problems = append(problems, "T2Latency must be > 0")
	}

	if c.PrefetchTrigger < 1 {
		problems = append(problems, fmt.Sprintf("PrefetchTrigger must be >= 1, got %d", c.PrefetchTrigger))
	}
	if c.PrefetchLookahead < 0 {
		problems = append(problems, fmt.Sprintf("PrefetchLookahead must be >= 0, got %d", c.PrefetchLookahead))
	}
	if c.PrefetchIssueWidth < 0 {
		problems = append(problems, fmt.Sprintf("PrefetchIssueWidth must be >= 0, got %d", c.PrefetchIssueWidth))
	}

	if len(problems) > 0 {
		return &ConfigError{Msg: strings.Join(problems, "; ")}
	}
	return nil
}
