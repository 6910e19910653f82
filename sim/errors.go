package sim

import "fmt"

// ConfigError reports an invalid Config at construction time. No Simulator
// is created when this is returned.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "config error: " + e.Msg }

// AddressOverflowError reports a byte address that exceeds the line key's
// representable range. The run fails immediately and partial metrics are
// discarded.
type AddressOverflowError struct {
	Address uint64
}

func (e *AddressOverflowError) Error() string {
	return fmt.Sprintf("address overflow: byte address 0x%x exceeds the representable line key range", e.Address)
}

// Tier2MissError reports a line that tier-2 cannot serve: either a genuine
// cold-capacity failure (distinct keys exceed t2_total_lines and a
// previously evicted line was re-requested) surfacing as a design-failure
// diagnostic, never a modelled off-chip fetch.
type Tier2MissError struct {
	Line LineKey
}

func (e *Tier2MissError) Error() string {
	return fmt.Sprintf("tier-2 miss at line %d: tier-2 capacity is too small for this workload "+
		"(this is a co-design failure, not a modelled off-chip path)", e.Line)
}

// InvariantViolationError reports an internal bookkeeping inconsistency.
// This is a bug signal, not a user error.
type InvariantViolationError struct {
	Msg string
}

func (e *InvariantViolationError) Error() string { return "invariant violation: " + e.Msg }

// BudgetExceededError reports that the optional cycle budget tripped. The
// metrics accumulated up to the point of failure are attached for
// debugging.
type BudgetExceededError struct {
	Cycle   uint64
	Metrics Metrics
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("budget exceeded: current_cycle %d reached the configured cap", e.Cycle)
}
