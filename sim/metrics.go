package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates statistics about a single simulation run for final
// reporting, and is also what Run returns so a caller can make scripted
// assertions without parsing printed output.
type Metrics struct {
	T1Hits   uint64
	T1Misses uint64
	T2Hits   uint64
	T2Misses uint64

	ReadCount  uint64
	WriteCount uint64

	BankConflictsT1 uint64
	BankConflictsT2 uint64

	PrefetchIssued uint64
	PrefetchUseful uint64
	PrefetchWasted uint64

	// LatencySamples holds one entry per demand read, its end-to-end
	// service latency in cycles (tier-1 hit: t1_latency plus any tier-1
	// bank-conflict stall; tier-1 miss: cycles until the fill arrives plus
	// t1_latency, at least t1_latency+t2_latency for a fresh demand fetch
	// and less when a prefetch of the line was already in flight). Writes
	// never contribute a sample.
	LatencySamples []uint64

	FinalCycle uint64
}

// T1HitRate is t1_hits / (t1_hits + t1_misses), or 0 if there were no
// tier-1 accesses at all.
func (m Metrics) T1HitRate() float64 {
	total := m.T1Hits + m.T1Misses
	if total == 0 {
		return 0
	}
	return float64(m.T1Hits) / float64(total)
}

// T2HitRate is t2_hits / (t2_hits + t2_misses).
func (m Metrics) T2HitRate() float64 {
	total := m.T2Hits + m.T2Misses
	if total == 0 {
		return 0
	}
	return float64(m.T2Hits) / float64(total)
}

// PrefetchAccuracy is prefetch_useful / prefetch_issued, or 0 if nothing
// was ever issued.
func (m Metrics) PrefetchAccuracy() float64 {
	if m.PrefetchIssued == 0 {
		return 0
	}
	return float64(m.PrefetchUseful) / float64(m.PrefetchIssued)
}

// PrefetchCoverage is prefetch_useful / (t1_misses + prefetch_useful).
func (m Metrics) PrefetchCoverage() float64 {
	denom := m.T1Misses + m.PrefetchUseful
	if denom == 0 {
		return 0
	}
	return float64(m.PrefetchUseful) / float64(denom)
}

// Percentile returns the p-th percentile (0 <= p <= 100) of the recorded
// per-read latency samples using linear interpolation between closest
// ranks, matching gonum/stat's default Quantile convention. It returns 0
// if no samples were recorded.
func (m Metrics) Percentile(p float64) float64 {
	n := len(m.LatencySamples)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	for i, v := range m.LatencySamples {
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)
	return stat.Quantile(p/100, stat.LinInterp, sorted, nil)
}

// Print displays aggregated metrics at the end of the simulation.
func (m Metrics) Print() {
	fmt.Println("=== Memory Hierarchy Simulation Metrics ===")
	fmt.Printf("Final cycle          : %d\n", m.FinalCycle)
	fmt.Printf("Reads / Writes       : %d / %d\n", m.ReadCount, m.WriteCount)
	fmt.Printf("Tier-1 hits/misses   : %d / %d (hit rate %.4f)\n", m.T1Hits, m.T1Misses, m.T1HitRate())
	fmt.Printf("Tier-2 hits/misses   : %d / %d (hit rate %.4f)\n", m.T2Hits, m.T2Misses, m.T2HitRate())
	fmt.Printf("Bank conflicts T1/T2 : %d / %d\n", m.BankConflictsT1, m.BankConflictsT2)
	fmt.Printf("Prefetch issued      : %d\n", m.PrefetchIssued)
	fmt.Printf("Prefetch useful/wasted: %d / %d (accuracy %.4f, coverage %.4f)\n",
		m.PrefetchUseful, m.PrefetchWasted, m.PrefetchAccuracy(), m.PrefetchCoverage())
	if len(m.LatencySamples) > 0 {
		fmt.Printf("Latency p50/p95/p99  : %.2f / %.2f / %.2f cycles\n",
			m.Percentile(50), m.Percentile(95), m.Percentile(99))
	}
}
