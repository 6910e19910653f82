// Package workload generates synthetic sim.Trace values for the CLI's
// generate subcommand and for test fixtures. It depends on sim only for
// Operation/Trace, the same one-way dependency the donor's sim/workload
// package has on sim.Request, and never on the simulator itself: a trace
// is read-only input the caller owns, produced here and handed to
// sim.Simulator.Run elsewhere.
package workload

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/memsim/memsim/sim"
)

// lineBytes is the address stride a scenario advances by per logical line;
// callers pass the same value their sim.Config uses so the resulting
// trace's addresses land exactly on line boundaries.

// SequentialScenario builds a dense monotonically increasing sweep of n
// reads: address 0, lineBytes, 2*lineBytes, ... matching spec.md §8
// scenario 1.
func SequentialScenario(n int, lineBytes uint32) sim.Trace {
	trace := make(sim.Trace, n)
	for i := 0; i < n; i++ {
		trace[i] = sim.Operation{Kind: sim.Read, Address: uint64(i) * uint64(lineBytes)}
	}
	return trace
}

// HotSetScenario draws n reads from numLines distinct line keys within a
// bounded working set, matching scenario 2. Reuse distance
// within the hot set is modelled with a distuv.Poisson jitter around the
// round-robin position, so the access order is not perfectly periodic.
func HotSetScenario(rng *rand.Rand, n, numLines int, lineBytes uint32) sim.Trace {
	jitter := distuv.Poisson{Lambda: float64(numLines) / 4, Src: rng}
	trace := make(sim.Trace, n)
	for i := 0; i < n; i++ {
		offset := int(jitter.Rand())
		line := (i + offset) % numLines
		if line < 0 {
			line += numLines
		}
		trace[i] = sim.Operation{Kind: sim.Read, Address: uint64(line) * uint64(lineBytes)}
	}
	return trace
}

// ScatterScenario draws n reads uniformly from a range of numLines
// distinct keys with no reuse locality, matching scenario 3 ("pathological
// scatter"). The range is typically set to 2x a tier-1's total lines by
// the caller.
func ScatterScenario(rng *rand.Rand, n, numLines int, lineBytes uint32) sim.Trace {
	u := distuv.Uniform{Min: 0, Max: float64(numLines), Src: rng}
	trace := make(sim.Trace, n)
	for i := 0; i < n; i++ {
		line := int(u.Rand())
		if line >= numLines {
			line = numLines - 1
		}
		trace[i] = sim.Operation{Kind: sim.Read, Address: uint64(line) * uint64(lineBytes)}
	}
	return trace
}

// DisarmScenario builds a sequential run, a single forward jump, then
// another sequential run, matching scenario 6 ("prefetch disarm on gap").
// runLen reads are issued from base, then one jump of gapLines lines
// forward, then runLen more sequential reads from the new base.
func DisarmScenario(base uint64, runLen, gapLines int, lineBytes uint32) sim.Trace {
	trace := make(sim.Trace, 0, runLen*2+1)
	addr := base
	for i := 0; i < runLen; i++ {
		trace = append(trace, sim.Operation{Kind: sim.Read, Address: addr})
		addr += uint64(lineBytes)
	}
	addr += uint64(gapLines) * uint64(lineBytes)
	for i := 0; i < runLen; i++ {
		trace = append(trace, sim.Operation{Kind: sim.Read, Address: addr})
		addr += uint64(lineBytes)
	}
	return trace
}

// ScenarioWeight pairs a named scenario trace with a weight used by Mix
// to decide how many operations to draw from it.
type ScenarioWeight struct {
	Name   string
	Trace  sim.Trace
	Weight float64
}

// Mix combines several scenario traces into one, interleaving draws from
// each in proportion to its weight, analogous to the donor's
// sim/workload/scenarios.go preset-mixing idiom. total is the length of
// the combined trace; a run-length per segment is drawn from a
// distuv.Exponential so segments vary in size rather than alternating
// strictly round-robin.
func Mix(rng *rand.Rand, total int, scenarios []ScenarioWeight) sim.Trace {
	if len(scenarios) == 0 || total <= 0 {
		return nil
	}
	weightSum := 0.0
	for _, s := range scenarios {
		weightSum += s.Weight
	}
	segmentLen := distuv.Exponential{Rate: 1.0 / 64, Src: rng}

	out := make(sim.Trace, 0, total)
	cursors := make([]int, len(scenarios))
	for len(out) < total {
		pick := rng.Float64() * weightSum
		idx := 0
		acc := scenarios[0].Weight
		for acc < pick && idx < len(scenarios)-1 {
			idx++
			acc += scenarios[idx].Weight
		}
		run := int(segmentLen.Rand()) + 1
		src := scenarios[idx].Trace
		if len(src) == 0 {
			continue
		}
		for i := 0; i < run && len(out) < total; i++ {
			out = append(out, src[cursors[idx]%len(src)])
			cursors[idx]++
		}
	}
	return out
}
