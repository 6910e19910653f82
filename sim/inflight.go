package sim

import "container/heap"

// fillKind distinguishes the demand path from the prefetch path for an
// in-flight tier-2 fetch; only prefetch fills feed the useful/wasted
// prefetch counters.
type fillKind uint8

const (
	demandFill fillKind = iota
	prefetchFill
)

// inflightEntry tracks one outstanding tier-2 fetch: a line fetched into
// tier-1 but not yet resident, becoming resident at readyCycle.
type inflightEntry struct {
	line        LineKey
	readyCycle  uint64
	kind        fillKind
	issuedCycle uint64 // cycle the fetch was issued, for PrefetchRecord.IssuedCycle
	seq         uint64 // insertion order, breaks readyCycle ties FIFO
	index       int    // heap.Interface bookkeeping

	// consumedByDemand is set when a demand access reclassifies a
	// still-in-flight prefetch as useful before it retires; admitToT1
	// then leaves it out of pendingPrefetch since it is consumed on
	// arrival, not left resident-and-unconsumed.
	consumedByDemand bool
}

// inflightHeap is a min-heap on (readyCycle, seq), giving deterministic
// FIFO retirement order among fills that complete on the same cycle.
type inflightHeap []*inflightEntry

func (h inflightHeap) Len() int { return len(h) }
func (h inflightHeap) Less(i, j int) bool {
	if h[i].readyCycle != h[j].readyCycle {
		return h[i].readyCycle < h[j].readyCycle
	}
	return h[i].seq < h[j].seq
}
func (h inflightHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *inflightHeap) Push(x interface{}) {
	e := x.(*inflightEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *inflightHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// inflightTable tracks every line currently mid-fetch from tier-2 into
// tier-1, keyed by line so residency-in-flight checks are O(1), with
// retirement ordered by readyCycle via a heap.
type inflightTable struct {
	byLine map[LineKey]*inflightEntry
	order  inflightHeap
	nextSeq uint64
}

func newInflightTable() *inflightTable {
	t := &inflightTable{byLine: make(map[LineKey]*inflightEntry)}
	heap.Init(&t.order)
	return t
}

func (t *inflightTable) Has(line LineKey) bool {
	_, ok := t.byLine[line]
	return ok
}

func (t *inflightTable) Get(line LineKey) (*inflightEntry, bool) {
	e, ok := t.byLine[line]
	return e, ok
}

// Insert records a new in-flight fill issued at issuedCycle. The caller
// must have verified !Has(line) first.
func (t *inflightTable) Insert(line LineKey, readyCycle uint64, kind fillKind, issuedCycle uint64) {
	e := &inflightEntry{line: line, readyCycle: readyCycle, kind: kind, issuedCycle: issuedCycle, seq: t.nextSeq}
	t.nextSeq++
	t.byLine[line] = e
	heap.Push(&t.order, e)
}

// RetireDue pops and returns every entry with readyCycle <= cycle, in
// retirement order, removing them from the table.
func (t *inflightTable) RetireDue(cycle uint64) []*inflightEntry {
	var due []*inflightEntry
	for t.order.Len() > 0 && t.order[0].readyCycle <= cycle {
		e := heap.Pop(&t.order).(*inflightEntry)
		delete(t.byLine, e.line)
		due = append(due, e)
	}
	return due
}

// NextReadyCycle returns the soonest pending readyCycle and true, or
// (0, false) if nothing is in flight.
func (t *inflightTable) NextReadyCycle() (uint64, bool) {
	if t.order.Len() == 0 {
		return 0, false
	}
	return t.order[0].readyCycle, true
}

func (t *inflightTable) Len() int { return len(t.byLine) }
