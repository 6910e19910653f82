package sim

import "fmt"

// Simulator drives one deterministic run of the memory hierarchy model
// over a Trace. A Simulator is single-use: construct one per run via
// NewSimulator, call Run at most once, then discard it.
type Simulator struct {
	cfg Config

	t1 *tier
	t2 *tier

	inflight *inflightTable
	t1Busy   *bankBusy
	t2Busy   *bankBusy

	prefetcher Prefetcher
	recorder   Recorder

	// everSeenT2 distinguishes a line's compulsory first fill (counted
	// as a tier-2 hit under the always-hit contract of §3) from a
	// genuine re-fetch after eviction, which is a design failure.
	everSeenT2 map[LineKey]bool

	// pendingPrefetch holds lines resident in tier-1 because of a
	// prefetch fill that no demand access has consumed yet, mapped to
	// the cycle the fetch was issued. A demand hit on one of these
	// lines marks it useful; an eviction of one of these lines (still
	// unconsumed) marks it wasted.
	pendingPrefetch map[LineKey]uint64

	currentCycle uint64
	metrics      Metrics
	seq          int
}

// NewSimulator validates cfg and constructs a Simulator ready to Run. The
// default Prefetcher implementation must have been registered by
// importing streamprefetch (blank import suffices); recorder may be nil,
// in which case events are discarded.
func NewSimulator(cfg Config, recorder Recorder) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	numT1Banks, numT2Banks := cfg.NumT1Banks, cfg.NumT2Banks
	t1 := newTier(cfg.T1TotalLines, numT1Banks, func(k LineKey) int {
		return bankT1(k, numT1Banks)
	})
	t2 := newTier(cfg.T2TotalLines, numT2Banks, func(k LineKey) int {
		return bankT2(k, numT1Banks, numT2Banks)
	})
	return &Simulator{
		cfg:      cfg,
		t1:       t1,
		t2:       t2,
		inflight: newInflightTable(),
		t1Busy:   newBankBusy(numT1Banks),
		t2Busy:   newBankBusy(numT2Banks),
		prefetcher: MustNewPrefetcher(PrefetchConfig{
			Trigger:    cfg.PrefetchTrigger,
			Lookahead:  cfg.PrefetchLookahead,
			IssueWidth: cfg.PrefetchIssueWidth,
		}),
		recorder:        recorder,
		everSeenT2:      make(map[LineKey]bool),
		pendingPrefetch: make(map[LineKey]uint64),
	}, nil
}

// Run drives the full trace through the hierarchy in order and returns
// the accumulated Metrics. An error aborts the run immediately; the
// Metrics returned alongside it reflect only the operations processed so
// far and must not be treated as a complete snapshot; on an
// *AddressOverflowError the partial metrics are discarded and the zero
// Metrics is returned.
func (s *Simulator) Run(trace Trace) (Metrics, error) {
	for _, op := range trace {
		if err := s.retireDue(s.currentCycle); err != nil {
			return s.snapshotMetrics(), err
		}

		key, err := lineOf(op.Address, s.cfg.LineBytes)
		if err != nil {
			return Metrics{}, err
		}
		b1 := bankT1(key, s.cfg.NumT1Banks)
		b2 := bankT2(key, s.cfg.NumT1Banks, s.cfg.NumT2Banks)

		switch op.Kind {
		case Read:
			s.metrics.ReadCount++
			latency, err := s.serviceRead(key, b1, b2)
			if err != nil {
				return s.snapshotMetrics(), err
			}
			s.metrics.LatencySamples = append(s.metrics.LatencySamples, latency)
			if err := s.feedPrefetcher(key); err != nil {
				return s.snapshotMetrics(), err
			}
		case Write:
			s.metrics.WriteCount++
			if err := s.serviceWrite(key, b1, b2); err != nil {
				return s.snapshotMetrics(), err
			}
		}

		if s.cfg.CycleBudget != 0 && s.currentCycle >= s.cfg.CycleBudget {
			m := s.snapshotMetrics()
			return m, &BudgetExceededError{Cycle: s.currentCycle, Metrics: m}
		}
	}

	if err := s.drainRemaining(); err != nil {
		return s.snapshotMetrics(), err
	}
	if s.cfg.CycleBudget != 0 && s.currentCycle >= s.cfg.CycleBudget {
		m := s.snapshotMetrics()
		return m, &BudgetExceededError{Cycle: s.currentCycle, Metrics: m}
	}

	s.metrics.FinalCycle = s.currentCycle
	return s.snapshotMetrics(), nil
}

// snapshotMetrics copies the live tier hit/miss counters into s.metrics
// and returns the result. The tiers track their own hits/misses directly
// (sim/tier.go); this is the single point where that state is published
// into the Metrics value callers see.
func (s *Simulator) snapshotMetrics() Metrics {
	s.metrics.T1Hits = s.t1.hits
	s.metrics.T1Misses = s.t1.misses
	s.metrics.T2Hits = s.t2.hits
	s.metrics.T2Misses = s.t2.misses
	return s.metrics
}

// serviceRead implements §4.6 step 3 for a READ operation and returns the
// latency sample for this read.
func (s *Simulator) serviceRead(key LineKey, b1, b2 int) (uint64, error) {
	issueCycle := s.currentCycle

	if s.t1.Probe(key) {
		s.t1.Touch(key)
		if issuedCycle, ok := s.pendingPrefetch[key]; ok {
			s.metrics.PrefetchUseful++
			s.recorder.RecordPrefetch(PrefetchRecord{Line: uint32(key), IssuedCycle: issuedCycle, Useful: true})
			delete(s.pendingPrefetch, key)
		}
		start := s.t1Busy.Reserve(b1, s.currentCycle)
		conflict := uint64(0)
		if start > issueCycle {
			conflict = start - issueCycle
			s.metrics.BankConflictsT1 += conflict
		}
		latency := s.cfg.T1Latency + conflict
		s.currentCycle += s.cfg.T1Latency
		s.recordAccess(Read, key, true, issueCycle, s.currentCycle)
		return latency, nil
	}

	s.t1.misses++

	if entry, ok := s.inflight.Get(key); ok {
		if entry.kind == prefetchFill {
			s.metrics.PrefetchUseful++
			s.recorder.RecordPrefetch(PrefetchRecord{Line: uint32(key), IssuedCycle: entry.issuedCycle, Useful: true})
			entry.consumedByDemand = true
		}
		if entry.readyCycle > s.currentCycle {
			s.currentCycle = entry.readyCycle
		}
		if err := s.retireDue(s.currentCycle); err != nil {
			return 0, err
		}
		s.currentCycle += s.cfg.T1Latency
		latency := entry.readyCycle + s.cfg.T1Latency - issueCycle
		s.recordAccess(Read, key, false, issueCycle, s.currentCycle)
		return latency, nil
	}

	ready, err := s.issueDemandFetch(key, b2)
	if err != nil {
		return 0, err
	}
	if ready > s.currentCycle {
		s.currentCycle = ready
	}
	if err := s.retireDue(s.currentCycle); err != nil {
		return 0, err
	}
	s.currentCycle += s.cfg.T1Latency
	latency := ready + s.cfg.T1Latency - issueCycle
	s.recordAccess(Read, key, false, issueCycle, s.currentCycle)
	return latency, nil
}

// serviceWrite implements the write-allocate path: identical residency,
// timing, and prefetch useful accounting to a read miss/hit, but no
// latency sample and no prefetcher feed.
func (s *Simulator) serviceWrite(key LineKey, b1, b2 int) error {
	if s.t1.Probe(key) {
		s.t1.Touch(key)
		if issuedCycle, ok := s.pendingPrefetch[key]; ok {
			s.metrics.PrefetchUseful++
			s.recorder.RecordPrefetch(PrefetchRecord{Line: uint32(key), IssuedCycle: issuedCycle, Useful: true})
			delete(s.pendingPrefetch, key)
		}
		start := s.t1Busy.Reserve(b1, s.currentCycle)
		if start > s.currentCycle {
			s.metrics.BankConflictsT1 += start - s.currentCycle
		}
		s.currentCycle += s.cfg.T1Latency
		s.recordAccess(Write, key, true, s.currentCycle, s.currentCycle)
		return nil
	}

	s.t1.misses++

	if entry, ok := s.inflight.Get(key); ok {
		if entry.kind == prefetchFill {
			s.metrics.PrefetchUseful++
			s.recorder.RecordPrefetch(PrefetchRecord{Line: uint32(key), IssuedCycle: entry.issuedCycle, Useful: true})
			entry.consumedByDemand = true
		}
		if entry.readyCycle > s.currentCycle {
			s.currentCycle = entry.readyCycle
		}
		if err := s.retireDue(s.currentCycle); err != nil {
			return err
		}
		s.currentCycle += s.cfg.T1Latency
		s.recordAccess(Write, key, false, s.currentCycle, s.currentCycle)
		return nil
	}

	ready, err := s.issueDemandFetch(key, b2)
	if err != nil {
		return err
	}
	if ready > s.currentCycle {
		s.currentCycle = ready
	}
	if err := s.retireDue(s.currentCycle); err != nil {
		return err
	}
	s.currentCycle += s.cfg.T1Latency
	s.recordAccess(Write, key, false, s.currentCycle, s.currentCycle)
	return nil
}

// issueDemandFetch arbitrates tier-2 bank access for a demand fetch and
// returns the cycle at which the fetch's data is ready in tier-1.
func (s *Simulator) issueDemandFetch(key LineKey, b2 int) (uint64, error) {
	fetchStart := s.t2Busy.Reserve(b2, s.currentCycle)
	if fetchStart > s.currentCycle {
		s.metrics.BankConflictsT2 += fetchStart - s.currentCycle
	}
	ready := fetchStart + s.cfg.T2Latency
	if err := s.accessT2(key); err != nil {
		return 0, err
	}
	s.inflight.Insert(key, ready, demandFill, s.currentCycle)
	return ready, nil
}

// feedPrefetcher observes one demand read and issues any prefetch
// candidates the Prefetcher proposes, filtering against current
// residency and in-flight state and enforcing the issue-width cap; the
// Prefetcher itself enforces the lookahead bound.
func (s *Simulator) feedPrefetcher(key LineKey) error {
	var prevState string
	observer, observable := s.prefetcher.(StateObserver)
	if observable {
		prevState = observer.State()
	}

	candidates := s.prefetcher.Observe(key)

	if observable {
		if newState := observer.State(); newState != prevState {
			s.recorder.RecordTransition(FSMTransition{
				Cycle: s.currentCycle,
				From:  prevState,
				To:    newState,
				Line:  uint32(key),
			})
		}
	}

	issued := 0
	for _, cand := range candidates {
		if issued >= s.cfg.PrefetchIssueWidth {
			break
		}
		if s.t1.Probe(cand) || s.inflight.Has(cand) {
			continue
		}
		b2 := bankT2(cand, s.cfg.NumT1Banks, s.cfg.NumT2Banks)
		fetchStart := s.t2Busy.Reserve(b2, s.currentCycle)
		if fetchStart > s.currentCycle {
			s.metrics.BankConflictsT2 += fetchStart - s.currentCycle
		}
		ready := fetchStart + s.cfg.T2Latency
		if err := s.accessT2(cand); err != nil {
			return err
		}
		s.inflight.Insert(cand, ready, prefetchFill, s.currentCycle)
		s.metrics.PrefetchIssued++
		issued++
	}
	return nil
}

// accessT2 resolves one line against tier-2 under the always-hit
// contract: a line's first touch is a compulsory fill counted as a hit,
// a resident line is a hit, and a line seen before but no longer resident
// (evicted under capacity pressure) is a hard Tier2MissError.
func (s *Simulator) accessT2(key LineKey) error {
	if s.t2.Probe(key) {
		s.t2.Touch(key)
		return nil
	}
	if s.everSeenT2[key] {
		return &Tier2MissError{Line: key}
	}
	s.everSeenT2[key] = true
	s.t2.AdmitSilently(key)
	s.t2.hits++
	return nil
}

// retireDue promotes every in-flight entry whose ready cycle has passed
// into tier-1.
func (s *Simulator) retireDue(cycle uint64) error {
	for _, e := range s.inflight.RetireDue(cycle) {
		if err := s.admitToT1(e); err != nil {
			return err
		}
	}
	return nil
}

// drainRemaining retires every still-in-flight entry at its scheduled
// cycle after the trace is exhausted, advancing current_cycle as needed
// but without producing further latency samples.
func (s *Simulator) drainRemaining() error {
	for s.inflight.Len() > 0 {
		next, ok := s.inflight.NextReadyCycle()
		if !ok {
			break
		}
		if next > s.currentCycle {
			s.currentCycle = next
		}
		if err := s.retireDue(s.currentCycle); err != nil {
			return err
		}
	}
	return nil
}

// admitToT1 promotes a retired in-flight entry into tier-1, evicting the
// bank's LRU line (never a line still in flight). A fresh admission
// always lands at MRU, including for a prefetch retiring into tier-1.
func (s *Simulator) admitToT1(e *inflightEntry) error {
	skip := func(k LineKey) bool { return s.inflight.Has(k) }
	evicted, evictedOK, failed := s.t1.AdmitSilentlyExcluding(e.line, skip)
	if failed {
		return &InvariantViolationError{
			Msg: fmt.Sprintf("no evictable tier-1 line for incoming line %d: every resident line is in flight", e.line),
		}
	}
	if evictedOK {
		if issuedCycle, pending := s.pendingPrefetch[evicted]; pending {
			s.metrics.PrefetchWasted++
			s.recorder.RecordPrefetch(PrefetchRecord{Line: uint32(evicted), IssuedCycle: issuedCycle, Useful: false})
		}
		delete(s.pendingPrefetch, evicted)
	}
	if e.kind == prefetchFill && !e.consumedByDemand {
		s.pendingPrefetch[e.line] = e.issuedCycle
	}
	return nil
}

func (s *Simulator) recordAccess(kind OpKind, line LineKey, t1Hit bool, start, end uint64) {
	s.seq++
	s.recorder.RecordAccess(AccessRecord{
		Seq:        s.seq,
		Kind:       kind,
		Line:       uint32(line),
		T1Hit:      t1Hit,
		StartCycle: start,
		EndCycle:   end,
	})
}
