package sim

import "testing"

func defaultTestConfig(t1Lines, t1Banks, t2Lines, t2Banks int) Config {
	cfg := DefaultConfig()
	cfg.T1TotalLines = t1Lines
	cfg.NumT1Banks = t1Banks
	cfg.T2TotalLines = t2Lines
	cfg.NumT2Banks = t2Banks
	return cfg
}

func mustSim(t *testing.T, cfg Config) *Simulator {
	t.Helper()
	sim, err := NewSimulator(cfg, nil)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	return sim
}

func TestEmptyTrace(t *testing.T) {
	// GIVEN a simulator with no operations to run
	sim := mustSim(t, defaultTestConfig(64, 4, 1024, 4))

	// WHEN Run is called with an empty trace
	m, err := sim.Run(nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// THEN every counter is zero and current_cycle stays at 0
	if m.T1Hits != 0 || m.T1Misses != 0 || m.T2Hits != 0 || m.T2Misses != 0 {
		t.Errorf("expected all-zero hit/miss counters, got %+v", m)
	}
	if len(m.LatencySamples) != 0 {
		t.Errorf("expected empty latency series, got %v", m.LatencySamples)
	}
	if m.FinalCycle != 0 {
		t.Errorf("FinalCycle = %d, want 0", m.FinalCycle)
	}
}

func TestSingleRead_IsAMissWithFullLatency(t *testing.T) {
	// GIVEN a simulator and a single read
	cfg := defaultTestConfig(64, 4, 1024, 4)
	sim := mustSim(t, cfg)

	// WHEN one read is run
	m, err := sim.Run(Trace{{Kind: Read, Address: 0}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// THEN it is a miss with one latency sample >= t1_latency + t2_latency
	if m.T1Misses != 1 || m.T1Hits != 0 {
		t.Errorf("T1Hits/T1Misses = %d/%d, want 0/1", m.T1Hits, m.T1Misses)
	}
	if len(m.LatencySamples) != 1 {
		t.Fatalf("LatencySamples = %v, want exactly one sample", m.LatencySamples)
	}
	if m.LatencySamples[0] < cfg.T1Latency+cfg.T2Latency {
		t.Errorf("latency = %d, want >= %d", m.LatencySamples[0], cfg.T1Latency+cfg.T2Latency)
	}
}

func TestAllWrites_NoLatencySamplesButCountsWrites(t *testing.T) {
	// GIVEN a trace of only writes
	sim := mustSim(t, defaultTestConfig(64, 4, 1024, 4))
	trace := Trace{
		{Kind: Write, Address: 0},
		{Kind: Write, Address: 128},
		{Kind: Write, Address: 256},
	}

	// WHEN the trace is run
	m, err := sim.Run(trace)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// THEN no read-latency samples are recorded but write_count reflects all three
	if len(m.LatencySamples) != 0 {
		t.Errorf("LatencySamples = %v, want none", m.LatencySamples)
	}
	if m.WriteCount != 3 {
		t.Errorf("WriteCount = %d, want 3", m.WriteCount)
	}
}

func TestSameLineRepeated_OneMissRestHits(t *testing.T) {
	// GIVEN 1000 reads of the same address
	cfg := defaultTestConfig(64, 4, 1024, 4)
	sim := mustSim(t, cfg)
	trace := make(Trace, 1000)
	for i := range trace {
		trace[i] = Operation{Kind: Read, Address: 0x1000}
	}

	// WHEN the trace is run
	m, err := sim.Run(trace)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// THEN exactly one miss, the remaining 999 are hits
	if m.T1Misses != 1 {
		t.Errorf("T1Misses = %d, want 1", m.T1Misses)
	}
	if m.T1Hits != 999 {
		t.Errorf("T1Hits = %d, want 999", m.T1Hits)
	}
	if m.FinalCycle < cfg.T2Latency+cfg.T1Latency+998 {
		t.Errorf("FinalCycle = %d, want >= %d", m.FinalCycle, cfg.T2Latency+cfg.T1Latency+998)
	}
}

func TestWriteAllocateThenRead(t *testing.T) {
	// GIVEN a simulator and "WRITE A, READ A"
	cfg := defaultTestConfig(64, 4, 1024, 4)
	sim := mustSim(t, cfg)
	trace := Trace{
		{Kind: Write, Address: 0xA00},
		{Kind: Read, Address: 0xA00},
	}

	// WHEN the trace is run
	m, err := sim.Run(trace)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// THEN the read is a tier-1 hit with latency t1_latency, write_count is 1,
	// and no latency sample was produced by the write
	if m.WriteCount != 1 {
		t.Errorf("WriteCount = %d, want 1", m.WriteCount)
	}
	if len(m.LatencySamples) != 1 {
		t.Fatalf("LatencySamples = %v, want exactly one (from the read)", m.LatencySamples)
	}
	if m.LatencySamples[0] != cfg.T1Latency {
		t.Errorf("read latency = %d, want %d", m.LatencySamples[0], cfg.T1Latency)
	}
	if m.T1Hits != 1 {
		t.Errorf("T1Hits = %d, want 1 (the read)", m.T1Hits)
	}
}

func TestDenseSequentialSweep_HighHitRateAndUsefulPrefetch(t *testing.T) {
	// GIVEN a large tier-1 and a dense sequential sweep of N lines
	const n = 8192
	cfg := defaultTestConfig(4096, 8, 1<<16, 8)
	sim := mustSim(t, cfg)
	trace := make(Trace, n)
	for i := 0; i < n; i++ {
		trace[i] = Operation{Kind: Read, Address: uint64(i) * uint64(cfg.LineBytes)}
	}

	// WHEN the sweep is run
	m, err := sim.Run(trace)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// THEN the streaming prefetcher drives tier-1 hit rate near 1 and most
	// issued prefetches are useful
	if m.T1HitRate() < 0.999 {
		t.Errorf("T1HitRate() = %f, want >= 0.999", m.T1HitRate())
	}
	if m.PrefetchIssued == 0 {
		t.Error("expected PrefetchIssued > 0 once streaming arms")
	}
	if m.PrefetchAccuracy() < 0.90 {
		t.Errorf("PrefetchAccuracy() = %f, want >= 0.90", m.PrefetchAccuracy())
	}
}

func TestRandomHotSet_CompulsoryMissesOnly(t *testing.T) {
	// GIVEN 64 distinct lines, all fitting in one tier-1 bank, accessed
	// in a fixed stride-7 order that never steps to the adjacent line
	// (bounded working set, no streaming locality)
	cfg := defaultTestConfig(256, 4, 4096, 4)
	sim := mustSim(t, cfg)
	trace := make(Trace, 10000)
	for i := range trace {
		line := uint64((i * 7) % 64)
		trace[i] = Operation{Kind: Read, Address: line * uint64(cfg.LineBytes)}
	}

	// WHEN the trace is run
	m, err := sim.Run(trace)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// THEN misses are exactly the compulsory fills, one per distinct line
	if m.T1Misses != 64 {
		t.Errorf("T1Misses = %d, want 64 compulsory misses", m.T1Misses)
	}
	if m.T1Hits != uint64(len(trace))-64 {
		t.Errorf("T1Hits = %d, want %d", m.T1Hits, uint64(len(trace))-64)
	}
}

func TestBudgetExceeded(t *testing.T) {
	// GIVEN a simulator with a tiny cycle budget
	cfg := defaultTestConfig(64, 4, 1024, 4)
	cfg.CycleBudget = 2
	sim := mustSim(t, cfg)
	trace := make(Trace, 100)
	for i := range trace {
		trace[i] = Operation{Kind: Read, Address: uint64(i) * uint64(cfg.LineBytes)}
	}

	// WHEN the trace runs past the budget
	_, err := sim.Run(trace)

	// THEN it fails with BudgetExceededError
	if _, ok := err.(*BudgetExceededError); !ok {
		t.Fatalf("err = %v (%T), want *BudgetExceededError", err, err)
	}
}

func TestAddressOverflow(t *testing.T) {
	// GIVEN a simulator and an address that overflows the line key range
	sim := mustSim(t, defaultTestConfig(64, 4, 1024, 4))

	// WHEN an out-of-range address is run
	_, err := sim.Run(Trace{{Kind: Read, Address: 1 << 62}})

	// THEN it fails with AddressOverflowError
	if _, ok := err.(*AddressOverflowError); !ok {
		t.Fatalf("err = %v (%T), want *AddressOverflowError", err, err)
	}
}

func TestDeterminism_IdenticalRunsProduceIdenticalMetrics(t *testing.T) {
	// GIVEN the same config and trace run through two independent simulators
	cfg := defaultTestConfig(128, 4, 2048, 4)
	trace := make(Trace, 500)
	for i := range trace {
		trace[i] = Operation{Kind: Read, Address: uint64(i%200) * uint64(cfg.LineBytes)}
	}

	sim1 := mustSim(t, cfg)
	sim2 := mustSim(t, cfg)

	m1, err := sim1.Run(trace)
	if err != nil {
		t.Fatalf("Run 1: %v", err)
	}
	m2, err := sim2.Run(trace)
	if err != nil {
		t.Fatalf("Run 2: %v", err)
	}

	// THEN every counter and the full latency series match exactly
	if m1.T1Hits != m2.T1Hits || m1.T1Misses != m2.T1Misses || m1.FinalCycle != m2.FinalCycle {
		t.Fatalf("metrics diverged: %+v vs %+v", m1, m2)
	}
	if len(m1.LatencySamples) != len(m2.LatencySamples) {
		t.Fatalf("latency sample counts diverged: %d vs %d", len(m1.LatencySamples), len(m2.LatencySamples))
	}
	for i := range m1.LatencySamples {
		if m1.LatencySamples[i] != m2.LatencySamples[i] {
			t.Fatalf("latency sample %d diverged: %d vs %d", i, m1.LatencySamples[i], m2.LatencySamples[i])
		}
	}
}

func TestZeroIssueWidth_NoPrefetchesIssued(t *testing.T) {
	// GIVEN a config with prefetch_issue_width = 0
	cfg := defaultTestConfig(4096, 8, 1<<16, 8)
	cfg.PrefetchIssueWidth = 0
	sim := mustSim(t, cfg)
	trace := make(Trace, 2000)
	for i := range trace {
		trace[i] = Operation{Kind: Read, Address: uint64(i) * uint64(cfg.LineBytes)}
	}

	// WHEN the sweep is run
	m, err := sim.Run(trace)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// THEN no prefetches are ever issued
	if m.PrefetchIssued != 0 {
		t.Errorf("PrefetchIssued = %d, want 0", m.PrefetchIssued)
	}
}

func TestPrefetchUsefulWastedNeverExceedIssued(t *testing.T) {
	// GIVEN a sequential sweep large enough to arm and sustain streaming
	cfg := defaultTestConfig(512, 4, 1<<16, 8)
	sim := mustSim(t, cfg)
	trace := make(Trace, 4000)
	for i := range trace {
		trace[i] = Operation{Kind: Read, Address: uint64(i) * uint64(cfg.LineBytes)}
	}

	// WHEN the trace is run
	m, err := sim.Run(trace)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// THEN useful+wasted never exceeds issued (some may still be pending in flight)
	if m.PrefetchUseful+m.PrefetchWasted > m.PrefetchIssued {
		t.Errorf("useful(%d)+wasted(%d) > issued(%d)", m.PrefetchUseful, m.PrefetchWasted, m.PrefetchIssued)
	}
}

func TestConfig_InvalidRejected(t *testing.T) {
	// GIVEN a config with a non-power-of-two line size and a non-dividing bank count
	cfg := DefaultConfig()
	cfg.LineBytes = 100
	cfg.T1TotalLines = 10
	cfg.NumT1Banks = 3
	cfg.T2TotalLines = 1024
	cfg.NumT2Banks = 4

	// WHEN a simulator is constructed
	_, err := NewSimulator(cfg, nil)

	// THEN it fails with ConfigError
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("err = %v (%T), want *ConfigError", err, err)
	}
}
