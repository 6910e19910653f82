package sim

// PrefetchConfig carries the tunables a Prefetcher implementation needs.
// It is a subset of Config so that streamprefetch (and any future
// implementation) does not need to import the rest of Config's fields.
type PrefetchConfig struct {
	Trigger    int // consecutive sequential reads that arm streaming
	Lookahead  int // max lines ahead of the last observed line to prefetch
	IssueWidth int // max prefetches the Simulator issues per observed read
}

// Prefetcher observes the demand read stream and proposes candidate lines
// to fetch speculatively. A Prefetcher only generates candidates; it has
// no say over whether a candidate is actually resident, in flight, or
// bank-contended, and no say over eviction policy. The Simulator is
// solely responsible for filtering candidates against current residency
// and in-flight state and for arbitrating bank access.
type Prefetcher interface {
	// Observe records one demand tier-1 read at line and returns the
	// ordered list of line keys (nearest first) the implementation
	// proposes to prefetch as a result. It may return no candidates.
	Observe(line LineKey) []LineKey

	// Reset clears all learned stream state. The Simulator never calls
	// it; a non-sequential read is handled inside Observe.
	Reset()
}

// StateObserver is an optional interface a Prefetcher implementation may
// satisfy to expose its current FSM state name for diagnostics. It is
// never required by the Simulator's timing model; only tracelog's
// transition recording uses it, purely for human-facing summaries.
type StateObserver interface {
	State() string
}

// NewPrefetcherFunc is a factory function for creating Prefetcher
// implementations. Set by streamprefetch's init() via registration. This
// breaks the import cycle between sim/ (which defines Prefetcher) and
// streamprefetch/ (which implements it).
//
// NewSimulator builds its Prefetcher through MustNewPrefetcher, so every
// program or test that constructs a Simulator must import streamprefetch
// (a blank import suffices).
var NewPrefetcherFunc func(cfg PrefetchConfig) Prefetcher

// MustNewPrefetcher calls NewPrefetcherFunc with a nil guard. Panics with
// an actionable message if the factory has not been registered (missing
// streamprefetch import).
func MustNewPrefetcher(cfg PrefetchConfig) Prefetcher {
	if NewPrefetcherFunc == nil {
		panic("NewPrefetcherFunc not registered: import streamprefetch to register it " +
			"(add: import _ \"github.com/memsim/memsim/streamprefetch\")")
	}
	return NewPrefetcherFunc(cfg)
}
