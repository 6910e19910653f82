package streamprefetch

import "github.com/memsim/memsim/sim"

// register.go wires streamprefetch's Stream into sim's registration
// variable (NewPrefetcherFunc). This init() runs when any package
// imports streamprefetch, breaking the import cycle between sim/ (the
// interface owner) and streamprefetch/ (the implementation). Production
// code imports streamprefetch directly; sim's own tests use a blank
// import in prefetch_import_test.go.
func init() {
	sim.NewPrefetcherFunc = func(cfg sim.PrefetchConfig) sim.Prefetcher {
		return &adapter{s: New(Config{
			Trigger:    cfg.Trigger,
			Lookahead:  cfg.Lookahead,
			IssueWidth: cfg.IssueWidth,
		})}
	}
}

// adapter satisfies sim.Prefetcher by converting between sim.LineKey and
// the plain uint32 Stream operates on, so Stream itself has no
// dependency on sim.
type adapter struct {
	s *Stream
}

func (a *adapter) Observe(line sim.LineKey) []sim.LineKey {
	raw := a.s.Observe(uint32(line))
	if raw == nil {
		return nil
	}
	out := make([]sim.LineKey, len(raw))
	for i, v := range raw {
		out[i] = sim.LineKey(v)
	}
	return out
}

func (a *adapter) Reset() { a.s.Reset() }
