package sim

// AccessRecord describes the outcome of a single demand operation, for a
// Recorder to archive. It carries only primitive/value data so that
// tracelog (the default Recorder implementation) never needs to import
// sim's internal types.
type AccessRecord struct {
	Seq        int
	Kind       OpKind
	Address    uint64
	Line       uint32
	T1Hit      bool
	T2Hit      bool
	StartCycle uint64
	EndCycle   uint64
}

// PrefetchRecord describes the final disposition of one speculatively
// fetched line: whether a later demand access consumed it (Useful) before
// it was evicted unused (Wasted).
type PrefetchRecord struct {
	Line        uint32
	IssuedCycle uint64
	Useful      bool
}

// FSMTransition describes one state change in the prefetcher's internal
// stream-tracking state machine, for diagnostics only; the Simulator's
// timing model never depends on the string names here.
type FSMTransition struct {
	Cycle uint64
	From  string
	To    string
	Line  uint32
}

// Recorder receives a stream of simulation events. NewSimulator accepts a
// nil Recorder and substitutes NopRecorder for it.
type Recorder interface {
	RecordAccess(AccessRecord)
	RecordPrefetch(PrefetchRecord)
	RecordTransition(FSMTransition)
}

// NopRecorder discards every event. It is the default Recorder used when
// a caller does not ask for trace archiving.
type NopRecorder struct{}

func (NopRecorder) RecordAccess(AccessRecord)       {}
func (NopRecorder) RecordPrefetch(PrefetchRecord)   {}
func (NopRecorder) RecordTransition(FSMTransition) {}
