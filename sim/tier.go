package sim

// tier is a banked LRU cache: a fixed number of independent banks, each an
// lruSet sized to totalLines/numBanks. A line's bank is fixed by its
// address (see bankT1/bankT2), so probing, touching, and admitting a line
// only ever touches the one bank that owns it.
type tier struct {
	banks     []*lruSet
	hits      uint64
	misses    uint64
	bankOf    func(LineKey) int
}

func newTier(totalLines, numBanks int, bankOf func(LineKey) int) *tier {
	linesPerBank := totalLines / numBanks
	banks := make([]*lruSet, numBanks)
	for i := range banks {
		banks[i] = newLRUSet(linesPerBank)
	}
	return &tier{banks: banks, bankOf: bankOf}
}

func (t *tier) bank(key LineKey) *lruSet {
	return t.banks[t.bankOf(key)]
}

// Probe reports residency without recording a hit/miss; used when the
// caller needs to know the current state before deciding how to account
// for it (e.g. distinguishing a prefetch-filled line from a demand hit).
func (t *tier) Probe(key LineKey) bool {
	return t.bank(key).Contains(key)
}

// Touch records a hit against an already-resident line and promotes it to
// MRU. The caller must have verified Probe(key) first.
func (t *tier) Touch(key LineKey) {
	t.hits++
	t.bank(key).Touch(key)
}

// Admit records a miss and inserts key as MRU, evicting the bank's LRU
// entry if full. It reports the evicted key, if any.
func (t *tier) Admit(key LineKey) (evicted LineKey, evictedOK bool) {
	t.misses++
	return t.bank(key).Insert(key)
}

// AdmitSilently inserts key without touching the hit/miss counters; the
// Simulator uses it for tier-2 compulsory fills, which it counts itself.
func (t *tier) AdmitSilently(key LineKey) (evicted LineKey, evictedOK bool) {
	return t.bank(key).Insert(key)
}

// AdmitExcluding behaves like Admit but protects candidates for which skip
// returns true (lines with a fill already in flight) from eviction.
func (t *tier) AdmitExcluding(key LineKey, skip func(LineKey) bool) (evicted LineKey, evictedOK, failed bool) {
	t.misses++
	return t.bank(key).InsertExcluding(key, skip)
}

// AdmitSilentlyExcluding is AdmitExcluding without the miss-counter side
// effect; the Simulator uses it for every tier-1 fill retirement, demand
// or prefetch, since it counts tier-1 misses at probe time.
func (t *tier) AdmitSilentlyExcluding(key LineKey, skip func(LineKey) bool) (evicted LineKey, evictedOK, failed bool) {
	return t.bank(key).InsertExcluding(key, skip)
}

func (t *tier) HitRate() float64 {
	total := t.hits + t.misses
	if total == 0 {
		return 0
	}
	return float64(t.hits) / float64(total)
}
