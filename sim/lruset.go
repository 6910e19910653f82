package sim

// lruNode is a doubly-linked list node holding one resident line key.
// The list/map pairing mirrors the donor's KVBlock free-list bookkeeping
// (PrevFree/NextFree around a fixed block pool), repointed from
// free-vs-used tracking to MRU-vs-LRU recency tracking.
type lruNode struct {
	key        LineKey
	prev, next *lruNode
}

// lruSet is a fixed-capacity ordered set of line keys, evicting the
// least-recently-used entry on overflow. All operations are O(1).
type lruSet struct {
	capacity int
	nodes    map[LineKey]*lruNode
	head     *lruNode // most-recently-used
	tail     *lruNode // least-recently-used
}

func newLRUSet(capacity int) *lruSet {
	return &lruSet{
		capacity: capacity,
		nodes:    make(map[LineKey]*lruNode, capacity),
	}
}

func (s *lruSet) Len() int { return len(s.nodes) }

func (s *lruSet) Contains(key LineKey) bool {
	_, ok := s.nodes[key]
	return ok
}

// unlink detaches n from the list without touching the map.
func (s *lruSet) unlink(n *lruNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		s.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		s.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

// pushFront inserts n at the MRU position.
func (s *lruSet) pushFront(n *lruNode) {
	n.prev = nil
	n.next = s.head
	if s.head != nil {
		s.head.prev = n
	}
	s.head = n
	if s.tail == nil {
		s.tail = n
	}
}

// Touch moves an already-resident key to the MRU position. The caller
// must have verified Contains(key) first.
func (s *lruSet) Touch(key LineKey) {
	n := s.nodes[key]
	if n == s.head {
		return
	}
	s.unlink(n)
	s.pushFront(n)
}

// Insert admits a new key at the MRU position, evicting the LRU entry if
// the set is already at capacity. The caller must have verified
// !Contains(key) first. ok reports whether an eviction occurred.
func (s *lruSet) Insert(key LineKey) (evicted LineKey, ok bool) {
	evicted, ok = s.evictIfFull()
	n := &lruNode{key: key}
	s.nodes[key] = n
	s.pushFront(n)
	return evicted, ok
}

// InsertExcluding behaves like Insert but skips any LRU candidate for
// which skip returns true, walking toward the MRU end until it finds one
// it may evict. failed reports that every resident key was skipped and no
// room could be made; the caller should treat this as an invariant
// violation; in a correctly maintained hierarchy a resident line is never
// simultaneously in flight, so skip never actually rejects a candidate,
// but the walk is kept as a protocol-level safety net.
func (s *lruSet) InsertExcluding(key LineKey, skip func(LineKey) bool) (evicted LineKey, evictedOK bool, failed bool) {
	if s.Len() < s.capacity {
		n := &lruNode{key: key}
		s.nodes[key] = n
		s.pushFront(n)
		return 0, false, false
	}
	for n := s.tail; n != nil; n = n.prev {
		if skip(n.key) {
			continue
		}
		s.unlink(n)
		delete(s.nodes, n.key)
		victim := n.key
		nn := &lruNode{key: key}
		s.nodes[key] = nn
		s.pushFront(nn)
		return victim, true, false
	}
	return 0, false, true
}

// evictIfFull removes and returns the LRU entry if the set is at
// capacity; ok is false if there was room and nothing was evicted.
func (s *lruSet) evictIfFull() (evicted LineKey, ok bool) {
	if s.Len() < s.capacity {
		return 0, false
	}
	victim := s.tail
	s.unlink(victim)
	delete(s.nodes, victim.key)
	return victim.key, true
}
