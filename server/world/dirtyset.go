package world

import "github.com/segmentio/fasthash/fnv1a"

// dirtyCell identifies a single (section, index-within-section) cell that
// was written to within a chunk during the current tick.
type dirtyCell struct {
	section int16
	index   uint16
}

func (c dirtyCell) pack() uint64 {
	return uint64(uint16(c.section))<<16 | uint64(c.index)
}

// dirtySet is an open-addressed set of dirtyCell values, hashed with
// fasthash/fnv1a. Chunk.dirty is cleared every tick for every loaded chunk
// (§8: "a chunk with 0 viewers receives no block-delta packets" still
// requires bookkeeping the dirty set so a late viewer's init packet reflects
// current state); a map[dirtyCell]struct{} would churn the allocator at that
// rate, so corecraft instead reuses a flat slice of buckets.
type dirtySet struct {
	buckets []dirtyCell
	present []bool
	count   int
}

const dirtySetInitialBuckets = 16

func newDirtySet() *dirtySet {
	return &dirtySet{
		buckets: make([]dirtyCell, dirtySetInitialBuckets),
		present: make([]bool, dirtySetInitialBuckets),
	}
}

// add inserts a cell into the set. It is a no-op if the cell is already
// present.
func (s *dirtySet) add(c dirtyCell) {
	if s.count*2 >= len(s.buckets) {
		s.grow()
	}
	idx := s.bucketFor(c)
	for s.present[idx] {
		if s.buckets[idx] == c {
			return
		}
		idx = (idx + 1) % len(s.buckets)
	}
	s.buckets[idx] = c
	s.present[idx] = true
	s.count++
}

func (s *dirtySet) bucketFor(c dirtyCell) int {
	h := fnv1a.HashUint64(c.pack())
	return int(h % uint64(len(s.buckets)))
}

func (s *dirtySet) grow() {
	old := s.buckets
	oldPresent := s.present
	s.buckets = make([]dirtyCell, len(old)*2)
	s.present = make([]bool, len(old)*2)
	s.count = 0
	for i, c := range old {
		if oldPresent[i] {
			s.add(c)
		}
	}
}

// len returns the number of cells currently marked dirty.
func (s *dirtySet) len() int { return s.count }

// clear empties the set without releasing its backing storage, so the next
// tick's writes can reuse the buckets.
func (s *dirtySet) clear() {
	for i := range s.present {
		s.present[i] = false
	}
	s.count = 0
}

// each calls f for every dirty cell currently tracked.
func (s *dirtySet) each(f func(dirtyCell)) {
	for i, p := range s.present {
		if p {
			f(s.buckets[i])
		}
	}
}
