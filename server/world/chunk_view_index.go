package world

import (
	"sync"

	"github.com/brentp/intintmap"
)

// ChunkViewIndex is the reverse of a chunk layer: it maps chunk positions to
// the set of clients currently viewing them, purely spatially (independent
// of which layer a client's view is being supplied by). It backs the
// ChunkView/ChunkViewExcept/TransitionChunkView scope checks in §4.4.
//
// View reconciliation (§4.5.2) updates this index with Add/Remove as
// chunks enter and leave a client's view — up to (2r+1)² ≈ 4000 positions
// per client at the maximum view distance of 32 — and the stage-6
// broadcast queries it with Contains for every chunk-scoped message.
// Packing ChunkPos into an int64 key and using intintmap.Map instead of
// map[ChunkPos]struct{} for the per-client sets avoids hashing a two-field
// struct on each of those operations.
type ChunkViewIndex struct {
	// mu guards perClient and reverse. Stage 5 (§2) reconciles every
	// client's view concurrently, and two clients sharing a chunk layer
	// mutate the same reverse[pos] set in the same tick.
	mu sync.Mutex
	// perClient holds, for each client, the set of packed chunk positions
	// currently in its view.
	perClient map[ClientID]*intintmap.Map
	// reverse holds, for each packed chunk position, the set of clients
	// currently viewing it — used to answer "who is watching position p"
	// queries (e.g. for particle/sound visibility) in O(1).
	reverse map[int64]map[ClientID]struct{}
}

// NewChunkViewIndex creates an empty ChunkViewIndex.
func NewChunkViewIndex() *ChunkViewIndex {
	return &ChunkViewIndex{
		perClient: make(map[ClientID]*intintmap.Map),
		reverse:   make(map[int64]map[ClientID]struct{}),
	}
}

// Contains reports whether client's current view includes pos.
func (idx *ChunkViewIndex) Contains(client ClientID, pos ChunkPos) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	m, ok := idx.perClient[client]
	if !ok {
		return false
	}
	_, ok = m.Get(pos.pack())
	return ok
}

// Add registers pos as being in client's view.
func (idx *ChunkViewIndex) Add(client ClientID, pos ChunkPos) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	m, ok := idx.perClient[client]
	if !ok {
		m = intintmap.New(256, 0.6)
		idx.perClient[client] = m
	}
	key := pos.pack()
	m.Put(key, 1)
	set := idx.reverse[key]
	if set == nil {
		set = make(map[ClientID]struct{})
		idx.reverse[key] = set
	}
	set[client] = struct{}{}
}

// Remove unregisters pos from client's view.
func (idx *ChunkViewIndex) Remove(client ClientID, pos ChunkPos) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	key := pos.pack()
	if m, ok := idx.perClient[client]; ok {
		m.Del(key)
	}
	if set, ok := idx.reverse[key]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(idx.reverse, key)
		}
	}
}

// RemoveClient drops every entry for client, used when a client is
// destroyed (disconnect/kick).
func (idx *ChunkViewIndex) RemoveClient(client ClientID, positions []ChunkPos) {
	for _, pos := range positions {
		idx.Remove(client, pos)
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.perClient, client)
}

// Viewers returns the clients currently viewing pos.
func (idx *ChunkViewIndex) Viewers(pos ChunkPos) []ClientID {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	set := idx.reverse[pos.pack()]
	if len(set) == 0 {
		return nil
	}
	out := make([]ClientID, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}
