package world

import (
	"sync"
	"testing"
)

func TestChunkViewIndexAddContainsRemove(t *testing.T) {
	idx := NewChunkViewIndex()
	pos := ChunkPos{3, -2}

	if idx.Contains(1, pos) {
		t.Fatal("expected pos not to be in client 1's view before Add")
	}

	idx.Add(1, pos)
	if !idx.Contains(1, pos) {
		t.Fatal("expected pos to be in client 1's view after Add")
	}

	idx.Remove(1, pos)
	if idx.Contains(1, pos) {
		t.Fatal("expected pos not to be in client 1's view after Remove")
	}
}

func TestChunkViewIndexViewers(t *testing.T) {
	idx := NewChunkViewIndex()
	pos := ChunkPos{0, 0}

	idx.Add(1, pos)
	idx.Add(2, pos)
	idx.Add(3, ChunkPos{1, 1})

	viewers := idx.Viewers(pos)
	if len(viewers) != 2 {
		t.Fatalf("expected 2 viewers of %v, got %d (%v)", pos, len(viewers), viewers)
	}
	seen := map[ClientID]bool{}
	for _, v := range viewers {
		seen[v] = true
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("expected viewers 1 and 2, got %v", viewers)
	}
}

func TestChunkViewIndexRemoveClient(t *testing.T) {
	idx := NewChunkViewIndex()
	positions := []ChunkPos{{0, 0}, {1, 0}, {0, 1}}
	for _, p := range positions {
		idx.Add(5, p)
	}

	idx.RemoveClient(5, positions)

	for _, p := range positions {
		if idx.Contains(5, p) {
			t.Fatalf("expected client 5 to have no view of %v after RemoveClient", p)
		}
		if viewers := idx.Viewers(p); len(viewers) != 0 {
			t.Fatalf("expected no viewers left for %v, got %v", p, viewers)
		}
	}
}

func TestChunkViewIndexRemoveClientLeavesOtherClientsIntact(t *testing.T) {
	idx := NewChunkViewIndex()
	pos := ChunkPos{2, 2}
	idx.Add(1, pos)
	idx.Add(2, pos)

	idx.RemoveClient(1, []ChunkPos{pos})

	if idx.Contains(1, pos) {
		t.Fatal("expected client 1's view to be cleared")
	}
	if !idx.Contains(2, pos) {
		t.Fatal("expected client 2's view to be unaffected by client 1's removal")
	}
}

// TestChunkViewIndexConcurrentClientsSharePosition exercises the stage-5
// (§2) access pattern: many clients reconciling their views concurrently,
// several of them sharing the same chunk position. Run with -race.
func TestChunkViewIndexConcurrentClientsSharePosition(t *testing.T) {
	idx := NewChunkViewIndex()
	pos := ChunkPos{7, 7}

	var wg sync.WaitGroup
	for i := ClientID(1); i <= 50; i++ {
		wg.Add(1)
		go func(client ClientID) {
			defer wg.Done()
			idx.Add(client, pos)
			idx.Contains(client, pos)
			idx.Viewers(pos)
			idx.Remove(client, pos)
		}(i)
	}
	wg.Wait()

	if viewers := idx.Viewers(pos); len(viewers) != 0 {
		t.Fatalf("expected no viewers left after all clients removed, got %v", viewers)
	}
}
