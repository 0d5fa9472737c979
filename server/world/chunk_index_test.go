package world

import (
	"sync"
	"testing"
)

func testDimension() DimensionInfo {
	return DimensionInfo{Name: "minecraft:overworld", MinY: -64, SectionCount: 24}
}

func TestChunkIndexIncDecViewer(t *testing.T) {
	ci := NewChunkIndex(1, testDimension())
	pos := ChunkPos{0, 0}
	ci.Insert(pos, NewChunk(testDimension()))

	ci.IncViewer(pos, 1)
	ci.IncViewer(pos, 2)
	if got := ci.Get(pos).ViewerCount(); got != 2 {
		t.Fatalf("ViewerCount = %d, want 2", got)
	}

	ci.DecViewer(pos, 1)
	if got := ci.Get(pos).ViewerCount(); got != 1 {
		t.Fatalf("ViewerCount = %d, want 1", got)
	}
}

func TestChunkIndexIncViewerIdempotentPerClient(t *testing.T) {
	ci := NewChunkIndex(1, testDimension())
	pos := ChunkPos{0, 0}
	ci.Insert(pos, NewChunk(testDimension()))

	ci.IncViewer(pos, 1)
	ci.IncViewer(pos, 1)
	if got := ci.Get(pos).ViewerCount(); got != 1 {
		t.Fatalf("ViewerCount = %d, want 1 after redundant IncViewer", got)
	}
}

func TestChunkIndexInsertPreservesViewerCount(t *testing.T) {
	ci := NewChunkIndex(1, testDimension())
	pos := ChunkPos{0, 0}
	ci.Insert(pos, NewChunk(testDimension()))
	ci.IncViewer(pos, 1)

	ci.Insert(pos, NewChunk(testDimension()))
	if got := ci.Get(pos).ViewerCount(); got != 1 {
		t.Fatalf("ViewerCount = %d, want 1 preserved across overwrite", got)
	}
}

// TestChunkIndexConcurrentViewersSharePosition exercises the stage-5 (§2)
// access pattern: many clients reconciling their views concurrently against
// the same loaded chunk. Run with -race.
func TestChunkIndexConcurrentViewersSharePosition(t *testing.T) {
	ci := NewChunkIndex(1, testDimension())
	pos := ChunkPos{3, 3}
	ci.Insert(pos, NewChunk(testDimension()))

	var wg sync.WaitGroup
	for i := ClientID(1); i <= 50; i++ {
		wg.Add(1)
		go func(client ClientID) {
			defer wg.Done()
			ci.IncViewer(pos, client)
			ci.DecViewer(pos, client)
		}(i)
	}
	wg.Wait()

	if got := ci.Get(pos).ViewerCount(); got != 0 {
		t.Fatalf("ViewerCount = %d, want 0 after balanced Inc/Dec", got)
	}
}
