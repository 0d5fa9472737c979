package world

import "testing"

func TestNewChunkViewClampsRadius(t *testing.T) {
	tests := []struct {
		name   string
		radius int
		want   int
	}{
		{"below minimum", 0, MinViewDistance},
		{"at minimum", MinViewDistance, MinViewDistance},
		{"in range", 10, 10},
		{"at maximum", MaxViewDistance, MaxViewDistance},
		{"above maximum", 1000, MaxViewDistance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewChunkView(ChunkPos{0, 0}, tt.radius)
			if v.Radius != tt.want {
				t.Fatalf("radius = %d, want %d", v.Radius, tt.want)
			}
		})
	}
}

func TestChunkViewContainsChebyshevDistance(t *testing.T) {
	v := NewChunkView(ChunkPos{0, 0}, 2)

	inside := []ChunkPos{{0, 0}, {2, 0}, {0, -2}, {2, 2}, {-2, -2}}
	for _, p := range inside {
		if !v.Contains(p) {
			t.Errorf("expected %v to be inside view of radius 2", p)
		}
	}

	outside := []ChunkPos{{3, 0}, {0, 3}, {3, 3}, {-3, 0}}
	for _, p := range outside {
		if v.Contains(p) {
			t.Errorf("expected %v to be outside view of radius 2", p)
		}
	}
}

func TestChunkViewEachCount(t *testing.T) {
	v := NewChunkView(ChunkPos{5, 5}, 3)
	var count int
	v.Each(func(ChunkPos) { count++ })
	want := (2*3 + 1) * (2*3 + 1)
	if count != want {
		t.Fatalf("Each visited %d positions, want %d", count, want)
	}
}

func TestChunkViewDiffSymmetricDifference(t *testing.T) {
	old := NewChunkView(ChunkPos{0, 0}, 2)
	next := NewChunkView(ChunkPos{1, 0}, 2)

	toLoad, toUnload := old.Diff(next)

	for _, p := range toLoad {
		if old.Contains(p) {
			t.Errorf("toLoad contains %v which was already in old view", p)
		}
		if !next.Contains(p) {
			t.Errorf("toLoad contains %v which isn't in next view", p)
		}
	}
	for _, p := range toUnload {
		if next.Contains(p) {
			t.Errorf("toUnload contains %v which is still in next view", p)
		}
		if !old.Contains(p) {
			t.Errorf("toUnload contains %v which wasn't in old view", p)
		}
	}
	if len(toLoad) == 0 || len(toUnload) == 0 {
		t.Fatal("expected a shifted view to produce both loads and unloads")
	}
}

func TestChunkViewDiffIdenticalViewsAreEmpty(t *testing.T) {
	v := NewChunkView(ChunkPos{4, -4}, 5)
	toLoad, toUnload := v.Diff(v)
	if len(toLoad) != 0 || len(toUnload) != 0 {
		t.Fatalf("expected no diff between identical views, got toLoad=%d toUnload=%d", len(toLoad), len(toUnload))
	}
}
