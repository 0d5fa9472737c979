package world

import "testing"

func TestEntityLayerSpawnAndLookup(t *testing.T) {
	l := NewEntityLayer(1)
	pos := Vec3{1, 2, 3}
	handle := l.Spawn(pos, Look{}, 10, 0)

	e := l.Entity(handle)
	if e == nil {
		t.Fatal("expected to find the spawned entity")
	}
	if e.Position != pos {
		t.Fatalf("Position = %v, want %v", e.Position, pos)
	}
	if e.Position != e.OldPosition {
		t.Fatal("expected OldPosition to equal Position right after spawn")
	}
	if l.Messages.Len() != 1 {
		t.Fatalf("expected 1 spawn message, got %d", l.Messages.Len())
	}
}

func TestEntityLayerCellMembership(t *testing.T) {
	l := NewEntityLayer(1)
	handle := l.Spawn(Vec3{0, 0, 0}, Look{}, 10, 0)

	cell := chunkPosFromVec3(Vec3{0, 0, 0})
	members := l.CellEntities(cell)
	if len(members) != 1 || members[0] != handle {
		t.Fatalf("expected the spawned entity in cell %v, got %v", cell, members)
	}
}

func TestEntityLayerMoveAcrossCells(t *testing.T) {
	l := NewEntityLayer(1)
	handle := l.Spawn(Vec3{0, 0, 0}, Look{}, 10, 0)
	l.Messages.Reset()

	oldCell := chunkPosFromVec3(Vec3{0, 0, 0})
	newPos := Vec3{20, 0, 0}
	newCell := chunkPosFromVec3(newPos)
	if oldCell == newCell {
		t.Fatal("test fixture error: expected positions in different cells")
	}

	l.Move(handle, newPos)

	if members := l.CellEntities(oldCell); len(members) != 0 {
		t.Fatalf("expected old cell to be empty after move, got %v", members)
	}
	if members := l.CellEntities(newCell); len(members) != 1 || members[0] != handle {
		t.Fatalf("expected entity in new cell, got %v", members)
	}
	if l.Messages.Len() != 1 {
		t.Fatalf("expected 1 move message, got %d", l.Messages.Len())
	}
}

func TestEntityLayerMoveWithinSameCellNoMessage(t *testing.T) {
	l := NewEntityLayer(1)
	handle := l.Spawn(Vec3{0, 0, 0}, Look{}, 10, 0)
	l.Messages.Reset()

	l.Move(handle, Vec3{1, 0, 1})
	if l.Messages.Len() != 0 {
		t.Fatalf("expected no move message within the same cell, got %d", l.Messages.Len())
	}
}

func TestEntityLayerDespawnAndReap(t *testing.T) {
	l := NewEntityLayer(1)
	handle := l.Spawn(Vec3{0, 0, 0}, Look{}, 10, 0)
	l.Messages.Reset()

	l.MarkDespawned(handle)
	if l.Messages.Len() != 1 {
		t.Fatalf("expected 1 despawn message, got %d", l.Messages.Len())
	}
	if e := l.Entity(handle); e == nil || !e.Despawned {
		t.Fatal("expected entity to still be resolvable and marked despawned before Reap")
	}

	l.Reap()
	if e := l.Entity(handle); e != nil {
		t.Fatal("expected entity to no longer resolve after Reap")
	}
	cell := chunkPosFromVec3(Vec3{0, 0, 0})
	if members := l.CellEntities(cell); len(members) != 0 {
		t.Fatalf("expected cell to be empty after Reap, got %v", members)
	}
}

func TestEntityLayerReapRecyclesSlotWithNewGeneration(t *testing.T) {
	l := NewEntityLayer(1)
	first := l.Spawn(Vec3{0, 0, 0}, Look{}, 10, 0)
	l.MarkDespawned(first)
	l.Reap()

	second := l.Spawn(Vec3{5, 5, 5}, Look{}, 11, 0)
	if first == second {
		t.Fatal("expected a recycled slot to produce a different handle (generation bump)")
	}
	if l.Entity(first) != nil {
		t.Fatal("expected the stale handle to never resolve to the new entity")
	}
	if l.Entity(second) == nil {
		t.Fatal("expected the new handle to resolve")
	}
}

func TestEntityLayerMarkDespawnedIdempotent(t *testing.T) {
	l := NewEntityLayer(1)
	handle := l.Spawn(Vec3{0, 0, 0}, Look{}, 10, 0)
	l.Messages.Reset()

	l.MarkDespawned(handle)
	l.MarkDespawned(handle)
	if l.Messages.Len() != 1 {
		t.Fatalf("expected exactly 1 despawn message across two calls, got %d", l.Messages.Len())
	}
}
