package session

import (
	"testing"

	"github.com/nexavoxel/corecraft/server/world"
)

func TestReconcileJoinFirstCallEmitsGameJoin(t *testing.T) {
	s := newTestState()
	info := JoinInfo{
		GameMode:           1,
		DimensionNames:     []string{"overworld", "the_nether"},
		RegistryCodec:      []byte{0xAB},
		DimensionType:      "minecraft:overworld",
		DimensionName:      "overworld",
		ViewDistance:       8,
		SimulationDistance: 8,
		TagRegistrySync:    []byte{0x01, 0x02},
	}

	s.ReconcileJoin(info)

	if !s.joined {
		t.Fatal("expected session to be marked joined")
	}
	if s.Dimension != "overworld" {
		t.Fatalf("Dimension = %q, want overworld", s.Dimension)
	}
	if len(s.Outbox) != 2 {
		t.Fatalf("expected GameJoin + tag registry sync queued, got %d packets", len(s.Outbox))
	}
}

func TestReconcileJoinSecondCallNoDimensionChangeIsNoop(t *testing.T) {
	s := newTestState()
	info := JoinInfo{DimensionType: "minecraft:overworld", DimensionName: "overworld"}
	s.ReconcileJoin(info)
	s.Outbox = nil

	s.ReconcileJoin(info)
	if len(s.Outbox) != 0 {
		t.Fatalf("expected no packets when dimension is unchanged, got %d", len(s.Outbox))
	}
}

func TestReconcileJoinDimensionChangeEmitsRespawn(t *testing.T) {
	s := newTestState()
	first := JoinInfo{DimensionType: "minecraft:overworld", DimensionName: "overworld"}
	s.ReconcileJoin(first)
	s.Outbox = nil

	death := world.BlockPos{X: 1, Y: 64, Z: -2}
	second := JoinInfo{
		DimensionType:      "minecraft:the_nether",
		DimensionName:      "the_nether",
		LastDeathDimension: "overworld",
		LastDeathPosition:  &death,
		PortalCooldown:     10,
	}
	s.ReconcileJoin(second)

	if s.Dimension != "the_nether" {
		t.Fatalf("Dimension = %q, want the_nether", s.Dimension)
	}
	if len(s.Outbox) != 1 {
		t.Fatalf("expected exactly 1 respawn packet queued, got %d", len(s.Outbox))
	}
}

func TestReconcileJoinCallsHandlerOnFirstJoinOnly(t *testing.T) {
	s := newTestState()
	calls := 0
	s.Handle(joinCounterHandler{onJoin: func() { calls++ }})

	info := JoinInfo{DimensionType: "minecraft:overworld", DimensionName: "overworld"}
	s.ReconcileJoin(info)
	s.ReconcileJoin(info)

	if calls != 1 {
		t.Fatalf("expected HandleJoin called exactly once, got %d", calls)
	}
}

type joinCounterHandler struct {
	onJoin func()
}

func (h joinCounterHandler) HandleJoin(*State)          { h.onJoin() }
func (h joinCounterHandler) HandleQuit(*State, string) {}
