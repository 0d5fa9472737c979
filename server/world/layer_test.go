package world

import "testing"

func TestLayerSetRainClampsAndQueuesBroadcast(t *testing.T) {
	SetWeatherEncoder(func(rain, thunder float64) []byte { return []byte{byte(rain * 10), byte(thunder * 10)} })
	defer SetWeatherEncoder(nil)

	l := NewLayer(1, RoleChunks, testDimension())

	l.SetRain(1.5)
	if l.Weather.Rain != 1 {
		t.Fatalf("Rain = %v, want clamped to 1", l.Weather.Rain)
	}
	if l.Chunks.Messages.Len() != 1 {
		t.Fatalf("expected 1 queued weather message, got %d", l.Chunks.Messages.Len())
	}
}

func TestLayerSetThunderClampsNegative(t *testing.T) {
	l := NewLayer(1, RoleChunks, testDimension())
	l.SetThunder(-5)
	if l.Weather.Thunder != 0 {
		t.Fatalf("Thunder = %v, want clamped to 0", l.Weather.Thunder)
	}
}

func TestLayerSetRainNoopWhenUnchangedQueuesNoMessage(t *testing.T) {
	l := NewLayer(1, RoleChunks, testDimension())
	l.SetRain(0)
	if l.Chunks.Messages.Len() != 0 {
		t.Fatalf("expected no message for a no-op rain level, got %d", l.Chunks.Messages.Len())
	}
}

func TestLayerSetRainWithoutChunksRoleIsSafe(t *testing.T) {
	l := NewLayer(1, RoleEntities, testDimension())
	l.SetRain(0.5)
	if l.Weather.Rain != 0.5 {
		t.Fatalf("Rain = %v, want 0.5", l.Weather.Rain)
	}
}
