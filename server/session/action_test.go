package session

import "testing"

func TestReconcileActionSequenceAcksHighestSeen(t *testing.T) {
	s := newTestState()
	s.RecordActionSequence(3)
	s.RecordActionSequence(7)
	s.RecordActionSequence(5)

	s.ReconcileActionSequence()

	if len(s.Outbox) != 1 {
		t.Fatalf("expected exactly one acknowledgement packet, got %d", len(s.Outbox))
	}
	if s.action.maxSeq != 0 {
		t.Fatalf("expected maxSeq to reset to 0 after reconciliation, got %d", s.action.maxSeq)
	}
}

func TestReconcileActionSequenceNoOpWithoutActions(t *testing.T) {
	s := newTestState()
	s.ReconcileActionSequence()
	if len(s.Outbox) != 0 {
		t.Fatalf("expected no packet when no action was recorded, got %d", len(s.Outbox))
	}
}
