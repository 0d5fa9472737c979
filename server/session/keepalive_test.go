package session

import (
	"testing"
	"time"
)

func TestReconcileKeepaliveSendsAfterPeriod(t *testing.T) {
	s := newTestState()
	s.InitKeepalive(8 * time.Second)

	base := time.Now()
	if timedOut := s.ReconcileKeepalive(base); timedOut {
		t.Fatal("did not expect a timeout on the very first reconciliation")
	}
	if len(s.Outbox) != 1 {
		t.Fatalf("expected a keepalive packet to be queued, got %d", len(s.Outbox))
	}
	if !s.keepalive.awaiting {
		t.Fatal("expected keepalive.awaiting to be true after sending")
	}
}

func TestReconcileKeepaliveNoOpBeforePeriodElapses(t *testing.T) {
	s := newTestState()
	s.InitKeepalive(8 * time.Second)

	base := time.Now()
	s.ReconcileKeepalive(base)
	_ = s.DrainOutbox()

	if timedOut := s.ReconcileKeepalive(base.Add(time.Second)); timedOut {
		t.Fatal("did not expect a timeout before the keepalive period elapses")
	}
	if len(s.Outbox) != 0 {
		t.Fatalf("expected no new packet before the period elapses, got %d", len(s.Outbox))
	}
}

func TestReconcileKeepaliveTimesOutWithoutAck(t *testing.T) {
	s := newTestState()
	s.InitKeepalive(8 * time.Second)

	base := time.Now()
	s.ReconcileKeepalive(base)

	if timedOut := s.ReconcileKeepalive(base.Add(16 * time.Second)); !timedOut {
		t.Fatal("expected a timeout when no ack arrives before the next period elapses")
	}
}

func TestAckKeepaliveMatchingID(t *testing.T) {
	s := newTestState()
	s.InitKeepalive(8 * time.Second)
	s.ReconcileKeepalive(time.Now())

	if err := s.AckKeepalive(s.keepalive.id); err != nil {
		t.Fatalf("expected matching ack to succeed, got %v", err)
	}
	if s.keepalive.awaiting {
		t.Fatal("expected keepalive.awaiting to clear after a valid ack")
	}
}

func TestAckKeepaliveMismatchedID(t *testing.T) {
	s := newTestState()
	s.InitKeepalive(8 * time.Second)
	s.ReconcileKeepalive(time.Now())

	if err := s.AckKeepalive(s.keepalive.id + 1); err == nil {
		t.Fatal("expected a mismatched keepalive id to return an error")
	}
}

func TestAckKeepaliveUnexpected(t *testing.T) {
	s := newTestState()
	s.InitKeepalive(8 * time.Second)

	if err := s.AckKeepalive(42); err == nil {
		t.Fatal("expected an ack with none outstanding to return an error")
	}
}

func TestReconcileKeepaliveDisabledWhenPeriodZero(t *testing.T) {
	s := newTestState()
	if timedOut := s.ReconcileKeepalive(time.Now()); timedOut {
		t.Fatal("expected no timeout when no keepalive period has been configured")
	}
	if len(s.Outbox) != 0 {
		t.Fatalf("expected no keepalive packet queued with a zero period, got %d", len(s.Outbox))
	}
}
