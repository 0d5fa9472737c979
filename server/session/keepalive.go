package session

import (
	"encoding/binary"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/nexavoxel/corecraft/server/protocol"
)

// keepaliveState is the §4.5.4 keepalive bookkeeping.
type keepaliveState struct {
	period   time.Duration
	lastSend time.Time
	id       int64
	awaiting bool
	counter  uint64
}

// InitKeepalive sets the configured keepalive period (default 8s per §6
// configuration).
func (s *State) InitKeepalive(period time.Duration) {
	s.keepalive.period = period
}

// ReconcileKeepalive implements §4.5.4: when now-lastSend ≥ period, sends a
// fresh keepalive if the previous one was acknowledged, or reports a
// timeout (the caller drops the client's Client component) otherwise.
func (s *State) ReconcileKeepalive(now time.Time) (timedOut bool) {
	if s.keepalive.period <= 0 {
		return false
	}
	if now.Sub(s.keepalive.lastSend) < s.keepalive.period {
		return false
	}
	if s.keepalive.awaiting {
		return true
	}
	s.keepalive.counter++
	s.keepalive.id = nextKeepaliveID(s.keepalive.counter, uint64(s.Client))
	s.keepalive.lastSend = now
	s.keepalive.awaiting = true
	s.write(protocol.EncodeKeepAlive(s.keepalive.id))
	return false
}

// AckKeepalive processes an inbound KeepAlive packet. It must carry the
// last-sent id and be expected; an unexpected keepalive (none outstanding,
// or a mismatched id) is a protocol violation (§4.5.4, §7).
func (s *State) AckKeepalive(id int64) error {
	if !s.keepalive.awaiting {
		return &DisconnectError{Reason: "unexpected keepalive"}
	}
	if id != s.keepalive.id {
		return &DisconnectError{Reason: "keepalive id mismatch"}
	}
	s.keepalive.awaiting = false
	return nil
}

// nextKeepaliveID derives a keepalive id deterministically from a per-client
// monotonic counter and the client id itself, via xxhash rather than a
// package-level math/rand source shared (and mutex-guarded) across every
// connected client.
func nextKeepaliveID(counter, client uint64) int64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], counter)
	binary.LittleEndian.PutUint64(buf[8:], client)
	return int64(xxhash.Sum64(buf[:]))
}
