package session

import "github.com/nexavoxel/corecraft/server/protocol"

// RecordActionSequence records an inbound block-action sequence number,
// keeping the maximum seen this tick (§4.5.5: "the client sends a
// monotonically increasing block-change sequence number with every block
// action").
func (s *State) RecordActionSequence(seq int32) {
	if seq > s.action.maxSeq {
		s.action.maxSeq = seq
	}
}

// ReconcileActionSequence writes an acknowledgement for the highest inbound
// sequence number recorded this tick and clears it, guaranteeing predicted
// block changes are confirmed or corrected within one tick (§4.5.5).
func (s *State) ReconcileActionSequence() {
	if s.action.maxSeq == 0 {
		return
	}
	s.write(protocol.EncodePlayerActionResponse(s.action.maxSeq))
	s.action.maxSeq = 0
}
