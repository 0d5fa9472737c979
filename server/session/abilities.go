package session

import "github.com/nexavoxel/corecraft/server/protocol"

// ReconcileAbilities implements the supplemented Abilities/op-level path
// (SPEC_FULL.md §4): sends an abilities packet on join and whenever
// SetAbilities/SetOpLevel changed something since the last call.
func (s *State) ReconcileAbilities() {
	if !s.abilitiesDirty {
		return
	}
	s.abilitiesDirty = false
	a := s.abilities
	s.write(protocol.EncodePlayerAbilities(a.Invulnerable, a.Flying, a.AllowFlying, a.Instabreak, a.FlySpeed, a.WalkSpeed, a.OpLevel))
}
