package server

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nexavoxel/corecraft/server/event"
	"github.com/nexavoxel/corecraft/server/protocol"
	"github.com/nexavoxel/corecraft/server/world"
)

// TickHandler is supplied by the embedding application and invoked once per
// tick, after inbound packets have been decoded into per-client event
// buffers but before layer aggregation, view reconciliation, or broadcast
// (§2 stage 3 "User update ... application-supplied logic reacts to
// events, mutating world and client state"). events is keyed by client id;
// a client with no inbound traffic this tick still gets an (empty) entry.
type TickHandler interface {
	Update(tick uint64, events map[world.ClientID]*event.Buffers)
}

// nopTickHandler is installed when no application handler is set, so the
// core still runs its own stages (view/teleport/keepalive/inventory
// reconciliation) even with nothing listening for gameplay events.
type nopTickHandler struct{}

func (nopTickHandler) Update(uint64, map[world.ClientID]*event.Buffers) {}

// SetTickHandler installs h as the application's per-tick hook. Passing nil
// reverts to a handler that does nothing.
func (s *Server) SetTickHandler(h TickHandler) {
	if h == nil {
		h = nopTickHandler{}
	}
	s.mu.Lock()
	s.handler = h
	s.mu.Unlock()
}

// RunTick executes the eight ordered stages of §2 once, advancing the tick
// counter at the end. The caller is responsible for pacing calls at
// Config.TickPeriod(); RunTick itself never sleeps.
func (s *Server) RunTick() error {
	s.mu.RLock()
	handler := s.handler
	clients := make(map[world.ClientID]*client, len(s.clients))
	for id, c := range s.clients {
		clients[id] = c
	}
	layers := make([]*world.Layer, 0, len(s.layers))
	for _, l := range s.layers {
		layers = append(layers, l)
	}
	s.mu.RUnlock()

	now := time.Now()

	// Stage 1: ingress drain. Dead or misbehaving connections are collected
	// with a disconnect reason and dropped after the loop so the registry
	// snapshot above stays stable for the remaining stages.
	dead := make(map[world.ClientID]string)
	for id, c := range clients {
		frames, ok := c.conn.TryRecv()
		if !ok {
			dead[id] = ""
			continue
		}
		if err := event.Drain(c.buffers, id, frames, pendingTeleportAdapter{clients}); err != nil {
			s.logApplicationMisuse("decode inbound frame", err)
			dead[id] = err.Error()
		}
	}

	// Stage 2: event dispatch. Protocol-mechanical acknowledgements
	// (teleport confirmation, keepalive ack, action sequence numbers) are
	// core bookkeeping, not gameplay, so they're applied here rather than
	// left for the application's Update.
	for id, c := range clients {
		if _, ok := dead[id]; ok {
			continue
		}
		if err := s.applyProtocolAcks(c); err != nil {
			s.logApplicationMisuse("protocol acknowledgement", err)
			dead[id] = err.Error()
		}
	}

	// Stage 3: user update.
	buffers := make(map[world.ClientID]*event.Buffers, len(clients))
	for id, c := range clients {
		buffers[id] = c.buffers
	}
	handler.Update(s.Tick(), buffers)
	for _, c := range clients {
		c.buffers.Reset()
	}

	// Stage 4: layer message aggregation, parallel across independent
	// layers (§5 "Concurrency ... Stage 4 ... data-parallel over
	// independent layers").
	var g4 errgroup.Group
	for _, l := range layers {
		l := l
		g4.Go(func() error {
			if l.Entities != nil {
				l.Entities.TrackDirty()
			}
			return nil
		})
	}
	_ = g4.Wait()

	// Stage 5: per-client view update, parallel across independent
	// clients (§5 "Stage 5 ... data-parallel over clients"). Timeouts
	// discovered here are collected under deadMu rather than written
	// straight to dead, since every goroutine below runs concurrently.
	var g5 errgroup.Group
	var deadMu sync.Mutex
	timedOut := make(map[world.ClientID]struct{})
	for id, c := range clients {
		if _, ok := dead[id]; ok {
			continue
		}
		id, c := id, c
		g5.Go(func() error {
			if s.reconcileClient(id, c, now) {
				deadMu.Lock()
				timedOut[id] = struct{}{}
				deadMu.Unlock()
			}
			return nil
		})
	}
	_ = g5.Wait()

	// Stage 6: broadcast, parallel across independent clients (§5 "Stage
	// 6 ... data-parallel over clients"; each client only reads shared
	// layer message logs, never mutates them).
	var g6 errgroup.Group
	for id, c := range clients {
		if _, ok := dead[id]; ok {
			continue
		}
		id, c := id, c
		g6.Go(func() error {
			s.broadcastToClient(id, c)
			return nil
		})
	}
	_ = g6.Wait()

	// Stage 7: egress flush.
	for id, c := range clients {
		if _, ok := dead[id]; ok {
			continue
		}
		for _, packet := range c.state.DrainOutbox() {
			c.conn.TrySend(packet)
		}
	}

	// Stage 8: tick bookkeeping.
	for _, l := range layers {
		l.ClearDirty()
		if l.Chunks != nil {
			l.Chunks.Messages.Reset()
		}
		if l.Entities != nil {
			l.Entities.Messages.Reset()
		}
	}
	s.tick.Add(1)

	for id := range timedOut {
		dead[id] = "timed out"
	}
	for id, reason := range dead {
		s.Disconnect(id, reason)
	}
	return nil
}

// pendingTeleportAdapter implements event.PendingTeleportChecker over a
// tick-local snapshot of the client registry.
type pendingTeleportAdapter struct {
	clients map[world.ClientID]*client
}

func (p pendingTeleportAdapter) PendingTeleports(id world.ClientID) bool {
	c, ok := p.clients[id]
	if !ok {
		return false
	}
	return c.state.PendingTeleports()
}

// applyProtocolAcks consumes KindConfirmTeleport, KindKeepAlive, and
// KindAction events from c's buffer and applies them to its session state,
// leaving every other kind untouched for the application's Update. It also
// runs ValidateWindowClick on every KindClick event and returns its error
// for an impossible window id; a stale state id is not acted on.
func (s *Server) applyProtocolAcks(c *client) error {
	for _, ev := range c.buffers.Of(event.KindConfirmTeleport) {
		data := ev.Data.(event.ConfirmTeleport)
		if err := c.state.ConfirmTeleport(data.TeleportID); err != nil {
			return err
		}
	}
	for _, ev := range c.buffers.Of(event.KindKeepAlive) {
		data := ev.Data.(event.KeepAliveAck)
		if err := c.state.AckKeepalive(data.ID); err != nil {
			return err
		}
	}
	for _, ev := range c.buffers.Of(event.KindAction) {
		data := ev.Data.(event.Action)
		c.state.RecordActionSequence(data.Sequence)
	}
	for _, ev := range c.buffers.Of(event.KindClick) {
		data := ev.Data.(event.Click)
		if _, err := c.state.ValidateWindowClick(data.WindowID, data.StateID); err != nil {
			return err
		}
	}
	return nil
}

// reconcileClient runs the core-owned half of stage 5 for one client: view
// reconciliation, teleport sync against its current entity position,
// keepalive, action-sequence acknowledgement, and inventory flush. It
// reports whether the client's keepalive timed out this tick, in which case
// the caller still lets stage 6/7 flush whatever made it into the outbox
// before disconnecting the client between ticks.
func (s *Server) reconcileClient(id world.ClientID, c *client, now time.Time) bool {
	c.state.ReconcileView()

	if c.entityLayer != nil {
		if e := c.entityLayer.Entity(c.state.Entity); e != nil {
			c.state.ReconcileTeleport(e.Position, e.Look)
		}
	}

	timedOut := c.state.ReconcileKeepalive(now)
	if timedOut {
		s.logApplicationMisuse("keepalive timeout", &ProtocolViolation{Reason: "keepalive timed out"})
	}

	c.state.ReconcileActionSequence()
	c.state.ReconcileInventory()
	c.state.ReconcileAbilities()
	return timedOut
}

// broadcastToClient implements stage 6 for one client: every layer it has
// in ChunkLayer/VisibleLayers flushes its message log, filtered by scope,
// into the client's outbox.
func (s *Server) broadcastToClient(id world.ClientID, c *client) {
	seen := make(map[world.LayerHandle]struct{})
	deliver := func(l *world.Layer) {
		if l == nil {
			return
		}
		if _, already := seen[l.Handle]; already {
			return
		}
		seen[l.Handle] = struct{}{}

		viewing := func(world.ClientID) bool { return true }
		viewsChunk := func(client world.ClientID, pos world.ChunkPos) bool {
			return s.viewIndex.Contains(client, pos)
		}
		if l.Chunks != nil {
			l.Chunks.Messages.Deliver(id, viewing, viewsChunk, func(packet []byte) {
				c.state.QueuePacket(packet)
			}, func(int32) {})
		}
		if l.Entities != nil {
			despawned := make(map[int32]struct{})
			l.Entities.Messages.Deliver(id, viewing, viewsChunk, func(packet []byte) {
				c.state.QueuePacket(packet)
			}, func(protocolID int32) {
				// Each distinct id gets its own EntitiesDestroy packet;
				// ids are not merged into one packet.
				if _, dup := despawned[protocolID]; dup {
					return
				}
				despawned[protocolID] = struct{}{}
				c.state.QueuePacket(protocol.EncodeEntityDespawn(protocolID))
			})
		}
	}

	deliver(c.state.ChunkLayer)
	for _, l := range c.state.VisibleLayers {
		deliver(l)
	}
}
