package server

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/nexavoxel/corecraft/server/event"
	"github.com/nexavoxel/corecraft/server/protocol"
	"github.com/nexavoxel/corecraft/server/session"
	"github.com/nexavoxel/corecraft/server/world"
)

// Conn is the non-blocking, per-connection transport a Server drives
// (§5 "interfacing through non-blocking try_recv/try_send"). An embedding
// application supplies the real network implementation; the core only ever
// calls TryRecv/TrySend/Close.
type Conn interface {
	// TryRecv returns any frames that have arrived since the last call
	// without blocking. ok is false once the connection has been closed by
	// its peer.
	TryRecv() (frames []event.InboundFrame, ok bool)
	// TrySend enqueues packet for the connection's outgoing queue. It must
	// not block; if the queue is full the transport decides whether to
	// drop, buffer, or report the connection as failed on a subsequent
	// TryRecv.
	TrySend(packet []byte)
	// Close tears down the connection.
	Close() error
}

// client bundles one connection's transport, decoded per-tick event
// buffers, and PerClientState.
type client struct {
	conn        Conn
	state       *session.State
	buffers     *event.Buffers
	entityLayer *world.EntityLayer
}

// Server owns the process-wide, tick-synchronous simulation core: the
// client registry, the set of layers, and the cross-layer chunk view index
// (§5 "Global mutable state ... Per-tick counters ... live on the Server
// singleton").
type Server struct {
	conf Config

	mu            sync.RWMutex
	clients       map[world.ClientID]*client
	clientsByUUID map[uuid.UUID]world.ClientID
	layers        map[world.LayerHandle]*world.Layer

	viewIndex *world.ChunkViewIndex

	nextClientID atomic.Uint64
	tick         atomic.Uint64

	handler  TickHandler
	allower  Allower

	closing chan struct{}
	closeOnce sync.Once
}

func newServer(conf Config) *Server {
	return &Server{
		conf:          conf,
		clients:       make(map[world.ClientID]*client),
		clientsByUUID: make(map[uuid.UUID]world.ClientID),
		layers:        make(map[world.LayerHandle]*world.Layer),
		viewIndex:     world.NewChunkViewIndex(),
		handler:       nopTickHandler{},
		closing:       make(chan struct{}),
	}
}

// Tick returns the current tick counter.
func (s *Server) Tick() uint64 { return s.tick.Load() }

// SetAllower installs a, consulted by CheckAllow before a connection is
// admitted. Passing nil allows every connection.
func (s *Server) SetAllower(a Allower) {
	s.mu.Lock()
	s.allower = a
	s.mu.Unlock()
}

// CheckAllow reports whether a connection from addr identifying itself as
// name should be admitted, deferring to the configured Allower (if any).
// The caller is expected to run this before Connect, since Connect itself
// assumes admission has already been decided.
func (s *Server) CheckAllow(addr net.Addr, name string) (reason string, ok bool) {
	s.mu.RLock()
	a := s.allower
	s.mu.RUnlock()
	if a == nil {
		return "", true
	}
	return a.Allow(addr, name)
}

// AddLayer registers a layer so clients may reference it in VisibleLayers.
func (s *Server) AddLayer(l *world.Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers[l.Handle] = l
}

// Layer returns a previously registered layer, or nil.
func (s *Server) Layer(handle world.LayerHandle) *world.Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layers[handle]
}

// Connect admits a new connection, allocating a ClientID and entity handle
// in entityLayer, and returns the PerClientState the caller should drive
// join/respawn through (§4.5.1). playerUUID is the client's persistent
// player identity (distinct from the returned, connection-lifetime
// ClientID) and is what ClientByUUID resolves back to this connection.
func (s *Server) Connect(conn Conn, playerUUID uuid.UUID, entityLayer *world.EntityLayer, spawn world.Vec3, look world.Look, protocolID int32) (world.ClientID, *session.State) {
	id := world.ClientID(s.nextClientID.Add(1))
	handle := entityLayer.Spawn(spawn, look, protocolID, id)

	st := session.New(id, playerUUID, handle, s.viewIndex)
	s.mu.Lock()
	s.clients[id] = &client{conn: conn, state: st, buffers: event.NewBuffers(), entityLayer: entityLayer}
	s.clientsByUUID[playerUUID] = id
	s.mu.Unlock()
	return id, st
}

// ClientByUUID resolves a client's persistent player identity back to its
// current connection-lifetime ClientID, mirroring dragonfly's
// uuid.UUID-keyed online-player lookup.
func (s *Server) ClientByUUID(playerUUID uuid.UUID) (world.ClientID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.clientsByUUID[playerUUID]
	return id, ok
}

// Disconnect removes a client from the registry (§5 Cancellation): its
// entity is marked despawned in the entity layer it joined, and every
// chunk position still in its view has its viewer count decremented.
func (s *Server) Disconnect(id world.ClientID, reason string) {
	s.mu.Lock()
	c, ok := s.clients[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.clients, id)
	if s.clientsByUUID[c.state.UUID] == id {
		delete(s.clientsByUUID, c.state.UUID)
	}
	s.mu.Unlock()

	if reason != "" {
		c.conn.TrySend(protocol.EncodeDisconnect(reason))
	}
	_ = c.conn.Close()

	if c.entityLayer != nil {
		c.entityLayer.MarkDespawned(c.state.Entity)
	}

	if layer := c.state.ChunkLayer; layer != nil && layer.Chunks != nil {
		c.state.View.Each(func(pos world.ChunkPos) {
			layer.Chunks.DecViewer(pos, id)
		})
	}
	s.viewIndex.RemoveClient(id, s.clientViewPositions(c.state))
}

func (s *Server) clientViewPositions(st *session.State) []world.ChunkPos {
	var positions []world.ChunkPos
	st.View.Each(func(pos world.ChunkPos) { positions = append(positions, pos) })
	return positions
}

// Clients returns a snapshot of the currently connected client ids.
func (s *Server) Clients() []world.ClientID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]world.ClientID, 0, len(s.clients))
	for id := range s.clients {
		out = append(out, id)
	}
	return out
}

// Close stops the server, closing every connection.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		close(s.closing)
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, c := range s.clients {
			_ = c.conn.Close()
		}
	})
	return nil
}
