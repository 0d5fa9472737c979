package world

import "bytes"

// ClientID identifies a connected client. It is process-local and stable
// for the lifetime of the connection.
type ClientID uint64

// scopeKind tags which dispatch rule a Scope uses (§4.4).
type scopeKind uint8

const (
	scopeAll scopeKind = iota
	scopeOnly
	scopeExcept
	scopeChunkView
	scopeChunkViewExcept
	scopeTransitionChunkView
)

// Scope describes which clients viewing a layer should receive a given
// message, per the dispatch table in §4.4.
type Scope struct {
	kind            scopeKind
	client, except  ClientID
	pos             ChunkPos
	include, exclude ChunkPos
}

// ScopeAll dispatches to every client viewing the layer.
func ScopeAll() Scope { return Scope{kind: scopeAll} }

// ScopeOnly dispatches only to the given client, if it is viewing.
func ScopeOnly(client ClientID) Scope { return Scope{kind: scopeOnly, client: client} }

// ScopeExcept dispatches to every viewing client except the one given.
func ScopeExcept(client ClientID) Scope { return Scope{kind: scopeExcept, except: client} }

// ScopeChunkView dispatches to clients whose current view includes pos.
func ScopeChunkView(pos ChunkPos) Scope { return Scope{kind: scopeChunkView, pos: pos} }

// ScopeChunkViewExcept dispatches like ScopeChunkView, minus one client.
func ScopeChunkViewExcept(pos ChunkPos, except ClientID) Scope {
	return Scope{kind: scopeChunkViewExcept, pos: pos, except: except}
}

// ScopeTransitionChunkView dispatches to clients for whom
// pos∈include ∧ pos∉exclude under their current view. Used for cross-chunk
// entity movement so observers on one side of the boundary don't receive a
// redundant spawn packet (§4.4).
func ScopeTransitionChunkView(include, exclude ChunkPos) Scope {
	return Scope{kind: scopeTransitionChunkView, include: include, exclude: exclude}
}

// messageKind is either a Packet{len} (consume len bytes from the layer's
// byte buffer) or an EntityDespawn{protocolID} (handed to Deliver's despawn
// callback, see §4.4).
type messageKind struct {
	isDespawn  bool
	packetLen  int
	protocolID int32
}

func packetKind(length int) messageKind { return messageKind{packetLen: length} }

func despawnKind(protocolID int32) messageKind {
	return messageKind{isDespawn: true, protocolID: protocolID}
}

// message is a single recorded mutation: a dispatch scope paired with a
// message kind, in the order LayerMessages.Write* was called.
type message struct {
	scope Scope
	kind  messageKind
}

// LayerMessages is a layer's per-tick outbound mutation log (§4.4): a byte
// buffer of packet data plus an ordered sequence of (scope, kind) records
// interpreted at broadcast time (stage 6).
type LayerMessages struct {
	buf      bytes.Buffer
	messages []message
}

// WritePacket appends packet to the byte buffer and records a Packet
// message with the given scope, in insertion order.
func (m *LayerMessages) WritePacket(scope Scope, packet []byte) {
	m.buf.Write(packet)
	m.messages = append(m.messages, message{scope: scope, kind: packetKind(len(packet))})
}

// WriteDespawn records an EntityDespawn message for protocolID with the
// given scope. Despawns carry no byte-buffer payload; Deliver hands each
// matching one to its despawn callback, which does the encoding.
func (m *LayerMessages) WriteDespawn(scope Scope, protocolID int32) {
	m.messages = append(m.messages, message{scope: scope, kind: despawnKind(protocolID)})
}

// Len returns the number of recorded messages.
func (m *LayerMessages) Len() int { return len(m.messages) }

// Reset clears the buffer and message log. Called at the end of every tick
// (§5 "The per-tick message byte buffer of a layer is cleared at the end of
// every tick").
func (m *LayerMessages) Reset() {
	m.buf.Reset()
	m.messages = m.messages[:0]
}

// Deliver replays the message log in insertion order for every message
// whose scope matches against the membership test functions given: packet
// receives the raw packet bytes of a Packet message, and despawn receives
// the protocol id of an EntityDespawn message (§4.4).
//
// viewing reports whether client is currently viewing the layer at all;
// viewsChunk reports whether client's current ChunkView contains pos.
func (m *LayerMessages) Deliver(client ClientID, viewing func(ClientID) bool, viewsChunk func(ClientID, ChunkPos) bool, packet func([]byte), despawn func(int32)) {
	offset := 0
	data := m.buf.Bytes()
	for _, msg := range m.messages {
		if msg.kind.isDespawn {
			if scopeMatches(msg.scope, client, viewing, viewsChunk) {
				despawn(msg.kind.protocolID)
			}
			continue
		}
		payload := data[offset : offset+msg.kind.packetLen]
		offset += msg.kind.packetLen
		if scopeMatches(msg.scope, client, viewing, viewsChunk) {
			packet(payload)
		}
	}
}

func scopeMatches(s Scope, client ClientID, viewing func(ClientID) bool, viewsChunk func(ClientID, ChunkPos) bool) bool {
	switch s.kind {
	case scopeAll:
		return viewing(client)
	case scopeOnly:
		return s.client == client && viewing(client)
	case scopeExcept:
		return s.except != client && viewing(client)
	case scopeChunkView:
		return viewsChunk(client, s.pos)
	case scopeChunkViewExcept:
		return s.except != client && viewsChunk(client, s.pos)
	case scopeTransitionChunkView:
		return viewsChunk(client, s.include) && !viewsChunk(client, s.exclude)
	}
	return false
}
