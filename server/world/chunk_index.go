package world

import "sync"

// ChunkIndex owns chunk storage for one dimension layer (§4.1).
type ChunkIndex struct {
	Handle LayerHandle
	Dim    DimensionInfo

	chunks map[ChunkPos]*Chunk

	// viewerMu guards IncViewer/DecViewer (and the viewer-count handoff in
	// Insert): stage 5 (§2) reconciles every client's view concurrently, and
	// two clients sharing a chunk layer can touch the same Chunk's loaders
	// set and viewerCount in the same tick.
	viewerMu sync.Mutex

	Messages LayerMessages
}

// NewChunkIndex creates an empty ChunkIndex for the given dimension.
func NewChunkIndex(handle LayerHandle, dim DimensionInfo) *ChunkIndex {
	return &ChunkIndex{Handle: handle, Dim: dim, chunks: make(map[ChunkPos]*Chunk)}
}

// Get returns the chunk at pos, or nil if none is loaded.
func (ci *ChunkIndex) Get(pos ChunkPos) *Chunk {
	return ci.chunks[pos]
}

// Insert attaches a chunk at pos, returning the chunk previously there, if
// any. A ChunkLoad message is emitted if no previous chunk existed; a
// ChunkOverwrite message is emitted otherwise (§4.1).
func (ci *ChunkIndex) Insert(pos ChunkPos, c *Chunk) (old *Chunk) {
	old = ci.chunks[pos]
	ci.viewerMu.Lock()
	if old != nil {
		// Preserve viewer count across the replacement (§4.1 edge case).
		c.viewerCount = old.viewerCount
		c.loaders = old.loaders
	} else {
		c.loaders = make(map[ClientID]struct{})
	}
	ci.viewerMu.Unlock()
	ci.chunks[pos] = c

	if old == nil {
		ci.Messages.WritePacket(ScopeChunkView(pos), encodeChunkLoad(ci, pos, c))
	} else {
		ci.Messages.WritePacket(ScopeChunkView(pos), encodeChunkOverwrite(ci, pos, c))
	}
	return old
}

// Remove detaches the chunk at pos, if any, emitting a ChunkUnload message.
func (ci *ChunkIndex) Remove(pos ChunkPos) (removed *Chunk) {
	c, ok := ci.chunks[pos]
	if !ok {
		return nil
	}
	delete(ci.chunks, pos)
	ci.Messages.WritePacket(ScopeChunkView(pos), encodeChunkUnload(pos))
	return c
}

// SetBlock writes a BlockState to the chunk containing pos, returning the
// previous BlockState. Writes outside [MinY, MinY+SectionCount*16) are a
// no-op returning AirState (§4.1 edge case).
func (ci *ChunkIndex) SetBlock(pos BlockPos, b BlockState) BlockState {
	if !ci.Dim.InRange(pos.Y) {
		return AirState
	}
	c := ci.chunks[pos.ChunkPos()]
	if c == nil {
		return AirState
	}
	old := c.Block(pos, 0)
	c.SetBlock(pos, 0, b)
	ci.Messages.WritePacket(ScopeChunkView(pos.ChunkPos()), encodeBlockUpdate(pos, b))
	return old
}

// WriteInitPacket returns the packet sent when a client first loads the
// chunk at pos (§4.1), or nil if no chunk is loaded there. The installed
// encoder writes the chunk position and the number of block entities only;
// block data, lighting and block-entity contents are not included.
func (ci *ChunkIndex) WriteInitPacket(pos ChunkPos) []byte {
	c := ci.chunks[pos]
	if c == nil {
		return nil
	}
	return encodeChunkInit(ci, pos, c)
}

// IncViewer increments the viewer count of the chunk at pos, if loaded.
func (ci *ChunkIndex) IncViewer(pos ChunkPos, client ClientID) {
	c := ci.chunks[pos]
	if c == nil {
		return
	}
	ci.viewerMu.Lock()
	defer ci.viewerMu.Unlock()
	if _, already := c.loaders[client]; already {
		return
	}
	c.loaders[client] = struct{}{}
	c.viewerCount++
}

// DecViewer decrements the viewer count of the chunk at pos, if loaded.
func (ci *ChunkIndex) DecViewer(pos ChunkPos, client ClientID) {
	c := ci.chunks[pos]
	if c == nil {
		return
	}
	ci.viewerMu.Lock()
	defer ci.viewerMu.Unlock()
	if _, ok := c.loaders[client]; !ok {
		return
	}
	delete(c.loaders, client)
	c.viewerCount--
}

// Len returns the number of chunks currently loaded.
func (ci *ChunkIndex) Len() int { return len(ci.chunks) }

// ClearDirty resets the dirty set of every loaded chunk. Called during tick
// bookkeeping (stage 8).
func (ci *ChunkIndex) ClearDirty() {
	for _, c := range ci.chunks {
		c.ClearDirty()
	}
}

var (
	encodeChunkLoadFunc      func(*ChunkIndex, ChunkPos, *Chunk) []byte
	encodeChunkOverwriteFunc func(*ChunkIndex, ChunkPos, *Chunk) []byte
	encodeChunkUnloadFunc    func(ChunkPos) []byte
	encodeBlockUpdateFunc    func(BlockPos, BlockState) []byte
	encodeChunkInitFunc      func(*ChunkIndex, ChunkPos, *Chunk) []byte
)

func encodeChunkLoad(ci *ChunkIndex, pos ChunkPos, c *Chunk) []byte {
	if encodeChunkLoadFunc == nil {
		return nil
	}
	return encodeChunkLoadFunc(ci, pos, c)
}

func encodeChunkOverwrite(ci *ChunkIndex, pos ChunkPos, c *Chunk) []byte {
	if encodeChunkOverwriteFunc == nil {
		return nil
	}
	return encodeChunkOverwriteFunc(ci, pos, c)
}

func encodeChunkUnload(pos ChunkPos) []byte {
	if encodeChunkUnloadFunc == nil {
		return nil
	}
	return encodeChunkUnloadFunc(pos)
}

func encodeBlockUpdate(pos BlockPos, b BlockState) []byte {
	if encodeBlockUpdateFunc == nil {
		return nil
	}
	return encodeBlockUpdateFunc(pos, b)
}

func encodeChunkInit(ci *ChunkIndex, pos ChunkPos, c *Chunk) []byte {
	if encodeChunkInitFunc == nil {
		return nil
	}
	return encodeChunkInitFunc(ci, pos, c)
}

// SetChunkEncoders installs the protocol package's chunk encode functions.
func SetChunkEncoders(load, overwrite, init func(*ChunkIndex, ChunkPos, *Chunk) []byte, unload func(ChunkPos) []byte, blockUpdate func(BlockPos, BlockState) []byte) {
	encodeChunkLoadFunc = load
	encodeChunkOverwriteFunc = overwrite
	encodeChunkInitFunc = init
	encodeChunkUnloadFunc = unload
	encodeBlockUpdateFunc = blockUpdate
}
