package world

// BlockState is an opaque block-state identifier. The core never interprets
// the value; block/item static tables are an external collaborator (§1).
type BlockState uint32

// AirState is the reserved BlockState representing air, returned for any
// read or write that falls outside a dimension's vertical range.
const AirState BlockState = 0

// BlockEntity is an opaque bag of block-entity data (e.g. a chest's
// inventory, a sign's text), keyed and interpreted entirely by application
// code. The core only stores and relays it.
type BlockEntity map[string]any

// section is one 16x16x16 palette-encoded slice of a Chunk.
type section struct {
	// blocks is a flat XYZ-indexed array, 16*16*16 long, of two layers
	// (main + liquid/waterlogging), exactly as dragonfly's chunk.SubChunk
	// stores layered runtime IDs.
	blocks [2][4096]BlockState
}

func newSection() *section {
	return &section{}
}

func sectionIndex(x, y, z uint8) int {
	return int(x)<<8 | int(z)<<4 | int(y)
}

func (s *section) block(x, y, z, layer uint8) BlockState {
	return s.blocks[layer][sectionIndex(x, y, z)]
}

func (s *section) setBlock(x, y, z, layer uint8, b BlockState) {
	s.blocks[layer][sectionIndex(x, y, z)] = b
}

// empty reports whether every cell in every layer of the section is air,
// used to skip ticking/encoding work, mirroring dragonfly's SubChunk.Empty.
func (s *section) empty() bool {
	for _, layer := range s.blocks {
		for _, b := range layer {
			if b != AirState {
				return false
			}
		}
	}
	return true
}

// Chunk is a column of vertical sections, block entities, and the metadata
// the core needs to maintain viewers and dirty state for it (§3).
type Chunk struct {
	dim      DimensionInfo
	sections []*section
	biomes   []uint32

	// BlockEntities maps in-chunk-relative block positions to their opaque
	// NBT-like data.
	BlockEntities map[BlockPos]BlockEntity

	// dirty tracks (section, index) cells written to this tick.
	dirty *dirtySet

	// viewerCount is the number of clients whose ChunkView contains this
	// chunk's position AND whose visible chunk layer is this chunk's layer
	// (the invariant of §3).
	viewerCount int

	// loaders is the set of clients counted in viewerCount, which keeps
	// IncViewer/DecViewer idempotent per client; Insert carries it over when
	// a chunk is overwritten.
	loaders map[ClientID]struct{}
}

// NewChunk creates an empty, all-air Chunk for the dimension described by
// dim.
func NewChunk(dim DimensionInfo) *Chunk {
	sections := make([]*section, dim.SectionCount)
	for i := range sections {
		sections[i] = newSection()
	}
	return &Chunk{
		dim:           dim,
		sections:      sections,
		biomes:        make([]uint32, dim.SectionCount*64), // 4x4x4 biome cells per section
		BlockEntities: make(map[BlockPos]BlockEntity),
		dirty:         newDirtySet(),
		loaders:       make(map[ClientID]struct{}),
	}
}

// ViewerCount returns the number of clients currently viewing the chunk
// through its owning layer.
func (c *Chunk) ViewerCount() int { return c.viewerCount }

// Block reads the BlockState at the position relative to the chunk's
// dimension. OutOfRange positions return AirState.
func (c *Chunk) Block(pos BlockPos, layer uint8) BlockState {
	if !c.dim.InRange(pos.Y) {
		return AirState
	}
	x, z := pos.relative()
	return c.sections[pos.SectionIndex(c.dim.MinY)].block(x, uint8(pos.Y&15), z, layer)
}

// SetBlock writes a BlockState at the position relative to the chunk's
// dimension, marking the affected cell dirty. Positions outside the
// dimension's vertical range are a no-op.
func (c *Chunk) SetBlock(pos BlockPos, layer uint8, b BlockState) {
	if !c.dim.InRange(pos.Y) {
		return
	}
	si := pos.SectionIndex(c.dim.MinY)
	x, z := pos.relative()
	c.sections[si].setBlock(x, uint8(pos.Y&15), z, layer, b)
	c.dirty.add(dirtyCell{section: int16(si), index: uint16(sectionIndex(x, uint8(pos.Y&15), z))})
}

// Biome reads the biome id at a block position.
func (c *Chunk) Biome(pos BlockPos) uint32 {
	if !c.dim.InRange(pos.Y) {
		return 0
	}
	si := pos.SectionIndex(c.dim.MinY)
	x, z := pos.relative()
	idx := si*64 + int(z/4)*16 + int(x/4)*4 + int(uint8(pos.Y&15)/4)
	if idx < 0 || idx >= len(c.biomes) {
		return 0
	}
	return c.biomes[idx]
}

// Dirty reports whether the chunk has any dirty cells pending broadcast.
func (c *Chunk) Dirty() bool { return c.dirty.len() > 0 }

// ClearDirty empties the chunk's dirty set; called during tick bookkeeping
// (stage 8).
func (c *Chunk) ClearDirty() { c.dirty.clear() }
