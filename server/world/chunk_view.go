package world

// Minimum and maximum chunk view-distance radii a client may request (§3
// "ChunkView ... view-distance radius (2..=32)").
const (
	MinViewDistance = 2
	MaxViewDistance = 32
)

// ChunkView is the derived set of chunk positions a client should have
// loaded: every position within Chebyshev distance Radius of Centre (§3
// "The set of chunk positions within max(|Δx|,|Δz|) ≤ r of centre").
type ChunkView struct {
	Centre ChunkPos
	Radius int
}

// NewChunkView builds a ChunkView, clamping radius to
// [MinViewDistance, MaxViewDistance].
func NewChunkView(centre ChunkPos, radius int) ChunkView {
	if radius < MinViewDistance {
		radius = MinViewDistance
	}
	if radius > MaxViewDistance {
		radius = MaxViewDistance
	}
	return ChunkView{Centre: centre, Radius: radius}
}

// Contains reports whether pos lies within the view.
func (v ChunkView) Contains(pos ChunkPos) bool {
	dx := pos.X() - v.Centre.X()
	dz := pos.Z() - v.Centre.Z()
	if dx < 0 {
		dx = -dx
	}
	if dz < 0 {
		dz = -dz
	}
	r := int32(v.Radius)
	return dx <= r && dz <= r
}

// Each calls f for every chunk position in the view, in no particular
// order.
func (v ChunkView) Each(f func(ChunkPos)) {
	r := int32(v.Radius)
	cx, cz := v.Centre.X(), v.Centre.Z()
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			f(ChunkPos{cx + dx, cz + dz})
		}
	}
}

// Diff computes the positions present in next but not in v (toLoad) and the
// positions present in v but not in next (toUnload), by symmetric-difference
// iteration over both views (§4.5.2 "the symmetric difference between a
// client's old and new chunk view determines which ChunkLoad/ChunkUnload
// packets to send").
func (v ChunkView) Diff(next ChunkView) (toLoad, toUnload []ChunkPos) {
	v.Each(func(pos ChunkPos) {
		if !next.Contains(pos) {
			toUnload = append(toUnload, pos)
		}
	})
	next.Each(func(pos ChunkPos) {
		if !v.Contains(pos) {
			toLoad = append(toLoad, pos)
		}
	})
	return toLoad, toUnload
}
