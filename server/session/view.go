package session

import (
	"github.com/nexavoxel/corecraft/server/protocol"
	"github.com/nexavoxel/corecraft/server/world"
)

// ReconcileView implements §4.5.2: after event dispatch, diff the client's
// previous and current ChunkView/chunk-layer/visible-layers and emit the
// load/unload/spawn/despawn packets needed to bring its view up to date.
func (s *State) ReconcileView() {
	if s.View.Centre != s.oldView.Centre {
		s.write(protocol.EncodeChunkRenderDistanceCenter(s.View.Centre.X(), s.View.Centre.Z()))
	}
	if s.View.Radius != s.oldView.Radius {
		s.write(protocol.EncodeChunkLoadDistance(int32(s.View.Radius)))
	}

	switch {
	case s.oldChunkLayer != s.ChunkLayer:
		s.swapChunkLayer()
	case s.oldView != s.View:
		s.diffChunkView(s.oldView, s.View)
	}

	s.diffEntityLayers()

	s.oldView = s.View
	s.oldChunkLayer = s.ChunkLayer
	s.oldVisibleLayers = copyLayerSet(s.VisibleLayers)
	s.oldDimension = s.Dimension
}

// swapChunkLayer handles a full chunk-layer swap: every chunk previously in
// view is unloaded from the old layer, every chunk in the (possibly new)
// view is loaded from the new layer. A cross-dimension transition follows a
// Respawn record, already written by ReconcileJoin.
func (s *State) swapChunkLayer() {
	if s.oldChunkLayer != nil && s.oldChunkLayer.Chunks != nil {
		s.oldView.Each(func(pos world.ChunkPos) {
			if s.oldChunkLayer.Chunks.Get(pos) == nil {
				return
			}
			s.write(protocol.EncodeChunkUnload(pos))
			s.oldChunkLayer.Chunks.DecViewer(pos, s.Client)
			s.ViewIndex.Remove(s.Client, pos)
		})
	}
	if s.ChunkLayer != nil && s.ChunkLayer.Chunks != nil {
		s.View.Each(func(pos world.ChunkPos) {
			if s.ChunkLayer.Chunks.Get(pos) == nil {
				return
			}
			s.write(s.ChunkLayer.Chunks.WriteInitPacket(pos))
			s.ChunkLayer.Chunks.IncViewer(pos, s.Client)
			s.ViewIndex.Add(s.Client, pos)
		})
	}
}

// diffChunkView handles the same-layer, moved-view case: unload the
// symmetric-difference positions no longer in view, load the newly visible
// ones (§4.5.2 step 4).
func (s *State) diffChunkView(oldView, newView world.ChunkView) {
	if s.ChunkLayer == nil || s.ChunkLayer.Chunks == nil {
		return
	}
	toLoad, toUnload := oldView.Diff(newView)
	for _, pos := range toUnload {
		if s.ChunkLayer.Chunks.Get(pos) == nil {
			continue
		}
		s.write(protocol.EncodeChunkUnload(pos))
		s.ChunkLayer.Chunks.DecViewer(pos, s.Client)
		s.ViewIndex.Remove(s.Client, pos)
	}
	for _, pos := range toLoad {
		if s.ChunkLayer.Chunks.Get(pos) == nil {
			continue
		}
		s.write(s.ChunkLayer.Chunks.WriteInitPacket(pos))
		s.ChunkLayer.Chunks.IncViewer(pos, s.Client)
		s.ViewIndex.Add(s.Client, pos)
	}
}

// diffEntityLayers walks the symmetric difference of (oldVisibleLayers ×
// oldView) and (VisibleLayers × View): cells that fall out of the combined
// set get a despawn for every entity they held, cells newly in the combined
// set get a spawn for every entity they hold (§4.5.2 step 5). A self-entity
// is never spawned to its own owner.
func (s *State) diffEntityLayers() {
	oldCells := s.visibleEntityCells(s.oldVisibleLayers, s.oldView)
	newCells := s.visibleEntityCells(s.VisibleLayers, s.View)

	for handle, entry := range oldCells {
		if _, still := newCells[handle]; still {
			continue
		}
		if entry.owner == s.Client {
			continue
		}
		s.write(protocol.EncodeEntityDespawn(entry.protocolID))
	}
	for handle, entry := range newCells {
		if _, already := oldCells[handle]; already {
			continue
		}
		if entry.owner == s.Client {
			continue
		}
		s.write(entry.spawnPacket)
	}
}

type visibleEntity struct {
	owner       world.ClientID
	protocolID  int32
	spawnPacket []byte
}

func (s *State) visibleEntityCells(layers map[world.LayerHandle]*world.Layer, view world.ChunkView) map[world.EntityHandle]visibleEntity {
	out := make(map[world.EntityHandle]visibleEntity)
	for _, layer := range layers {
		if layer == nil || layer.Entities == nil {
			continue
		}
		view.Each(func(pos world.ChunkPos) {
			for _, h := range layer.Entities.CellEntities(pos) {
				e := layer.Entities.Entity(h)
				if e == nil || e.Despawned {
					continue
				}
				out[h] = visibleEntity{owner: e.Owner, protocolID: e.ProtocolIDFor(s.Client), spawnPacket: protocol.EncodeEntitySpawnFor(e, s.Client)}
			}
		})
	}
	return out
}

func copyLayerSet(m map[world.LayerHandle]*world.Layer) map[world.LayerHandle]*world.Layer {
	out := make(map[world.LayerHandle]*world.Layer, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
