package park

import (
	"github.com/henriktoth/safarimanager/internal/agents"
	"github.com/henriktoth/safarimanager/internal/world"
)

// visTTL is how long a cache entry survives without being refreshed, in
// time-units. Expiry is by age, not capacity.
const visTTL = 1.0

// visKey identifies a cached visibility result: the truncated position plus
// the view distance. Agents sharing a cell and radius share the entry.
type visKey struct {
	x, y, vd int
}

// visEntry is one cached window. Sprites are stored unfiltered; the querying
// agent is excluded at delivery so the entry stays shareable.
type visEntry struct {
	tiles   []world.Tile
	sprites []agents.Agent
	age     float64
}

// Perceive services an agent's visibility refresh. A non-important request
// with a live entry for the same key reuses the cached lists and only resets
// the TTL; an important request recomputes and replaces the entry.
func (m *Map) Perceive(a agents.Agent, important bool) {
	vd := a.ViewDistance(m)
	cell := a.Pos().Cell()
	key := visKey{x: cell.X, y: cell.Y, vd: vd}

	entry, ok := m.visCache[key]
	if !ok || important {
		entry = &visEntry{
			tiles:   m.Grid.TilesWithin(cell, vd),
			sprites: m.spritesWithin(cell, vd),
		}
		m.visCache[key] = entry
	}
	entry.age = 0

	sprites := make([]agents.Agent, 0, len(entry.sprites))
	for _, s := range entry.sprites {
		if s != a {
			sprites = append(sprites, s)
		}
	}
	a.SetVisible(entry.tiles, sprites)
}

// spritesWithin returns every live agent whose cell lies inside the
// Chebyshev box around center.
func (m *Map) spritesWithin(center world.Cell, radius int) []agents.Agent {
	var found []agents.Agent
	for _, a := range m.agents {
		if a.IsDead() {
			continue
		}
		if world.Chebyshev(a.Pos().Cell(), center) <= radius {
			found = append(found, a)
		}
	}
	return found
}

// pruneVisibility ages every cache entry and evicts the expired ones.
func (m *Map) pruneVisibility(dt float64) {
	for key, entry := range m.visCache {
		entry.age += dt
		if entry.age > visTTL {
			delete(m.visCache, key)
		}
	}
}

// cacheLen reports the number of live visibility entries.
func (m *Map) cacheLen() int { return len(m.visCache) }
