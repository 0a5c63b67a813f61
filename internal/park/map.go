// Package park ties the world grid and the agent roster into a running
// safari: the Map drives per-tick agent updates, visibility caching, and
// spawning; the Model layers the economy, goals, and time acceleration on
// top. All mutation goes through the Map's own methods; the roster is never
// handed out for external modification.
package park

import (
	"math"

	"github.com/google/uuid"

	"github.com/henriktoth/safarimanager/internal/agents"
	"github.com/henriktoth/safarimanager/internal/entropy"
	"github.com/henriktoth/safarimanager/internal/events"
	"github.com/henriktoth/safarimanager/internal/world"
)

// Map owns the grid, the agent roster, and everything spatial. It implements
// agents.Env, so agents perceive and emit through it during their Act calls.
type Map struct {
	Grid    *world.Grid
	catalog *Catalog
	rng     entropy.Source

	agents  []agents.Agent
	pending []agents.Agent // spawned since the last flush; act next tick
	nextID  int

	groups map[int]string // group id -> originating animal kind

	waitingJeeps   []*agents.Jeep
	queuedVisitors []*agents.Visitor
	roadPaths      [][]world.Cell

	visCache map[visKey]*visEntry
	queue    events.Queue

	// Random-interval timers, in time-units.
	plantTimer    float64
	poacherTimer  float64
	plantBounds   [2]float64
	poacherBounds [2]float64
}

// NewMap creates a map over the grid. Spawn timer bounds come from the spawn
// config; the first intervals are drawn immediately.
func NewMap(grid *world.Grid, catalog *Catalog, spawns SpawnConfig, rng entropy.Source) *Map {
	m := &Map{
		Grid:          grid,
		catalog:       catalog,
		rng:           rng,
		groups:        make(map[int]string),
		visCache:      make(map[visKey]*visEntry),
		plantBounds:   [2]float64{spawns.PlantMin, spawns.PlantMax},
		poacherBounds: [2]float64{spawns.PoacherMin, spawns.PoacherMax},
	}
	m.plantTimer = entropy.Between(rng, m.plantBounds[0], m.plantBounds[1])
	m.poacherTimer = entropy.Between(rng, m.poacherBounds[0], m.poacherBounds[1])
	return m
}

// agents.Env implementation beyond Perceive.

func (m *Map) TileAt(c world.Cell) (world.Tile, bool) { return m.Grid.TileAt(c) }
func (m *Map) ExitCell() world.Cell                   { return m.Grid.Exit }
func (m *Map) Rand() entropy.Source                   { return m.rng }
func (m *Map) Emit(e events.Event)                    { m.queue.Emit(e) }

// AddAgent registers the agent and stages it for the roster. Agents staged
// during a tick are not acted until the next tick.
func (m *Map) AddAgent(a agents.Agent) {
	m.nextID++
	a.AssignID(m.nextID)
	m.pending = append(m.pending, a)
}

// RemoveAgent drops the agent with the given id from the roster. Unknown ids
// are a no-op.
func (m *Map) RemoveAgent(id int) {
	for i, a := range m.agents {
		if a.ID() == id {
			m.agents = append(m.agents[:i], m.agents[i+1:]...)
			return
		}
	}
}

// AgentByID returns the roster agent with the given id.
func (m *Map) AgentByID(id int) (agents.Agent, bool) {
	for _, a := range m.agents {
		if a.ID() == id {
			return a, true
		}
	}
	return nil, false
}

// Agents returns a copy of the live roster.
func (m *Map) Agents() []agents.Agent {
	out := make([]agents.Agent, len(m.agents))
	copy(out, m.agents)
	return out
}

// Animals returns every living animal on the roster.
func (m *Map) Animals() []agents.AnimalAgent {
	var out []agents.AnimalAgent
	for _, a := range m.agents {
		if aa, ok := a.(agents.AnimalAgent); ok && !aa.IsDead() {
			out = append(out, aa)
		}
	}
	return out
}

// CountAnimals returns the number of living animals.
func (m *Map) CountAnimals() int { return len(m.Animals()) }

// CountDiet returns the number of living animals with the given diet.
func (m *Map) CountDiet(diet string) int {
	n := 0
	for _, aa := range m.Animals() {
		if attrs, ok := m.catalog.Animals.Lookup(aa.Kind()); ok && attrs.Diet == diet {
			n++
		}
	}
	return n
}

// AddGroup records a breeding group's originating kind. Idempotent per id.
func (m *Map) AddGroup(id int, kind string) {
	if _, ok := m.groups[id]; !ok {
		m.groups[id] = kind
	}
}

// GroupKind returns the kind a group was founded with.
func (m *Map) GroupKind(id int) (string, bool) {
	kind, ok := m.groups[id]
	return kind, ok
}

// GroupCount returns the number of registered groups.
func (m *Map) GroupCount() int { return len(m.groups) }

// adultsOf returns the living adult members of a group.
func (m *Map) adultsOf(id int) []agents.AnimalAgent {
	var adults []agents.AnimalAgent
	for _, aa := range m.Animals() {
		st := aa.AnimalState()
		if st.Group == id && st.IsAdult() && !st.Captured {
			adults = append(adults, aa)
		}
	}
	return adults
}

// MatableGroups returns the ids of groups with at least two living adults.
func (m *Map) MatableGroups() []int {
	var ids []int
	for id := range m.groups {
		if len(m.adultsOf(id)) >= 2 {
			ids = append(ids, id)
		}
	}
	return ids
}

// SpawnOffspring creates a newborn of the group's kind at the rounded
// centroid of the group's adult members. Fails when the group is not matable
// or its kind is unknown.
func (m *Map) SpawnOffspring(groupID int) (agents.AnimalAgent, bool) {
	kind, ok := m.groups[groupID]
	if !ok {
		return nil, false
	}
	adults := m.adultsOf(groupID)
	if len(adults) < 2 {
		return nil, false
	}

	var cx, cy float64
	for _, a := range adults {
		cx += a.Pos().X
		cy += a.Pos().Y
	}
	n := float64(len(adults))
	pos := world.Position{X: math.Round(cx / n), Y: math.Round(cy / n)}

	child, ok := m.catalog.NewAnimal(kind, pos)
	if !ok {
		return nil, false
	}
	child.AnimalState().Group = groupID
	m.AddAgent(child)
	return child, true
}

// PlanRoads recomputes the entrance-to-exit path set and reports whether the
// park is connectable.
func (m *Map) PlanRoads() bool {
	m.roadPaths = m.Grid.PlanRoads()
	return len(m.roadPaths) > 0
}

// RoadPaths returns the planned path set.
func (m *Map) RoadPaths() [][]world.Cell { return m.roadPaths }

// QueueVisitor adds a visitor to the entrance queue.
func (m *Map) QueueVisitor(v *agents.Visitor) {
	m.queuedVisitors = append(m.queuedVisitors, v)
}

// QueuedVisitors returns the entrance queue length.
func (m *Map) QueuedVisitors() int { return len(m.queuedVisitors) }

// AddWaitingJeep parks a jeep in the waiting pool.
func (m *Map) AddWaitingJeep(j *agents.Jeep) {
	m.waitingJeeps = append(m.waitingJeeps, j)
}

// WaitingJeeps returns the waiting pool size.
func (m *Map) WaitingJeeps() int { return len(m.waitingJeeps) }

// Tick advances the whole map by dt time-units. Each agent present at the
// start of the tick acts exactly once; agents spawned during the pass act
// next tick; structural changes from events land in the commit phase after
// the pass. Returns the events the tick produced.
func (m *Map) Tick(dt float64, open bool) []events.Event {
	m.flushPending()
	m.finishTours()
	m.pruneVisibility(dt)

	roster := m.agents
	for _, a := range roster {
		if !a.IsDead() {
			a.Act(m, dt)
		}
	}

	applied := m.queue.Drain()
	m.applyEvents(applied)
	m.removeDead()
	m.flushPending()

	m.regrowPlants(dt)
	m.spawnPoachers(dt)
	m.dispatchJeep(open)

	return append(applied, m.queue.Drain()...)
}

func (m *Map) flushPending() {
	m.agents = append(m.agents, m.pending...)
	m.pending = nil
}

// finishTours collects every jeep that exhausted its waypoints: ratings are
// reported, the jeep leaves the roster, and it re-queues as waiting.
func (m *Map) finishTours() {
	kept := m.agents[:0]
	for _, a := range m.agents {
		j, ok := a.(*agents.Jeep)
		if !ok || !j.Finished() || j.TourID == "" {
			kept = append(kept, a)
			continue
		}
		tourID := j.TourID
		ratings := j.CollectRatings()
		m.queue.Emit(events.Event{Kind: events.TourRatings, TourID: tourID, Ratings: ratings})
		m.queue.Emit(events.Event{Kind: events.TourFinished, TourID: tourID, AgentID: j.ID()})
		m.waitingJeeps = append(m.waitingJeeps, j)
	}
	m.agents = kept
}

// applyEvents performs the structural effects deferred from the act pass.
func (m *Map) applyEvents(evs []events.Event) {
	for _, e := range evs {
		switch e.Kind {
		case events.TileEaten:
			m.substituteFallback(e.Cell)
		}
	}
}

// substituteFallback swaps a consumed tile for its kind's fallback.
func (m *Map) substituteFallback(c world.Cell) {
	t, ok := m.Grid.TileAt(c)
	if !ok || t.Kind == nil || t.Kind.Fallback == "" {
		return
	}
	kind, ok := m.catalog.Tiles.Lookup(t.Kind.Fallback)
	if !ok {
		return
	}
	m.Grid.SetTile(c, kind)
}

// removeDead sweeps agents flagged dead during the pass.
func (m *Map) removeDead() {
	kept := m.agents[:0]
	for _, a := range m.agents {
		if !a.IsDead() {
			kept = append(kept, a)
		}
	}
	m.agents = kept
}

// regrowPlants restores one consumed edible tile when the random-interval
// timer expires, then rearms the timer.
func (m *Map) regrowPlants(dt float64) {
	m.plantTimer -= dt
	if m.plantTimer > 0 {
		return
	}
	m.plantTimer = entropy.Between(m.rng, m.plantBounds[0], m.plantBounds[1])

	var candidates []world.Cell
	for _, t := range m.Grid.Tiles() {
		if t.Kind == nil {
			continue
		}
		if _, ok := m.catalog.RegrowKind(t.Kind.ID); ok {
			candidates = append(candidates, t.Cell)
		}
	}
	if len(candidates) == 0 {
		return
	}
	cell := candidates[m.rng.Intn(len(candidates))]
	t, _ := m.Grid.TileAt(cell)
	if kind, ok := m.catalog.RegrowKind(t.Kind.ID); ok {
		m.Grid.SetTile(cell, kind)
	}
}

// spawnPoachers drops a poacher on a random map-edge cell when the
// random-interval timer expires.
func (m *Map) spawnPoachers(dt float64) {
	m.poacherTimer -= dt
	if m.poacherTimer > 0 {
		return
	}
	m.poacherTimer = entropy.Between(m.rng, m.poacherBounds[0], m.poacherBounds[1])

	cell, ok := m.randomEdgeCell()
	if !ok {
		return
	}
	if p, ok := m.catalog.NewPoacher(cell.Center()); ok {
		m.AddAgent(p)
	}
}

// randomEdgeCell picks a non-obstacle cell on the map perimeter, giving up
// after a bounded number of draws.
func (m *Map) randomEdgeCell() (world.Cell, bool) {
	for i := 0; i < 16; i++ {
		var c world.Cell
		switch m.rng.Intn(4) {
		case 0:
			c = world.Cell{X: m.rng.Intn(m.Grid.Width), Y: 0}
		case 1:
			c = world.Cell{X: m.rng.Intn(m.Grid.Width), Y: m.Grid.Height - 1}
		case 2:
			c = world.Cell{X: 0, Y: m.rng.Intn(m.Grid.Height)}
		default:
			c = world.Cell{X: m.Grid.Width - 1, Y: m.rng.Intn(m.Grid.Height)}
		}
		if t, ok := m.Grid.TileAt(c); ok && t.Kind != nil && !t.Kind.Obstacle {
			return c, true
		}
	}
	return world.Cell{}, false
}

// dispatchJeep starts a tour when the park is open, a jeep is waiting, a
// road path exists, and a full load of visitors is queued. The four
// passengers and the jeep are taken in the same call, so a tick never leaves
// a half-boarded jeep behind.
func (m *Map) dispatchJeep(open bool) {
	if !open || len(m.waitingJeeps) == 0 || len(m.roadPaths) == 0 {
		return
	}
	jeep := m.waitingJeeps[0]
	capacity := jeep.Attrs().Capacity
	if capacity <= 0 || len(m.queuedVisitors) < capacity {
		return
	}

	m.waitingJeeps = m.waitingJeeps[1:]
	passengers := make([]*agents.Visitor, capacity)
	copy(passengers, m.queuedVisitors[:capacity])
	m.queuedVisitors = m.queuedVisitors[capacity:]

	path := m.roadPaths[m.rng.Intn(len(m.roadPaths))]
	tourID := uuid.NewString()
	jeep.StartTour(tourID, path, passengers)
	if jeep.ID() == 0 {
		m.nextID++
		jeep.AssignID(m.nextID)
	}
	m.pending = append(m.pending, jeep)
	m.queue.Emit(events.Event{Kind: events.TourStarted, TourID: tourID, AgentID: jeep.ID()})
}

// NightCells returns the night draw set: always-visible terrain with its
// 8-neighborhood plus the cell of every chipped animal.
func (m *Map) NightCells() []world.Cell {
	cells := m.Grid.NightCells()
	seen := make(map[world.Cell]bool, len(cells))
	for _, c := range cells {
		seen[c] = true
	}
	for _, aa := range m.Animals() {
		if !aa.AnimalState().Chipped {
			continue
		}
		c := aa.Pos().Cell()
		if !seen[c] {
			seen[c] = true
			cells = append(cells, c)
		}
	}
	return cells
}

// DrawData returns the render facade for every live agent.
func (m *Map) DrawData() []agents.DrawData {
	out := make([]agents.DrawData, 0, len(m.agents))
	for _, a := range m.agents {
		if !a.IsDead() {
			out = append(out, a.Draw())
		}
	}
	return out
}
