// Package agents provides the park's positioned, ticked entities: animals
// with needs and memory, the ranger/poacher adversarial pair, tour jeeps,
// and the visitors they carry. Each kind implements its own Act but shares
// the Base movement primitive and the perceive → decide → move tick shape.
package agents

import (
	"math"

	"github.com/henriktoth/safarimanager/internal/entropy"
	"github.com/henriktoth/safarimanager/internal/events"
	"github.com/henriktoth/safarimanager/internal/world"
)

// Env is the slice of the park an agent sees during its Act call. The map
// implements it; tests substitute lightweight fakes.
type Env interface {
	// Perceive refreshes the agent's visible tiles and sprites through the
	// visibility cache. An important request forces recomputation; otherwise
	// a fresh cache entry for the same cell and view distance is reused.
	Perceive(a Agent, important bool)
	// TileAt returns the tile occupying the cell.
	TileAt(c world.Cell) (world.Tile, bool)
	// ExitCell is where poachers flee to and tours end.
	ExitCell() world.Cell
	// Rand is the simulation's random source.
	Rand() entropy.Source
	// Emit queues an event for the end-of-tick apply phase.
	Emit(e events.Event)
}

// Agent is any positioned, ticked entity on the map.
type Agent interface {
	ID() int
	AssignID(id int)
	Kind() string
	Pos() world.Position
	SetPos(p world.Position)
	ViewDistance(env Env) int
	SetVisible(tiles []world.Tile, sprites []Agent)
	IsDead() bool
	Act(env Env, dt float64)
	Draw() DrawData
}

// Mortal is an agent that can be shot at. ResolveShot rolls the per-kind
// hit chance and, on a hit, emits the death event and reports true so the
// shooter clears its targeting.
type Mortal interface {
	Agent
	ResolveShot(env Env) bool
}

// AnimalAgent is implemented by the herbivore and carnivore kinds; it
// exposes the shared animal state for group bookkeeping, capture, and
// visitor sighting counts.
type AnimalAgent interface {
	Agent
	AnimalState() *Animal
}

// Speed divisors for movement integration: obstacle tiles impose a 3x
// slowdown relative to open terrain.
const (
	openDivisor     = 10.0
	obstacleDivisor = 30.0
)

// Base carries the state every agent shares: identity, continuous position,
// path target, velocity, perception caches, resting timer, and the static
// per-kind attributes loaded from definition data.
type Base struct {
	id        int
	kind      string
	attrs     Attrs
	pos       world.Position
	velocity  world.Position
	pathTo    *world.Position
	resting   float64
	dead      bool
	important bool

	visTiles   []world.Tile
	visSprites []Agent
}

// NewBase creates the shared agent state for a kind at a position.
func NewBase(kind string, attrs Attrs, pos world.Position) Base {
	return Base{kind: kind, attrs: attrs, pos: pos}
}

func (b *Base) ID() int            { return b.id }
func (b *Base) Kind() string       { return b.kind }
func (b *Base) Attrs() Attrs       { return b.attrs }
func (b *Base) Pos() world.Position { return b.pos }
func (b *Base) Velocity() world.Position { return b.velocity }
func (b *Base) IsDead() bool       { return b.dead }
func (b *Base) Resting() float64   { return b.resting }
func (b *Base) PathTo() *world.Position { return b.pathTo }

// AssignID sets the registration number. The map issues these; the first
// assignment wins.
func (b *Base) AssignID(id int) {
	if b.id == 0 {
		b.id = id
	}
}

func (b *Base) SetPos(p world.Position) { b.pos = p }

// SetPath points the agent at a new path target.
func (b *Base) SetPath(p world.Position) { b.pathTo = &p }

// ClearPath drops the current path target.
func (b *Base) ClearPath() { b.pathTo = nil }

// ViewDistance returns the perception radius, scaled 1.5x while standing on
// elevated terrain.
func (b *Base) ViewDistance(env Env) int {
	vd := b.attrs.ViewDistance
	if t, ok := env.TileAt(b.pos.Cell()); ok && t.Kind != nil && t.Kind.Elevated {
		vd = vd * 3 / 2
	}
	return vd
}

// SetVisible installs the perception results for this tick.
func (b *Base) SetVisible(tiles []world.Tile, sprites []Agent) {
	b.visTiles = tiles
	b.visSprites = sprites
}

// VisibleTiles returns the tiles from the last perception refresh.
func (b *Base) VisibleTiles() []world.Tile { return b.visTiles }

// VisibleSprites returns the other agents from the last perception refresh.
func (b *Base) VisibleSprites() []Agent { return b.visSprites }

// markDead flags the agent for removal at the end-of-tick commit.
func (b *Base) markDead() { b.dead = true }

// markImportant forces the next perception refresh to recompute.
func (b *Base) markImportant() { b.important = true }

// takeImportant consumes the forced-refresh flag.
func (b *Base) takeImportant() bool {
	v := b.important
	b.important = false
	return v
}

// restFor starts a resting period drawn uniformly from [lo, hi).
func (b *Base) restFor(src entropy.Source, lo, hi float64) {
	b.resting = entropy.Between(src, lo, hi)
}

// coolRest counts the resting timer down and reports whether this tick's
// decision and movement are suppressed.
func (b *Base) coolRest(dt float64) bool {
	if b.resting <= 0 {
		return false
	}
	b.resting -= dt
	if b.resting < 0 {
		b.resting = 0
	}
	return true
}

// move integrates straight-line motion toward the path target. The step is
// the kind speed divided by 30 on obstacle tiles and by 10 otherwise, per
// axis; when the step would overshoot on both axes the position snaps
// exactly onto the target. Positions are clamped to the bounding box of
// currently visible non-obstacle terrain. Returns true on arrival.
func (b *Base) move(env Env, dt float64) bool {
	if b.pathTo == nil {
		return false
	}

	divisor := openDivisor
	if t, ok := env.TileAt(b.pos.Cell()); ok && t.Kind != nil && t.Kind.Obstacle {
		divisor = obstacleDivisor
	}
	step := b.attrs.Speed / divisor * dt

	dx := b.pathTo.X - b.pos.X
	dy := b.pathTo.Y - b.pos.Y

	if step >= math.Abs(dx) && step >= math.Abs(dy) {
		b.pos = *b.pathTo
		b.velocity = world.Position{}
		b.pathTo = nil
		return true
	}

	mx := math.Copysign(math.Min(step, math.Abs(dx)), dx)
	my := math.Copysign(math.Min(step, math.Abs(dy)), dy)
	if dt > 0 {
		b.velocity = world.Position{X: mx / dt, Y: my / dt}
	}
	b.pos.X += mx
	b.pos.Y += my
	b.clampToVisible()
	return false
}

// clampToVisible keeps the position inside the bounding box of visible
// non-obstacle terrain. Agents that have not perceived yet are left alone.
func (b *Base) clampToVisible() {
	first := true
	var minX, minY, maxX, maxY int
	for _, t := range b.visTiles {
		if t.Kind == nil || t.Kind.Obstacle {
			continue
		}
		if first {
			minX, maxX = t.Cell.X, t.Cell.X
			minY, maxY = t.Cell.Y, t.Cell.Y
			first = false
			continue
		}
		if t.Cell.X < minX {
			minX = t.Cell.X
		}
		if t.Cell.X > maxX {
			maxX = t.Cell.X
		}
		if t.Cell.Y < minY {
			minY = t.Cell.Y
		}
		if t.Cell.Y > maxY {
			maxY = t.Cell.Y
		}
	}
	if first {
		return
	}
	b.pos.X = clamp(b.pos.X, float64(minX), float64(maxX+1)-1e-6)
	b.pos.Y = clamp(b.pos.Y, float64(minY), float64(maxY+1)-1e-6)
}

// wanderTarget picks a random visible non-obstacle cell to amble toward.
func (b *Base) wanderTarget(src entropy.Source) *world.Position {
	var open []world.Tile
	for _, t := range b.visTiles {
		if t.Kind != nil && !t.Kind.Obstacle {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		return nil
	}
	p := open[src.Intn(len(open))].Cell.Center()
	return &p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
