package agents

import (
	"math"

	"github.com/henriktoth/safarimanager/internal/events"
	"github.com/henriktoth/safarimanager/internal/world"
)

// Needs decay tuning. Rates are per time-unit (sim minute) and get
// modulated by age and a random factor each tick, so no two animals starve
// on the same schedule.
const (
	hungerRate = 0.020
	thirstRate = 0.025

	// An animal below this starts looking for food or water.
	needThreshold = 50.0

	// Age at which an animal counts as an adult for breeding.
	AdultAge = 18.0

	// Long rest after reaching a destination, in time-units.
	restAfterArriveMin = 50.0
	restAfterArriveMax = 66.0
)

// seekKind records what an animal is currently pursuing, so ties between
// needs keep the prior target kind unless it is now unmet.
type seekKind uint8

const (
	seekNone seekKind = iota
	seekWater
	seekFood
	seekWander
)

// Animal extends Base with age, needs, resource memory, and capture state.
// Herbivore and Carnivore embed it and differ only in what satisfies
// hunger.
type Animal struct {
	Base

	Age      float64 // sim-days; Act adds dt/1440
	Hunger   float64 // 0 starved .. 100 sated
	Thirst   float64 // 0 parched .. 100 sated
	Captured bool    // being carried off by a poacher
	Chipped  bool    // player bought a tracking chip
	Group    int     // breeding cohort id

	foodMemory  map[world.Cell]bool
	waterMemory map[world.Cell]bool
	seeking     seekKind
}

// NewAnimal creates the shared animal state for a kind at a position.
// Fresh animals start sated.
func NewAnimal(kind string, attrs Attrs, pos world.Position) Animal {
	return Animal{
		Base:        NewBase(kind, attrs, pos),
		Hunger:      100,
		Thirst:      100,
		foodMemory:  make(map[world.Cell]bool),
		waterMemory: make(map[world.Cell]bool),
	}
}

// AnimalState exposes the animal for group and capture bookkeeping.
func (a *Animal) AnimalState() *Animal { return a }

// IsAdult reports breeding eligibility.
func (a *Animal) IsAdult() bool { return a.Age >= AdultAge }

// ResolveShot rolls the animal hit chance (80%) and emits the death event
// on a hit.
func (a *Animal) ResolveShot(env Env) bool {
	if env.Rand().Float64() >= 0.8 {
		return false
	}
	a.die(env)
	return true
}

// die emits the death event and flags the animal for removal.
func (a *Animal) die(env Env) {
	if a.dead {
		return
	}
	a.markDead()
	env.Emit(events.Event{Kind: events.AnimalDied, AgentID: a.id})
}

// beginTick runs the tick phases every animal shares: aging, perception,
// needs decay, memory refresh, and the captured/resting gates. Returns true
// when the rest of the tick is suppressed.
func (a *Animal) beginTick(self Agent, env Env, dt float64) bool {
	a.Age += dt / 1440

	if a.dead {
		return true
	}

	env.Perceive(self, a.takeImportant())
	a.decayNeeds(env, dt)
	if a.dead {
		return true
	}
	a.refreshMemory(env)

	if a.Captured {
		// Carried by a poacher; no decisions, no own movement.
		return true
	}
	return a.coolRest(dt)
}

// decayNeeds lowers hunger and thirst at age- and randomness-modulated
// rates. Hitting zero is terminal.
func (a *Animal) decayNeeds(env Env, dt float64) {
	src := env.Rand()
	mod := (1 + a.Age/80) * (0.75 + 0.5*src.Float64())
	a.Hunger -= hungerRate * mod * dt
	a.Thirst -= thirstRate * mod * dt

	if a.Hunger <= 0 || a.Thirst <= 0 {
		if a.Hunger < 0 {
			a.Hunger = 0
		}
		if a.Thirst < 0 {
			a.Thirst = 0
		}
		a.die(env)
	}
}

// refreshMemory records visible food and water tile positions and forgets
// remembered food cells that are visibly no longer edible (the tile's
// fallback substitution happened). Memory of cells outside the current view
// persists until revisited.
func (a *Animal) refreshMemory(env Env) {
	for _, t := range a.visTiles {
		if t.Kind == nil {
			continue
		}
		switch {
		case t.Kind.Edible:
			a.foodMemory[t.Cell] = true
		case a.foodMemory[t.Cell]:
			delete(a.foodMemory, t.Cell)
		}
		if t.Kind.Water {
			a.waterMemory[t.Cell] = true
		}
	}
}

// decideNeeds picks the next path target by priority: thirst while not
// already pursuing food, then hunger, then idle wander. findFood supplies
// the diet-specific food target.
func (a *Animal) decideNeeds(env Env, findFood func() *world.Position) {
	// Drop a pursuit whose need is now met.
	if a.seeking == seekWater && a.Thirst >= needThreshold {
		a.seeking = seekNone
		a.ClearPath()
	}
	if a.seeking == seekFood && a.Hunger >= needThreshold {
		a.seeking = seekNone
		a.ClearPath()
	}

	thirsty := a.Thirst < needThreshold
	hungry := a.Hunger < needThreshold

	switch {
	case thirsty && a.seeking != seekFood:
		if a.seeking != seekWater || a.pathTo == nil {
			a.seeking = seekWater
			a.pathToNearest(env, a.waterMemory)
		}
	case hungry:
		if target := findFood(); target != nil {
			a.seeking = seekFood
			a.SetPath(*target)
		} else if a.pathTo == nil {
			// No food in sight or memory; roam until some turns up.
			a.seeking = seekFood
			a.pathToWander(env)
		}
	default:
		if a.pathTo == nil {
			a.seeking = seekWander
			a.pathToWander(env)
		}
	}
}

// pathToNearest targets the closest remembered cell, or wanders when the
// memory set is empty.
func (a *Animal) pathToNearest(env Env, memory map[world.Cell]bool) {
	cell, ok := nearestCell(a.pos, memory)
	if !ok {
		a.pathToWander(env)
		return
	}
	a.SetPath(cell.Center())
}

func (a *Animal) pathToWander(env Env) {
	if target := a.wanderTarget(env.Rand()); target != nil {
		a.SetPath(*target)
	}
}

// arrive handles reaching a destination: clear pursuit, refill from
// qualifying terrain, long rest, and a forced perception refresh next tick.
// Captured animals signal death instead, handled by the poacher at the
// exit.
func (a *Animal) arrive(env Env) {
	a.seeking = seekNone
	if t, ok := env.TileAt(a.pos.Cell()); ok && t.Kind != nil {
		if t.Kind.Water {
			a.Thirst = 100
		}
		if t.Kind.Edible {
			a.eatTile(env, t)
		}
	}
	a.restFor(env.Rand(), restAfterArriveMin, restAfterArriveMax)
	a.markImportant()
}

// eatTile consumes the tile under the animal: hunger refills and the map is
// told to substitute the tile's fallback kind. Carnivores never path to
// edible tiles, so in practice only herbivores get here.
func (a *Animal) eatTile(env Env, t world.Tile) {
	a.Hunger = 100
	delete(a.foodMemory, t.Cell)
	env.Emit(events.Event{Kind: events.TileEaten, Cell: t.Cell})
}

// nearestFoodMemory returns the closest remembered edible cell, if any.
func (a *Animal) nearestFoodMemory() *world.Position {
	cell, ok := nearestCell(a.pos, a.foodMemory)
	if !ok {
		return nil
	}
	p := cell.Center()
	return &p
}

// RememberFood seeds the food memory, used when releasing animals that were
// bred or bought so they do not starve before their first exploration.
func (a *Animal) RememberFood(c world.Cell) { a.foodMemory[c] = true }

// RememberWater seeds the water memory.
func (a *Animal) RememberWater(c world.Cell) { a.waterMemory[c] = true }

// FoodMemoryLen returns the number of remembered food cells.
func (a *Animal) FoodMemoryLen() int { return len(a.foodMemory) }

// nearestCell finds the member of the set closest to the position by
// squared Euclidean distance to cell centers.
func nearestCell(from world.Position, set map[world.Cell]bool) (world.Cell, bool) {
	best := world.Cell{}
	bestDist := math.MaxFloat64
	found := false
	for c := range set {
		center := c.Center()
		dx := center.X - from.X
		dy := center.Y - from.Y
		d := dx*dx + dy*dy
		if d < bestDist {
			bestDist = d
			best = c
			found = true
		}
	}
	return best, found
}

// SetResting overrides the resting timer; tests use it to hold an animal in
// place.
func (a *Animal) SetResting(t float64) { a.resting = t }
