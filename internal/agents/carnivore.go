package agents

import (
	"math"

	"github.com/henriktoth/safarimanager/internal/world"
)

// strikeRange is how close a herbivore must be, on both axes, for a
// carnivore to take it.
const strikeRange = 0.5

// Carnivore is an animal that hunts herbivores. It has no food-tile memory:
// prey in view is chased directly, and any uncaptured herbivore within
// strike range is eaten immediately during the per-tick food check.
type Carnivore struct {
	Animal
}

// NewCarnivore creates a carnivore of the kind at the position.
func NewCarnivore(kind string, attrs Attrs, pos world.Position) *Carnivore {
	return &Carnivore{Animal: NewAnimal(kind, attrs, pos)}
}

func (c *Carnivore) Act(env Env, dt float64) {
	if c.beginTick(c, env, dt) {
		return
	}
	c.eatAdjacentPrey(env)
	if c.dead {
		return
	}
	c.decideNeeds(env, func() *world.Position { return c.nearestPrey() })
	if c.move(env, dt) {
		c.arrive(env)
	}
}

// eatAdjacentPrey consumes any visible uncaptured herbivore within strike
// range on both axes, instantly restoring food level and emitting the
// victim's death. Runs every tick regardless of the current target.
func (c *Carnivore) eatAdjacentPrey(env Env) {
	if c.Hunger >= needThreshold {
		return
	}
	for _, s := range c.visSprites {
		prey, ok := s.(*Herbivore)
		if !ok || prey.IsDead() || prey.Captured {
			continue
		}
		if math.Abs(prey.pos.X-c.pos.X) <= strikeRange && math.Abs(prey.pos.Y-c.pos.Y) <= strikeRange {
			c.Hunger = 100
			prey.die(env)
			c.seeking = seekNone
			c.ClearPath()
			return
		}
	}
}

// nearestPrey returns the position of the closest visible uncaptured
// herbivore. The target is recomputed every tick, so a fleeing herbivore is
// pursued rather than its stale position.
func (c *Carnivore) nearestPrey() *world.Position {
	var best *Herbivore
	bestDist := math.MaxFloat64
	for _, s := range c.visSprites {
		prey, ok := s.(*Herbivore)
		if !ok || prey.IsDead() || prey.Captured {
			continue
		}
		dx := prey.pos.X - c.pos.X
		dy := prey.pos.Y - c.pos.Y
		if d := dx*dx + dy*dy; d < bestDist {
			bestDist = d
			best = prey
		}
	}
	if best == nil {
		return nil
	}
	p := best.pos
	return &p
}
