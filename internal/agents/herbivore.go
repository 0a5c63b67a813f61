package agents

import "github.com/henriktoth/safarimanager/internal/world"

// Herbivore is an animal that grazes edible tiles. Feeding is memory-based:
// it paths to the nearest remembered edible cell and consumes the tile on
// arrival.
type Herbivore struct {
	Animal
}

// NewHerbivore creates a herbivore of the kind at the position.
func NewHerbivore(kind string, attrs Attrs, pos world.Position) *Herbivore {
	return &Herbivore{Animal: NewAnimal(kind, attrs, pos)}
}

func (h *Herbivore) Act(env Env, dt float64) {
	if h.beginTick(h, env, dt) {
		return
	}
	h.decideNeeds(env, h.nearestFoodMemory)
	if h.move(env, dt) {
		h.arrive(env)
	}
}
