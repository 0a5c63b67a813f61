package agents

import (
	"math"

	"github.com/google/uuid"
)

// Visitor is a paying guest. Visitors are not map agents: they queue at the
// entrance, ride a jeep, and score the tour against what they came to see.
type Visitor struct {
	ID uuid.UUID

	// What the visitor came for. A zero count means no interest.
	WantCarnivores int
	WantHerbivores int

	// MinRating is the lowest average park rating the visitor tolerates
	// before choosing a different park.
	MinRating int

	// Spending is the most the visitor is willing to pay at the gate.
	Spending int

	seenCarnivores map[int]bool
	seenHerbivores map[int]bool
}

// NewVisitor creates a visitor with the given sighting goals.
func NewVisitor(wantCarnivores, wantHerbivores, minRating int) *Visitor {
	return &Visitor{
		ID:             uuid.New(),
		WantCarnivores: wantCarnivores,
		WantHerbivores: wantHerbivores,
		MinRating:      minRating,
		seenCarnivores: make(map[int]bool),
		seenHerbivores: make(map[int]bool),
	}
}

// Observe records a sighted animal. Each individual counts once per tour.
func (v *Visitor) Observe(a AnimalAgent) {
	switch a.(type) {
	case *Carnivore:
		v.seenCarnivores[a.ID()] = true
	case *Herbivore:
		v.seenHerbivores[a.ID()] = true
	}
}

// SeenCarnivores returns how many distinct carnivores were sighted.
func (v *Visitor) SeenCarnivores() int { return len(v.seenCarnivores) }

// SeenHerbivores returns how many distinct herbivores were sighted.
func (v *Visitor) SeenHerbivores() int { return len(v.seenHerbivores) }

// Rating scores the tour on a 1 to 5 scale. A visitor with no sighting goals
// gives a flat 5; one whose goals all went unmet gives a 1; anything in
// between scales linearly with the fraction of desired sightings delivered.
func (v *Visitor) Rating() int {
	total := v.WantCarnivores + v.WantHerbivores
	if total == 0 {
		return 5
	}
	met := min(len(v.seenCarnivores), v.WantCarnivores) +
		min(len(v.seenHerbivores), v.WantHerbivores)
	if met == 0 {
		return 1
	}
	return 1 + int(math.Round(4*float64(met)/float64(total)))
}
