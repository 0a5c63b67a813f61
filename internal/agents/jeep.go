package agents

import "github.com/henriktoth/safarimanager/internal/world"

// Jeep is the tour vehicle. It is not an autonomous decision-maker: it
// consumes a pre-chosen road path waypoint by waypoint, lets its passengers
// sight animals along the way, and reports their ratings when the map
// collects it at the exit.
type Jeep struct {
	Base

	TourID     string
	Passengers []*Visitor
	waypoints  []world.Cell
}

// NewJeep creates an idle jeep at the position.
func NewJeep(attrs Attrs, pos world.Position) *Jeep {
	return &Jeep{Base: NewBase("jeep", attrs, pos)}
}

// StartTour loads passengers and the waypoint sequence for one tour.
func (j *Jeep) StartTour(tourID string, path []world.Cell, passengers []*Visitor) {
	j.TourID = tourID
	j.Passengers = passengers
	j.waypoints = make([]world.Cell, len(path))
	copy(j.waypoints, path)
	if len(j.waypoints) > 0 {
		j.pos = j.waypoints[0].Center()
		j.waypoints = j.waypoints[1:]
	}
	j.ClearPath()
}

// Finished reports whether the waypoint list is exhausted.
func (j *Jeep) Finished() bool {
	return j.pathTo == nil && len(j.waypoints) == 0
}

// CollectRatings gathers each passenger's tour rating and empties the jeep.
func (j *Jeep) CollectRatings() []int {
	ratings := make([]int, 0, len(j.Passengers))
	for _, v := range j.Passengers {
		ratings = append(ratings, v.Rating())
	}
	j.Passengers = nil
	j.TourID = ""
	return ratings
}

func (j *Jeep) Act(env Env, dt float64) {
	env.Perceive(j, j.takeImportant())

	// Passengers record every distinct animal in view.
	for _, s := range j.visSprites {
		aa, ok := s.(AnimalAgent)
		if !ok || aa.IsDead() {
			continue
		}
		for _, v := range j.Passengers {
			v.Observe(aa)
		}
	}

	if j.pathTo == nil {
		if len(j.waypoints) == 0 {
			return // at the exit; the map collects us
		}
		next := j.waypoints[0]
		j.waypoints = j.waypoints[1:]
		j.SetPath(next.Center())
	}
	if j.move(env, dt) {
		j.markImportant()
	}
}
