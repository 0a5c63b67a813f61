// Package events defines the typed notifications the simulation core emits
// and the end-of-tick queue that carries them. Events raised while the
// agent roster is being iterated are collected here and applied only after
// the pass completes, so handlers never mutate the roster mid-iteration.
package events

import "github.com/henriktoth/safarimanager/internal/world"

// Kind enumerates the notification channels.
type Kind uint8

const (
	AnimalDied Kind = iota
	ShooterDied
	TileEaten
	TourStarted
	TourFinished
	TourRatings
	BountyEarned
	PoacherEscaped
	GoalMet
	Losing
)

var kindNames = [...]string{
	AnimalDied:     "animal-died",
	ShooterDied:    "shooter-died",
	TileEaten:      "tile-eaten",
	TourStarted:    "tour-started",
	TourFinished:   "tour-finished",
	TourRatings:    "tour-ratings",
	BountyEarned:   "bounty-earned",
	PoacherEscaped: "poacher-escaped",
	GoalMet:        "goal-met",
	Losing:         "losing",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one notification. Only the fields relevant to the kind are set.
type Event struct {
	Kind    Kind       `json:"kind"`
	AgentID int        `json:"agent_id,omitempty"` // subject registration number
	Cell    world.Cell `json:"cell,omitempty"`     // tile events
	Ratings []int      `json:"ratings,omitempty"`  // tour-ratings payload
	Amount  int        `json:"amount,omitempty"`   // bounty payout
	TourID  string     `json:"tour_id,omitempty"`
}

// Queue accumulates events during a tick's act pass.
type Queue struct {
	pending []Event
}

// Emit appends an event to the queue.
func (q *Queue) Emit(e Event) {
	q.pending = append(q.pending, e)
}

// Drain returns all pending events and resets the queue.
func (q *Queue) Drain() []Event {
	out := q.pending
	q.pending = nil
	return out
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	return len(q.pending)
}
