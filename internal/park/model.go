package park

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/henriktoth/safarimanager/internal/agents"
	"github.com/henriktoth/safarimanager/internal/entropy"
	"github.com/henriktoth/safarimanager/internal/events"
	"github.com/henriktoth/safarimanager/internal/world"
)

// Speed is the time-acceleration level: how many sim-minutes one outer tick
// unit is worth.
type Speed int

const (
	SpeedHour Speed = 1
	SpeedDay  Speed = 24
	SpeedWeek Speed = 168
)

// weekInnerSteps is how many inner map advances one outer tick runs at week
// speed.
const weekInnerSteps = 7

// minutesPerDay converts the sim clock to day boundaries.
const minutesPerDay = 1440.0

// visitorChance is the per-time-unit probability of a prospective visitor
// arriving at the gate.
const visitorChance = 0.01

// breedChance is the per-time-unit probability of an offspring attempt per
// matable group.
const breedChance = 0.01

// recentEventCap bounds the retained event history.
const recentEventCap = 256

// Model is the economic and goal layer over a Map: balance, entry fee, park
// rating, time acceleration, and the win/lose state machine. It is the
// external facade the CLI and API talk to.
type Model struct {
	Map     *Map
	catalog *Catalog
	rng     entropy.Source
	goal    Goal

	Balance  int
	EntryFee int
	chipCost int

	speed  Speed
	open   bool
	rating int
	scores []float64 // every tour rating ever collected

	Day           int
	clock         float64 // sim-minutes since start
	acc           float64 // accumulator toward whole time-units
	streak        int
	visitorsToday int
	nextGroupID   int

	won  bool
	lost bool

	recent []events.Event

	// OnDay, when set, runs after each day's bookkeeping.
	OnDay func(day int)
}

// NewModel wires a model over the map with the configured economy and goal.
func NewModel(m *Map, catalog *Catalog, cfg *SimConfig, goal Goal, rng entropy.Source) *Model {
	return &Model{
		Map:      m,
		catalog:  catalog,
		rng:      rng,
		goal:     goal,
		Balance:  cfg.Economy.StartingBalance,
		EntryFee: cfg.Economy.EntryFee,
		chipCost: cfg.Economy.ChipPrice,
		speed:    SpeedHour,
		rating:   3,
	}
}

// Rating returns the park's integer rating in [1,5].
func (md *Model) Rating() int { return md.rating }

// Goal returns the active win condition.
func (md *Model) Goal() Goal { return md.goal }

// Streak returns the consecutive qualifying days so far.
func (md *Model) Streak() int { return md.streak }

// Clock returns the sim time in minutes since start.
func (md *Model) Clock() float64 { return md.clock }

// Won reports whether the goal streak completed.
func (md *Model) Won() bool { return md.won }

// Lost reports whether the park failed.
func (md *Model) Lost() bool { return md.lost }

// IsOpen reports whether the park is admitting visitors.
func (md *Model) IsOpen() bool { return md.open }

// Speed returns the current acceleration level.
func (md *Model) Speed() Speed { return md.speed }

// SetSpeed switches the acceleration level; unknown values are ignored.
func (md *Model) SetSpeed(s Speed) {
	switch s {
	case SpeedHour, SpeedDay, SpeedWeek:
		md.speed = s
	}
}

// Open gates the park on road connectivity: without an entrance-exit road
// path the call is a no-op and reports false.
func (md *Model) Open() bool {
	if md.open {
		return true
	}
	if !md.Map.PlanRoads() {
		return false
	}
	md.open = true
	return true
}

// Close stops admitting visitors.
func (md *Model) Close() { md.open = false }

// RecentEvents returns the retained event history, newest last.
func (md *Model) RecentEvents() []events.Event {
	out := make([]events.Event, len(md.recent))
	copy(out, md.recent)
	return out
}

// Tick advances the simulation by one outer tick of dt. Week speed runs
// seven inner advances; every non-hour speed stretches each inner advance by
// a factor of 24.
func (md *Model) Tick(dt float64) {
	if md.won || md.lost {
		return
	}

	steps := 1
	if md.speed == SpeedWeek {
		steps = weekInnerSteps
	}
	mult := 24.0
	if md.speed == SpeedHour {
		mult = 1.0
	}

	for i := 0; i < steps; i++ {
		md.step(dt * mult)
		if md.won || md.lost {
			return
		}
	}
}

// step is one inner advance: map tick, event bookkeeping, per-time-unit
// spawning, and day-boundary processing.
func (md *Model) step(dt float64) {
	evs := md.Map.Tick(dt, md.open)
	md.handleEvents(evs)

	md.clock += dt
	md.acc += dt
	for md.acc >= 1 {
		md.acc--
		md.maybeSpawnVisitor()
		md.attemptBreeding()
	}

	for day := int(md.clock / minutesPerDay); day > md.Day; {
		md.Day++
		md.dailyTick()
	}

	if md.Balance <= 0 && md.Map.CountAnimals() == 0 {
		md.lost = true
		md.remember(events.Event{Kind: events.Losing})
		slog.Info("park lost", "day", md.Day, "balance", md.Balance)
	}
}

func (md *Model) handleEvents(evs []events.Event) {
	for _, e := range evs {
		switch e.Kind {
		case events.BountyEarned:
			md.Balance += e.Amount
		case events.TourRatings:
			md.updateRating(e.Ratings)
			md.visitorsToday += len(e.Ratings)
		}
		md.remember(e)
	}
}

func (md *Model) remember(e events.Event) {
	md.recent = append(md.recent, e)
	if len(md.recent) > recentEventCap {
		md.recent = md.recent[len(md.recent)-recentEventCap:]
	}
}

// updateRating folds a tour's passenger scores into the park rating: the
// rounded mean of every score collected so far, clamped to [1,5].
func (md *Model) updateRating(scores []int) {
	for _, s := range scores {
		md.scores = append(md.scores, float64(s))
	}
	if len(md.scores) == 0 {
		return
	}
	mean := stat.Mean(md.scores, nil)
	r := int(math.Round(mean))
	if r < 1 {
		r = 1
	}
	if r > 5 {
		r = 5
	}
	md.rating = r
}

// maybeSpawnVisitor rolls the arrival chance and admits the prospect only if
// they can afford the fee and the park's rating meets their standard.
// Admission collects the entry fee immediately.
func (md *Model) maybeSpawnVisitor() {
	if !md.open || md.rng.Float64() >= visitorChance {
		return
	}
	v := md.randomVisitor()
	if v.Spending < md.EntryFee || md.rating < v.MinRating {
		return
	}
	md.Balance += md.EntryFee
	md.Map.QueueVisitor(v)
}

func (md *Model) randomVisitor() *agents.Visitor {
	v := agents.NewVisitor(md.rng.Intn(3), md.rng.Intn(4), 1+md.rng.Intn(3))
	v.Spending = int(entropy.Between(md.rng, 0.5, 2.0) * float64(md.EntryFee))
	return v
}

// attemptBreeding gives each matable group one offspring roll.
func (md *Model) attemptBreeding() {
	for _, id := range md.Map.MatableGroups() {
		if md.rng.Float64() < breedChance {
			md.Map.SpawnOffspring(id)
		}
	}
}

// dailyTick runs once per crossed day boundary: ranger salaries come out of
// the balance (floored at zero), the goal thresholds are checked, and the
// streak advances or resets.
func (md *Model) dailyTick() {
	for _, a := range md.Map.Agents() {
		if r, ok := a.(*agents.Ranger); ok && !r.IsDead() {
			md.Balance -= r.Attrs().Salary
		}
	}
	if md.Balance < 0 {
		md.Balance = 0
	}

	herb := md.Map.CountDiet(agents.DietHerbivore)
	carn := md.Map.CountDiet(agents.DietCarnivore)
	if md.goal.Met(md.Balance, herb, carn, md.visitorsToday) {
		md.streak++
	} else {
		md.streak = 0
	}
	if md.goal.Days > 0 && md.streak >= md.goal.Days {
		md.won = true
		md.remember(events.Event{Kind: events.GoalMet})
		slog.Info("goal met", "goal", md.goal.ID, "day", md.Day, "streak", md.streak)
	}

	slog.Info("day closed",
		"day", md.Day,
		"balance", md.Balance,
		"herbivores", herb,
		"carnivores", carn,
		"visitors", md.visitorsToday,
		"rating", md.rating,
		"streak", md.streak,
	)

	if md.OnDay != nil {
		md.OnDay(md.Day)
	}
	md.visitorsToday = 0
}

// VisitorsToday returns the number of visitors served since the last day
// boundary.
func (md *Model) VisitorsToday() int { return md.visitorsToday }

// NewGroupID issues the next breeding group id.
func (md *Model) NewGroupID() int {
	md.nextGroupID++
	return md.nextGroupID
}

// BuyTile purchases and places a tile of the kind at the cell. Fails without
// mutation on unknown kind, out-of-bounds cell, or insufficient balance.
func (md *Model) BuyTile(c world.Cell, kindID string) bool {
	kind, ok := md.catalog.Tiles.Lookup(kindID)
	if !ok || !md.Map.Grid.InBounds(c) || kind.Price > md.Balance {
		return false
	}
	md.Balance -= kind.Price
	md.Map.Grid.SetTile(c, kind)
	return true
}

// BuyAnimal purchases an animal of the kind, places it at the cell, and
// enrolls it in the group.
func (md *Model) BuyAnimal(kindID string, c world.Cell, groupID int) (agents.AnimalAgent, bool) {
	attrs, ok := md.catalog.Animals.Lookup(kindID)
	if !ok || !md.Map.Grid.InBounds(c) || attrs.Price > md.Balance {
		return nil, false
	}
	animal, ok := md.catalog.NewAnimal(kindID, c.Center())
	if !ok {
		return nil, false
	}
	md.Balance -= attrs.Price
	animal.AnimalState().Group = groupID
	md.Map.AddGroup(groupID, kindID)
	md.Map.AddAgent(animal)
	return animal, true
}

// BuyJeep purchases a jeep into the waiting pool.
func (md *Model) BuyJeep() bool {
	attrs, ok := md.catalog.Units.Lookup("jeep")
	if !ok || attrs.Price > md.Balance {
		return false
	}
	jeep, ok := md.catalog.NewJeep(md.Map.Grid.Entrance.Center())
	if !ok {
		return false
	}
	md.Balance -= attrs.Price
	md.Map.AddWaitingJeep(jeep)
	return true
}

// HireRanger hires a ranger at the entrance.
func (md *Model) HireRanger() bool {
	attrs, ok := md.catalog.Units.Lookup("ranger")
	if !ok || attrs.Price > md.Balance {
		return false
	}
	ranger, ok := md.catalog.NewRanger(md.Map.Grid.Entrance.Center())
	if !ok {
		return false
	}
	md.Balance -= attrs.Price
	md.Map.AddAgent(ranger)
	return true
}

// BuyChip fits a tracking chip on the animal, making it night-visible.
func (md *Model) BuyChip(animalID int) bool {
	if md.chipCost > md.Balance {
		return false
	}
	a, ok := md.Map.AgentByID(animalID)
	if !ok {
		return false
	}
	aa, ok := a.(agents.AnimalAgent)
	if !ok || aa.IsDead() {
		return false
	}
	md.Balance -= md.chipCost
	aa.AnimalState().Chipped = true
	return true
}

// SellAnimal removes the animal from the park and credits its sale price.
func (md *Model) SellAnimal(animalID int) bool {
	a, ok := md.Map.AgentByID(animalID)
	if !ok {
		return false
	}
	aa, ok := a.(agents.AnimalAgent)
	if !ok || aa.IsDead() || aa.AnimalState().Captured {
		return false
	}
	attrs, ok := md.catalog.Animals.Lookup(aa.Kind())
	if !ok {
		return false
	}
	md.Balance += attrs.SellPrice
	md.Map.RemoveAgent(animalID)
	return true
}
