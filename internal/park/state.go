package park

import (
	"fmt"

	"github.com/henriktoth/safarimanager/internal/defs"
	"github.com/henriktoth/safarimanager/internal/entropy"
	"github.com/henriktoth/safarimanager/internal/world"
)

// SavedTile is one persisted grid cell.
type SavedTile struct {
	Cell world.Cell
	Kind string
}

// SavedAnimal is one persisted animal.
type SavedAnimal struct {
	ID      int
	Kind    string
	Pos     world.Position
	Age     float64
	Hunger  float64
	Thirst  float64
	Group   int
	Chipped bool
}

// SavedState is everything a park needs to resume: the full grid, the animal
// population, group registry, and the model's counters. Rangers, jeeps, and
// in-flight tours are not persisted; staff is rehired from the spawn config
// on restore.
type SavedState struct {
	Width   int
	Height  int
	Day     int
	Clock   float64
	Balance int
	Rating  int
	Streak  int
	Open    bool
	NextID  int

	Tiles   []SavedTile
	Animals []SavedAnimal
	Groups  map[int]string
}

// SaveState captures the current park into a plain snapshot value.
func (md *Model) SaveState() SavedState {
	st := SavedState{
		Width:   md.Map.Grid.Width,
		Height:  md.Map.Grid.Height,
		Day:     md.Day,
		Clock:   md.clock,
		Balance: md.Balance,
		Rating:  md.rating,
		Streak:  md.streak,
		Open:    md.open,
		NextID:  md.Map.nextID,
		Groups:  make(map[int]string, len(md.Map.groups)),
	}
	for id, kind := range md.Map.groups {
		st.Groups[id] = kind
	}
	for _, t := range md.Map.Grid.Tiles() {
		if t.Kind == nil {
			continue
		}
		st.Tiles = append(st.Tiles, SavedTile{Cell: t.Cell, Kind: t.Kind.ID})
	}
	for _, aa := range md.Map.Animals() {
		a := aa.AnimalState()
		st.Animals = append(st.Animals, SavedAnimal{
			ID:      aa.ID(),
			Kind:    aa.Kind(),
			Pos:     aa.Pos(),
			Age:     a.Age,
			Hunger:  a.Hunger,
			Thirst:  a.Thirst,
			Group:   a.Group,
			Chipped: a.Chipped,
		})
	}
	return st
}

// RestorePark rebuilds a park from a snapshot: grid tiles, animals with
// their needs and memory reseeded empty, groups, and the model counters.
// Staff comes fresh from the spawn config.
func RestorePark(cfg *SimConfig, store *defs.Store, rng entropy.Source, st SavedState) (*Model, error) {
	catalog, err := LoadCatalog(store, cfg.Defs)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	base, ok := catalog.Tiles.Lookup("sand")
	if !ok {
		return nil, fmt.Errorf("tile catalog missing base kind")
	}
	grid := world.NewGrid(st.Width, st.Height, base)
	for _, t := range st.Tiles {
		kind, ok := catalog.Tiles.Lookup(t.Kind)
		if !ok {
			return nil, fmt.Errorf("snapshot references unknown tile kind %q", t.Kind)
		}
		grid.SetTile(t.Cell, kind)
	}

	m := NewMap(grid, catalog, cfg.Spawns, rng)
	for id, kind := range st.Groups {
		m.AddGroup(id, kind)
	}

	md := NewModel(m, catalog, cfg, Goal{}, rng)
	if goal, ok := catalog.Goals.Lookup(cfg.Goal); ok {
		md.goal = goal
	}
	md.Day = st.Day
	md.clock = st.Clock
	md.Balance = st.Balance
	md.rating = st.Rating
	md.streak = st.Streak
	md.open = st.Open && len(grid.PlanRoads()) > 0
	if md.open {
		m.PlanRoads()
	}

	for _, sa := range st.Animals {
		animal, ok := catalog.NewAnimal(sa.Kind, sa.Pos)
		if !ok {
			return nil, fmt.Errorf("snapshot references unknown animal kind %q", sa.Kind)
		}
		a := animal.AnimalState()
		a.Age = sa.Age
		a.Hunger = sa.Hunger
		a.Thirst = sa.Thirst
		a.Group = sa.Group
		a.Chipped = sa.Chipped
		animal.AssignID(sa.ID)
		m.pending = append(m.pending, animal)
	}
	if st.NextID > m.nextID {
		m.nextID = st.NextID
	}
	m.flushPending()

	for i := 0; i < cfg.Spawns.Rangers; i++ {
		if ranger, ok := catalog.NewRanger(grid.Entrance.Center()); ok {
			m.AddAgent(ranger)
		}
	}
	for i := 0; i < cfg.Spawns.Jeeps; i++ {
		if jeep, ok := catalog.NewJeep(grid.Entrance.Center()); ok {
			m.AddWaitingJeep(jeep)
		}
	}
	m.flushPending()

	return md, nil
}
