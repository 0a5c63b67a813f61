package agents

import (
	"testing"

	"github.com/henriktoth/safarimanager/internal/entropy"
	"github.com/henriktoth/safarimanager/internal/events"
	"github.com/henriktoth/safarimanager/internal/world"
)

func TestRangerAndPoacherTargetEachOther(t *testing.T) {
	// 0.9 misses every 50% shot and keeps wander draws harmless.
	env := newFakeEnv(world.NewGrid(8, 8, testSand), entropy.NewFixed(0.9))

	ranger := NewRanger(Attrs{Speed: 5, ViewDistance: 4}, world.Position{X: 2.5, Y: 2.5})
	poacher := NewPoacher(Attrs{Speed: 5, ViewDistance: 4}, world.Position{X: 3.5, Y: 3.5})
	env.sprites = []Agent{ranger, poacher}

	ranger.Act(env, 1)
	poacher.Act(env, 1)

	if ranger.ShootingTarget() != Agent(poacher) {
		t.Error("ranger should engage the visible poacher at range")
	}
	if ranger.Chasing() != Agent(poacher) {
		t.Error("ranger should pursue the visible poacher")
	}
	if poacher.ShootingTarget() != Agent(ranger) {
		t.Error("poacher should return fire at the visible ranger")
	}
	if ranger.IsDead() || poacher.IsDead() {
		t.Error("forced misses should leave both standing")
	}
}

func TestRangerKillPaysBounty(t *testing.T) {
	// First draw 0.4 lands the shot, second draw 0.0 pins the bounty at the
	// low end of the 80-150% band.
	env := newFakeEnv(world.NewGrid(8, 8, testSand), entropy.NewFixed(0.4, 0.0))

	ranger := NewRanger(Attrs{Speed: 5, ViewDistance: 4}, world.Position{X: 2.5, Y: 2.5})
	ranger.AssignID(1)
	poacher := NewPoacher(Attrs{Speed: 5, ViewDistance: 4}, world.Position{X: 3.5, Y: 3.5})
	poacher.AssignID(2)
	env.sprites = []Agent{ranger, poacher}

	ranger.Act(env, 1)

	if !poacher.IsDead() {
		t.Fatal("poacher should be down")
	}
	evs := env.queue.Drain()
	if len(evs) != 2 {
		t.Fatalf("got %d events, want shooter-died then bounty-earned", len(evs))
	}
	if evs[0].Kind != events.ShooterDied || evs[0].AgentID != 2 {
		t.Errorf("first event = %+v, want shooter-died for the poacher", evs[0])
	}
	if evs[1].Kind != events.BountyEarned || evs[1].AgentID != 1 || evs[1].Amount != 160 {
		t.Errorf("second event = %+v, want bounty-earned of 160 for the ranger", evs[1])
	}
}

func TestRangerChasesCarnivoreWithoutShooting(t *testing.T) {
	env := newFakeEnv(world.NewGrid(8, 8, testSand), entropy.NewFixed(0.9))

	ranger := NewRanger(Attrs{Speed: 1, ViewDistance: 5}, world.Position{X: 2.5, Y: 2.5})
	lion := NewCarnivore("lion", Attrs{Speed: 5, ViewDistance: 4, SellPrice: 300}, world.Position{X: 6.5, Y: 6.5})
	env.sprites = []Agent{ranger, lion}

	ranger.Act(env, 0.1)

	if ranger.Chasing() != Agent(lion) {
		t.Error("ranger should pursue the visible carnivore")
	}
	if ranger.ShootingTarget() != nil {
		t.Error("the shot on a carnivore comes only after catching up")
	}
}

func TestRestingShooterKeepsFiring(t *testing.T) {
	env := newFakeEnv(world.NewGrid(8, 8, testSand), entropy.NewFixed(0.9))

	ranger := NewRanger(Attrs{Speed: 5, ViewDistance: 4}, world.Position{X: 2.5, Y: 2.5})
	ranger.resting = 5
	poacher := NewPoacher(Attrs{Speed: 5, ViewDistance: 4}, world.Position{X: 3.5, Y: 3.5})
	env.sprites = []Agent{ranger, poacher}

	ranger.Act(env, 1)

	if ranger.Pos() != (world.Position{X: 2.5, Y: 2.5}) {
		t.Errorf("resting ranger moved to %v", ranger.Pos())
	}
	if ranger.bullet != 0 {
		// One full time-unit elapsed, so the cooldown expired and the shot
		// was taken (and missed) during the rest.
		t.Errorf("bullet timer = %v, want a reset after firing", ranger.bullet)
	}
	if ranger.Resting() != 4 {
		t.Errorf("resting = %v, want 4 after one time-unit", ranger.Resting())
	}
}

func TestPoacherRobsChasedAnimal(t *testing.T) {
	env := newFakeEnv(world.NewGrid(8, 8, testSand), nil)

	prey := NewHerbivore("gazelle", Attrs{Speed: 5, ViewDistance: 3}, world.Position{X: 3.0, Y: 3.0})
	poacher := NewPoacher(Attrs{Speed: 20, ViewDistance: 4}, world.Position{X: 2.5, Y: 2.5})
	env.sprites = []Agent{prey, poacher}

	poacher.Act(env, 1)

	if !prey.Captured {
		t.Fatal("caught animal should be captured")
	}
	if poacher.Carrying() != prey.AnimalState() {
		t.Error("poacher should carry the captured animal")
	}
	if poacher.PathTo() == nil || *poacher.PathTo() != env.ExitCell().Center() {
		t.Error("poacher should head for the exit after the grab")
	}
}

func TestPoacherEscapesWithAnimal(t *testing.T) {
	env := newFakeEnv(world.NewGrid(8, 8, testSand), nil)

	prey := NewHerbivore("gazelle", Attrs{Speed: 5, ViewDistance: 3}, world.Position{X: 7.3, Y: 4.3})
	prey.AssignID(9)
	prey.Captured = true
	poacher := NewPoacher(Attrs{Speed: 20, ViewDistance: 4}, world.Position{X: 7.3, Y: 4.3})
	poacher.AssignID(4)
	poacher.carrying = prey.AnimalState()
	env.sprites = []Agent{prey, poacher}

	poacher.Act(env, 1)

	if !poacher.IsDead() {
		t.Fatal("escaped poacher should leave the map")
	}
	if !prey.IsDead() {
		t.Error("the carried animal is lost at the exit")
	}
	kinds := env.drainKinds()
	if !hasKind(kinds, events.PoacherEscaped) || !hasKind(kinds, events.AnimalDied) {
		t.Errorf("events = %v, want poacher-escaped and animal-died", kinds)
	}
}

func TestDownedPoacherReleasesAnimal(t *testing.T) {
	// 0.4 lands the 50% shot.
	env := newFakeEnv(world.NewGrid(8, 8, testSand), entropy.NewFixed(0.4))

	prey := NewHerbivore("gazelle", Attrs{Speed: 5, ViewDistance: 3}, world.Position{X: 5.5, Y: 5.5})
	prey.Captured = true
	poacher := NewPoacher(Attrs{Speed: 5, ViewDistance: 4}, world.Position{X: 5.5, Y: 5.5})
	poacher.carrying = prey.AnimalState()

	if !poacher.ResolveShot(env) {
		t.Fatal("shot should land")
	}
	if prey.Captured {
		t.Error("downed poacher should release the animal")
	}
	if poacher.Carrying() != nil {
		t.Error("carried reference should clear")
	}
}
