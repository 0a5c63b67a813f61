package park

import (
	"testing"

	"github.com/henriktoth/safarimanager/internal/agents"
	"github.com/henriktoth/safarimanager/internal/entropy"
	"github.com/henriktoth/safarimanager/internal/world"
)

func testModel(rng entropy.Source, goal Goal) *Model {
	if rng == nil {
		rng = entropy.NewSeeded(1)
	}
	cfg := DefaultConfig()
	cfg.Economy.StartingBalance = 1000
	cfg.Economy.EntryFee = 30
	cfg.Economy.ChipPrice = 50
	m := testMap(rng)
	return NewModel(m, m.catalog, cfg, goal, rng)
}

func TestOpenRequiresRoadPath(t *testing.T) {
	rng := entropy.NewSeeded(1)
	cfg := DefaultConfig()
	noRoad := NewMap(world.NewGrid(10, 10, sandKind), testCatalog(), cfg.Spawns, rng)
	md := NewModel(noRoad, noRoad.catalog, cfg, Goal{}, rng)

	if md.Open() {
		t.Fatal("park without a road path must not open")
	}
	if md.IsOpen() {
		t.Error("open flag should be unchanged after the rejected call")
	}

	md2 := testModel(nil, Goal{})
	if !md2.Open() {
		t.Fatal("park with a connecting road should open")
	}
}

func TestSpeedControlsSimulatedTime(t *testing.T) {
	tests := []struct {
		name  string
		speed Speed
		want  float64
	}{
		{name: "hour", speed: SpeedHour, want: 1},
		{name: "day", speed: SpeedDay, want: 24},
		{name: "week", speed: SpeedWeek, want: 168},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			md := testModel(nil, Goal{Days: 1000})
			md.SetSpeed(tc.speed)
			md.Tick(1)
			if md.Clock() != tc.want {
				t.Errorf("clock = %v, want %v sim-minutes per outer tick", md.Clock(), tc.want)
			}
		})
	}
}

func TestSetSpeedRejectsUnknownLevels(t *testing.T) {
	md := testModel(nil, Goal{})
	md.SetSpeed(SpeedDay)
	md.SetSpeed(Speed(99))
	if md.Speed() != SpeedDay {
		t.Errorf("speed = %v, want unknown level ignored", md.Speed())
	}
}

func TestBuyTile(t *testing.T) {
	md := testModel(nil, Goal{})

	if !md.BuyTile(world.Cell{X: 3, Y: 3}, "water") {
		t.Fatal("affordable purchase should succeed")
	}
	if md.Balance != 1000-waterKind.Price {
		t.Errorf("balance = %d, want price deducted", md.Balance)
	}
	tile, _ := md.Map.Grid.TileAt(world.Cell{X: 3, Y: 3})
	if tile.Kind.ID != "water" {
		t.Errorf("tile kind = %q, want water placed", tile.Kind.ID)
	}

	if md.BuyTile(world.Cell{X: -1, Y: 3}, "water") {
		t.Error("out-of-bounds purchase should fail")
	}
	if md.BuyTile(world.Cell{X: 3, Y: 4}, "lava") {
		t.Error("unknown kind should fail")
	}
}

func TestPurchaseRejectedWithoutFunds(t *testing.T) {
	md := testModel(nil, Goal{})
	md.Balance = 10

	if md.BuyTile(world.Cell{X: 3, Y: 3}, "road") {
		t.Error("tile purchase should fail on insufficient balance")
	}
	if _, ok := md.BuyAnimal("gazelle", world.Cell{X: 3, Y: 3}, 1); ok {
		t.Error("animal purchase should fail on insufficient balance")
	}
	if md.BuyJeep() {
		t.Error("jeep purchase should fail on insufficient balance")
	}
	if md.HireRanger() {
		t.Error("hire should fail on insufficient balance")
	}
	if md.Balance != 10 {
		t.Errorf("balance = %d, want untouched after rejected purchases", md.Balance)
	}
	if md.Map.GroupCount() != 0 {
		t.Error("rejected purchase must not register a group")
	}
}

func TestBuyAnimalEnrollsGroup(t *testing.T) {
	md := testModel(nil, Goal{})
	gid := md.NewGroupID()

	animal, ok := md.BuyAnimal("gazelle", world.Cell{X: 3, Y: 3}, gid)
	if !ok {
		t.Fatal("purchase should succeed")
	}
	if md.Balance != 1000-100 {
		t.Errorf("balance = %d, want price deducted", md.Balance)
	}
	if animal.AnimalState().Group != gid {
		t.Error("animal should carry the group id")
	}
	if kind, _ := md.Map.GroupKind(gid); kind != "gazelle" {
		t.Errorf("group kind = %q, want gazelle", kind)
	}
}

func TestSellAnimal(t *testing.T) {
	md := testModel(nil, Goal{})
	animal, _ := md.BuyAnimal("lion", world.Cell{X: 3, Y: 3}, md.NewGroupID())
	md.Map.flushPending()
	balance := md.Balance

	if !md.SellAnimal(animal.ID()) {
		t.Fatal("sale should succeed")
	}
	if md.Balance != balance+300 {
		t.Errorf("balance = %d, want sell price credited", md.Balance)
	}
	if _, ok := md.Map.AgentByID(animal.ID()); ok {
		t.Error("sold animal should leave the roster")
	}
	if md.SellAnimal(animal.ID()) {
		t.Error("selling an absent animal should fail")
	}
}

func TestBuyChipLightsAnimalAtNight(t *testing.T) {
	md := testModel(nil, Goal{})
	animal, _ := md.BuyAnimal("gazelle", world.Cell{X: 3, Y: 3}, md.NewGroupID())
	md.Map.flushPending()
	balance := md.Balance

	if !md.BuyChip(animal.ID()) {
		t.Fatal("chip purchase should succeed")
	}
	if md.Balance != balance-50 {
		t.Errorf("balance = %d, want chip price deducted", md.Balance)
	}
	if !animal.AnimalState().Chipped {
		t.Error("animal should be chipped")
	}

	found := false
	for _, c := range md.Map.NightCells() {
		if c == (world.Cell{X: 3, Y: 3}) {
			found = true
		}
	}
	if !found {
		t.Error("chipped animal's cell should be in the night draw set")
	}
}

func TestRatingIsRoundedMean(t *testing.T) {
	md := testModel(nil, Goal{})
	if md.Rating() != 3 {
		t.Fatalf("starting rating = %d, want 3", md.Rating())
	}

	md.updateRating([]int{5, 5})
	if md.Rating() != 5 {
		t.Errorf("rating = %d, want 5", md.Rating())
	}
	md.updateRating([]int{1, 1, 1, 1})
	// mean of 5,5,1,1,1,1 = 2.33 rounds to 2
	if md.Rating() != 2 {
		t.Errorf("rating = %d, want 2", md.Rating())
	}
}

func TestDailySalariesFloorAtZero(t *testing.T) {
	md := testModel(nil, Goal{Days: 1000})
	md.HireRanger()
	md.Map.flushPending()
	md.Balance = 10

	md.dailyTick()

	if md.Balance != 0 {
		t.Errorf("balance = %d, want salary deduction floored at 0", md.Balance)
	}
}

func TestGoalStreakWinsAndResets(t *testing.T) {
	md := testModel(nil, Goal{ID: "easy", MinBalance: 500, Days: 3})

	md.dailyTick()
	md.dailyTick()
	if md.Streak() != 2 || md.Won() {
		t.Fatalf("streak = %d won = %v, want 2 and still playing", md.Streak(), md.Won())
	}

	md.Balance = 100 // miss a day
	md.dailyTick()
	if md.Streak() != 0 {
		t.Fatalf("streak = %d, want reset on a missed day", md.Streak())
	}

	md.Balance = 1000
	md.dailyTick()
	md.dailyTick()
	md.dailyTick()
	if !md.Won() {
		t.Error("three straight qualifying days should win")
	}
}

func TestLoseWhenBrokeAndEmpty(t *testing.T) {
	md := testModel(nil, Goal{Days: 1000})
	md.Balance = 0

	md.Tick(0.1)

	if !md.Lost() {
		t.Error("zero balance with zero animals should lose")
	}
}

func TestNotLostWhileAnimalsRemain(t *testing.T) {
	md := testModel(nil, Goal{Days: 1000})
	md.BuyAnimal("gazelle", world.Cell{X: 3, Y: 3}, md.NewGroupID())
	md.Balance = 0

	md.Tick(0.1)

	if md.Lost() {
		t.Error("a surviving animal should keep the park alive")
	}
}

func TestVisitorAdmission(t *testing.T) {
	t.Run("paying visitor admitted", func(t *testing.T) {
		// Draws: arrival roll, three desire rolls, then the spending factor.
		rng := entropy.NewFixed(0.005, 0.0, 0.0, 0.0, 0.9)
		md := testModel(rng, Goal{})
		md.Open()
		balance := md.Balance

		md.maybeSpawnVisitor()

		if md.Map.QueuedVisitors() != 1 {
			t.Fatalf("queued visitors = %d, want 1", md.Map.QueuedVisitors())
		}
		if md.Balance != balance+md.EntryFee {
			t.Errorf("balance = %d, want the entry fee collected", md.Balance)
		}
	})

	t.Run("poor visitor turned away", func(t *testing.T) {
		rng := entropy.NewFixed(0.005, 0.0, 0.0, 0.0, 0.0)
		md := testModel(rng, Goal{})
		md.Open()
		balance := md.Balance

		md.maybeSpawnVisitor()

		if md.Map.QueuedVisitors() != 0 {
			t.Error("visitor below the entry fee should not be admitted")
		}
		if md.Balance != balance {
			t.Error("no fee should be collected from a rejected visitor")
		}
	})

	t.Run("closed park admits nobody", func(t *testing.T) {
		rng := entropy.NewFixed(0.005)
		md := testModel(rng, Goal{})

		md.maybeSpawnVisitor()

		if md.Map.QueuedVisitors() != 0 {
			t.Error("closed park should not queue visitors")
		}
	})
}

func TestBreedingGrowsGroup(t *testing.T) {
	// Breed roll 0.005 always succeeds.
	rng := entropy.NewFixed(0.005)
	md := testModel(rng, Goal{})
	gid := md.NewGroupID()
	for i := 0; i < 2; i++ {
		animal, ok := md.BuyAnimal("gazelle", world.Cell{X: 3 + i, Y: 3}, gid)
		if !ok {
			t.Fatal("setup purchase failed")
		}
		animal.AnimalState().Age = agents.AdultAge
	}
	md.Map.flushPending()

	md.attemptBreeding()

	md.Map.flushPending()
	if got := len(md.Map.Animals()); got != 3 {
		t.Errorf("animal count = %d, want an offspring added", got)
	}
}
