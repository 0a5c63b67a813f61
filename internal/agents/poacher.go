package agents

import (
	"github.com/henriktoth/safarimanager/internal/events"
	"github.com/henriktoth/safarimanager/internal/world"
)

// Poacher sneaks in from the park edge, chases the nearest animal, robs it,
// and flees to the exit with the captured animal in tow. Visible rangers
// are engaged at range in self-defense.
type Poacher struct {
	Shooter

	carrying *Animal
}

// NewPoacher creates a poacher at the position.
func NewPoacher(attrs Attrs, pos world.Position) *Poacher {
	return &Poacher{Shooter: NewShooter("poacher", attrs, pos)}
}

// Carrying returns the captured animal, or nil.
func (p *Poacher) Carrying() *Animal { return p.carrying }

// ResolveShot rolls the shooter hit chance (50%). A downed poacher releases
// whatever it was carrying.
func (p *Poacher) ResolveShot(env Env) bool {
	if !p.resolveShooterShot(env) {
		return false
	}
	if p.carrying != nil {
		p.carrying.Captured = false
		p.carrying = nil
	}
	return true
}

func (p *Poacher) Act(env Env, dt float64) {
	if p.dead {
		return
	}
	env.Perceive(p, p.takeImportant())

	if p.target == nil {
		if r := p.nearestRanger(); r != nil {
			p.setTarget(r)
		}
	}
	p.updateBullet(env, dt)

	if p.carrying != nil {
		p.fleeToExit(env, dt)
		return
	}

	if p.coolRest(dt) {
		return
	}

	if p.chasing == nil {
		if prey := p.nearestAnimal(); prey != nil {
			p.startChase(prey)
		}
	}
	p.updateChase()

	if p.pathTo == nil && p.chasing == nil {
		if target := p.wanderTarget(env.Rand()); target != nil {
			p.SetPath(*target)
		}
	}

	if p.move(env, dt) {
		if p.chasing != nil {
			p.rob(env)
		} else {
			p.restFor(env.Rand(), shooterRestMin, shooterRestMax)
		}
	}
}

// rob captures the chased animal and retargets the map exit.
func (p *Poacher) rob(env Env) {
	quarry, ok := p.chasing.(AnimalAgent)
	p.stopChase()
	if !ok {
		return
	}
	animal := quarry.AnimalState()
	if animal.dead || animal.Captured {
		return
	}
	animal.Captured = true
	p.carrying = animal
	p.SetPath(env.ExitCell().Center())
	p.restFor(env.Rand(), shooterRestMin, shooterRestMax)
	p.markImportant()
}

// fleeToExit drags the captured animal toward the exit. Reaching it loses
// the animal for good and the poacher slips away.
func (p *Poacher) fleeToExit(env Env, dt float64) {
	if p.carrying.dead {
		p.carrying = nil
		return
	}
	if p.coolRest(dt) {
		return
	}
	if p.pathTo == nil {
		p.SetPath(env.ExitCell().Center())
	}
	arrived := p.move(env, dt)
	p.carrying.SetPos(p.pos)
	if arrived && p.pos.Cell() == env.ExitCell() {
		p.carrying.die(env)
		p.carrying = nil
		p.markDead()
		env.Emit(events.Event{Kind: events.PoacherEscaped, AgentID: p.id})
	}
}

func (p *Poacher) nearestRanger() *Ranger {
	var best *Ranger
	bestDist := -1.0
	for _, s := range p.visSprites {
		r, ok := s.(*Ranger)
		if !ok || r.IsDead() {
			continue
		}
		dx := r.pos.X - p.pos.X
		dy := r.pos.Y - p.pos.Y
		if d := dx*dx + dy*dy; bestDist < 0 || d < bestDist {
			bestDist = d
			best = r
		}
	}
	return best
}

func (p *Poacher) nearestAnimal() Agent {
	var best Agent
	bestDist := -1.0
	for _, s := range p.visSprites {
		aa, ok := s.(AnimalAgent)
		if !ok {
			continue
		}
		st := aa.AnimalState()
		if st.dead || st.Captured {
			continue
		}
		pos := aa.Pos()
		dx := pos.X - p.pos.X
		dy := pos.Y - p.pos.Y
		if d := dx*dx + dy*dy; bestDist < 0 || d < bestDist {
			bestDist = d
			best = aa
		}
	}
	return best
}
