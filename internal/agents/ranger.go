package agents

import (
	"github.com/henriktoth/safarimanager/internal/entropy"
	"github.com/henriktoth/safarimanager/internal/events"
	"github.com/henriktoth/safarimanager/internal/world"
)

// Bounty payout bounds, as a fraction of the base value (carnivore sell
// price, or the fixed poacher bounty).
const (
	bountyMin     = 0.8
	bountyMax     = 1.5
	poacherBounty = 200
)

// Ranger patrols the park, engages poachers on sight, and hunts down
// carnivores. Successful kills pay a randomized bounty.
type Ranger struct {
	Shooter
}

// NewRanger creates a ranger at the position.
func NewRanger(attrs Attrs, pos world.Position) *Ranger {
	return &Ranger{Shooter: NewShooter("ranger", attrs, pos)}
}

// ResolveShot rolls the shooter hit chance (50%).
func (r *Ranger) ResolveShot(env Env) bool {
	return r.resolveShooterShot(env)
}

func (r *Ranger) Act(env Env, dt float64) {
	if r.dead {
		return
	}
	env.Perceive(r, r.takeImportant())

	r.acquire(env)
	if victim := r.updateBullet(env, dt); victim != nil {
		r.payBounty(env, victim)
	}

	if r.coolRest(dt) {
		return
	}

	r.updateChase()
	if r.pathTo == nil && r.chasing == nil {
		if target := r.wanderTarget(env.Rand()); target != nil {
			r.SetPath(*target)
		}
	}

	if r.move(env, dt) {
		if r.chasing != nil {
			// Caught up: switch to shooting and take a hard look around.
			if m, ok := r.chasing.(Mortal); ok && !m.IsDead() {
				r.setTarget(m)
			}
			r.stopChase()
			r.markImportant()
		} else {
			r.restFor(env.Rand(), shooterRestMin, shooterRestMax)
		}
	}
}

// acquire picks targets from the current view. Poachers are engaged
// immediately at range and pursued; carnivores are only pursued, the shot
// comes when the ranger catches up.
func (r *Ranger) acquire(env Env) {
	if r.target == nil {
		if p := r.nearestPoacher(); p != nil {
			r.setTarget(p)
			r.startChase(p)
			return
		}
	}
	if r.chasing == nil && r.target == nil {
		if c := r.nearestCarnivore(); c != nil {
			r.startChase(c)
		}
	}
}

func (r *Ranger) nearestPoacher() *Poacher {
	var best *Poacher
	bestDist := -1.0
	for _, s := range r.visSprites {
		p, ok := s.(*Poacher)
		if !ok || p.IsDead() {
			continue
		}
		dx := p.pos.X - r.pos.X
		dy := p.pos.Y - r.pos.Y
		if d := dx*dx + dy*dy; bestDist < 0 || d < bestDist {
			bestDist = d
			best = p
		}
	}
	return best
}

func (r *Ranger) nearestCarnivore() *Carnivore {
	var best *Carnivore
	bestDist := -1.0
	for _, s := range r.visSprites {
		c, ok := s.(*Carnivore)
		if !ok || c.IsDead() {
			continue
		}
		dx := c.pos.X - r.pos.X
		dy := c.pos.Y - r.pos.Y
		if d := dx*dx + dy*dy; bestDist < 0 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// payBounty emits the bounty for a confirmed kill: 80-150% of the carnivore
// sell price, or of the fixed poacher bounty.
func (r *Ranger) payBounty(env Env, victim Mortal) {
	base := 0
	switch v := victim.(type) {
	case *Carnivore:
		base = v.Attrs().SellPrice
	case *Poacher:
		base = poacherBounty
	default:
		return
	}
	amount := int(entropy.Between(env.Rand(), bountyMin, bountyMax) * float64(base))
	env.Emit(events.Event{Kind: events.BountyEarned, AgentID: r.id, Amount: amount})
}
