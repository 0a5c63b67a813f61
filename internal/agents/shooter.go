package agents

import (
	"github.com/henriktoth/safarimanager/internal/events"
	"github.com/henriktoth/safarimanager/internal/world"
)

// bulletCooldown is the time between shots, in time-units.
const bulletCooldown = 1.0

// Short rest taken by shooters after reaching a destination.
const (
	shooterRestMin = 5.0
	shooterRestMax = 9.0
)

// Shooter adds target acquisition and combat to an agent. Rangers and
// poachers embed it; the bullet timer keeps counting even while resting, so
// an engaged shooter does not stop firing to catch its breath.
type Shooter struct {
	Base

	bullet  float64
	target  Mortal
	chasing Agent
}

// NewShooter creates the shared shooter state for a kind at a position.
func NewShooter(kind string, attrs Attrs, pos world.Position) Shooter {
	return Shooter{Base: NewBase(kind, attrs, pos)}
}

// ShootingTarget returns the current shooting target, or nil.
func (s *Shooter) ShootingTarget() Agent {
	if s.target == nil {
		return nil
	}
	return s.target
}

// Chasing returns the agent currently being pursued, or nil.
func (s *Shooter) Chasing() Agent { return s.chasing }

func (s *Shooter) setTarget(m Mortal) { s.target = m }

func (s *Shooter) startChase(a Agent) {
	s.chasing = a
	s.SetPath(a.Pos())
}

func (s *Shooter) stopChase() { s.chasing = nil }

// updateBullet advances the cooldown and, on expiry with a live target,
// resolves the shot. A resolved shot forces an important perception refresh
// next tick. Returns the victim when the shot lands.
func (s *Shooter) updateBullet(env Env, dt float64) Mortal {
	if s.target == nil {
		return nil
	}
	if s.target.IsDead() {
		s.target = nil
		return nil
	}

	s.bullet += dt
	if s.bullet < bulletCooldown {
		return nil
	}
	s.bullet = 0
	s.markImportant()

	if s.target.ResolveShot(env) {
		victim := s.target
		s.target = nil
		return victim
	}
	return nil
}

// resolveShooterShot rolls the shooter hit chance (50%) and emits the death
// event on a hit. Concrete kinds wrap this to add their own teardown.
func (s *Shooter) resolveShooterShot(env Env) bool {
	if env.Rand().Float64() >= 0.5 {
		return false
	}
	s.markDead()
	env.Emit(events.Event{Kind: events.ShooterDied, AgentID: s.id})
	return true
}

// updateChase re-targets the path at the chased agent's current position,
// dropping the pursuit when the quarry died or vanished.
func (s *Shooter) updateChase() {
	if s.chasing == nil {
		return
	}
	if s.chasing.IsDead() {
		s.chasing = nil
		s.ClearPath()
		return
	}
	s.SetPath(s.chasing.Pos())
}
