// Package particles runs the debris simulation: point masses under gravity
// with a penalty ground contact, optional springs, and a fixed micro-step.
package particles

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand/v2"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"flight-game/internal/engineconfig"
	"flight-game/internal/render"
)

var (
	// ErrInvalidParticle is returned by AddParticle for a non-positive mass.
	ErrInvalidParticle = errors.New("particles: mass must be positive")
	// ErrInvalidSpring is returned by AddSpring for nil or identical endpoints
	// or negative coefficients.
	ErrInvalidSpring = errors.New("particles: invalid spring")
)

// Method selects the integration scheme.
type Method uint8

const (
	Symplectic Method = iota
	ExplicitEuler
)

// ParseMethod maps a config value to a Method. Anything but "euler" is symplectic.
func ParseMethod(s string) Method {
	if s == "euler" {
		return ExplicitEuler
	}
	return Symplectic
}

// Particle is one debris point.
type Particle struct {
	Mass         float64
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Acceleration mgl64.Vec3
	Force        mgl64.Vec3
	Age          int
	Color        color.RGBA

	dead bool
}

func (p *Particle) integrate(dt float64, m Method) {
	p.Acceleration = p.Force.Mul(1 / p.Mass)
	switch m {
	case ExplicitEuler:
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		p.Velocity = p.Velocity.Add(p.Acceleration.Mul(dt))
	default:
		p.Velocity = p.Velocity.Add(p.Acceleration.Mul(dt))
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
	}
}

// System owns particles and springs. Not safe for concurrent use.
type System struct {
	cfg    engineconfig.Particles
	method Method
	rng    *rand.Rand

	particles []*Particle
	springs   []*Spring
	acc       float64
}

// New returns an empty system. rng drives burst jitter and velocities.
func New(cfg engineconfig.Particles, rng *rand.Rand) *System {
	return &System{cfg: cfg, method: ParseMethod(cfg.Method), rng: rng}
}

// SetMethod switches the integration scheme.
func (s *System) SetMethod(m Method) { s.method = m }

// AddParticle adds a particle and returns it.
func (s *System) AddParticle(mass float64, pos, vel mgl64.Vec3, c color.RGBA) (*Particle, error) {
	if mass <= 0 {
		return nil, fmt.Errorf("add particle (mass %v): %w", mass, ErrInvalidParticle)
	}
	p := &Particle{Mass: mass, Position: pos, Velocity: vel, Color: c}
	s.particles = append(s.particles, p)
	return p, nil
}

// Particles returns the live particles, oldest first.
func (s *System) Particles() []*Particle { return slices.Clone(s.particles) }

// Len is the number of live particles.
func (s *System) Len() int { return len(s.particles) }

// Springs is the number of live springs.
func (s *System) Springs() int { return len(s.springs) }

// Clear drops every particle and spring and the pending micro-step time.
func (s *System) Clear() {
	s.particles = nil
	s.springs = nil
	s.acc = 0
}

// Update advances by frameDt seconds of fixed micro-steps, then ages every
// particle by one tick and removes the expired ones. It returns the number
// of micro-steps run. When MaxCatchUp steps are not enough to consume the
// frame, the rest of the frame time is dropped.
func (s *System) Update(frameDt float64) int {
	steps := 0
	if frameDt > 0 && s.cfg.Step > 0 {
		s.acc += frameDt
		for s.acc >= s.cfg.Step {
			if s.cfg.MaxCatchUp > 0 && steps >= s.cfg.MaxCatchUp {
				s.acc = 0
				break
			}
			s.Step(s.cfg.Step)
			s.acc -= s.cfg.Step
			steps++
		}
	}
	s.tick()
	return steps
}

// Step runs one micro-step of dt seconds.
func (s *System) Step(dt float64) {
	g := mgl64.Vec3(s.cfg.Gravity)
	for _, p := range s.particles {
		p.Force = g.Mul(p.Mass)
		y, vy := p.Position.Y(), p.Velocity.Y()
		if y < 0 && vy < 0 {
			ground := mgl64.Vec3{0, s.cfg.GroundKs * -y, 0}.Sub(p.Velocity.Mul(s.cfg.GroundKd))
			p.Force = p.Force.Add(ground)
		}
	}
	for _, sp := range s.springs {
		sp.apply()
	}
	for _, p := range s.particles {
		p.integrate(dt, s.method)
	}
}

func (s *System) tick() {
	for _, p := range s.particles {
		p.Age++
		if s.cfg.MaxAge > 0 && p.Age >= s.cfg.MaxAge {
			p.dead = true
		}
	}
	s.sweep()
}

// sweep drops dead particles and any spring attached to one.
func (s *System) sweep() {
	s.particles = slices.DeleteFunc(s.particles, func(p *Particle) bool { return p.dead })
	s.springs = slices.DeleteFunc(s.springs, func(sp *Spring) bool { return sp.P1.dead || sp.P2.dead })
}

// prune removes the oldest particles once the cap is exceeded, at least
// PruneBatch of them.
func (s *System) prune() {
	if s.cfg.MaxParticles <= 0 || len(s.particles) <= s.cfg.MaxParticles {
		return
	}
	n := max(s.cfg.PruneBatch, len(s.particles)-s.cfg.MaxParticles)
	n = min(n, len(s.particles))
	for _, p := range s.particles[:n] {
		p.dead = true
	}
	s.sweep()
}

// Render draws each particle as a small sphere.
func (s *System) Render(sink render.Sink) {
	for _, p := range s.particles {
		m := mgl64.Translate3D(p.Position.X(), p.Position.Y(), p.Position.Z()).Mul4(mgl64.Scale3D(0.4, 0.4, 0.4))
		sink.Draw(render.ShapeDebris, m, render.Material{Color: p.Color, Ambient: 0.6})
	}
}
