package particles

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Spring is a damped spring between two particles. It is removed when
// either end expires.
type Spring struct {
	P1, P2     *Particle
	Ks, Kd     float64
	RestLength float64
}

// AddSpring connects p1 and p2. Both must be distinct live particles and
// ks, kd and rest must be non-negative.
func (s *System) AddSpring(p1, p2 *Particle, ks, kd, rest float64) (*Spring, error) {
	switch {
	case p1 == nil || p2 == nil:
		return nil, fmt.Errorf("add spring: nil endpoint: %w", ErrInvalidSpring)
	case p1 == p2:
		return nil, fmt.Errorf("add spring: endpoints are the same particle: %w", ErrInvalidSpring)
	case p1.dead || p2.dead:
		return nil, fmt.Errorf("add spring: expired endpoint: %w", ErrInvalidSpring)
	case ks < 0 || kd < 0 || rest < 0:
		return nil, fmt.Errorf("add spring (ks %v, kd %v, rest %v): %w", ks, kd, rest, ErrInvalidSpring)
	}
	sp := &Spring{P1: p1, P2: p2, Ks: ks, Kd: kd, RestLength: rest}
	s.springs = append(s.springs, sp)
	return sp, nil
}

// Force returns the force the spring applies to P1; P2 receives the negation.
// Coincident endpoints yield zero.
func (sp *Spring) Force() mgl64.Vec3 {
	d := sp.P2.Position.Sub(sp.P1.Position)
	l := d.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	dir := d.Mul(1 / l)
	stretch := dir.Mul(sp.Ks * (l - sp.RestLength))
	damp := dir.Mul(sp.Kd * sp.P2.Velocity.Sub(sp.P1.Velocity).Dot(dir))
	return stretch.Add(damp)
}

func (sp *Spring) apply() {
	f := sp.Force()
	sp.P1.Force = sp.P1.Force.Add(f)
	sp.P2.Force = sp.P2.Force.Sub(f)
}
