// Package flight implements the player airplane: control flags plus the
// aerodynamic force generator that drives its rigid body.
package flight

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"flight-game/internal/engineconfig"
	"flight-game/internal/physics"
)

// Controls are the player's held inputs for one step.
type Controls struct {
	Thrust       bool
	PitchForward bool
	PitchBack    bool
	RollLeft     bool
	RollRight    bool
	YawLeft      bool
	YawRight     bool
	Brake        bool
}

// Plane is a rigid body steered by Controls.
type Plane struct {
	*physics.Body

	Controls Controls
	// Width is the collision half-width used against the cat box.
	Width float64

	params  engineconfig.Flight
	profile engineconfig.Profile
}

// New returns a plane at the origin with gravity already applied.
func New(params engineconfig.Flight, gravity float64) (*Plane, error) {
	body, err := physics.NewBody(params.Mass, params.Inertia)
	if err != nil {
		return nil, fmt.Errorf("new plane: %w", err)
	}
	body.SetForce(physics.Gravity, mgl64.Vec3{0, -gravity * params.Mass, 0})
	return &Plane{
		Body:    body,
		Width:   params.Width,
		params:  params,
		profile: params.Slow,
	}, nil
}

// Profile returns the profile used by the most recent step.
func (p *Plane) Profile() engineconfig.Profile { return p.profile }

// Fast reports whether the most recent step used the fast profile.
func (p *Plane) Fast() bool { return p.profile == p.params.Fast && p.params.Fast != p.params.Slow }

// Step picks the profile for score, recomputes every generator-driven force
// and torque, then integrates. A score change therefore only affects the
// forces from the following call on.
func (p *Plane) Step(dt float64, score int) {
	p.Body.Step(dt, p.Generator(p.params.ProfileFor(score)))
}

// Generator returns the force generator for the given profile.
func (p *Plane) Generator(profile engineconfig.Profile) physics.ForceGenerator {
	return func(b *physics.Body) {
		p.profile = profile
		c := p.Controls
		f := p.params

		if c.Thrust {
			b.SetForce(physics.Thrust, b.Forward().Mul(profile.Thrust))
		} else {
			b.SetForce(physics.Thrust, mgl64.Vec3{})
		}

		horizontal := mgl64.Vec3{b.Velocity.X(), 0, b.Velocity.Z()}
		speedSq := horizontal.LenSqr()
		drag := profile.Drag
		if c.Brake {
			drag += f.BrakeDrag
		}
		b.SetForce(physics.DragHorizontal, normalizeOrZero(horizontal).Mul(-speedSq*drag))

		vy := b.Velocity.Y()
		b.SetForce(physics.DragVertical, mgl64.Vec3{0, -sign(vy) * vy * vy * f.VerticalDrag, 0})

		up := b.Up()
		liftDir := mgl64.Vec3{up.X(), up.Y(), 0}
		b.SetForceAt(physics.Lift, liftDir.Mul(speedSq*profile.Lift), mgl64.Vec3(f.LiftPoint))

		roll := tilt(up.X(), up.Y())
		pitch := tilt(up.Z(), up.Y())
		b.SetTorque(physics.RollCorrection, mgl64.Vec3{0, 0, f.RollCorrection * roll})
		b.SetTorque(physics.PitchCorrection, mgl64.Vec3{-f.PitchCorrection * pitch, 0, 0})

		b.SetTorque(physics.AngularDrag, b.AngularVelocity.Mul(-f.AngularDrag))

		steer := func(slot physics.TorqueSlot, on bool, local mgl64.Vec3) {
			if on {
				b.SetTorque(slot, b.Rotate(local))
			} else {
				b.SetTorque(slot, mgl64.Vec3{})
			}
		}
		steer(physics.PitchForward, c.PitchForward, mgl64.Vec3{f.PitchStrength, 0, 0})
		steer(physics.PitchBack, c.PitchBack, mgl64.Vec3{-f.PitchStrength, 0, 0})
		steer(physics.RollLeft, c.RollLeft, mgl64.Vec3{0, 0, -f.RollStrength})
		steer(physics.RollRight, c.RollRight, mgl64.Vec3{0, 0, f.RollStrength})
		steer(physics.YawLeft, c.YawLeft, mgl64.Vec3{0, f.YawStrength, 0})
		steer(physics.YawRight, c.YawRight, mgl64.Vec3{0, -f.YawStrength, 0})
	}
}

// Altitude is the height of the plane's center above the ground plane.
func (p *Plane) Altitude() float64 { return p.Position.Y() }

// Speed is the magnitude of the plane's velocity.
func (p *Plane) Speed() float64 { return p.Velocity.Len() }

// Heading is the compass bearing of the horizontal forward axis in degrees,
// 0 along +Z and increasing towards +X.
func (p *Plane) Heading() float64 {
	fw := p.Forward()
	if fw.X() == 0 && fw.Z() == 0 {
		return 0
	}
	deg := mgl64.RadToDeg(math.Atan2(fw.X(), fw.Z()))
	if deg < 0 {
		deg += 360
	}
	return deg
}

// HorizontalHeading is the unit forward direction projected on the ground
// plane, or +Z when the plane points straight up or down.
func (p *Plane) HorizontalHeading() mgl64.Vec3 {
	fw := p.Forward()
	h := mgl64.Vec3{fw.X(), 0, fw.Z()}
	if h.LenSqr() == 0 {
		return mgl64.Vec3{0, 0, 1}
	}
	return h.Normalize()
}

// tilt returns atan(n/d), saturating at ±π/2 when d is zero.
func tilt(n, d float64) float64 {
	if d == 0 {
		switch {
		case n > 0:
			return math.Pi / 2
		case n < 0:
			return -math.Pi / 2
		default:
			return 0
		}
	}
	return math.Atan(n / d)
}

func normalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
