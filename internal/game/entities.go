package game

import (
	"image/color"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"flight-game/internal/engineconfig"
	"flight-game/internal/flight"
	"flight-game/internal/physics"
	"flight-game/internal/spline"
)

// Watermelon is a dropped projectile falling under gravity.
type Watermelon struct {
	*physics.Body
	Collided bool
	Width    float64
}

// newMelon releases a melon from the plane: same orientation, placed at the
// plane-space drop offset, carrying only the plane's horizontal velocity.
func newMelon(cfg engineconfig.Melon, gravity float64, p *flight.Plane) (*Watermelon, error) {
	body, err := physics.NewBody(cfg.Mass, cfg.Inertia)
	if err != nil {
		return nil, err
	}
	body.SetForce(physics.Gravity, mgl64.Vec3{0, -gravity * cfg.Mass, 0})
	pos := p.Transform().Mul4x1(mgl64.Vec3(cfg.DropOffset).Vec4(1)).Vec3()
	body.Place(pos, p.Orientation)
	body.Velocity = mgl64.Vec3{p.Velocity.X(), 0, p.Velocity.Z()}
	return &Watermelon{Body: body, Width: cfg.Width}, nil
}

// Cat is the hazard. It stands on the ground until hit, then grows.
type Cat struct {
	Center mgl64.Vec3
	Color  color.RGBA
	Hit    bool
	HitAt  time.Duration
}

// NewCat returns a cat at center with y forced to ground level.
func NewCat(center mgl64.Vec3, c color.RGBA) *Cat {
	center[1] = 0
	return &Cat{Center: center, Color: c}
}

// Strike starts the growth animation.
func (c *Cat) Strike(now time.Duration) {
	c.Hit = true
	c.HitAt = now
}

// Growth is the animation scale after a hit: elapsed/period capped at max.
func (c *Cat) Growth(now time.Duration, cfg engineconfig.Cat) float64 {
	if !c.Hit || cfg.GrowthPeriod <= 0 {
		return 0
	}
	return math.Min(float64(now-c.HitAt)/float64(cfg.GrowthPeriod), cfg.MaxGrowth)
}

// Location is the cat's world transform (translation only).
func (c *Cat) Location() mgl64.Mat4 {
	return mgl64.Translate3D(c.Center.X(), c.Center.Y(), c.Center.Z())
}

// Target is a scoring pad that slides back and forth along a spline.
type Target struct {
	Radius     float64
	Trajectory *spline.Hermite
	Center     mgl64.Vec3

	started  bool
	t0       time.Duration
	scored   bool
	ScoredAt time.Duration
}

// NewTarget places a target at the start of its trajectory.
func NewTarget(radius float64, trajectory *spline.Hermite) *Target {
	return &Target{Radius: radius, Trajectory: trajectory, Center: trajectory.Position(0)}
}

// Update moves the target. The curve parameter eases between 0 and 1 with
// a period of 4π seconds, starting at 0 on the first update.
func (t *Target) Update(now time.Duration) {
	if !t.started {
		t.started = true
		t.t0 = now
	}
	sec := (now - t.t0).Seconds()
	s := 0.5 + 0.5*math.Sin(sec/2-math.Pi/2)
	t.Center = t.Trajectory.Position(s)
}

// MarkScored starts the highlight window.
func (t *Target) MarkScored(now time.Duration) {
	t.scored = true
	t.ScoredAt = now
}

// Highlighted reports whether the highlight window started by the last
// score is still open.
func (t *Target) Highlighted(now time.Duration, window time.Duration) bool {
	return t.scored && now-t.ScoredAt < window
}

// PowerUp is a floating pickup that grants bonus score once.
type PowerUp struct {
	Center mgl64.Vec3
	Radius float64
	Valid  bool
}

// TryCollect consumes the pickup when a sphere of the given radius around
// center touches it. It reports whether it was consumed by this call.
func (p *PowerUp) TryCollect(center mgl64.Vec3, radius float64) bool {
	if !p.Valid || p.Center.Sub(center).Len() >= p.Radius+radius {
		return false
	}
	p.Valid = false
	return true
}
