// Package camera computes a smoothed chase view behind the plane.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Chase follows a body from behind and above. Eye and Target ease towards
// their goals exponentially, so the view lags slightly in turns.
type Chase struct {
	Distance  float32 // behind the body along its heading
	Height    float32 // above the body
	LookAhead float32 // target point in front of the body
	Stiffness float32 // 1/s; larger follows faster, <= 0 snaps

	Eye    mgl32.Vec3
	Target mgl32.Vec3
	primed bool
}

// NewChase returns a chase camera with defaults tuned for the plane.
func NewChase() *Chase {
	return &Chase{Distance: 28, Height: 9, LookAhead: 20, Stiffness: 4}
}

// Update moves the camera towards the view behind the body at transform.
// The first call snaps.
func (c *Chase) Update(transform mgl64.Mat4, dt float32) {
	pos := mgl32.Vec3{float32(transform[12]), float32(transform[13]), float32(transform[14])}
	fw := mgl32.Vec3{float32(transform[8]), 0, float32(transform[10])}
	if fw.Len() < 1e-6 {
		fw = mgl32.Vec3{0, 0, 1}
	} else {
		fw = fw.Normalize()
	}
	eye := pos.Sub(fw.Mul(c.Distance)).Add(mgl32.Vec3{0, c.Height, 0})
	target := pos.Add(fw.Mul(c.LookAhead))

	k := c.Blend(dt)
	if !c.primed {
		k = 1
		c.primed = true
	}
	c.Eye = c.Eye.Add(eye.Sub(c.Eye).Mul(k))
	c.Target = c.Target.Add(target.Sub(c.Target).Mul(k))
}

// Blend is the fraction of the remaining distance covered in dt seconds.
func (c *Chase) Blend(dt float32) float32 {
	if c.Stiffness <= 0 {
		return 1
	}
	if dt <= 0 {
		return 0
	}
	return 1 - math32.Exp(-c.Stiffness*dt)
}

// Reset makes the next Update snap.
func (c *Chase) Reset() { c.primed = false }
