// Package spline evaluates piecewise cubic Hermite curves.
package spline

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrTooFewPoints is returned by NewHermite when fewer than two control
// points are given.
var ErrTooFewPoints = errors.New("spline: at least two control points required")

// Knot is one control point and its tangent.
type Knot struct {
	Point   mgl64.Vec3
	Tangent mgl64.Vec3
}

// Hermite is a curve through an ordered list of knots. The parameter range
// [0,1] is split into Len()-1 equal segments, one per consecutive pair.
//
// The zero value is usable and evaluates to the origin until two knots have
// been added.
type Hermite struct {
	knots []Knot
}

// NewHermite builds a curve from at least two knots.
func NewHermite(knots ...Knot) (*Hermite, error) {
	if len(knots) < 2 {
		return nil, fmt.Errorf("new hermite with %d knots: %w", len(knots), ErrTooFewPoints)
	}
	h := &Hermite{knots: make([]Knot, len(knots))}
	copy(h.knots, knots)
	return h, nil
}

// Len returns the number of knots.
func (h *Hermite) Len() int { return len(h.knots) }

// Knots returns a copy of the control points.
func (h *Hermite) Knots() []Knot {
	out := make([]Knot, len(h.knots))
	copy(out, h.knots)
	return out
}

// AddPoint appends a knot.
func (h *Hermite) AddPoint(point, tangent mgl64.Vec3) {
	h.knots = append(h.knots, Knot{Point: point, Tangent: tangent})
}

// SetPoint replaces the position of knot i. Out of range indices are ignored.
func (h *Hermite) SetPoint(i int, point mgl64.Vec3) {
	if i < 0 || i >= len(h.knots) {
		return
	}
	h.knots[i].Point = point
}

// SetTangent replaces the tangent of knot i. Out of range indices are ignored.
func (h *Hermite) SetTangent(i int, tangent mgl64.Vec3) {
	if i < 0 || i >= len(h.knots) {
		return
	}
	h.knots[i].Tangent = tangent
}

// Position evaluates the curve at t. t is clamped to [0,1].
func (h *Hermite) Position(t float64) mgl64.Vec3 {
	a, b, s, ok := h.bracket(t)
	if !ok {
		return mgl64.Vec3{}
	}
	s2, s3 := s*s, s*s*s
	return a.Point.Mul(2*s3 - 3*s2 + 1).
		Add(a.Tangent.Mul(s3 - 2*s2 + s)).
		Add(b.Point.Mul(-2*s3 + 3*s2)).
		Add(b.Tangent.Mul(s3 - s2))
}

// Velocity evaluates the derivative of the curve with respect to the local
// segment parameter at t. t is clamped to [0,1].
func (h *Hermite) Velocity(t float64) mgl64.Vec3 {
	a, b, s, ok := h.bracket(t)
	if !ok {
		return mgl64.Vec3{}
	}
	s2 := s * s
	return a.Point.Mul(6*s2 - 6*s).
		Add(a.Tangent.Mul(3*s2 - 4*s + 1)).
		Add(b.Point.Mul(-6*s2 + 6*s)).
		Add(b.Tangent.Mul(3*s2 - 2*s))
}

func (h *Hermite) bracket(t float64) (a, b Knot, s float64, ok bool) {
	n := len(h.knots)
	if n < 2 || math.IsNaN(t) {
		return Knot{}, Knot{}, 0, false
	}
	t = mgl64.Clamp(t, 0, 1)
	u := t * float64(n-1)
	lo := int(math.Floor(u))
	hi := int(math.Ceil(u))
	return h.knots[lo], h.knots[hi], u - float64(lo), true
}
