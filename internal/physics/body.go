package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrNonPositiveMass is returned when a body is built with mass <= 0.
	ErrNonPositiveMass = errors.New("physics: mass must be positive")
	// ErrNonPositiveInertia is returned when a body is built with a moment of inertia <= 0.
	ErrNonPositiveInertia = errors.New("physics: moment of inertia must be positive")
)

// ForceSlot names one entry of a body's force list.
type ForceSlot uint8

const (
	Gravity ForceSlot = iota
	Thrust
	DragHorizontal
	DragVertical
	Lift
	NumForceSlots
)

// TorqueSlot names one entry of a body's torque list.
type TorqueSlot uint8

const (
	RollCorrection TorqueSlot = iota
	PitchCorrection
	AngularDrag
	PitchForward
	PitchBack
	RollLeft
	RollRight
	YawLeft
	YawRight
	NumTorqueSlots
)

// Force is a world-frame force. When AtPoint is set, Point is a body-space
// application point and the force also contributes a torque.
type Force struct {
	Value   mgl64.Vec3
	Point   mgl64.Vec3
	AtPoint bool
}

// ForceGenerator recomputes a body's generator-driven slots from its current state.
type ForceGenerator func(b *Body)

// Body is a rigid body with a scalar (isotropic) moment of inertia.
// Orientation is a homogeneous matrix with no translation component.
type Body struct {
	Mass    float64
	Inertia float64

	Forces  [NumForceSlots]Force
	Torques [NumTorqueSlots]mgl64.Vec3

	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Position        mgl64.Vec3
	Orientation     mgl64.Mat4

	prevPosition    mgl64.Vec3
	prevOrientation mgl64.Mat4
	render          mgl64.Mat4
}

// NewBody returns a body at rest at the origin with identity orientation.
// mass and inertia must both be positive.
func NewBody(mass, inertia float64) (*Body, error) {
	if mass <= 0 {
		return nil, fmt.Errorf("new body (mass %v): %w", mass, ErrNonPositiveMass)
	}
	if inertia <= 0 {
		return nil, fmt.Errorf("new body (inertia %v): %w", inertia, ErrNonPositiveInertia)
	}
	b := &Body{
		Mass:        mass,
		Inertia:     inertia,
		Orientation: mgl64.Ident4(),
	}
	b.prevOrientation = b.Orientation
	b.render = b.Orientation
	return b, nil
}

// Place moves the body and resets the interpolation snapshot so the next
// blend does not sweep from the old location.
func (b *Body) Place(position mgl64.Vec3, orientation mgl64.Mat4) {
	b.Position = position
	b.Orientation = orientation
	b.prevPosition = position
	b.prevOrientation = orientation
	b.render = b.Transform()
}

// SetForce stores a force acting through the center of mass.
func (b *Body) SetForce(slot ForceSlot, value mgl64.Vec3) {
	b.Forces[slot] = Force{Value: value}
}

// SetForceAt stores a force applied at a body-space point.
func (b *Body) SetForceAt(slot ForceSlot, value, point mgl64.Vec3) {
	b.Forces[slot] = Force{Value: value, Point: point, AtPoint: true}
}

// ClearForce removes a force, including persistent ones like gravity.
func (b *Body) ClearForce(slot ForceSlot) {
	b.Forces[slot] = Force{}
}

// SetTorque stores a world-frame torque.
func (b *Body) SetTorque(slot TorqueSlot, value mgl64.Vec3) {
	b.Torques[slot] = value
}

// NetForce sums every force slot.
func (b *Body) NetForce() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, f := range b.Forces {
		sum = sum.Add(f.Value)
	}
	return sum
}

// NetTorque sums every torque slot plus the moment of each force that has an
// application point, with the point rotated into the world frame.
func (b *Body) NetTorque() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, f := range b.Forces {
		if !f.AtPoint {
			continue
		}
		arm := b.Rotate(f.Point)
		sum = sum.Add(arm.Cross(f.Value))
	}
	for _, t := range b.Torques {
		sum = sum.Add(t)
	}
	return sum
}

// Step runs gen (when non-nil) and then advances the body by dt.
func (b *Body) Step(dt float64, gen ForceGenerator) {
	if gen != nil {
		gen(b)
	}
	b.Advance(dt)
}

// Advance integrates one step with symplectic Euler: velocities first from
// the start-of-step accelerations, then positions from the new velocities.
func (b *Body) Advance(dt float64) {
	acc := b.NetForce().Mul(1 / b.Mass)
	angAcc := b.NetTorque().Mul(1 / b.Inertia)

	b.Velocity = b.Velocity.Add(acc.Mul(dt))
	b.AngularVelocity = b.AngularVelocity.Add(angAcc.Mul(dt))

	b.prevPosition = b.Position
	b.prevOrientation = b.Orientation

	b.Position = b.Position.Add(b.Velocity.Mul(dt))

	axis := mgl64.Vec3{1, 0, 0}
	speed := b.AngularVelocity.Len()
	if speed != 0 {
		axis = b.AngularVelocity.Mul(1 / speed)
	}
	b.Orientation = mgl64.HomogRotate3D(speed*dt, axis).Mul4(b.Orientation)
}

// BlendState computes the render transform between the previous and current
// state. Rows of the rotation are mixed linearly, which is not a true
// rotation interpolation and may denormalize at high angular speed.
func (b *Body) BlendState(alpha float64) mgl64.Mat4 {
	pos := lerpVec3(b.prevPosition, b.Position, alpha)
	b.render = mgl64.Translate3D(pos.X(), pos.Y(), pos.Z()).Mul4(blendRows(b.prevOrientation, b.Orientation, alpha))
	return b.render
}

// RenderTransform returns the transform computed by the last BlendState call.
func (b *Body) RenderTransform() mgl64.Mat4 {
	return b.render
}

// PreviousTransform returns the transform at the start of the last step.
func (b *Body) PreviousTransform() mgl64.Mat4 {
	p := b.prevPosition
	return mgl64.Translate3D(p.X(), p.Y(), p.Z()).Mul4(b.prevOrientation)
}

// Transform returns translation(Position) * Orientation.
func (b *Body) Transform() mgl64.Mat4 {
	p := b.Position
	return mgl64.Translate3D(p.X(), p.Y(), p.Z()).Mul4(b.Orientation)
}

// InverseTransform maps world coordinates into the body frame.
func (b *Body) InverseTransform() mgl64.Mat4 {
	p := b.Position
	return b.Orientation.Transpose().Mul4(mgl64.Translate3D(-p.X(), -p.Y(), -p.Z()))
}

// Rotate applies the orientation to a body-space direction.
func (b *Body) Rotate(v mgl64.Vec3) mgl64.Vec3 {
	return b.Orientation.Mul4x1(v.Vec4(0)).Vec3()
}

// Forward is the body's local +Z in the world frame.
func (b *Body) Forward() mgl64.Vec3 {
	return b.Rotate(mgl64.Vec3{0, 0, 1})
}

// Up is the body's local +Y in the world frame.
func (b *Body) Up() mgl64.Vec3 {
	return b.Rotate(mgl64.Vec3{0, 1, 0})
}

func lerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

func blendRows(a, b mgl64.Mat4, t float64) mgl64.Mat4 {
	var rows [4]mgl64.Vec4
	for i := range rows {
		rows[i] = a.Row(i).Mul(1 - t).Add(b.Row(i).Mul(t))
	}
	return mgl64.Mat4FromRows(rows[0], rows[1], rows[2], rows[3])
}
