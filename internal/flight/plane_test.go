package flight

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"flight-game/internal/engineconfig"
	"flight-game/internal/physics"
)

func newPlane(t *testing.T) *Plane {
	t.Helper()
	p, err := New(engineconfig.Default().Flight, 0.8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func hasNaN(v mgl64.Vec3) bool {
	return math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsNaN(v[2])
}

func TestNew_RejectsBadMass(t *testing.T) {
	params := engineconfig.Default().Flight
	params.Mass = 0
	if _, err := New(params, 0.8); !errors.Is(err, physics.ErrNonPositiveMass) {
		t.Fatalf("New() err = %v, want ErrNonPositiveMass", err)
	}
}

func TestNew_SetsGravity(t *testing.T) {
	p := newPlane(t)
	want := mgl64.Vec3{0, -80, 0}
	if got := p.Forces[physics.Gravity].Value; got.Sub(want).Len() > 1e-12 {
		t.Errorf("gravity = %v, want %v", got, want)
	}
}

func TestGenerator_ThrustFollowsFlag(t *testing.T) {
	p := newPlane(t)
	slow := engineconfig.Default().Flight.Slow

	p.Generator(slow)(p.Body)
	if got := p.Forces[physics.Thrust].Value; got != (mgl64.Vec3{}) {
		t.Errorf("thrust off = %v, want zero", got)
	}

	p.Controls.Thrust = true
	p.Generator(slow)(p.Body)
	if got := p.Forces[physics.Thrust].Value; got.Sub(mgl64.Vec3{0, 0, 90}).Len() > 1e-12 {
		t.Errorf("thrust on = %v, want (0,0,90)", got)
	}
}

func TestGenerator_AtRestProducesNoNaN(t *testing.T) {
	p := newPlane(t)
	p.Generator(engineconfig.Default().Flight.Slow)(p.Body)
	for i, f := range p.Forces {
		if hasNaN(f.Value) {
			t.Errorf("force slot %d = %v", i, f.Value)
		}
	}
	for i, tq := range p.Torques {
		if hasNaN(tq) {
			t.Errorf("torque slot %d = %v", i, tq)
		}
	}
}

func TestGenerator_SidewaysUpAxisSaturates(t *testing.T) {
	p := newPlane(t)
	// Roll 90 degrees so the body up axis is horizontal.
	p.Place(mgl64.Vec3{0, 30, 0}, mgl64.HomogRotate3D(math.Pi/2, mgl64.Vec3{0, 0, 1}))
	p.Orientation[5] = 0 // up.y exactly zero
	p.Generator(engineconfig.Default().Flight.Slow)(p.Body)
	roll := p.Torques[physics.RollCorrection]
	if hasNaN(roll) || math.Abs(math.Abs(roll.Z())-0.1*math.Pi/2) > 1e-9 {
		t.Errorf("roll correction = %v, want ±0.1·π/2", roll)
	}
}

func TestGenerator_Drag(t *testing.T) {
	tests := []struct {
		name     string
		velocity mgl64.Vec3
		brake    bool
		wantHor  mgl64.Vec3
		wantVer  mgl64.Vec3
	}{
		{"forward", mgl64.Vec3{0, 0, 2}, false, mgl64.Vec3{0, 0, -16}, mgl64.Vec3{}},
		{"braking", mgl64.Vec3{0, 0, 2}, true, mgl64.Vec3{0, 0, -22}, mgl64.Vec3{}},
		{"falling", mgl64.Vec3{0, -3, 0}, false, mgl64.Vec3{}, mgl64.Vec3{0, 72, 0}},
		{"climbing", mgl64.Vec3{0, 1, 0}, false, mgl64.Vec3{}, mgl64.Vec3{0, -8, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlane(t)
			p.Velocity = tt.velocity
			p.Controls.Brake = tt.brake
			p.Generator(engineconfig.Default().Flight.Slow)(p.Body)
			if got := p.Forces[physics.DragHorizontal].Value; got.Sub(tt.wantHor).Len() > 1e-9 {
				t.Errorf("horizontal drag = %v, want %v", got, tt.wantHor)
			}
			if got := p.Forces[physics.DragVertical].Value; got.Sub(tt.wantVer).Len() > 1e-9 {
				t.Errorf("vertical drag = %v, want %v", got, tt.wantVer)
			}
		})
	}
}

func TestGenerator_LiftAtPoint(t *testing.T) {
	p := newPlane(t)
	p.Velocity = mgl64.Vec3{3, 0, 4}
	p.Generator(engineconfig.Default().Flight.Slow)(p.Body)
	lift := p.Forces[physics.Lift]
	if !lift.AtPoint || lift.Point != (mgl64.Vec3{0, 0, 0.0005}) {
		t.Errorf("lift application point = %+v", lift)
	}
	if want := (mgl64.Vec3{0, 75, 0}); lift.Value.Sub(want).Len() > 1e-9 {
		t.Errorf("lift = %v, want %v", lift.Value, want)
	}
}

func TestGenerator_Steering(t *testing.T) {
	tests := []struct {
		name string
		set  func(*Controls)
		slot physics.TorqueSlot
		want mgl64.Vec3
	}{
		{"pitch forward", func(c *Controls) { c.PitchForward = true }, physics.PitchForward, mgl64.Vec3{1.6, 0, 0}},
		{"pitch back", func(c *Controls) { c.PitchBack = true }, physics.PitchBack, mgl64.Vec3{-1.6, 0, 0}},
		{"roll left", func(c *Controls) { c.RollLeft = true }, physics.RollLeft, mgl64.Vec3{0, 0, -1.6}},
		{"roll right", func(c *Controls) { c.RollRight = true }, physics.RollRight, mgl64.Vec3{0, 0, 1.6}},
		{"yaw left", func(c *Controls) { c.YawLeft = true }, physics.YawLeft, mgl64.Vec3{0, 1.2, 0}},
		{"yaw right", func(c *Controls) { c.YawRight = true }, physics.YawRight, mgl64.Vec3{0, -1.2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlane(t)
			tt.set(&p.Controls)
			p.Generator(engineconfig.Default().Flight.Slow)(p.Body)
			if got := p.Torques[tt.slot]; got.Sub(tt.want).Len() > 1e-12 {
				t.Errorf("torque = %v, want %v", got, tt.want)
			}
			for slot := physics.PitchForward; slot < physics.NumTorqueSlots; slot++ {
				if slot != tt.slot && p.Torques[slot] != (mgl64.Vec3{}) {
					t.Errorf("slot %d = %v, want zero", slot, p.Torques[slot])
				}
			}
		})
	}
}

func TestStep_ProfileSwapAppliesOnNextRecomputation(t *testing.T) {
	params := engineconfig.Default().Flight
	p := newPlane(t)
	p.Controls.Thrust = true

	score := params.FastScoreThreshold - 1
	p.Step(0.01, score)
	if p.Profile() != params.Slow || p.Fast() {
		t.Fatalf("profile = %+v, want slow", p.Profile())
	}

	// Score reaches the threshold after this step's forces were computed.
	score = params.FastScoreThreshold
	if got := p.Forces[physics.Thrust].Value.Len(); math.Abs(got-params.Slow.Thrust) > 1e-9 {
		t.Errorf("in-flight thrust = %v, want slow %v", got, params.Slow.Thrust)
	}

	p.Step(0.01, score)
	if p.Profile() != params.Fast || !p.Fast() {
		t.Fatalf("profile = %+v, want fast", p.Profile())
	}
	if got := p.Forces[physics.Thrust].Value.Len(); math.Abs(got-params.Fast.Thrust) > 1e-9 {
		t.Errorf("thrust = %v, want fast %v", got, params.Fast.Thrust)
	}
}

func TestHeading(t *testing.T) {
	tests := []struct {
		angle float64
		want  float64
	}{
		{0, 0},
		{math.Pi / 2, 90},
		{math.Pi, 180},
		{-math.Pi / 2, 270},
	}
	for _, tt := range tests {
		p := newPlane(t)
		p.Place(mgl64.Vec3{}, mgl64.HomogRotate3D(tt.angle, mgl64.Vec3{0, 1, 0}))
		if got := p.Heading(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Heading() at yaw %v = %v, want %v", tt.angle, got, tt.want)
		}
	}
}
