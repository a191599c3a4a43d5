package game

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"flight-game/internal/engineconfig"
	"flight-game/internal/flight"
	"flight-game/internal/physics"
)

// Outcome is what happened to a melon this frame.
type Outcome uint8

const (
	Airborne Outcome = iota
	HitCat
	HitTarget
	HitGround
)

func (o Outcome) String() string {
	switch o {
	case HitCat:
		return "cat"
	case HitTarget:
		return "target"
	case HitGround:
		return "ground"
	}
	return "airborne"
}

func catBox(cfg engineconfig.Cat) physics.Box {
	return physics.Box{Min: mgl64.Vec3(cfg.BoxMin), Max: mgl64.Vec3(cfg.BoxMax)}
}

// HitsCat maps the cat's box corners into the melon's frame and reports
// whether any lands within the melon's cube widened by its width.
func (m *Watermelon) HitsCat(cat *Cat, box physics.Box) bool {
	return physics.AnyCornerInCube(m.InverseTransform().Mul4(cat.Location()), box, m.Width)
}

// HitsTarget is a planar test: the melon must be below height and within
// radius*tolerance of the target center on the ground plane.
func (m *Watermelon) HitsTarget(t *Target, height, tolerance float64) bool {
	if m.Position.Y() >= height {
		return false
	}
	dx := m.Position.X() - t.Center.X()
	dz := m.Position.Z() - t.Center.Z()
	return math.Hypot(dx, dz) < t.Radius*tolerance
}

// HitsGround reports whether the melon is below the ground threshold.
func (m *Watermelon) HitsGround(height float64) bool {
	return m.Position.Y() < height
}

// Resolve classifies one melon against the world. Cat is checked first,
// then the target, then the ground, so a melon has at most one outcome.
// A cat already hit and a target inside its highlight window are skipped.
func Resolve(m *Watermelon, cat *Cat, target *Target, cfg *engineconfig.Config, now time.Duration) Outcome {
	if cat != nil && !cat.Hit && m.HitsCat(cat, catBox(cfg.Cat)) {
		return HitCat
	}
	if target != nil && !target.Highlighted(now, cfg.Target.Highlight) && m.HitsTarget(target, cfg.Target.Height, cfg.Target.Tolerance) {
		return HitTarget
	}
	if m.HitsGround(cfg.Melon.GroundHeight) {
		return HitGround
	}
	return Airborne
}

// planeHitsCat runs the cat box test from the plane's frame with the
// plane's width as margin.
func planeHitsCat(p *flight.Plane, cat *Cat, box physics.Box) bool {
	return physics.AnyCornerInCube(p.InverseTransform().Mul4(cat.Location()), box, p.Width)
}

// targetScore is the score for hitting a target: smaller targets are worth
// more, and every hit is worth at least one point.
func targetScore(base int, radius float64) int {
	return max(1, int(math.Round(float64(base)-radius)))
}
