package game

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"flight-game/internal/engineconfig"
	"flight-game/internal/render"
	"flight-game/internal/spline"
)

// MaxMode is the highest difficulty mode. Modes cycle 0..MaxMode.
const MaxMode = 3

// spawner places new cats, targets and power-ups ahead of the plane. The
// lateral range grows by SpreadPerMode for every difficulty mode.
type spawner struct {
	cfg    *engineconfig.Config
	rng    *rand.Rand
	colors []color.RGBA
}

func newSpawner(cfg *engineconfig.Config, rng *rand.Rand) *spawner {
	s := &spawner{cfg: cfg, rng: rng}
	for _, hex := range cfg.Cat.Colors {
		if c, err := render.ParseHex(hex); err == nil {
			s.colors = append(s.colors, c)
		}
	}
	if len(s.colors) == 0 {
		s.colors = []color.RGBA{{R: 0xff, G: 0xa5, A: 0xff}}
	}
	return s
}

func (s *spawner) between(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// ahead returns a ground-level point in front of from along heading, with a
// random lateral offset widened by mode.
func (s *spawner) ahead(from, heading mgl64.Vec3, mode int) mgl64.Vec3 {
	sp := s.cfg.Spawn
	dist := s.between(sp.AheadMin, sp.AheadMax)
	half := sp.Lateral + float64(mode)*sp.SpreadPerMode
	side := mgl64.Vec3{heading.Z(), 0, -heading.X()}
	p := from.Add(heading.Mul(dist)).Add(side.Mul(s.between(-half, half)))
	p[1] = 0
	return p
}

func (s *spawner) cat(from, heading mgl64.Vec3, mode int) *Cat {
	return NewCat(s.ahead(from, heading, mode), s.colors[s.rng.IntN(len(s.colors))])
}

// target builds a random trajectory of Knots points scattered around a spot
// ahead of the plane. Knot tangents are random in the ground plane.
func (s *spawner) target(from, heading mgl64.Vec3, mode int) *Target {
	tc := s.cfg.Target
	center := s.ahead(from, heading, mode)
	spread := tc.Spread + float64(mode)*s.cfg.Spawn.SpreadPerMode
	knots := make([]spline.Knot, max(tc.Knots, 2))
	for i := range knots {
		knots[i] = spline.Knot{
			Point:   center.Add(mgl64.Vec3{s.between(-spread, spread), 0, s.between(-spread, spread)}),
			Tangent: mgl64.Vec3{s.between(-spread, spread), 0, s.between(-spread, spread)},
		}
	}
	// Two or more knots are always supplied, so the error cannot occur.
	traj, _ := spline.NewHermite(knots...)
	return NewTarget(s.between(tc.RadiusMin, tc.RadiusMax), traj)
}

func (s *spawner) powerUp(from, heading mgl64.Vec3, mode int) *PowerUp {
	p := s.ahead(from, heading, mode)
	p[1] = s.cfg.PowerUp.Height
	return &PowerUp{Center: p, Radius: s.cfg.PowerUp.Radius, Valid: true}
}

// outOfPlay reports whether p has fallen more than RespawnBehind behind the
// plane along its heading or lies further than RespawnFar on the ground plane.
func outOfPlay(p, plane, heading mgl64.Vec3, sp engineconfig.Spawn) bool {
	d := mgl64.Vec3{p.X() - plane.X(), 0, p.Z() - plane.Z()}
	if d.Dot(heading) < -sp.RespawnBehind {
		return true
	}
	return math.Hypot(d.X(), d.Z()) > sp.RespawnFar
}
