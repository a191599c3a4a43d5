package particles

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"flight-game/internal/render"
)

var (
	melonRed   = render.Hex("#dd4b4b")
	melonGreen = render.Hex("#aad75d")
	hullBlue   = render.Hex("#4a5282")
)

// WatermelonCollision bursts a 5x10 sheet of red and green chunks just above center.
func (s *System) WatermelonCollision(center mgl64.Vec3) {
	for i := range 5 {
		for j := range 10 {
			c := melonGreen
			if s.rng.Float64() < 0.7 {
				c = melonRed
			}
			s.spawn(center.Add(mgl64.Vec3{float64(i) - 2.5, 1, float64(j) - 5}), c)
		}
	}
	s.prune()
}

// PlaneCollision bursts the wreck: a wide red sheet plus a blue block above it.
func (s *System) PlaneCollision(center mgl64.Vec3) {
	for i := range 15 {
		for j := range 8 {
			s.spawn(center.Add(mgl64.Vec3{float64(2*i) - 15, 4, float64(2*j) - 8}), melonRed)
		}
	}
	s.block(center, hullBlue)
	s.prune()
}

// CatCollision bursts a block of the cat's color.
func (s *System) CatCollision(center mgl64.Vec3, c color.RGBA) {
	s.block(center, c)
	s.prune()
}

func (s *System) block(center mgl64.Vec3, c color.RGBA) {
	for i := range 3 {
		for j := range 6 {
			for k := range 3 {
				s.spawn(center.Add(mgl64.Vec3{float64(2*i) - 2.5, float64(10+j) - 3, float64(2*k) - 2.5}), c)
			}
		}
	}
}

func (s *System) spawn(pos mgl64.Vec3, c color.RGBA) {
	j := s.cfg.Jitter
	pos = pos.Add(mgl64.Vec3{s.spread(j), s.spread(j), s.spread(j)})
	vel := mgl64.Vec3{s.spread(15), s.spread(7.5), s.spread(15)}
	// Mass is a positive constant, so AddParticle cannot fail here.
	_, _ = s.AddParticle(1, pos, vel, c)
}

// spread returns a uniform value in [-half, half).
func (s *System) spread(half float64) float64 {
	if half == 0 {
		return 0
	}
	return (s.rng.Float64()*2 - 1) * half
}
