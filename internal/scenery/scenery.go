// Package scenery places decorative clouds over the endless ground. The
// layout is a pure function of the seed and the grid cell, so the same sky
// reappears whenever the plane returns to a place.
package scenery

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"flight-game/internal/engineconfig"
	"flight-game/internal/render"
)

const (
	octaves    = 3
	lacunarity = 2
	gain       = 0.5
	// Noise samples per cell; below 1 so neighbouring cells correlate.
	frequency = 0.35
)

// Cloud is one placed cloud.
type Cloud struct {
	Position mgl64.Vec3
	Scale    float64
	Yaw      float64
}

// Transform returns translation * yaw * uniform scale.
func (c Cloud) Transform() mgl64.Mat4 {
	p := c.Position
	return mgl64.Translate3D(p.X(), p.Y(), p.Z()).
		Mul4(mgl64.HomogRotate3DY(c.Yaw)).
		Mul4(mgl64.Scale3D(c.Scale, c.Scale, c.Scale))
}

// Field generates clouds on demand.
type Field struct {
	cfg  engineconfig.Scenery
	seed int32
}

// New returns a field for cfg.
func New(cfg engineconfig.Scenery) *Field {
	return &Field{cfg: cfg, seed: int32(cfg.Seed)}
}

// Visible lists the clouds whose cell center lies within radius of center
// on the ground plane.
func (f *Field) Visible(center mgl64.Vec3, radius float64) []Cloud {
	size := f.cfg.CellSize
	if size <= 0 || radius <= 0 {
		return nil
	}
	ci := int32(math.Floor(center.X() / size))
	cj := int32(math.Floor(center.Z() / size))
	span := int32(math.Ceil(radius/size)) + 1

	var out []Cloud
	for i := ci - span; i <= ci+span; i++ {
		for j := cj - span; j <= cj+span; j++ {
			cx := (float64(i) + 0.5) * size
			cz := (float64(j) + 0.5) * size
			if math.Hypot(cx-center.X(), cz-center.Z()) > radius {
				continue
			}
			if c, ok := f.cloudAt(i, j); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

func (f *Field) cloudAt(i, j int32) (Cloud, bool) {
	if float64(hash2D(i, j, f.seed)) >= f.cfg.Density {
		return Cloud{}, false
	}
	n := float64(fractalValueNoise2D(float32(i)*frequency, float32(j)*frequency, f.seed, octaves, lacunarity, gain))
	size := f.cfg.CellSize
	ox := float64(hash2D(i, j, f.seed+1)) - 0.5
	oz := float64(hash2D(i, j, f.seed+2)) - 0.5
	return Cloud{
		Position: mgl64.Vec3{
			(float64(i) + 0.5 + ox*0.6) * size,
			f.cfg.MinHeight + n*(f.cfg.MaxHeight-f.cfg.MinHeight),
			(float64(j) + 0.5 + oz*0.6) * size,
		},
		Scale: 0.8 + 0.8*n,
		Yaw:   float64(hash2D(i, j, f.seed+3)) * 2 * math.Pi,
	}, true
}

var cloudMaterial = render.Material{Color: render.Hex("#ffffff"), Ambient: 1}

// Render draws every cloud visible from center.
func (f *Field) Render(sink render.Sink, center mgl64.Vec3) {
	for _, c := range f.Visible(center, f.cfg.Radius) {
		sink.Draw(render.ShapeCloud, c.Transform(), cloudMaterial)
	}
}
