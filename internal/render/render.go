// Package render defines the narrow drawing contracts the simulation core
// calls into. Implementations live in the front end.
package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

//go:generate go tool mockgen -destination=./mocks/render_mock.go -package=mocks . Sink,HUDSink

// Shape names a drawable mesh or composite model.
type Shape string

const (
	ShapeCube     Shape = "cube"
	ShapeSphere   Shape = "sphere"
	ShapeCylinder Shape = "cylinder"
	ShapeQuad     Shape = "plane"

	ShapeAirplane Shape = "airplane"
	ShapeMelon    Shape = "melon"
	ShapeCat      Shape = "cat"
	ShapeTarget   Shape = "target"
	ShapePowerUp  Shape = "powerup"
	ShapeCloud    Shape = "cloud"
	ShapeDebris   Shape = "debris"
)

// Material describes how a shape is shaded.
type Material struct {
	Color color.RGBA
	// Ambient in [0,1]; 1 renders the color flat, unlit.
	Ambient float32
}

// Sink receives one Draw call per visible entity per frame.
type Sink interface {
	Draw(shape Shape, transform mgl64.Mat4, mat Material)
}

// HUD is the per-frame status snapshot.
type HUD struct {
	Score      int
	Speed      float64
	Altitude   float64
	Heading    float64 // degrees, 0 = +Z
	Position   mgl64.Vec3
	Difficulty string
	Crashed    bool
	// Visible is false while the player has hidden the overlay.
	Visible bool
}

// HUDSink displays the HUD snapshot.
type HUDSink interface {
	Show(hud HUD)
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("parse color %q: want 6 or 8 hex digits", s)
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Gray is used when a color string cannot be parsed.
var Gray = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// Hex is ParseHex falling back to Gray.
func Hex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		return Gray
	}
	return c
}

// Lines formats the snapshot for a text overlay, one field per line.
func (h HUD) Lines() []string {
	lines := []string{
		fmt.Sprintf("Score: %d", h.Score),
		fmt.Sprintf("Speed: %.1f", h.Speed),
		fmt.Sprintf("Altitude: %.1f", h.Altitude),
		fmt.Sprintf("Heading: %.0f", h.Heading),
		fmt.Sprintf("Position: %.0f %.0f %.0f", h.Position.X(), h.Position.Y(), h.Position.Z()),
		h.Difficulty,
	}
	if h.Crashed {
		lines = append(lines, "CRASHED")
	}
	return lines
}
