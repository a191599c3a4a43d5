package game

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"flight-game/internal/render"
)

var (
	planeMaterial   = render.Material{Color: render.Hex("#9d2b2b"), Ambient: 0.3}
	melonMaterial   = render.Material{Color: render.Hex("#aad75d"), Ambient: 0.3}
	powerUpMaterial = render.Material{Color: render.Hex("#2020ff"), Ambient: 0.5}
	targetIdle      = render.Material{Color: render.Hex("#d02020"), Ambient: 0.6}
	targetLit       = render.Material{Color: render.Hex("#20c020"), Ambient: 0.6}
	targetRing      = render.Material{Color: render.Hex("#ffffff"), Ambient: 0.6}
)

// Render draws every visible entity once with its blended transform.
func (w *World) Render(sink render.Sink) {
	w.scenery.Render(sink, w.plane.Position)
	sink.Draw(render.ShapeAirplane, w.plane.RenderTransform(), planeMaterial)
	for _, m := range w.melons {
		if !m.Collided {
			sink.Draw(render.ShapeMelon, m.RenderTransform(), melonMaterial)
		}
	}
	w.drawCat(sink)
	w.drawTarget(sink)
	if w.powerUp.Valid {
		c, r := w.powerUp.Center, w.powerUp.Radius
		sink.Draw(render.ShapePowerUp, mgl64.Translate3D(c.X(), c.Y(), c.Z()).Mul4(mgl64.Scale3D(r, r, r)), powerUpMaterial)
	}
	w.particles.Render(sink)
}

// A struck cat grows from its normal size up to 1+MaxGrowth.
func (w *World) drawCat(sink render.Sink) {
	s := 1 + w.cat.Growth(w.now, w.cfg.Cat)
	sink.Draw(render.ShapeCat, w.cat.Location().Mul4(mgl64.Scale3D(s, s, s)), render.Material{Color: w.cat.Color, Ambient: 0.4})
}

// The target is three stacked discs: the outer pad, a white ring and a
// bullseye. The pad turns green while a score is highlighted.
func (w *World) drawTarget(sink render.Sink) {
	outer := targetIdle
	if w.target.Highlighted(w.now, w.cfg.Target.Highlight) {
		outer = targetLit
	}
	c, r := w.target.Center, w.target.Radius
	discs := []struct {
		radius float64
		mat    render.Material
	}{
		{r, outer},
		{r / 1.75, targetRing},
		{r / 5, targetIdle},
	}
	for i, d := range discs {
		y := c.Y() + 0.05*float64(i+1)
		sink.Draw(render.ShapeTarget, mgl64.Translate3D(c.X(), y, c.Z()).Mul4(mgl64.Scale3D(d.radius, 1, d.radius)), d.mat)
	}
}

// ShowHUD hands the current snapshot to the overlay.
func (w *World) ShowHUD(sink render.HUDSink) { sink.Show(w.HUD()) }

// HUD returns the overlay snapshot for the current frame.
func (w *World) HUD() render.HUD {
	profile := "slow"
	if w.plane.Fast() {
		profile = "fast"
	}
	return render.HUD{
		Score:      w.score,
		Speed:      w.plane.Speed(),
		Altitude:   w.plane.Altitude(),
		Heading:    w.plane.Heading(),
		Position:   w.plane.Position,
		Difficulty: fmt.Sprintf("mode %d / %s", w.mode, profile),
		Crashed:    !w.animate,
		Visible:    w.hudVisible,
	}
}
