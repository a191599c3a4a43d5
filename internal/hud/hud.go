// Package hud draws the 2D overlay: flight readout, debug counters and the
// most recent log lines.
package hud

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"flight-game/internal/logger"
	"flight-game/internal/render"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// Debug text is only refreshed every N frames to limit allocations.
	updateInterval = 30
	logLines       = 6
)

var (
	readoutColor = rl.NewColor(240, 240, 240, 255)
	crashColor   = rl.NewColor(230, 60, 60, 255)
	panelColor   = rl.NewColor(24, 24, 24, 160)
	logColor     = rl.NewColor(180, 180, 180, 255)
)

var _ render.HUDSink = (*Overlay)(nil)

// Overlay implements render.HUDSink. Show must be called between
// BeginDrawing and EndDrawing, after the 3D pass.
type Overlay struct {
	ShowFPS      bool
	ShowMemAlloc bool

	log        *logger.Logger
	frameCount uint32
	fpsText    string
	memText    string
	memStats   runtime.MemStats
}

// New returns an overlay that tails log when it is non-nil.
func New(log *logger.Logger) *Overlay {
	return &Overlay{log: log}
}

// Show draws the readout when it is visible, then the debug counters and the log tail.
func (o *Overlay) Show(h render.HUD) {
	if h.Visible {
		o.drawReadout(h)
	}
	o.drawDebug()
	o.drawLog()
}

func (o *Overlay) drawReadout(h render.HUD) {
	lines := h.Lines()
	rl.DrawRectangle(padding/2, padding/2, 260, int32(len(lines)*lineHeight+padding), panelColor)
	y := int32(padding)
	for i, line := range lines {
		c := readoutColor
		if h.Crashed && i == len(lines)-1 {
			c = crashColor
		}
		rl.DrawText(line, padding, y, fontSize, c)
		y += lineHeight
	}
}

// drawDebug renders FPS and heap size at the top right.
func (o *Overlay) drawDebug() {
	o.frameCount++
	update := o.frameCount%updateInterval == 0
	if (o.ShowFPS && o.fpsText == "") || (o.ShowMemAlloc && o.memText == "") {
		update = true
	}
	if update {
		o.fpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		if o.ShowMemAlloc {
			runtime.ReadMemStats(&o.memStats)
			o.memText = fmt.Sprintf("Mem: %.2f MiB", float64(o.memStats.Alloc)/(1024*1024))
		}
	}

	y := int32(padding)
	if o.ShowFPS {
		drawRight(o.fpsText, y)
		y += lineHeight
	}
	if o.ShowMemAlloc {
		drawRight(o.memText, y)
	}
}

func drawRight(text string, y int32) {
	x := int32(rl.GetScreenWidth()) - rl.MeasureText(text, fontSize) - padding
	rl.DrawText(text, x, y, fontSize, rl.Green)
}

func (o *Overlay) drawLog() {
	if o.log == nil {
		return
	}
	lines := o.log.Tail(logLines)
	y := int32(rl.GetScreenHeight()) - padding - int32(len(lines))*lineHeight
	for _, line := range lines {
		rl.DrawText(line, padding, y, fontSize-4, logColor)
		y += lineHeight
	}
}
