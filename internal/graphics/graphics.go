// Package graphics owns the raylib window and the frame loop.
package graphics

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Window describes the window to open. Zero width or height uses the monitor size.
type Window struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	TargetFPS  int32
}

// Run opens the window and loops until it is closed. Each frame it calls
// update with the frame delta and the time since the loop started, then
// draw between BeginDrawing and EndDrawing.
func Run(w Window, update func(delta, now time.Duration), draw func()) {
	if w.Fullscreen {
		rl.SetConfigFlags(rl.FlagFullscreenMode | rl.FlagMsaa4xHint)
	} else {
		rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	}
	width, height := int32(w.Width), int32(w.Height)
	rl.InitWindow(max(width, 1), max(height, 1), w.Title)
	defer rl.CloseWindow()
	if width <= 0 || height <= 0 {
		mon := rl.GetCurrentMonitor()
		rl.SetWindowSize(rl.GetMonitorWidth(mon), rl.GetMonitorHeight(mon))
	}

	rl.SetExitKey(rl.KeyEscape)
	if w.TargetFPS > 0 {
		rl.SetTargetFPS(w.TargetFPS)
	}

	start := rl.GetTime()
	for !rl.WindowShouldClose() {
		delta := time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
		now := time.Duration((rl.GetTime() - start) * float64(time.Second))
		update(delta, now)

		rl.BeginDrawing()
		draw()
		rl.EndDrawing()
	}
}
