// Package keyboard polls raylib's keyboard state as an input.Source.
package keyboard

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"flight-game/internal/input"
)

var named = map[string]int32{
	"SPACE":       rl.KeySpace,
	"ENTER":       rl.KeyEnter,
	"TAB":         rl.KeyTab,
	"UP":          rl.KeyUp,
	"DOWN":        rl.KeyDown,
	"LEFT":        rl.KeyLeft,
	"RIGHT":       rl.KeyRight,
	"LEFT_SHIFT":  rl.KeyLeftShift,
	"RIGHT_SHIFT": rl.KeyRightShift,
	"LEFT_CTRL":   rl.KeyLeftControl,
}

// KeyCode resolves a key name: a single letter or digit, or one of the
// named keys (SPACE, UP, LEFT_SHIFT, ...). Case-insensitive.
func KeyCode(name string) (int32, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if code, ok := named[n]; ok {
		return code, nil
	}
	if len(n) == 1 {
		c := n[0]
		switch {
		case c >= 'A' && c <= 'Z':
			return rl.KeyA + int32(c-'A'), nil
		case c >= '0' && c <= '9':
			return rl.KeyZero + int32(c-'0'), nil
		}
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// Keyboard maps actions to raylib keys. Held actions use IsKeyDown and edge
// actions use IsKeyPressed, so each press is reported once.
type Keyboard struct {
	keys map[input.Action]int32
}

// New builds a keyboard from config key names (action name → key name).
func New(keys map[string]string) (*Keyboard, error) {
	bindings, err := input.Bindings(keys)
	if err != nil {
		return nil, err
	}
	k := &Keyboard{keys: make(map[input.Action]int32, len(bindings))}
	for a, name := range bindings {
		code, err := KeyCode(name)
		if err != nil {
			return nil, fmt.Errorf("bind %s: %w", a, err)
		}
		k.keys[a] = code
	}
	return k, nil
}

// Pressed implements input.Source.
func (k *Keyboard) Pressed(a input.Action) bool {
	code, ok := k.keys[a]
	if !ok {
		return false
	}
	if a.Edge() {
		return rl.IsKeyPressed(code)
	}
	return rl.IsKeyDown(code)
}
