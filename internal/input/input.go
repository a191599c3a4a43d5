// Package input names the player actions and the polling contract the
// simulation reads them through.
package input

import (
	"fmt"
	"sort"
)

//go:generate go tool mockgen -destination=./mocks/input_mock.go -package=mocks . Source

// Action is one bindable player action.
type Action uint8

const (
	Thrust Action = iota
	PitchForward
	PitchBack
	RollLeft
	RollRight
	YawLeft
	YawRight
	Brake
	DropPayload
	ChangeDifficulty
	ToggleVisibility
	NumActions
)

var actionNames = [NumActions]string{
	Thrust:           "thrust",
	PitchForward:     "pitch_forward",
	PitchBack:        "pitch_back",
	RollLeft:         "roll_left",
	RollRight:        "roll_right",
	YawLeft:          "yaw_left",
	YawRight:         "yaw_right",
	Brake:            "brake",
	DropPayload:      "drop_payload",
	ChangeDifficulty: "change_difficulty",
	ToggleVisibility: "toggle_visibility",
}

func (a Action) String() string {
	if a < NumActions {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// Edge reports whether the action fires once per press rather than while held.
func (a Action) Edge() bool {
	return a == DropPayload || a == ChangeDifficulty || a == ToggleVisibility
}

// ParseAction looks an action up by its config name.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// Source reports the state of an action for the current frame. Held actions
// report true while down; edge actions report true on exactly one poll per press.
type Source interface {
	Pressed(a Action) bool
}

// Bindings maps every action to a key name. Unknown action names are an
// error; actions missing from keys stay unbound.
func Bindings(keys map[string]string) (map[Action]string, error) {
	out := make(map[Action]string, len(keys))
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a, err := ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("bindings: %w", err)
		}
		out[a] = keys[name]
	}
	return out, nil
}

// State is a fixed set of pressed actions. It satisfies Source.
type State map[Action]bool

// Pressed implements Source.
func (s State) Pressed(a Action) bool { return s[a] }
