package input

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAction is returned for action names missing from the registry
var ErrUnknownAction = errors.New("unknown action")

var actionNames = [actionCount]string{
	ActionNone:       "none",
	ActionEngine:     "engine",
	ActionThrottle:   "throttle",
	ActionReverse:    "reverse",
	ActionSteerLeft:  "steer_left",
	ActionSteerRight: "steer_right",
	ActionBrake:      "brake",
	ActionTurbo:      "turbo",
	ActionOrbitLeft:  "orbit_left",
	ActionOrbitRight: "orbit_right",
	ActionOrbitUp:    "orbit_up",
	ActionOrbitDown:  "orbit_down",
	ActionPause:      "pause",
	ActionQuit:       "quit",
}

// actionRegistry maps config names to actions
var actionRegistry map[string]Action

func init() {
	actionRegistry = make(map[string]Action, len(actionNames))
	for a, name := range actionNames {
		actionRegistry[name] = Action(a)
	}
}

// ParseAction resolves a config action name, case-insensitive
func ParseAction(name string) (Action, error) {
	a, ok := actionRegistry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ActionNone, fmt.Errorf("%q: %w", name, ErrUnknownAction)
	}
	return a, nil
}

// ActionNames returns every bindable action name in declaration order
func ActionNames() []string {
	names := make([]string, 0, len(actionNames)-1)
	for _, n := range actionNames[ActionNone+1:] {
		names = append(names, n)
	}
	return names
}
