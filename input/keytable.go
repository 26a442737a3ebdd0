package input

import "sort"

// Key names delivered by the terminal adapter
const (
	KeySpace      = "space"
	KeyShift      = "Shift"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyEscape     = "Escape"
	KeyCtrlC      = "Ctrl+C"
)

// KeyTable maps key names to actions. Key names are case-sensitive.
type KeyTable struct {
	bindings map[string]Action
}

// NewKeyTable returns an empty table
func NewKeyTable() *KeyTable {
	return &KeyTable{bindings: make(map[string]Action)}
}

// DefaultKeyTable returns the stock bindings
func DefaultKeyTable() *KeyTable {
	kt := NewKeyTable()
	defaults := map[string]Action{
		"e":           ActionEngine,
		"w":           ActionThrottle,
		KeyArrowUp:    ActionThrottle,
		"s":           ActionReverse,
		KeyArrowDown:  ActionReverse,
		"a":           ActionSteerLeft,
		KeyArrowLeft:  ActionSteerLeft,
		"d":           ActionSteerRight,
		KeyArrowRight: ActionSteerRight,
		KeySpace:      ActionBrake,
		KeyShift:      ActionTurbo,
		"h":           ActionOrbitLeft,
		"l":           ActionOrbitRight,
		"k":           ActionOrbitUp,
		"j":           ActionOrbitDown,
		"n":           ActionTurbo,
		"p":           ActionPause,
		"q":           ActionQuit,
		KeyEscape:     ActionQuit,
		KeyCtrlC:      ActionQuit,
	}
	for k, a := range defaults {
		kt.bindings[k] = a
	}
	return kt
}

// Lookup returns the action bound to key, ActionNone when unbound
func (kt *KeyTable) Lookup(key string) Action {
	return kt.bindings[key]
}

// Bind maps key to action; ActionNone removes the binding
func (kt *KeyTable) Bind(key string, a Action) {
	if a == ActionNone {
		delete(kt.bindings, key)
		return
	}
	kt.bindings[key] = a
}

// KeysFor returns the sorted key names bound to action
func (kt *KeyTable) KeysFor(a Action) []string {
	var keys []string
	for k, bound := range kt.bindings {
		if bound == a {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of bound keys
func (kt *KeyTable) Len() int {
	return len(kt.bindings)
}
