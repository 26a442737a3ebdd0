package input

import "fmt"

// Aliases accepted in config for keys awkward to write literally
var keyAliases = map[string]string{
	" ":      KeySpace,
	"shift":  KeyShift,
	"up":     KeyArrowUp,
	"down":   KeyArrowDown,
	"left":   KeyArrowLeft,
	"right":  KeyArrowRight,
	"esc":    KeyEscape,
	"ctrl+c": KeyCtrlC,
}

// ApplyKeymap replaces the bindings of every action named in keymap.
// keymap is action name → key names; an empty list unbinds the action.
// Nothing is changed when any entry fails to resolve.
func (kt *KeyTable) ApplyKeymap(keymap map[string][]string) error {
	resolved := make(map[Action][]string, len(keymap))
	for name, keys := range keymap {
		a, err := ParseAction(name)
		if err != nil {
			return fmt.Errorf("keymap: %w", err)
		}
		if a == ActionNone {
			return fmt.Errorf("keymap: %q cannot be bound: %w", name, ErrUnknownAction)
		}
		for i, k := range keys {
			if k == "" {
				return fmt.Errorf("keymap %s: empty key name at %d", name, i)
			}
		}
		resolved[a] = keys
	}

	for a, keys := range resolved {
		for _, k := range kt.KeysFor(a) {
			delete(kt.bindings, k)
		}
		for _, k := range keys {
			kt.bindings[NormalizeKey(k)] = a
		}
	}
	return nil
}

// NormalizeKey maps config aliases to canonical key names
func NormalizeKey(k string) string {
	if canonical, ok := keyAliases[k]; ok {
		return canonical
	}
	return k
}
