package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// KeyName converts a terminal key event into the key name used by KeyTable.
// Terminals never report a bare Shift, so Shift+Tab and shifted letters stand in for it.
func KeyName(ev *tcell.EventKey) string {
	return keyName(ev.Key(), ev.Rune())
}

func keyName(k tcell.Key, r rune) string {
	switch k {
	case tcell.KeyRune:
		switch {
		case r == ' ':
			return KeySpace
		case r < unicode.MaxASCII && unicode.IsUpper(r):
			return KeyShift
		}
		return string(r)
	case tcell.KeyUp:
		return KeyArrowUp
	case tcell.KeyDown:
		return KeyArrowDown
	case tcell.KeyLeft:
		return KeyArrowLeft
	case tcell.KeyRight:
		return KeyArrowRight
	case tcell.KeyBacktab:
		return KeyShift
	case tcell.KeyEscape:
		return KeyEscape
	case tcell.KeyCtrlC:
		return KeyCtrlC
	}
	if name, ok := tcell.KeyNames[k]; ok {
		return name
	}
	return ""
}
