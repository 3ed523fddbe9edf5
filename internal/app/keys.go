package app

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// keyString turns a tcell key event into the chord name the keymap
// uses, e.g. "ctrl+k" or "shift+left". Empty for unmapped events.
func keyString(ev *tcell.EventKey) string {
	if ev.Modifiers()&tcell.ModAlt != 0 {
		switch ev.Key() {
		case tcell.KeyUp:
			return "alt+up"
		case tcell.KeyDown:
			return "alt+down"
		case tcell.KeyLeft:
			return "alt+left"
		case tcell.KeyRight:
			return "alt+right"
		}
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		switch ev.Key() {
		case tcell.KeyHome:
			return "ctrl+home"
		case tcell.KeyEnd:
			return "ctrl+end"
		case tcell.KeyLeft:
			return "ctrl+left"
		case tcell.KeyRight:
			return "ctrl+right"
		case tcell.KeyUp:
			return "ctrl+up"
		case tcell.KeyDown:
			return "ctrl+down"
		}
	}
	if ev.Modifiers()&tcell.ModMeta != 0 {
		if ev.Key() == tcell.KeyRune {
			r := ev.Rune()
			if r == ' ' {
				return "cmd+space"
			}
			return "cmd+" + strings.ToLower(string(r))
		}
		switch ev.Key() {
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			return "cmd+backspace"
		case tcell.KeyEnter:
			return "cmd+enter"
		case tcell.KeyLeft:
			return "cmd+left"
		case tcell.KeyRight:
			return "cmd+right"
		case tcell.KeyUp:
			return "cmd+up"
		case tcell.KeyDown:
			return "cmd+down"
		case tcell.KeyHome:
			return "cmd+home"
		case tcell.KeyEnd:
			return "cmd+end"
		}
	}
	if ev.Modifiers()&tcell.ModShift != 0 {
		switch ev.Key() {
		case tcell.KeyUp:
			return "shift+up"
		case tcell.KeyDown:
			return "shift+down"
		case tcell.KeyLeft:
			return "shift+left"
		case tcell.KeyRight:
			return "shift+right"
		case tcell.KeyHome:
			return "shift+home"
		case tcell.KeyEnd:
			return "shift+end"
		}
	}
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if r == ' ' {
			return "space"
		}
		return string(r)
	}
	// Tab, Enter and Backspace share codes with ctrl+i, ctrl+m and
	// ctrl+h, so they must be named before the generic ctrl range.
	switch ev.Key() {
	case tcell.KeyTab:
		if ev.Modifiers()&tcell.ModShift != 0 {
			return "shift+tab"
		}
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	}
	if name := ctrlKeyName(ev.Key()); name != "" {
		return name
	}
	switch ev.Key() {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyDelete:
		return "del"
	case tcell.KeyEscape:
		return "esc"
	}
	return ""
}

func ctrlKeyName(key tcell.Key) string {
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+key-tcell.KeyCtrlA))
	}
	return ""
}
