package app

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestKeyStringRunes(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), "a"},
		{tcell.NewEventKey(tcell.KeyRune, 'Z', tcell.ModNone), "Z"},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "space"},
	}
	for _, c := range cases {
		if got := keyString(c.ev); got != c.want {
			t.Fatalf("keyString(%v) = %q, want %q", c.ev, got, c.want)
		}
	}
}

func TestKeyStringCtrl(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		want string
	}{
		{tcell.KeyCtrlA, "ctrl+a"},
		{tcell.KeyCtrlK, "ctrl+k"},
		{tcell.KeyCtrlZ, "ctrl+z"},
	}
	for _, c := range cases {
		ev := tcell.NewEventKey(c.key, 0, tcell.ModCtrl)
		if got := keyString(ev); got != c.want {
			t.Fatalf("keyString(%v) = %q, want %q", c.key, got, c.want)
		}
	}
}

func TestKeyStringSpecials(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		mod  tcell.ModMask
		want string
	}{
		{tcell.KeyEnter, tcell.ModNone, "enter"},
		{tcell.KeyTab, tcell.ModNone, "tab"},
		{tcell.KeyBacktab, tcell.ModNone, "shift+tab"},
		{tcell.KeyBackspace2, tcell.ModNone, "backspace"},
		{tcell.KeyEscape, tcell.ModNone, "esc"},
		{tcell.KeyUp, tcell.ModNone, "up"},
		{tcell.KeyUp, tcell.ModShift, "shift+up"},
		{tcell.KeyLeft, tcell.ModCtrl, "ctrl+left"},
		{tcell.KeyPgUp, tcell.ModNone, "pgup"},
		{tcell.KeyDelete, tcell.ModNone, "del"},
		{tcell.KeyHome, tcell.ModNone, "home"},
	}
	for _, c := range cases {
		ev := tcell.NewEventKey(c.key, 0, c.mod)
		if got := keyString(ev); got != c.want {
			t.Fatalf("keyString(%v, %v) = %q, want %q", c.key, c.mod, got, c.want)
		}
	}
}
