package document

import (
	"github.com/kobzarvs/oxed/internal/buffer"
	"github.com/kobzarvs/oxed/internal/undo"
)

// StartSelection drops the anchor at the cursor. Subsequent cursor
// movement extends the selection.
func (d *Document) StartSelection() {
	anchor := d.cursor
	d.anchor = &anchor
}

// HoldSelection drops the anchor only when none is set, so repeated
// shift-movement extends one selection instead of restarting it.
func (d *Document) HoldSelection() {
	if d.anchor == nil {
		d.StartSelection()
	}
}

// ClearSelection discards the anchor without touching content.
func (d *Document) ClearSelection() {
	d.anchor = nil
}

func (d *Document) HasSelection() bool {
	return d.anchor != nil && *d.anchor != d.cursor
}

// Selection returns the normalized (start <= end) selection range.
func (d *Document) Selection() (start, end buffer.Position, ok bool) {
	if !d.HasSelection() {
		return buffer.Position{}, buffer.Position{}, false
	}
	a, c := *d.anchor, d.cursor
	if c.Before(a) {
		return c, a, true
	}
	return a, c, true
}

// SelectAll selects the whole buffer, cursor at the end.
func (d *Document) SelectAll() {
	d.anchor = &buffer.Position{}
	d.MoveFileEnd()
}

// SelectedText returns the selection content without removing it.
func (d *Document) SelectedText() (string, bool) {
	start, end, ok := d.Selection()
	if !ok {
		return "", false
	}
	if start.Row == end.Row {
		row, err := d.store.Row(start.Row)
		if err != nil {
			return "", false
		}
		return row.Text(start.Col, end.Col), true
	}
	var out string
	first, _ := d.store.Row(start.Row)
	out = first.Text(start.Col, first.Len())
	for i := start.Row + 1; i < end.Row; i++ {
		line, _ := d.store.Line(i)
		out += "\n" + line
	}
	last, _ := d.store.Row(end.Row)
	out += "\n" + last.Text(0, end.Col)
	return out, true
}

// DeleteSelection removes the selected range as one event and clears
// the anchor. ok is false when there is nothing selected.
func (d *Document) DeleteSelection() (undo.Event, bool, error) {
	start, end, ok := d.Selection()
	if !ok {
		return undo.Event{}, false, nil
	}
	d.ClearSelection()
	ev, err := d.Delete(start, end)
	return ev, err == nil, err
}
