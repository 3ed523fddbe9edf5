// Package document owns a row store plus the editing state around it:
// cursor, selection, file metadata and the line-terminator style the
// file was loaded with.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kobzarvs/oxed/internal/buffer"
	"github.com/kobzarvs/oxed/internal/undo"
)

// ErrReadOnly is returned for any mutating call on a read-only document.
var ErrReadOnly = errors.New("document is read-only")

// LineEnding is the terminator style detected on load and preserved
// on save.
type LineEnding string

const (
	LF   LineEnding = "\n"
	CRLF LineEnding = "\r\n"
)

func (e LineEnding) Name() string {
	if e == CRLF {
		return "CRLF"
	}
	return "LF"
}

type Document struct {
	store  *buffer.Store
	cursor buffer.Position
	anchor *buffer.Position // selection anchor, nil when no selection

	// stickyCol preserves the aimed-for column across short lines
	// during vertical movement.
	stickyCol int

	path     string
	dirty    bool
	readOnly bool
	ending   LineEnding
}

func New() *Document {
	return &Document{store: buffer.NewStore(), ending: LF}
}

// FromBytes builds a document from a decoded byte stream. CRLF is
// detected and remembered; rows are stored terminator-free.
func FromBytes(data []byte) *Document {
	ending := LF
	if bytes.Contains(data, []byte("\r\n")) {
		ending = CRLF
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return &Document{
		store:  buffer.FromLines(strings.Split(text, "\n")),
		ending: ending,
	}
}

func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	d := FromBytes(data)
	d.path = path
	if info, err := os.Stat(path); err == nil && info.Mode().Perm()&0o200 == 0 {
		d.readOnly = true
	}
	return d, nil
}

// Bytes renders the document back to a byte stream with the original
// line-terminator style. Loading then saving an unmodified document is
// byte-identical.
func (d *Document) Bytes() []byte {
	return []byte(strings.Join(d.store.Lines(), string(d.ending)))
}

func (d *Document) Save() error {
	if d.path == "" {
		return errors.New("no file path set")
	}
	return d.SaveAs(d.path)
}

func (d *Document) SaveAs(path string) error {
	if err := os.WriteFile(path, d.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	d.path = path
	d.dirty = false
	return nil
}

func (d *Document) Store() *buffer.Store   { return d.store }
func (d *Document) Path() string           { return d.path }
func (d *Document) SetPath(path string)    { d.path = path }
func (d *Document) Dirty() bool            { return d.dirty }
func (d *Document) ReadOnly() bool         { return d.readOnly }
func (d *Document) SetReadOnly(ro bool)    { d.readOnly = ro }
func (d *Document) Ending() LineEnding     { return d.ending }
func (d *Document) SetEnding(e LineEnding) { d.ending = e }

func (d *Document) Cursor() buffer.Position { return d.cursor }

// SetCursor clamps pos into the buffer and moves the cursor there.
func (d *Document) SetCursor(pos buffer.Position) {
	d.cursor = d.clamp(pos)
	d.stickyCol = d.cursor.Col
}

func (d *Document) clamp(pos buffer.Position) buffer.Position {
	if pos.Row < 0 {
		pos.Row = 0
	}
	if pos.Row >= d.store.Len() {
		pos.Row = d.store.Len() - 1
	}
	row, _ := d.store.Row(pos.Row)
	if pos.Col < 0 {
		pos.Col = 0
	}
	if pos.Col > row.Len() {
		pos.Col = row.Len()
	}
	return pos
}

// RawInsert and RawDelete are the replay surface for the undo engine:
// they mutate the store and bookkeeping but record nothing.

func (d *Document) RawInsert(pos buffer.Position, text string) (buffer.Position, error) {
	if d.readOnly {
		return buffer.Position{}, ErrReadOnly
	}
	end, err := d.store.InsertAt(pos, text)
	if err != nil {
		return buffer.Position{}, err
	}
	d.dirty = true
	return end, nil
}

func (d *Document) RawDelete(start, end buffer.Position) (string, error) {
	if d.readOnly {
		return "", ErrReadOnly
	}
	removed, err := d.store.DeleteRange(start, end)
	if err != nil {
		return "", err
	}
	d.dirty = true
	return removed, nil
}

// Insert places text at the cursor and returns the event describing
// it. typed should be true only for a single keystroke cluster; it
// opts the event into undo coalescing.
func (d *Document) Insert(text string, typed bool) (undo.Event, error) {
	before := d.cursor
	end, err := d.RawInsert(before, text)
	if err != nil {
		return undo.Event{}, err
	}
	d.SetCursor(end)
	kind := undo.KindInsert
	if strings.Contains(text, "\n") {
		kind = undo.KindInsertRows
	}
	return undo.Event{
		Kind:         kind,
		Start:        before,
		End:          end,
		Text:         text,
		CursorBefore: before,
		CursorAfter:  end,
		Typing:       typed && kind == undo.KindInsert,
	}, nil
}

// Delete removes [start, end) and returns the event carrying the
// removed text.
func (d *Document) Delete(start, end buffer.Position) (undo.Event, error) {
	before := d.cursor
	removed, err := d.RawDelete(start, end)
	if err != nil {
		return undo.Event{}, err
	}
	d.SetCursor(start)
	kind := undo.KindDelete
	if start.Row != end.Row {
		kind = undo.KindDeleteRows
	}
	return undo.Event{
		Kind:         kind,
		Start:        start,
		End:          end,
		Removed:      removed,
		CursorBefore: before,
		CursorAfter:  start,
	}, nil
}

// Backspace deletes the cluster before the cursor, joining with the
// previous row at column zero. At the start of the document it is a
// no-op reported via ok=false.
func (d *Document) Backspace() (undo.Event, bool, error) {
	cur := d.cursor
	if cur.Col > 0 {
		ev, err := d.Delete(buffer.Position{Row: cur.Row, Col: cur.Col - 1}, cur)
		return ev, err == nil, err
	}
	if cur.Row == 0 {
		return undo.Event{}, false, nil
	}
	prev, _ := d.store.Row(cur.Row - 1)
	ev, err := d.Delete(buffer.Position{Row: cur.Row - 1, Col: prev.Len()}, cur)
	return ev, err == nil, err
}

// DeleteCluster removes the cluster under the cursor, joining with the
// next row at end of line.
func (d *Document) DeleteCluster() (undo.Event, bool, error) {
	cur := d.cursor
	row, err := d.store.Row(cur.Row)
	if err != nil {
		return undo.Event{}, false, err
	}
	if cur.Col < row.Len() {
		ev, err := d.Delete(cur, buffer.Position{Row: cur.Row, Col: cur.Col + 1})
		return ev, err == nil, err
	}
	if cur.Row == d.store.Len()-1 {
		return undo.Event{}, false, nil
	}
	ev, err := d.Delete(cur, buffer.Position{Row: cur.Row + 1, Col: 0})
	return ev, err == nil, err
}

// DeleteRow removes the cursor's row. On the last remaining row the
// content is cleared instead, keeping the one-row floor.
func (d *Document) DeleteRow() (undo.Event, error) {
	cur := d.cursor
	row, err := d.store.Row(cur.Row)
	if err != nil {
		return undo.Event{}, err
	}
	start := buffer.Position{Row: cur.Row, Col: 0}
	if cur.Row < d.store.Len()-1 {
		return d.Delete(start, buffer.Position{Row: cur.Row + 1, Col: 0})
	}
	if cur.Row > 0 {
		prev, _ := d.store.Row(cur.Row - 1)
		return d.Delete(buffer.Position{Row: cur.Row - 1, Col: prev.Len()}, buffer.Position{Row: cur.Row, Col: row.Len()})
	}
	return d.Delete(start, buffer.Position{Row: cur.Row, Col: row.Len()})
}

// ReplaceSelection swaps the selection for text in one event so a
// single undo restores the replaced content.
func (d *Document) ReplaceSelection(text string) (undo.Event, error) {
	start, end, ok := d.Selection()
	if !ok {
		return undo.Event{}, errors.New("no selection")
	}
	before := d.cursor
	removed, err := d.RawDelete(start, end)
	if err != nil {
		return undo.Event{}, err
	}
	insEnd, err := d.RawInsert(start, text)
	if err != nil {
		return undo.Event{}, err
	}
	d.ClearSelection()
	d.SetCursor(insEnd)
	return undo.Event{
		Kind:         undo.KindReplace,
		Start:        start,
		End:          insEnd,
		Text:         text,
		Removed:      removed,
		CursorBefore: before,
		CursorAfter:  insEnd,
	}, nil
}
