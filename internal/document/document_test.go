package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kobzarvs/oxed/internal/buffer"
	"github.com/kobzarvs/oxed/internal/undo"
)

func newTestDocument(lines ...string) *Document {
	if len(lines) == 0 {
		lines = []string{""}
	}
	d := New()
	d.store = buffer.FromLines(lines)
	return d
}

func TestFromBytesDetectsEnding(t *testing.T) {
	d := FromBytes([]byte("a\r\nb\r\n"))
	if d.Ending() != CRLF {
		t.Fatalf("ending = %q, want CRLF", d.Ending())
	}
	if d.LineCount() != 3 {
		t.Fatalf("lines = %d, want 3", d.LineCount())
	}
	d = FromBytes([]byte("a\nb"))
	if d.Ending() != LF {
		t.Fatalf("ending = %q, want LF", d.Ending())
	}
}

func TestRoundTripUnmodified(t *testing.T) {
	for _, input := range []string{"", "abc", "abc\n", "a\nb\nc", "a\r\nb\r\n", "\n\n"} {
		d := FromBytes([]byte(input))
		if got := string(d.Bytes()); got != input {
			t.Fatalf("round trip of %q = %q", input, got)
		}
	}
}

func TestOpenSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	content := "one\r\ntwo\r\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	d, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := d.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != content {
		t.Fatalf("saved = %q, want %q", data, content)
	}
}

func TestInsertReturnsEvent(t *testing.T) {
	d := newTestDocument("hello")
	d.SetCursor(buffer.Position{Row: 0, Col: 5})
	ev, err := d.Insert(" world", false)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if ev.Kind != undo.KindInsert || ev.Text != " world" {
		t.Fatalf("event = %+v", ev)
	}
	if ev.End != (buffer.Position{Row: 0, Col: 11}) {
		t.Fatalf("end = %v, want 0:11", ev.End)
	}
	if !d.Dirty() {
		t.Fatalf("document not dirty after insert")
	}
}

func TestInsertMultiRowKind(t *testing.T) {
	d := newTestDocument("ab")
	d.SetCursor(buffer.Position{Row: 0, Col: 1})
	ev, err := d.Insert("x\ny", false)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if ev.Kind != undo.KindInsertRows {
		t.Fatalf("kind = %v, want KindInsertRows", ev.Kind)
	}
	if d.Cursor() != (buffer.Position{Row: 1, Col: 1}) {
		t.Fatalf("cursor = %v, want 1:1", d.Cursor())
	}
}

func TestReadOnlyRejectsMutation(t *testing.T) {
	d := newTestDocument("abc")
	d.SetReadOnly(true)
	if _, err := d.Insert("x", false); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("insert err = %v, want ErrReadOnly", err)
	}
	if _, err := d.Delete(buffer.Position{}, buffer.Position{Row: 0, Col: 1}); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("delete err = %v, want ErrReadOnly", err)
	}
}

func TestMovementClampsAtEdges(t *testing.T) {
	d := newTestDocument("ab", "c")
	d.MoveLeft() // at 0:0, no-op
	if d.Cursor() != (buffer.Position{}) {
		t.Fatalf("cursor = %v, want 0:0", d.Cursor())
	}
	d.MoveUp()
	if d.Cursor() != (buffer.Position{}) {
		t.Fatalf("cursor = %v, want 0:0", d.Cursor())
	}
	d.MoveFileEnd()
	want := buffer.Position{Row: 1, Col: 1}
	if d.Cursor() != want {
		t.Fatalf("cursor = %v, want %v", d.Cursor(), want)
	}
	d.MoveRight() // at file end, no-op
	if d.Cursor() != want {
		t.Fatalf("cursor = %v, want %v", d.Cursor(), want)
	}
	d.MoveDown()
	if d.Cursor() != want {
		t.Fatalf("cursor = %v, want %v", d.Cursor(), want)
	}
}

func TestMoveWrapsRows(t *testing.T) {
	d := newTestDocument("ab", "cd")
	d.SetCursor(buffer.Position{Row: 1, Col: 0})
	d.MoveLeft()
	if d.Cursor() != (buffer.Position{Row: 0, Col: 2}) {
		t.Fatalf("cursor = %v, want 0:2", d.Cursor())
	}
	d.MoveRight()
	if d.Cursor() != (buffer.Position{Row: 1, Col: 0}) {
		t.Fatalf("cursor = %v, want 1:0", d.Cursor())
	}
}

func TestStickyColumn(t *testing.T) {
	d := newTestDocument("longline", "x", "longline")
	d.SetCursor(buffer.Position{Row: 0, Col: 6})
	d.MoveDown()
	if d.Cursor() != (buffer.Position{Row: 1, Col: 1}) {
		t.Fatalf("cursor = %v, want clamp to 1:1", d.Cursor())
	}
	d.MoveDown()
	if d.Cursor() != (buffer.Position{Row: 2, Col: 6}) {
		t.Fatalf("cursor = %v, want sticky 2:6", d.Cursor())
	}
}

func TestMoveWord(t *testing.T) {
	d := newTestDocument("foo  bar baz")
	d.MoveWordRight()
	if d.Cursor().Col != 5 {
		t.Fatalf("word right col = %d, want 5", d.Cursor().Col)
	}
	d.MoveWordRight()
	if d.Cursor().Col != 9 {
		t.Fatalf("word right col = %d, want 9", d.Cursor().Col)
	}
	d.MoveWordLeft()
	if d.Cursor().Col != 5 {
		t.Fatalf("word left col = %d, want 5", d.Cursor().Col)
	}
}

func TestSelectionNormalized(t *testing.T) {
	d := newTestDocument("abc", "def")
	d.SetCursor(buffer.Position{Row: 1, Col: 2})
	d.StartSelection()
	d.SetCursor(buffer.Position{Row: 0, Col: 1})
	start, end, ok := d.Selection()
	if !ok {
		t.Fatalf("no selection")
	}
	if start != (buffer.Position{Row: 0, Col: 1}) || end != (buffer.Position{Row: 1, Col: 2}) {
		t.Fatalf("range = %v..%v", start, end)
	}
	d.ClearSelection()
	if d.HasSelection() {
		t.Fatalf("selection survives clear")
	}
	if got, _ := d.store.Line(0); got != "abc" {
		t.Fatalf("clear mutated content: %q", got)
	}
}

func TestHoldSelectionKeepsAnchor(t *testing.T) {
	d := newTestDocument("abcdef")
	d.HoldSelection()
	d.MoveRight()
	d.HoldSelection()
	d.MoveRight()
	start, end, ok := d.Selection()
	if !ok {
		t.Fatalf("no selection")
	}
	if start != (buffer.Position{Row: 0, Col: 0}) || end != (buffer.Position{Row: 0, Col: 2}) {
		t.Fatalf("range = %v..%v", start, end)
	}
}

func TestDeleteSelectionOneEvent(t *testing.T) {
	d := newTestDocument("abc", "def")
	d.SetCursor(buffer.Position{Row: 0, Col: 1})
	d.StartSelection()
	d.SetCursor(buffer.Position{Row: 1, Col: 1})
	ev, ok, err := d.DeleteSelection()
	if err != nil || !ok {
		t.Fatalf("delete selection ok=%v err=%v", ok, err)
	}
	if ev.Removed != "bc\nd" {
		t.Fatalf("removed = %q, want %q", ev.Removed, "bc\nd")
	}
	if got, _ := d.store.Line(0); got != "aef" {
		t.Fatalf("line = %q, want %q", got, "aef")
	}
}

func TestBackspaceJoinsRows(t *testing.T) {
	d := newTestDocument("ab", "cd")
	d.SetCursor(buffer.Position{Row: 1, Col: 0})
	ev, ok, err := d.Backspace()
	if err != nil || !ok {
		t.Fatalf("backspace ok=%v err=%v", ok, err)
	}
	if ev.Removed != "\n" {
		t.Fatalf("removed = %q, want newline", ev.Removed)
	}
	if d.LineCount() != 1 {
		t.Fatalf("lines = %d, want 1", d.LineCount())
	}
	d.SetCursor(buffer.Position{})
	if _, ok, _ := d.Backspace(); ok {
		t.Fatalf("backspace at file start should be a no-op")
	}
}

func TestSearchIterator(t *testing.T) {
	d := newTestDocument("foo bar", "foo", "barfoo")
	it := d.Search("foo")
	want := []buffer.Position{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 2, Col: 3}}
	for i, w := range want {
		got, ok := it.Next()
		if !ok {
			t.Fatalf("match %d missing", i)
		}
		if got != w {
			t.Fatalf("match %d = %v, want %v", i, got, w)
		}
	}
	if _, ok := it.Next(); ok {
		t.Fatalf("unexpected extra match")
	}
}

func TestSearchWrapsOnce(t *testing.T) {
	d := newTestDocument("alpha", "beta", "alpha")
	d.SetCursor(buffer.Position{Row: 1, Col: 0})
	it := d.Search("alpha")
	got, ok := it.Next()
	if !ok || got != (buffer.Position{Row: 2, Col: 0}) {
		t.Fatalf("first = %v ok=%v, want 2:0", got, ok)
	}
	got, ok = it.Next()
	if !ok || got != (buffer.Position{Row: 0, Col: 0}) {
		t.Fatalf("wrapped = %v ok=%v, want 0:0", got, ok)
	}
	if _, ok := it.Next(); ok {
		t.Fatalf("search wrapped twice")
	}
}

func TestTakeDirtyAfterEdit(t *testing.T) {
	d := newTestDocument("a", "b", "c")
	d.TakeDirty() // drain load-time flags
	d.SetCursor(buffer.Position{Row: 2, Col: 0})
	if _, err := d.Insert("x", true); err != nil {
		t.Fatalf("insert: %v", err)
	}
	start, end, ok := d.TakeDirty()
	if !ok || start != 2 || end != 2 {
		t.Fatalf("dirty = %d..%d ok=%v, want 2..2 true", start, end, ok)
	}
	if _, _, ok := d.TakeDirty(); ok {
		t.Fatalf("dirty flag not cleared")
	}
}
