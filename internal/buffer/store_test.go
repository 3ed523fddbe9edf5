package buffer

import (
	"errors"
	"strings"
	"testing"
)

func newTestStore(lines ...string) *Store {
	if len(lines) == 0 {
		lines = []string{""}
	}
	return FromLines(lines)
}

func storeText(s *Store) string {
	return strings.Join(s.Lines(), "\n")
}

func TestNewStoreHasOneRow(t *testing.T) {
	s := NewStore()
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
	line, err := s.Line(0)
	if err != nil || line != "" {
		t.Fatalf("line = %q err = %v, want empty", line, err)
	}
}

func TestInsertAtSplice(t *testing.T) {
	s := newTestStore("hello")
	end, err := s.InsertAt(Position{Row: 0, Col: 2}, "XY")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := storeText(s); got != "heXYllo" {
		t.Fatalf("text = %q, want %q", got, "heXYllo")
	}
	if end != (Position{Row: 0, Col: 4}) {
		t.Fatalf("end = %v, want 0:4", end)
	}
}

func TestInsertAtSplitsRow(t *testing.T) {
	s := newTestStore("abcd")
	end, err := s.InsertAt(Position{Row: 0, Col: 2}, "1\n22\n3")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	want := []string{"ab1", "22", "3cd"}
	for i, w := range want {
		if got, _ := s.Line(i); got != w {
			t.Fatalf("line %d = %q, want %q", i, got, w)
		}
	}
	if end != (Position{Row: 2, Col: 1}) {
		t.Fatalf("end = %v, want 2:1", end)
	}
}

func TestInsertAtNewlineOnly(t *testing.T) {
	s := newTestStore("abcd")
	end, err := s.InsertAt(Position{Row: 0, Col: 2}, "\n")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	if got := storeText(s); got != "ab\ncd" {
		t.Fatalf("text = %q, want %q", got, "ab\ncd")
	}
	if end != (Position{Row: 1, Col: 0}) {
		t.Fatalf("end = %v, want 1:0", end)
	}
}

func TestInsertAtOutOfBounds(t *testing.T) {
	s := newTestStore("ab")
	if _, err := s.InsertAt(Position{Row: 1, Col: 0}, "x"); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("row oob err = %v, want ErrOutOfBounds", err)
	}
	if _, err := s.InsertAt(Position{Row: 0, Col: 3}, "x"); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("col oob err = %v, want ErrOutOfBounds", err)
	}
}

func TestDeleteRangeSingleRow(t *testing.T) {
	s := newTestStore("hello")
	removed, err := s.DeleteRange(Position{0, 1}, Position{0, 4})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != "ell" {
		t.Fatalf("removed = %q, want %q", removed, "ell")
	}
	if got := storeText(s); got != "ho" {
		t.Fatalf("text = %q, want %q", got, "ho")
	}
}

func TestDeleteRangeAcrossRows(t *testing.T) {
	s := newTestStore("abc", "def")
	removed, err := s.DeleteRange(Position{0, 1}, Position{1, 1})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != "bc\nd" {
		t.Fatalf("removed = %q, want %q", removed, "bc\nd")
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
	if got, _ := s.Line(0); got != "aef" {
		t.Fatalf("line = %q, want %q", got, "aef")
	}
}

func TestDeleteRangeCoveredRowsRemoved(t *testing.T) {
	s := newTestStore("one", "two", "three", "four")
	removed, err := s.DeleteRange(Position{0, 3}, Position{3, 0})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != "\ntwo\nthree\n" {
		t.Fatalf("removed = %q, want %q", removed, "\ntwo\nthree\n")
	}
	if got := storeText(s); got != "onefour" {
		t.Fatalf("text = %q, want %q", got, "onefour")
	}
}

func TestDeleteEntireContentKeepsOneRow(t *testing.T) {
	s := newTestStore("only")
	if _, err := s.DeleteRange(Position{0, 0}, Position{0, 4}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
	if got, _ := s.Line(0); got != "" {
		t.Fatalf("line = %q, want empty", got)
	}
}

func TestDeleteRangeInvalid(t *testing.T) {
	s := newTestStore("abc", "def")
	if _, err := s.DeleteRange(Position{1, 0}, Position{0, 2}); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
	if _, err := s.DeleteRange(Position{0, 0}, Position{0, 9}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestDeleteInsertRoundTrip(t *testing.T) {
	s := newTestStore("abc", "def", "ghi")
	start := Position{0, 2}
	removed, err := s.DeleteRange(start, Position{2, 1})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.InsertAt(start, removed); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := storeText(s); got != "abc\ndef\nghi" {
		t.Fatalf("round trip = %q", got)
	}
}

func TestDirtyRange(t *testing.T) {
	s := newTestStore("a", "b", "c")
	s.DirtyRange() // clear the load-time flags
	if _, _, ok := s.DirtyRange(); ok {
		t.Fatalf("dirty after clear")
	}
	if _, err := s.InsertAt(Position{1, 0}, "x"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	start, end, ok := s.DirtyRange()
	if !ok || start != 1 || end != 1 {
		t.Fatalf("dirty = %d..%d ok=%v, want 1..1 true", start, end, ok)
	}
}

func TestGraphemeColumnUnits(t *testing.T) {
	s := newTestStore("aéc") // a, é (combining), c
	removed, err := s.DeleteRange(Position{0, 1}, Position{0, 2})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed != "é" {
		t.Fatalf("removed = %q, want combined cluster", removed)
	}
	if got, _ := s.Line(0); got != "ac" {
		t.Fatalf("line = %q, want %q", got, "ac")
	}
}
