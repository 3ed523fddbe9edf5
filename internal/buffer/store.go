package buffer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOutOfBounds means a position referenced a row or column that
	// does not exist. Callers that want clamping must clamp themselves.
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrInvalidRange means a range's start lies after its end.
	ErrInvalidRange = errors.New("invalid range")
)

// Position addresses a point in a Store: a 0-based row index and a
// grapheme-cluster column. Col may equal the row length, meaning
// "after the last cluster".
type Position struct {
	Row int
	Col int
}

func (p Position) Before(q Position) bool {
	return p.Row < q.Row || (p.Row == q.Row && p.Col < q.Col)
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// Store is the ordered sequence of rows that owns all document text.
// It always holds at least one row; an empty document is one empty
// row, never zero rows.
type Store struct {
	rows []*Row
}

func NewStore() *Store {
	return &Store{rows: []*Row{NewRow("")}}
}

// FromLines builds a store from pre-split lines. An empty slice yields
// the one-empty-row floor.
func FromLines(lines []string) *Store {
	if len(lines) == 0 {
		return NewStore()
	}
	rows := make([]*Row, len(lines))
	for i, line := range lines {
		rows[i] = NewRow(line)
	}
	return &Store{rows: rows}
}

func (s *Store) Len() int {
	return len(s.rows)
}

// Row returns the row at index i, or ErrOutOfBounds. The returned row
// is owned by the store; mutations must go through InsertAt/DeleteRange.
func (s *Store) Row(i int) (*Row, error) {
	if i < 0 || i >= len(s.rows) {
		return nil, fmt.Errorf("row %d of %d: %w", i, len(s.rows), ErrOutOfBounds)
	}
	return s.rows[i], nil
}

// Line returns the text of row i.
func (s *Store) Line(i int) (string, error) {
	r, err := s.Row(i)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// Lines returns a copy of every row's text in document order.
func (s *Store) Lines() []string {
	out := make([]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.String()
	}
	return out
}

func (s *Store) validate(pos Position) error {
	if pos.Row < 0 || pos.Row >= len(s.rows) {
		return fmt.Errorf("row %d of %d: %w", pos.Row, len(s.rows), ErrOutOfBounds)
	}
	if pos.Col < 0 || pos.Col > s.rows[pos.Row].Len() {
		return fmt.Errorf("col %d of %d: %w", pos.Col, s.rows[pos.Row].Len(), ErrOutOfBounds)
	}
	return nil
}

// InsertAt splices text into the store at pos. Text containing line
// terminators splits the target row; text is expected to use "\n" as
// the separator (the document layer normalizes CRLF on load).
// Returns the position just past the inserted text.
func (s *Store) InsertAt(pos Position, text string) (Position, error) {
	if err := s.validate(pos); err != nil {
		return Position{}, err
	}
	row := s.rows[pos.Row]
	parts := strings.Split(text, "\n")
	if len(parts) == 1 {
		clusters := splitClusters(text)
		row.splice(pos.Col, clusters)
		return Position{Row: pos.Row, Col: pos.Col + len(clusters)}, nil
	}

	// The target row is split: its tail moves to the end of the last
	// inserted line, intermediate parts become rows of their own.
	tail := row.cut(pos.Col, row.Len())
	row.splice(pos.Col, splitClusters(parts[0]))

	newRows := make([]*Row, 0, len(parts)-1)
	for _, part := range parts[1 : len(parts)-1] {
		newRows = append(newRows, NewRow(part))
	}
	last := NewRow(parts[len(parts)-1])
	endCol := last.Len()
	last.splice(last.Len(), tail)
	newRows = append(newRows, last)

	rest := make([]*Row, len(s.rows[pos.Row+1:]))
	copy(rest, s.rows[pos.Row+1:])
	s.rows = append(s.rows[:pos.Row+1], append(newRows, rest...)...)
	return Position{Row: pos.Row + len(parts) - 1, Col: endCol}, nil
}

// DeleteRange removes the text between start and end and returns it
// exactly, with "\n" separating rows, so the caller can rebuild the
// inverse operation. Rows fully covered are removed and the boundary
// rows are merged.
func (s *Store) DeleteRange(start, end Position) (string, error) {
	if end.Before(start) {
		return "", fmt.Errorf("%s > %s: %w", start, end, ErrInvalidRange)
	}
	if err := s.validate(start); err != nil {
		return "", err
	}
	if err := s.validate(end); err != nil {
		return "", err
	}
	if start.Row == end.Row {
		removed := s.rows[start.Row].cut(start.Col, end.Col)
		return strings.Join(removed, ""), nil
	}

	first, last := s.rows[start.Row], s.rows[end.Row]
	var sb strings.Builder
	for _, c := range first.cut(start.Col, first.Len()) {
		sb.WriteString(c)
	}
	for _, r := range s.rows[start.Row+1 : end.Row] {
		sb.WriteString("\n")
		sb.WriteString(r.String())
	}
	sb.WriteString("\n")
	kept := last.cut(end.Col, last.Len())
	sb.WriteString(last.Text(0, last.Len()))

	first.splice(first.Len(), kept)
	s.rows = append(s.rows[:start.Row+1], s.rows[end.Row+1:]...)
	return sb.String(), nil
}

// DirtyRange reports the span of rows touched since the last call and
// clears their flags. ok is false when nothing changed.
func (s *Store) DirtyRange() (start, end int, ok bool) {
	start, end = -1, -1
	for i, r := range s.rows {
		if !r.Dirty() {
			continue
		}
		if start < 0 {
			start = i
		}
		end = i
		r.ClearDirty()
	}
	return start, end, start >= 0
}
