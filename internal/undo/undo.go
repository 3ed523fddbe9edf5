// Package undo records edit events and replays their inverses.
// Events store literal copies of the affected text, never references
// into the buffer, so replay stays valid after later edits.
package undo

import (
	"errors"
	"strings"
	"unicode"

	"github.com/kobzarvs/oxed/internal/buffer"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

type Kind int

const (
	KindInsert Kind = iota
	KindDelete
	KindReplace
	// Multi-row variants of insert and delete. Payload handling is the
	// same; the distinct kinds keep single-cluster typing coalescing
	// from ever touching a compound event.
	KindInsertRows
	KindDeleteRows
)

// Event is one undo unit. Start/End bound the inserted text in the
// post-edit document (for inserts) and the removed text's origin (for
// deletes). Replace carries both payloads.
type Event struct {
	Kind    Kind
	Start   buffer.Position
	End     buffer.Position
	Text    string // text the edit inserted
	Removed string // text the edit removed
	Seq     uint64

	CursorBefore buffer.Position
	CursorAfter  buffer.Position

	// Typing marks a single-cluster keystroke insertion, the only
	// events eligible for coalescing. Macro-driven bulk edits keep
	// their own boundaries.
	Typing bool
}

// Target is the document surface the engine replays against. The
// methods must not record new events.
type Target interface {
	RawInsert(pos buffer.Position, text string) (buffer.Position, error)
	RawDelete(start, end buffer.Position) (string, error)
	SetCursor(pos buffer.Position)
}

// Boundary selects the coalescing policy for typed insertions.
type Boundary int

const (
	// BoundaryWord merges a typing run until the run crosses between
	// word and whitespace clusters, giving word-granularity undo.
	BoundaryWord Boundary = iota
	// BoundaryNone never merges; every keystroke is its own event.
	BoundaryNone
	// BoundaryChars merges runs up to a fixed cluster count.
	BoundaryChars
)

type Engine struct {
	undo []Event
	redo []Event
	seq  uint64

	boundary  Boundary
	charLimit int
	maxEvents int
}

type Options struct {
	Boundary  Boundary
	CharLimit int // used with BoundaryChars
	MaxEvents int // 0 means unlimited
}

func NewEngine(opts Options) *Engine {
	if opts.Boundary == BoundaryChars && opts.CharLimit < 1 {
		opts.CharLimit = 20
	}
	return &Engine{
		boundary:  opts.Boundary,
		charLimit: opts.CharLimit,
		maxEvents: opts.MaxEvents,
	}
}

func (e *Engine) UndoDepth() int { return len(e.undo) }
func (e *Engine) RedoDepth() int { return len(e.redo) }

// Record pushes a new event and clears the redo stack. Consecutive
// typed single-cluster insertions at adjacent positions are merged
// into the event on top of the stack until a boundary triggers.
func (e *Engine) Record(ev Event) {
	e.redo = e.redo[:0]
	e.seq++
	ev.Seq = e.seq

	if e.coalesce(ev) {
		return
	}
	e.undo = append(e.undo, ev)
	if e.maxEvents > 0 && len(e.undo) > e.maxEvents {
		// Oldest history is discarded silently; this is the memory
		// cap, not an error.
		e.undo = append(e.undo[:0], e.undo[len(e.undo)-e.maxEvents:]...)
	}
}

func (e *Engine) coalesce(ev Event) bool {
	if e.boundary == BoundaryNone {
		return false
	}
	if !ev.Typing || ev.Kind != KindInsert || len(e.undo) == 0 {
		return false
	}
	top := &e.undo[len(e.undo)-1]
	if !top.Typing || top.Kind != KindInsert {
		return false
	}
	// A cursor jump between keystrokes breaks the run.
	if top.End != ev.Start {
		return false
	}
	switch e.boundary {
	case BoundaryChars:
		if clusterCount(top.Text) >= e.charLimit {
			return false
		}
	case BoundaryWord:
		if isSpaceCluster(ev.Text) != isSpaceCluster(lastCluster(top.Text)) {
			return false
		}
	}
	top.Text += ev.Text
	top.End = ev.End
	top.CursorAfter = ev.CursorAfter
	top.Seq = ev.Seq
	return true
}

// Undo pops the latest event, applies its inverse to t and moves it to
// the redo stack. The cursor lands at the edit site.
func (e *Engine) Undo(t Target) (Event, error) {
	if len(e.undo) == 0 {
		return Event{}, ErrNothingToUndo
	}
	ev := e.undo[len(e.undo)-1]
	if err := applyInverse(t, ev); err != nil {
		return Event{}, err
	}
	e.undo = e.undo[:len(e.undo)-1]
	e.redo = append(e.redo, ev)
	t.SetCursor(ev.CursorBefore)
	return ev, nil
}

// Redo re-applies the most recently undone event.
func (e *Engine) Redo(t Target) (Event, error) {
	if len(e.redo) == 0 {
		return Event{}, ErrNothingToRedo
	}
	ev := e.redo[len(e.redo)-1]
	if err := apply(t, ev); err != nil {
		return Event{}, err
	}
	e.redo = e.redo[:len(e.redo)-1]
	e.undo = append(e.undo, ev)
	t.SetCursor(ev.CursorAfter)
	return ev, nil
}

func applyInverse(t Target, ev Event) error {
	switch ev.Kind {
	case KindInsert, KindInsertRows:
		_, err := t.RawDelete(ev.Start, ev.End)
		return err
	case KindDelete, KindDeleteRows:
		_, err := t.RawInsert(ev.Start, ev.Removed)
		return err
	case KindReplace:
		if _, err := t.RawDelete(ev.Start, ev.End); err != nil {
			return err
		}
		_, err := t.RawInsert(ev.Start, ev.Removed)
		return err
	}
	return nil
}

func apply(t Target, ev Event) error {
	switch ev.Kind {
	case KindInsert, KindInsertRows:
		_, err := t.RawInsert(ev.Start, ev.Text)
		return err
	case KindDelete, KindDeleteRows:
		_, err := t.RawDelete(ev.Start, ev.End)
		return err
	case KindReplace:
		end, err := findRemovedEnd(ev.Start, ev.Removed)
		if err != nil {
			return err
		}
		if _, err := t.RawDelete(ev.Start, end); err != nil {
			return err
		}
		_, err = t.RawInsert(ev.Start, ev.Text)
		return err
	}
	return nil
}

// findRemovedEnd computes where the removed payload ended, relative to
// its recorded start, so a replace can be re-applied.
func findRemovedEnd(start buffer.Position, removed string) (buffer.Position, error) {
	lines := strings.Split(removed, "\n")
	if len(lines) == 1 {
		return buffer.Position{Row: start.Row, Col: start.Col + clusterCount(removed)}, nil
	}
	return buffer.Position{
		Row: start.Row + len(lines) - 1,
		Col: clusterCount(lines[len(lines)-1]),
	}, nil
}

func clusterCount(text string) int {
	return buffer.NewRow(text).Len()
}

func lastCluster(text string) string {
	r := buffer.NewRow(text)
	if r.Len() == 0 {
		return ""
	}
	return r.Cluster(r.Len() - 1)
}

func isSpaceCluster(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
