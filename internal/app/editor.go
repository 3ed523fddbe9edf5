package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/oxed/internal/buffer"
	"github.com/kobzarvs/oxed/internal/config"
	"github.com/kobzarvs/oxed/internal/document"
	"github.com/kobzarvs/oxed/internal/highlight"
	"github.com/kobzarvs/oxed/internal/logger"
	"github.com/kobzarvs/oxed/internal/oxa"
	"github.com/kobzarvs/oxed/internal/session"
	"github.com/kobzarvs/oxed/internal/undo"
)

// Editor glues the document core, the command interpreter and the
// highlighter to a tcell screen. It owns everything the renderer
// draws.
type Editor struct {
	cfg    config.Config
	doc    *document.Document
	engine *undo.Engine
	interp *oxa.Interpreter
	hl     *highlight.Engine
	sess   *session.Manager

	scroll     int
	viewHeight int
	width      int

	promptActive bool
	prompt       []rune
	promptCursor int
	history      []string
	historyIdx   int

	statusMessage string
	quitPending   bool

	styles      styleSet
	tabWidth    int
	lineNumbers bool
}

func NewEditor(cfg config.Config, hl *highlight.Engine, sess *session.Manager) *Editor {
	engine := undo.NewEngine(undoOptions(cfg.Undo))
	ctx := oxa.NewContext(cfg.Macro.MaxDepth)
	doc := document.New()

	e := &Editor{
		cfg:         cfg,
		doc:         doc,
		engine:      engine,
		interp:      oxa.New(doc, engine, ctx),
		hl:          hl,
		sess:        sess,
		styles:      newStyleSet(cfg.Theme),
		tabWidth:    cfg.Editor.TabWidth,
		lineNumbers: cfg.Editor.LineNumbers != "off",
		historyIdx:  -1,
	}
	if e.tabWidth < 1 {
		e.tabWidth = 4
	}
	if sess != nil {
		e.history = sess.History()
	}
	e.loadMacros(ctx)
	return e
}

func bufferPos(row, col int) buffer.Position {
	return buffer.Position{Row: row, Col: col}
}

func undoOptions(u config.UndoOptions) undo.Options {
	opts := undo.Options{
		CharLimit: u.CharLimit,
		MaxEvents: u.MaxEvents,
	}
	switch u.Boundary {
	case "none":
		opts.Boundary = undo.BoundaryNone
	case "chars":
		opts.Boundary = undo.BoundaryChars
	default:
		opts.Boundary = undo.BoundaryWord
	}
	return opts
}

// loadMacros registers every .oxa file in the macro dir under its
// base name.
func (e *Editor) loadMacros(ctx *oxa.Context) {
	dir, err := config.MacroDir()
	if err != nil {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".oxa") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		script, err := oxa.Compile(string(data))
		if err != nil {
			logger.Warn("macro failed to compile", "file", entry.Name(), "err", err)
			continue
		}
		ctx.DefineMacro(strings.TrimSuffix(entry.Name(), ".oxa"), script)
	}
}

// OpenFile loads a file into a fresh document with fresh history. A
// missing file becomes an empty document that saves to that path.
func (e *Editor) OpenFile(path string) error {
	doc, err := document.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		doc = document.New()
		doc.SetPath(path)
	}
	e.rememberFileState()
	e.doc = doc
	e.engine = undo.NewEngine(undoOptions(e.cfg.Undo))
	e.interp.SetDocument(doc, e.engine)
	e.scroll = 0
	e.quitPending = false

	if e.sess != nil {
		if abs, err := filepath.Abs(path); err == nil {
			if state, ok := e.sess.GetFileState(abs); ok {
				doc.SetCursor(bufferPos(state.CursorRow, state.CursorCol))
				e.scroll = state.ScrollY
			}
		}
	}
	return nil
}

func (e *Editor) rememberFileState() {
	if e.sess == nil || e.doc == nil || e.doc.Path() == "" {
		return
	}
	abs, err := filepath.Abs(e.doc.Path())
	if err != nil {
		return
	}
	cur := e.doc.Cursor()
	e.sess.SetFileState(abs, session.FileState{
		CursorRow: cur.Row,
		CursorCol: cur.Col,
		ScrollY:   e.scroll,
	})
}

func (e *Editor) Document() *document.Document { return e.doc }

// Shutdown persists state on exit.
func (e *Editor) Shutdown() {
	e.rememberFileState()
	if e.sess != nil {
		e.sess.Stop()
	}
}

func (e *Editor) SetStatusMessage(msg string) {
	e.statusMessage = msg
}

// HandleKey processes one key event. Reports whether the app should
// exit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	if e.promptActive {
		return e.handlePromptKey(ev)
	}

	key := keyString(ev)
	if line, ok := e.cfg.Keymap[key]; ok {
		return e.execLine(line, false)
	}

	// unbound printable runes are typed input
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0 {
		e.quitPending = false
		e.replaceSelectionOnType()
		if err := e.interp.InsertTyped(string(ev.Rune())); err != nil {
			e.statusMessage = err.Error()
		}
	}
	return false
}

// replaceSelectionOnType deletes the active selection so typing over
// it replaces it.
func (e *Editor) replaceSelectionOnType() {
	if !e.doc.HasSelection() {
		return
	}
	if ev, ok, err := e.doc.DeleteSelection(); err == nil && ok {
		e.engine.Record(ev)
	}
	e.doc.ClearSelection()
}

// execLine runs one command line (from a key binding or the prompt)
// and applies its effects. Reports whether the app should exit.
func (e *Editor) execLine(line string, fromPrompt bool) bool {
	undoBefore, redoBefore := e.engine.UndoDepth(), e.engine.RedoDepth()
	effects, err := e.interp.Execute(line)
	if err != nil {
		e.statusMessage = err.Error()
		logger.Debug("command failed", "line", line, "err", err)
	} else if fromPrompt {
		e.statusMessage = ""
	}

	// any document change invalidates a pending quit confirmation
	if e.engine.UndoDepth() != undoBefore || e.engine.RedoDepth() != redoBefore {
		e.quitPending = false
	}

	quit := false
	for _, eff := range effects {
		switch eff.Kind {
		case oxa.EffectStatus:
			e.statusMessage = eff.Status
		case oxa.EffectQuit:
			quit = e.requestQuit()
		case oxa.EffectSave:
			e.save(eff.Path)
		case oxa.EffectOpen:
			if err := e.OpenFile(eff.Path); err != nil {
				e.statusMessage = err.Error()
			}
		case oxa.EffectPrompt:
			e.openPrompt()
		}
	}
	return quit
}

// requestQuit refuses the first quit while the document has unsaved
// changes.
func (e *Editor) requestQuit() bool {
	if e.doc.Dirty() && !e.quitPending {
		e.quitPending = true
		e.statusMessage = "unsaved changes, quit again to discard"
		return false
	}
	return true
}

func (e *Editor) save(path string) {
	var err error
	if path != "" {
		err = e.doc.SaveAs(path)
	} else {
		err = e.doc.Save()
	}
	if err != nil {
		e.statusMessage = err.Error()
		logger.Error("save failed", "path", path, "err", err)
		return
	}
	e.quitPending = false
	e.statusMessage = "saved " + e.doc.Path()
	e.rememberFileState()
}

func (e *Editor) openPrompt() {
	e.promptActive = true
	e.prompt = e.prompt[:0]
	e.promptCursor = 0
	e.historyIdx = -1
}

func (e *Editor) handlePromptKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		e.promptActive = false
	case tcell.KeyEnter:
		line := string(e.prompt)
		e.promptActive = false
		if line == "" {
			return false
		}
		e.addHistory(line)
		return e.execLine(line, true)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e.promptCursor > 0 {
			e.prompt = append(e.prompt[:e.promptCursor-1], e.prompt[e.promptCursor:]...)
			e.promptCursor--
		}
	case tcell.KeyLeft:
		if e.promptCursor > 0 {
			e.promptCursor--
		}
	case tcell.KeyRight:
		if e.promptCursor < len(e.prompt) {
			e.promptCursor++
		}
	case tcell.KeyHome:
		e.promptCursor = 0
	case tcell.KeyEnd:
		e.promptCursor = len(e.prompt)
	case tcell.KeyUp:
		e.historyPrev()
	case tcell.KeyDown:
		e.historyNext()
	case tcell.KeyRune:
		e.prompt = append(e.prompt[:e.promptCursor], append([]rune{ev.Rune()}, e.prompt[e.promptCursor:]...)...)
		e.promptCursor++
	}
	return false
}

func (e *Editor) addHistory(line string) {
	if len(e.history) == 0 || e.history[len(e.history)-1] != line {
		e.history = append(e.history, line)
	}
	if e.sess != nil {
		e.sess.AddHistory(line)
	}
}

func (e *Editor) historyPrev() {
	if len(e.history) == 0 {
		return
	}
	if e.historyIdx == -1 {
		e.historyIdx = len(e.history) - 1
	} else if e.historyIdx > 0 {
		e.historyIdx--
	}
	e.prompt = []rune(e.history[e.historyIdx])
	e.promptCursor = len(e.prompt)
}

func (e *Editor) historyNext() {
	if e.historyIdx == -1 {
		return
	}
	e.historyIdx++
	if e.historyIdx >= len(e.history) {
		e.historyIdx = -1
		e.prompt = e.prompt[:0]
	} else {
		e.prompt = []rune(e.history[e.historyIdx])
	}
	e.promptCursor = len(e.prompt)
}

// HandleMouse supports wheel scrolling and click to move the cursor.
func (e *Editor) HandleMouse(ev *tcell.EventMouse) {
	btn := ev.Buttons()
	switch {
	case btn&tcell.WheelUp != 0:
		e.scroll -= 3
		if e.scroll < 0 {
			e.scroll = 0
		}
	case btn&tcell.WheelDown != 0:
		max := e.doc.LineCount() - 1
		e.scroll += 3
		if e.scroll > max {
			e.scroll = max
		}
	case btn&tcell.Button1 != 0:
		x, y := ev.Position()
		row := e.scroll + y
		if row >= e.doc.LineCount() {
			row = e.doc.LineCount() - 1
		}
		if row < 0 || y >= e.viewHeight {
			return
		}
		col := e.colAtScreen(row, x-e.gutterWidth())
		e.doc.ClearSelection()
		e.doc.SetCursor(bufferPos(row, col))
	}
}

// UpdateScroll keeps the cursor inside the viewport.
func (e *Editor) UpdateScroll() {
	cur := e.doc.Cursor()
	if cur.Row < e.scroll {
		e.scroll = cur.Row
	}
	if e.viewHeight > 0 && cur.Row >= e.scroll+e.viewHeight {
		e.scroll = cur.Row - e.viewHeight + 1
	}
	if e.scroll < 0 {
		e.scroll = 0
	}
}

// RefreshHighlights reparses if the document changed and pulls spans
// for the visible rows.
func (e *Editor) RefreshHighlights() map[int][]highlight.Span {
	if e.hl == nil || e.doc.Path() == "" {
		return nil
	}
	path := e.doc.Path()
	e.hl.Refresh(path, e.doc)
	end := e.scroll + e.viewHeight - 1
	if max := e.doc.LineCount() - 1; end > max {
		end = max
	}
	return e.hl.Highlights(path, e.scroll, end)
}
