package oxa

import (
	"errors"
	"fmt"

	"github.com/kobzarvs/oxed/internal/buffer"
	"github.com/kobzarvs/oxed/internal/document"
	"github.com/kobzarvs/oxed/internal/logger"
	"github.com/kobzarvs/oxed/internal/undo"
)

type EffectKind int

const (
	EffectStatus EffectKind = iota
	EffectQuit
	EffectSave
	EffectOpen
	EffectPrompt
)

// Effect is an editor-level side effect the interpreter signals back
// to the caller instead of performing itself: the core never touches
// process lifecycle or the screen.
type Effect struct {
	Kind   EffectKind
	Path   string
	Status string
}

// Interpreter dispatches parsed commands against a document and its
// undo history. It owns neither: the app wires them at session start.
type Interpreter struct {
	doc        *document.Document
	history    *undo.Engine
	ctx        *Context
	viewHeight int
}

func New(doc *document.Document, history *undo.Engine, ctx *Context) *Interpreter {
	return &Interpreter{doc: doc, history: history, ctx: ctx, viewHeight: 24}
}

// SetViewHeight tells page movement how far a page is. The app calls
// this on resize.
func (in *Interpreter) SetViewHeight(h int) {
	if h > 0 {
		in.viewHeight = h
	}
}

func (in *Interpreter) Context() *Context { return in.ctx }

// SetDocument swaps the target document, used when the app opens a
// different file. History is swapped with it.
func (in *Interpreter) SetDocument(doc *document.Document, history *undo.Engine) {
	in.doc = doc
	in.history = history
}

// InsertTyped inserts a single keystroke cluster. This is the one
// insertion path eligible for undo coalescing.
func (in *Interpreter) InsertTyped(cluster string) error {
	ev, err := in.doc.Insert(cluster, true)
	if err != nil {
		return err
	}
	in.history.Record(ev)
	return nil
}

// Execute parses and runs a single command line.
func (in *Interpreter) Execute(line string) ([]Effect, error) {
	s, err := Compile(line)
	if err != nil {
		return nil, err
	}
	return in.Run(s)
}

// RunSource compiles and runs a multi-line script.
func (in *Interpreter) RunSource(src string) ([]Effect, error) {
	s, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return in.Run(s)
}

// Run executes a compiled script with an instruction pointer over its
// command list. Effects accumulate in order; quit stops execution.
func (in *Interpreter) Run(s *Script) ([]Effect, error) {
	if in.ctx.depth >= in.ctx.maxDepth {
		return nil, ErrRecursionLimit
	}
	in.ctx.depth++
	defer func() { in.ctx.depth-- }()

	var effects []Effect
	for ip := 0; ip < len(s.commands); ip++ {
		cmd := s.commands[ip]
		switch cmd.Op {
		case "label":
			continue
		case "goto":
			if len(cmd.Args) != 1 {
				return effects, fmt.Errorf("goto wants a label: %w", ErrArgument)
			}
			v, err := in.ctx.resolve(cmd.Args[0])
			if err != nil {
				return effects, err
			}
			idx, err := s.target(v.String())
			if err != nil {
				return effects, err
			}
			ip = idx
		case "if":
			if len(cmd.Args) != 2 {
				return effects, fmt.Errorf("if wants condition and label: %w", ErrArgument)
			}
			cond, err := in.ctx.resolve(cmd.Args[0])
			if err != nil {
				return effects, err
			}
			if !cond.Truthy() {
				continue
			}
			v, err := in.ctx.resolve(cmd.Args[1])
			if err != nil {
				return effects, err
			}
			idx, err := s.target(v.String())
			if err != nil {
				return effects, err
			}
			ip = idx
		default:
			evs, err := in.exec(cmd)
			if err != nil {
				return effects, fmt.Errorf("%s: %w", cmd.Op, err)
			}
			effects = append(effects, evs...)
			for _, e := range evs {
				if e.Kind == EffectQuit {
					return effects, nil
				}
			}
		}
	}
	return effects, nil
}

// exec dispatches one non-control command through the operation table.
func (in *Interpreter) exec(cmd Command) ([]Effect, error) {
	op, ok := operations[cmd.Op]
	if !ok {
		return nil, ErrUnknownCommand
	}
	if len(cmd.Args) < op.minArgs || (op.maxArgs >= 0 && len(cmd.Args) > op.maxArgs) {
		return nil, fmt.Errorf("want %d..%d args, got %d: %w", op.minArgs, op.maxArgs, len(cmd.Args), ErrArgument)
	}
	return op.run(in, cmd)
}

type operation struct {
	minArgs int
	maxArgs int // -1 means unbounded
	run     func(in *Interpreter, cmd Command) ([]Effect, error)
}

// The operation set is closed and known at build time, so dispatch is
// a plain table rather than anything polymorphic. Populated in init
// because opCall runs scripts, which routes back through the table.
var operations map[string]operation

func init() {
	operations = map[string]operation{
		"move":      {1, 2, opMove},
		"jump":      {2, 2, opJump},
		"put":       {1, 1, opPut},
		"newline":   {0, 0, opNewline},
		"backspace": {0, 0, opBackspace},
		"delchar":   {0, 1, opDelChar},
		"delline":   {0, 0, opDelLine},
		"select":    {1, 1, opSelect},
		"replace":   {1, 1, opReplace},
		"set":       {2, 2, opSet},
		"search":    {1, 1, opSearch},
		"undo":      {0, 0, opUndo},
		"redo":      {0, 0, opRedo},
		"readonly":  {1, 1, opReadOnly},
		"call":      {1, 1, opCall},
		"echo":      {1, 1, opEcho},
		"save":      {0, 1, opSave},
		"open":      {1, 1, opOpen},
		"prompt":    {0, 0, opPrompt},
		"quit":      {0, 0, opQuit},
	}
}

func (in *Interpreter) argValue(cmd Command, i int) (Value, error) {
	return in.ctx.resolve(cmd.Args[i])
}

func (in *Interpreter) argString(cmd Command, i int) (string, error) {
	v, err := in.argValue(cmd, i)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func (in *Interpreter) argNumber(cmd Command, i int) (int, error) {
	v, err := in.argValue(cmd, i)
	if err != nil {
		return 0, err
	}
	if v.Kind != ValueNumber {
		return 0, fmt.Errorf("arg %d: want number, got %q: %w", i+1, v.String(), ErrArgument)
	}
	return v.Num, nil
}

func opMove(in *Interpreter, cmd Command) ([]Effect, error) {
	dir, err := in.argString(cmd, 0)
	if err != nil {
		return nil, err
	}
	count := 1
	if len(cmd.Args) == 2 {
		if count, err = in.argNumber(cmd, 1); err != nil {
			return nil, err
		}
	}
	for i := 0; i < count; i++ {
		switch dir {
		case "up":
			in.doc.MoveUp()
		case "down":
			in.doc.MoveDown()
		case "left":
			in.doc.MoveLeft()
		case "right":
			in.doc.MoveRight()
		case "word-left":
			in.doc.MoveWordLeft()
		case "word-right":
			in.doc.MoveWordRight()
		case "line-start":
			in.doc.MoveLineStart()
		case "line-end":
			in.doc.MoveLineEnd()
		case "file-start":
			in.doc.MoveFileStart()
		case "file-end":
			in.doc.MoveFileEnd()
		case "page-up":
			in.doc.MovePageUp(in.viewHeight)
		case "page-down":
			in.doc.MovePageDown(in.viewHeight)
		default:
			return nil, fmt.Errorf("direction %q: %w", dir, ErrArgument)
		}
	}
	return nil, nil
}

func opJump(in *Interpreter, cmd Command) ([]Effect, error) {
	row, err := in.argNumber(cmd, 0)
	if err != nil {
		return nil, err
	}
	col, err := in.argNumber(cmd, 1)
	if err != nil {
		return nil, err
	}
	in.doc.SetCursor(buffer.Position{Row: row, Col: col})
	return nil, nil
}

func opPut(in *Interpreter, cmd Command) ([]Effect, error) {
	text, err := in.argString(cmd, 0)
	if err != nil {
		return nil, err
	}
	ev, err := in.doc.Insert(text, false)
	if err != nil {
		return nil, err
	}
	in.history.Record(ev)
	return nil, nil
}

func opNewline(in *Interpreter, cmd Command) ([]Effect, error) {
	ev, err := in.doc.Insert("\n", false)
	if err != nil {
		return nil, err
	}
	in.history.Record(ev)
	return nil, nil
}

func opBackspace(in *Interpreter, cmd Command) ([]Effect, error) {
	ev, ok, err := in.doc.Backspace()
	if err != nil {
		return nil, err
	}
	if ok {
		in.history.Record(ev)
	}
	return nil, nil
}

func opDelChar(in *Interpreter, cmd Command) ([]Effect, error) {
	count := 1
	var err error
	if len(cmd.Args) == 1 {
		if count, err = in.argNumber(cmd, 0); err != nil {
			return nil, err
		}
	}
	for i := 0; i < count; i++ {
		ev, ok, err := in.doc.DeleteCluster()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		in.history.Record(ev)
	}
	return nil, nil
}

func opDelLine(in *Interpreter, cmd Command) ([]Effect, error) {
	ev, err := in.doc.DeleteRow()
	if err != nil {
		return nil, err
	}
	in.history.Record(ev)
	return nil, nil
}

func opSelect(in *Interpreter, cmd Command) ([]Effect, error) {
	mode, err := in.argString(cmd, 0)
	if err != nil {
		return nil, err
	}
	switch mode {
	case "start":
		in.doc.StartSelection()
	case "hold":
		in.doc.HoldSelection()
	case "clear":
		in.doc.ClearSelection()
	case "all":
		in.doc.SelectAll()
	case "delete":
		ev, ok, err := in.doc.DeleteSelection()
		if err != nil {
			return nil, err
		}
		if ok {
			in.history.Record(ev)
		}
	default:
		return nil, fmt.Errorf("select %q: %w", mode, ErrArgument)
	}
	return nil, nil
}

func opReplace(in *Interpreter, cmd Command) ([]Effect, error) {
	text, err := in.argString(cmd, 0)
	if err != nil {
		return nil, err
	}
	ev, err := in.doc.ReplaceSelection(text)
	if err != nil {
		return nil, err
	}
	in.history.Record(ev)
	return nil, nil
}

// opSet is the one operation that must not resolve its first argument:
// it is the assignment target.
func opSet(in *Interpreter, cmd Command) ([]Effect, error) {
	if cmd.Args[0].Kind != ArgVar {
		return nil, fmt.Errorf("set wants a $variable target: %w", ErrArgument)
	}
	v, err := in.argValue(cmd, 1)
	if err != nil {
		return nil, err
	}
	in.ctx.Set(cmd.Args[0].Name, v)
	return nil, nil
}

func opSearch(in *Interpreter, cmd Command) ([]Effect, error) {
	query, err := in.argString(cmd, 0)
	if err != nil {
		return nil, err
	}
	cur := in.doc.Cursor()
	in.doc.MoveRight() // step past the current position
	it := in.doc.Search(query)
	pos, ok := it.Next()
	if !ok {
		in.doc.SetCursor(cur)
		return []Effect{{Kind: EffectStatus, Status: fmt.Sprintf("no match for %q", query)}}, nil
	}
	in.doc.SetCursor(pos)
	return nil, nil
}

func opUndo(in *Interpreter, cmd Command) ([]Effect, error) {
	_, err := in.history.Undo(in.doc)
	if errors.Is(err, undo.ErrNothingToUndo) {
		return []Effect{{Kind: EffectStatus, Status: "nothing to undo"}}, nil
	}
	if err != nil {
		logger.Error("undo replay failed", "err", err)
		return nil, err
	}
	return nil, nil
}

func opRedo(in *Interpreter, cmd Command) ([]Effect, error) {
	_, err := in.history.Redo(in.doc)
	if errors.Is(err, undo.ErrNothingToRedo) {
		return []Effect{{Kind: EffectStatus, Status: "nothing to redo"}}, nil
	}
	if err != nil {
		logger.Error("redo replay failed", "err", err)
		return nil, err
	}
	return nil, nil
}

func opReadOnly(in *Interpreter, cmd Command) ([]Effect, error) {
	v, err := in.argValue(cmd, 0)
	if err != nil {
		return nil, err
	}
	if v.Kind != ValueBool {
		return nil, fmt.Errorf("readonly wants true or false: %w", ErrArgument)
	}
	in.doc.SetReadOnly(v.Bool)
	return nil, nil
}

func opCall(in *Interpreter, cmd Command) ([]Effect, error) {
	name, err := in.argString(cmd, 0)
	if err != nil {
		return nil, err
	}
	macro, ok := in.ctx.Macro(name)
	if !ok {
		return nil, fmt.Errorf("macro %q: %w", name, ErrUnknownCommand)
	}
	return in.Run(macro)
}

func opEcho(in *Interpreter, cmd Command) ([]Effect, error) {
	text, err := in.argString(cmd, 0)
	if err != nil {
		return nil, err
	}
	return []Effect{{Kind: EffectStatus, Status: text}}, nil
}

func opSave(in *Interpreter, cmd Command) ([]Effect, error) {
	path := ""
	if len(cmd.Args) == 1 {
		var err error
		if path, err = in.argString(cmd, 0); err != nil {
			return nil, err
		}
	}
	return []Effect{{Kind: EffectSave, Path: path}}, nil
}

func opOpen(in *Interpreter, cmd Command) ([]Effect, error) {
	path, err := in.argString(cmd, 0)
	if err != nil {
		return nil, err
	}
	return []Effect{{Kind: EffectOpen, Path: path}}, nil
}

func opPrompt(in *Interpreter, cmd Command) ([]Effect, error) {
	return []Effect{{Kind: EffectPrompt}}, nil
}

func opQuit(in *Interpreter, cmd Command) ([]Effect, error) {
	return []Effect{{Kind: EffectQuit}}, nil
}
