package oxa

import (
	"errors"
	"testing"

	"github.com/kobzarvs/oxed/internal/document"
	"github.com/kobzarvs/oxed/internal/undo"
)

func newTestInterp(t *testing.T, content string) (*Interpreter, *document.Document, *undo.Engine) {
	t.Helper()
	doc := document.FromBytes([]byte(content))
	engine := undo.NewEngine(undo.Options{Boundary: undo.BoundaryWord})
	return New(doc, engine, NewContext(0)), doc, engine
}

func docText(t *testing.T, doc *document.Document) string {
	t.Helper()
	return string(doc.Bytes())
}

func TestExecutePut(t *testing.T) {
	in, doc, engine := newTestInterp(t, "")
	if _, err := in.Execute(`put "hello"`); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := docText(t, doc); got != "hello" {
		t.Fatalf("text = %q, want %q", got, "hello")
	}
	if engine.UndoDepth() != 1 {
		t.Fatalf("UndoDepth() = %d, want 1", engine.UndoDepth())
	}
}

func TestPutNeverCoalesces(t *testing.T) {
	in, _, engine := newTestInterp(t, "")
	for _, line := range []string{`put "a"`, `put "b"`} {
		if _, err := in.Execute(line); err != nil {
			t.Fatalf("Execute(%q) error = %v", line, err)
		}
	}
	if engine.UndoDepth() != 2 {
		t.Fatalf("UndoDepth() = %d, want 2", engine.UndoDepth())
	}
}

func TestInsertTypedCoalesces(t *testing.T) {
	in, doc, engine := newTestInterp(t, "")
	for _, c := range []string{"h", "i"} {
		if err := in.InsertTyped(c); err != nil {
			t.Fatalf("InsertTyped(%q) error = %v", c, err)
		}
	}
	if got := docText(t, doc); got != "hi" {
		t.Fatalf("text = %q, want %q", got, "hi")
	}
	if engine.UndoDepth() != 1 {
		t.Fatalf("UndoDepth() = %d, want 1", engine.UndoDepth())
	}
}

func TestSetAndResolve(t *testing.T) {
	in, doc, _ := newTestInterp(t, "")
	src := "set $greeting \"hey\"\nput $greeting\n"
	if _, err := in.RunSource(src); err != nil {
		t.Fatalf("RunSource() error = %v", err)
	}
	if got := docText(t, doc); got != "hey" {
		t.Fatalf("text = %q, want %q", got, "hey")
	}
}

func TestSetWantsVariableTarget(t *testing.T) {
	in, _, _ := newTestInterp(t, "")
	if _, err := in.Execute(`set name "x"`); !errors.Is(err, ErrArgument) {
		t.Fatalf("error = %v, want ErrArgument", err)
	}
}

func TestUndefinedVariable(t *testing.T) {
	in, _, _ := newTestInterp(t, "")
	if _, err := in.Execute("put $nope"); !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("error = %v, want ErrUndefinedVariable", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	in, _, _ := newTestInterp(t, "")
	if _, err := in.Execute("frobnicate"); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("error = %v, want ErrUnknownCommand", err)
	}
}

func TestArityError(t *testing.T) {
	in, _, _ := newTestInterp(t, "")
	if _, err := in.Execute("jump 1"); !errors.Is(err, ErrArgument) {
		t.Fatalf("error = %v, want ErrArgument", err)
	}
}

func TestMoveWantsKnownDirection(t *testing.T) {
	in, _, _ := newTestInterp(t, "")
	if _, err := in.Execute("move sideways"); !errors.Is(err, ErrArgument) {
		t.Fatalf("error = %v, want ErrArgument", err)
	}
}

func TestJumpClamps(t *testing.T) {
	in, doc, _ := newTestInterp(t, "ab\ncd")
	if _, err := in.Execute("jump 99 99"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	cur := doc.Cursor()
	if cur.Row != 1 || cur.Col != 2 {
		t.Fatalf("cursor = %v, want 1:2", cur)
	}
}

func TestIfTakenAndNotTaken(t *testing.T) {
	in, doc, _ := newTestInterp(t, "")
	src := "set $skip true\nif $skip done\nput \"dropped\"\nlabel done\nput \"kept\"\n"
	if _, err := in.RunSource(src); err != nil {
		t.Fatalf("RunSource() error = %v", err)
	}
	if got := docText(t, doc); got != "kept" {
		t.Fatalf("text = %q, want %q", got, "kept")
	}

	in2, doc2, _ := newTestInterp(t, "")
	src = "set $skip false\nif $skip done\nput \"a\"\nlabel done\nput \"b\"\n"
	if _, err := in2.RunSource(src); err != nil {
		t.Fatalf("RunSource() error = %v", err)
	}
	if got := docText(t, doc2); got != "ab" {
		t.Fatalf("text = %q, want %q", got, "ab")
	}
}

func TestGotoSkipsForward(t *testing.T) {
	in, doc, _ := newTestInterp(t, "")
	src := "goto end\nput \"never\"\nlabel end\nput \"only\"\n"
	if _, err := in.RunSource(src); err != nil {
		t.Fatalf("RunSource() error = %v", err)
	}
	if got := docText(t, doc); got != "only" {
		t.Fatalf("text = %q, want %q", got, "only")
	}
}

func TestGotoUnknownLabel(t *testing.T) {
	in, _, _ := newTestInterp(t, "")
	if _, err := in.Execute("goto nowhere"); !errors.Is(err, ErrArgument) {
		t.Fatalf("error = %v, want ErrArgument", err)
	}
}

func TestQuitStopsScript(t *testing.T) {
	in, doc, _ := newTestInterp(t, "")
	effects, err := in.RunSource("put \"a\"\nquit\nput \"b\"\n")
	if err != nil {
		t.Fatalf("RunSource() error = %v", err)
	}
	if got := docText(t, doc); got != "a" {
		t.Fatalf("text = %q, want %q", got, "a")
	}
	if len(effects) != 1 || effects[0].Kind != EffectQuit {
		t.Fatalf("effects = %+v, want one quit", effects)
	}
}

func TestEchoEffect(t *testing.T) {
	in, _, _ := newTestInterp(t, "")
	effects, err := in.Execute(`echo "saved ok"`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(effects) != 1 || effects[0].Kind != EffectStatus || effects[0].Status != "saved ok" {
		t.Fatalf("effects = %+v, want status %q", effects, "saved ok")
	}
}

func TestSaveOpenEffects(t *testing.T) {
	in, _, _ := newTestInterp(t, "")
	effects, err := in.Execute(`save "out.txt"`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(effects) != 1 || effects[0].Kind != EffectSave || effects[0].Path != "out.txt" {
		t.Fatalf("effects = %+v, want save out.txt", effects)
	}

	effects, err = in.Execute(`open "other.txt"`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(effects) != 1 || effects[0].Kind != EffectOpen || effects[0].Path != "other.txt" {
		t.Fatalf("effects = %+v, want open other.txt", effects)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	in, doc, _ := newTestInterp(t, "")
	for _, line := range []string{`put "abc"`, "undo"} {
		if _, err := in.Execute(line); err != nil {
			t.Fatalf("Execute(%q) error = %v", line, err)
		}
	}
	if got := docText(t, doc); got != "" {
		t.Fatalf("after undo text = %q, want empty", got)
	}
	if _, err := in.Execute("redo"); err != nil {
		t.Fatalf("Execute(redo) error = %v", err)
	}
	if got := docText(t, doc); got != "abc" {
		t.Fatalf("after redo text = %q, want %q", got, "abc")
	}
}

func TestUndoEmptyHistoryIsStatus(t *testing.T) {
	in, _, _ := newTestInterp(t, "")
	effects, err := in.Execute("undo")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(effects) != 1 || effects[0].Kind != EffectStatus {
		t.Fatalf("effects = %+v, want one status", effects)
	}
}

func TestSelectAllReplace(t *testing.T) {
	in, doc, _ := newTestInterp(t, "abc\ndef")
	src := "select all\nreplace \"xyz\"\n"
	if _, err := in.RunSource(src); err != nil {
		t.Fatalf("RunSource() error = %v", err)
	}
	if got := docText(t, doc); got != "xyz" {
		t.Fatalf("text = %q, want %q", got, "xyz")
	}
	if _, err := in.Execute("undo"); err != nil {
		t.Fatalf("Execute(undo) error = %v", err)
	}
	if got := docText(t, doc); got != "abc\ndef" {
		t.Fatalf("after undo text = %q, want original", got)
	}
}

func TestSearchMovesCursor(t *testing.T) {
	in, doc, _ := newTestInterp(t, "one\ntwo\none")
	if _, err := in.Execute(`search "one"`); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	cur := doc.Cursor()
	if cur.Row != 2 || cur.Col != 0 {
		t.Fatalf("cursor = %v, want 2:0", cur)
	}
}

func TestSearchNoMatch(t *testing.T) {
	in, _, _ := newTestInterp(t, "abc")
	effects, err := in.Execute(`search "zzz"`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(effects) != 1 || effects[0].Kind != EffectStatus {
		t.Fatalf("effects = %+v, want one status", effects)
	}
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	in, _, _ := newTestInterp(t, "abc")
	if _, err := in.Execute("readonly true"); err != nil {
		t.Fatalf("Execute(readonly) error = %v", err)
	}
	if _, err := in.Execute(`put "x"`); !errors.Is(err, document.ErrReadOnly) {
		t.Fatalf("error = %v, want ErrReadOnly", err)
	}
	if err := in.InsertTyped("x"); !errors.Is(err, document.ErrReadOnly) {
		t.Fatalf("InsertTyped error = %v, want ErrReadOnly", err)
	}
}

func TestMacroCall(t *testing.T) {
	in, doc, _ := newTestInterp(t, "")
	macro, err := Compile("put \"from macro\"\n")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	in.Context().DefineMacro("stamp", macro)
	if _, err := in.Execute("call stamp"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := docText(t, doc); got != "from macro" {
		t.Fatalf("text = %q, want %q", got, "from macro")
	}
}

func TestMacroRecursionLimit(t *testing.T) {
	in, _, _ := newTestInterp(t, "")
	macro, err := Compile("call loop\n")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	in.Context().DefineMacro("loop", macro)
	if _, err := in.Execute("call loop"); !errors.Is(err, ErrRecursionLimit) {
		t.Fatalf("error = %v, want ErrRecursionLimit", err)
	}
}

func TestCallUnknownMacro(t *testing.T) {
	in, _, _ := newTestInterp(t, "")
	if _, err := in.Execute("call nothing"); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("error = %v, want ErrUnknownCommand", err)
	}
}

func TestNewEditClearsRedo(t *testing.T) {
	in, _, engine := newTestInterp(t, "")
	for _, line := range []string{`put "a"`, "undo", `put "b"`} {
		if _, err := in.Execute(line); err != nil {
			t.Fatalf("Execute(%q) error = %v", line, err)
		}
	}
	if engine.RedoDepth() != 0 {
		t.Fatalf("RedoDepth() = %d, want 0", engine.RedoDepth())
	}
}
