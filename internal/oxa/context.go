package oxa

import (
	"fmt"
	"strconv"
)

type ValueKind int

const (
	ValueString ValueKind = iota
	ValueNumber
	ValueBool
)

// Value is a typed macro variable value.
type Value struct {
	Kind ValueKind
	Str  string
	Num  int
	Bool bool
}

func StringValue(s string) Value { return Value{Kind: ValueString, Str: s} }
func NumberValue(n int) Value    { return Value{Kind: ValueNumber, Num: n} }
func BoolValue(b bool) Value     { return Value{Kind: ValueBool, Bool: b} }

func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.Itoa(v.Num)
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// Truthy follows script conventions: false, zero and the empty string
// are falsy, everything else is truthy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case ValueNumber:
		return v.Num != 0
	case ValueBool:
		return v.Bool
	default:
		return v.Str != ""
	}
}

// Context holds the process-wide variable table and the registered
// macros. It is created once at session start and passed explicitly
// through every execution call; scripts rely on variables persisting
// across invocations, so it is never reset mid-session.
type Context struct {
	vars     map[string]Value
	macros   map[string]*Script
	maxDepth int
	depth    int
}

const DefaultMaxDepth = 32

func NewContext(maxDepth int) *Context {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}
	return &Context{
		vars:     make(map[string]Value),
		macros:   make(map[string]*Script),
		maxDepth: maxDepth,
	}
}

func (c *Context) Set(name string, v Value) {
	c.vars[name] = v
}

func (c *Context) Get(name string) (Value, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// DefineMacro registers a compiled script under name for `call`.
func (c *Context) DefineMacro(name string, s *Script) {
	c.macros[name] = s
}

func (c *Context) Macro(name string) (*Script, bool) {
	s, ok := c.macros[name]
	return s, ok
}

// resolve turns an argument into a value, late-binding variable
// references against the table.
func (c *Context) resolve(a Arg) (Value, error) {
	switch a.Kind {
	case ArgVar:
		v, ok := c.vars[a.Name]
		if !ok {
			return Value{}, fmt.Errorf("$%s: %w", a.Name, ErrUndefinedVariable)
		}
		return v, nil
	case ArgNumber:
		return NumberValue(a.Num), nil
	case ArgBool:
		return BoolValue(a.Bool), nil
	default:
		return StringValue(a.Str), nil
	}
}
