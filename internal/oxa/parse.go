// Package oxa implements the editor's line-oriented command language.
// Every mutation reaches the document through it, whether the line
// came from a keystroke binding or a macro script.
package oxa

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrSyntax            = errors.New("syntax error")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrArgument          = errors.New("bad argument")
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrRecursionLimit    = errors.New("macro recursion limit exceeded")
)

type ArgKind int

const (
	ArgString ArgKind = iota
	ArgNumber
	ArgBool
	ArgVar
)

// Arg is one parsed argument: a literal, or a variable reference that
// stays unresolved until execution so earlier script lines can define
// it.
type Arg struct {
	Kind ArgKind
	Str  string
	Num  int
	Bool bool
	Name string // variable name for ArgVar
}

// Command is a parsed line: operation name plus ordered arguments.
// Produced per line, consumed once.
type Command struct {
	Op   string
	Args []Arg
}

// Empty reports a blank or comment-only line.
func (c Command) Empty() bool {
	return c.Op == ""
}

type parseState int

const (
	stateStart parseState = iota
	stateOperation
	stateArgs
)

// Parse tokenizes one script line. Arguments are delimited by spaces
// or commas; string literals may be double-quoted, $name references a
// variable, bare words are string literals.
func Parse(line string) (Command, error) {
	var cmd Command
	state := stateStart
	i := 0
	n := len(line)
	for i < n {
		ch := line[i]
		switch state {
		case stateStart:
			switch {
			case ch == ' ' || ch == '\t':
				i++
			case ch == '#':
				return Command{}, nil // comment line
			default:
				state = stateOperation
			}
		case stateOperation:
			start := i
			for i < n && line[i] != ' ' && line[i] != '\t' {
				i++
			}
			cmd.Op = strings.ToLower(line[start:i])
			state = stateArgs
		case stateArgs:
			switch {
			case ch == ' ' || ch == '\t' || ch == ',':
				i++
			case ch == '#':
				return cmd, nil // trailing comment
			case ch == '"':
				str, next, err := scanQuoted(line, i)
				if err != nil {
					return Command{}, err
				}
				cmd.Args = append(cmd.Args, Arg{Kind: ArgString, Str: str})
				i = next
			case ch == '$':
				start := i + 1
				i++
				for i < n && isNameByte(line[i]) {
					i++
				}
				if i == start {
					return Command{}, fmt.Errorf("bare $ at column %d: %w", start, ErrSyntax)
				}
				cmd.Args = append(cmd.Args, Arg{Kind: ArgVar, Name: line[start:i]})
			default:
				start := i
				for i < n && line[i] != ' ' && line[i] != '\t' && line[i] != ',' {
					i++
				}
				cmd.Args = append(cmd.Args, bareArg(line[start:i]))
			}
		}
	}
	return cmd, nil
}

func scanQuoted(line string, start int) (string, int, error) {
	var sb strings.Builder
	i := start + 1
	for i < len(line) {
		switch line[i] {
		case '"':
			return sb.String(), i + 1, nil
		case '\\':
			if i+1 >= len(line) {
				return "", 0, fmt.Errorf("dangling escape: %w", ErrSyntax)
			}
			switch line[i+1] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				return "", 0, fmt.Errorf("unknown escape \\%c: %w", line[i+1], ErrSyntax)
			}
			i += 2
		default:
			sb.WriteByte(line[i])
			i++
		}
	}
	return "", 0, fmt.Errorf("unterminated string: %w", ErrSyntax)
}

func bareArg(word string) Arg {
	switch word {
	case "true":
		return Arg{Kind: ArgBool, Bool: true}
	case "false":
		return Arg{Kind: ArgBool, Bool: false}
	}
	if n, err := strconv.Atoi(word); err == nil {
		return Arg{Kind: ArgNumber, Num: n}
	}
	return Arg{Kind: ArgString, Str: word}
}

func isNameByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
