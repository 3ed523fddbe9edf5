package oxa

import (
	"fmt"
	"strings"
)

// Script is a compiled macro: its command list plus label positions
// for goto/if jumps. Control flow runs over an explicit instruction
// pointer, never the host call stack, so the recursion limit stays
// enforceable.
type Script struct {
	commands []Command
	labels   map[string]int
}

// Compile parses source line by line. Blank and comment lines are
// dropped; `label <name>` lines record a jump target.
func Compile(src string) (*Script, error) {
	s := &Script{labels: make(map[string]int)}
	for lineno, line := range strings.Split(src, "\n") {
		cmd, err := Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno+1, err)
		}
		if cmd.Empty() {
			continue
		}
		if cmd.Op == "label" {
			if len(cmd.Args) != 1 || cmd.Args[0].Kind != ArgString {
				return nil, fmt.Errorf("line %d: label wants one name: %w", lineno+1, ErrArgument)
			}
			s.labels[cmd.Args[0].Str] = len(s.commands)
		}
		s.commands = append(s.commands, cmd)
	}
	return s, nil
}

func (s *Script) Len() int {
	return len(s.commands)
}

func (s *Script) target(label string) (int, error) {
	idx, ok := s.labels[label]
	if !ok {
		return 0, fmt.Errorf("label %q: %w", label, ErrArgument)
	}
	return idx, nil
}
