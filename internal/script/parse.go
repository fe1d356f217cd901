// Package script drives a tree from an instruction file, one instruction per
// line:
//
//	Initialize(3)
//	Insert(21, 0.3534)
//	Search(21)
//	Search(23, 99)
//	Delete(21)
//
// Every Search writes one output line holding the matching values joined by
// commas, or an empty line when nothing matches.
package script

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Op identifies an instruction.
type Op int

const (
	OpInitialize Op = iota + 1
	OpInsert
	OpSearch
	OpSearchRange
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpInitialize:
		return "Initialize"
	case OpInsert:
		return "Insert"
	case OpSearch, OpSearchRange:
		return "Search"
	case OpDelete:
		return "Delete"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Instruction is one parsed line.
type Instruction struct {
	Op    Op
	Line  int
	Order int     // Initialize
	Key   int64   // Insert, Search, Delete; low bound of SearchRange
	High  int64   // SearchRange
	Value float64 // Insert
}

var (
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrBadArgument        = errors.New("bad argument")
	ErrNotInitialized     = errors.New("first instruction must be Initialize")
)

// ParseError reports a line that could not be parsed.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse parses a single line. Blank lines return ok == false and no error.
func Parse(text string, line int) (ins Instruction, ok bool, err error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Instruction{}, false, nil
	}

	fail := func(err error) (Instruction, bool, error) {
		return Instruction{}, false, &ParseError{Line: line, Text: text, Err: err}
	}

	name, rest, found := strings.Cut(s, "(")
	if !found || !strings.HasSuffix(rest, ")") {
		return fail(ErrUnknownInstruction)
	}
	args := strings.Split(strings.TrimSuffix(rest, ")"), ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}

	ins = Instruction{Line: line}
	switch strings.TrimSpace(name) {
	case "Initialize":
		if len(args) != 1 {
			return fail(ErrBadArgument)
		}
		order, err := strconv.Atoi(args[0])
		if err != nil {
			return fail(fmt.Errorf("%w: order %q", ErrBadArgument, args[0]))
		}
		ins.Op, ins.Order = OpInitialize, order

	case "Insert":
		if len(args) != 2 {
			return fail(ErrBadArgument)
		}
		key, err := parseKey(args[0])
		if err != nil {
			return fail(err)
		}
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fail(fmt.Errorf("%w: value %q", ErrBadArgument, args[1]))
		}
		ins.Op, ins.Key, ins.Value = OpInsert, key, value

	case "Search":
		switch len(args) {
		case 1:
			key, err := parseKey(args[0])
			if err != nil {
				return fail(err)
			}
			ins.Op, ins.Key = OpSearch, key
		case 2:
			low, err := parseKey(args[0])
			if err != nil {
				return fail(err)
			}
			high, err := parseKey(args[1])
			if err != nil {
				return fail(err)
			}
			ins.Op, ins.Key, ins.High = OpSearchRange, low, high
		default:
			return fail(ErrBadArgument)
		}

	case "Delete":
		if len(args) != 1 {
			return fail(ErrBadArgument)
		}
		key, err := parseKey(args[0])
		if err != nil {
			return fail(err)
		}
		ins.Op, ins.Key = OpDelete, key

	default:
		return fail(ErrUnknownInstruction)
	}

	return ins, true, nil
}

func parseKey(s string) (int64, error) {
	key, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: key %q", ErrBadArgument, s)
	}
	return key, nil
}
