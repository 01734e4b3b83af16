package ir

import (
	"fmt"
	"strings"
)

// Arg is a raw operand as supplied by the program source: a syntactic type tag
// (var, int, bool, string, nil, label, type) and its text.
type Arg struct {
	Type string
	Text string
}

// String renders the operand the way it appears in assembly listings, e.g. "int@5".
func (a Arg) String() string {
	switch a.Type {
	case "var", "label", "type":
		return a.Text
	default:
		return a.Type + "@" + a.Text
	}
}

// Instruction is one unvalidated instruction record. Order is kept textual so
// the consumer decides what a valid order is.
type Instruction struct {
	Order  string
	Opcode string
	Args   []Arg
}

// String returns a string representation of the instruction
func (i Instruction) String() string {
	parts := make([]string, 0, len(i.Args))
	for _, a := range i.Args {
		parts = append(parts, a.String())
	}

	if len(parts) == 0 {
		return fmt.Sprintf("%s: %s", i.Order, i.Opcode)
	}

	return fmt.Sprintf("%s: %s %s", i.Order, i.Opcode, strings.Join(parts, " "))
}
