package interpreter

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"ippvm/pkg/ir"
)

var orderRegex = regexp.MustCompile(`^[0-9]+$`)

// Instruction is a validated instruction ready for execution.
type Instruction struct {
	Order  int64
	Opcode Opcode
	Args   []Argument
}

// String returns a string representation of the instruction
func (i Instruction) String() string {
	parts := make([]string, 0, len(i.Args)+1)
	parts = append(parts, string(i.Opcode))
	for _, a := range i.Args {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " ")
}

// Program is the order-sorted instruction list plus its label table.
type Program struct {
	instructions []Instruction
	labels       map[string]int
}

// Load validates records and builds a program. Orders must be positive and
// unique; opcodes, arity and operand grammar are checked per instruction;
// label names must be unique.
func Load(records []ir.Instruction) (*Program, error) {
	orders, err := scanOrders(records)
	if err != nil {
		return nil, err
	}

	instructions := make([]Instruction, 0, len(records))
	for idx, rec := range records {
		ins, err := decodeInstruction(orders[idx], rec)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, ins)
	}

	slices.SortFunc(instructions, func(a, b Instruction) int {
		switch {
		case a.Order < b.Order:
			return -1
		case a.Order > b.Order:
			return 1
		default:
			return 0
		}
	})

	p := &Program{
		instructions: instructions,
		labels:       make(map[string]int),
	}
	if err := p.indexLabels(); err != nil {
		return nil, err
	}

	return p, nil
}

// scanOrders parses every order attribute and rejects invalid or duplicate ones.
func scanOrders(records []ir.Instruction) ([]int64, error) {
	orders := make([]int64, len(records))
	seen := make(map[int64]bool, len(records))

	for idx, rec := range records {
		text := strings.TrimSpace(rec.Order)
		if !orderRegex.MatchString(text) {
			return nil, newError(StructureError, "order %q is not a non-negative integer", rec.Order)
		}

		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, newError(StructureError, "order %q is out of range", rec.Order)
		}
		if n <= 0 {
			return nil, newError(StructureError, "order must be positive, got %d", n)
		}
		if seen[n] {
			return nil, newError(StructureError, "duplicate order %d", n)
		}

		seen[n] = true
		orders[idx] = n
	}

	return orders, nil
}

func decodeInstruction(order int64, rec ir.Instruction) (Instruction, error) {
	op, ok := ParseOpcode(rec.Opcode)
	if !ok {
		return Instruction{}, &Error{Kind: StructureError, Order: order, Msg: fmt.Sprintf("unknown opcode %q", rec.Opcode)}
	}

	entry := opcodeTable[op]
	if len(rec.Args) != len(entry.params) {
		return Instruction{}, &Error{
			Kind:   StructureError,
			Order:  order,
			Opcode: op,
			Msg:    fmt.Sprintf("expects %d operands, got %d", len(entry.params), len(rec.Args)),
		}
	}

	args := make([]Argument, 0, len(rec.Args))
	for pos, raw := range rec.Args {
		a, err := NewArgument(raw, entry.params[pos])
		if err != nil {
			if e, ok := err.(*Error); ok {
				e.Order, e.Opcode = order, op
			}
			return Instruction{}, err
		}
		args = append(args, a)
	}

	return Instruction{Order: order, Opcode: op, Args: args}, nil
}

// indexLabels records the position of every LABEL instruction.
func (p *Program) indexLabels() error {
	for idx, ins := range p.instructions {
		if ins.Opcode != OpLabel {
			continue
		}

		name := ins.Args[0].Name
		if _, dup := p.labels[name]; dup {
			return &Error{Kind: SemanticError, Order: ins.Order, Opcode: ins.Opcode, Msg: fmt.Sprintf("label %q is defined twice", name)}
		}
		p.labels[name] = idx
	}
	return nil
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.instructions)
}

// At returns the instruction at position pos.
func (p *Program) At(pos int) Instruction {
	return p.instructions[pos]
}

// Instructions returns the instructions in execution order.
func (p *Program) Instructions() []Instruction {
	return p.instructions
}

// Label returns the position of the named label.
func (p *Program) Label(name string) (int, bool) {
	pos, ok := p.labels[name]
	return pos, ok
}
