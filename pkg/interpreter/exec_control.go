package interpreter

import (
	"github.com/charmbracelet/log"
)

// execLabel does nothing at run time; labels are indexed when the program loads.
func execLabel(*Interpreter, []Argument) (Directive, error) {
	return next(), nil
}

func execJump(m *Interpreter, args []Argument) (Directive, error) {
	pos, err := m.label(args[0].Name)
	if err != nil {
		return next(), err
	}
	return jumpTo(pos), nil
}

// conditionalJump builds JUMPIFEQ (whenEqual) and JUMPIFNEQ.
func conditionalJump(whenEqual bool) handler {
	name := "JUMPIFNEQ"
	if whenEqual {
		name = "JUMPIFEQ"
	}

	return func(m *Interpreter, args []Argument) (Directive, error) {
		pos, err := m.label(args[0].Name)
		if err != nil {
			return next(), err
		}

		for _, a := range args[1:] {
			if a.Kind == ArgNil {
				return next(), newError(SemanticError, "%s does not accept a nil literal operand", name)
			}
		}

		a, err := m.symbol(args[1])
		if err != nil {
			return next(), err
		}
		b, err := m.symbol(args[2])
		if err != nil {
			return next(), err
		}

		eq, err := equal(name, a, b)
		if err != nil {
			return next(), err
		}
		if eq == whenEqual {
			return jumpTo(pos), nil
		}
		return next(), nil
	}
}

func execCall(m *Interpreter, args []Argument) (Directive, error) {
	pos, err := m.label(args[0].Name)
	if err != nil {
		return next(), err
	}

	m.calls.Push(m.ip + 1)
	log.Debug("Call", "label", args[0].Name, "depth", m.calls.Size())
	return jumpTo(pos), nil
}

func execReturn(m *Interpreter, _ []Argument) (Directive, error) {
	pos, ok := m.calls.Pop()
	if !ok {
		return next(), newError(SemanticError, "RETURN with an empty call stack")
	}

	log.Debug("Return", "to", pos, "depth", m.calls.Size())
	return jumpTo(pos), nil
}

func execExit(m *Interpreter, args []Argument) (Directive, error) {
	v, err := m.symbol(args[0])
	if err != nil {
		return next(), err
	}

	if v.Kind != KindInt {
		return next(), newError(OperandTypeError, "EXIT expects an int operand, got %s", v.Kind)
	}
	if v.I64 < 0 || v.I64 > 9 {
		return next(), newError(OperandValueError, "exit code %d is outside 0-9", v.I64)
	}
	return exitWith(int(v.I64)), nil
}
