package interpreter

import (
	"math"
	"unicode/utf8"
)

type binaryOp func(a, b Value) (Value, error)

type unaryOp func(a Value) (Value, error)

// ternary adapts op to the (var, symb, symb) form.
func ternary(op binaryOp) handler {
	return func(m *Interpreter, args []Argument) (Directive, error) {
		a, err := m.symbol(args[1])
		if err != nil {
			return next(), err
		}
		b, err := m.symbol(args[2])
		if err != nil {
			return next(), err
		}

		res, err := op(a, b)
		if err != nil {
			return next(), err
		}
		return next(), m.store(args[0], res)
	}
}

// binary adapts op to the (var, symb) form.
func binary(op unaryOp) handler {
	return func(m *Interpreter, args []Argument) (Directive, error) {
		a, err := m.symbol(args[1])
		if err != nil {
			return next(), err
		}

		res, err := op(a)
		if err != nil {
			return next(), err
		}
		return next(), m.store(args[0], res)
	}
}

func requireInts(name string, a, b Value) error {
	if a.Kind != KindInt || b.Kind != KindInt {
		return newError(OperandTypeError, "%s expects int operands, got %s and %s", name, a.Kind, b.Kind)
	}
	return nil
}

func requireBools(name string, a, b Value) error {
	if a.Kind != KindBool || b.Kind != KindBool {
		return newError(OperandTypeError, "%s expects bool operands, got %s and %s", name, a.Kind, b.Kind)
	}
	return nil
}

func addOp(a, b Value) (Value, error) {
	if err := requireInts("ADD", a, b); err != nil {
		return Value{}, err
	}
	return NewInt(a.I64 + b.I64), nil
}

func subOp(a, b Value) (Value, error) {
	if err := requireInts("SUB", a, b); err != nil {
		return Value{}, err
	}
	return NewInt(a.I64 - b.I64), nil
}

func mulOp(a, b Value) (Value, error) {
	if err := requireInts("MUL", a, b); err != nil {
		return Value{}, err
	}
	return NewInt(a.I64 * b.I64), nil
}

// idivOp yields the magnitude of the truncated quotient: 7 / -2 is 3, not -3.
func idivOp(a, b Value) (Value, error) {
	if err := requireInts("IDIV", a, b); err != nil {
		return Value{}, err
	}
	if b.I64 == 0 {
		return Value{}, newError(OperandValueError, "division by zero")
	}

	q := a.I64 / b.I64
	if q == math.MinInt64 {
		return Value{}, newError(OperandValueError, "quotient of %d / %d has no int magnitude", a.I64, b.I64)
	}
	if q < 0 {
		q = -q
	}
	return NewInt(q), nil
}

// less orders two values of the same kind. Strings order by length in
// characters, booleans as false < true.
func less(name string, a, b Value) (bool, error) {
	if a.Kind != b.Kind || a.Kind == KindNil {
		return false, newError(OperandTypeError, "%s cannot compare %s with %s", name, a.Kind, b.Kind)
	}

	switch a.Kind {
	case KindInt:
		return a.I64 < b.I64, nil
	case KindBool:
		return !a.Bool && b.Bool, nil
	case KindString:
		return utf8.RuneCountInString(a.Str) < utf8.RuneCountInString(b.Str), nil
	default:
		return false, newError(OperandTypeError, "%s cannot compare %s values", name, a.Kind)
	}
}

func ltOp(a, b Value) (Value, error) {
	r, err := less("LT", a, b)
	if err != nil {
		return Value{}, err
	}
	return NewBool(r), nil
}

func gtOp(a, b Value) (Value, error) {
	r, err := less("GT", b, a)
	if err != nil {
		return Value{}, err
	}
	return NewBool(r), nil
}

// equal compares by content. nil is comparable with every kind and equal only to nil.
func equal(name string, a, b Value) (bool, error) {
	if a.Kind != b.Kind && a.Kind != KindNil && b.Kind != KindNil {
		return false, newError(OperandTypeError, "%s cannot compare %s with %s", name, a.Kind, b.Kind)
	}
	return a.Equal(b), nil
}

func eqOp(a, b Value) (Value, error) {
	r, err := equal("EQ", a, b)
	if err != nil {
		return Value{}, err
	}
	return NewBool(r), nil
}

func andOp(a, b Value) (Value, error) {
	if err := requireBools("AND", a, b); err != nil {
		return Value{}, err
	}
	return NewBool(a.Bool && b.Bool), nil
}

func orOp(a, b Value) (Value, error) {
	if err := requireBools("OR", a, b); err != nil {
		return Value{}, err
	}
	return NewBool(a.Bool || b.Bool), nil
}

func notOp(a Value) (Value, error) {
	if a.Kind != KindBool {
		return Value{}, newError(OperandTypeError, "NOT expects a bool operand, got %s", a.Kind)
	}
	return NewBool(!a.Bool), nil
}
