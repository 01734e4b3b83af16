package interpreter

func execPushS(m *Interpreter, args []Argument) (Directive, error) {
	v, err := m.symbol(args[0])
	if err != nil {
		return next(), err
	}

	m.push(v)
	return next(), nil
}

func execPopS(m *Interpreter, args []Argument) (Directive, error) {
	v, err := m.pop()
	if err != nil {
		return next(), err
	}
	return next(), m.store(args[0], v)
}

func execClearS(m *Interpreter, _ []Argument) (Directive, error) {
	m.values.Clear()
	return next(), nil
}

// popPair pops the right operand, then the left one.
func (i *Interpreter) popPair() (Value, Value, error) {
	b, err := i.pop()
	if err != nil {
		return Value{}, Value{}, err
	}
	a, err := i.pop()
	if err != nil {
		return Value{}, Value{}, err
	}
	return a, b, nil
}

// stackBinary adapts op to operate on the two topmost data stack values.
func stackBinary(op binaryOp) handler {
	return func(m *Interpreter, _ []Argument) (Directive, error) {
		a, b, err := m.popPair()
		if err != nil {
			return next(), err
		}

		res, err := op(a, b)
		if err != nil {
			return next(), err
		}

		m.push(res)
		return next(), nil
	}
}

// stackUnary adapts op to operate on the topmost data stack value.
func stackUnary(op unaryOp) handler {
	return func(m *Interpreter, _ []Argument) (Directive, error) {
		a, err := m.pop()
		if err != nil {
			return next(), err
		}

		res, err := op(a)
		if err != nil {
			return next(), err
		}

		m.push(res)
		return next(), nil
	}
}

// stackConditionalJump builds JUMPIFEQS (whenEqual) and JUMPIFNEQS.
func stackConditionalJump(whenEqual bool) handler {
	name := "JUMPIFNEQS"
	if whenEqual {
		name = "JUMPIFEQS"
	}

	return func(m *Interpreter, args []Argument) (Directive, error) {
		pos, err := m.label(args[0].Name)
		if err != nil {
			return next(), err
		}

		a, b, err := m.popPair()
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
