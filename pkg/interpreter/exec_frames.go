package interpreter

import (
	"github.com/charmbracelet/log"
)

func execMove(m *Interpreter, args []Argument) (Directive, error) {
	v, err := m.symbol(args[1])
	if err != nil {
		return next(), err
	}
	return next(), m.store(args[0], v)
}

func execDefVar(m *Interpreter, args []Argument) (Directive, error) {
	return next(), m.frames.Define(args[0].Ref)
}

func execCreateFrame(m *Interpreter, _ []Argument) (Directive, error) {
	m.frames.CreateTemporary()
	return next(), nil
}

func execPushFrame(m *Interpreter, _ []Argument) (Directive, error) {
	if err := m.frames.PushFrame(); err != nil {
		return next(), err
	}

	log.Debug("Push frame", "depth", m.frames.Depth())
	return next(), nil
}

func execPopFrame(m *Interpreter, _ []Argument) (Directive, error) {
	if err := m.frames.PopFrame(); err != nil {
		return next(), err
	}

	log.Debug("Pop frame", "depth", m.frames.Depth())
	return next(), nil
}

// execType stores the type name of its operand. A nil operand leaves the
// destination as it was.
func execType(m *Interpreter, args []Argument) (Directive, error) {
	v, err := args[1].Resolve(m.frames)
	if err != nil {
		return next(), err
	}

	if v.Kind == KindNil {
		return next(), nil
	}
	return next(), m.store(args[0], NewString(v.TypeName()))
}
