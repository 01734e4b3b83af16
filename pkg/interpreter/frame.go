package interpreter

import (
	"ippvm/pkg/stack"
)

// Variable is a named slot inside a frame.
type Variable struct {
	Name  string
	Value Value
}

// Frame is an insertion-ordered set of variables.
type Frame struct {
	vars  map[string]*Variable
	order []string
}

// NewFrame creates an empty frame.
func NewFrame() *Frame {
	return &Frame{vars: make(map[string]*Variable)}
}

// Has reports whether name is defined in the frame.
func (f *Frame) Has(name string) bool {
	_, ok := f.vars[name]
	return ok
}

// Define adds name as an unset variable.
func (f *Frame) Define(name string) error {
	if f.Has(name) {
		return newError(SemanticError, "variable %q is already defined", name)
	}

	f.vars[name] = &Variable{Name: name}
	f.order = append(f.order, name)
	return nil
}

// Get returns the current value of name, which may be unset.
func (f *Frame) Get(name string) (Value, error) {
	v, ok := f.vars[name]
	if !ok {
		return Value{}, newError(VariableAccessError, "variable %q is not defined", name)
	}
	return v.Value, nil
}

// Type returns the type name of the value held by name.
func (f *Frame) Type(name string) (string, error) {
	v, err := f.Get(name)
	if err != nil {
		return "", err
	}
	return v.TypeName(), nil
}

// Set overwrites the value of name regardless of what it held before.
func (f *Frame) Set(name string, val Value) error {
	v, ok := f.vars[name]
	if !ok {
		return newError(VariableAccessError, "variable %q is not defined", name)
	}
	v.Value = val
	return nil
}

// Delete removes name from the frame.
func (f *Frame) Delete(name string) error {
	if !f.Has(name) {
		return newError(VariableAccessError, "variable %q is not defined", name)
	}

	delete(f.vars, name)
	for i, n := range f.order {
		if n == name {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of defined variables.
func (f *Frame) Len() int {
	return len(f.order)
}

// Variables returns a snapshot of the variables in definition order.
func (f *Frame) Variables() []Variable {
	out := make([]Variable, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, *f.vars[name])
	}
	return out
}

// FrameSet owns the global frame, the optional temporary frame and the local frame stack.
type FrameSet struct {
	global *Frame
	temp   *Frame
	locals *stack.Stack[*Frame]
}

// NewFrameSet creates a frame set with an empty global frame and no temporary frame.
func NewFrameSet() *FrameSet {
	return &FrameSet{
		global: NewFrame(),
		locals: stack.NewStack[*Frame](),
	}
}

// Global returns the global frame.
func (fs *FrameSet) Global() *Frame {
	return fs.global
}

// Temporary returns the temporary frame, or nil if none exists.
func (fs *FrameSet) Temporary() *Frame {
	return fs.temp
}

// Local returns the top of the local frame stack, or nil if the stack is empty.
func (fs *FrameSet) Local() *Frame {
	f, _ := fs.locals.Peek()
	return f
}

// Depth returns the number of frames on the local frame stack.
func (fs *FrameSet) Depth() int {
	return fs.locals.Size()
}

// CreateTemporary replaces the temporary frame with a fresh one.
func (fs *FrameSet) CreateTemporary() {
	fs.temp = NewFrame()
}

// PushFrame moves the temporary frame onto the local frame stack.
func (fs *FrameSet) PushFrame() error {
	if fs.temp == nil {
		return newError(FrameAccessError, "PUSHFRAME without a temporary frame")
	}

	fs.locals.Push(fs.temp)
	fs.temp = nil
	return nil
}

// PopFrame moves the top local frame into the temporary frame slot.
func (fs *FrameSet) PopFrame() error {
	f, ok := fs.locals.Pop()
	if !ok {
		return newError(FrameAccessError, "POPFRAME with an empty local frame stack")
	}

	fs.temp = f
	return nil
}

// frame resolves a frame kind to the frame currently serving it.
func (fs *FrameSet) frame(kind FrameKind) (*Frame, error) {
	switch kind {
	case GlobalFrame:
		return fs.global, nil
	case TemporaryFrame:
		if fs.temp == nil {
			return nil, newError(FrameAccessError, "temporary frame does not exist")
		}
		return fs.temp, nil
	case LocalFrame:
		if f := fs.Local(); f != nil {
			return f, nil
		}
		return nil, newError(FrameAccessError, "local frame does not exist")
	default:
		return nil, newError(InternalError, "unknown frame %s", kind)
	}
}

// Define declares the variable ref in its frame.
func (fs *FrameSet) Define(ref VarRef) error {
	f, err := fs.frame(ref.Frame)
	if err != nil {
		return err
	}
	return f.Define(ref.Name)
}

// Get reads the variable ref.
func (fs *FrameSet) Get(ref VarRef) (Value, error) {
	f, err := fs.frame(ref.Frame)
	if err != nil {
		return Value{}, err
	}
	return f.Get(ref.Name)
}

// Set writes the variable ref.
func (fs *FrameSet) Set(ref VarRef, val Value) error {
	f, err := fs.frame(ref.Frame)
	if err != nil {
		return err
	}
	return f.Set(ref.Name, val)
}

// Delete removes the variable ref from its frame.
func (fs *FrameSet) Delete(ref VarRef) error {
	f, err := fs.frame(ref.Frame)
	if err != nil {
		return err
	}
	return f.Delete(ref.Name)
}
