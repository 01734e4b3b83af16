package interpreter

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"ippvm/pkg/stack"
)

// Interpreter executes a loaded Program. It owns all machine state for one run.
type Interpreter struct {
	prog *Program
	ip   int // position of the next instruction in prog

	frames *FrameSet
	values *stack.Stack[Value] // data stack for PUSHS/POPS and stack variants
	calls  *stack.Stack[int]   // return positions for CALL/RETURN

	in     Input
	out    io.Writer // WRITE
	errOut io.Writer // DPRINT, BREAK

	maxSteps int // maximum steps (0 = unlimited)
	steps    int // steps executed

	halted   bool
	exitCode int
}

type Option func(*Interpreter)

// WithWriter sets the output writer for WRITE
func WithWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithErrWriter sets the diagnostic writer for DPRINT and BREAK
func WithErrWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.errOut = w }
}

// WithInput sets the source READ consumes
func WithInput(in Input) Option {
	return func(i *Interpreter) { i.in = in }
}

// WithMaxSteps sets a maximum number of interpreter steps before returning ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(i *Interpreter) { i.maxSteps = n }
}

// NewInterpreter creates a new Interpreter instance
func NewInterpreter(prog *Program, opts ...Option) *Interpreter {
	it := &Interpreter{
		prog:     prog,
		frames:   NewFrameSet(),
		values:   stack.NewStack[Value](),
		calls:    stack.NewStack[int](),
		maxSteps: 0, // 0 => unlimited
	}

	for _, o := range opts {
		o(it)
	}

	if it.out == nil {
		it.out = os.Stdout
	}
	if it.errOut == nil {
		it.errOut = os.Stderr
	}
	if it.in == nil {
		it.in = NewLineInput(os.Stdin)
	}

	return it
}

// Reset clears runtime state (frames, stacks, IP, counters)
func (i *Interpreter) Reset() {
	i.ip = 0
	i.frames = NewFrameSet()
	i.values.Clear()
	i.calls.Clear()
	i.steps = 0
	i.halted = false
	i.exitCode = 0
}

// Program returns the loaded program
func (i *Interpreter) Program() *Program {
	return i.prog
}

// Frames returns the frame set
func (i *Interpreter) Frames() *FrameSet {
	return i.frames
}

// Values returns the data stack contents, bottom first
func (i *Interpreter) Values() []Value {
	return i.values.Array()
}

// CallDepth returns the number of pending returns
func (i *Interpreter) CallDepth() int {
	return i.calls.Size()
}

// PC returns the position of the next instruction
func (i *Interpreter) PC() int {
	return i.ip
}

// Steps returns the number of executed instructions
func (i *Interpreter) Steps() int {
	return i.steps
}

// Step executes a single instruction, returning (halted, error)
func (i *Interpreter) Step() (bool, error) {
	if i.halted {
		return true, ErrHalted
	}

	if i.ip < 0 || i.ip >= i.prog.Len() {
		log.Debug("End of program", "steps", i.steps)
		i.halted = true
		return true, nil
	}

	if i.maxSteps > 0 && i.steps >= i.maxSteps {
		return false, ErrMaxStepsExceeded
	}

	in := i.prog.At(i.ip)
	log.Debug("Exec", "ip", i.ip, "order", in.Order, "opcode", in.Opcode)

	d, err := opcodeTable[in.Opcode].exec(i, in.Args)
	i.steps++
	if err != nil {
		i.halted = true
		return true, annotate(err, in)
	}

	switch d.kind {
	case directiveJump:
		i.ip = d.Target
	case directiveExit:
		log.Debug("Exit", "code", d.Code, "order", in.Order)
		i.halted = true
		i.exitCode = d.Code
		return true, nil
	default:
		i.ip++
	}

	return false, nil
}

// Run executes until the program ends, EXIT runs, or an error occurs.
// It returns the exit code the program chose (0 when it ran off the end).
func (i *Interpreter) Run() (int, error) {
	for {
		halted, err := i.Step()
		if err != nil {
			return ExitCodeOf(err), err
		}

		if halted {
			return i.exitCode, nil
		}
	}
}

// annotate attaches the failing instruction to err.
func annotate(err error, in Instruction) error {
	var e *Error
	if !errors.As(err, &e) {
		return &Error{Kind: InternalError, Order: in.Order, Opcode: in.Opcode, Msg: err.Error()}
	}

	if e.Opcode == "" {
		e.Order = in.Order
		e.Opcode = in.Opcode
	}
	return e
}

// symbol resolves a symb operand to a materialized value.
func (i *Interpreter) symbol(a Argument) (Value, error) {
	return a.Symbol(i.frames)
}

// store writes v into the variable named by a var operand.
func (i *Interpreter) store(a Argument, v Value) error {
	if a.Kind != ArgVar {
		return newError(InternalError, "cannot store into %s operand", a.Kind)
	}
	return i.frames.Set(a.Ref, v)
}

// push adds v to the data stack.
func (i *Interpreter) push(v Value) {
	i.values.Push(v)
}

// pop removes the top of the data stack.
func (i *Interpreter) pop() (Value, error) {
	v, ok := i.values.Pop()
	if !ok {
		return Value{}, newError(ValueError, "data stack is empty")
	}
	return v, nil
}

// label resolves a label name to its position.
func (i *Interpreter) label(name string) (int, error) {
	pos, ok := i.prog.Label(name)
	if !ok {
		return 0, newError(SemanticError, "label %q does not exist", name)
	}
	return pos, nil
}

func (i *Interpreter) String() string {
	return fmt.Sprintf("ip=%d steps=%d stack=%d calls=%d locals=%d", i.ip, i.steps, i.values.Size(), i.calls.Size(), i.frames.Depth())
}
