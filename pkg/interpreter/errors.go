package interpreter

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fatal run error. Each kind maps to a fixed exit code.
type ErrorKind int

const (
	InternalError ErrorKind = iota
	StructureError
	SemanticError
	OperandTypeError
	VariableAccessError
	FrameAccessError
	ValueError
	OperandValueError
	StringOperationError
)

var kindNames = map[ErrorKind]string{
	InternalError:        "internal error",
	StructureError:       "invalid source structure",
	SemanticError:        "semantic error",
	OperandTypeError:     "wrong operand type",
	VariableAccessError:  "undefined variable",
	FrameAccessError:     "frame does not exist",
	ValueError:           "missing value",
	OperandValueError:    "wrong operand value",
	StringOperationError: "invalid string operation",
}

var kindCodes = map[ErrorKind]int{
	InternalError:        99,
	StructureError:       32,
	SemanticError:        52,
	OperandTypeError:     53,
	VariableAccessError:  54,
	FrameAccessError:     55,
	ValueError:           56,
	OperandValueError:    57,
	StringOperationError: 58,
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ExitCode returns the process exit code reported for this kind.
func (k ErrorKind) ExitCode() int {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return kindCodes[InternalError]
}

// Error is a fatal run error. Order and Opcode identify the instruction that
// raised it; both are zero when the error happened outside execution.
type Error struct {
	Kind   ErrorKind
	Order  int64
	Opcode Opcode
	Msg    string
}

func (e *Error) Error() string {
	if e.Opcode != "" {
		return fmt.Sprintf("%s: %s (order %d, %s)", e.Kind, e.Msg, e.Order, e.Opcode)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

var (
	ErrMaxStepsExceeded = errors.New("maximum steps exceeded")
	ErrHalted           = errors.New("machine already halted")
)

// KindOf extracts the kind of err; errors not raised by the interpreter are internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return InternalError
}

// ExitCodeOf maps err to a process exit code, 0 for nil.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	return KindOf(err).ExitCode()
}
