package interpreter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func execRead(m *Interpreter, args []Argument) (Directive, error) {
	v := Nil()

	switch args[1].Name {
	case "int":
		if n, ok := m.in.ReadInt(); ok {
			v = NewInt(n)
		}
	case "bool":
		if b, ok := m.in.ReadBool(); ok {
			v = NewBool(b)
		}
	case "string":
		if s, ok := m.in.ReadString(); ok {
			v = NewString(s)
		}
	default:
		return next(), newError(OperandTypeError, "READ cannot read type %q", args[1].Name)
	}

	return next(), m.store(args[0], v)
}

func write(w io.Writer, v Value) error {
	if _, err := io.WriteString(w, v.String()); err != nil {
		return newError(InternalError, "write failed: %v", err)
	}
	return nil
}

func execWrite(m *Interpreter, args []Argument) (Directive, error) {
	v, err := m.symbol(args[0])
	if err != nil {
		return next(), err
	}
	return next(), write(m.out, v)
}

func execDPrint(m *Interpreter, args []Argument) (Directive, error) {
	v, err := m.symbol(args[0])
	if err != nil {
		return next(), err
	}
	return next(), write(m.errOut, v)
}

func execBreak(m *Interpreter, _ []Argument) (Directive, error) {
	if err := m.DumpState(m.errOut); err != nil {
		return next(), newError(InternalError, "state dump failed: %v", err)
	}
	return next(), nil
}

// DumpState writes the instruction position, frame contents and stack
// contents to w.
func (i *Interpreter) DumpState(w io.Writer) error {
	var b strings.Builder

	if i.ip >= 0 && i.ip < i.prog.Len() {
		in := i.prog.At(i.ip)
		fmt.Fprintf(&b, "position %d (order %d, %s), %d steps executed\n", i.ip, in.Order, in.Opcode, i.steps)
	} else {
		fmt.Fprintf(&b, "position %d, %d steps executed\n", i.ip, i.steps)
	}

	rows := frameRows(GlobalFrame, i.frames.Global())
	rows = append(rows, frameRows(TemporaryFrame, i.frames.Temporary())...)
	rows = append(rows, frameRows(LocalFrame, i.frames.Local())...)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("FRAME", "NAME", "TYPE", "VALUE").
		Rows(rows...)
	b.WriteString(t.Render())
	b.WriteByte('\n')

	values := make([]string, 0, i.values.Size())
	for _, v := range i.values.Array() {
		values = append(values, v.Literal())
	}
	calls := make([]string, 0, i.calls.Size())
	for _, pos := range i.calls.Array() {
		calls = append(calls, strconv.Itoa(pos))
	}

	temp := "none"
	if i.frames.Temporary() != nil {
		temp = "defined"
	}

	fmt.Fprintf(&b, "temporary frame: %s, local frames: %d\n", temp, i.frames.Depth())
	fmt.Fprintf(&b, "data stack: [%s]\n", strings.Join(values, " "))
	fmt.Fprintf(&b, "call stack: [%s]\n", strings.Join(calls, " "))

	_, err := io.WriteString(w, b.String())
	return err
}

func frameRows(kind FrameKind, f *Frame) [][]string {
	if f == nil {
		return nil
	}

	rows := make([][]string, 0, f.Len())
	for _, v := range f.Variables() {
		rows = append(rows, []string{kind.String(), v.Name, v.Value.TypeName(), v.Value.Literal()})
	}
	return rows
}
