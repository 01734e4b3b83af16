package runner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"ippvm/pkg/color"
	"ippvm/pkg/interpreter"
	"ippvm/pkg/xmlsource"
)

// Process exit codes produced outside the interpreter core.
const (
	ExitOK               = 0
	ExitMissingParameter = 10
	ExitInputFile        = 11
	ExitMalformedXML     = 31
	ExitStructure        = 32
	ExitInternal         = 99
)

type Runner struct {
	Verbose    bool   // Print the program listing before running
	NoColor    bool   // Disable colored diagnostics
	MaxSteps   int    // Step budget, 0 = unlimited
	SourceFile string // XML program, empty for stdin
	InputFile  string // Input consumed by READ, empty for stdin

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// failure is a run-terminating condition with its exit code.
type failure struct {
	code int
	kind string
	err  error
}

func (f *failure) Error() string {
	return f.err.Error()
}

// Run loads and executes the program and returns the process exit code.
// Diagnostics go to Stderr; program output goes to Stdout.
func (r *Runner) Run() int {
	r.defaults()
	if r.NoColor {
		color.EnableColor(false)
	}

	out := bufio.NewWriter(r.Stdout)
	code, err := r.run(out)
	if ferr := out.Flush(); ferr != nil && err == nil {
		code, err = ExitInternal, &failure{code: ExitInternal, kind: "output error", err: ferr}
	}

	if err != nil {
		r.report(code, err)
	}
	return code
}

func (r *Runner) defaults() {
	if r.Stdin == nil {
		r.Stdin = os.Stdin
	}
	if r.Stdout == nil {
		r.Stdout = os.Stdout
	}
	if r.Stderr == nil {
		r.Stderr = os.Stderr
	}
}

func (r *Runner) run(out io.Writer) (int, error) {
	if r.SourceFile == "" && r.InputFile == "" {
		return ExitMissingParameter, &failure{
			code: ExitMissingParameter,
			kind: "missing parameter",
			err:  errors.New("at least one of --source and --input is required"),
		}
	}

	src, closeSrc, err := r.open(r.SourceFile)
	if err != nil {
		return ExitInputFile, err
	}
	defer closeSrc()

	in, closeIn, err := r.open(r.InputFile)
	if err != nil {
		return ExitInputFile, err
	}
	defer closeIn()

	log.Info("Processing file", "source", name(r.SourceFile), "input", name(r.InputFile))

	records, err := xmlsource.Parse(src)
	switch {
	case errors.Is(err, xmlsource.ErrMalformed):
		return ExitMalformedXML, &failure{code: ExitMalformedXML, kind: "malformed XML", err: err}
	case errors.Is(err, xmlsource.ErrStructure):
		return ExitStructure, &failure{code: ExitStructure, kind: "invalid source structure", err: err}
	case err != nil:
		return ExitInternal, err
	}

	prog, err := interpreter.Load(records)
	if err != nil {
		return interpreter.ExitCodeOf(err), err
	}
	log.Debug("Program loaded", "instructions", prog.Len())

	if r.Verbose {
		r.listing(prog)
	}

	m := interpreter.NewInterpreter(prog,
		interpreter.WithWriter(out),
		interpreter.WithErrWriter(r.Stderr),
		interpreter.WithInput(interpreter.NewLineInput(in)),
		interpreter.WithMaxSteps(r.MaxSteps),
	)

	code, err := m.Run()
	log.Debug("Run finished", "code", code, "steps", m.Steps())
	return code, err
}

// open returns the named file, or stdin for an empty name.
func (r *Runner) open(path string) (io.Reader, func(), error) {
	if path == "" {
		return r.Stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &failure{code: ExitInputFile, kind: "input file error", err: err}
	}
	return f, func() { f.Close() }, nil
}

func (r *Runner) listing(prog *interpreter.Program) {
	fmt.Fprintln(r.Stderr, color.GreenText("=== Program Listing ==="))
	if prog.Len() == 0 {
		fmt.Fprintln(r.Stderr, color.GrayText("No instructions."))
		return
	}

	for _, in := range prog.Instructions() {
		operands := make([]string, 0, len(in.Args))
		for _, a := range in.Args {
			operands = append(operands, a.String())
		}
		fmt.Fprintln(r.Stderr, color.ListingLine(in.Order, string(in.Opcode), strings.Join(operands, " ")))
	}
}

func (r *Runner) report(code int, err error) {
	kind, msg := describe(err)
	log.Debug("Run failed", "code", code, "error", err)
	fmt.Fprintln(r.Stderr, color.Failure(code, kind, msg))
}

// describe splits err into a kind label and a message.
func describe(err error) (string, string) {
	var f *failure
	if errors.As(err, &f) {
		return f.kind, f.err.Error()
	}

	var e *interpreter.Error
	if errors.As(err, &e) {
		if e.Opcode != "" {
			return e.Kind.String(), fmt.Sprintf("%s (order %d, %s)", e.Msg, e.Order, e.Opcode)
		}
		return e.Kind.String(), e.Msg
	}

	return interpreter.InternalError.String(), err.Error()
}

func name(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return path
}
