package interpreter

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func global(t *testing.T, m *Interpreter, name string) Value {
	t.Helper()

	v, err := m.Frames().Get(VarRef{Frame: GlobalFrame, Name: name})
	if err != nil {
		t.Fatalf("GF@%s: %v", name, err)
	}
	return v
}

func TestIDivTruncatesMagnitude(t *testing.T) {
	tests := []struct {
		a, b int64
		want int64
	}{
		{7, -2, 3},
		{-7, 2, 3},
		{-7, -2, 3},
		{7, 2, 3},
		{6, 3, 2},
		{1, 5, 0},
	}

	for _, tt := range tests {
		got, err := idivOp(NewInt(tt.a), NewInt(tt.b))
		if err != nil {
			t.Errorf("IDIV %d %d: %v", tt.a, tt.b, err)
			continue
		}
		if got.I64 != tt.want {
			t.Errorf("IDIV %d %d = %d, want %d", tt.a, tt.b, got.I64, tt.want)
		}
	}

	for _, x := range []int64{0, 1, -1, 1 << 40} {
		_, err := idivOp(NewInt(x), NewInt(0))
		expectKind(t, err, OperandValueError)
	}

	for _, d := range []int64{-1, 1} {
		_, err := idivOp(NewInt(math.MinInt64), NewInt(d))
		expectKind(t, err, OperandValueError)
	}
	if got, err := idivOp(NewInt(math.MinInt64), NewInt(2)); err != nil || got.I64 != 1<<62 {
		t.Errorf("IDIV MinInt64 2 = %v, %v; want %d", got, err, int64(1<<62))
	}

	r := run(t, "DEFVAR GF@q", "IDIV GF@q int@7 int@-2")
	if r.err != nil {
		t.Fatalf("Run() failed: %v", r.err)
	}
	if diff := cmp.Diff(NewInt(3), global(t, r.m, "q")); diff != "" {
		t.Errorf("GF@q mismatch (-want +got):\n%s", diff)
	}

	r = run(t, "DEFVAR GF@q", "IDIV GF@q int@7 int@0")
	expectKind(t, r.err, OperandValueError)
}

func TestArithmetic(t *testing.T) {
	r := run(t,
		"DEFVAR GF@a",
		"DEFVAR GF@b",
		"DEFVAR GF@c",
		"ADD GF@a int@0x10 int@-0o7",
		"SUB GF@b GF@a int@20",
		"MUL GF@c GF@b int@3",
	)
	if r.err != nil {
		t.Fatalf("Run() failed: %v", r.err)
	}

	got := []Value{global(t, r.m, "a"), global(t, r.m, "b"), global(t, r.m, "c")}
	if diff := cmp.Diff([]Value{NewInt(9), NewInt(-11), NewInt(-33)}, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}

	for _, line := range []string{
		"ADD GF@a int@1 string@1",
		"SUB GF@a bool@true int@1",
		"MUL GF@a nil@nil int@1",
		"IDIV GF@a string@4 int@2",
	} {
		r := run(t, "DEFVAR GF@a", line)
		expectKind(t, r.err, OperandTypeError)
	}
}

func TestRelational(t *testing.T) {
	tests := []struct {
		op   binaryOp
		a, b Value
		want bool
	}{
		{ltOp, NewInt(1), NewInt(2), true},
		{ltOp, NewInt(2), NewInt(2), false},
		{gtOp, NewInt(3), NewInt(2), true},
		{ltOp, NewBool(false), NewBool(true), true},
		{ltOp, NewBool(false), NewBool(false), false},
		{gtOp, NewBool(true), NewBool(false), true},
		{ltOp, NewString("zz"), NewString("aaa"), true},
		{gtOp, NewString("ab"), NewString("z"), true},
		{eqOp, NewString("ab"), NewString("ab"), true},
		{eqOp, NewString("ab"), NewString("cd"), false},
		{eqOp, Nil(), Nil(), true},
		{eqOp, Nil(), NewInt(0), false},
		{eqOp, NewString(""), Nil(), false},
	}

	for _, tt := range tests {
		got, err := tt.op(tt.a, tt.b)
		if err != nil {
			t.Errorf("%s %s: %v", tt.a.Literal(), tt.b.Literal(), err)
			continue
		}
		if got.Bool != tt.want {
			t.Errorf("%s %s = %v, want %v", tt.a.Literal(), tt.b.Literal(), got.Bool, tt.want)
		}
	}

	for _, pair := range [][2]Value{
		{NewInt(1), NewString("1")},
		{Nil(), Nil()},
		{Nil(), NewInt(1)},
	} {
		_, err := ltOp(pair[0], pair[1])
		expectKind(t, err, OperandTypeError)
		_, err = gtOp(pair[0], pair[1])
		expectKind(t, err, OperandTypeError)
	}

	_, err := eqOp(NewInt(1), NewBool(true))
	expectKind(t, err, OperandTypeError)
}

func TestLogic(t *testing.T) {
	r := run(t,
		"DEFVAR GF@a",
		"DEFVAR GF@o",
		"DEFVAR GF@n",
		"AND GF@a bool@true bool@false",
		"OR GF@o bool@true bool@false",
		"NOT GF@n GF@a",
	)
	if r.err != nil {
		t.Fatalf("Run() failed: %v", r.err)
	}

	got := []Value{global(t, r.m, "a"), global(t, r.m, "o"), global(t, r.m, "n")}
	if diff := cmp.Diff([]Value{NewBool(false), NewBool(true), NewBool(true)}, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}

	r = run(t, "DEFVAR GF@a", "AND GF@a bool@true int@1")
	expectKind(t, r.err, OperandTypeError)
	r = run(t, "DEFVAR GF@a", "NOT GF@a nil@nil")
	expectKind(t, r.err, OperandTypeError)
}

func TestConcat(t *testing.T) {
	words := []Value{NewString("ab"), NewString(""), NewString("čď"), NewString("x")}

	for _, a := range words {
		for _, b := range words {
			for _, c := range words {
				ab, _ := concatOp(a, b)
				left, _ := concatOp(ab, c)
				bc, _ := concatOp(b, c)
				right, _ := concatOp(a, bc)
				if !left.Equal(right) {
					t.Errorf("CONCAT not associative for %q %q %q", a.Str, b.Str, c.Str)
				}
			}
		}

		withEmpty, _ := concatOp(a, NewString(""))
		emptyWith, _ := concatOp(NewString(""), a)
		if !withEmpty.Equal(a) || !emptyWith.Equal(a) {
			t.Errorf("empty string is not an identity for %q", a.Str)
		}
	}

	for _, other := range []Value{NewInt(1), NewBool(true), Nil()} {
		_, err := concatOp(NewString("a"), other)
		expectKind(t, err, OperandTypeError)
		_, err = concatOp(other, NewString("a"))
		expectKind(t, err, OperandTypeError)
	}
}

func TestStringOperations(t *testing.T) {
	r := run(t,
		"DEFVAR GF@s",
		"DEFVAR GF@len",
		"DEFVAR GF@ch",
		"DEFVAR GF@code",
		"DEFVAR GF@back",
		"MOVE GF@s string@žluťoučký",
		"STRLEN GF@len GF@s",
		"GETCHAR GF@ch GF@s int@3",
		"STRI2INT GF@code GF@s int@0",
		"INT2CHAR GF@back int@382",
		"SETCHAR GF@s int@0 string@Zebra",
	)
	if r.err != nil {
		t.Fatalf("Run() failed: %v", r.err)
	}

	got := map[string]Value{
		"s":    global(t, r.m, "s"),
		"len":  global(t, r.m, "len"),
		"ch":   global(t, r.m, "ch"),
		"code": global(t, r.m, "code"),
		"back": global(t, r.m, "back"),
	}
	want := map[string]Value{
		"s":    NewString("Zluťoučký"),
		"len":  NewInt(9),
		"ch":   NewString("ť"),
		"code": NewInt(382),
		"back": NewString("ž"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestStringOperationErrors(t *testing.T) {
	tests := []struct {
		line string
		want ErrorKind
	}{
		{"GETCHAR GF@r string@abc int@3", StringOperationError},
		{"GETCHAR GF@r string@abc int@-1", StringOperationError},
		{"GETCHAR GF@r string@ int@0", StringOperationError},
		{"GETCHAR GF@r int@1 int@0", OperandTypeError},
		{"STRI2INT GF@r string@abc int@10", StringOperationError},
		{"STRI2INT GF@r string@abc string@1", OperandTypeError},
		{"INT2CHAR GF@r int@-1", StringOperationError},
		{"INT2CHAR GF@r int@55296", StringOperationError},
		{"INT2CHAR GF@r int@1114112", StringOperationError},
		{"INT2CHAR GF@r string@a", OperandTypeError},
		{"STRLEN GF@r int@1", OperandTypeError},
		{"STRLEN GF@r bool@true", OperandTypeError},
		{"STRLEN GF@r nil@nil", OperandTypeError},
		{"SETCHAR GF@s int@5 string@x", StringOperationError},
		{"SETCHAR GF@s int@0 string@", StringOperationError},
		{"SETCHAR GF@s string@0 string@x", OperandTypeError},
	}

	for _, tt := range tests {
		r := run(t, "DEFVAR GF@r", "DEFVAR GF@s", "MOVE GF@s string@abc", tt.line)
		if KindOf(r.err) != tt.want || r.err == nil {
			t.Errorf("%s: got %v, want %s", tt.line, r.err, tt.want)
		}
	}
}

func TestType(t *testing.T) {
	r := run(t,
		"DEFVAR GF@t1",
		"DEFVAR GF@t2",
		"DEFVAR GF@t3",
		"DEFVAR GF@u",
		"DEFVAR GF@n",
		"MOVE GF@n nil@nil",
		"MOVE GF@t3 string@keep",
		"TYPE GF@t1 int@4",
		"TYPE GF@t2 GF@u",
		"TYPE GF@t3 GF@n",
	)
	if r.err != nil {
		t.Fatalf("Run() failed: %v", r.err)
	}

	got := []Value{global(t, r.m, "t1"), global(t, r.m, "t2"), global(t, r.m, "t3")}
	want := []Value{NewString("int"), NewString(""), NewString("keep")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TYPE results mismatch (-want +got):\n%s", diff)
	}
}

func TestFrames(t *testing.T) {
	r := run(t,
		"CREATEFRAME",
		"DEFVAR TF@x",
		"MOVE TF@x int@1",
		"PUSHFRAME",
		"ADD LF@x LF@x int@1",
		"POPFRAME",
		"WRITE TF@x",
	)
	if r.err != nil {
		t.Fatalf("Run() failed: %v", r.err)
	}
	if r.stdout != "2" {
		t.Errorf("output = %q, want %q", r.stdout, "2")
	}
}

func TestRuntimeErrorKinds(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  ErrorKind
	}{
		{"temporary frame missing", []string{"DEFVAR TF@x"}, FrameAccessError},
		{"local frame missing", []string{"WRITE LF@x"}, FrameAccessError},
		{"push without temporary", []string{"PUSHFRAME"}, FrameAccessError},
		{"push twice", []string{"CREATEFRAME", "PUSHFRAME", "PUSHFRAME"}, FrameAccessError},
		{"pop empty", []string{"POPFRAME"}, FrameAccessError},
		{"undefined read", []string{"WRITE GF@nope"}, VariableAccessError},
		{"undefined write", []string{"MOVE GF@nope int@1"}, VariableAccessError},
		{"redefinition", []string{"DEFVAR GF@x", "DEFVAR GF@x"}, SemanticError},
		{"uninitialized move", []string{"DEFVAR GF@x", "DEFVAR GF@y", "MOVE GF@y GF@x"}, ValueError},
		{"uninitialized push", []string{"DEFVAR GF@x", "PUSHS GF@x"}, ValueError},
		{"pop empty stack", []string{"DEFVAR GF@x", "POPS GF@x"}, ValueError},
		{"stack op on empty stack", []string{"PUSHS int@1", "ADDS"}, ValueError},
		{"return without call", []string{"RETURN"}, SemanticError},
		{"jump to missing label", []string{"JUMP nowhere"}, SemanticError},
		{"call missing label", []string{"CALL nowhere"}, SemanticError},
		{"conditional jump to missing label", []string{"JUMPIFEQ nowhere int@1 int@2"}, SemanticError},
		{"nil literal in JUMPIFEQ", []string{"LABEL l", "JUMPIFEQ l nil@nil int@1"}, SemanticError},
		{"nil literal in JUMPIFNEQ", []string{"LABEL l", "JUMPIFNEQ l int@1 nil@nil"}, SemanticError},
		{"mismatched jump operands", []string{"LABEL l", "JUMPIFEQ l int@1 string@1"}, OperandTypeError},
		{"exit code out of range", []string{"EXIT int@-1"}, OperandValueError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := run(t, tt.lines...)
			expectKind(t, r.err, tt.want)
			if r.code != tt.want.ExitCode() {
				t.Errorf("exit code = %d, want %d", r.code, tt.want.ExitCode())
			}
		})
	}
}

func TestConditionalJumpThroughNilVariable(t *testing.T) {
	r := run(t,
		"DEFVAR GF@n",
		"MOVE GF@n nil@nil",
		"JUMPIFNEQ skip GF@n string@x",
		"WRITE string@wrong",
		"LABEL skip",
		"JUMPIFEQ end GF@n GF@n",
		"WRITE string@wrong",
		"LABEL end",
	)
	if r.err != nil {
		t.Fatalf("Run() failed: %v", r.err)
	}
	if r.stdout != "" {
		t.Errorf("output = %q, want none", r.stdout)
	}
}

func TestWriteFormatting(t *testing.T) {
	r := run(t,
		"DEFVAR GF@n",
		"MOVE GF@n nil@nil",
		"WRITE int@-12",
		"WRITE string@\\010",
		"WRITE bool@true",
		"WRITE GF@n",
		"WRITE string@a\\035b\\092",
	)
	if r.err != nil {
		t.Fatalf("Run() failed: %v", r.err)
	}
	if want := "-12\ntruea#b\\"; r.stdout != want {
		t.Errorf("output = %q, want %q", r.stdout, want)
	}
}

type scriptedInput struct {
	lines []string
}

func (s *scriptedInput) next() (string, bool) {
	if len(s.lines) == 0 {
		return "", false
	}
	l := s.lines[0]
	s.lines = s.lines[1:]
	return l, true
}

func (s *scriptedInput) ReadString() (string, bool) { return s.next() }

func (s *scriptedInput) ReadInt() (int64, bool) {
	l, ok := s.next()
	if !ok {
		return 0, false
	}
	n, err := parseInt(l)
	return n, err == nil
}

func (s *scriptedInput) ReadBool() (bool, bool) {
	l, ok := s.next()
	return l == "true", ok && (l == "true" || l == "false")
}

func TestRead(t *testing.T) {
	in := &scriptedInput{lines: []string{"42", "true", "hello world", "nope"}}
	r := runWith(t, in,
		"DEFVAR GF@i",
		"DEFVAR GF@b",
		"DEFVAR GF@s",
		"DEFVAR GF@bad",
		"DEFVAR GF@eof",
		"READ GF@i int",
		"READ GF@b bool",
		"READ GF@s string",
		"READ GF@bad int",
		"READ GF@eof string",
	)
	if r.err != nil {
		t.Fatalf("Run() failed: %v", r.err)
	}

	got := []Value{global(t, r.m, "i"), global(t, r.m, "b"), global(t, r.m, "s"), global(t, r.m, "bad"), global(t, r.m, "eof")}
	want := []Value{NewInt(42), NewBool(true), NewString("hello world"), Nil(), Nil()}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("READ results mismatch (-want +got):\n%s", diff)
	}
}

func TestLineInput(t *testing.T) {
	in := NewLineInput(strings.NewReader("0x1F\r\nTRUE\nmaybe\nlast"))

	if n, ok := in.ReadInt(); !ok || n != 31 {
		t.Errorf("ReadInt() = %d, %v; want 31, true", n, ok)
	}
	if b, ok := in.ReadBool(); !ok || !b {
		t.Errorf("ReadBool() = %v, %v; want true, true", b, ok)
	}
	if _, ok := in.ReadBool(); ok {
		t.Errorf("ReadBool() accepted %q", "maybe")
	}
	if s, ok := in.ReadString(); !ok || s != "last" {
		t.Errorf("ReadString() = %q, %v; want \"last\", true", s, ok)
	}
	if _, ok := in.ReadString(); ok {
		t.Errorf("ReadString() at EOF reported ok")
	}
}

func TestDiagnosticsGoToErrWriter(t *testing.T) {
	r := run(t,
		"DEFVAR GF@counter",
		"MOVE GF@counter int@3",
		"PUSHS string@queued",
		"DPRINT GF@counter",
		"BREAK",
	)
	if r.err != nil {
		t.Fatalf("Run() failed: %v", r.err)
	}
	if r.stdout != "" {
		t.Errorf("stdout = %q, want empty", r.stdout)
	}

	for _, want := range []string{"3position 4 (order 50, BREAK)", "counter", "int@3", "string@queued", "local frames: 0"} {
		if !strings.Contains(r.stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, r.stderr)
		}
	}
}
