package interpreter

import (
	"fmt"
	"regexp"
	"strings"

	"ippvm/pkg/ir"
)

// Pattern is the operand shape an opcode expects at a position.
type Pattern int

const (
	PatternVar Pattern = iota
	PatternSymb
	PatternLabel
	PatternType
)

func (p Pattern) String() string {
	switch p {
	case PatternVar:
		return "var"
	case PatternSymb:
		return "symb"
	case PatternLabel:
		return "label"
	case PatternType:
		return "type"
	default:
		return fmt.Sprintf("Pattern(%d)", int(p))
	}
}

// ArgKind is the syntactic kind of a classified operand.
type ArgKind string

const (
	ArgVar    ArgKind = "var"
	ArgInt    ArgKind = "int"
	ArgBool   ArgKind = "bool"
	ArgString ArgKind = "string"
	ArgNil    ArgKind = "nil"
	ArgLabel  ArgKind = "label"
	ArgType   ArgKind = "type"
)

const identifier = `[A-Za-z_\-$&%*!?][A-Za-z0-9_\-$&%*!?]*`

// Operand regex patterns, one per syntactic kind
var operandRegexes = map[ArgKind]*regexp.Regexp{
	ArgVar:    regexp.MustCompile(`^(GF|TF|LF)@` + identifier + `$`),
	ArgInt:    regexp.MustCompile(`^-?(0[xX][0-9a-fA-F]+|0[oO][0-7]+|[0-9]+)$`),
	ArgBool:   regexp.MustCompile(`^(true|false)$`),
	ArgNil:    regexp.MustCompile(`^nil$`),
	ArgString: regexp.MustCompile(`^([^\s#\\]|\\[0-9]{3})*$`),
	ArgLabel:  regexp.MustCompile(`^` + identifier + `$`),
	ArgType:   regexp.MustCompile(`^(int|bool|string)$`),
}

// Kinds each pattern admits
var patternKinds = map[Pattern][]ArgKind{
	PatternVar:   {ArgVar},
	PatternSymb:  {ArgVar, ArgInt, ArgBool, ArgString, ArgNil},
	PatternLabel: {ArgLabel},
	PatternType:  {ArgType},
}

// maxIndirection bounds how many variable references a single lookup follows.
const maxIndirection = 16

// Argument is a classified operand. Variable operands are never resolved
// eagerly; Resolve reads the frames every time it is called.
type Argument struct {
	Kind ArgKind
	Raw  string

	Ref     VarRef // ArgVar
	Literal Value  // ArgInt, ArgBool, ArgString, ArgNil
	Name    string // ArgLabel, ArgType
}

// NewArgument classifies raw against the expected pattern.
func NewArgument(raw ir.Arg, pattern Pattern) (Argument, error) {
	kind := ArgKind(strings.ToLower(strings.TrimSpace(raw.Type)))
	text := raw.Text
	if kind != ArgString {
		text = strings.TrimSpace(text)
	}

	admitted := false
	for _, k := range patternKinds[pattern] {
		if k == kind {
			admitted = true
			break
		}
	}
	if !admitted {
		return Argument{}, newError(StructureError, "operand %s does not match pattern %s", raw, pattern)
	}

	if re, ok := operandRegexes[kind]; !ok || !re.MatchString(text) {
		return Argument{}, newError(StructureError, "malformed %s operand %q", kind, text)
	}

	a := Argument{Kind: kind, Raw: text}
	switch kind {
	case ArgVar:
		frame, _ := parseFrameKind(text[:2])
		a.Ref = VarRef{Frame: frame, Name: text[3:]}
	case ArgInt:
		n, err := parseInt(text)
		if err != nil {
			return Argument{}, newError(StructureError, "%v", err)
		}
		a.Literal = NewInt(n)
	case ArgBool:
		a.Literal = NewBool(text == "true")
	case ArgString:
		a.Literal = NewString(decodeEscapes(text))
	case ArgNil:
		a.Literal = Nil()
	case ArgLabel, ArgType:
		a.Name = text
	}

	return a, nil
}

// String returns the operand in listing notation
func (a Argument) String() string {
	switch a.Kind {
	case ArgVar:
		return a.Ref.String()
	case ArgLabel, ArgType:
		return a.Name
	default:
		return a.Literal.Literal()
	}
}

// Value returns the shallow value of the operand: a reference for variables,
// the literal otherwise.
func (a Argument) Value() Value {
	if a.Kind == ArgVar {
		return NewRef(a.Ref)
	}
	return a.Literal
}

// Resolve returns the deep value of the operand, following variable references
// through fs. The result may be unset.
func (a Argument) Resolve(fs *FrameSet) (Value, error) {
	return deref(fs, a.Value())
}

// Symbol returns the deep value and fails if it is unset.
func (a Argument) Symbol(fs *FrameSet) (Value, error) {
	v, err := a.Resolve(fs)
	if err != nil {
		return Value{}, err
	}
	if !v.Materialized() {
		return Value{}, newError(ValueError, "variable %s is not initialized", a)
	}
	return v, nil
}

// DeepType returns the type name of the deep value, empty for unset variables.
func (a Argument) DeepType(fs *FrameSet) (string, error) {
	v, err := a.Resolve(fs)
	if err != nil {
		return "", err
	}
	return v.TypeName(), nil
}

// deref follows references until it reaches a value that is not one.
func deref(fs *FrameSet, v Value) (Value, error) {
	for i := 0; v.Kind == KindRef; i++ {
		if i >= maxIndirection {
			return Value{}, newError(InternalError, "reference chain through %s exceeds %d levels", v.Ref, maxIndirection)
		}

		next, err := fs.Get(v.Ref)
		if err != nil {
			return Value{}, err
		}
		v = next
	}
	return v, nil
}
