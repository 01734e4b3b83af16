package interpreter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type ValueKind int

// The zero ValueKind is KindUnset, so a zero Value is a declared but unassigned variable.
const (
	KindUnset ValueKind = iota
	KindNil
	KindInt
	KindBool
	KindString
	KindRef
)

func (k ValueKind) String() string {
	switch k {
	case KindUnset:
		return "unset"
	case KindNil:
		return "nil"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindRef:
		return "var"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// FrameKind selects one of the three variable scopes.
type FrameKind int

const (
	GlobalFrame FrameKind = iota
	TemporaryFrame
	LocalFrame
)

func (f FrameKind) String() string {
	switch f {
	case GlobalFrame:
		return "GF"
	case TemporaryFrame:
		return "TF"
	case LocalFrame:
		return "LF"
	default:
		return fmt.Sprintf("FrameKind(%d)", int(f))
	}
}

func parseFrameKind(prefix string) (FrameKind, bool) {
	switch prefix {
	case "GF":
		return GlobalFrame, true
	case "TF":
		return TemporaryFrame, true
	case "LF":
		return LocalFrame, true
	default:
		return 0, false
	}
}

// VarRef names a variable. Local references resolve against whichever local
// frame is on top when they are followed.
type VarRef struct {
	Frame FrameKind
	Name  string
}

func (r VarRef) String() string {
	return r.Frame.String() + "@" + r.Name
}

// Value represents a dynamically-typed value in the interpreter.
type Value struct {
	Kind ValueKind
	I64  int64
	Bool bool
	Str  string
	Ref  VarRef
}

// Materialized reports whether v holds data an instruction may consume.
func (v Value) Materialized() bool {
	switch v.Kind {
	case KindNil, KindInt, KindBool, KindString:
		return true
	default:
		return false
	}
}

// TypeName is the name TYPE reports; unset variables have the empty type.
func (v Value) TypeName() string {
	if v.Kind == KindUnset {
		return ""
	}
	return v.Kind.String()
}

// String renders the value the way WRITE prints it.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindString:
		return v.Str
	case KindRef:
		return v.Ref.String()
	default:
		return ""
	}
}

// Literal renders the value in operand notation, e.g. int@5 or string@a\032b.
func (v Value) Literal() string {
	switch v.Kind {
	case KindUnset:
		return "<unset>"
	case KindNil:
		return "nil@nil"
	case KindString:
		return "string@" + encodeEscapes(v.Str)
	case KindRef:
		return v.Ref.String()
	default:
		return v.Kind.String() + "@" + v.String()
	}
}

// Equal compares two values of the same kind by content.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}

	switch v.Kind {
	case KindInt:
		return v.I64 == o.I64
	case KindBool:
		return v.Bool == o.Bool
	case KindString:
		return v.Str == o.Str
	case KindRef:
		return v.Ref == o.Ref
	default:
		return true
	}
}

// NewInt creates a new integer Value.
func NewInt(i int64) Value {
	return Value{Kind: KindInt, I64: i}
}

// NewBool creates a new boolean Value.
func NewBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// NewString creates a new string Value.
func NewString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Nil is the nil@nil value.
func Nil() Value {
	return Value{Kind: KindNil}
}

// NewRef creates a reference to a variable.
func NewRef(r VarRef) Value {
	return Value{Kind: KindRef, Ref: r}
}

// parseInt parses the int literal grammar: optional sign, then decimal, 0x hex or 0o octal.
func parseInt(text string) (int64, error) {
	body := text
	sign := ""
	if strings.HasPrefix(body, "-") {
		sign = body[:1]
		body = body[1:]
	}

	base := 10
	lower := strings.ToLower(body)
	switch {
	case strings.HasPrefix(lower, "0x"):
		base = 16
		body = body[2:]
	case strings.HasPrefix(lower, "0o"):
		base = 8
		body = body[2:]
	}

	if body == "" || strings.ContainsAny(body, "+-_") {
		return 0, fmt.Errorf("invalid integer %q", text)
	}

	n, err := strconv.ParseInt(sign+body, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", text, err)
	}

	return n, nil
}

var escapeRegex = regexp.MustCompile(`\\[0-9]{3}`)

// decodeEscapes replaces every \ddd sequence with the code point ddd.
func decodeEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	return escapeRegex.ReplaceAllStringFunc(s, func(m string) string {
		n, _ := strconv.Atoi(m[1:])
		return string(rune(n))
	})
}

// encodeEscapes is the inverse of decodeEscapes for the characters a string
// literal cannot carry verbatim.
func encodeEscapes(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r <= 32 || r == '#' || r == '\\' {
			fmt.Fprintf(&b, `\%03d`, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
