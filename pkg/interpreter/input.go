package interpreter

import (
	"bufio"
	"io"
	"strings"
)

// Input is the source READ consumes. Each call blocks until a line is
// available; ok is false at end of input or when the line does not conform.
type Input interface {
	ReadString() (s string, ok bool)
	ReadInt() (n int64, ok bool)
	ReadBool() (b bool, ok bool)
}

// LineInput reads one value per line from an io.Reader.
type LineInput struct {
	r *bufio.Reader
}

// NewLineInput wraps r.
func NewLineInput(r io.Reader) *LineInput {
	return &LineInput{r: bufio.NewReader(r)}
}

func (l *LineInput) line() (string, bool) {
	s, err := l.r.ReadString('\n')
	if err != nil && s == "" {
		return "", false
	}
	return strings.TrimRight(s, "\r\n"), true
}

func (l *LineInput) ReadString() (string, bool) {
	return l.line()
}

func (l *LineInput) ReadInt() (int64, bool) {
	s, ok := l.line()
	if !ok {
		return 0, false
	}

	s = strings.TrimSpace(s)
	if !operandRegexes[ArgInt].MatchString(s) {
		return 0, false
	}
	n, err := parseInt(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (l *LineInput) ReadBool() (bool, bool) {
	s, ok := l.line()
	if !ok {
		return false, false
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		return false, false
	}
}
