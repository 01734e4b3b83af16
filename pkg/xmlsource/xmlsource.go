// Package xmlsource reads the XML representation of an IPPcode24 program.
package xmlsource

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"ippvm/pkg/ir"
)

// Language is the value the root element's language attribute must carry.
const Language = "IPPcode24"

const maxArgs = 3

var (
	// ErrMalformed wraps every error caused by input that is not well-formed XML.
	ErrMalformed = errors.New("malformed XML")
	// ErrStructure wraps every error caused by well-formed XML of the wrong shape.
	ErrStructure = errors.New("unexpected XML structure")
)

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

func structure(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructure, fmt.Sprintf(format, args...))
}

type reader struct {
	dec *xml.Decoder
}

// Parse decodes a program document into instruction records in document order.
// Orders are passed through as text; argument elements are reordered by index.
func Parse(r io.Reader) ([]ir.Instruction, error) {
	rd := &reader{dec: xml.NewDecoder(r)}

	root, err := rd.root()
	if err != nil {
		return nil, err
	}
	if root.Name.Local != "program" {
		return nil, structure("root element is <%s>, expected <program>", root.Name.Local)
	}

	lang, ok := attr(root, "language")
	if !ok {
		return nil, structure("<program> has no language attribute")
	}
	if !strings.EqualFold(strings.TrimSpace(lang), Language) {
		return nil, structure("unsupported language %q", lang)
	}

	records, err := rd.program()
	if err != nil {
		return nil, err
	}
	if err := rd.trailer(); err != nil {
		return nil, err
	}

	return records, nil
}

// token returns the next token, turning decoder failures into ErrMalformed.
// io.EOF is returned unchanged.
func (rd *reader) token() (xml.Token, error) {
	tok, err := rd.dec.Token()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, malformed("%v", err)
	}
	return tok, nil
}

// root skips the prolog and returns the document element.
func (rd *reader) root() (xml.StartElement, error) {
	for {
		tok, err := rd.token()
		if err == io.EOF {
			return xml.StartElement{}, malformed("document has no root element")
		}
		if err != nil {
			return xml.StartElement{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.CharData:
			if !blank(t) {
				return xml.StartElement{}, malformed("text before the root element")
			}
		case xml.EndElement:
			return xml.StartElement{}, malformed("unexpected </%s>", t.Name.Local)
		}
	}
}

func (rd *reader) program() ([]ir.Instruction, error) {
	var records []ir.Instruction
	for {
		tok, err := rd.token()
		if err == io.EOF {
			return nil, malformed("unexpected end of document inside <program>")
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "instruction" {
				return nil, structure("unexpected element <%s> inside <program>", t.Name.Local)
			}
			rec, err := rd.instruction(t)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		case xml.CharData:
			if !blank(t) {
				return nil, structure("unexpected text %q inside <program>", strings.TrimSpace(string(t)))
			}
		case xml.EndElement:
			return records, nil
		}
	}
}

func (rd *reader) instruction(start xml.StartElement) (ir.Instruction, error) {
	order, ok := attr(start, "order")
	if !ok {
		return ir.Instruction{}, structure("<instruction> has no order attribute")
	}
	opcode, ok := attr(start, "opcode")
	if !ok {
		return ir.Instruction{}, structure("instruction %s has no opcode attribute", order)
	}

	var slots [maxArgs]*ir.Arg
	for {
		tok, err := rd.token()
		if err == io.EOF {
			return ir.Instruction{}, malformed("unexpected end of document inside instruction %s", order)
		}
		if err != nil {
			return ir.Instruction{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			idx, ok := argIndex(t.Name.Local)
			if !ok {
				return ir.Instruction{}, structure("unexpected element <%s> in instruction %s", t.Name.Local, order)
			}
			if slots[idx] != nil {
				return ir.Instruction{}, structure("duplicate <%s> in instruction %s", t.Name.Local, order)
			}
			arg, err := rd.arg(t)
			if err != nil {
				return ir.Instruction{}, err
			}
			slots[idx] = &arg
		case xml.CharData:
			if !blank(t) {
				return ir.Instruction{}, structure("unexpected text in instruction %s", order)
			}
		case xml.EndElement:
			return assembleArgs(order, opcode, slots)
		}
	}
}

// assembleArgs checks that the present arguments form a prefix arg1..argN.
func assembleArgs(order, opcode string, slots [maxArgs]*ir.Arg) (ir.Instruction, error) {
	rec := ir.Instruction{Order: order, Opcode: opcode}
	gap := false
	for idx, slot := range slots {
		if slot == nil {
			gap = true
			continue
		}
		if gap {
			return ir.Instruction{}, structure("instruction %s has arg%d without arg%d", order, idx+1, idx)
		}
		rec.Args = append(rec.Args, *slot)
	}
	return rec, nil
}

func (rd *reader) arg(start xml.StartElement) (ir.Arg, error) {
	typ, ok := attr(start, "type")
	if !ok {
		return ir.Arg{}, structure("<%s> has no type attribute", start.Name.Local)
	}

	var text strings.Builder
	for {
		tok, err := rd.token()
		if err == io.EOF {
			return ir.Arg{}, malformed("unexpected end of document inside <%s>", start.Name.Local)
		}
		if err != nil {
			return ir.Arg{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			return ir.Arg{}, structure("element <%s> nested in <%s>", t.Name.Local, start.Name.Local)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			return ir.Arg{Type: typ, Text: text.String()}, nil
		}
	}
}

// trailer makes sure nothing but comments and whitespace follows the root.
func (rd *reader) trailer() error {
	for {
		tok, err := rd.token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			return malformed("second root element <%s>", t.Name.Local)
		case xml.CharData:
			if !blank(t) {
				return malformed("text after the root element")
			}
		}
	}
}

func argIndex(name string) (int, bool) {
	digits, ok := strings.CutPrefix(name, "arg")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > maxArgs || digits != strconv.Itoa(n) {
		return 0, false
	}
	return n - 1, true
}

func attr(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func blank(data xml.CharData) bool {
	return strings.TrimSpace(string(data)) == ""
}
