package interpreter

import (
	"fmt"
	"strings"
)

type Opcode string

// List of IPPcode24 operations
const (
	OpMove        Opcode = "MOVE"
	OpCreateFrame Opcode = "CREATEFRAME"
	OpPushFrame   Opcode = "PUSHFRAME"
	OpPopFrame    Opcode = "POPFRAME"
	OpDefVar      Opcode = "DEFVAR"
	OpCall        Opcode = "CALL"
	OpReturn      Opcode = "RETURN"
	OpPushS       Opcode = "PUSHS"
	OpPopS        Opcode = "POPS"
	OpAdd         Opcode = "ADD"
	OpSub         Opcode = "SUB"
	OpMul         Opcode = "MUL"
	OpIDiv        Opcode = "IDIV"
	OpLt          Opcode = "LT"
	OpGt          Opcode = "GT"
	OpEq          Opcode = "EQ"
	OpAnd         Opcode = "AND"
	OpOr          Opcode = "OR"
	OpNot         Opcode = "NOT"
	OpInt2Char    Opcode = "INT2CHAR"
	OpStri2Int    Opcode = "STRI2INT"
	OpRead        Opcode = "READ"
	OpWrite       Opcode = "WRITE"
	OpConcat      Opcode = "CONCAT"
	OpStrLen      Opcode = "STRLEN"
	OpGetChar     Opcode = "GETCHAR"
	OpSetChar     Opcode = "SETCHAR"
	OpType        Opcode = "TYPE"
	OpLabel       Opcode = "LABEL"
	OpJump        Opcode = "JUMP"
	OpJumpIfEq    Opcode = "JUMPIFEQ"
	OpJumpIfNeq   Opcode = "JUMPIFNEQ"
	OpExit        Opcode = "EXIT"
	OpDPrint      Opcode = "DPRINT"
	OpBreak       Opcode = "BREAK"
	OpClearS      Opcode = "CLEARS"
	OpAddS        Opcode = "ADDS"
	OpSubS        Opcode = "SUBS"
	OpMulS        Opcode = "MULS"
	OpIDivS       Opcode = "IDIVS"
	OpLtS         Opcode = "LTS"
	OpGtS         Opcode = "GTS"
	OpEqS         Opcode = "EQS"
	OpAndS        Opcode = "ANDS"
	OpOrS         Opcode = "ORS"
	OpNotS        Opcode = "NOTS"
	OpInt2CharS   Opcode = "INT2CHARS"
	OpStri2IntS   Opcode = "STRI2INTS"
	OpJumpIfEqS   Opcode = "JUMPIFEQS"
	OpJumpIfNeqS  Opcode = "JUMPIFNEQS"
)

// Opcodes is the complete instruction set.
var Opcodes = []Opcode{
	OpMove, OpCreateFrame, OpPushFrame, OpPopFrame, OpDefVar, OpCall, OpReturn,
	OpPushS, OpPopS,
	OpAdd, OpSub, OpMul, OpIDiv, OpLt, OpGt, OpEq, OpAnd, OpOr, OpNot,
	OpInt2Char, OpStri2Int,
	OpRead, OpWrite,
	OpConcat, OpStrLen, OpGetChar, OpSetChar,
	OpType,
	OpLabel, OpJump, OpJumpIfEq, OpJumpIfNeq, OpExit,
	OpDPrint, OpBreak,
	OpClearS, OpAddS, OpSubS, OpMulS, OpIDivS, OpLtS, OpGtS, OpEqS, OpAndS, OpOrS, OpNotS,
	OpInt2CharS, OpStri2IntS, OpJumpIfEqS, OpJumpIfNeqS,
}

// ParseOpcode maps an opcode name, in any letter case, to its Opcode.
func ParseOpcode(name string) (Opcode, bool) {
	op := Opcode(strings.ToUpper(strings.TrimSpace(name)))
	_, ok := opcodeTable[op]
	return op, ok
}

type directiveKind int

const (
	directiveNext directiveKind = iota
	directiveJump
	directiveExit
)

// Directive tells the engine where execution continues after an instruction.
type Directive struct {
	kind   directiveKind
	Target int // instruction position for jumps
	Code   int // exit code for EXIT
}

func next() Directive {
	return Directive{}
}

func jumpTo(pos int) Directive {
	return Directive{kind: directiveJump, Target: pos}
}

func exitWith(code int) Directive {
	return Directive{kind: directiveExit, Code: code}
}

type handler func(m *Interpreter, args []Argument) (Directive, error)

type opcodeSpec struct {
	params []Pattern
	exec   handler
}

var (
	noParams     = []Pattern{}
	varParams    = []Pattern{PatternVar}
	symbParams   = []Pattern{PatternSymb}
	labelParams  = []Pattern{PatternLabel}
	varSymb      = []Pattern{PatternVar, PatternSymb}
	varSymbSymb  = []Pattern{PatternVar, PatternSymb, PatternSymb}
	labelSymbs   = []Pattern{PatternLabel, PatternSymb, PatternSymb}
	varTypeParam = []Pattern{PatternVar, PatternType}
)

var opcodeTable = map[Opcode]opcodeSpec{
	OpMove:        {varSymb, execMove},
	OpCreateFrame: {noParams, execCreateFrame},
	OpPushFrame:   {noParams, execPushFrame},
	OpPopFrame:    {noParams, execPopFrame},
	OpDefVar:      {varParams, execDefVar},
	OpCall:        {labelParams, execCall},
	OpReturn:      {noParams, execReturn},
	OpPushS:       {symbParams, execPushS},
	OpPopS:        {varParams, execPopS},
	OpAdd:         {varSymbSymb, ternary(addOp)},
	OpSub:         {varSymbSymb, ternary(subOp)},
	OpMul:         {varSymbSymb, ternary(mulOp)},
	OpIDiv:        {varSymbSymb, ternary(idivOp)},
	OpLt:          {varSymbSymb, ternary(ltOp)},
	OpGt:          {varSymbSymb, ternary(gtOp)},
	OpEq:          {varSymbSymb, ternary(eqOp)},
	OpAnd:         {varSymbSymb, ternary(andOp)},
	OpOr:          {varSymbSymb, ternary(orOp)},
	OpNot:         {varSymb, binary(notOp)},
	OpInt2Char:    {varSymb, binary(int2charOp)},
	OpStri2Int:    {varSymbSymb, ternary(stri2intOp)},
	OpRead:        {varTypeParam, execRead},
	OpWrite:       {symbParams, execWrite},
	OpConcat:      {varSymbSymb, ternary(concatOp)},
	OpStrLen:      {varSymb, binary(strlenOp)},
	OpGetChar:     {varSymbSymb, ternary(getcharOp)},
	OpSetChar:     {varSymbSymb, execSetChar},
	OpType:        {varSymb, execType},
	OpLabel:       {labelParams, execLabel},
	OpJump:        {labelParams, execJump},
	OpJumpIfEq:    {labelSymbs, conditionalJump(true)},
	OpJumpIfNeq:   {labelSymbs, conditionalJump(false)},
	OpExit:        {symbParams, execExit},
	OpDPrint:      {symbParams, execDPrint},
	OpBreak:       {noParams, execBreak},
	OpClearS:      {noParams, execClearS},
	OpAddS:        {noParams, stackBinary(addOp)},
	OpSubS:        {noParams, stackBinary(subOp)},
	OpMulS:        {noParams, stackBinary(mulOp)},
	OpIDivS:       {noParams, stackBinary(idivOp)},
	OpLtS:         {noParams, stackBinary(ltOp)},
	OpGtS:         {noParams, stackBinary(gtOp)},
	OpEqS:         {noParams, stackBinary(eqOp)},
	OpAndS:        {noParams, stackBinary(andOp)},
	OpOrS:         {noParams, stackBinary(orOp)},
	OpNotS:        {noParams, stackUnary(notOp)},
	OpInt2CharS:   {noParams, stackUnary(int2charOp)},
	OpStri2IntS:   {noParams, stackBinary(stri2intOp)},
	OpJumpIfEqS:   {labelParams, stackConditionalJump(true)},
	OpJumpIfNeqS:  {labelParams, stackConditionalJump(false)},
}

func init() {
	if len(opcodeTable) != len(Opcodes) {
		panic(fmt.Sprintf("interpreter: opcode table has %d entries, instruction set has %d", len(opcodeTable), len(Opcodes)))
	}

	for _, op := range Opcodes {
		entry, ok := opcodeTable[op]
		if !ok || entry.exec == nil {
			panic(fmt.Sprintf("interpreter: no handler for opcode %s", op))
		}
	}
}
