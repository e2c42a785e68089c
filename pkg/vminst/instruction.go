// Package vminst defines the tagged-variant instruction set of the VM
// language and the per-file translation state that scopes label and
// return-site allocation.
package vminst

import "fmt"

// ArithOp is one of the nine zero-operand arithmetic/logic opcodes.
type ArithOp string

const (
	Add ArithOp = "add"
	Sub ArithOp = "sub"
	Neg ArithOp = "neg"
	Eq  ArithOp = "eq"
	Gt  ArithOp = "gt"
	Lt  ArithOp = "lt"
	And ArithOp = "and"
	Or  ArithOp = "or"
	Not ArithOp = "not"
)

// IsComparison reports whether op needs a pair of fresh labels to
// realize its true/false branch (eq, gt, lt).
func (op ArithOp) IsComparison() bool {
	switch op {
	case Eq, Gt, Lt:
		return true
	default:
		return false
	}
}

// Segment is one of the eight VM memory segments.
type Segment string

const (
	Constant Segment = "constant"
	Local    Segment = "local"
	Argument Segment = "argument"
	This     Segment = "this"
	That     Segment = "that"
	Temp     Segment = "temp"
	Pointer  Segment = "pointer"
	Static   Segment = "static"
)

// Instruction is the sum type every VM line parses into. Exactly one
// of the Is* predicates is true for a given value produced by the
// parser; exhaustive callers switch on Kind().
type Instruction struct {
	kind kind

	// Arithmetic
	Op ArithOp

	// Push / Pop
	Segment Segment
	Index   int

	// Label / Goto / IfGoto
	Name string

	// Function / Call
	FuncName string
	NVars    int // Function
	NArgs    int // Call

	// SourceLine is the original VM text this instruction was parsed
	// from, reproduced as a comment ahead of the emitted fragment.
	SourceLine string
}

type kind int

const (
	kindArithmetic kind = iota
	kindPush
	kindPop
	kindLabel
	kindGoto
	kindIfGoto
	kindFunction
	kindCall
	kindReturn
)

func (i Instruction) Kind() string {
	switch i.kind {
	case kindArithmetic:
		return "arithmetic"
	case kindPush:
		return "push"
	case kindPop:
		return "pop"
	case kindLabel:
		return "label"
	case kindGoto:
		return "goto"
	case kindIfGoto:
		return "if-goto"
	case kindFunction:
		return "function"
	case kindCall:
		return "call"
	case kindReturn:
		return "return"
	default:
		return "unknown"
	}
}

func (i Instruction) IsArithmetic() bool { return i.kind == kindArithmetic }
func (i Instruction) IsPush() bool       { return i.kind == kindPush }
func (i Instruction) IsPop() bool        { return i.kind == kindPop }
func (i Instruction) IsLabel() bool      { return i.kind == kindLabel }
func (i Instruction) IsGoto() bool       { return i.kind == kindGoto }
func (i Instruction) IsIfGoto() bool     { return i.kind == kindIfGoto }
func (i Instruction) IsFunction() bool   { return i.kind == kindFunction }
func (i Instruction) IsCall() bool       { return i.kind == kindCall }
func (i Instruction) IsReturn() bool     { return i.kind == kindReturn }

func NewArithmetic(op ArithOp, source string) Instruction {
	return Instruction{kind: kindArithmetic, Op: op, SourceLine: source}
}

func NewPush(seg Segment, index int, source string) Instruction {
	return Instruction{kind: kindPush, Segment: seg, Index: index, SourceLine: source}
}

func NewPop(seg Segment, index int, source string) Instruction {
	return Instruction{kind: kindPop, Segment: seg, Index: index, SourceLine: source}
}

func NewLabel(name, source string) Instruction {
	return Instruction{kind: kindLabel, Name: name, SourceLine: source}
}

func NewGoto(name, source string) Instruction {
	return Instruction{kind: kindGoto, Name: name, SourceLine: source}
}

func NewIfGoto(name, source string) Instruction {
	return Instruction{kind: kindIfGoto, Name: name, SourceLine: source}
}

func NewFunction(name string, nVars int, source string) Instruction {
	return Instruction{kind: kindFunction, FuncName: name, NVars: nVars, SourceLine: source}
}

func NewCall(name string, nArgs int, source string) Instruction {
	return Instruction{kind: kindCall, FuncName: name, NArgs: nArgs, SourceLine: source}
}

func NewReturn(source string) Instruction {
	return Instruction{kind: kindReturn, SourceLine: source}
}

func (i Instruction) String() string {
	switch i.kind {
	case kindArithmetic:
		return string(i.Op)
	case kindPush:
		return fmt.Sprintf("push %s %d", i.Segment, i.Index)
	case kindPop:
		return fmt.Sprintf("pop %s %d", i.Segment, i.Index)
	case kindLabel:
		return fmt.Sprintf("label %s", i.Name)
	case kindGoto:
		return fmt.Sprintf("goto %s", i.Name)
	case kindIfGoto:
		return fmt.Sprintf("if-goto %s", i.Name)
	case kindFunction:
		return fmt.Sprintf("function %s %d", i.FuncName, i.NVars)
	case kindCall:
		return fmt.Sprintf("call %s %d", i.FuncName, i.NArgs)
	case kindReturn:
		return "return"
	default:
		return "<invalid instruction>"
	}
}

// TranslationUnit is the state a single VM file's translation carries
// (spec §3): its namespace for static symbols and comparison labels,
// the function currently enclosing emitted code, and the two
// monotonic counters that keep emitted labels unique.
type TranslationUnit struct {
	FileName        string
	CurrentFunction string

	labelCounter int
	callCounter  int
}

// NewTranslationUnit opens a fresh translation context for fileName.
// Counters start at zero and CurrentFunction is empty until the first
// Function instruction is translated.
func NewTranslationUnit(fileName string) *TranslationUnit {
	return &TranslationUnit{FileName: fileName}
}

// SetCurrentFunction is called by the emitter when translating a
// Function instruction; it is the only way CurrentFunction changes.
func (u *TranslationUnit) SetCurrentFunction(name string) {
	u.CurrentFunction = name
}

// NextLabelCount returns the next value of the comparison-label
// counter, incrementing it. One call backs a single comparison's
// TRUE/FALSE pair: both labels carry the same value.
func (u *TranslationUnit) NextLabelCount() int {
	u.labelCounter++
	return u.labelCounter
}

// NextCallCount returns the next value of the return-site counter,
// incrementing it.
func (u *TranslationUnit) NextCallCount() int {
	u.callCounter++
	return u.callCounter
}
