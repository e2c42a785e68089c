// Package codegen transforms vminst.Instruction values into Hack
// assembly (spec §4.4-§4.5). It is the direct descendant of the
// teacher's Mach-to-ARM64 lowering pass: a per-unit context carrying
// mutable state, and a switch dispatching each tagged instruction to
// the fragment of assembly it lowers to.
//
// The concrete assembly fragments are grounded on yair-naor's
// VM_to_ASM.go: the same push/pop templates per segment, the same
// add/sub/and/or/neg/not one-liners, the same eq/gt/lt
// compare-then-branch shape, and the same Return sequence that caches
// the return address in R13 before the argument-zero slot is
// overwritten.
package codegen

import (
	"fmt"

	"github.com/schallis/hack-vm-translator/pkg/asm"
	"github.com/schallis/hack-vm-translator/pkg/label"
	"github.com/schallis/hack-vm-translator/pkg/vmerr"
	"github.com/schallis/hack-vm-translator/pkg/vminst"
)

// segmentBase names the RAM-pointer symbol backing a push/pop segment
// that is accessed indirectly (base + index).
var segmentBase = map[vminst.Segment]string{
	vminst.Local:    "LCL",
	vminst.Argument: "ARG",
	vminst.This:     "THIS",
	vminst.That:     "THAT",
}

var compareJump = map[vminst.ArithOp]string{
	vminst.Eq: "JEQ",
	vminst.Gt: "JGT",
	vminst.Lt: "JLT",
}

// Emitter lowers the instructions of a single translation unit into
// assembly. State (current function, label/call counters) lives on
// the bound vminst.TranslationUnit, not on the Emitter itself, so a
// unit's state survives being handed between multiple packages (the
// linker constructs one Emitter per file).
type Emitter struct {
	unit  *vminst.TranslationUnit
	alloc *label.Allocator
}

// New returns an Emitter bound to unit.
func New(unit *vminst.TranslationUnit) *Emitter {
	return &Emitter{unit: unit, alloc: label.New(unit)}
}

// Translate lowers a single instruction to its assembly fragment,
// prefixed with a comment reproducing the VM source line it came from
// (spec Design Notes, grounded on the original CodeWriter's behavior).
func (e *Emitter) Translate(inst vminst.Instruction) ([]asm.Line, error) {
	lines := []asm.Line{asm.Cmt(inst.SourceLine)}

	var body []asm.Line
	var err error
	switch {
	case inst.IsArithmetic():
		body, err = e.translateArithmetic(inst)
	case inst.IsPush():
		body, err = e.translatePush(inst)
	case inst.IsPop():
		body, err = e.translatePop(inst)
	case inst.IsLabel():
		body = e.translateLabel(inst)
	case inst.IsGoto():
		body = e.translateGoto(inst)
	case inst.IsIfGoto():
		body = e.translateIfGoto(inst)
	case inst.IsFunction():
		body = e.translateFunction(inst)
	case inst.IsCall():
		body = e.translateCall(inst)
	case inst.IsReturn():
		body = e.translateReturn()
	default:
		return nil, fmt.Errorf("codegen: instruction with unrecognized kind %q", inst.Kind())
	}
	if err != nil {
		return nil, err
	}
	return append(lines, body...), nil
}

func (e *Emitter) translateArithmetic(inst vminst.Instruction) ([]asm.Line, error) {
	if inst.Op.IsComparison() {
		return e.translateComparison(inst), nil
	}
	switch inst.Op {
	case vminst.Add:
		return popBinaryToTop("D+M"), nil
	case vminst.Sub:
		return popBinaryToTop("M-D"), nil
	case vminst.And:
		return popBinaryToTop("D&M"), nil
	case vminst.Or:
		return popBinaryToTop("D|M"), nil
	case vminst.Neg:
		return unaryInPlace("-M"), nil
	case vminst.Not:
		return unaryInPlace("!M"), nil
	default:
		return nil, fmt.Errorf("codegen: unrecognized arithmetic op %q", inst.Op)
	}
}

// popBinaryToTop pops the top value into D, then combines it with the
// new top-of-stack value via comp (which must reference D and M), in
// place. comp is e.g. "D+M" for add, "M-D" for sub (order matters:
// the popped value is the right-hand operand the VM specifies last).
func popBinaryToTop(comp string) []asm.Line {
	return []asm.Line{
		asm.A("SP"), asm.C("AM", "M-1", ""),
		asm.C("D", "M", ""),
		asm.C("A", "A-1", ""),
		asm.C("M", comp, ""),
	}
}

func unaryInPlace(comp string) []asm.Line {
	return []asm.Line{
		asm.A("SP"), asm.C("A", "M-1", ""),
		asm.C("M", comp, ""),
	}
}

func (e *Emitter) translateComparison(inst vminst.Instruction) []asm.Line {
	trueLabel, falseLabel := e.alloc.ComparePair()
	jump := compareJump[inst.Op]
	return []asm.Line{
		asm.A("SP"), asm.C("AM", "M-1", ""),
		asm.C("D", "M", ""),
		asm.C("A", "A-1", ""),
		asm.C("D", "M-D", ""),
		asm.A(trueLabel), asm.C("", "D", jump),
		asm.A("SP"), asm.C("A", "M-1", ""),
		asm.C("M", "0", ""),
		asm.A(falseLabel), asm.C("", "0", "JMP"),
		asm.L(trueLabel),
		asm.A("SP"), asm.C("A", "M-1", ""),
		asm.C("M", "-1", ""),
		asm.L(falseLabel),
	}
}

func (e *Emitter) translatePush(inst vminst.Instruction) ([]asm.Line, error) {
	var loadD []asm.Line
	switch inst.Segment {
	case vminst.Constant:
		loadD = []asm.Line{asm.A(fmt.Sprintf("%d", inst.Index)), asm.C("D", "A", "")}
	case vminst.Local, vminst.Argument, vminst.This, vminst.That:
		loadD = indirectLoad(segmentBase[inst.Segment], inst.Index)
	case vminst.Temp:
		loadD = []asm.Line{asm.A(fmt.Sprintf("R%d", 5+inst.Index)), asm.C("D", "M", "")}
	case vminst.Pointer:
		sym, err := pointerSymbol(inst.Index)
		if err != nil {
			return nil, err
		}
		loadD = []asm.Line{asm.A(sym), asm.C("D", "M", "")}
	case vminst.Static:
		loadD = []asm.Line{asm.A(fmt.Sprintf("%s.%d", e.unit.FileName, inst.Index)), asm.C("D", "M", "")}
	default:
		return nil, fmt.Errorf("codegen: unrecognized segment %q", inst.Segment)
	}
	return append(loadD, pushD()...), nil
}

func (e *Emitter) translatePop(inst vminst.Instruction) ([]asm.Line, error) {
	switch inst.Segment {
	case vminst.Local, vminst.Argument, vminst.This, vminst.That:
		return indirectStore(segmentBase[inst.Segment], inst.Index), nil
	case vminst.Temp:
		return []asm.Line{
			asm.A("SP"), asm.C("AM", "M-1", ""),
			asm.C("D", "M", ""),
			asm.A(fmt.Sprintf("R%d", 5+inst.Index)),
			asm.C("M", "D", ""),
		}, nil
	case vminst.Pointer:
		sym, err := pointerSymbol(inst.Index)
		if err != nil {
			return nil, err
		}
		return []asm.Line{
			asm.A("SP"), asm.C("AM", "M-1", ""),
			asm.C("D", "M", ""),
			asm.A(sym), asm.C("M", "D", ""),
		}, nil
	case vminst.Static:
		return []asm.Line{
			asm.A("SP"), asm.C("AM", "M-1", ""),
			asm.C("D", "M", ""),
			asm.A(fmt.Sprintf("%s.%d", e.unit.FileName, inst.Index)),
			asm.C("M", "D", ""),
		}, nil
	case vminst.Constant:
		return nil, vmerr.NewParseError(e.unit.FileName, 0, inst.SourceLine, "cannot pop into the constant segment")
	default:
		return nil, fmt.Errorf("codegen: unrecognized segment %q", inst.Segment)
	}
}

func pointerSymbol(index int) (string, error) {
	switch index {
	case 0:
		return "THIS", nil
	case 1:
		return "THAT", nil
	default:
		return "", fmt.Errorf("codegen: pointer index must be 0 or 1, got %d", index)
	}
}

// indirectLoad loads RAM[*base + index] into D.
func indirectLoad(base string, index int) []asm.Line {
	return []asm.Line{
		asm.A(base), asm.C("D", "M", ""),
		asm.A(fmt.Sprintf("%d", index)), asm.C("A", "D+A", ""),
		asm.C("D", "M", ""),
	}
}

// indirectStore pops the top of the stack into RAM[*base + index].
func indirectStore(base string, index int) []asm.Line {
	return []asm.Line{
		asm.A(base), asm.C("D", "M", ""),
		asm.A(fmt.Sprintf("%d", index)), asm.C("D", "D+A", ""),
		asm.A("R13"), asm.C("M", "D", ""),
		asm.A("SP"), asm.C("AM", "M-1", ""),
		asm.C("D", "M", ""),
		asm.A("R13"), asm.C("A", "M", ""),
		asm.C("M", "D", ""),
	}
}

// pushD pushes the current value of D onto the stack.
func pushD() []asm.Line {
	return []asm.Line{
		asm.A("SP"), asm.C("A", "M", ""),
		asm.C("M", "D", ""),
		asm.A("SP"), asm.C("M", "M+1", ""),
	}
}

func (e *Emitter) translateLabel(inst vminst.Instruction) []asm.Line {
	return []asm.Line{asm.L(label.ScopedLabel(e.unit, inst.Name))}
}

func (e *Emitter) translateGoto(inst vminst.Instruction) []asm.Line {
	return []asm.Line{
		asm.A(label.ScopedLabel(e.unit, inst.Name)),
		asm.C("", "0", "JMP"),
	}
}

func (e *Emitter) translateIfGoto(inst vminst.Instruction) []asm.Line {
	return []asm.Line{
		asm.A("SP"), asm.C("AM", "M-1", ""),
		asm.C("D", "M", ""),
		asm.A(label.ScopedLabel(e.unit, inst.Name)),
		asm.C("", "D", "JNE"),
	}
}

func (e *Emitter) translateFunction(inst vminst.Instruction) []asm.Line {
	e.unit.SetCurrentFunction(inst.FuncName)

	lines := []asm.Line{asm.L(inst.FuncName)}
	for i := 0; i < inst.NVars; i++ {
		lines = append(lines,
			asm.A("SP"), asm.C("A", "M", ""),
			asm.C("M", "0", ""),
			asm.A("SP"), asm.C("M", "M+1", ""),
		)
	}
	return lines
}

func (e *Emitter) translateCall(inst vminst.Instruction) []asm.Line {
	returnLabel := e.alloc.ReturnLabel(inst.FuncName)

	var lines []asm.Line
	// Push the return address.
	lines = append(lines,
		asm.A(returnLabel), asm.C("D", "A", ""),
	)
	lines = append(lines, pushD()...)
	// Push the caller's LCL, ARG, THIS, THAT.
	for _, seg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		lines = append(lines, asm.A(seg), asm.C("D", "M", ""))
		lines = append(lines, pushD()...)
	}
	// ARG = SP - nArgs - 5
	lines = append(lines,
		asm.A("SP"), asm.C("D", "M", ""),
		asm.A(fmt.Sprintf("%d", inst.NArgs)), asm.C("D", "D-A", ""),
		asm.A("5"), asm.C("D", "D-A", ""),
		asm.A("ARG"), asm.C("M", "D", ""),
	)
	// LCL = SP
	lines = append(lines,
		asm.A("SP"), asm.C("D", "M", ""),
		asm.A("LCL"), asm.C("M", "D", ""),
	)
	// goto callee; (returnLabel)
	lines = append(lines,
		asm.A(inst.FuncName), asm.C("", "0", "JMP"),
		asm.L(returnLabel),
	)
	return lines
}

func (e *Emitter) translateReturn() []asm.Line {
	return []asm.Line{
		// R13 = return address, cached before *ARG is overwritten: a
		// zero-argument call leaves ARG pointing at LCL-5, the exact
		// slot this read comes from, so the order here is load-bearing.
		asm.A("LCL"), asm.C("D", "M", ""),
		asm.A("5"), asm.C("A", "D-A", ""),
		asm.C("D", "M", ""),
		asm.A("R13"), asm.C("M", "D", ""),
		// *ARG = pop()
		asm.A("SP"), asm.C("AM", "M-1", ""),
		asm.C("D", "M", ""),
		asm.A("ARG"), asm.C("A", "M", ""),
		asm.C("M", "D", ""),
		// SP = ARG + 1
		asm.A("ARG"), asm.C("D", "M+1", ""),
		asm.A("SP"), asm.C("M", "D", ""),
		// THAT, THIS, ARG, LCL unwound from the callee's LCL downward.
		asm.A("LCL"), asm.C("AM", "M-1", ""),
		asm.C("D", "M", ""),
		asm.A("THAT"), asm.C("M", "D", ""),
		asm.A("LCL"), asm.C("AM", "M-1", ""),
		asm.C("D", "M", ""),
		asm.A("THIS"), asm.C("M", "D", ""),
		asm.A("LCL"), asm.C("AM", "M-1", ""),
		asm.C("D", "M", ""),
		asm.A("ARG"), asm.C("M", "D", ""),
		asm.A("LCL"), asm.C("A", "M-1", ""),
		asm.C("D", "M", ""),
		asm.A("LCL"), asm.C("M", "D", ""),
		// goto RET
		asm.A("R13"), asm.C("A", "M", ""),
		asm.C("", "0", "JMP"),
	}
}
