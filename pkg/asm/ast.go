// Package asm defines the Hack assembly representation (spec §6).
// This is the final output of the translator: a flat sequence of
// A-instructions, C-instructions, label definitions, comments, and
// blank lines, in emission order.
package asm

// Line is the interface every Hack assembly line implements.
type Line interface {
	implLine()
}

// AInstruction is an "@value" line. Value is either a decimal constant
// ("0", "16384") or a symbol ("SP", "R13", "Main.TRUE.1") printed as
// is; this package never assigns symbol addresses itself, that is left
// to the Hack assembler (spec Non-goals: no symbol table/assembler).
type AInstruction struct {
	Value string
}

// CInstruction is a "dest=comp;jump" line. Dest and Jump are empty
// when the corresponding field is absent from the source text (e.g.
// "0;JMP" has no Dest, "D=A" has no Jump).
type CInstruction struct {
	Dest string
	Comp string
	Jump string
}

// LabelDef is a "(NAME)" line introducing a jump target.
type LabelDef struct {
	Name string
}

// Comment is a "// text" line with no code, carrying the original VM
// source line the following instructions were emitted for.
type Comment struct {
	Text string
}

// Blank is an empty line, used the way the teacher's code uses one to
// separate emitted instruction groups for readability.
type Blank struct{}

func (AInstruction) implLine() {}
func (CInstruction) implLine() {}
func (LabelDef) implLine()     {}
func (Comment) implLine()      {}
func (Blank) implLine()        {}

// A builds an A-instruction from a decimal constant or a symbol.
func A(value string) AInstruction { return AInstruction{Value: value} }

// C builds a C-instruction. Either dest or jump may be "".
func C(dest, comp, jump string) CInstruction {
	return CInstruction{Dest: dest, Comp: comp, Jump: jump}
}

// L builds a label definition.
func L(name string) LabelDef { return LabelDef{Name: name} }

// Cmt builds a source comment line.
func Cmt(text string) Comment { return Comment{Text: text} }

// Program is an ordered sequence of assembly lines.
type Program struct {
	Lines []Line
}

// Append appends lines to the program, in order.
func (p *Program) Append(lines ...Line) {
	p.Lines = append(p.Lines, lines...)
}
