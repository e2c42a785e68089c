package asm

import (
	"fmt"
	"io"
)

// Printer renders a Program as Hack assembly text (spec §6): one
// instruction per line, "@value" / "dest=comp;jump" / "(NAME)" forms,
// source comments reproduced verbatim ahead of the code they came
// from.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintProgram writes every line of prog, each terminated with a
// newline.
func (p *Printer) PrintProgram(prog *Program) error {
	for _, line := range prog.Lines {
		if err := p.printLine(line); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printLine(line Line) error {
	switch l := line.(type) {
	case AInstruction:
		_, err := fmt.Fprintf(p.w, "@%s\n", l.Value)
		return err
	case CInstruction:
		_, err := fmt.Fprintf(p.w, "%s\n", formatC(l))
		return err
	case LabelDef:
		_, err := fmt.Fprintf(p.w, "(%s)\n", l.Name)
		return err
	case Comment:
		_, err := fmt.Fprintf(p.w, "// %s\n", l.Text)
		return err
	case Blank:
		_, err := fmt.Fprintf(p.w, "\n")
		return err
	default:
		return fmt.Errorf("asm: unrecognized line type %T", line)
	}
}

func formatC(c CInstruction) string {
	text := c.Comp
	if c.Dest != "" {
		text = c.Dest + "=" + text
	}
	if c.Jump != "" {
		text = text + ";" + c.Jump
	}
	return text
}
