// Package parser classifies one already-lexed VM source line into a
// vminst.Instruction (spec §4.2), using goparsec combinators over the
// line's tokens (pkg/parser/grammar.go) and then walking the resulting
// AST node into the tagged instruction value pkg/codegen consumes.
//
// Grounded on its-hmny's pkg/vm/parsing.go: the same grammar shape and
// the same "switch on node name, recurse into children" AST walk, run
// once per lexer.Line instead of once per whole file.
package parser

import (
	"fmt"
	"strconv"

	pc "github.com/prataprc/goparsec"

	"github.com/schallis/hack-vm-translator/pkg/lexer"
	"github.com/schallis/hack-vm-translator/pkg/vmerr"
	"github.com/schallis/hack-vm-translator/pkg/vminst"
)

// Parse classifies line into an Instruction. unit supplies the file
// name used in any vmerr diagnostic.
func Parse(unit *vminst.TranslationUnit, line lexer.Line) (vminst.Instruction, error) {
	root, _ := ast.Parsewith(pLine, pc.NewScanner([]byte(line.Text)))
	if root == nil || root.GetName() != "line" {
		return vminst.Instruction{}, vmerr.NewParseError(unit.FileName, line.Number, line.Text, "unrecognized command")
	}

	children := root.GetChildren()
	if len(children) == 0 {
		return vminst.Instruction{}, vmerr.NewParseError(unit.FileName, line.Number, line.Text, "unrecognized command")
	}

	node := children[0]
	switch node.GetName() {
	case "memory_op":
		return handleMemoryOp(unit, line, node)
	case "arithmetic_op":
		return handleArithmeticOp(unit, line, node)
	case "label_decl":
		return handleLabelDecl(unit, line, node)
	case "goto_op":
		return handleGotoOp(unit, line, node)
	case "func_decl":
		return handleFuncDecl(unit, line, node)
	case "func_call":
		return handleFuncCall(unit, line, node)
	case "return_op":
		return vminst.NewReturn(line.Text), nil
	default:
		return vminst.Instruction{}, vmerr.NewParseError(unit.FileName, line.Number, line.Text, "unrecognized command")
	}
}

var segmentByKeyword = map[string]vminst.Segment{
	"constant": vminst.Constant, "local": vminst.Local, "argument": vminst.Argument,
	"this": vminst.This, "that": vminst.That, "temp": vminst.Temp,
	"pointer": vminst.Pointer, "static": vminst.Static,
}

var arithOpByKeyword = map[string]vminst.ArithOp{
	"add": vminst.Add, "sub": vminst.Sub, "neg": vminst.Neg,
	"eq": vminst.Eq, "gt": vminst.Gt, "lt": vminst.Lt,
	"and": vminst.And, "or": vminst.Or, "not": vminst.Not,
}

func handleMemoryOp(unit *vminst.TranslationUnit, line lexer.Line, node pc.Queryable) (vminst.Instruction, error) {
	kids := node.GetChildren()
	if len(kids) != 3 {
		return vminst.Instruction{}, vmerr.NewParseError(unit.FileName, line.Number, line.Text, "malformed push/pop")
	}

	verb := kids[0].GetValue()
	seg, ok := segmentByKeyword[kids[1].GetValue()]
	if !ok {
		return vminst.Instruction{}, vmerr.NewParseError(unit.FileName, line.Number, line.Text, "unknown segment")
	}
	index, err := parseIndex(unit, line, kids[2].GetValue())
	if err != nil {
		return vminst.Instruction{}, err
	}
	if index < 0 {
		return vminst.Instruction{}, vmerr.NewOperandRangeError(unit.FileName, line.Number, line.Text, "index must not be negative")
	}
	if seg == vminst.Constant && verb == "pop" {
		return vminst.Instruction{}, vmerr.NewParseError(unit.FileName, line.Number, line.Text, "cannot pop into the constant segment")
	}

	switch verb {
	case "push":
		return vminst.NewPush(seg, index, line.Text), nil
	case "pop":
		return vminst.NewPop(seg, index, line.Text), nil
	default:
		return vminst.Instruction{}, vmerr.NewParseError(unit.FileName, line.Number, line.Text, "unknown memory verb")
	}
}

func handleArithmeticOp(unit *vminst.TranslationUnit, line lexer.Line, node pc.Queryable) (vminst.Instruction, error) {
	kids := node.GetChildren()
	if len(kids) != 1 {
		return vminst.Instruction{}, vmerr.NewParseError(unit.FileName, line.Number, line.Text, "malformed arithmetic command")
	}
	op, ok := arithOpByKeyword[kids[0].GetValue()]
	if !ok {
		return vminst.Instruction{}, vmerr.NewParseError(unit.FileName, line.Number, line.Text, "unknown arithmetic command")
	}
	return vminst.NewArithmetic(op, line.Text), nil
}

func handleLabelDecl(unit *vminst.TranslationUnit, line lexer.Line, node pc.Queryable) (vminst.Instruction, error) {
	kids := node.GetChildren()
	if len(kids) != 2 {
		return vminst.Instruction{}, vmerr.NewParseError(unit.FileName, line.Number, line.Text, "malformed label")
	}
	return vminst.NewLabel(kids[1].GetValue(), line.Text), nil
}

func handleGotoOp(unit *vminst.TranslationUnit, line lexer.Line, node pc.Queryable) (vminst.Instruction, error) {
	kids := node.GetChildren()
	if len(kids) != 2 {
		return vminst.Instruction{}, vmerr.NewParseError(unit.FileName, line.Number, line.Text, "malformed goto")
	}
	name := kids[1].GetValue()
	if kids[0].GetValue() == "if-goto" {
		return vminst.NewIfGoto(name, line.Text), nil
	}
	return vminst.NewGoto(name, line.Text), nil
}

func handleFuncDecl(unit *vminst.TranslationUnit, line lexer.Line, node pc.Queryable) (vminst.Instruction, error) {
	kids := node.GetChildren()
	if len(kids) != 3 {
		return vminst.Instruction{}, vmerr.NewParseError(unit.FileName, line.Number, line.Text, "malformed function declaration")
	}
	name := kids[1].GetValue()
	nVars, err := parseIndex(unit, line, kids[2].GetValue())
	if err != nil {
		return vminst.Instruction{}, err
	}
	if nVars < 0 {
		return vminst.Instruction{}, vmerr.NewOperandRangeError(unit.FileName, line.Number, line.Text, "local variable count must not be negative")
	}
	return vminst.NewFunction(name, nVars, line.Text), nil
}

func handleFuncCall(unit *vminst.TranslationUnit, line lexer.Line, node pc.Queryable) (vminst.Instruction, error) {
	kids := node.GetChildren()
	if len(kids) != 3 {
		return vminst.Instruction{}, vmerr.NewParseError(unit.FileName, line.Number, line.Text, "malformed call")
	}
	name := kids[1].GetValue()
	nArgs, err := parseIndex(unit, line, kids[2].GetValue())
	if err != nil {
		return vminst.Instruction{}, err
	}
	if nArgs < 0 {
		return vminst.Instruction{}, vmerr.NewOperandRangeError(unit.FileName, line.Number, line.Text, "argument count must not be negative")
	}
	return vminst.NewCall(name, nArgs, line.Text), nil
}

func parseIndex(unit *vminst.TranslationUnit, line lexer.Line, text string) (int, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, vmerr.NewParseError(unit.FileName, line.Number, line.Text, fmt.Sprintf("expected an integer operand, got %q", text))
	}
	return n, nil
}
