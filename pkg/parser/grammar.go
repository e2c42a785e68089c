package parser

import (
	pc "github.com/prataprc/goparsec"
)

// Parser combinators for a single VM instruction line.
//
// Grounded on the nand2tetris VM grammar of its-hmny's
// pkg/vm/parsing.go: the same shape (pMemoryOp, pArithmeticOp,
// pLabelDecl, pGotoOp, pFuncDecl, pFuncCallOp, pReturnOp composed with
// ast.OrdChoice) but run once per already-lexed line rather than
// ManyUntil over a whole file — pkg/lexer already did the line
// splitting and comment/blank stripping (spec §4.1), so the grammar
// here only needs to classify and validate one line at a time (spec
// §4.2).
var ast = pc.NewAST("vm_instruction", 0)

var (
	// pLine anchors one classified instruction to the end of the
	// line's scanner, so "push constant 7 junk" fails instead of
	// silently matching its first three tokens.
	pLine = ast.And("line", nil, pInstruction, pc.End())

	pInstruction = ast.OrdChoice("instruction", nil,
		pMemoryOp, pArithmeticOp, pLabelDecl, pGotoOp,
		pFuncDecl, pFuncCallOp, pReturnOp,
	)

	// push/pop <segment> <index>
	pMemoryOp = ast.And("memory_op", nil, pMemOpKeyword, pSegment, pc.Int())

	// one of the nine zero-operand opcodes
	pArithmeticOp = ast.And("arithmetic_op", nil, pArithKeyword)

	// label <name>
	pLabelDecl = ast.And("label_decl", nil, pc.Atom("label", "LABEL"), pIdent)

	// goto <name> / if-goto <name>
	pGotoOp = ast.And("goto_op", nil, pJumpKeyword, pIdent)

	// function <name> <nVars>
	pFuncDecl = ast.And("func_decl", nil, pc.Atom("function", "FUNCTION"), pIdent, pc.Int())

	// call <name> <nArgs>
	pFuncCallOp = ast.And("func_call", nil, pc.Atom("call", "CALL"), pIdent, pc.Int())

	// return
	pReturnOp = ast.And("return_op", nil, pc.Atom("return", "RETURN"))
)

var (
	// Identifiers: VM function/label names may contain letters,
	// digits, '_', '.', '$', ':' and may not start with a digit
	// (spec §6).
	pIdent = pc.Token(`[A-Za-z_.$:][0-9A-Za-z_.$:]*`, "IDENT")

	pMemOpKeyword = ast.OrdChoice("mem_op", nil, pc.Atom("push", "PUSH"), pc.Atom("pop", "POP"))

	pSegment = ast.OrdChoice("segment", nil,
		pc.Atom("constant", "CONSTANT"), pc.Atom("local", "LOCAL"),
		pc.Atom("argument", "ARGUMENT"), pc.Atom("this", "THIS"),
		pc.Atom("that", "THAT"), pc.Atom("temp", "TEMP"),
		pc.Atom("pointer", "POINTER"), pc.Atom("static", "STATIC"),
	)

	pArithKeyword = ast.OrdChoice("arith_op", nil,
		pc.Atom("add", "ADD"), pc.Atom("sub", "SUB"), pc.Atom("neg", "NEG"),
		pc.Atom("eq", "EQ"), pc.Atom("gt", "GT"), pc.Atom("lt", "LT"),
		pc.Atom("and", "AND"), pc.Atom("or", "OR"), pc.Atom("not", "NOT"),
	)

	pJumpKeyword = ast.OrdChoice("jump_op", nil, pc.Atom("if-goto", "IF-GOTO"), pc.Atom("goto", "GOTO"))
)
