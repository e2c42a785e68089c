// Package lexer strips comments and whitespace from VM source text
// and splits each remaining line into a token vector, one per VM
// instruction (spec §4.1). It performs no validation beyond that —
// classifying a token vector into an instruction is pkg/parser's job.
package lexer

import (
	"bufio"
	"io"
	"strings"
)

// Line is one non-blank, non-comment VM source line: its 1-based line
// number, its trimmed text (for diagnostics and the emitter's
// source-line comment), and its whitespace-split tokens.
type Line struct {
	Number int
	Text   string
	Tokens []string
}

// Lexer produces a lazy sequence of Lines from an underlying reader.
type Lexer struct {
	scanner *bufio.Scanner
	lineNo  int
}

// New wraps r for line-by-line lexing.
func New(r io.Reader) *Lexer {
	return &Lexer{scanner: bufio.NewScanner(r)}
}

// Next returns the next non-blank, non-comment line, or ok=false at
// EOF. Call Err after Next returns false to distinguish EOF from a
// read failure.
func (l *Lexer) Next() (line Line, ok bool) {
	for l.scanner.Scan() {
		l.lineNo++
		text := strings.TrimSpace(l.scanner.Text())
		if text == "" || strings.HasPrefix(text, "//") {
			continue
		}
		return Line{Number: l.lineNo, Text: text, Tokens: strings.Fields(text)}, true
	}
	return Line{}, false
}

// Err reports the underlying scanner's error, if any.
func (l *Lexer) Err() error { return l.scanner.Err() }

// All drains the lexer into a slice. Convenience for callers that
// don't need streaming (small VM files; directories are linked file
// by file, not instruction by instruction).
func All(r io.Reader) ([]Line, error) {
	lx := New(r)
	var lines []Line
	for {
		ln, ok := lx.Next()
		if !ok {
			break
		}
		lines = append(lines, ln)
	}
	return lines, lx.Err()
}
