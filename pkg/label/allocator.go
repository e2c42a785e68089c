// Package label vends the two families of unique textual labels the
// emitter needs: comparison landing pads scoped to a translation
// unit's file name, and call return sites scoped to the enclosing
// function. State lives on the vminst.TranslationUnit itself (spec
// Design Notes: per-unit state, never a module global); Allocator is
// a thin, stateless view over it.
package label

import (
	"fmt"

	"github.com/schallis/hack-vm-translator/pkg/vminst"
)

// CompareKind distinguishes the two labels a single comparison needs.
type CompareKind string

const (
	True  CompareKind = "TRUE"
	False CompareKind = "FALSE"
)

// Allocator vends labels for a single TranslationUnit.
type Allocator struct {
	unit *vminst.TranslationUnit
}

// New returns an Allocator bound to unit's counters.
func New(unit *vminst.TranslationUnit) *Allocator {
	return &Allocator{unit: unit}
}

// ComparePair returns the TRUE and FALSE labels for one comparison
// instruction. Both share a single drawn counter value (spec §8
// scenario 3): the first eq/gt/lt in a file yields "<file>.TRUE.1"
// and "<file>.FALSE.1", the next "<file>.TRUE.2"/"<file>.FALSE.2".
func (a *Allocator) ComparePair() (trueLabel, falseLabel string) {
	n := a.unit.NextLabelCount()
	return fmt.Sprintf("%s.%s.%d", a.unit.FileName, True, n),
		fmt.Sprintf("%s.%s.%d", a.unit.FileName, False, n)
}

// ReturnLabel returns a fresh return-site label for a call to callee
// from the unit's current function, per spec §4.3:
// "<currentFunction>$<callee>$ret.<++callCounter>".
func (a *Allocator) ReturnLabel(callee string) string {
	n := a.unit.NextCallCount()
	return fmt.Sprintf("%s$%s$ret.%d", a.unit.CurrentFunction, callee, n)
}

// ScopedLabel qualifies a label/goto/if-goto operand to the unit's
// current function, per spec invariant 2: "<currentFunction>$X".
func ScopedLabel(unit *vminst.TranslationUnit, name string) string {
	return fmt.Sprintf("%s$%s", unit.CurrentFunction, name)
}
