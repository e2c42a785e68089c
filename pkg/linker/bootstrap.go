// Package linker assembles the per-file translations of a directory
// into a single Hack assembly program (spec §4.6), prepending the
// bootstrap preamble when one is requested.
package linker

import (
	"github.com/schallis/hack-vm-translator/pkg/asm"
	"github.com/schallis/hack-vm-translator/pkg/codegen"
	"github.com/schallis/hack-vm-translator/pkg/vminst"
)

// Bootstrap emits "SP := 256" followed by a synthetic call to
// entryPoint (spec §4.6 step 1). It runs under its own
// TranslationUnit, named "bootstrap". The bootstrap fragment emits no
// static references and no comparison labels, so that name never
// appears in the output and cannot clash with a VM file's stem. Sys.init
// never returns, so the call's return-site label is dead code, but it
// must still be syntactically well-formed and unique.
func Bootstrap(entryPoint string) []asm.Line {
	unit := vminst.NewTranslationUnit("bootstrap")
	emitter := codegen.New(unit)

	lines := []asm.Line{
		asm.Cmt("bootstrap"),
		asm.A("256"), asm.C("D", "A", ""),
		asm.A("SP"), asm.C("M", "D", ""),
	}

	// Translate emits its own "// call ..." comment ahead of the
	// fragment; we don't need a second one here.
	callLines, err := emitter.Translate(vminst.NewCall(entryPoint, 0, "call "+entryPoint+" 0"))
	if err != nil {
		// Bootstrap's call instruction is built from a fixed template:
		// it cannot fail through the ordinary parse/range validation
		// paths, so a failure here means the emitter itself is broken.
		panic("linker: bootstrap call failed to translate: " + err.Error())
	}

	return append(lines, callLines...)
}
