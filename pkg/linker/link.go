package linker

import (
	"github.com/schallis/hack-vm-translator/pkg/asm"
	"github.com/schallis/hack-vm-translator/pkg/codegen"
	"github.com/schallis/hack-vm-translator/pkg/vminst"
)

// FileUnit is one VM file's parsed instructions, ready to be emitted
// under its own TranslationUnit.
type FileUnit struct {
	// Stem is the file name without its .vm suffix; it seeds the
	// TranslationUnit's static-segment namespace.
	Stem         string
	Instructions []vminst.Instruction
}

// Options controls Link's bootstrap behavior (spec §4.6, AMBIENT STACK
// Configuration section: hackvm.yaml / --no-bootstrap).
type Options struct {
	EntryPoint string
	Bootstrap  bool
}

// Link concatenates units into a single assembly program, in the
// order given — callers that need deterministic multi-file output
// (spec §4.6 step 2) sort units before calling Link, since directory
// iteration order is not otherwise stable. Each unit's translation is
// preceded by a "// Translating <stem>" comment.
func Link(units []FileUnit, opts Options) (*asm.Program, error) {
	prog := &asm.Program{}

	if opts.Bootstrap {
		prog.Append(Bootstrap(opts.EntryPoint)...)
	}

	for _, u := range units {
		unit := vminst.NewTranslationUnit(u.Stem)
		emitter := codegen.New(unit)

		prog.Append(asm.Cmt("Translating " + u.Stem))
		for _, inst := range u.Instructions {
			lines, err := emitter.Translate(inst)
			if err != nil {
				return nil, err
			}
			prog.Append(lines...)
		}
	}

	return prog, nil
}
