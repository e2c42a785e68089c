// Package driver resolves a translation target (file or directory),
// runs the lexer/parser/codegen/linker pipeline over it, and writes
// the resulting assembly to the path spec §4.7/§6 mandates.
package driver

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/schallis/hack-vm-translator/pkg/asm"
	"github.com/schallis/hack-vm-translator/pkg/config"
	"github.com/schallis/hack-vm-translator/pkg/lexer"
	"github.com/schallis/hack-vm-translator/pkg/linker"
	"github.com/schallis/hack-vm-translator/pkg/parser"
	"github.com/schallis/hack-vm-translator/pkg/vmerr"
	"github.com/schallis/hack-vm-translator/pkg/vminst"
)

// Options carries the CLI's dump flags and bootstrap override through
// to the pipeline (AMBIENT STACK: CLI section).
type Options struct {
	// NoBootstrap forces Bootstrap off regardless of hackvm.yaml,
	// mirroring --no-bootstrap.
	NoBootstrap bool

	// DumpTokens, when set, is called with each file's lexed lines.
	DumpTokens func(fileName string, lines []lexer.Line)

	// DumpIR, when set, is called with each file's parsed
	// instructions.
	DumpIR func(fileName string, instructions []vminst.Instruction)

	// DryRun renders the assembly without writing it to disk, for
	// --dump-tokens/--dump-ir: those flags print an earlier stage and
	// exit, never producing a translation artifact.
	DryRun bool
}

// Result is what a successful Translate produced.
type Result struct {
	// OutputPath is where the assembly was written.
	OutputPath string
	// Assembly is the full rendered text, for --dump-asm.
	Assembly string
}

// Driver runs the translation pipeline against an afero filesystem, so
// it can be exercised in tests without touching disk.
type Driver struct {
	FS afero.Fs
}

// New returns a Driver bound to fs.
func New(fs afero.Fs) *Driver {
	return &Driver{FS: fs}
}

// Translate resolves inputPath as file-vs-directory mode (spec §4.7),
// runs the pipeline, and writes the assembly to the mandated output
// path. On any failure, a partially written output file is removed
// rather than left in an undefined state (spec §5).
func (d *Driver) Translate(inputPath string, opts Options) (Result, error) {
	info, statErr := d.FS.Stat(inputPath)
	if statErr != nil {
		return Result{}, vmerr.NewIoError("stat", inputPath, statErr)
	}

	var result Result
	var err error
	if info.IsDir() {
		result, err = d.translateDirectory(inputPath, opts)
	} else {
		result, err = d.translateFile(inputPath, opts)
	}
	if err != nil {
		if result.OutputPath != "" {
			_ = d.FS.Remove(result.OutputPath)
		}
		return Result{}, err
	}
	return result, nil
}

func (d *Driver) translateFile(inputPath string, opts Options) (Result, error) {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	instructions, err := d.readAndParse(inputPath, stem, opts)
	if err != nil {
		return Result{}, err
	}

	units := []linker.FileUnit{{Stem: stem, Instructions: instructions}}
	prog, err := linker.Link(units, linker.Options{Bootstrap: false})
	if err != nil {
		return Result{}, err
	}

	outputPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".asm"
	return d.writeProgram(outputPath, prog, opts)
}

func (d *Driver) translateDirectory(dirPath string, opts Options) (Result, error) {
	cfg, err := config.Load(d.FS, dirPath)
	if err != nil {
		return Result{}, err
	}
	bootstrap := cfg.Bootstrap && !opts.NoBootstrap

	entries, err := afero.ReadDir(d.FS, dirPath)
	if err != nil {
		return Result{}, vmerr.NewIoError("read", dirPath, err)
	}

	var stems []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".vm" {
			continue
		}
		stems = append(stems, strings.TrimSuffix(entry.Name(), ".vm"))
	}
	// Directory iteration order is not guaranteed stable by the
	// underlying filesystem (spec §4.6 step 2: "order is not otherwise
	// specified but must be stable within one run"); lexicographic
	// sort is our choice for that stability, not inherited from any
	// external tool.
	sort.Strings(stems)

	units := make([]linker.FileUnit, 0, len(stems))
	for _, stem := range stems {
		path := filepath.Join(dirPath, stem+".vm")
		instructions, err := d.readAndParse(path, stem, opts)
		if err != nil {
			return Result{}, err
		}
		units = append(units, linker.FileUnit{Stem: stem, Instructions: instructions})
	}

	prog, err := linker.Link(units, linker.Options{EntryPoint: cfg.EntryPoint, Bootstrap: bootstrap})
	if err != nil {
		return Result{}, err
	}

	dirName := filepath.Base(filepath.Clean(dirPath))
	outputPath := filepath.Join(dirPath, dirName+".asm")
	return d.writeProgram(outputPath, prog, opts)
}

func (d *Driver) readAndParse(path, stem string, opts Options) ([]vminst.Instruction, error) {
	f, err := d.FS.Open(path)
	if err != nil {
		return nil, vmerr.NewIoError("open", path, err)
	}
	defer f.Close()

	lines, err := lexer.All(f)
	if err != nil {
		return nil, vmerr.NewIoError("read", path, err)
	}
	if opts.DumpTokens != nil {
		opts.DumpTokens(stem, lines)
	}

	unit := vminst.NewTranslationUnit(stem)
	instructions := make([]vminst.Instruction, 0, len(lines))
	for _, line := range lines {
		inst, err := parser.Parse(unit, line)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, inst)
	}
	if opts.DumpIR != nil {
		opts.DumpIR(stem, instructions)
	}
	return instructions, nil
}

func (d *Driver) writeProgram(outputPath string, prog *asm.Program, opts Options) (Result, error) {
	var buf bytes.Buffer
	if err := asm.NewPrinter(&buf).PrintProgram(prog); err != nil {
		return Result{}, fmt.Errorf("driver: rendering assembly: %w", err)
	}
	if opts.DryRun {
		return Result{Assembly: buf.String()}, nil
	}
	if err := afero.WriteFile(d.FS, outputPath, buf.Bytes(), 0o644); err != nil {
		return Result{OutputPath: outputPath}, vmerr.NewIoError("write", outputPath, err)
	}
	return Result{OutputPath: outputPath, Assembly: buf.String()}, nil
}
