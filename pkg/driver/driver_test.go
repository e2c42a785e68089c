package driver

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/schallis/hack-vm-translator/pkg/lexer"
	"github.com/schallis/hack-vm-translator/pkg/vminst"
)

func TestTranslateSingleFileWritesSiblingAsm(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/proj/Main.vm", []byte("push constant 7\npush constant 8\nadd\n"), 0o644)

	result, err := New(fs).Translate("/proj/Main.vm", Options{})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if result.OutputPath != "/proj/Main.asm" {
		t.Errorf("OutputPath = %q, want /proj/Main.asm", result.OutputPath)
	}
	if strings.Contains(result.Assembly, "bootstrap") {
		t.Errorf("single-file mode must not emit a bootstrap preamble:\n%s", result.Assembly)
	}

	written, err := afero.ReadFile(fs, "/proj/Main.asm")
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(written) != result.Assembly {
		t.Errorf("written file does not match the returned Assembly text")
	}
}

func TestTranslateDirectoryBootstrapsAndSortsFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/proj/Sys.vm", []byte("function Sys.init 0\ncall Main.main 0\nreturn\n"), 0o644)
	afero.WriteFile(fs, "/proj/Main.vm", []byte("function Main.main 0\npush constant 1\nreturn\n"), 0o644)

	result, err := New(fs).Translate("/proj", Options{})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if result.OutputPath != "/proj/proj.asm" {
		t.Errorf("OutputPath = %q, want /proj/proj.asm", result.OutputPath)
	}

	got := result.Assembly
	bootIdx := strings.Index(got, "// bootstrap\n")
	mainIdx := strings.Index(got, "// Translating Main\n")
	sysIdx := strings.Index(got, "// Translating Sys\n")
	if bootIdx != 0 {
		t.Fatalf("expected bootstrap first:\n%s", got)
	}
	// Lexicographic order: Main before Sys.
	if mainIdx == -1 || sysIdx == -1 || mainIdx > sysIdx {
		t.Errorf("expected Main's section before Sys's:\n%s", got)
	}
}

func TestTranslateDirectoryHonorsNoBootstrap(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/proj/Main.vm", []byte("push constant 1\n"), 0o644)

	result, err := New(fs).Translate("/proj", Options{NoBootstrap: true})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if strings.Contains(result.Assembly, "bootstrap") {
		t.Errorf("--no-bootstrap must suppress the preamble:\n%s", result.Assembly)
	}
}

func TestTranslateDirectoryHonorsConfigEntryPoint(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/proj/hackvm.yaml", []byte("entryPoint: Main.boot\n"), 0o644)
	afero.WriteFile(fs, "/proj/Main.vm", []byte("function Main.boot 0\nreturn\n"), 0o644)

	result, err := New(fs).Translate("/proj", Options{})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !strings.Contains(result.Assembly, "@Main.boot\n0;JMP\n") {
		t.Errorf("expected the bootstrap call to target the configured entry point:\n%s", result.Assembly)
	}
}

func TestTranslateRemovesPartialOutputOnFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/proj/Main.vm", []byte("push constant 1\nbogus instruction here\n"), 0o644)

	if _, err := New(fs).Translate("/proj/Main.vm", Options{}); err == nil {
		t.Fatal("expected a parse error")
	}
	if exists, _ := afero.Exists(fs, "/proj/Main.asm"); exists {
		t.Error("expected no output file to remain after a failed translation")
	}
}

func TestTranslateMissingInputIsIoError(t *testing.T) {
	fs := afero.NewMemMapFs()
	if _, err := New(fs).Translate("/nope.vm", Options{}); err == nil {
		t.Fatal("expected an error for a missing input path")
	}
}

func TestTranslateInvokesDumpCallbacks(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/proj/Main.vm", []byte("push constant 1\n"), 0o644)

	var dumpedTokenFile, dumpedIRFile string
	var tokenLineCount, irInstructionCount int
	opts := Options{
		DumpTokens: func(name string, lines []lexer.Line) {
			dumpedTokenFile = name
			tokenLineCount = len(lines)
		},
		DumpIR: func(name string, instructions []vminst.Instruction) {
			dumpedIRFile = name
			irInstructionCount = len(instructions)
		},
	}

	if _, err := New(fs).Translate("/proj/Main.vm", opts); err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if dumpedTokenFile != "Main" || tokenLineCount != 1 {
		t.Errorf("DumpTokens: got file=%q lines=%d, want file=Main lines=1", dumpedTokenFile, tokenLineCount)
	}
	if dumpedIRFile != "Main" || irInstructionCount != 1 {
		t.Errorf("DumpIR: got file=%q instructions=%d, want file=Main instructions=1", dumpedIRFile, irInstructionCount)
	}
}
