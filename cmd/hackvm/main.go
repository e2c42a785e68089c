package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/schallis/hack-vm-translator/pkg/driver"
	"github.com/schallis/hack-vm-translator/pkg/lexer"
	"github.com/schallis/hack-vm-translator/pkg/vminst"
)

var version = "0.1.0"

// Debug flags for dumping intermediate stages.
var (
	dumpTokens  bool
	dumpIR      bool
	dumpAsm     bool
	noBootstrap bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(afero.NewOsFs(), os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd(fs afero.Fs, out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hackvm [path]",
		Short: "hackvm translates Nand2Tetris VM code into Hack assembly",
		Long: `hackvm translates programs written in the Nand2Tetris VM
language into the symbolic assembly language of the Hack computer. A
path may name a single .vm file (single-file mode) or a directory of
.vm files to link into one assembly program (directory mode). With no
path, the current working directory is translated.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}

			opts := driver.Options{NoBootstrap: noBootstrap}
			if dumpTokens {
				opts.DryRun = true
				opts.DumpTokens = func(fileName string, lines []lexer.Line) {
					for _, l := range lines {
						fmt.Fprintf(out, "%s:%d: %v\n", fileName, l.Number, l.Tokens)
					}
				}
			}
			if dumpIR {
				opts.DryRun = true
				opts.DumpIR = func(fileName string, instructions []vminst.Instruction) {
					for _, inst := range instructions {
						fmt.Fprintf(out, "%s: %s\n", fileName, inst.String())
					}
				}
			}

			result, err := driver.New(fs).Translate(path, opts)
			if err != nil {
				fmt.Fprintf(errOut, "hackvm: %s\n", err)
				return err
			}

			if dumpAsm {
				fmt.Fprint(out, result.Assembly)
			}
			if !opts.DryRun {
				fmt.Fprintf(errOut, "hackvm: wrote %s\n", result.OutputPath)
			}
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVar(&dumpTokens, "dump-tokens", false, "Print each file's lexed token vectors and exit")
	rootCmd.Flags().BoolVar(&dumpIR, "dump-ir", false, "Print each file's parsed instruction sequence")
	rootCmd.Flags().BoolVar(&dumpAsm, "dump-asm", false, "Print the emitted assembly to stdout in addition to writing it")
	rootCmd.Flags().BoolVar(&noBootstrap, "no-bootstrap", false, "Directory mode only: suppress the bootstrap preamble")

	return rootCmd
}
