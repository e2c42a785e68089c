package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// E2EAsmTestSpec is one golden-fixture case: VM source in, assertions
// against the emitted assembly out. Mirrors the teacher's e2e_asm.yaml
// shape (expect / expect_order / expect_unique / expect_not).
type E2EAsmTestSpec struct {
	Name         string   `yaml:"name"`
	Input        string   `yaml:"input"`
	NoBootstrap  bool     `yaml:"no_bootstrap"`
	Expect       []string `yaml:"expect"`
	ExpectOrder  []string `yaml:"expect_order"`
	ExpectUnique []string `yaml:"expect_unique"`
	ExpectNot    []string `yaml:"expect_not"`
	Skip         string   `yaml:"skip,omitempty"`
}

type E2EAsmTestFile struct {
	Tests []E2EAsmTestSpec `yaml:"tests"`
}

func TestE2EAsmYAML(t *testing.T) {
	data, err := os.ReadFile("../../testdata/e2e/translate.yaml")
	if err != nil {
		t.Fatalf("translate.yaml not found: %v", err)
	}

	var testFile E2EAsmTestFile
	if err := yaml.Unmarshal(data, &testFile); err != nil {
		t.Fatalf("failed to parse translate.yaml: %v", err)
	}

	for _, tc := range testFile.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			if tc.Skip != "" {
				t.Skip(tc.Skip)
			}

			resetDumpFlags()
			fs := afero.NewMemMapFs()
			afero.WriteFile(fs, "/case/Main.vm", []byte(tc.Input), 0o644)

			var out, errOut bytes.Buffer
			cmd := newRootCmd(fs, &out, &errOut)
			args := []string{"--dump-asm"}
			if tc.NoBootstrap {
				args = append(args, "--no-bootstrap")
			}
			args = append(args, "/case/Main.vm")
			cmd.SetArgs(args)
			if err := cmd.Execute(); err != nil {
				t.Fatalf("hackvm failed: %v\nStderr: %s", err, errOut.String())
			}

			output := out.String()
			for _, exp := range tc.Expect {
				if !strings.Contains(output, exp) {
					t.Errorf("expected output to contain %q\nGot:\n%s", exp, output)
				}
			}

			if len(tc.ExpectOrder) > 0 {
				lastIdx := -1
				for _, exp := range tc.ExpectOrder {
					idx := strings.Index(output, exp)
					if idx == -1 {
						t.Errorf("expected output to contain %q for order check\nGot:\n%s", exp, output)
						continue
					}
					if idx <= lastIdx {
						t.Errorf("expected %q to appear after previous pattern (position %d vs %d)\nGot:\n%s", exp, idx, lastIdx, output)
					}
					lastIdx = idx
				}
			}

			for _, exp := range tc.ExpectUnique {
				if count := strings.Count(output, exp); count != 1 {
					t.Errorf("expected %q to appear exactly once, found %d times\nGot:\n%s", exp, count, output)
				}
			}

			for _, exp := range tc.ExpectNot {
				if strings.Contains(output, exp) {
					t.Errorf("expected output NOT to contain %q\nGot:\n%s", exp, output)
				}
			}
		})
	}
}

// E2EDirectoryTestSpec exercises directory-mode linking across several
// named files, rather than single-file translation.
type E2EDirectoryTestSpec struct {
	Name         string            `yaml:"name"`
	Files        map[string]string `yaml:"files"`
	Config       string            `yaml:"config,omitempty"`
	NoBootstrap  bool              `yaml:"no_bootstrap"`
	Expect       []string          `yaml:"expect"`
	ExpectOrder  []string          `yaml:"expect_order"`
	ExpectNot    []string          `yaml:"expect_not"`
	Skip         string            `yaml:"skip,omitempty"`
}

type E2EDirectoryTestFile struct {
	Tests []E2EDirectoryTestSpec `yaml:"tests"`
}

func TestE2EDirectoryYAML(t *testing.T) {
	data, err := os.ReadFile("../../testdata/e2e/directory.yaml")
	if err != nil {
		t.Fatalf("directory.yaml not found: %v", err)
	}

	var testFile E2EDirectoryTestFile
	if err := yaml.Unmarshal(data, &testFile); err != nil {
		t.Fatalf("failed to parse directory.yaml: %v", err)
	}

	for _, tc := range testFile.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			if tc.Skip != "" {
				t.Skip(tc.Skip)
			}

			resetDumpFlags()
			fs := afero.NewMemMapFs()
			for name, content := range tc.Files {
				afero.WriteFile(fs, "/case/"+name, []byte(content), 0o644)
			}
			if tc.Config != "" {
				afero.WriteFile(fs, "/case/hackvm.yaml", []byte(tc.Config), 0o644)
			}

			var out, errOut bytes.Buffer
			cmd := newRootCmd(fs, &out, &errOut)
			args := []string{"--dump-asm"}
			if tc.NoBootstrap {
				args = append(args, "--no-bootstrap")
			}
			args = append(args, "/case")
			cmd.SetArgs(args)
			if err := cmd.Execute(); err != nil {
				t.Fatalf("hackvm failed: %v\nStderr: %s", err, errOut.String())
			}

			output := out.String()
			for _, exp := range tc.Expect {
				if !strings.Contains(output, exp) {
					t.Errorf("expected output to contain %q\nGot:\n%s", exp, output)
				}
			}

			if len(tc.ExpectOrder) > 0 {
				lastIdx := -1
				for _, exp := range tc.ExpectOrder {
					idx := strings.Index(output, exp)
					if idx == -1 {
						t.Errorf("expected output to contain %q for order check\nGot:\n%s", exp, output)
						continue
					}
					if idx <= lastIdx {
						t.Errorf("expected %q to appear after previous pattern (position %d vs %d)\nGot:\n%s", exp, idx, lastIdx, output)
					}
					lastIdx = idx
				}
			}

			for _, exp := range tc.ExpectNot {
				if strings.Contains(output, exp) {
					t.Errorf("expected output NOT to contain %q\nGot:\n%s", exp, output)
				}
			}
		})
	}
}
