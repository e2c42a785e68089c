package config

import (
	"testing"

	"github.com/spf13/afero"
)

func TestLoadReturnsDefaultsWhenFileAbsent(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg, err := Load(fs, "/project")
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if cfg.EntryPoint != "Sys.init" || !cfg.Bootstrap {
		t.Errorf("got %+v, want defaults {Sys.init true}", cfg)
	}
}

func TestLoadOverlaysPresentFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/project/hackvm.yaml", []byte("entryPoint: Main.main\nbootstrap: false\n"), 0o644)

	cfg, err := Load(fs, "/project")
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if cfg.EntryPoint != "Main.main" || cfg.Bootstrap {
		t.Errorf("got %+v, want {Main.main false}", cfg)
	}
}

func TestLoadOverlaysPartialFileOntoDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/project/hackvm.yaml", []byte("bootstrap: false\n"), 0o644)

	cfg, err := Load(fs, "/project")
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if cfg.EntryPoint != "Sys.init" {
		t.Errorf("EntryPoint = %q, want default Sys.init to survive a partial override", cfg.EntryPoint)
	}
	if cfg.Bootstrap {
		t.Errorf("Bootstrap = true, want false as set in the file")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/project/hackvm.yaml", []byte("entryPoint: [unterminated\n"), 0o644)

	if _, err := Load(fs, "/project"); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}
