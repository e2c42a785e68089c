// Package config loads the optional hackvm.yaml that sits next to a
// directory-mode translation target (AMBIENT STACK: Configuration).
// Its absence is not an error: the translator's hard-coded defaults
// already match the Nand2Tetris convention (entry point Sys.init,
// bootstrap enabled), so the file is pure sugar for overriding them.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/schallis/hack-vm-translator/pkg/vmerr"
)

// FileName is the configuration file's fixed name within a directory
// translation target.
const FileName = "hackvm.yaml"

// Config is the translator's run configuration.
type Config struct {
	EntryPoint string `yaml:"entryPoint"`
	Bootstrap  bool   `yaml:"bootstrap"`
}

// Default returns the configuration a run uses when no hackvm.yaml is
// present.
func Default() *Config {
	return &Config{EntryPoint: "Sys.init", Bootstrap: true}
}

// Load reads hackvm.yaml from dir, if present, overlaying it on
// Default(). A missing file is not an error; a malformed one is
// reported as a vmerr.IoError wrapping the underlying yaml error.
func Load(fs afero.Fs, dir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, FileName)
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, vmerr.NewIoError("read", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, vmerr.NewIoError("parse", path, err)
	}
	return cfg, nil
}
