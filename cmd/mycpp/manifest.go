package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Translate translateConfig `toml:"translate"`
}

type translateConfig struct {
	First         []string `toml:"first"`
	Last          []string `toml:"last"`
	StripPrefix   string   `toml:"strip-prefix"`
	ToHeader      []string `toml:"to-header"`
	HeaderOut     string   `toml:"header-out"`
	GC            bool     `toml:"gc"`
	OnDiagnostics string   `toml:"on-diagnostics"`
}

// findMycppToml walks up from startDir looking for mycpp.toml.
func findMycppToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "mycpp.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest loads the optional mycpp.toml. A missing manifest is
// not an error; flags alone fully describe a run.
func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findMycppToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("translate") {
		return projectConfig{}, fmt.Errorf("%s: missing [translate]", path)
	}
	if meta.IsDefined("translate", "header-out") && strings.TrimSpace(cfg.Translate.HeaderOut) == "" {
		return projectConfig{}, fmt.Errorf("%s: [translate].header-out must not be empty", path)
	}
	if len(cfg.Translate.ToHeader) > 0 && strings.TrimSpace(cfg.Translate.HeaderOut) == "" {
		return projectConfig{}, fmt.Errorf("%s: [translate].to-header requires [translate].header-out", path)
	}
	if meta.IsDefined("translate", "on-diagnostics") {
		switch cfg.Translate.OnDiagnostics {
		case "warn", "fail":
		default:
			return projectConfig{}, fmt.Errorf("%s: invalid [translate].on-diagnostics %q (expected warn|fail)", path, cfg.Translate.OnDiagnostics)
		}
	}
	return cfg, nil
}
