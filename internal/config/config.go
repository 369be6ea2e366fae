// Package config loads the modgen.toml project manifest.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the walk-up discovery looks for.
const ManifestName = "modgen.toml"

// DefaultOutputDir is used when [output].dir is absent.
const DefaultOutputDir = "Generated"

// Manifest is a located and decoded modgen.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

type Config struct {
	Input    InputConfig    `toml:"input"`
	Output   OutputConfig   `toml:"output"`
	Erasure  ErasureConfig  `toml:"erasure"`
	Generate GenerateConfig `toml:"generate"`
}

type InputConfig struct {
	Dir string `toml:"dir"`
}

type OutputConfig struct {
	Dir string `toml:"dir"`
}

// ErasureConfig extends the builtin capability table.
type ErasureConfig struct {
	Extra map[string]string `toml:"extra"`
}

// GenerateConfig narrows what the run emits.
type GenerateConfig struct {
	Exclude   []string `toml:"exclude"`
	Platforms []string `toml:"platforms"`
}

// Find walks up from startDir to locate modgen.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
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

// Load discovers and decodes the manifest. ok is false when no
// modgen.toml exists anywhere above startDir.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("input") {
		return Config{}, fmt.Errorf("%s: missing [input]", path)
	}
	if !meta.IsDefined("input", "dir") || strings.TrimSpace(cfg.Input.Dir) == "" {
		return Config{}, fmt.Errorf("%s: missing [input].dir", path)
	}
	return cfg, nil
}

// InputDir resolves [input].dir against the manifest root.
func (m *Manifest) InputDir() string {
	return filepath.Join(m.Root, filepath.FromSlash(strings.TrimSpace(m.Config.Input.Dir)))
}

// OutputDir resolves [output].dir against the manifest root, falling
// back to the default.
func (m *Manifest) OutputDir() string {
	dir := strings.TrimSpace(m.Config.Output.Dir)
	if dir == "" {
		dir = DefaultOutputDir
	}
	return filepath.Join(m.Root, filepath.FromSlash(dir))
}

// Excluded reports whether [generate].exclude names the operation.
func (m *Manifest) Excluded(operation string) bool {
	for _, name := range m.Config.Generate.Exclude {
		if name == operation {
			return true
		}
	}
	return false
}

// PlatformAllowed reports whether the platform survives the
// [generate].platforms restriction. An empty list allows everything.
func (m *Manifest) PlatformAllowed(platform string) bool {
	if len(m.Config.Generate.Platforms) == 0 {
		return true
	}
	for _, name := range m.Config.Generate.Platforms {
		if strings.EqualFold(name, platform) {
			return true
		}
	}
	return false
}
