package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[input]
dir = "interfaces"

[output]
dir = "Sources/Generated"

[erasure]
extra = { "ColorScheme" = "ColorScheme" }

[generate]
exclude = ["onAppear"]
platforms = ["iOS", "macOS"]
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}

	m, ok, err := Load(nested)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if m.Root != root {
		t.Errorf("Root = %q, want %q", m.Root, root)
	}
	if got := m.InputDir(); got != filepath.Join(root, "interfaces") {
		t.Errorf("InputDir = %q", got)
	}
	if got := m.OutputDir(); got != filepath.Join(root, "Sources", "Generated") {
		t.Errorf("OutputDir = %q", got)
	}
	if m.Config.Erasure.Extra["ColorScheme"] != "ColorScheme" {
		t.Errorf("Extra = %+v", m.Config.Erasure.Extra)
	}
	if !m.Excluded("onAppear") || m.Excluded("padding") {
		t.Error("Excluded filter wrong")
	}
	if !m.PlatformAllowed("iOS") || m.PlatformAllowed("watchOS") {
		t.Error("PlatformAllowed filter wrong")
	}
}

func TestLoadMissingManifest(t *testing.T) {
	_, ok, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected ok=false without a manifest")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "missing input table", content: "[output]\ndir = \"x\"\n"},
		{name: "missing input dir", content: "[input]\n"},
		{name: "blank input dir", content: "[input]\ndir = \"  \"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeManifest(t, dir, tt.content)
			if _, _, err := Load(dir); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestOutputDirDefault(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[input]\ndir = \"ifaces\"\n")
	m, ok, err := Load(dir)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if got := m.OutputDir(); got != filepath.Join(dir, DefaultOutputDir) {
		t.Errorf("OutputDir = %q", got)
	}
	if !m.PlatformAllowed("anything") {
		t.Error("empty platform list must allow everything")
	}
}
