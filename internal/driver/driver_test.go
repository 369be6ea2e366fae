package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/diag"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/observ"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
)

const sampleInterface = `import SwiftUI

extension View {
    /// Pads the view.
    public func pad(_ insets: Insets) -> some View
    public func pad(_ length: Float) -> some View
    public func clipped() -> some View
}
`

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestCacheRoundTrip(t *testing.T) {
	sig := sigmodel.OperationSignature{
		Name: "overlay",
		Doc:  "Layers a view.",
		Params: []sigmodel.Parameter{
			{
				Label: "alignment",
				Name:  "alignment",
				Type: sigmodel.Named{
					Path: "Alignment",
				},
				HasDefault:  true,
				DefaultText: ".center",
			},
			{
				Label: "",
				Name:  "content",
				Type: sigmodel.Closure{
					Returns:  sigmodel.Existential{Kind: sigmodel.ExistentialSome, Constraint: sigmodel.Named{Path: "View"}},
					Escaping: true,
				},
			},
			{
				Label: "style",
				Name:  "style",
				Type:  sigmodel.Optional{Inner: sigmodel.Array{Inner: sigmodel.GenericRef{Name: "S"}}},
			},
		},
		Return:   sigmodel.Existential{Kind: sigmodel.ExistentialSome, Constraint: sigmodel.Named{Path: "View"}},
		Generics: []sigmodel.GenericParameter{{Name: "S", Constraint: "ShapeStyle"}},
		Availability: sigmodel.All{Ops: []sigmodel.Predicate{
			sigmodel.VersionAtom{Platform: "iOS", Version: "15.0"},
			sigmodel.VersionAtom{Platform: "macOS", Version: "12.0"},
		}},
		BuildCondition: sigmodel.AnyOf{Ops: []sigmodel.Predicate{
			sigmodel.PlatformAtom{Platform: "iOS"},
			sigmodel.Not{Op: sigmodel.PlatformAtom{Platform: "watchOS"}},
		}},
	}

	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	var key [32]byte
	key[0] = 0xab

	if err := cache.Put(key, encodeSignatures([]sigmodel.OperationSignature{sig})); err != nil {
		t.Fatalf("put: %v", err)
	}
	var payload CachePayload
	hit, err := cache.Get(key, &payload)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !hit {
		t.Fatal("expected a cache hit")
	}
	decoded, ok := decodeSignatures(&payload, 7)
	if !ok {
		t.Fatal("payload rejected")
	}
	if len(decoded) != 1 {
		t.Fatalf("decoded %d signatures, want 1", len(decoded))
	}
	got := decoded[0]
	if got.String() != sig.String() {
		t.Fatalf("signature changed across the cache:\n got %s\nwant %s", got.String(), sig.String())
	}
	if got.Availability.String() != sig.Availability.String() {
		t.Fatalf("availability changed: got %s, want %s", got.Availability.String(), sig.Availability.String())
	}
	if got.BuildCondition.String() != sig.BuildCondition.String() {
		t.Fatalf("build condition changed: got %s, want %s", got.BuildCondition.String(), sig.BuildCondition.String())
	}
	if got.Params[0].DefaultText != ".center" {
		t.Fatalf("default text changed: got %q", got.Params[0].DefaultText)
	}
	if got.Span.File != 7 {
		t.Fatalf("file association lost: got %d", got.Span.File)
	}
}

func TestCacheMissAndSchemaGuard(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	var key [32]byte
	var payload CachePayload
	hit, err := cache.Get(key, &payload)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit {
		t.Fatal("expected a miss on an empty cache")
	}

	stale := &CachePayload{Schema: cacheSchemaVersion + 1}
	if _, ok := decodeSignatures(stale, 0); ok {
		t.Fatal("stale schema must be rejected")
	}
}

func TestParseDirUsesCache(t *testing.T) {
	input := t.TempDir()
	writeFixture(t, input, "View.swiftinterface", sampleInterface)
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	opts := Options{InputDir: input, Cache: cache, Jobs: 2}

	_, cold, _, err := ParseDir(context.Background(), opts)
	if err != nil {
		t.Fatalf("cold parse: %v", err)
	}
	if len(cold) != 1 || cold[0].FromCache {
		t.Fatalf("cold parse should miss the cache: %+v", cold)
	}

	_, warm, _, err := ParseDir(context.Background(), opts)
	if err != nil {
		t.Fatalf("warm parse: %v", err)
	}
	if !warm[0].FromCache {
		t.Fatal("warm parse should hit the cache")
	}
	if len(warm[0].Signatures) != len(cold[0].Signatures) {
		t.Fatalf("cache changed the signature count: %d vs %d", len(warm[0].Signatures), len(cold[0].Signatures))
	}
}

func TestRunWritesOutputs(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeFixture(t, input, "View.swiftinterface", sampleInterface)

	res, err := Run(context.Background(), Options{InputDir: input, OutputDir: output})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", res.Bag.Items())
	}

	wantFiles := []string{"ClippedModifier.swift", "ModifierResolutionError.swift", "PadModifier.swift"}
	if len(res.Written) != len(wantFiles) {
		t.Fatalf("wrote %d files, want %d: %v", len(res.Written), len(wantFiles), res.Written)
	}
	for i, want := range wantFiles {
		if filepath.Base(res.Written[i]) != want {
			t.Fatalf("written[%d] = %s, want %s", i, filepath.Base(res.Written[i]), want)
		}
	}

	data, err := os.ReadFile(filepath.Join(output, "PadModifier.swift"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "enum PadModifier {") {
		t.Fatal("PadModifier.swift is missing its variant type")
	}

	counts := map[string]int{}
	for _, s := range res.Summaries {
		counts[s.Operation] = s.SignatureCount
	}
	if counts["pad"] != 2 || counts["clipped"] != 1 {
		t.Fatalf("unexpected summaries: %+v", res.Summaries)
	}
}

func TestRunExcludesOperations(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeFixture(t, input, "View.swiftinterface", sampleInterface)

	res, err := Run(context.Background(), Options{InputDir: input, OutputDir: output, Exclude: []string{"pad"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, path := range res.Written {
		if filepath.Base(path) == "PadModifier.swift" {
			t.Fatal("excluded operation was generated")
		}
	}
	for _, g := range res.Groups {
		if g.Operation == "pad" {
			t.Fatal("excluded operation appears in group results")
		}
	}
}

func TestRunReportsEmptyStyleUnion(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeFixture(t, input, "Style.swiftinterface", `import SwiftUI

extension View {
    public func styled(_ style: some ButtonStyle) -> some View
}
`)

	res, err := Run(context.Background(), Options{InputDir: input, OutputDir: output})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Groups) != 1 || res.Groups[0].Err == nil {
		t.Fatalf("expected a failed group, got %+v", res.Groups)
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.GenEmptyStyleUnion {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a style union diagnostic")
	}
	if len(res.Written) != 0 {
		t.Fatalf("nothing should be written, got %v", res.Written)
	}
}

func TestRunResolvesStyleInstances(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeFixture(t, input, "Style.swiftinterface", `import SwiftUI

extension ButtonStyle where Self == BorderedButtonStyle {
    public static var bordered: BorderedButtonStyle { get }
}

extension View {
    public func styled(_ style: some ButtonStyle) -> some View
}
`)

	res, err := Run(context.Background(), Options{InputDir: input, OutputDir: output})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", res.Bag.Items())
	}
	data, err := os.ReadFile(filepath.Join(output, "StyledModifier.swift"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "AnyButtonStyle") {
		t.Fatal("style parameter was not collapsed to its wrapper")
	}
}

func TestPlatformReachable(t *testing.T) {
	tests := []struct {
		name      string
		cond      sigmodel.Predicate
		platforms []string
		want      bool
	}{
		{
			name: "no restriction keeps everything",
			cond: sigmodel.PlatformAtom{Platform: "watchOS"},
			want: true,
		},
		{
			name:      "unconditioned signature always kept",
			platforms: []string{"iOS"},
			want:      true,
		},
		{
			name:      "matching platform kept",
			cond:      sigmodel.PlatformAtom{Platform: "iOS"},
			platforms: []string{"iOS", "macOS"},
			want:      true,
		},
		{
			name:      "foreign platform dropped",
			cond:      sigmodel.PlatformAtom{Platform: "watchOS"},
			platforms: []string{"iOS"},
			want:      false,
		},
		{
			name: "any allowed atom keeps the disjunction",
			cond: sigmodel.AnyOf{Ops: []sigmodel.Predicate{
				sigmodel.PlatformAtom{Platform: "watchOS"},
				sigmodel.PlatformAtom{Platform: "iOS"},
			}},
			platforms: []string{"iOS"},
			want:      true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := sigmodel.OperationSignature{Name: "x", BuildCondition: tt.cond}
			if got := platformReachable(sig, tt.platforms); got != tt.want {
				t.Fatalf("platformReachable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListGroups(t *testing.T) {
	input := t.TempDir()
	writeFixture(t, input, "View.swiftinterface", sampleInterface)

	_, groups, bag, err := ListGroups(context.Background(), Options{InputDir: input})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Name != "pad" || len(groups[0].Signatures) != 2 {
		t.Fatalf("unexpected first group: %+v", groups[0])
	}
	if groups[1].Name != "clipped" {
		t.Fatalf("unexpected second group: %+v", groups[1])
	}
}

func TestCacheCorruptEntryIsAnError(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	var key [32]byte
	key[0] = 0x01
	path := cache.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("not a payload"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var payload CachePayload
	hit, err := cache.Get(key, &payload)
	if hit {
		t.Fatal("corrupt entry must not count as a hit")
	}
	if err == nil {
		t.Fatal("corrupt entry must surface a decode error")
	}
}

func TestRunRecordsStageTimings(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeFixture(t, input, "View.swiftinterface", sampleInterface)

	timings := new(observ.RunTimings)
	_, err := Run(context.Background(), Options{InputDir: input, OutputDir: output, Timings: timings})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	rep := timings.Report()
	got := make([]string, len(rep.Stages))
	for i, s := range rep.Stages {
		got[i] = s.Stage
	}
	if strings.Join(got, " ") != "parse generate write" {
		t.Fatalf("stages = %v, want parse generate write", got)
	}
	for _, s := range rep.Stages {
		if s.Items == 0 {
			t.Errorf("stage %s recorded no items", s.Stage)
		}
	}
}
