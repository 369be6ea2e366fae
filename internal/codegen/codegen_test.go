package codegen

import (
	"errors"
	"strings"
	"testing"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/erasure"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/transform"
)

func newTransformer() *transform.Transformer {
	return transform.New(erasure.NewTable(erasure.Options{}))
}

func named(path string) sigmodel.TypeExpr { return sigmodel.Named{Path: path} }

func mustMerge(t *testing.T, group sigmodel.OverloadGroup) sigmodel.MergedVariantType {
	t.Helper()
	merged, err := Merge(group, newTransformer())
	if err != nil {
		t.Fatalf("Merge(%s): %v", group.Name, err)
	}
	return merged
}

func wantContains(t *testing.T, text, sub string) {
	t.Helper()
	if !strings.Contains(text, sub) {
		t.Errorf("emitted text missing %q\n----\n%s", sub, text)
	}
}

func TestMergeEmptyGroup(t *testing.T) {
	_, err := Merge(sigmodel.OverloadGroup{Name: "padding"}, newTransformer())
	var empty *EmptyGroupError
	if !errors.As(err, &empty) {
		t.Fatalf("err = %v, want EmptyGroupError", err)
	}
}

func TestSingletonGroup(t *testing.T) {
	merged := mustMerge(t, sigmodel.OverloadGroup{
		Name: "clipped",
		Signatures: []sigmodel.OperationSignature{
			{Name: "clipped"},
		},
	})
	if merged.TypeName != "ClippedModifier" {
		t.Errorf("TypeName = %q", merged.TypeName)
	}
	if len(merged.Variants) != 1 || merged.Variants[0].Name != "clipped" {
		t.Fatalf("variants = %+v", merged.Variants)
	}

	text := EmitGroup(merged)
	wantContains(t, text, "enum ClippedModifier {")
	wantContains(t, text, `static let operationName = "clipped"`)
	wantContains(t, text, "case clipped")
	// Zero-parameter variant matches only empty calls and reports a
	// count mismatch otherwise.
	wantContains(t, text, "guard arguments.isEmpty else {")
	wantContains(t, text, `throw ModifierResolutionError.argumentCountMismatch(operation: "clipped", attempted: arguments.count)`)
	wantContains(t, text, "__content.clipped()")
}

func TestRoundTripPadScenario(t *testing.T) {
	merged := mustMerge(t, sigmodel.OverloadGroup{
		Name: "pad",
		Signatures: []sigmodel.OperationSignature{
			{Name: "pad", Params: []sigmodel.Parameter{{Name: "insets", Type: named("Insets")}}},
			{Name: "pad", Params: []sigmodel.Parameter{{Name: "length", Type: named("Float")}}},
		},
	})
	if merged.Variants[0].Name != "padWithInsets" || merged.Variants[1].Name != "padWithFloat" {
		t.Fatalf("variant names = %v, %v", merged.Variants[0].Name, merged.Variants[1].Name)
	}

	text := EmitGroup(merged)
	// Equal specificity, both unlabeled: one label group, typed
	// extraction in group order.
	insetsAt := strings.Index(text, "Insets(fromArgument:")
	floatAt := strings.Index(text, "Float(fromArgument:")
	if insetsAt < 0 || floatAt < 0 || insetsAt > floatAt {
		t.Errorf("extraction order wrong: insets@%d float@%d", insetsAt, floatAt)
	}
	wantContains(t, text, "self = .padWithFloat(length: length)")
	wantContains(t, text, "case nil:")
}

func TestSpecificityOrdering(t *testing.T) {
	// Required count descending, then total count descending; this
	// exact order is the contract.
	variants := []sigmodel.Variant{
		{Name: "a", Params: []sigmodel.Parameter{{Name: "x", Type: named("Int"), HasDefault: true, DefaultText: "1"}}},
		{Name: "b", Params: []sigmodel.Parameter{{Name: "x", Type: named("Int")}, {Name: "y", Type: named("Int"), HasDefault: true, DefaultText: "2"}}},
		{Name: "c", Params: []sigmodel.Parameter{{Name: "x", Type: named("Int")}, {Name: "y", Type: named("Int")}}},
		{Name: "d", Params: []sigmodel.Parameter{{Name: "x", Type: named("Int")}}},
	}
	order := bySpecificity(variants)
	got := make([]string, len(order))
	for i, idx := range order {
		got[i] = variants[idx].Name
	}
	want := "c b d a"
	if strings.Join(got, " ") != want {
		t.Errorf("order = %v, want %s", got, want)
	}
}

func TestLabelDisambiguation(t *testing.T) {
	merged := mustMerge(t, sigmodel.OverloadGroup{
		Name: "frame",
		Signatures: []sigmodel.OperationSignature{
			{Name: "frame", Params: []sigmodel.Parameter{{Label: "width", Name: "width", Type: named("CGFloat")}}},
			{Name: "frame", Params: []sigmodel.Parameter{{Label: "depth", Name: "depth", Type: named("CGFloat")}}},
		},
	})
	text := EmitGroup(merged)
	wantContains(t, text, "switch arguments.first?.label {")
	wantContains(t, text, `case "width"?:`)
	wantContains(t, text, `case "depth"?:`)
	// Unrecognized label is a hard failure naming exactly the known set.
	wantContains(t, text, `throw ModifierResolutionError.ambiguousVariant(operation: "frame", expectedLabels: ["width", "depth"])`)
}

func TestDefaultAndOptionalExtraction(t *testing.T) {
	merged := mustMerge(t, sigmodel.OverloadGroup{
		Name: "padding",
		Signatures: []sigmodel.OperationSignature{
			{Name: "padding", Params: []sigmodel.Parameter{
				{Label: "edges", Name: "edges", Type: named("Edge.Set"), HasDefault: true, DefaultText: ".all"},
				{Label: "length", Name: "length", Type: sigmodel.Optional{Inner: named("CGFloat")}},
			}},
		},
	})
	text := EmitGroup(merged)
	wantContains(t, text, `let edges = Edge.Set(fromArgument: Self.argument(arguments, label: "edges", at: 0)) ?? .all`)
	wantContains(t, text, `let length: CGFloat? = CGFloat(fromArgument: Self.argument(arguments, label: "length", at: 1))`)
	// Both parameters are non-required, so an empty call still matches.
	wantContains(t, text, "guard arguments.count >= 0 && arguments.count <= 2 else {")
}

func TestOpaqueReferenceDispatch(t *testing.T) {
	group := sigmodel.OverloadGroup{
		Name: "overlay",
		Signatures: []sigmodel.OperationSignature{
			{
				Name:     "overlay",
				Generics: []sigmodel.GenericParameter{{Name: "V", Constraint: "View"}},
				Params: []sigmodel.Parameter{
					{Label: "alignment", Name: "alignment", Type: named("Alignment"), HasDefault: true, DefaultText: ".center"},
					{Label: "content", Name: "content", Type: sigmodel.Closure{Returns: sigmodel.GenericRef{Name: "V"}, Escaping: true}},
				},
				Availability: sigmodel.All{Ops: []sigmodel.Predicate{
					sigmodel.VersionAtom{Platform: "iOS", Version: "15.0"},
					sigmodel.VersionAtom{Platform: "macOS", Version: "12.0"},
				}},
			},
		},
	}
	merged := mustMerge(t, group)
	if got := merged.Variants[0].Params[1].Type.String(); got != erasure.OpaqueReferenceType {
		t.Fatalf("payload type = %q, want collapsed opaque reference", got)
	}

	text := EmitGroup(merged)
	// Stored opaque value re-wraps as a zero-argument closure when
	// forwarding, under the availability guard.
	wantContains(t, text, "if #available(iOS 15.0, macOS 12.0, *) {")
	wantContains(t, text, "__content.overlay(alignment: alignment, content: { content.resolve() })")
	wantContains(t, text, "} else {")
	wantContains(t, text, "__content")
}

func TestBuildConditionGuards(t *testing.T) {
	merged := mustMerge(t, sigmodel.OverloadGroup{
		Name: "hoverEffect",
		Signatures: []sigmodel.OperationSignature{
			{
				Name:   "hoverEffect",
				Params: []sigmodel.Parameter{{Name: "effect", Type: named("HoverEffect")}},
				BuildCondition: sigmodel.AnyOf{Ops: []sigmodel.Predicate{
					sigmodel.PlatformAtom{Platform: "iOS"},
					sigmodel.PlatformAtom{Platform: "visionOS"},
				}},
			},
		},
	})
	text := EmitGroup(merged)
	wantContains(t, text, "#if os(iOS) || os(visionOS)")
	wantContains(t, text, "#endif")
	// The case declaration, the resolution attempt, and the dispatch
	// case all sit under the same condition.
	if got := strings.Count(text, "#if os(iOS) || os(visionOS)"); got != 3 {
		t.Errorf("#if count = %d, want 3", got)
	}
}

func TestDocPassthrough(t *testing.T) {
	merged := mustMerge(t, sigmodel.OverloadGroup{
		Name: "pad",
		Signatures: []sigmodel.OperationSignature{
			{Name: "pad", Doc: "Pads the view.", Params: []sigmodel.Parameter{{Name: "insets", Type: named("Insets")}}},
		},
	})
	text := EmitGroup(merged)
	wantContains(t, text, "/// Pads the view.")
	wantContains(t, text, "/// `func pad(_ insets: Insets)`")
}

func TestSingleTypedRejectionPinpointsVariant(t *testing.T) {
	merged := mustMerge(t, sigmodel.OverloadGroup{
		Name: "pad",
		Signatures: []sigmodel.OperationSignature{
			{Name: "pad", Params: []sigmodel.Parameter{{Name: "length", Type: named("CGFloat")}}},
		},
	})
	text := EmitGroup(merged)
	// When exactly one variant matched the argument count but its
	// payload failed to parse, the error names that variant instead of
	// dumping the aggregate failure list.
	wantContains(t, text, "let rejected = failures.filter { !$0.isCountMismatch }")
	wantContains(t, text, "if rejected.count == 1, let only = rejected.first {")
	wantContains(t, text, `throw ModifierResolutionError.invalidArguments(operation: "pad", variant: only.variant, attempted: arguments.count)`)
	wantContains(t, text, `throw ModifierResolutionError.noMatchingVariant(operation: "pad", attempted: arguments.count, failures: failures)`)
}

func TestSharedDeclarations(t *testing.T) {
	text := SharedDeclarations()
	for _, sub := range []string{
		"public enum ModifierResolutionError: Error, Sendable {",
		"case argumentCountMismatch(operation: String, attempted: Int)",
		"case invalidArguments(operation: String, variant: String, attempted: Int)",
		"case ambiguousVariant(operation: String, expectedLabels: [String])",
		"case noMatchingVariant(operation: String, attempted: Int, failures: [VariantFailure])",
		"public struct VariantFailure: Sendable {",
	} {
		wantContains(t, text, sub)
	}
}

func TestAvailabilityAndBuildGuardRendering(t *testing.T) {
	tests := []struct {
		name string
		pred sigmodel.Predicate
		fn   func(sigmodel.Predicate) string
		want string
	}{
		{
			name: "availability conjunction",
			pred: sigmodel.All{Ops: []sigmodel.Predicate{
				sigmodel.VersionAtom{Platform: "iOS", Version: "16.0"},
				sigmodel.VersionAtom{Platform: "watchOS", Version: "9.0"},
			}},
			fn:   availabilityClause,
			want: "iOS 16.0, watchOS 9.0, *",
		},
		{
			name: "no version atoms",
			pred: sigmodel.PlatformAtom{Platform: "iOS"},
			fn:   availabilityClause,
			want: "",
		},
		{
			name: "nested build condition",
			pred: sigmodel.All{Ops: []sigmodel.Predicate{
				sigmodel.PlatformAtom{Platform: "iOS"},
				sigmodel.AnyOf{Ops: []sigmodel.Predicate{
					sigmodel.PlatformAtom{Platform: "tvOS"},
					sigmodel.Not{Op: sigmodel.PlatformAtom{Platform: "watchOS"}},
				}},
			}},
			fn:   buildConditionExpr,
			want: "os(iOS) && (os(tvOS) || !(os(watchOS)))",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.pred); got != tt.want {
				t.Errorf("rendered = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMergePropagatesUnsupportedType(t *testing.T) {
	_, err := Merge(sigmodel.OverloadGroup{
		Name: "ornament",
		Signatures: []sigmodel.OperationSignature{
			{
				Name:     "ornament",
				Generics: []sigmodel.GenericParameter{{Name: "C", Constraint: "Ornamental"}},
				Params:   []sigmodel.Parameter{{Name: "c", Type: sigmodel.GenericRef{Name: "C"}}},
			},
		},
	}, newTransformer())
	var unsupported *transform.UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want UnsupportedTypeError", err)
	}
}
