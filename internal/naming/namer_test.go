package naming

import (
	"reflect"
	"testing"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
)

func sigWith(params ...sigmodel.Parameter) sigmodel.OperationSignature {
	return sigmodel.OperationSignature{Name: "pad", Params: params}
}

func named(path string) sigmodel.TypeExpr { return sigmodel.Named{Path: path} }

func TestSingletonKeepsBaseName(t *testing.T) {
	names := AssignNames("padding", []sigmodel.OperationSignature{
		sigWith(sigmodel.Parameter{Name: "insets", Type: named("EdgeInsets")}),
	})
	if !reflect.DeepEqual(names, []string{"padding"}) {
		t.Errorf("names = %v, want [padding]", names)
	}
}

func TestTypeTokens(t *testing.T) {
	group := []sigmodel.OperationSignature{
		sigWith(sigmodel.Parameter{Name: "insets", Type: named("EdgeInsets")}),
		sigWith(sigmodel.Parameter{Name: "length", Type: named("CGFloat")}),
	}
	names := AssignNames("pad", group)
	want := []string{"padWithEdgeInsets", "padWithCGFloat"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestStructuredTokens(t *testing.T) {
	tests := []struct {
		name string
		typ  sigmodel.TypeExpr
		want string
	}{
		{name: "optional", typ: sigmodel.Optional{Inner: named("Edge")}, want: "padWithOptionalEdge"},
		{name: "array", typ: sigmodel.Array{Inner: named("Text")}, want: "padWithArrayOfText"},
		{name: "closure by return", typ: sigmodel.Closure{Returns: named("Never")}, want: "padWithClosureNever"},
		{name: "void closure", typ: sigmodel.Closure{}, want: "padWithClosureVoid"},
		{name: "qualified path uses simple name", typ: named("SwiftUI.Angle"), want: "padWithAngle"},
		{name: "generic application", typ: sigmodel.Named{Path: "Binding", Args: []sigmodel.TypeExpr{named("Bool")}}, want: "padWithBindingOfBool"},
		{name: "opaque reference fixed token", typ: named("ViewReference"), want: "padWithViewReference"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group := []sigmodel.OperationSignature{
				sigWith(sigmodel.Parameter{Name: "a", Type: tt.typ}),
				sigWith(sigmodel.Parameter{Name: "b", Type: named("Color")}),
			}
			names := AssignNames("pad", group)
			if names[0] != tt.want {
				t.Errorf("names[0] = %q, want %q", names[0], tt.want)
			}
		})
	}
}

func TestCollisionSuffixes(t *testing.T) {
	group := []sigmodel.OperationSignature{
		sigWith(sigmodel.Parameter{Name: "a", Type: named("CGFloat")}),
		sigWith(sigmodel.Parameter{Name: "b", Type: named("CGFloat")}),
		sigWith(sigmodel.Parameter{Name: "c", Type: named("CGFloat")}),
	}
	names := AssignNames("pad", group)
	want := []string{"padWithCGFloat", "padWithCGFloat1", "padWithCGFloat2"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestDeterministicAndInjective(t *testing.T) {
	group := []sigmodel.OperationSignature{
		sigWith(sigmodel.Parameter{Name: "a", Type: named("CGFloat")}),
		sigWith(sigmodel.Parameter{Name: "b", Type: named("CGFloat")}),
		sigWith(),
	}
	first := AssignNames("pad", group)
	second := AssignNames("pad", group)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("rerun differs: %v vs %v", first, second)
	}

	// Permuting member order may move suffixes but never duplicates.
	permuted := []sigmodel.OperationSignature{group[1], group[2], group[0]}
	names := AssignNames("pad", permuted)
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			t.Errorf("duplicate name %q in %v", n, names)
		}
		seen[n] = true
	}
}

func TestBaseNameConventions(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		want      string
	}{
		{name: "lower first", operation: "Padding", want: "padding"},
		{name: "underscore convention", operation: "_statusBarHidden", want: "underscoredStatusBarHidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := AssignNames(tt.operation, []sigmodel.OperationSignature{sigWith()})
			if names[0] != tt.want {
				t.Errorf("base = %q, want %q", names[0], tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "passthrough", in: "padWithCGFloat", want: "padWithCGFloat"},
		{name: "drops punctuation", in: "pad-With.CGFloat", want: "padWithCGFloat"},
		{name: "leading digit", in: "3dRotation", want: "_3dRotation"},
		{name: "empty falls back", in: "??", want: "variant"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitize(tt.in); got != tt.want {
				t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
