package sigmodel

import "testing"

func TestTypeExprString(t *testing.T) {
	tests := []struct {
		name string
		expr TypeExpr
		want string
	}{
		{name: "named", expr: Named{Path: "EdgeInsets"}, want: "EdgeInsets"},
		{name: "qualified named", expr: Named{Path: "SwiftUI.Angle"}, want: "SwiftUI.Angle"},
		{name: "generic application", expr: Named{Path: "Binding", Args: []TypeExpr{Named{Path: "Bool"}}}, want: "Binding<Bool>"},
		{name: "optional", expr: Optional{Inner: Named{Path: "CGFloat"}}, want: "CGFloat?"},
		{name: "optional existential parenthesized", expr: Optional{Inner: Existential{Kind: ExistentialAny, Constraint: Named{Path: "ShapeStyle"}}}, want: "(any ShapeStyle)?"},
		{name: "array", expr: Array{Inner: Named{Path: "ToolbarItem"}}, want: "[ToolbarItem]"},
		{name: "closure", expr: Closure{Returns: Named{Path: "Text"}}, want: "() -> Text"},
		{name: "escaping closure with params", expr: Closure{Params: []TypeExpr{Named{Path: "Bool"}}, Returns: Named{Path: "Void"}, Escaping: true}, want: "@escaping (Bool) -> Void"},
		{name: "some existential", expr: Existential{Kind: ExistentialSome, Constraint: Named{Path: "View"}}, want: "some View"},
		{name: "generic ref", expr: GenericRef{Name: "S"}, want: "S"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParameterRequired(t *testing.T) {
	tests := []struct {
		name  string
		param Parameter
		want  bool
	}{
		{name: "plain required", param: Parameter{Name: "length", Type: Named{Path: "CGFloat"}}, want: true},
		{name: "optional type", param: Parameter{Name: "edge", Type: Optional{Inner: Named{Path: "Edge"}}}, want: false},
		{name: "defaulted", param: Parameter{Name: "alignment", Type: Named{Path: "Alignment"}, HasDefault: true, DefaultText: ".center"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.param.Required(); got != tt.want {
				t.Errorf("Required() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSignatureString(t *testing.T) {
	sig := OperationSignature{
		Name: "padding",
		Params: []Parameter{
			{Label: "", Name: "insets", Type: Named{Path: "EdgeInsets"}},
			{Label: "alignment", Name: "alignment", Type: Named{Path: "Alignment"}, HasDefault: true, DefaultText: ".center"},
		},
		Return: Existential{Kind: ExistentialSome, Constraint: Named{Path: "View"}},
	}
	want := "func padding(_ insets: EdgeInsets, alignment: Alignment = .center) -> some View"
	if got := sig.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPredicateAtoms(t *testing.T) {
	pred := All{Ops: []Predicate{
		VersionAtom{Platform: "iOS", Version: "16.0"},
		AnyOf{Ops: []Predicate{
			VersionAtom{Platform: "macOS", Version: "13.0"},
			PlatformAtom{Platform: "tvOS"},
		}},
	}}
	versions := VersionAtoms(pred)
	if len(versions) != 2 || versions[0].Platform != "iOS" || versions[1].Platform != "macOS" {
		t.Errorf("VersionAtoms = %v", versions)
	}
	platforms := PlatformAtoms(pred)
	if len(platforms) != 1 || platforms[0].Platform != "tvOS" {
		t.Errorf("PlatformAtoms = %v", platforms)
	}
	if pred.String() != "(iOS 16.0 && (macOS 13.0 || os(tvOS)))" {
		t.Errorf("String() = %q", pred.String())
	}
}
