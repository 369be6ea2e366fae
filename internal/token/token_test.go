package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Kind
	}{
		{name: "func keyword", text: "func", want: KwFunc},
		{name: "some marker", text: "some", want: KwSome},
		{name: "any marker", text: "any", want: KwAny},
		{name: "plain identifier", text: "padding", want: Ident},
		{name: "type name stays ident", text: "EdgeInsets", want: Ident},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LookupKeyword(tt.text); got != tt.want {
				t.Errorf("LookupKeyword(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	if Arrow.String() != "->" {
		t.Errorf("Arrow.String() = %q", Arrow.String())
	}
	if HashEndif.String() != "#endif" {
		t.Errorf("HashEndif.String() = %q", HashEndif.String())
	}
	if !KwWhere.IsKeyword() {
		t.Errorf("KwWhere must be a keyword")
	}
	if Ident.IsKeyword() {
		t.Errorf("Ident must not be a keyword")
	}
}
