package sigmodel

import (
	"strings"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/source"
)

// Parameter is one slot of an operation signature. Label is the external
// argument label ("" for `_`), Name the internal binding name. DefaultText
// is opaque source text and only meaningful when HasDefault is set; it is
// never re-parsed, only rewritten textually when erasure wraps the type.
type Parameter struct {
	Label       string
	Name        string
	Type        TypeExpr
	HasDefault  bool
	DefaultText string
}

// Required reports whether resolution must find an argument for this
// parameter: neither defaulted nor optional-typed.
func (p Parameter) Required() bool {
	if p.HasDefault {
		return false
	}
	_, optional := p.Type.(Optional)
	return !optional
}

// GenericParameter is a declared generic with an optional capability
// constraint (`S: Shape` carries constraint "Shape").
type GenericParameter struct {
	Name       string
	Constraint string
}

// OperationSignature is one overload as extracted from an interface file.
type OperationSignature struct {
	Name           string
	Params         []Parameter
	Return         TypeExpr
	Generics       []GenericParameter
	Availability   Predicate
	BuildCondition Predicate
	Doc            string
	Span           source.Span
}

// RequiredCount counts parameters resolution cannot substitute.
func (s OperationSignature) RequiredCount() int {
	n := 0
	for _, p := range s.Params {
		if p.Required() {
			n++
		}
	}
	return n
}

// ConstraintFor returns the declared constraint of a generic parameter
// name, or "" when the name is not generic here.
func (s OperationSignature) ConstraintFor(name string) (string, bool) {
	for _, g := range s.Generics {
		if g.Name == name {
			return g.Constraint, true
		}
	}
	return "", false
}

func (s OperationSignature) String() string {
	var b strings.Builder
	b.WriteString("func ")
	b.WriteString(s.Name)
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		switch {
		case p.Label == "":
			b.WriteString("_ ")
			b.WriteString(p.Name)
		case p.Label == p.Name:
			b.WriteString(p.Name)
		default:
			b.WriteString(p.Label)
			b.WriteByte(' ')
			b.WriteString(p.Name)
		}
		b.WriteString(": ")
		b.WriteString(p.Type.String())
		if p.HasDefault {
			b.WriteString(" = ")
			b.WriteString(p.DefaultText)
		}
	}
	b.WriteByte(')')
	if s.Return != nil {
		b.WriteString(" -> ")
		b.WriteString(s.Return.String())
	}
	return b.String()
}

// OverloadGroup is every signature sharing one public operation name;
// the unit of merging.
type OverloadGroup struct {
	Name       string
	Signatures []OperationSignature
}

// Variant is one case of the merged type: a unique name, the erased
// payload parameters, and the signature it forwards to.
type Variant struct {
	Name   string
	Params []Parameter
	Source OperationSignature
}

// RequiredCount counts payload parameters a call site must supply.
func (v Variant) RequiredCount() int {
	n := 0
	for _, p := range v.Params {
		if p.Required() {
			n++
		}
	}
	return n
}

// MergedVariantType is the product of merging one overload group.
// Variant names are pairwise distinct; payloads never hold UI-returning
// closures (those were collapsed before naming).
type MergedVariantType struct {
	Operation string
	TypeName  string
	Variants  []Variant
}
