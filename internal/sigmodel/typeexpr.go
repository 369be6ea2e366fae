// Package sigmodel defines the closed grammar of parameter and return
// types extracted from interface files, plus the signature records the
// merging engine consumes.
package sigmodel

import (
	"strings"
)

// TypeExpr is the closed sum of parameter/return type shapes. Erasure
// only ever rewrites GenericRef and Existential leaves; the structural
// nodes (Named, Optional, Array, Closure) are rewritten by wrapping.
type TypeExpr interface {
	typeExpr()
	String() string
}

// Named is a concrete nominal type, optionally applied to generic
// arguments (`EdgeInsets`, `SwiftUI.Binding<Bool>`).
type Named struct {
	Path string
	Args []TypeExpr
}

// Optional wraps an inner type (`CGFloat?`).
type Optional struct {
	Inner TypeExpr
}

// Array wraps an element type (`[ToolbarItem]`).
type Array struct {
	Inner TypeExpr
}

// Closure is a function type (`() -> Text`).
type Closure struct {
	Params   []TypeExpr
	Returns  TypeExpr
	Escaping bool
}

// ExistentialKind distinguishes `some` from `any`.
type ExistentialKind uint8

const (
	ExistentialSome ExistentialKind = iota
	ExistentialAny
)

func (k ExistentialKind) String() string {
	if k == ExistentialAny {
		return "any"
	}
	return "some"
}

// Existential is an opaque or boxed constraint type (`some View`,
// `any ShapeStyle`).
type Existential struct {
	Kind       ExistentialKind
	Constraint TypeExpr
}

// GenericRef refers to a generic parameter by name (`S` in `<S: Shape>`).
type GenericRef struct {
	Name string
}

func (Named) typeExpr()       {}
func (Optional) typeExpr()    {}
func (Array) typeExpr()       {}
func (Closure) typeExpr()     {}
func (Existential) typeExpr() {}
func (GenericRef) typeExpr()  {}

func (t Named) String() string {
	if len(t.Args) == 0 {
		return t.Path
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Path + "<" + strings.Join(parts, ", ") + ">"
}

func (t Optional) String() string {
	switch t.Inner.(type) {
	case Closure, Existential:
		return "(" + t.Inner.String() + ")?"
	}
	return t.Inner.String() + "?"
}

func (t Array) String() string {
	return "[" + t.Inner.String() + "]"
}

func (t Closure) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	prefix := ""
	if t.Escaping {
		prefix = "@escaping "
	}
	ret := "Void"
	if t.Returns != nil {
		ret = t.Returns.String()
	}
	return prefix + "(" + strings.Join(parts, ", ") + ") -> " + ret
}

func (t Existential) String() string {
	return t.Kind.String() + " " + t.Constraint.String()
}

func (t GenericRef) String() string {
	return t.Name
}

// SimpleName returns the last path component of a nominal type.
func (t Named) SimpleName() string {
	if i := strings.LastIndexByte(t.Path, '.'); i >= 0 {
		return t.Path[i+1:]
	}
	return t.Path
}
