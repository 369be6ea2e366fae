// Package transform rewrites operation signatures into their erased
// form: generic and existential parameter types become concrete erased
// types, UI-returning closures collapse into opaque references, and
// default-value text is re-wrapped to stay type-correct.
package transform

import (
	"fmt"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/erasure"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
)

// UnsupportedTypeError reports a parameter type that can be neither
// erased, collapsed, nor emitted verbatim. The owning group fails;
// other groups are unaffected.
type UnsupportedTypeError struct {
	Operation string
	Param     string
	Type      string
	Reason    string
	// EmptyUnion marks the wrapper-without-instances case so callers
	// can report it distinctly.
	EmptyUnion bool
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s: parameter %q of type %s cannot be erased: %s",
		e.Operation, e.Param, e.Type, e.Reason)
}

// Transformer erases signatures against one erasure table. Transform is
// pure and idempotent on signatures without generic parameters.
type Transformer struct {
	table *erasure.Table
}

func New(table *erasure.Table) *Transformer {
	return &Transformer{table: table}
}

// Transform returns the erased copy of sig. The result carries no
// generic parameters: every reference to one has been substituted.
func (tr *Transformer) Transform(sig sigmodel.OperationSignature) (sigmodel.OperationSignature, error) {
	out := sig
	out.Generics = nil
	out.Params = make([]sigmodel.Parameter, len(sig.Params))

	for i, param := range sig.Params {
		rewritten, err := tr.rewriteParam(sig, param)
		if err != nil {
			return sigmodel.OperationSignature{}, err
		}
		out.Params[i] = rewritten
	}
	return out, nil
}

func (tr *Transformer) rewriteParam(sig sigmodel.OperationSignature, param sigmodel.Parameter) (sigmodel.Parameter, error) {
	out := param

	// Closure collapse wins over generic erasure: closures are never
	// representable as stored payload, erased or not.
	if closure, ok := param.Type.(sigmodel.Closure); ok && tr.uiReturning(sig, closure.Returns) {
		out.Type = sigmodel.Named{Path: erasure.OpaqueReferenceType}
		tr.wrapDefault(&out, erasure.OpaqueReferenceType)
		return out, nil
	}

	rewritten, erasedAs, err := tr.rewriteType(sig, param, param.Type)
	if err != nil {
		return sigmodel.Parameter{}, err
	}
	out.Type = rewritten
	if erasedAs != "" {
		tr.wrapDefault(&out, erasedAs)
	}
	return out, nil
}

// rewriteType walks the type tree, substituting GenericRef and
// Existential leaves. It returns the erased type name applied at the
// shallowest rewrite, "" when the tree was untouched.
func (tr *Transformer) rewriteType(sig sigmodel.OperationSignature, param sigmodel.Parameter, t sigmodel.TypeExpr) (sigmodel.TypeExpr, string, error) {
	switch node := t.(type) {
	case sigmodel.Named:
		if len(node.Args) == 0 {
			return node, "", nil
		}
		args := make([]sigmodel.TypeExpr, len(node.Args))
		erasedAs := ""
		for i, arg := range node.Args {
			rewritten, name, err := tr.rewriteType(sig, param, arg)
			if err != nil {
				return nil, "", err
			}
			args[i] = rewritten
			if erasedAs == "" {
				erasedAs = name
			}
		}
		return sigmodel.Named{Path: node.Path, Args: args}, erasedAs, nil

	case sigmodel.Optional:
		inner, erasedAs, err := tr.rewriteType(sig, param, node.Inner)
		if err != nil {
			return nil, "", err
		}
		return sigmodel.Optional{Inner: inner}, erasedAs, nil

	case sigmodel.Array:
		inner, erasedAs, err := tr.rewriteType(sig, param, node.Inner)
		if err != nil {
			return nil, "", err
		}
		return sigmodel.Array{Inner: inner}, erasedAs, nil

	case sigmodel.Closure:
		params := make([]sigmodel.TypeExpr, len(node.Params))
		for i, p := range node.Params {
			rewritten, _, err := tr.rewriteType(sig, param, p)
			if err != nil {
				return nil, "", err
			}
			params[i] = rewritten
		}
		var returns sigmodel.TypeExpr
		if node.Returns != nil {
			rewritten, _, err := tr.rewriteType(sig, param, node.Returns)
			if err != nil {
				return nil, "", err
			}
			returns = rewritten
		}
		// Non-UI closures keep their shape; defaults inside closures
		// never receive constructor wrapping.
		return sigmodel.Closure{Params: params, Returns: returns, Escaping: node.Escaping}, "", nil

	case sigmodel.Existential:
		query := node.Kind.String() + " " + node.Constraint.String()
		er, ok := tr.table.Lookup(query)
		if !ok {
			return nil, "", &UnsupportedTypeError{
				Operation: sig.Name,
				Param:     param.Name,
				Type:      t.String(),
				Reason:    "no erasure for constraint " + node.Constraint.String(),
			}
		}
		if err := tr.checkWrapper(sig, param, t, er, node.Constraint.String()); err != nil {
			return nil, "", err
		}
		return sigmodel.Named{Path: er.TypeName}, er.TypeName, nil

	case sigmodel.GenericRef:
		constraint, declared := sig.ConstraintFor(node.Name)
		if !declared || constraint == "" {
			return nil, "", &UnsupportedTypeError{
				Operation: sig.Name,
				Param:     param.Name,
				Type:      t.String(),
				Reason:    "generic parameter " + node.Name + " has no erasable constraint",
			}
		}
		er, ok := tr.table.Lookup(constraint)
		if !ok {
			return nil, "", &UnsupportedTypeError{
				Operation: sig.Name,
				Param:     param.Name,
				Type:      t.String(),
				Reason:    "no erasure for constraint " + constraint,
			}
		}
		if err := tr.checkWrapper(sig, param, t, er, constraint); err != nil {
			return nil, "", err
		}
		return sigmodel.Named{Path: er.TypeName}, er.TypeName, nil
	}
	return t, "", nil
}

// checkWrapper rejects wrapper erasures whose union type has no
// discovered instances; referencing an empty union would not compile.
func (tr *Transformer) checkWrapper(sig sigmodel.OperationSignature, param sigmodel.Parameter, t sigmodel.TypeExpr, er erasure.Erasure, constraint string) error {
	if !er.Wrapper || tr.table.HasInstances(constraint) {
		return nil
	}
	return &UnsupportedTypeError{
		Operation:  sig.Name,
		Param:      param.Name,
		Type:       t.String(),
		Reason:     "wrapper union " + er.TypeName + " has no discovered instances",
		EmptyUnion: true,
	}
}

// uiReturning reports whether a closure return shape yields a UI value,
// either literally or through a generic whose constraint implies it.
func (tr *Transformer) uiReturning(sig sigmodel.OperationSignature, returns sigmodel.TypeExpr) bool {
	switch node := returns.(type) {
	case nil:
		return false
	case sigmodel.Existential:
		return tr.table.UILike(node.Constraint.String())
	case sigmodel.GenericRef:
		constraint, ok := sig.ConstraintFor(node.Name)
		return ok && tr.table.UILike(constraint)
	case sigmodel.Named:
		return tr.table.UILike(node.Path)
	case sigmodel.Optional:
		return tr.uiReturning(sig, node.Inner)
	}
	return false
}

// wrapDefault re-wraps an erased parameter's default text in a
// constructor call so the payload default stays type-correct. Nil and
// empty sentinels pass through untouched.
func (tr *Transformer) wrapDefault(param *sigmodel.Parameter, erasedAs string) {
	if !param.HasDefault || param.DefaultText == "" || param.DefaultText == "nil" {
		return
	}
	param.DefaultText = erasedAs + "(" + param.DefaultText + ")"
}
