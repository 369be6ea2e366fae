package codegen

import (
	"strings"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
)

// availabilityClause renders the version atoms of a predicate into the
// condition list of a Swift `#available` check: "iOS 16.0, macOS 13.0, *".
// Returns "" when the predicate carries no version gating.
func availabilityClause(p sigmodel.Predicate) string {
	atoms := sigmodel.VersionAtoms(p)
	if len(atoms) == 0 {
		return ""
	}
	parts := make([]string, 0, len(atoms)+1)
	for _, atom := range atoms {
		parts = append(parts, atom.Platform+" "+atom.Version)
	}
	parts = append(parts, "*")
	return strings.Join(parts, ", ")
}

// buildConditionExpr renders a build-condition tree into a `#if`
// expression, preserving short-circuit nesting: "os(iOS) || os(tvOS)".
// Returns "" when there is no build gating.
func buildConditionExpr(p sigmodel.Predicate) string {
	if p == nil {
		return ""
	}
	return renderCondition(p, false)
}

func renderCondition(p sigmodel.Predicate, nested bool) string {
	switch node := p.(type) {
	case sigmodel.PlatformAtom:
		return "os(" + node.Platform + ")"
	case sigmodel.VersionAtom:
		// Version atoms have no compile-time meaning; gate on platform.
		return "os(" + node.Platform + ")"
	case sigmodel.All:
		return renderJoin(node.Ops, " && ", nested)
	case sigmodel.AnyOf:
		return renderJoin(node.Ops, " || ", nested)
	case sigmodel.Not:
		return "!(" + renderCondition(node.Op, false) + ")"
	}
	return ""
}

func renderJoin(ops []sigmodel.Predicate, sep string, nested bool) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = renderCondition(op, true)
	}
	out := strings.Join(parts, sep)
	if nested && len(ops) > 1 {
		return "(" + out + ")"
	}
	return out
}
