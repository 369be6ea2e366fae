package sigmodel

import "strings"

// Predicate is a small boolean expression tree over platform and
// version atoms. Availability predicates use VersionAtom leaves,
// build conditions use PlatformAtom leaves; guard emission walks the
// tree so nesting stays correct when a signature carries both.
type Predicate interface {
	predicate()
	String() string
}

// VersionAtom gates on a minimum platform version (`iOS 16.0`).
type VersionAtom struct {
	Platform string
	Version  string
}

// PlatformAtom gates on compile-time platform (`os(iOS)`).
type PlatformAtom struct {
	Platform string
}

// All is a conjunction.
type All struct {
	Ops []Predicate
}

// AnyOf is a disjunction.
type AnyOf struct {
	Ops []Predicate
}

// Not negates its operand.
type Not struct {
	Op Predicate
}

func (VersionAtom) predicate()  {}
func (PlatformAtom) predicate() {}
func (All) predicate()          {}
func (AnyOf) predicate()        {}
func (Not) predicate()          {}

func (p VersionAtom) String() string {
	return p.Platform + " " + p.Version
}

func (p PlatformAtom) String() string {
	return "os(" + p.Platform + ")"
}

func joinPredicates(ops []Predicate, sep string) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return "(" + strings.Join(parts, sep) + ")"
}

func (p All) String() string {
	return joinPredicates(p.Ops, " && ")
}

func (p AnyOf) String() string {
	return joinPredicates(p.Ops, " || ")
}

func (p Not) String() string {
	return "!" + p.Op.String()
}

// VersionAtoms flattens the tree's version leaves in declaration order.
func VersionAtoms(p Predicate) []VersionAtom {
	var out []VersionAtom
	walkPredicate(p, func(atom Predicate) {
		if v, ok := atom.(VersionAtom); ok {
			out = append(out, v)
		}
	})
	return out
}

// PlatformAtoms flattens the tree's platform leaves in declaration order.
func PlatformAtoms(p Predicate) []PlatformAtom {
	var out []PlatformAtom
	walkPredicate(p, func(atom Predicate) {
		if v, ok := atom.(PlatformAtom); ok {
			out = append(out, v)
		}
	})
	return out
}

func walkPredicate(p Predicate, visit func(Predicate)) {
	switch node := p.(type) {
	case nil:
	case All:
		for _, op := range node.Ops {
			walkPredicate(op, visit)
		}
	case AnyOf:
		for _, op := range node.Ops {
			walkPredicate(op, visit)
		}
	case Not:
		walkPredicate(node.Op, visit)
	default:
		visit(p)
	}
}
