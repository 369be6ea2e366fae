// Package erasure maps abstract capability constraints to the concrete
// types that stand in for them inside merged variant payloads.
package erasure

import (
	"strings"
)

// Erasure is the concrete stand-in for a constraint. Wrapper marks
// types that do not exist in the target library and must be generated
// as union wrappers elsewhere; this package only emits the reference.
type Erasure struct {
	TypeName string
	Wrapper  bool
}

// OpaqueReferenceType stands in for UI-returning closure parameters.
// Closure collapse bypasses the table entirely; the constant lives here
// so the transformer and namer agree on the spelling.
const OpaqueReferenceType = "ViewReference"

// wrapperMarker prefixes synthesized erasure names for capabilities the
// table does not know.
const wrapperMarker = "Any"

var qualifierPrefixes = []string{
	"SwiftUI.",
	"Swift.",
	"Foundation.",
	"CoreGraphics.",
	"CoreFoundation.",
}

// builtin holds capability constraints with a known concrete erasure in
// the target library.
var builtin = map[string]Erasure{
	"View":                {TypeName: OpaqueReferenceType},
	"ShapeStyle":          {TypeName: "AnyShapeStyle"},
	"Shape":               {TypeName: "AnyShape"},
	"InsettableShape":     {TypeName: "AnyShape"},
	"Gesture":             {TypeName: "AnyGesture"},
	"Transition":          {TypeName: "AnyTransition"},
	"Hashable":            {TypeName: "AnyHashable"},
	"StringProtocol":      {TypeName: "String"},
	"BinaryInteger":       {TypeName: "Int"},
	"BinaryFloatingPoint": {TypeName: "Double"},
	"RawRepresentable":    {TypeName: "String"},
}

// styleProtocols are capabilities with no existential-safe library type;
// their erasures are generated union wrappers named Any<Protocol>.
var styleProtocols = []string{
	"ButtonStyle",
	"PrimitiveButtonStyle",
	"ControlGroupStyle",
	"DatePickerStyle",
	"DisclosureGroupStyle",
	"GaugeStyle",
	"GroupBoxStyle",
	"IndexViewStyle",
	"LabelStyle",
	"ListStyle",
	"MenuButtonStyle",
	"MenuStyle",
	"NavigationSplitViewStyle",
	"PickerStyle",
	"ProgressViewStyle",
	"TabViewStyle",
	"TableStyle",
	"TextFieldStyle",
	"ToggleStyle",
}

// Table is the immutable constraint→erasure mapping for one run.
type Table struct {
	entries   map[string]Erasure
	instances map[string]bool
}

// Options extend the builtin table for one run.
type Options struct {
	// Extra adds or overrides constraint→type entries (modgen.toml).
	Extra map[string]string
	// Instances marks wrapper constraints for which the style
	// enumerator discovered at least one named case.
	Instances map[string]bool
}

func NewTable(opts Options) *Table {
	entries := make(map[string]Erasure, len(builtin)+len(styleProtocols)+len(opts.Extra))
	for k, v := range builtin {
		entries[k] = v
	}
	for _, proto := range styleProtocols {
		entries[proto] = Erasure{TypeName: wrapperMarker + proto, Wrapper: true}
	}
	for k, v := range opts.Extra {
		entries[stripQualifier(k)] = Erasure{TypeName: v}
	}
	instances := make(map[string]bool, len(opts.Instances))
	for k, v := range opts.Instances {
		instances[stripQualifier(k)] = v
	}
	return &Table{entries: entries, instances: instances}
}

// Lookup resolves a constraint to its erasure. Exact table matches win;
// `some X` / `any X` wrappers resolve through their base capability and
// fall back to a synthesized Any-prefixed name. Unknown free-standing
// constraints do not resolve.
func (t *Table) Lookup(constraint string) (Erasure, bool) {
	name := stripQualifier(strings.TrimSpace(constraint))
	if er, ok := t.entries[name]; ok {
		return er, true
	}
	base, wrapped := stripExistential(name)
	if !wrapped {
		return Erasure{}, false
	}
	if er, ok := t.Lookup(base); ok {
		return er, true
	}
	return Erasure{TypeName: wrapperMarker + stripQualifier(base), Wrapper: true}, true
}

// NeedsGeneratedWrapper reports whether the constraint's erasure is a
// union type generated outside this engine.
func (t *Table) NeedsGeneratedWrapper(constraint string) bool {
	er, ok := t.Lookup(constraint)
	return ok && er.Wrapper
}

// HasInstances reports whether the style enumerator found concrete
// cases for a wrapper constraint. Wrapper erasures without instances
// must fail the group instead of referencing an empty union.
func (t *Table) HasInstances(constraint string) bool {
	return t.instances[stripQualifier(constraint)]
}

// UILike reports whether a constraint implies a UI-returning value, the
// trigger for closure collapse.
func (t *Table) UILike(constraint string) bool {
	name := stripQualifier(strings.TrimSpace(constraint))
	if base, wrapped := stripExistential(name); wrapped {
		name = stripQualifier(base)
	}
	return name == "View"
}

func stripQualifier(name string) string {
	for _, prefix := range qualifierPrefixes {
		if strings.HasPrefix(name, prefix) {
			return name[len(prefix):]
		}
	}
	return name
}

func stripExistential(name string) (string, bool) {
	if rest, ok := strings.CutPrefix(name, "some "); ok {
		return rest, true
	}
	if rest, ok := strings.CutPrefix(name, "any "); ok {
		return rest, true
	}
	return name, false
}
