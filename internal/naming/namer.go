// Package naming assigns each overload a unique, deterministic variant
// name derived from its erased parameter types.
package naming

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/erasure"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
)

const (
	// closureMarker prefixes the return-type token of closure-typed
	// payload parameters.
	closureMarker = "Closure"
	// underscorePrefix replaces a reserved leading underscore in the
	// operation name.
	underscorePrefix = "underscored"
	// emptyFallback names a candidate that sanitized away entirely.
	emptyFallback = "variant"
)

var titler = cases.Title(language.Und, cases.NoLower)

// AssignNames produces one pairwise-distinct name per signature, in
// group order. Names depend only on the group's content and order.
func AssignNames(operation string, group []sigmodel.OperationSignature) []string {
	base := baseName(operation)
	if len(group) == 1 {
		return []string{sanitize(base)}
	}

	names := make([]string, 0, len(group))
	used := make(map[string]bool, len(group))
	for _, sig := range group {
		candidate := base
		if len(sig.Params) > 0 {
			var tokens strings.Builder
			for _, p := range sig.Params {
				tokens.WriteString(typeToken(p.Type))
			}
			candidate = base + "With" + tokens.String()
		}
		candidate = sanitize(candidate)

		// Residual collisions get an incrementing suffix, resolved in
		// iteration order so reruns are reproducible.
		name := candidate
		for n := 1; used[name]; n++ {
			name = candidate + strconv.Itoa(n)
		}
		used[name] = true
		names = append(names, name)
	}
	return names
}

// TypeName derives the merged variant type's name for an operation:
// `padding` becomes `PaddingModifier`.
func TypeName(operation string) string {
	return upperFirst(sanitize(baseName(operation))) + "Modifier"
}

// baseName lowercases the first letter and rewrites the reserved
// leading-underscore convention to a prefix word.
func baseName(operation string) string {
	if rest, ok := strings.CutPrefix(operation, "_"); ok {
		return underscorePrefix + upperFirst(rest)
	}
	return lowerFirst(operation)
}

// typeToken derives the sanitized naming token for one payload type.
func typeToken(t sigmodel.TypeExpr) string {
	switch node := t.(type) {
	case sigmodel.Named:
		if node.Path == erasure.OpaqueReferenceType {
			// Opaque references always token to the same word, whatever
			// library the closure's return type came from.
			return erasure.OpaqueReferenceType
		}
		tok := upperFirst(node.SimpleName())
		for _, arg := range node.Args {
			tok += "Of" + typeToken(arg)
		}
		return tok
	case sigmodel.Optional:
		return "Optional" + typeToken(node.Inner)
	case sigmodel.Array:
		return "ArrayOf" + typeToken(node.Inner)
	case sigmodel.Closure:
		if node.Returns == nil {
			return closureMarker + "Void"
		}
		return closureMarker + typeToken(node.Returns)
	case sigmodel.Existential:
		return typeToken(node.Constraint)
	case sigmodel.GenericRef:
		return upperFirst(node.Name)
	}
	return ""
}

// sanitize reduces a candidate to a valid identifier: disallowed runes
// drop, a leading digit gains an underscore, an empty result falls back
// to a fixed placeholder.
func sanitize(candidate string) string {
	var b strings.Builder
	for _, r := range candidate {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return emptyFallback
	}
	if r := rune(out[0]); r >= '0' && r <= '9' {
		return "_" + out
	}
	return out
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return titler.String(s[:1]) + s[1:]
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
