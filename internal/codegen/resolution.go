package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
)

// emitResolution writes the call-reconstruction initializer: a one-shot,
// specificity-ordered search over the variant list. First full match
// wins; every failed attempt is recorded and surfaces in the aggregate
// error when the search exhausts.
func emitResolution(w *writer, merged sigmodel.MergedVariantType) {
	w.Line("init(arguments: [ModifierArgument]) throws {")
	w.In()
	w.Line("var failures: [VariantFailure] = []")

	order := bySpecificity(merged.Variants)
	attempt := 0
	i := 0
	for i < len(order) {
		j := i + 1
		for j < len(order) && sameSpecificity(merged.Variants[order[i]], merged.Variants[order[j]]) {
			j++
		}
		w.Blank()
		if j-i >= 2 {
			emitLabelSwitch(w, merged, order[i:j], &attempt)
		} else {
			emitAttempt(w, merged, merged.Variants[order[i]], &attempt)
		}
		i = j
	}

	w.Blank()
	w.Line("if !failures.isEmpty && failures.allSatisfy({ $0.isCountMismatch }) {")
	w.In()
	w.Line("throw ModifierResolutionError.argumentCountMismatch(operation: %q, attempted: arguments.count)", merged.Operation)
	w.Out()
	w.Line("}")
	w.Line("let rejected = failures.filter { !$0.isCountMismatch }")
	w.Line("if rejected.count == 1, let only = rejected.first {")
	w.In()
	w.Line("throw ModifierResolutionError.invalidArguments(operation: %q, variant: only.variant, attempted: arguments.count)", merged.Operation)
	w.Out()
	w.Line("}")
	w.Line("throw ModifierResolutionError.noMatchingVariant(operation: %q, attempted: arguments.count, failures: failures)", merged.Operation)
	w.Out()
	w.Line("}")
}

func sameSpecificity(a, b sigmodel.Variant) bool {
	return a.RequiredCount() == b.RequiredCount() && len(a.Params) == len(b.Params)
}

// emitLabelSwitch disambiguates an equal-specificity run by the first
// argument's label: extraction runs only inside the matching label
// group, and an unrecognized label is a hard failure naming the set.
func emitLabelSwitch(w *writer, merged sigmodel.MergedVariantType, run []int, attempt *int) {
	type labelGroup struct {
		label    string
		variants []sigmodel.Variant
	}
	var groups []labelGroup
	seen := map[string]int{}
	for _, idx := range run {
		v := merged.Variants[idx]
		label := ""
		if len(v.Params) > 0 {
			label = v.Params[0].Label
		}
		if at, ok := seen[label]; ok {
			groups[at].variants = append(groups[at].variants, v)
			continue
		}
		seen[label] = len(groups)
		groups = append(groups, labelGroup{label: label, variants: []sigmodel.Variant{v}})
	}

	known := make([]string, 0, len(groups))
	for _, g := range groups {
		if g.label == "" {
			known = append(known, `"_"`)
		} else {
			known = append(known, strconv.Quote(g.label))
		}
	}

	w.Line("switch arguments.first?.label {")
	for _, g := range groups {
		if g.label == "" {
			w.Line("case nil:")
		} else {
			w.Line("case %q?:", g.label)
		}
		w.In()
		for _, v := range g.variants {
			emitAttempt(w, merged, v, attempt)
		}
		w.Out()
	}
	w.Line("default:")
	w.In()
	w.Line("throw ModifierResolutionError.ambiguousVariant(operation: %q, expectedLabels: [%s])",
		merged.Operation, strings.Join(known, ", "))
	w.Out()
	w.Line("}")
}

// emitAttempt writes one variant's extraction block. Failures break out
// of the labeled do-block and the search moves on.
func emitAttempt(w *writer, merged sigmodel.MergedVariantType, v sigmodel.Variant, attempt *int) {
	label := fmt.Sprintf("attempt%d", *attempt)
	*attempt++

	required := v.RequiredCount()
	total := len(v.Params)
	w.Line("// %s: %d required, %d total", v.Name, required, total)

	buildCond := buildConditionExpr(v.Source.BuildCondition)
	if buildCond != "" {
		w.Line("#if %s", buildCond)
	}
	avail := availabilityClause(v.Source.Availability)
	if avail != "" {
		w.Line("if #available(%s) {", avail)
		w.In()
	}

	w.Line("%s: do {", label)
	w.In()

	switch {
	case total == 0:
		w.Line("guard arguments.isEmpty else {")
	case required == total:
		w.Line("guard arguments.count == %d else {", total)
	default:
		w.Line("guard arguments.count >= %d && arguments.count <= %d else {", required, total)
	}
	w.In()
	w.Line("failures.append(VariantFailure(variant: %q, reason: .argumentCountMismatch))", v.Name)
	w.Line("break %s", label)
	w.Out()
	w.Line("}")

	for i, p := range v.Params {
		emitExtraction(w, v, p, i, label)
	}

	w.Line("self = %s", constructExpr(v))
	w.Line("return")
	w.Out()
	w.Line("}")

	if avail != "" {
		w.Out()
		w.Line("}")
	}
	if buildCond != "" {
		w.Line("#endif")
	}
}

func emitExtraction(w *writer, v sigmodel.Variant, p sigmodel.Parameter, index int, attemptLabel string) {
	lookup := fmt.Sprintf("Self.argument(arguments, label: %s, at: %d)", labelExpr(p.Label), index)
	ctor := constructorType(p.Type)

	switch {
	case p.Required():
		w.Line("guard let %s = %s(fromArgument: %s) else {", p.Name, ctor, lookup)
		w.In()
		w.Line("failures.append(VariantFailure(variant: %q, reason: .invalidArguments))", v.Name)
		w.Line("break %s", attemptLabel)
		w.Out()
		w.Line("}")
	case p.HasDefault && p.DefaultText != "" && p.DefaultText != "nil":
		w.Line("let %s = %s(fromArgument: %s) ?? %s", p.Name, ctor, lookup, p.DefaultText)
	default:
		// Optional parameter (or nil default): absence resolves to nil.
		w.Line("let %s: %s? = %s(fromArgument: %s)", p.Name, ctor, ctor, lookup)
	}
}

func labelExpr(label string) string {
	if label == "" {
		return "nil"
	}
	return strconv.Quote(label)
}

// constructorType spells the failable-initializer receiver for a
// payload type; optionals extract through their wrapped type.
func constructorType(t sigmodel.TypeExpr) string {
	if opt, ok := t.(sigmodel.Optional); ok {
		return constructorType(opt.Inner)
	}
	return t.String()
}

func constructExpr(v sigmodel.Variant) string {
	if len(v.Params) == 0 {
		return "." + v.Name
	}
	parts := make([]string, len(v.Params))
	for i, p := range v.Params {
		parts[i] = p.Name + ": " + p.Name
	}
	return "." + v.Name + "(" + strings.Join(parts, ", ") + ")"
}
