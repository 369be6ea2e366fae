package codegen

import (
	"strings"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/erasure"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
)

// emitDispatch writes the forwarding switch: each variant rebuilds the
// original overload call from its stored payload. Availability-gated
// variants fall through to the untouched receiver instead of throwing;
// a value that resolved once must always dispatch.
func emitDispatch(w *writer, merged sigmodel.MergedVariantType) {
	w.Line("@ViewBuilder")
	w.Line("func apply<__Content: View>(to __content: __Content) -> some View {")
	w.In()
	w.Line("switch self {")
	for _, v := range merged.Variants {
		buildCond := buildConditionExpr(v.Source.BuildCondition)
		if buildCond != "" {
			w.Line("#if %s", buildCond)
		}
		w.Line("%s:", casePattern(v))
		w.In()
		avail := availabilityClause(v.Source.Availability)
		if avail != "" {
			w.Line("if #available(%s) {", avail)
			w.In()
			w.Line("%s", forwardExpr(merged.Operation, v))
			w.Out()
			w.Line("} else {")
			w.In()
			w.Line("__content")
			w.Out()
			w.Line("}")
		} else {
			w.Line("%s", forwardExpr(merged.Operation, v))
		}
		w.Out()
		if buildCond != "" {
			w.Line("#endif")
		}
	}
	w.Line("}")
	w.Out()
	w.Line("}")
}

func casePattern(v sigmodel.Variant) string {
	if len(v.Params) == 0 {
		return "case ." + v.Name
	}
	names := make([]string, len(v.Params))
	for i, p := range v.Params {
		names[i] = p.Name
	}
	return "case let ." + v.Name + "(" + strings.Join(names, ", ") + ")"
}

// forwardExpr rebuilds the original call with original labels and
// order. Opaque references re-wrap as zero-argument closures so they
// can stand where the original signature expected one.
func forwardExpr(operation string, v sigmodel.Variant) string {
	args := make([]string, len(v.Params))
	for i, p := range v.Params {
		value := p.Name
		if isOpaqueReference(p, v.Source.Params[i]) {
			value = "{ " + p.Name + ".resolve() }"
		}
		label := v.Source.Params[i].Label
		if label != "" {
			value = label + ": " + value
		}
		args[i] = value
	}
	return "__content." + operation + "(" + strings.Join(args, ", ") + ")"
}

// isOpaqueReference reports a payload slot that stands in for an
// original closure parameter.
func isOpaqueReference(erased, original sigmodel.Parameter) bool {
	named, ok := erased.Type.(sigmodel.Named)
	if !ok || named.Path != erasure.OpaqueReferenceType {
		return false
	}
	_, wasClosure := original.Type.(sigmodel.Closure)
	return wasClosure
}
