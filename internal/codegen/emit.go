package codegen

import (
	"strings"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
)

const generatedHeader = "// Generated by modgen. DO NOT EDIT."

// EmitGroup renders one merged variant type: the enum declaration, the
// resolution initializer, and the dispatch procedure.
func EmitGroup(merged sigmodel.MergedVariantType) string {
	w := &writer{}
	w.Line(generatedHeader)
	w.Blank()
	w.Line("import SwiftUI")
	w.Blank()

	w.Line("/// Merged overload set for the `%s` modifier.", merged.Operation)
	w.Line("enum %s {", merged.TypeName)
	w.In()
	w.Line("static let operationName = %q", merged.Operation)
	w.Blank()

	for _, v := range merged.Variants {
		emitCase(w, v)
	}

	w.Blank()
	emitResolution(w, merged)
	w.Blank()
	emitDispatch(w, merged)
	w.Blank()
	emitArgumentHelper(w)
	w.Out()
	w.Line("}")
	return w.String()
}

func emitCase(w *writer, v sigmodel.Variant) {
	buildCond := buildConditionExpr(v.Source.BuildCondition)
	if buildCond != "" {
		w.Line("#if %s", buildCond)
	}
	for _, line := range docLines(v.Source) {
		w.Line("/// %s", line)
	}
	if len(v.Params) == 0 {
		w.Line("case %s", v.Name)
	} else {
		parts := make([]string, len(v.Params))
		for i, p := range v.Params {
			parts[i] = p.Name + ": " + p.Type.String()
		}
		w.Line("case %s(%s)", v.Name, strings.Join(parts, ", "))
	}
	if buildCond != "" {
		w.Line("#endif")
	}
}

// docLines passes the source doc through and appends the original
// signature for traceability.
func docLines(sig sigmodel.OperationSignature) []string {
	var out []string
	if sig.Doc != "" {
		out = append(out, strings.Split(sig.Doc, "\n")...)
	}
	out = append(out, "`"+sig.String()+"`")
	return out
}

func emitArgumentHelper(w *writer) {
	w.Line("private static func argument(_ arguments: [ModifierArgument], label: String?, at index: Int) -> ModifierArgument? {")
	w.In()
	w.Line("if let label {")
	w.In()
	w.Line("return arguments.first(where: { $0.label == label })")
	w.Out()
	w.Line("}")
	w.Line("guard index < arguments.count, arguments[index].label == nil else { return nil }")
	w.Line("return arguments[index]")
	w.Out()
	w.Line("}")
}
