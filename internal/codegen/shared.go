package codegen

// SharedDeclarations emits the run-wide failure type the generated
// resolution procedures throw. Generated once per run, independent of
// any group, and persisted alongside the per-group files.
func SharedDeclarations() string {
	w := &writer{}
	w.Line(generatedHeader)
	w.Blank()
	w.Line("/// A single variant's reason for rejecting a call shape.")
	w.Line("public struct VariantFailure: Sendable {")
	w.In()
	w.Line("public enum Reason: Sendable {")
	w.In()
	w.Line("case argumentCountMismatch")
	w.Line("case invalidArguments")
	w.Out()
	w.Line("}")
	w.Blank()
	w.Line("public let variant: String")
	w.Line("public let reason: Reason")
	w.Blank()
	w.Line("public init(variant: String, reason: Reason) {")
	w.In()
	w.Line("self.variant = variant")
	w.Line("self.reason = reason")
	w.Out()
	w.Line("}")
	w.Blank()
	w.Line("public var isCountMismatch: Bool { reason == .argumentCountMismatch }")
	w.Out()
	w.Line("}")
	w.Blank()
	w.Line("/// Errors thrown while matching a call site against a merged")
	w.Line("/// overload set. All cases are recoverable by the caller.")
	w.Line("public enum ModifierResolutionError: Error, Sendable {")
	w.In()
	w.Line("case argumentCountMismatch(operation: String, attempted: Int)")
	w.Line("case invalidArguments(operation: String, variant: String, attempted: Int)")
	w.Line("case ambiguousVariant(operation: String, expectedLabels: [String])")
	w.Line("case noMatchingVariant(operation: String, attempted: Int, failures: [VariantFailure])")
	w.Out()
	w.Line("}")
	return w.String()
}
