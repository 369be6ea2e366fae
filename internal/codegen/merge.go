package codegen

import (
	"fmt"
	"sort"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/naming"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/transform"
)

// EmptyGroupError reports a group with no signatures; fatal to that
// group only, never to the run.
type EmptyGroupError struct {
	Operation string
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("%s: overload group is empty", e.Operation)
}

// Summary is the machine-readable record reported per merged group.
type Summary struct {
	Operation      string `json:"operation" msgpack:"operation"`
	GeneratedName  string `json:"generated_name" msgpack:"generated_name"`
	SignatureCount int    `json:"signature_count" msgpack:"signature_count"`
}

// Merge erases every signature of a group, assigns variant names, and
// assembles the merged variant type. Group order is preserved; the
// variant list never contains UI-returning closure payloads.
func Merge(group sigmodel.OverloadGroup, tr *transform.Transformer) (sigmodel.MergedVariantType, error) {
	if len(group.Signatures) == 0 {
		return sigmodel.MergedVariantType{}, &EmptyGroupError{Operation: group.Name}
	}

	erased := make([]sigmodel.OperationSignature, len(group.Signatures))
	for i, sig := range group.Signatures {
		out, err := tr.Transform(sig)
		if err != nil {
			return sigmodel.MergedVariantType{}, err
		}
		erased[i] = out
	}

	names := naming.AssignNames(group.Name, erased)
	variants := make([]sigmodel.Variant, len(erased))
	for i, sig := range erased {
		variants[i] = sigmodel.Variant{
			Name:   names[i],
			Params: sig.Params,
			Source: group.Signatures[i],
		}
	}
	return sigmodel.MergedVariantType{
		Operation: group.Name,
		TypeName:  naming.TypeName(group.Name),
		Variants:  variants,
	}, nil
}

// bySpecificity orders variant indices for resolution: required count
// descending, then total parameter count descending, stable on ties.
// This exact order is the resolution contract.
func bySpecificity(variants []sigmodel.Variant) []int {
	order := make([]int, len(variants))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := variants[order[a]], variants[order[b]]
		ra, rb := va.RequiredCount(), vb.RequiredCount()
		if ra != rb {
			return ra > rb
		}
		return len(va.Params) > len(vb.Params)
	})
	return order
}
