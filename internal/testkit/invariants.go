// Package testkit holds invariant checks shared by parser tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/sigmodel"
	"github.com/liveview-native/swiftui-modifiers-codegen/internal/source"
)

// CheckSignatureSpans runs a minimal set of span invariants on the
// signatures extracted from one file:
// 1) every span is non-empty and within file content bounds
// 2) every span points back at the file it was parsed from
// 3) signatures appear in source order
func CheckSignatureSpans(sigs []sigmodel.OperationSignature, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	prevStart := uint32(0)
	for i, sig := range sigs {
		span := sig.Span
		if span.End <= span.Start {
			return fmt.Errorf("signature %d (%s): span is empty: %v", i, sig.Name, span)
		}
		if span.File != sf.ID {
			return fmt.Errorf("signature %d (%s): span points to different file id: got=%d want=%d",
				i, sig.Name, span.File, sf.ID)
		}
		if span.End > lenContent {
			return fmt.Errorf("signature %d (%s): span end beyond content: %d > %d",
				i, sig.Name, span.End, lenContent)
		}
		if span.Start < prevStart {
			return fmt.Errorf("signature %d (%s): out of source order: %d < %d",
				i, sig.Name, span.Start, prevStart)
		}
		prevStart = span.Start
	}
	return nil
}
