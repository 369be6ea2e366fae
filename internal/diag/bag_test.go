package diag

import (
	"testing"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/source"
)

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	for i := 0; i < 3; i++ {
		ok := bag.Add(Diagnostic{Severity: SevWarning, Code: ParSkippedMember})
		if i < 2 && !ok {
			t.Fatalf("Add %d rejected below limit", i)
		}
		if i == 2 && ok {
			t.Fatalf("Add beyond limit accepted")
		}
	}
	if bag.Len() != 2 {
		t.Errorf("Len = %d, want 2", bag.Len())
	}
	if bag.HasErrors() {
		t.Errorf("HasErrors = true with warnings only")
	}
}

func TestBagSortDeterministic(t *testing.T) {
	bag := NewBag(10)
	bag.Add(Diagnostic{Severity: SevWarning, Code: ParSkippedMember, Primary: source.Span{File: 1, Start: 40}})
	bag.Add(Diagnostic{Severity: SevError, Code: LexUnknownChar, Primary: source.Span{File: 0, Start: 10}})
	bag.Add(Diagnostic{Severity: SevError, Code: GenUnsupportedType, Primary: source.Span{File: 1, Start: 40}})
	bag.Sort()

	items := bag.Items()
	if items[0].Code != LexUnknownChar {
		t.Errorf("first after sort = %d, want LexUnknownChar", items[0].Code)
	}
	// Same span: errors come before warnings.
	if items[1].Code != GenUnsupportedType || items[2].Code != ParSkippedMember {
		t.Errorf("severity tiebreak wrong: %d then %d", items[1].Code, items[2].Code)
	}
}

func TestReportBuilderEmitOnce(t *testing.T) {
	bag := NewBag(5)
	b := ReportError(BagReporter{Bag: bag}, GenEmptyGroup, source.Span{}, "empty overload group")
	b.WithNote(source.Span{}, "declared here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Errorf("Len = %d after double emit, want 1", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Errorf("notes = %d, want 1", len(bag.Items()[0].Notes))
	}
}
