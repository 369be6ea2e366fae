package styles

import (
	"testing"

	"github.com/liveview-native/swiftui-modifiers-codegen/internal/source"
)

func scan(t *testing.T, src string) *Enumerator {
	t.Helper()
	set := source.NewSet("")
	id := set.AddVirtual("styles.swiftinterface", []byte(src))
	e := NewEnumerator()
	e.ScanFile(set.Get(id))
	return e
}

func TestScanSelfConstrainedExtensions(t *testing.T) {
	e := scan(t, `
extension ButtonStyle where Self == BorderedButtonStyle {
    public static var bordered: BorderedButtonStyle { get }
}
extension ButtonStyle where Self == PlainButtonStyle {
    public static var plain: PlainButtonStyle { get }
}
extension ListStyle where Self == InsetListStyle {
    public static var inset: InsetListStyle { get }
}
`)
	cases := e.Cases()["ButtonStyle"]
	if len(cases) != 2 {
		t.Fatalf("ButtonStyle cases = %+v", cases)
	}
	if cases[0].Name != "bordered" || cases[0].ConcreteType != "BorderedButtonStyle" {
		t.Errorf("first case = %+v", cases[0])
	}
	if cases[1].Name != "plain" || cases[1].ConcreteType != "PlainButtonStyle" {
		t.Errorf("second case = %+v", cases[1])
	}
	if got := e.Constraints(); len(got) != 2 || got[0] != "ButtonStyle" || got[1] != "ListStyle" {
		t.Errorf("constraints = %v", got)
	}
}

func TestScanTypedStaticMembers(t *testing.T) {
	e := scan(t, `
extension GaugeStyle {
    public static let accessoryCircular: AccessoryCircularGaugeStyle
}
`)
	cases := e.Cases()["GaugeStyle"]
	if len(cases) != 1 || cases[0].ConcreteType != "AccessoryCircularGaugeStyle" {
		t.Fatalf("cases = %+v", cases)
	}
}

func TestScanIgnoresNestedAndNonStyleMembers(t *testing.T) {
	e := scan(t, `
extension ButtonStyle where Self == BorderedButtonStyle {
    public static var bordered: BorderedButtonStyle { get }
    public struct Configuration {
        public static let shared: Configuration
    }
    public func makeBody(configuration: Configuration) -> some View
}
`)
	cases := e.Cases()["ButtonStyle"]
	if len(cases) != 1 || cases[0].Name != "bordered" {
		t.Fatalf("cases = %+v", cases)
	}
}

func TestScanDeduplicatesAcrossFiles(t *testing.T) {
	set := source.NewSet("")
	a := set.AddVirtual("a.swiftinterface", []byte(`
extension ButtonStyle where Self == PlainButtonStyle {
    public static var plain: PlainButtonStyle { get }
}
`))
	b := set.AddVirtual("b.swiftinterface", []byte(`
extension ButtonStyle where Self == PlainButtonStyle {
    public static var plain: PlainButtonStyle { get }
}
`))
	e := NewEnumerator()
	e.ScanFile(set.Get(a))
	e.ScanFile(set.Get(b))
	if cases := e.Cases()["ButtonStyle"]; len(cases) != 1 {
		t.Fatalf("cases = %+v", cases)
	}
	if inst := e.Instances(); !inst["ButtonStyle"] || len(inst) != 1 {
		t.Fatalf("instances = %+v", inst)
	}
}
