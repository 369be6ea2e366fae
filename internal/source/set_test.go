package source

import "testing"

func TestResolveLineCol(t *testing.T) {
	set := NewSet("")
	id := set.AddVirtual("Pad.swiftinterface", []byte("extension View {\n    func pad() -> some View\n}\n"))

	tests := []struct {
		name  string
		span  Span
		line  uint32
		col   uint32
	}{
		{name: "first byte", span: Span{File: id, Start: 0, End: 9}, line: 1, col: 1},
		{name: "start of second line", span: Span{File: id, Start: 17, End: 21}, line: 2, col: 1},
		{name: "inside second line", span: Span{File: id, Start: 26, End: 30}, line: 2, col: 10},
		{name: "closing brace line", span: Span{File: id, Start: 45, End: 46}, line: 3, col: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, _ := set.Resolve(tt.span)
			if start.Line != tt.line || start.Col != tt.col {
				t.Errorf("Resolve(%v) = %d:%d, want %d:%d", tt.span, start.Line, start.Col, tt.line, tt.col)
			}
		})
	}
}

func TestLoadNormalization(t *testing.T) {
	set := NewSet("")
	id := set.Add("crlf.swiftinterface", normalizeCRLF(removeBOM([]byte("\xEF\xBB\xBFfunc a()\r\nfunc b()\r\n"))), true)
	f := set.Get(id)
	if string(f.Content) != "func a()\nfunc b()\n" {
		t.Errorf("normalized content = %q", f.Content)
	}
}

func TestCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 15}
	got := a.Cover(b)
	want := Span{File: 1, Start: 5, End: 20}
	if got != want {
		t.Errorf("Cover = %v, want %v", got, want)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if a.Cover(other) != a {
		t.Errorf("Cover across files must not extend")
	}
}
