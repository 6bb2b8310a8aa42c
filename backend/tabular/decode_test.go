package tabular

import "testing"

func TestDecodeRoundTrip(t *testing.T) {
	cases := []Path{
		{Tag: TagDatabase},
		{Tag: TagTable, Table: "people"},
		{Tag: TagRow, Table: "people", Row: "1"},
		{Tag: TagColumn, Table: "people", Row: "1", Column: "name"},
	}
	for _, want := range cases {
		rendered := Render(want)
		got, ok := Decode(rendered)
		if !ok {
			t.Fatalf("Decode(%q) rejected, want accepted", rendered)
		}
		if got != want {
			t.Fatalf("Decode(%q) = %+v, want %+v", rendered, got, want)
		}
	}
}

func TestDecodeRejectsTooManyComponents(t *testing.T) {
	if _, ok := Decode("/people/1/name/extra"); ok {
		t.Fatal("expected four-component path to be rejected")
	}
}

func TestDecodeNormalizesTrailingSeparator(t *testing.T) {
	a, ok := Decode("/people/")
	if !ok {
		t.Fatal("expected /people/ to decode")
	}
	b, _ := Decode("/people")
	if a != b {
		t.Fatalf("trailing separator changed decode result: %+v vs %+v", a, b)
	}
}

func TestDecodeNormalizesDotDot(t *testing.T) {
	a, ok := Decode("/people/1/../2")
	if !ok {
		t.Fatal("expected .. path to decode")
	}
	want := Path{Tag: TagRow, Table: "people", Row: "2"}
	if a != want {
		t.Fatalf("Decode(..) = %+v, want %+v", a, want)
	}
}

func TestDecodeRejectsRelative(t *testing.T) {
	if _, ok := Decode("people/1"); ok {
		t.Fatal("expected relative path to be rejected")
	}
}
