package keyvalue

import "testing"

func TestDecodeRoot(t *testing.T) {
	key, ok := Decode("/")
	if !ok || key != "" {
		t.Fatalf("Decode(/) = (%q, %v), want (\"\", true)", key, ok)
	}
}

func TestDecodeKey(t *testing.T) {
	key, ok := Decode("/k1")
	if !ok || key != "k1" {
		t.Fatalf("Decode(/k1) = (%q, %v), want (\"k1\", true)", key, ok)
	}
}

func TestDecodeRejectsNestedPath(t *testing.T) {
	if _, ok := Decode("/k1/extra"); ok {
		t.Fatal("expected nested path to be rejected")
	}
}

func TestDecodeNormalizesTrailingSeparator(t *testing.T) {
	key, ok := Decode("/k1/")
	if !ok || key != "k1" {
		t.Fatalf("Decode(/k1/) = (%q, %v), want (\"k1\", true)", key, ok)
	}
}

func TestDecodeRejectsRelative(t *testing.T) {
	if _, ok := Decode("k1"); ok {
		t.Fatal("expected relative path to be rejected")
	}
}
