package pathutil

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"/", "/", false},
		{"//", "/", false},
		{"/people", "/people", false},
		{"/people/", "/people", false},
		{"/people//1", "/people/1", false},
		{"/people/./1", "/people/1", false},
		{"/people/1/..", "/people", false},
		{"/..", "", true},
		{"/people/../..", "", true},
	}
	for _, c := range cases {
		got, err := Normalize(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("Normalize(%q): expected error, got %q", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Normalize(%q): unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIsAbsolute(t *testing.T) {
	if !IsAbsolute("/people/1") {
		t.Error("expected /people/1 to be absolute")
	}
	if IsAbsolute("people/1") {
		t.Error("expected people/1 to not be absolute")
	}
}

func TestSegments(t *testing.T) {
	got := Segments("/people/1/name")
	want := []string{"people", "1", "name"}
	if len(got) != len(want) {
		t.Fatalf("Segments() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Segments() = %v, want %v", got, want)
		}
	}
	if len(Segments("/")) != 0 {
		t.Errorf("Segments(/) should be empty")
	}
}
