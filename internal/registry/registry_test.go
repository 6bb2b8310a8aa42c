package registry

import "testing"

func newFakeDescriptor(name, desc, help, version string) *Descriptor {
	return &Descriptor{
		Name:        name,
		Description: desc,
		Help:        help,
		Version:     version,
	}
}

func TestGetExactMatch(t *testing.T) {
	r := New()
	r.Register("sqlite", func() *Descriptor { return newFakeDescriptor("sqlite", "tabular", "", "1.0") })
	r.Register("sqlite3", func() *Descriptor { return newFakeDescriptor("sqlite", "tabular", "", "1.0") })

	if d := r.Get("sqlite3"); d == nil || d.Name != "sqlite" {
		t.Fatalf("expected alias lookup to resolve, got %+v", d)
	}
	if d := r.Get("nope"); d != nil {
		t.Fatalf("expected unknown name to return nil, got %+v", d)
	}
}

func TestHelpTextSkipsAliases(t *testing.T) {
	r := New()
	r.Register("sqlite", func() *Descriptor { return newFakeDescriptor("sqlite", "tabular db", "help text", "1.0") })
	r.Register("sqlite3", func() *Descriptor { return newFakeDescriptor("sqlite", "tabular db", "help text", "1.0") })
	r.Register("berkeleydb", func() *Descriptor { return newFakeDescriptor("berkeleydb", "kv db", "", "2.0") })
	r.Register("bdb", func() *Descriptor { return newFakeDescriptor("berkeleydb", "kv db", "", "2.0") })

	help := r.HelpText()
	if got, want := countOccurrences(help, "tabular db"), 1; got != want {
		t.Fatalf("expected %d occurrence(s) of primary help block, got %d:\n%s", want, got, help)
	}
	if countOccurrences(help, "(no additional help available)") != 1 {
		t.Fatalf("expected placeholder help text for backend with no help:\n%s", help)
	}
}

func TestVersionTextSkipsAliases(t *testing.T) {
	r := New()
	r.Register("sqlite", func() *Descriptor { return newFakeDescriptor("sqlite", "tabular db", "", "1.0") })
	r.Register("sqlite3", func() *Descriptor { return newFakeDescriptor("sqlite", "tabular db", "", "1.0") })

	version := r.VersionText()
	if countOccurrences(version, "Backend sqlite version 1.0") != 1 {
		t.Fatalf("expected exactly one version line, got:\n%s", version)
	}
}

func countOccurrences(haystack, needle string) int {
	count := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			count++
			i += len(needle) - 1
		}
	}
	return count
}
