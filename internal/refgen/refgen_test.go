package refgen

import "testing"

func TestGenerateFormat(t *testing.T) {
	g := New()
	for i := 0; i < 100; i++ {
		ref := g.Generate()
		if len(ref) != Length {
			t.Fatalf("reference %q has length %d, want %d", ref, len(ref), Length)
		}
		for _, r := range ref {
			if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
				t.Fatalf("reference %q contains non-uppercase-alphanumeric %q", ref, r)
			}
		}
	}
}

// References are 8 hex chars, a space of 16^8. At 10k draws the birthday
// bound puts one collision at roughly 1%, so a single duplicate is within
// normal operation (the storage layer enforces uniqueness and the
// coordinator retries). Two duplicates in one run would mean the generator
// is not drawing uniformly.
func TestGenerateUniqueness(t *testing.T) {
	g := New()
	seen := make(map[string]struct{}, 10000)
	dups := 0
	for i := 0; i < 10000; i++ {
		ref := g.Generate()
		if _, dup := seen[ref]; dup {
			dups++
		}
		seen[ref] = struct{}{}
	}
	if dups > 1 {
		t.Fatalf("%d duplicate references in 10000 generations", dups)
	}
}
