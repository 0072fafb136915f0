package ids

import (
	"strings"
	"testing"
)

func TestNewIsUniqueAndSorted(t *testing.T) {
	seen := make(map[string]bool)
	var prev string
	for i := 0; i < 1000; i++ {
		id := New()
		if len(id) != 26 {
			t.Fatalf("unexpected id length: %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id: %q", id)
		}
		seen[id] = true
		if prev != "" && id <= prev {
			t.Fatalf("ids not monotonic: %q after %q", id, prev)
		}
		prev = id
	}
}

func TestReferenceUppercasesPrefix(t *testing.T) {
	ref := Reference("txn")
	if !strings.HasPrefix(ref, "TXN-") {
		t.Fatalf("unexpected reference: %q", ref)
	}
	if len(ref) != len("TXN-")+26 {
		t.Fatalf("unexpected reference length: %q", ref)
	}
}
