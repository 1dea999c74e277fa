package ids

import (
	"strings"
	"testing"
)

func TestNewPrefixed(t *testing.T) {
	id := NewPrefixed("usr")
	if !strings.HasPrefix(id, "usr_") {
		t.Fatalf("expected usr_ prefix, got %s", id)
	}
	if len(id) != len("usr_")+26 {
		t.Fatalf("unexpected length: %s", id)
	}
	if NewPrefixed("") == "" {
		t.Fatal("empty kind should still produce an id")
	}
}

func TestNewIsUniqueAndSortable(t *testing.T) {
	seen := make(map[string]struct{})
	prev := ""
	for i := 0; i < 1000; i++ {
		id := New()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
		if id < prev {
			t.Fatalf("ids not monotonic: %s after %s", id, prev)
		}
		prev = id
	}
}
