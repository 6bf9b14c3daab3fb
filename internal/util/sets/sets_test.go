package sets

import "testing"

func TestSet(t *testing.T) {
	s := New("a.js")
	if !s.Has("a.js") || s.Has("b.js") {
		t.Fatalf("unexpected membership: %v", s)
	}
	if !s.Insert("b.js") {
		t.Fatal("expected first insert of b.js to succeed")
	}
	if s.Insert("b.js") {
		t.Fatal("expected second insert of b.js to report duplicate")
	}
	s.Add("c.js")
	if len(s) != 3 {
		t.Fatalf("expected 3 members, got %d", len(s))
	}
}

func TestSet_CompositeKey(t *testing.T) {
	s := New[[2]string]()
	if !s.Insert([2]string{"src/a.js", "a.js"}) {
		t.Fatal("expected insert")
	}
	if !s.Insert([2]string{"src/a.js", "b.js"}) {
		t.Fatal("different destination must be distinct")
	}
	if s.Insert([2]string{"src/a.js", "a.js"}) {
		t.Fatal("expected duplicate")
	}
}
