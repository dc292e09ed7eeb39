package listdict

import "testing"

func values(l *linkedList[int]) []int {
	var out []int
	id, ok := l.first()
	if !ok {
		return out
	}
	for ; id != nilSlot; id = l.next(id) {
		out = append(out, l.value(id))
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLinkedListEmpty(t *testing.T) {
	l := newLinkedList[int]()
	if id, ok := l.first(); ok || id != nilSlot {
		t.Fatalf("first() on empty list = (%d, %v), want (%d, false)", id, ok, nilSlot)
	}
	if id, ok := l.last(); ok || id != nilSlot {
		t.Fatalf("last() on empty list = (%d, %v), want (%d, false)", id, ok, nilSlot)
	}
	if l.size() != 0 {
		t.Fatalf("size = %d, want 0", l.size())
	}
}

func TestLinkedListAddBackAndFront(t *testing.T) {
	l := newLinkedList[int]()

	e1 := l.add(1, false) // [1]
	e2 := l.add(2, false) // [1 2]
	e3 := l.add(3, true)  // [3 1 2]

	if l.size() != 3 {
		t.Fatalf("size = %d, want 3", l.size())
	}
	if got, _ := l.first(); got != e3 {
		t.Fatalf("first() = %d, want %d", got, e3)
	}
	if got, _ := l.last(); got != e2 {
		t.Fatalf("last() = %d, want %d", got, e2)
	}
	if got := l.prev(e1); got != e3 {
		t.Fatalf("prev(e1) = %d, want %d", got, e3)
	}
	if got := l.prev(e3); got != nilSlot {
		t.Fatalf("prev(e3) = %d, want nil", got)
	}
	if got := values(l); !equalInts(got, []int{3, 1, 2}) {
		t.Fatalf("values = %v, want [3 1 2]", got)
	}
}

func TestLinkedListDetachMiddleAndEnds(t *testing.T) {
	l := newLinkedList[int]()
	e1 := l.add(1, false)
	e2 := l.add(2, false)
	e3 := l.add(3, false)

	l.detach(e2) // [1 3]
	if l.size() != 2 {
		t.Fatalf("size = %d, want 2", l.size())
	}
	if got := l.next(e1); got != e3 {
		t.Fatalf("next(e1) = %d, want %d", got, e3)
	}
	if got := l.prev(e3); got != e1 {
		t.Fatalf("prev(e3) = %d, want %d", got, e1)
	}
	if l.next(e2) != nilSlot || l.prev(e2) != nilSlot {
		t.Fatal("detached slot should have no neighbours")
	}

	l.detach(e1) // [3]
	if got, _ := l.first(); got != e3 {
		t.Fatalf("first() = %d, want %d", got, e3)
	}
	l.detach(e3) // []
	if _, ok := l.first(); ok {
		t.Fatal("first() should be empty")
	}
	if _, ok := l.last(); ok {
		t.Fatal("last() should be empty")
	}
	if l.size() != 0 {
		t.Fatalf("size = %d, want 0", l.size())
	}
}

func TestLinkedListReinsertKeepsSlot(t *testing.T) {
	l := newLinkedList[int]()
	e1 := l.add(1, false)
	l.add(2, false)
	l.setKey(e1, "one")

	l.detach(e1)
	l.reinsert(e1, false) // [2 1]

	if got, _ := l.last(); got != e1 {
		t.Fatalf("last() = %d, want %d", got, e1)
	}
	if l.key(e1) != "one" {
		t.Fatalf("key = %q, want %q", l.key(e1), "one")
	}
	if got := values(l); !equalInts(got, []int{2, 1}) {
		t.Fatalf("values = %v, want [2 1]", got)
	}

	l.detach(e1)
	l.reinsert(e1, true) // [1 2]
	if got := values(l); !equalInts(got, []int{1, 2}) {
		t.Fatalf("values = %v, want [1 2]", got)
	}
}

func TestLinkedListIgnoreRepeatedOperations(t *testing.T) {
	l := newLinkedList[int]()
	e := l.add(1, false)

	// linked slot should not be linked twice
	l.reinsert(e, true)
	if l.size() != 1 {
		t.Fatalf("size after double reinsert = %d, want 1", l.size())
	}

	l.detach(e)
	l.detach(e)
	if l.size() != 0 {
		t.Fatalf("size after double detach = %d, want 0", l.size())
	}
}

func TestLinkedListReleaseReusesSlot(t *testing.T) {
	l := newLinkedList[int]()
	e1 := l.add(1, false)
	l.add(2, false)

	l.detach(e1)
	if got := l.release(e1); got != 1 {
		t.Fatalf("release() = %d, want 1", got)
	}

	e3 := l.add(3, false)
	if e3 != e1 {
		t.Fatalf("add() after release = slot %d, want reused slot %d", e3, e1)
	}
	if len(l.nodes) != 2 {
		t.Fatalf("slots = %d, want 2", len(l.nodes))
	}
	if got := values(l); !equalInts(got, []int{2, 3}) {
		t.Fatalf("values = %v, want [2 3]", got)
	}
}

func TestLinkedListReset(t *testing.T) {
	l := newLinkedList[int]()
	l.add(1, false)
	l.add(2, false)

	l.reset()
	if l.size() != 0 {
		t.Fatalf("size = %d, want 0", l.size())
	}
	if _, ok := l.first(); ok {
		t.Fatal("first() should be empty after reset")
	}
	if got := values(l); len(got) != 0 {
		t.Fatalf("values = %v, want empty", got)
	}
}
