package listdict

// nilSlot marks an absent neighbour or endpoint.
const nilSlot = -1

// linkedList is a doubly linked list whose nodes live in a slot slice.
// Links are slot indices, so a slot can be detached and linked again
// without being reallocated.
type linkedList[T any] struct {
	nodes []listNode[T]
	free  []int

	head int
	tail int
	len  int
}

type listNode[T any] struct {
	next int
	prev int

	// key is set by Dictionary; the list never reads it.
	key    string
	linked bool
	used   bool

	Value T
}

func newLinkedList[T any]() *linkedList[T] {
	return &linkedList[T]{head: nilSlot, tail: nilSlot}
}

func (l *linkedList[T]) size() int {
	return l.len
}

func (l *linkedList[T]) first() (int, bool) {
	if l.len == 0 {
		return nilSlot, false
	}
	return l.head, true
}

func (l *linkedList[T]) last() (int, bool) {
	if l.len == 0 {
		return nilSlot, false
	}
	return l.tail, true
}

// add stores v in a fresh or recycled slot and links it at the back,
// or at the front when toFront is set.
func (l *linkedList[T]) add(v T, toFront bool) int {
	id := l.alloc()
	l.nodes[id].Value = v
	l.reinsert(id, toFront)
	return id
}

// reinsert links a detached slot at the back or the front.
func (l *linkedList[T]) reinsert(id int, toFront bool) {
	n := &l.nodes[id]
	if n.linked {
		return
	}

	if toFront {
		n.prev = nilSlot
		n.next = l.head
		if l.head != nilSlot {
			l.nodes[l.head].prev = id
		}
		l.head = id
		if l.tail == nilSlot {
			l.tail = id
		}
	} else {
		n.next = nilSlot
		n.prev = l.tail
		if l.tail != nilSlot {
			l.nodes[l.tail].next = id
		}
		l.tail = id
		if l.head == nilSlot {
			l.head = id
		}
	}
	n.linked = true
	l.len++
}

// detach unlinks id from the list. The slot keeps its value and key.
func (l *linkedList[T]) detach(id int) {
	n := &l.nodes[id]
	if !n.linked {
		return
	}

	if n.prev != nilSlot {
		l.nodes[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nilSlot {
		l.nodes[n.next].prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.next = nilSlot
	n.prev = nilSlot
	n.linked = false
	l.len--
}

// release returns a detached slot to the free list and hands back its value.
func (l *linkedList[T]) release(id int) T {
	n := &l.nodes[id]
	v := n.Value

	var zero T
	n.Value = zero
	n.key = ""
	n.used = false
	l.free = append(l.free, id)
	return v
}

func (l *linkedList[T]) value(id int) T {
	return l.nodes[id].Value
}

func (l *linkedList[T]) key(id int) string {
	return l.nodes[id].key
}

func (l *linkedList[T]) setKey(id int, key string) {
	l.nodes[id].key = key
}

func (l *linkedList[T]) next(id int) int {
	return l.nodes[id].next
}

func (l *linkedList[T]) prev(id int) int {
	return l.nodes[id].prev
}

func (l *linkedList[T]) reset() {
	l.nodes = nil
	l.free = nil
	l.head = nilSlot
	l.tail = nilSlot
	l.len = 0
}

func (l *linkedList[T]) alloc() int {
	if n := len(l.free); n > 0 {
		id := l.free[n-1]
		l.free = l.free[:n-1]
		l.nodes[id] = listNode[T]{next: nilSlot, prev: nilSlot, used: true}
		return id
	}
	l.nodes = append(l.nodes, listNode[T]{next: nilSlot, prev: nilSlot, used: true})
	return len(l.nodes) - 1
}
