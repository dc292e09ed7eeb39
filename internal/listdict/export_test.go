package listdict

import "fmt"

// CheckInvariants walks the list in both directions and compares the
// result with the key index.
func (d *Dictionary[T]) CheckInvariants() error {
	l := d.list

	if (l.len == 0) != (l.head == nilSlot) || (l.len == 0) != (l.tail == nilSlot) {
		return fmt.Errorf("len=%d head=%d tail=%d", l.len, l.head, l.tail)
	}

	forward := 0
	for id := l.head; id != nilSlot; id = l.next(id) {
		forward++
		if forward > l.len {
			return fmt.Errorf("forward walk exceeds len %d", l.len)
		}
		key := l.key(id)
		if got, ok := d.index[key]; !ok || got != id {
			return fmt.Errorf("slot %d with key %q is not indexed", id, key)
		}
		if l.next(id) == nilSlot && id != l.tail {
			return fmt.Errorf("forward walk ended at %d, tail is %d", id, l.tail)
		}
	}
	backward := 0
	for id := l.tail; id != nilSlot; id = l.prev(id) {
		backward++
		if backward > l.len {
			return fmt.Errorf("backward walk exceeds len %d", l.len)
		}
	}
	if forward != l.len || backward != l.len {
		return fmt.Errorf("walks forward=%d backward=%d, len=%d", forward, backward, l.len)
	}
	if len(d.index) != l.len {
		return fmt.Errorf("index has %d keys, len=%d", len(d.index), l.len)
	}

	used := 0
	for _, n := range l.nodes {
		if n.used {
			used++
		}
	}
	if used != l.len {
		return fmt.Errorf("%d slots in use, len=%d", used, l.len)
	}
	return nil
}

// Slots returns the size of the slot slice.
func (d *Dictionary[T]) Slots() int {
	return len(d.list.nodes)
}
