package listdict

import "iter"

// Dictionary is a queue whose entries are also addressable by a unique
// string key. Every key in the index refers to exactly one linked slot
// and every linked slot carries the key it is indexed under.
//
// Dictionary is not safe for concurrent use. The zero value is not usable;
// create one with New.
type Dictionary[T any] struct {
	list  *linkedList[T]
	index map[string]int
}

// New returns an empty Dictionary.
func New[T any]() *Dictionary[T] {
	return &Dictionary[T]{
		list:  newLinkedList[T](),
		index: make(map[string]int),
	}
}

// Len returns the number of entries.
func (d *Dictionary[T]) Len() int {
	return d.list.size()
}

// Add stores v under key at the back of the queue, or at the front when
// toFront is set. If key is already present nothing changes and Add
// returns false.
func (d *Dictionary[T]) Add(key string, v T, toFront bool) bool {
	if _, ok := d.index[key]; ok {
		return false
	}

	id := d.list.add(v, toFront)
	d.list.setKey(id, key)
	d.index[key] = id
	return true
}

// Contains reports whether key is present.
func (d *Dictionary[T]) Contains(key string) bool {
	_, ok := d.index[key]
	return ok
}

// PeekFirst returns the first value without removing it.
func (d *Dictionary[T]) PeekFirst() (T, bool) {
	id, ok := d.list.first()
	if !ok {
		var zero T
		return zero, false
	}
	return d.list.value(id), true
}

// FirstKey returns the key of the first entry.
func (d *Dictionary[T]) FirstKey() (string, bool) {
	id, ok := d.list.first()
	if !ok {
		return "", false
	}
	return d.list.key(id), true
}

// MoveFirstToEnd sends the first entry to the back of the queue and
// returns its value. The entry keeps its key.
func (d *Dictionary[T]) MoveFirstToEnd() (T, bool) {
	id, ok := d.list.first()
	if !ok {
		var zero T
		return zero, false
	}

	d.list.detach(id)
	d.list.reinsert(id, false)
	return d.list.value(id), true
}

// RemoveFirst removes the first entry and returns its value.
func (d *Dictionary[T]) RemoveFirst() (T, bool) {
	id, ok := d.list.first()
	if !ok {
		var zero T
		return zero, false
	}
	return d.removeSlot(id), true
}

// Remove removes the entry stored under key and returns its value.
func (d *Dictionary[T]) Remove(key string) (T, bool) {
	id, ok := d.index[key]
	if !ok {
		var zero T
		return zero, false
	}
	return d.removeSlot(id), true
}

// Get returns the value stored under key.
func (d *Dictionary[T]) Get(key string) (T, bool) {
	id, ok := d.index[key]
	if !ok {
		var zero T
		return zero, false
	}
	return d.list.value(id), true
}

// Clear removes all entries.
func (d *Dictionary[T]) Clear() {
	if d.list.size() == 0 {
		return
	}
	d.list.reset()
	clear(d.index)
}

// All yields key/value pairs from first to last. The dictionary must not
// be modified during iteration.
func (d *Dictionary[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		id, ok := d.list.first()
		if !ok {
			return
		}
		for ; id != nilSlot; id = d.list.next(id) {
			if !yield(d.list.key(id), d.list.value(id)) {
				return
			}
		}
	}
}

func (d *Dictionary[T]) removeSlot(id int) T {
	delete(d.index, d.list.key(id))
	d.list.detach(id)
	return d.list.release(id)
}
