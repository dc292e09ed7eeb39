package model

type Item struct {
	Key   string
	Value []byte

	Flags uint32
	CAS   uint64
}

// Clone returns a copy that shares no memory with it.
func (it *Item) Clone() *Item {
	v := make([]byte, len(it.Value))
	copy(v, it.Value)
	return &Item{
		Key:   it.Key,
		Value: v,
		Flags: it.Flags,
		CAS:   it.CAS,
	}
}
