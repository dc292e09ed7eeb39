// Package listdict implements an ordered queue that is also a
// uniquely-keyed lookup table.
//
// Entries can be appended or prepended, peeked, rotated from the front to
// the back, removed from the front, and looked up or removed by key, all in
// O(1). Nodes are kept in a slot slice owned by the list; the key index
// stores slot numbers rather than pointers, and freed slots are reused.
package listdict
