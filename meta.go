package pvector

import "github.com/outofforest/iradix"

// Meta is the opaque key/value metadata every PersistentVector may
// carry. It is itself a small persistent radix tree over string keys,
// so attaching metadata to one vector never disturbs another vector
// that shares structure with it, and successive WithMeta calls share
// storage exactly the way trie nodes do. The zero Meta is the empty,
// absent map.
type Meta struct {
	root *iradix.Tree[any]
}

// NewMeta returns an empty Meta.
func NewMeta() Meta {
	return Meta{root: iradix.New[any]()}
}

// Len returns the number of keys stored in m.
func (m Meta) Len() int {
	if m.root == nil {
		return 0
	}
	return m.root.Len()
}

// Get returns the value stored under key and whether it was present.
func (m Meta) Get(key string) (any, bool) {
	if m.root == nil {
		return nil, false
	}
	return m.root.Get([]byte(key))
}

// Set returns a new Meta with key bound to val, sharing storage with m
// for every other key.
func (m Meta) Set(key string, val any) Meta {
	root := m.root
	if root == nil {
		root = iradix.New[any]()
	}
	txn := iradix.NewTxn(root)
	txn.Insert([]byte(key), val)
	return Meta{root: txn.Root()}
}

// Delete returns a new Meta with key removed, or m unchanged if key was
// not present.
func (m Meta) Delete(key string) Meta {
	if m.root == nil {
		return m
	}
	txn := iradix.NewTxn(m.root)
	txn.Delete([]byte(key))
	return Meta{root: txn.Root()}
}
