package pvector

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/outofforest/pvector/trie"
)

// TransientVector is the mutable, thread-confined sibling of
// PersistentVector. It is created by PersistentVector.AsTransient,
// accumulates edits in place, and is turned back into an immutable
// PersistentVector by Persistent. Every method that returns an error
// fails with ErrUseAfterPersistent once Persistent has been called, and
// with ErrCrossThreadEdit if invoked from any goroutine other than the
// one that created it; NthOr, ValAt, ValAtOr, ContainsKey and EntryAt
// report such a failure as a missing element. Persistent itself checks
// neither condition.
type TransientVector[T any] struct {
	count uint
	shift uint
	root  *trie.Node[T]
	tail  []T
	edit  *trie.EditToken
}

func (tv *TransientVector[T]) checkEditable() error {
	if !tv.edit.Live() {
		return errors.WithStack(ErrUseAfterPersistent)
	}
	if owner, ok := tv.edit.OwnerGoroutine(); ok && owner != currentGoroutineID() {
		return errors.WithStack(ErrCrossThreadEdit)
	}
	return nil
}

// Count returns the number of elements currently held by tv.
func (tv *TransientVector[T]) Count() (uint, error) {
	if err := tv.checkEditable(); err != nil {
		return 0, err
	}
	return tv.count, nil
}

func (tv *TransientVector[T]) tailoff() uint {
	if tv.count < width {
		return 0
	}
	return tv.count - (tv.count - tailStart(tv.count))
}

// tailStart returns the global index of the first tail-resident
// element for a transient of the given count (the wide, fixed-width
// tail always starts at the same boundary as a persistent vector's).
func tailStart(count uint) uint {
	if count < width {
		return 0
	}
	return ((count - 1) >> bits) << bits
}

func (tv *TransientVector[T]) leafFor(i uint) *trie.Node[T] {
	n := tv.root
	for shift := tv.shift; shift > 0; shift -= bits {
		n = n.Child((i >> shift) & trie.Mask)
	}
	return n
}

// Nth returns the element at index i.
func (tv *TransientVector[T]) Nth(i uint) (T, error) {
	var zero T
	if err := tv.checkEditable(); err != nil {
		return zero, err
	}
	if i >= tv.count {
		return zero, errors.Wrapf(ErrIndexOutOfBounds, "index %d, count %d", i, tv.count)
	}
	off := tailStart(tv.count)
	if i >= off {
		return tv.tail[i-off], nil
	}
	return tv.leafFor(i).Leaf(i), nil
}

// NthOr returns the element at index i, or notFound if out of range or
// if tv has already been frozen.
func (tv *TransientVector[T]) NthOr(i uint, notFound T) T {
	v, err := tv.Nth(i)
	if err != nil {
		return notFound
	}
	return v
}

// AssocN sets the element at index i to val, appending when i ==
// Count().
func (tv *TransientVector[T]) AssocN(i uint, val T) error {
	if err := tv.checkEditable(); err != nil {
		return err
	}
	if i == tv.count {
		_, err := tv.Conj(val)
		return err
	}
	if i > tv.count {
		return errors.Wrapf(ErrIndexOutOfBounds, "index %d, count %d", i, tv.count)
	}
	off := tailStart(tv.count)
	if i >= off {
		tv.tail[i-off] = val
		return nil
	}
	tv.root = trie.EditAssoc[T](tv.shift, tv.root, tv.edit, i, val)
	return nil
}

// Conj appends val, growing the trie in place when the wide tail is
// full. Returns tv for chaining, matching Clojure's conj! convention.
func (tv *TransientVector[T]) Conj(val T) (*TransientVector[T], error) {
	if err := tv.checkEditable(); err != nil {
		return nil, err
	}

	off := tailStart(tv.count)
	if tv.count-off < width {
		tv.tail[tv.count-off] = val
		tv.count++
		return tv, nil
	}

	tailNode := trie.NewNode[T](tv.edit)
	for i := uint(0); i < width; i++ {
		tailNode.Set(i, tv.tail[i])
	}

	switch {
	case tv.shift == 0:
		newRoot := trie.NewNode[T](tv.edit)
		newRoot.Set(0, tailNode)
		tv.root = newRoot
		tv.shift = bits
	case (tv.count >> bits) > (1 << tv.shift):
		newRoot := trie.NewNode[T](tv.edit)
		newRoot.Set(0, tv.root)
		newRoot.Set(1, trie.NewPath[T](tv.shift, tailNode))
		tv.root = newRoot
		tv.shift += bits
	default:
		tv.root = trie.EditPushTail[T](tv.shift, tv.root, tv.edit, tailNode, tv.count)
	}

	tv.tail = make([]T, width)
	tv.tail[0] = val
	tv.count++
	return tv, nil
}

// Pop removes the last element in place, failing with ErrEmptyPop when
// tv is already empty. The tail slot vacated by a pop that stays within
// the tail is left untouched: it becomes live again, and visible, only
// once a later Conj overwrites it.
func (tv *TransientVector[T]) Pop() error {
	if err := tv.checkEditable(); err != nil {
		return err
	}
	if tv.count == 0 {
		return errors.WithStack(ErrEmptyPop)
	}
	if tv.count == 1 {
		tv.count = 0
		tv.shift = 0
		tv.root = trie.Empty[T]()
		return nil
	}

	off := tailStart(tv.count)
	if tv.count-off > 1 {
		tv.count--
		return nil
	}

	newTailLeaf := tv.leafFor(tv.count - 2)
	newTail := make([]T, width)
	for i := uint(0); i < width; i++ {
		newTail[i] = newTailLeaf.Leaf(i)
	}

	newRoot := trie.EditPopTail[T](tv.shift, tv.root, tv.edit, tv.count)
	switch {
	case newRoot == nil:
		newRoot = trie.Empty[T]()
		tv.shift = 0
	case tv.shift > bits && newRoot.Child(1) == nil:
		newRoot = newRoot.Child(0)
		tv.shift -= bits
	}

	tv.root = newRoot
	tv.tail = newTail
	tv.count--
	return nil
}

// Assoc treats key as a vector index when it is an integral type,
// failing with ErrKeyTypeMismatch otherwise. It mirrors AssocN, adapted
// for the integer-keyed-map view TransientVector exposes alongside
// positional access.
func (tv *TransientVector[T]) Assoc(key any, val T) error {
	i, ok := asIndex(key)
	if !ok {
		return errors.WithStack(ErrKeyTypeMismatch)
	}
	return tv.AssocN(i, val)
}

// ValAt returns the element at integral key, and whether it existed.
func (tv *TransientVector[T]) ValAt(key any) (T, bool) {
	var zero T
	i, ok := asIndex(key)
	if !ok {
		return zero, false
	}
	v, err := tv.Nth(i)
	if err != nil {
		return zero, false
	}
	return v, true
}

// ValAtOr returns the element at integral key, or notFound.
func (tv *TransientVector[T]) ValAtOr(key any, notFound T) T {
	v, ok := tv.ValAt(key)
	if !ok {
		return notFound
	}
	return v
}

// ContainsKey reports whether key is an integral index within range.
func (tv *TransientVector[T]) ContainsKey(key any) bool {
	_, ok := tv.ValAt(key)
	return ok
}

// EntryAt returns (key, value, true) when key is an integral index
// within range.
func (tv *TransientVector[T]) EntryAt(key any) (any, T, bool) {
	v, ok := tv.ValAt(key)
	if !ok {
		var zero T
		return nil, zero, false
	}
	return key, v, true
}

// Persistent freezes tv's edit token, trims the wide tail down to its
// live length, and returns a fresh PersistentVector reusing tv's root.
// Any further operation on tv fails with ErrUseAfterPersistent.
func (tv *TransientVector[T]) Persistent() *PersistentVector[T] {
	tv.edit.Freeze()

	off := tailStart(tv.count)
	tail := make([]T, tv.count-off)
	copy(tail, tv.tail[:len(tail)])

	return &PersistentVector[T]{
		count: tv.count,
		shift: tv.shift,
		root:  tv.root,
		tail:  tail,
	}
}

func asIndex(key any) (uint, bool) {
	v := reflect.ValueOf(key)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := v.Int()
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uint(v.Uint()), true
	default:
		return 0, false
	}
}
