// Package pvector implements a persistent, reference-counted-by-the-GC
// indexed sequence backed by a bit-partitioned 32-ary trie plus a tail
// buffer, together with a thread-confined TransientVector companion for
// batched in-place edits. See PersistentVector and TransientVector.
package pvector

import (
	"reflect"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/outofforest/pvector/trie"
)

const (
	// bits is the number of index bits consumed per trie level.
	bits = trie.Bits
	// width is the branching factor.
	width = trie.Width
)

// PersistentVector is an immutable, structurally-shared ordered
// collection. The zero value is not valid; use Empty, FromSlice,
// FromSequence, or Adopt.
type PersistentVector[T any] struct {
	count uint
	shift uint
	root  *trie.Node[T]
	tail  []T
	meta  Meta
}

var emptyVectors sync.Map // map[reflect.Type]any

// Empty returns the shared empty PersistentVector for T.
func Empty[T any]() *PersistentVector[T] {
	var zero T
	typ := reflect.TypeOf(&zero).Elem()
	if v, ok := emptyVectors.Load(typ); ok {
		return v.(*PersistentVector[T])
	}
	v := &PersistentVector[T]{root: trie.Empty[T]()}
	actual, _ := emptyVectors.LoadOrStore(typ, v)
	return actual.(*PersistentVector[T])
}

// FromSlice copies items into a new PersistentVector. The caller
// retains ownership of items; later mutation of items is invisible to
// the returned vector.
func FromSlice[T any](items []T) *PersistentVector[T] {
	tv := Empty[T]().AsTransient()
	for _, v := range items {
		// A freshly created TransientVector's own goroutine can never
		// observe ErrUseAfterPersistent or ErrCrossThreadEdit here.
		_, err := tv.Conj(v)
		lo.Must0(err)
	}
	return tv.Persistent()
}

// FromSequence consumes seq, building a PersistentVector one element at
// a time via a TransientVector and freezing the result.
func FromSequence[T any](seq func(yield func(T) bool)) *PersistentVector[T] {
	tv := Empty[T]().AsTransient()
	seq(func(v T) bool {
		_, err := tv.Conj(v)
		lo.Must0(err)
		return true
	})
	return tv.Persistent()
}

// Adopt builds a PersistentVector directly from arr. When len(arr) <=
// Width, arr becomes the vector's tail with no copy and ownership of
// arr passes to the returned vector: the caller must not retain a
// mutable reference to it. Larger slices are rejected: Adopt is only
// well-formed for a single full leaf, which FromSlice already covers
// without ambiguity for bigger inputs.
func Adopt[T any](arr []T) *PersistentVector[T] {
	if len(arr) > width {
		panic(errors.Errorf("pvector: Adopt called with %d elements, maximum is %d; use FromSlice or FromSequence instead", len(arr), width))
	}
	if len(arr) == 0 {
		return Empty[T]()
	}
	return &PersistentVector[T]{
		count: uint(len(arr)),
		root:  trie.Empty[T](),
		tail:  arr,
	}
}

// Count returns the number of elements in v.
func (v *PersistentVector[T]) Count() uint {
	return v.count
}

// tailoff returns the number of elements resident in the trie, i.e. the
// global index of the first tail-resident element.
func (v *PersistentVector[T]) tailoff() uint {
	if v.count < width {
		return 0
	}
	return v.count - uint(len(v.tail))
}

// leafFor returns the leaf node holding the i-th element.
func (v *PersistentVector[T]) leafFor(i uint) *trie.Node[T] {
	n := v.root
	for shift := v.shift; shift > 0; shift -= bits {
		n = n.Child((i >> shift) & trie.Mask)
	}
	return n
}

// arrayFor returns the up-to-Width-element chunk containing index i:
// the tail itself when i falls in the tail region, otherwise a
// flattened copy of the leaf array covering i.
func (v *PersistentVector[T]) arrayFor(i uint) []T {
	if i >= v.tailoff() {
		return v.tail
	}
	leaf := v.leafFor(i)
	arr := make([]T, width)
	for j := uint(0); j < width; j++ {
		arr[j] = leaf.Leaf(j)
	}
	return arr
}

// baseFor returns the global index of the first element in the chunk
// that contains i: a multiple of Width for trie-resident indices, or
// tailoff for tail-resident ones.
func (v *PersistentVector[T]) baseFor(i uint) uint {
	if i >= v.tailoff() {
		return v.tailoff()
	}
	return i - i%width
}

// Nth returns the element at index i, failing with
// ErrIndexOutOfBounds when i is outside [0, Count).
func (v *PersistentVector[T]) Nth(i uint) (T, error) {
	var zero T
	if i >= v.count {
		return zero, errors.Wrapf(ErrIndexOutOfBounds, "index %d, count %d", i, v.count)
	}
	if i >= v.tailoff() {
		return v.tail[i-v.tailoff()], nil
	}
	return v.leafFor(i).Leaf(i), nil
}

// NthOr returns the element at index i, or notFound when i is outside
// [0, Count).
func (v *PersistentVector[T]) NthOr(i uint, notFound T) T {
	val, err := v.Nth(i)
	if err != nil {
		return notFound
	}
	return val
}

// AssocN returns a new vector identical to v except that position i
// holds val. i == Count() is equivalent to Cons(val). Metadata is
// preserved.
func (v *PersistentVector[T]) AssocN(i uint, val T) (*PersistentVector[T], error) {
	switch {
	case i == v.count:
		return v.Cons(val), nil
	case i > v.count:
		return nil, errors.Wrapf(ErrIndexOutOfBounds, "index %d, count %d", i, v.count)
	case i >= v.tailoff():
		newTail := make([]T, len(v.tail))
		copy(newTail, v.tail)
		newTail[i-v.tailoff()] = val
		return &PersistentVector[T]{count: v.count, shift: v.shift, root: v.root, tail: newTail, meta: v.meta}, nil
	default:
		newRoot := trie.DoAssoc[T](v.shift, v.root, i, val)
		return &PersistentVector[T]{count: v.count, shift: v.shift, root: newRoot, tail: v.tail, meta: v.meta}, nil
	}
}

// Cons returns a new vector with val appended, preserving metadata.
func (v *PersistentVector[T]) Cons(val T) *PersistentVector[T] {
	if v.count-v.tailoff() < width {
		newTail := make([]T, len(v.tail)+1)
		copy(newTail, v.tail)
		newTail[len(v.tail)] = val
		return &PersistentVector[T]{count: v.count + 1, shift: v.shift, root: v.root, tail: newTail, meta: v.meta}
	}

	tailNode := trie.NewNode[T](trie.FrozenToken())
	for i, x := range v.tail {
		tailNode.Set(uint(i), x)
	}

	var newRoot *trie.Node[T]
	newShift := v.shift
	switch {
	case v.shift == 0:
		// The trie was empty (root is the shared sentinel): the
		// outgoing tail becomes the trie's first leaf, and shift grows
		// straight to one full level rather than staying at 0.
		newRoot = trie.NewNode[T](trie.FrozenToken())
		newRoot.Set(0, tailNode)
		newShift = bits
	case (v.count >> bits) > (1 << v.shift):
		newRoot = trie.NewNode[T](trie.FrozenToken())
		newRoot.Set(0, v.root)
		newRoot.Set(1, trie.NewPath[T](v.shift, tailNode))
		newShift += bits
	default:
		newRoot = trie.PushTail[T](v.shift, v.root, tailNode, v.count)
	}

	return &PersistentVector[T]{
		count: v.count + 1,
		shift: newShift,
		root:  newRoot,
		tail:  []T{val},
		meta:  v.meta,
	}
}

// Pop returns a new vector with the last element removed, failing with
// ErrEmptyPop when v is already empty.
func (v *PersistentVector[T]) Pop() (*PersistentVector[T], error) {
	switch v.count {
	case 0:
		return nil, errors.WithStack(ErrEmptyPop)
	case 1:
		return &PersistentVector[T]{root: trie.Empty[T](), meta: v.meta}, nil
	}

	if v.count-v.tailoff() > 1 {
		newTail := make([]T, len(v.tail)-1)
		copy(newTail, v.tail)
		return &PersistentVector[T]{count: v.count - 1, shift: v.shift, root: v.root, tail: newTail, meta: v.meta}, nil
	}

	newTailLeaf := v.leafFor(v.count - 2)
	newTail := make([]T, width)
	for i := range newTail {
		newTail[i] = newTailLeaf.Leaf(uint(i))
	}

	newRoot := trie.PopTail[T](v.shift, v.root, v.count)
	newShift := v.shift
	switch {
	case newRoot == nil:
		// The trie emptied entirely: fall back to the degenerate
		// shift-0 state shared by every vector with count <= Width.
		newRoot = trie.Empty[T]()
		newShift = 0
	case v.shift > bits && newRoot.Child(1) == nil:
		newRoot = newRoot.Child(0)
		newShift -= bits
	}

	return &PersistentVector[T]{count: v.count - 1, shift: newShift, root: newRoot, tail: newTail, meta: v.meta}, nil
}

// WithMeta returns a new vector sharing v's structure but with m
// attached as its metadata.
func (v *PersistentVector[T]) WithMeta(m Meta) *PersistentVector[T] {
	return &PersistentVector[T]{count: v.count, shift: v.shift, root: v.root, tail: v.tail, meta: m}
}

// MetaOf returns v's attached metadata, which is the zero Meta when
// none was ever attached.
func (v *PersistentVector[T]) MetaOf() Meta {
	return v.meta
}

// EmptyOf returns a new empty vector for T carrying v's metadata. It
// shares the empty trie root with Empty, not the vector value itself.
func (v *PersistentVector[T]) EmptyOf() *PersistentVector[T] {
	return &PersistentVector[T]{root: trie.Empty[T](), meta: v.meta}
}

// AsTransient snapshots v into a new TransientVector with a freshly
// allocated, thread-owned edit token. v is left unchanged.
func (v *PersistentVector[T]) AsTransient() *TransientVector[T] {
	edit := trie.NewEditToken()
	edit.StampGoroutine(currentGoroutineID())

	root := v.root.Clone(edit)
	tail := make([]T, width)
	copy(tail, v.tail)

	return &TransientVector[T]{
		count: v.count,
		shift: v.shift,
		root:  root,
		tail:  tail,
		edit:  edit,
	}
}
