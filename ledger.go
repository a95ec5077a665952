package pvector

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// Ledger publishes successive PersistentVector snapshots for lock-free
// concurrent readers using the same single-writer root-swap mechanism
// memdb.go uses to publish its radix-tree table root, retargeted at one
// vector value instead of a whole schema's worth of indexes.
//
// Ledger is a convenience wrapper, not a new container type: it holds
// exactly one PersistentVector at a time and never exposes a
// TransientVector across goroutines.
type Ledger[T any] struct {
	root unsafe.Pointer // *PersistentVector[T]

	// There can only be a single writer at once.
	writer sync.Mutex
}

// NewLedger returns a Ledger publishing the empty vector.
func NewLedger[T any]() *Ledger[T] {
	l := &Ledger[T]{}
	atomic.StorePointer(&l.root, unsafe.Pointer(Empty[T]()))
	return l
}

// Snapshot returns the currently published PersistentVector. Safe to
// call from any goroutine at any time without synchronization: the
// vector it returns is immutable for as long as any reference to it
// survives.
func (l *Ledger[T]) Snapshot() *PersistentVector[T] {
	return (*PersistentVector[T])(atomic.LoadPointer(&l.root))
}

// Update takes the single-writer lock, applies fn to the currently
// published snapshot, publishes fn's result, and returns it. fn must
// be a pure function of its argument; Update itself provides the
// release fence required between the last write and any subsequent
// reader's Snapshot.
func (l *Ledger[T]) Update(fn func(*PersistentVector[T]) *PersistentVector[T]) *PersistentVector[T] {
	l.writer.Lock()
	defer l.writer.Unlock()

	next := fn(l.Snapshot())
	atomic.StorePointer(&l.root, unsafe.Pointer(next))
	return next
}

// AwaitWriter blocks until any in-flight Update completes.
func (l *Ledger[T]) AwaitWriter() {
	l.writer.Lock()
	l.writer.Unlock() //nolint:staticcheck
}
