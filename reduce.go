package pvector

// Reduced wraps a fold's final value to signal early termination. A
// combining function passed to Reduce, ReduceFrom, KVReduce, or
// ChunkedSeq.Reduce may return a Reduced[T] instead of a plain T to
// stop the fold immediately; the driver unwraps it and returns without
// visiting the remaining elements.
type Reduced[T any] struct {
	Val T
}

// IsReduced reports whether a fold's combining function asked to stop
// by returning a Reduced[T] wrapper instead of a plain T.
func IsReduced[T any](res any) bool {
	_, ok := res.(Reduced[T])
	return ok
}

// Unwrap returns the value carried by a Reduced[T] wrapper. Callers
// must check IsReduced first; Unwrap panics on a plain T.
func Unwrap[T any](res any) T {
	return res.(Reduced[T]).Val
}

// reducedOrNext inspects a combining function's result, returning the
// unwrapped Reduced value and true when the fold should stop, or the
// plain next accumulator and false when it should continue. It is
// IsReduced followed by Unwrap-or-pass-through, fused into the single
// branch every fold driver in this file needs.
func reducedOrNext[T any](res any) (T, bool) {
	if IsReduced[T](res) {
		return Unwrap[T](res), true
	}
	return res.(T), false
}

// Reduce left-folds f over v's elements with no explicit seed: the
// first element is the seed. Reduce returns the zero value of T
// without calling f when v is empty — Go has no zero-arity calling
// convention for f.
func (v *PersistentVector[T]) Reduce(f func(acc, elem T) any) T {
	var zero T
	if v.count == 0 {
		return zero
	}
	seed, _ := v.Nth(0)
	return v.foldChunks(f, seed, 1)
}

// ReduceFrom left-folds f over v's elements starting from init.
func (v *PersistentVector[T]) ReduceFrom(f func(acc, elem T) any, init T) T {
	return v.foldChunks(f, init, 0)
}

// KVReduce left-folds f over v's elements, passing the combining
// function each element's global index alongside the running
// accumulator and the element itself.
func (v *PersistentVector[T]) KVReduce(f func(acc T, i uint, elem T) any, init T) T {
	acc := init
	tailoff := v.tailoff()
	for base := uint(0); base < tailoff; base += width {
		leaf := v.arrayFor(base)
		for j, x := range leaf {
			next, stop := reducedOrNext[T](f(acc, base+uint(j), x))
			if stop {
				return next
			}
			acc = next
		}
	}
	for j, x := range v.tail {
		next, stop := reducedOrNext[T](f(acc, tailoff+uint(j), x))
		if stop {
			return next
		}
		acc = next
	}
	return acc
}

// foldChunks walks v's leaves and tail in chunk order starting at the
// global index start, applying f to every element from start onward.
func (v *PersistentVector[T]) foldChunks(f func(acc, elem T) any, init T, start uint) T {
	acc := init
	tailoff := v.tailoff()
	base := start - start%width
	for ; base < tailoff; base += width {
		leaf := v.arrayFor(base)
		lo := uint(0)
		if base < start {
			lo = start - base
		}
		for j := lo; j < uint(len(leaf)); j++ {
			next, stop := reducedOrNext[T](f(acc, leaf[j]))
			if stop {
				return next
			}
			acc = next
		}
	}

	lo := uint(0)
	if start > tailoff {
		lo = start - tailoff
	}
	for j := lo; j < uint(len(v.tail)); j++ {
		next, stop := reducedOrNext[T](f(acc, v.tail[j]))
		if stop {
			return next
		}
		acc = next
	}
	return acc
}
