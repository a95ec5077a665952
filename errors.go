package pvector

import "github.com/pkg/errors"

// Sentinel errors for the operations defined in this package. Callers
// compare with errors.Is; wrapped context (index values, etc.) is
// attached with errors.Wrapf so the sentinel identity survives.
var (
	// ErrIndexOutOfBounds is returned by Nth/AssocN when the index falls
	// outside [0, Count) (or [0, Count] for AssocN's append case).
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrEmptyPop is returned by Pop when the vector is already empty.
	ErrEmptyPop = errors.New("cannot pop an empty vector")

	// ErrUseAfterPersistent is returned by any TransientVector operation
	// once its edit token has been frozen by Persistent.
	ErrUseAfterPersistent = errors.New("transient vector used after persistent() was called")

	// ErrCrossThreadEdit is returned when a TransientVector operation is
	// invoked from a goroutine other than the one that created it.
	ErrCrossThreadEdit = errors.New("transient vector accessed from a different goroutine than its owner")

	// ErrKeyTypeMismatch is returned by TransientVector.Assoc when the
	// supplied key is not an integral index.
	ErrKeyTypeMismatch = errors.New("key is not an integral vector index")
)
