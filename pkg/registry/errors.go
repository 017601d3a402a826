package registry

import "errors"

// Expected membership outcomes and store failures. ErrAlreadyJoined and
// ErrNotMember are user-facing results, not failures; callers map them
// straight to a message. ErrConcurrentModification is returned only after the
// mutator has exhausted its own retries on a contended pool.
var (
	// ErrPoolNotFound indicates no live pool exists for the card ID.
	ErrPoolNotFound = errors.New("pool not found")

	// ErrPoolExists indicates CreatePool was called for a card that already has a live pool.
	ErrPoolExists = errors.New("pool already exists")

	// ErrAlreadyJoined indicates the wallet is already a participant of the pool.
	ErrAlreadyJoined = errors.New("wallet has already joined this pool")

	// ErrNotMember indicates the wallet is not a participant of the pool.
	ErrNotMember = errors.New("wallet has not joined this pool")

	// ErrConcurrentModification indicates the optimistic transaction kept
	// losing races for the same pool. The whole Join/Leave call can be retried.
	ErrConcurrentModification = errors.New("pool was modified concurrently")
)

// IsNotFound returns true if the error means "no pool for this card".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPoolNotFound)
}

// IsAlreadyJoined returns true if the error is the duplicate-join guard.
func IsAlreadyJoined(err error) bool {
	return errors.Is(err, ErrAlreadyJoined)
}

// IsNotMember returns true if the error is the missing-membership guard.
func IsNotMember(err error) bool {
	return errors.Is(err, ErrNotMember)
}

// IsConflict returns true if the error indicates a lost optimistic-transaction
// race that survived the mutator's internal retries.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
