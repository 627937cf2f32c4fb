package guardian

import (
	"fmt"
	"time"
)

// Storage is the minimal persistence surface the registry needs. The
// implementation owns atomicity: CommitRotation must store both sets and
// advance the current index within one atomic unit.
type Storage interface {
	// GuardianSet returns the set with the given index, if stored.
	GuardianSet(index uint32) (Set, bool, error)
	// CurrentIndex returns the index of the active set. The boolean is
	// false while no set has ever been stored.
	CurrentIndex() (uint32, bool, error)
	// Bootstrap stores the very first guardian set (index 0) and makes it
	// current. Fails if any set is already stored.
	Bootstrap(initial Set) error
	// CommitRotation stores the expiring outgoing set, inserts the incoming
	// set and advances the current index to it, atomically.
	CommitRotation(outgoing, incoming Set) error
}

// Registry is the versioned collection of guardian sets. Sets form a
// strictly increasing, gapless index sequence starting at 0; at most one set
// is without expiration time.
type Registry struct {
	storage Storage
}

func NewRegistry(storage Storage) *Registry {
	return &Registry{storage: storage}
}

// Bootstrap registers the initial guardian set. The set must carry index 0
// and no expiration time.
func (r *Registry) Bootstrap(initial Set) error {
	if err := initial.ValidateBasic(); err != nil {
		return err
	}
	if initial.Index != 0 {
		return fmt.Errorf("%w: initial set must have index 0, got %d", ErrSetNotSequential, initial.Index)
	}
	if initial.ExpirationTime != 0 {
		return ErrNewSetHasExpiry
	}

	return r.storage.Bootstrap(initial)
}

// CurrentIndex returns the index of the active guardian set.
func (r *Registry) CurrentIndex() (uint32, error) {
	index, ok, err := r.storage.CurrentIndex()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrNotInitialized
	}
	return index, nil
}

// Current returns the active guardian set.
func (r *Registry) Current() (Set, error) {
	index, err := r.CurrentIndex()
	if err != nil {
		return Set{}, err
	}
	return r.Get(index)
}

// Get returns the guardian set with the given index.
func (r *Registry) Get(index uint32) (Set, error) {
	set, ok, err := r.storage.GuardianSet(index)
	if err != nil {
		return Set{}, err
	}
	if !ok {
		return Set{}, fmt.Errorf("%w: index %d", ErrSetNotFound, index)
	}
	return set, nil
}

// Rotate supersedes the active guardian set with newSet. newSet must carry
// exactly the next index and at least one guardian. The outgoing set is
// stamped with an expiration of now + gracePeriod, so VAAs signed by it keep
// verifying until then.
func (r *Registry) Rotate(newSet Set, gracePeriod time.Duration, now time.Time) error {
	if err := newSet.ValidateBasic(); err != nil {
		return err
	}
	if newSet.ExpirationTime != 0 {
		return ErrNewSetHasExpiry
	}

	current, err := r.Current()
	if err != nil {
		return err
	}
	if newSet.Index != current.Index+1 {
		return fmt.Errorf("%w: have %d, got %d", ErrSetNotSequential, current.Index, newSet.Index)
	}

	current.ExpirationTime = uint64(now.Add(gracePeriod).Unix()) // #nosec G115 -- unix time is non-negative

	return r.storage.CommitRotation(current, newSet)
}
