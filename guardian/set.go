package guardian

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/wormhole-foundation/corebridge/vaa"
)

var (
	ErrSetNotFound         = errors.New("guardian set not found")
	ErrSetNotSequential    = errors.New("guardian set updates must be submitted sequentially")
	ErrNoGuardians         = errors.New("guardian set must not be empty")
	ErrTooManyGuardians    = errors.New("guardian set is too large")
	ErrNewSetHasExpiry     = errors.New("new guardian set should not have expiry time")
	ErrNotInitialized      = errors.New("no guardian set registered")
	ErrAlreadyBootstrapped = errors.New("guardian set storage already bootstrapped")
)

// Set is one generation of guardian keys. The key order is significant:
// signature verification matches a signature's guardian index against the
// position of the key in this slice.
type Set struct {
	// Guardians' public key hashes truncated by the ETH standard hashing
	// mechanism (20 bytes each).
	Keys []common.Address
	// On-chain set index
	Index uint32
	// ExpirationTime is the unix time at which this set stops being usable
	// for verification. Zero for the currently active set; stamped with
	// now + grace period the instant the set is superseded.
	ExpirationTime uint64
}

// KeyIndex returns a given address index from the guardian set. Returns
// (-1, false) if the address wasn't found and (index, true) otherwise.
func (s *Set) KeyIndex(addr common.Address) (int, bool) {
	for n, k := range s.Keys {
		if k == addr {
			return n, true
		}
	}

	return -1, false
}

func (s *Set) KeysAsHexStrings() []string {
	r := make([]string, len(s.Keys))

	for n, k := range s.Keys {
		r[n] = k.Hex()
	}

	return r
}

// Quorum returns the number of valid signatures required for this set.
func (s *Set) Quorum() int {
	return vaa.CalculateQuorum(len(s.Keys))
}

// IsActive reports whether the set may still be used for verification at the
// given time. A superseded set remains usable until its grace period elapses
// so in-flight VAAs signed just before a rotation are not orphaned.
func (s *Set) IsActive(now time.Time) bool {
	return s.ExpirationTime == 0 || uint64(now.Unix()) < s.ExpirationTime // #nosec G115 -- unix time is non-negative
}

// ValidateBasic performs basic validation of the guardian set.
func (s *Set) ValidateBasic() error {
	if len(s.Keys) == 0 {
		return ErrNoGuardians
	}
	if len(s.Keys) > vaa.MaxGuardianCount {
		return fmt.Errorf("%w: %d keys, maximum is %d", ErrTooManyGuardians, len(s.Keys), vaa.MaxGuardianCount)
	}

	seen := make(map[common.Address]bool, len(s.Keys))
	for i, k := range s.Keys {
		if seen[k] {
			return fmt.Errorf("duplicate guardian address at index %d: %s", i, k.Hex())
		}
		seen[k] = true
	}

	return nil
}
