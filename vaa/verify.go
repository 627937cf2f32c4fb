package vaa

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// verifySignature recovers the signing address for the given digest and
// checks that it matches the expected guardian address.
func verifySignature(digest []byte, sig *Signature, address common.Address) bool {
	pubKey, err := ethcrypto.Ecrecover(digest, sig.Signature[:])
	if err != nil {
		return false
	}
	addr := common.BytesToAddress(ethcrypto.Keccak256(pubKey[1:])[12:])

	return addr == address
}

// verifySignatures checks every attached signature against the guardian
// addresses. The first mismatch, recovery failure, out-of-bounds index or
// non-increasing index aborts verification; there is no partial success.
//
// Unmarshal already rejects non-increasing indices, but the invariant is
// cheap to re-check and this function also accepts signatures that did not
// come through the codec.
func verifySignatures(digest []byte, signatures []*Signature, addresses []common.Address) error {
	lastIndex := -1
	for _, sig := range signatures {
		if int(sig.Index) >= len(addresses) {
			return fmt.Errorf("%w: index %d, set size %d", ErrGuardianIndexOutOfBounds, sig.Index, len(addresses))
		}
		if int(sig.Index) <= lastIndex {
			return fmt.Errorf("%w: %d after %d", ErrSignaturesOutOfOrder, sig.Index, lastIndex)
		}
		lastIndex = int(sig.Index)

		if !verifySignature(digest, sig, addresses[sig.Index]) {
			return fmt.Errorf("%w: guardian index %d", ErrInvalidSignature, sig.Index)
		}
	}

	return nil
}

// Verify checks the VAA's signatures against the complete key set of one
// guardian set and enforces quorum. It returns nil if the VAA passes all
// checks.
//
// Verify does not know whether the given guardian set is the right one for
// v.GuardianSetIndex, nor whether it is still active; callers compose those
// checks with a registry lookup.
func (v *VAA) Verify(addresses []common.Address) error {
	if len(addresses) == 0 {
		return fmt.Errorf("no guardian addresses were provided")
	}

	if len(v.Signatures) == 0 {
		return ErrNoSignatures
	}

	quorum := CalculateQuorum(len(addresses))
	if len(v.Signatures) < quorum {
		return fmt.Errorf("%w: %d signatures, quorum is %d", ErrNoQuorum, len(v.Signatures), quorum)
	}

	return verifySignatures(v.SigningDigest().Bytes(), v.Signatures, addresses)
}
