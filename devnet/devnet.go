// Package devnet provides deterministic, insecure guardian keys for tests
// and local development.
package devnet

import (
	"crypto/ecdsa"
	mathrand "math/rand"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/wormhole-foundation/corebridge/guardian"
)

// InsecureDeterministicEcdsaKeyByIndex generates a deterministic
// ecdsa.PrivateKey from a given index.
func InsecureDeterministicEcdsaKeyByIndex(idx uint64) *ecdsa.PrivateKey {
	// use 555 as offset to deterministically generate key 0
	r := mathrand.New(mathrand.NewSource(int64(555 + idx))) //#nosec G404 Testnet/devnet keys are not secret.

	// The scalar is read straight from the seeded stream. crypto/ecdsa's
	// GenerateKey consumes a random number of bytes before the scalar and
	// is not reproducible across calls with the same reader.
	b := make([]byte, 32)
	for {
		if _, err := r.Read(b); err != nil {
			panic(err)
		}
		key, err := ethcrypto.ToECDSA(b)
		if err == nil {
			return key
		}
	}
}

// GuardianKeys returns the first n deterministic guardian keys.
func GuardianKeys(n int) []*ecdsa.PrivateKey {
	keys := make([]*ecdsa.PrivateKey, n)
	for i := range keys {
		keys[i] = InsecureDeterministicEcdsaKeyByIndex(uint64(i)) // #nosec G115 -- number of guardians is small
	}
	return keys
}

// GuardianSet returns a guardian set of n deterministic devnet guardians
// with the given set index.
func GuardianSet(n int, index uint32) guardian.Set {
	keys := GuardianKeys(n)
	addrs := make([]common.Address, n)
	for i, k := range keys {
		addrs[i] = ethcrypto.PubkeyToAddress(k.PublicKey)
	}
	return guardian.Set{Keys: addrs, Index: index}
}
