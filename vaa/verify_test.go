package vaa

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testGuardians returns n freshly generated guardian keys and their addresses.
func testGuardians(t *testing.T, n int) ([]*ecdsa.PrivateKey, []common.Address) {
	t.Helper()
	keys := make([]*ecdsa.PrivateKey, n)
	addrs := make([]common.Address, n)
	for i := range keys {
		keys[i] = testKey(t)
		addrs[i] = ethcrypto.PubkeyToAddress(keys[i].PublicKey)
	}
	return keys, addrs
}

func TestVerifyQuorumMonotonicity(t *testing.T) {
	keys, addrs := testGuardians(t, 7)
	quorum := CalculateQuorum(len(addrs)) // 5

	v := getVAA()
	for i := 0; i < quorum-1; i++ {
		v.AddSignature(keys[i], uint8(i)) // #nosec G115
	}
	assert.ErrorIs(t, v.Verify(addrs), ErrNoQuorum)

	v.AddSignature(keys[quorum-1], uint8(quorum-1)) // #nosec G115
	assert.NoError(t, v.Verify(addrs))
}

func TestVerifyFullSet(t *testing.T) {
	keys, addrs := testGuardians(t, 19)

	v := getVAA()
	for i, k := range keys {
		v.AddSignature(k, uint8(i)) // #nosec G115
	}
	require.NoError(t, v.Verify(addrs))

	// Swapping a single guardian's key for another's invalidates the whole VAA.
	swapped := make([]common.Address, len(addrs))
	copy(swapped, addrs)
	swapped[11] = addrs[12]
	assert.ErrorIs(t, v.Verify(swapped), ErrInvalidSignature)
}

func TestVerifyNoSignatures(t *testing.T) {
	_, addrs := testGuardians(t, 3)

	v := getVAA()
	assert.ErrorIs(t, v.Verify(addrs), ErrNoSignatures)
}

func TestVerifyNoAddresses(t *testing.T) {
	keys, _ := testGuardians(t, 1)

	v := getVAA()
	v.AddSignature(keys[0], 0)
	assert.Error(t, v.Verify(nil))
}

func TestVerifyGuardianIndexOutOfBounds(t *testing.T) {
	keys, addrs := testGuardians(t, 1)

	v := getVAA()
	v.AddSignature(keys[0], 3)
	assert.ErrorIs(t, v.Verify(addrs), ErrGuardianIndexOutOfBounds)
}

func TestVerifyRejectsDuplicateSigner(t *testing.T) {
	// Signatures that bypassed the codec (constructed in memory) must still
	// not be able to count one guardian twice towards quorum.
	keys, addrs := testGuardians(t, 3)

	v := getVAA()
	v.AddSignature(keys[0], 0)
	v.AddSignature(keys[0], 0)
	v.AddSignature(keys[1], 1)
	assert.ErrorIs(t, v.Verify(addrs), ErrSignaturesOutOfOrder)
}

func TestVerifyRejectsCorruptedSignature(t *testing.T) {
	keys, addrs := testGuardians(t, 1)

	v := getVAA()
	v.AddSignature(keys[0], 0)
	v.Signatures[0].Signature[10] ^= 0xff
	assert.ErrorIs(t, v.Verify(addrs), ErrInvalidSignature)
}

func TestVerifyAfterRoundTrip(t *testing.T) {
	keys, addrs := testGuardians(t, 5)

	v := getVAA()
	for i, k := range keys {
		v.AddSignature(k, uint8(i)) // #nosec G115
	}

	data, err := v.Marshal()
	require.NoError(t, err)
	parsed, err := Unmarshal(data)
	require.NoError(t, err)

	assert.NoError(t, parsed.Verify(addrs))
}
