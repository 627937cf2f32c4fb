package devnet

import (
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicKeys(t *testing.T) {
	a := InsecureDeterministicEcdsaKeyByIndex(0)
	b := InsecureDeterministicEcdsaKeyByIndex(0)
	assert.Equal(t, a.D, b.D)

	c := InsecureDeterministicEcdsaKeyByIndex(1)
	assert.NotEqual(t, a.D, c.D)
}

func TestGuardianSetMatchesKeys(t *testing.T) {
	keys := GuardianKeys(5)
	set := GuardianSet(5, 3)

	require.NoError(t, set.ValidateBasic())
	assert.Equal(t, uint32(3), set.Index)
	require.Len(t, set.Keys, 5)

	for i, k := range keys {
		assert.Equal(t, ethcrypto.PubkeyToAddress(k.PublicKey), set.Keys[i])
	}
}
