package vaa

import (
	"crypto/ecdsa"
	"crypto/rand"
	"testing"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getVAA() VAA {
	var payload = []byte{97, 97, 97, 97, 97, 97}
	var governanceEmitter = Address{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 4}

	return VAA{
		Version:          SupportedVAAVersion,
		GuardianSetIndex: 1,
		Signatures:       nil,
		Timestamp:        time.Unix(2837, 0),
		Nonce:            10,
		Sequence:         3,
		ConsistencyLevel: 5,
		EmitterChain:     ChainIDEthereum,
		EmitterAddress:   governanceEmitter,
		Payload:          payload,
	}
}

func testKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(ethcrypto.S256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func TestRoundTrip(t *testing.T) {
	v := getVAA()
	v.AddSignature(testKey(t), 0)

	data, err := v.Marshal()
	require.NoError(t, err)

	parsed, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, v, *parsed)
}

func TestRoundTripEmptyPayload(t *testing.T) {
	v := getVAA()
	v.Payload = []byte{}

	data, err := v.Marshal()
	require.NoError(t, err)

	parsed, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Nil(t, parsed.Signatures)
	assert.Equal(t, v, *parsed)
}

func TestUnmarshalTooShort(t *testing.T) {
	_, err := Unmarshal([]byte{0x01, 0x02})
	assert.ErrorIs(t, err, ErrUnexpectedEndOfBuffer)
}

func TestUnmarshalUnsupportedVersion(t *testing.T) {
	v := getVAA()
	data, err := v.Marshal()
	require.NoError(t, err)
	data[0] = 0x02

	_, err = Unmarshal(data)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestUnmarshalTooManySignatures(t *testing.T) {
	v := getVAA()
	key := testKey(t)
	for i := 0; i < 20; i++ {
		v.AddSignature(key, uint8(i)) // #nosec G115
	}

	// Marshal refuses to encode it, so build the header by hand.
	v.Signatures = v.Signatures[:19]
	data, err := v.Marshal()
	require.NoError(t, err)
	data[5] = 20

	_, err = Unmarshal(data)
	assert.ErrorIs(t, err, ErrTooManySignatures)
}

func TestUnmarshalRejectsDuplicateSigner(t *testing.T) {
	v := getVAA()
	key := testKey(t)
	v.AddSignature(key, 3)
	v.AddSignature(key, 3)

	data, err := v.Marshal()
	require.NoError(t, err)

	_, err = Unmarshal(data)
	assert.ErrorIs(t, err, ErrSignaturesOutOfOrder)
}

func TestUnmarshalRejectsDecreasingSignerIndices(t *testing.T) {
	v := getVAA()
	key := testKey(t)
	v.AddSignature(key, 4)
	v.AddSignature(key, 2)

	data, err := v.Marshal()
	require.NoError(t, err)

	_, err = Unmarshal(data)
	assert.ErrorIs(t, err, ErrSignaturesOutOfOrder)
}

func TestUnmarshalTruncatedSignature(t *testing.T) {
	v := getVAA()
	v.AddSignature(testKey(t), 0)

	data, err := v.Marshal()
	require.NoError(t, err)

	_, err = Unmarshal(data[:30])
	assert.ErrorIs(t, err, ErrUnexpectedEndOfBuffer)
}

func TestSigningDigestCoversBodyOnly(t *testing.T) {
	unsigned := getVAA()

	signed := getVAA()
	signed.AddSignature(testKey(t), 0)
	signed.GuardianSetIndex = 7

	// Identical bodies yield identical digests regardless of header.
	assert.Equal(t, unsigned.SigningDigest(), signed.SigningDigest())

	other := getVAA()
	other.Nonce = 11
	assert.NotEqual(t, unsigned.SigningDigest(), other.SigningDigest())
}

func TestSigningDigestIsDoubleKeccak(t *testing.T) {
	v := getVAA()
	expected := keccak256(v.serializeBody())
	expected = keccak256(expected[:])
	assert.Equal(t, expected, v.SigningDigest())
}

func TestMessageID(t *testing.T) {
	v := getVAA()
	assert.Equal(t, "2/0000000000000000000000000000000000000000000000000000000000000004/3", v.MessageID())
}

func TestStringToAddress(t *testing.T) {
	addr, err := StringToAddress("0x0000000000000000000000000000000000000000000000000000000000000004")
	require.NoError(t, err)
	assert.Equal(t, Address{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 4}, addr)

	// Short values are left-padded.
	addr, err = StringToAddress("04")
	require.NoError(t, err)
	assert.Equal(t, uint8(4), addr[31])

	_, err = StringToAddress("not hex")
	assert.Error(t, err)

	_, err = StringToAddress("0000000000000000000000000000000000000000000000000000000000000000ff")
	assert.Error(t, err)
}

func TestCalculateQuorum(t *testing.T) {
	tests := []struct {
		guardians int
		quorum    int
	}{
		{guardians: 0, quorum: 1},
		{guardians: 1, quorum: 1},
		{guardians: 2, quorum: 2},
		{guardians: 3, quorum: 3},
		{guardians: 4, quorum: 3},
		{guardians: 5, quorum: 4},
		{guardians: 6, quorum: 5},
		{guardians: 7, quorum: 5},
		{guardians: 8, quorum: 6},
		{guardians: 9, quorum: 7},
		{guardians: 10, quorum: 7},
		{guardians: 19, quorum: 13},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.quorum, CalculateQuorum(tc.guardians))
	}

	assert.Panics(t, func() { CalculateQuorum(-1) })
}
