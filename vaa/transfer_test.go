package vaa

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTransfer(t *testing.T, payloadType uint8, trailing []byte) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	MustWrite(buf, binary.BigEndian, payloadType)

	amount := uint256.NewInt(1000000).Bytes32()
	buf.Write(amount[:])

	origin, err := StringToAddress("0x0000000000000000000000000290fb167208af455bb137780163b7b7a9a10c16")
	require.NoError(t, err)
	buf.Write(origin[:])
	MustWrite(buf, binary.BigEndian, ChainIDEthereum)

	target, err := StringToAddress("0x04")
	require.NoError(t, err)
	buf.Write(target[:])
	MustWrite(buf, binary.BigEndian, ChainIDSolana)

	buf.Write(trailing)
	return buf.Bytes()
}

func TestIsTransfer(t *testing.T) {
	assert.False(t, IsTransfer([]byte{}))
	assert.False(t, IsTransfer([]byte{2}))
	assert.True(t, IsTransfer([]byte{1}))
	assert.True(t, IsTransfer([]byte{3}))
}

func TestDecodeTransferPayloadHdr(t *testing.T) {
	fee := uint256.NewInt(0).Bytes32()
	payload := encodeTransfer(t, PayloadIDTransfer, fee[:])

	hdr, err := DecodeTransferPayloadHdr(payload)
	require.NoError(t, err)
	assert.Equal(t, PayloadIDTransfer, hdr.Type)
	assert.Equal(t, uint256.NewInt(1000000), hdr.Amount)
	assert.Equal(t, ChainIDEthereum, hdr.OriginChain)
	assert.Equal(t, ChainIDSolana, hdr.TargetChain)
	assert.Equal(t, uint8(4), hdr.TargetAddress[31])
}

func TestDecodeTransferWithPayloadKeepsTrailingBytes(t *testing.T) {
	payload := encodeTransfer(t, PayloadIDTransferWithPayload, []byte("hello"))

	hdr, err := DecodeTransferPayloadHdr(payload)
	require.NoError(t, err)
	assert.Equal(t, PayloadIDTransferWithPayload, hdr.Type)
}

func TestDecodeTransferTruncated(t *testing.T) {
	fee := uint256.NewInt(0).Bytes32()
	payload := encodeTransfer(t, PayloadIDTransfer, fee[:])

	_, err := DecodeTransferPayloadHdr(payload[:40])
	assert.ErrorIs(t, err, ErrUnexpectedEndOfBuffer)

	_, err = DecodeTransferPayloadHdr([]byte{9})
	assert.Error(t, err)
}

func TestDecodeTransferRejectsExtraBytes(t *testing.T) {
	fee := uint256.NewInt(0).Bytes32()
	payload := encodeTransfer(t, PayloadIDTransfer, append(fee[:], 0xff))

	_, err := DecodeTransferPayloadHdr(payload)
	assert.ErrorIs(t, err, ErrTrailingBytes)
}
