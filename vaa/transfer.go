package vaa

import (
	"fmt"

	"github.com/holiman/uint256"
)

const (
	PayloadIDTransfer            = uint8(1)
	PayloadIDTransferWithPayload = uint8(3)
)

// TransferPayloadHdr is the token bridge transfer header carried inside a
// verified VAA's payload. Custody and decimal arithmetic are the token
// bridge's business; this only decodes the wire form.
type TransferPayloadHdr struct {
	Type          uint8
	Amount        *uint256.Int
	OriginAddress Address
	OriginChain   ChainID
	TargetAddress Address
	TargetChain   ChainID
}

// IsTransfer reports whether a token bridge payload is a transfer.
// The caller must have verified that the VAA is from the token bridge.
func IsTransfer(payload []byte) bool {
	return (len(payload) > 0) && ((payload[0] == PayloadIDTransfer) || (payload[0] == PayloadIDTransferWithPayload))
}

// DecodeTransferPayloadHdr decodes the fixed-width header of a token bridge
// transfer payload. Transfers with payload (type 3) carry arbitrary trailing
// bytes, which are left for the receiving contract.
func DecodeTransferPayloadHdr(payload []byte) (*TransferPayloadHdr, error) {
	if !IsTransfer(payload) {
		return nil, fmt.Errorf("unsupported payload type")
	}

	r := NewReader(payload)
	p := &TransferPayloadHdr{}

	var err error
	if p.Type, err = r.TakeU8(); err != nil {
		return nil, err
	}
	if p.Amount, err = r.TakeU256(); err != nil {
		return nil, fmt.Errorf("failed to read amount: %w", err)
	}
	if p.OriginAddress, err = r.TakeAddress(); err != nil {
		return nil, fmt.Errorf("failed to read origin address: %w", err)
	}
	originChain, err := r.TakeU16()
	if err != nil {
		return nil, fmt.Errorf("failed to read origin chain: %w", err)
	}
	p.OriginChain = ChainID(originChain)
	if p.TargetAddress, err = r.TakeAddress(); err != nil {
		return nil, fmt.Errorf("failed to read target address: %w", err)
	}
	targetChain, err := r.TakeU16()
	if err != nil {
		return nil, fmt.Errorf("failed to read target chain: %w", err)
	}
	p.TargetChain = ChainID(targetChain)

	// A plain transfer additionally carries a fee field and nothing else.
	if p.Type == PayloadIDTransfer {
		if _, err := r.TakeU256(); err != nil {
			return nil, fmt.Errorf("failed to read fee: %w", err)
		}
		if err := r.Finish(); err != nil {
			return nil, err
		}
	}

	return p, nil
}
