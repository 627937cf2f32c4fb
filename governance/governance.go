// Package governance decodes and validates the governance envelope carried
// inside verified VAAs: the reserved emitter, the module identifier, the
// action code and the chain scoping that turn a generic attestation into a
// privileged state change.
package governance

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wormhole-foundation/corebridge/vaa"
)

var (
	ErrWrongEmitter         = errors.New("invalid governance emitter")
	ErrWrongModule          = errors.New("invalid governance module")
	ErrUnknownAction        = errors.New("unknown governance action")
	ErrWrongTargetChain     = errors.New("governance target chain does not match")
	ErrInvalidPayloadLength = errors.New("governance payload has incorrect length")
	ErrDuplicateGuardian    = errors.New("guardian set has duplicate addresses")
)

// Emitter is the reserved governance emitter address.
var Emitter = vaa.Address{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 4}

// Chain is the chain the governance emitter lives on.
var Chain = vaa.ChainIDSolana

// CoreModule is the identifier of the core module, the ASCII bytes "Core"
// left-padded to 32 bytes. Governance messages for this contract must carry it.
var CoreModule = [32]byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x43, 0x6f, 0x72, 0x65,
}

// VerifyEmitter checks that a verified VAA originates from the reserved
// governance emitter and chain.
func VerifyEmitter(v *vaa.VAA) error {
	if v.EmitterChain != Chain {
		return fmt.Errorf("%w: chain %s", ErrWrongEmitter, v.EmitterChain)
	}
	if v.EmitterAddress != Emitter {
		return fmt.Errorf("%w: address %s", ErrWrongEmitter, v.EmitterAddress)
	}
	return nil
}

// Envelope is the decoded governance payload header. The action payload is
// kept raw until Decode dispatches on the action code.
type Envelope struct {
	Module      [32]byte
	Action      ActionID
	TargetChain vaa.ChainID
	Payload     []byte
}

// ParseEnvelope decodes the governance header from a verified VAA's payload.
// ourChain scopes chain-specific actions: a target chain of 0 addresses every
// chain, anything else must match ourChain exactly.
func ParseEnvelope(payload []byte, ourChain vaa.ChainID) (*Envelope, error) {
	r := vaa.NewReader(payload)

	module, err := r.TakeBytes(32)
	if err != nil {
		return nil, fmt.Errorf("failed to read module: %w", err)
	}

	e := &Envelope{}
	copy(e.Module[:], module)
	if !bytes.Equal(e.Module[:], CoreModule[:]) {
		return nil, ErrWrongModule
	}

	action, err := r.TakeU8()
	if err != nil {
		return nil, fmt.Errorf("failed to read action: %w", err)
	}
	e.Action = ActionID(action)

	chain, err := r.TakeU16()
	if err != nil {
		return nil, fmt.Errorf("failed to read target chain: %w", err)
	}
	e.TargetChain = vaa.ChainID(chain)

	if e.TargetChain != 0 && e.TargetChain != ourChain {
		return nil, fmt.Errorf("%w: targets %s, we are %s", ErrWrongTargetChain, e.TargetChain, ourChain)
	}

	e.Payload = r.TakeRest()

	return e, nil
}
