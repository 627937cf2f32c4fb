package governance

import (
	"bytes"
	"encoding/binary"
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/wormhole-foundation/corebridge/vaa"
)

// ActionID discriminates governance actions of the core module.
type ActionID uint8

const (
	ActionContractUpgrade   ActionID = 1
	ActionGuardianSetUpdate ActionID = 2
	ActionSetMessageFee     ActionID = 3
	ActionTransferFees      ActionID = 4
)

// Action is a decoded governance action. Each variant carries only the
// fields relevant to it; the action code discriminates which variant an
// envelope decodes to.
type Action interface {
	ActionID() ActionID
}

type (
	// GuardianSetUpdate rotates the guardian set to a new generation. Always
	// global (target chain 0): every receiver must adopt the new roster.
	GuardianSetUpdate struct {
		NewIndex uint32
		Keys     []ethcommon.Address
	}

	// SetMessageFee changes the fee charged for publishing a message.
	SetMessageFee struct {
		TargetChain vaa.ChainID
		Amount      *uint256.Int
	}

	// TransferFees moves accrued fees to a recipient. Custody of the funds
	// is the embedding contract's business.
	TransferFees struct {
		TargetChain vaa.ChainID
		Amount      *uint256.Int
		Recipient   vaa.Address
	}

	// ContractUpgrade authorizes an upgrade to a new implementation.
	ContractUpgrade struct {
		TargetChain vaa.ChainID
		NewContract vaa.Address
	}
)

func (GuardianSetUpdate) ActionID() ActionID { return ActionGuardianSetUpdate }
func (SetMessageFee) ActionID() ActionID     { return ActionSetMessageFee }
func (TransferFees) ActionID() ActionID      { return ActionTransferFees }
func (ContractUpgrade) ActionID() ActionID   { return ActionContractUpgrade }

// Decode dispatches on the envelope's action code and decodes the
// action-specific payload. Unknown action codes are rejected; the payload
// must be consumed exactly.
func (e *Envelope) Decode() (Action, error) {
	r := vaa.NewReader(e.Payload)

	switch e.Action {
	case ActionGuardianSetUpdate:
		return decodeGuardianSetUpdate(r)
	case ActionSetMessageFee:
		amount, err := r.TakeU256()
		if err != nil {
			return nil, fmt.Errorf("failed to read message fee: %w", err)
		}
		if err := r.Finish(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayloadLength, err)
		}
		return SetMessageFee{TargetChain: e.TargetChain, Amount: amount}, nil
	case ActionTransferFees:
		amount, err := r.TakeU256()
		if err != nil {
			return nil, fmt.Errorf("failed to read amount: %w", err)
		}
		recipient, err := r.TakeAddress()
		if err != nil {
			return nil, fmt.Errorf("failed to read recipient: %w", err)
		}
		if err := r.Finish(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayloadLength, err)
		}
		return TransferFees{TargetChain: e.TargetChain, Amount: amount, Recipient: recipient}, nil
	case ActionContractUpgrade:
		newContract, err := r.TakeAddress()
		if err != nil {
			return nil, fmt.Errorf("failed to read new contract: %w", err)
		}
		if err := r.Finish(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayloadLength, err)
		}
		return ContractUpgrade{TargetChain: e.TargetChain, NewContract: newContract}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, e.Action)
	}
}

func decodeGuardianSetUpdate(r *vaa.Reader) (Action, error) {
	newIndex, err := r.TakeU32()
	if err != nil {
		return nil, fmt.Errorf("failed to read new set index: %w", err)
	}

	numGuardians, err := r.TakeU8()
	if err != nil {
		return nil, fmt.Errorf("failed to read guardian count: %w", err)
	}

	u := GuardianSetUpdate{
		NewIndex: newIndex,
		Keys:     make([]ethcommon.Address, numGuardians),
	}

	added := make(map[ethcommon.Address]bool, numGuardians)
	for i := 0; i < int(numGuardians); i++ {
		k, err := r.TakeBytes(20)
		if err != nil {
			return nil, fmt.Errorf("%w: truncated at key %d", ErrInvalidPayloadLength, i)
		}
		addr := ethcommon.BytesToAddress(k)
		if added[addr] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateGuardian, addr.Hex())
		}
		added[addr] = true
		u.Keys[i] = addr
	}

	if err := r.Finish(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayloadLength, err)
	}

	return u, nil
}

func serializeEnvelope(action ActionID, targetChain vaa.ChainID, body []byte) []byte {
	buf := new(bytes.Buffer)
	buf.Write(CoreModule[:])
	vaa.MustWrite(buf, binary.BigEndian, action)
	vaa.MustWrite(buf, binary.BigEndian, targetChain)
	buf.Write(body)
	return buf.Bytes()
}

// Serialize encodes the full governance payload for the update, header
// included. Guardian set updates are always universal.
func (u GuardianSetUpdate) Serialize() []byte {
	body := new(bytes.Buffer)
	vaa.MustWrite(body, binary.BigEndian, u.NewIndex)
	vaa.MustWrite(body, binary.BigEndian, uint8(len(u.Keys))) // #nosec G115 -- there will never be 256 guardians
	for _, k := range u.Keys {
		body.Write(k[:])
	}
	return serializeEnvelope(ActionGuardianSetUpdate, 0, body.Bytes())
}

func (f SetMessageFee) Serialize() []byte {
	amount := f.Amount.Bytes32()
	return serializeEnvelope(ActionSetMessageFee, f.TargetChain, amount[:])
}

func (t TransferFees) Serialize() []byte {
	body := new(bytes.Buffer)
	amount := t.Amount.Bytes32()
	body.Write(amount[:])
	body.Write(t.Recipient[:])
	return serializeEnvelope(ActionTransferFees, t.TargetChain, body.Bytes())
}

func (c ContractUpgrade) Serialize() []byte {
	return serializeEnvelope(ActionContractUpgrade, c.TargetChain, c.NewContract[:])
}
