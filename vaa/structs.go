package vaa

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/sha3"
)

type (
	// VAA is a verified action approval of the Wormhole protocol. It is
	// constructed once by Unmarshal, never mutated, and consumed exactly
	// once by the caller after verification.
	VAA struct {
		// Version of the VAA schema
		Version uint8
		// GuardianSetIndex is the index of the guardian set that signed this VAA
		GuardianSetIndex uint32
		// Signatures of the guardian set, in strictly increasing index order
		Signatures []*Signature

		// Timestamp when the VAA was created
		Timestamp time.Time
		// Nonce of the VAA
		Nonce uint32
		// EmitterChain the VAA was emitted on
		EmitterChain ChainID
		// EmitterAddress of the contract that emitted the message
		EmitterAddress Address
		// Sequence of the VAA
		Sequence uint64
		// ConsistencyLevel of the VAA
		ConsistencyLevel uint8
		// Payload of the message
		Payload []byte
	}

	// ChainID of a Wormhole chain
	ChainID uint16

	// Address is a Wormhole protocol address; it contains the native chain's
	// address. If the address data type of a chain is < 32 bytes the value is
	// zero-padded on the left.
	Address [32]byte

	// Signature of a single guardian
	Signature struct {
		// Index of the guardian in the guardian set
		Index uint8
		// Signature data (r, s, recovery id)
		Signature SignatureData
	}

	SignatureData [65]byte
)

const (
	// SupportedVAAVersion is the only VAA wire format version this code accepts.
	SupportedVAAVersion = 0x01

	// MaxGuardianCount specifies the maximum number of guardians supported by
	// on-chain contracts. Matches MAX_LEN_GUARDIAN_KEYS in the Solana contract,
	// which is limited by transaction size.
	MaxGuardianCount = 19

	// Minimum length of a serialized VAA: a header with zero signatures
	// (1 + 4 + 1 bytes) plus a body with an empty payload
	// (4 + 4 + 2 + 32 + 8 + 1 bytes).
	minVAALength = 57
)

const (
	ChainIDUnset ChainID = 0
	// ChainIDSolana is the ChainID of Solana
	ChainIDSolana ChainID = 1
	// ChainIDEthereum is the ChainID of Ethereum
	ChainIDEthereum ChainID = 2
	// ChainIDBSC is the ChainID of Binance Smart Chain
	ChainIDBSC ChainID = 4
	// ChainIDPolygon is the ChainID of Polygon
	ChainIDPolygon ChainID = 5
	// ChainIDAvalanche is the ChainID of Avalanche
	ChainIDAvalanche ChainID = 6
	// ChainIDSui is the ChainID of Sui
	ChainIDSui ChainID = 21
	// ChainIDAptos is the ChainID of Aptos
	ChainIDAptos ChainID = 22
	// ChainIDArbitrum is the ChainID of Arbitrum
	ChainIDArbitrum ChainID = 23
	// ChainIDOptimism is the ChainID of Optimism
	ChainIDOptimism ChainID = 24
	// ChainIDBase is the ChainID of Base
	ChainIDBase ChainID = 30
	// ChainIDWormchain is the ChainID of Wormchain
	ChainIDWormchain ChainID = 3104
	// ChainIDSepolia is the ChainID of Sepolia
	ChainIDSepolia ChainID = 10002
)

func (c ChainID) String() string {
	switch c {
	case ChainIDUnset:
		return "unset"
	case ChainIDSolana:
		return "solana"
	case ChainIDEthereum:
		return "ethereum"
	case ChainIDBSC:
		return "bsc"
	case ChainIDPolygon:
		return "polygon"
	case ChainIDAvalanche:
		return "avalanche"
	case ChainIDSui:
		return "sui"
	case ChainIDAptos:
		return "aptos"
	case ChainIDArbitrum:
		return "arbitrum"
	case ChainIDOptimism:
		return "optimism"
	case ChainIDBase:
		return "base"
	case ChainIDWormchain:
		return "wormchain"
	case ChainIDSepolia:
		return "sepolia"
	default:
		return fmt.Sprintf("unknown chain ID: %d", c)
	}
}

// ChainIDFromString converts from a chain's full name (e.g. "solana") to its
// corresponding ChainID.
func ChainIDFromString(s string) (ChainID, error) {
	switch strings.ToLower(s) {
	case "solana":
		return ChainIDSolana, nil
	case "ethereum":
		return ChainIDEthereum, nil
	case "bsc":
		return ChainIDBSC, nil
	case "polygon":
		return ChainIDPolygon, nil
	case "avalanche":
		return ChainIDAvalanche, nil
	case "sui":
		return ChainIDSui, nil
	case "aptos":
		return ChainIDAptos, nil
	case "arbitrum":
		return ChainIDArbitrum, nil
	case "optimism":
		return ChainIDOptimism, nil
	case "base":
		return ChainIDBase, nil
	case "wormchain":
		return ChainIDWormchain, nil
	case "sepolia":
		return ChainIDSepolia, nil
	default:
		return ChainIDUnset, fmt.Errorf("unknown chain ID: %s", s)
	}
}

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

func (a Address) Bytes() []byte {
	return a[:]
}

func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%s"`, a)), nil
}

func (a *Address) UnmarshalJSON(data []byte) error {
	addr, err := StringToAddress(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

func (s SignatureData) String() string {
	return hex.EncodeToString(s[:])
}

// Unmarshal deserializes the binary representation of a VAA.
//
// The guardian indices of the attached signatures must be strictly
// increasing. This is enforced here, at parse time, so that a message with a
// repeated or reordered signer can never reach verification: a duplicate
// signer would otherwise be able to satisfy a naive quorum count.
func Unmarshal(data []byte) (*VAA, error) {
	if len(data) < minVAALength {
		return nil, fmt.Errorf("%w: VAA is too short", ErrUnexpectedEndOfBuffer)
	}
	v := &VAA{}
	r := NewReader(data)

	var err error
	if v.Version, err = r.TakeU8(); err != nil {
		return nil, err
	}
	if v.Version != SupportedVAAVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v.Version)
	}

	if v.GuardianSetIndex, err = r.TakeU32(); err != nil {
		return nil, fmt.Errorf("failed to read guardian set index: %w", err)
	}

	lenSignatures, err := r.TakeU8()
	if err != nil {
		return nil, fmt.Errorf("failed to read signature count: %w", err)
	}
	if lenSignatures > MaxGuardianCount {
		return nil, fmt.Errorf("%w: %d", ErrTooManySignatures, lenSignatures)
	}

	lastIndex := -1
	for i := 0; i < int(lenSignatures); i++ {
		index, err := r.TakeU8()
		if err != nil {
			return nil, fmt.Errorf("failed to read guardian index [%d]: %w", i, err)
		}
		if int(index) <= lastIndex {
			return nil, fmt.Errorf("%w: %d after %d", ErrSignaturesOutOfOrder, index, lastIndex)
		}
		lastIndex = int(index)

		sig, err := r.TakeBytes(65)
		if err != nil {
			return nil, fmt.Errorf("failed to read signature [%d]: %w", i, err)
		}

		s := &Signature{Index: index}
		copy(s.Signature[:], sig)
		v.Signatures = append(v.Signatures, s)
	}

	return unmarshalBody(r, v)
}

func unmarshalBody(r *Reader, v *VAA) (*VAA, error) {
	unixSeconds, err := r.TakeU32()
	if err != nil {
		return nil, fmt.Errorf("failed to read timestamp: %w", err)
	}
	v.Timestamp = time.Unix(int64(unixSeconds), 0)

	if v.Nonce, err = r.TakeU32(); err != nil {
		return nil, fmt.Errorf("failed to read nonce: %w", err)
	}

	chain, err := r.TakeU16()
	if err != nil {
		return nil, fmt.Errorf("failed to read emitter chain: %w", err)
	}
	v.EmitterChain = ChainID(chain)

	if v.EmitterAddress, err = r.TakeAddress(); err != nil {
		return nil, fmt.Errorf("failed to read emitter address: %w", err)
	}

	if v.Sequence, err = r.TakeU64(); err != nil {
		return nil, fmt.Errorf("failed to read sequence: %w", err)
	}

	if v.ConsistencyLevel, err = r.TakeU8(); err != nil {
		return nil, fmt.Errorf("failed to read consistency level: %w", err)
	}

	// All remaining bytes are the payload; VAAs may carry a 0 length payload.
	// Copied so the VAA does not alias the caller's buffer.
	v.Payload = append([]byte{}, r.TakeRest()...)

	return v, r.Finish()
}

// Marshal returns the binary representation of the VAA.
func (v *VAA) Marshal() ([]byte, error) {
	if len(v.Signatures) > MaxGuardianCount {
		return nil, fmt.Errorf("%w: %d", ErrTooManySignatures, len(v.Signatures))
	}

	buf := new(bytes.Buffer)
	MustWrite(buf, binary.BigEndian, v.Version)
	MustWrite(buf, binary.BigEndian, v.GuardianSetIndex)

	MustWrite(buf, binary.BigEndian, uint8(len(v.Signatures))) // #nosec G115 -- bounded above
	for _, sig := range v.Signatures {
		MustWrite(buf, binary.BigEndian, sig.Index)
		buf.Write(sig.Signature[:])
	}

	buf.Write(v.serializeBody())

	return buf.Bytes(), nil
}

/*
SECURITY: Do not change this code! Changing it could result in two different
hashes for the same observation. Receivers rely on the hash of an observation
for replay protection.
*/
func (v *VAA) serializeBody() []byte {
	buf := new(bytes.Buffer)
	MustWrite(buf, binary.BigEndian, uint32(v.Timestamp.Unix())) // #nosec G115 -- safe until year 2106
	MustWrite(buf, binary.BigEndian, v.Nonce)
	MustWrite(buf, binary.BigEndian, v.EmitterChain)
	buf.Write(v.EmitterAddress[:])
	MustWrite(buf, binary.BigEndian, v.Sequence)
	MustWrite(buf, binary.BigEndian, v.ConsistencyLevel)
	buf.Write(v.Payload)

	return buf.Bytes()
}

func keccak256(data []byte) common.Hash {
	var h common.Hash
	k := sha3.NewLegacyKeccak256()
	k.Write(data)
	k.Sum(h[:0])
	return h
}

// doubleKeccak hashes twice so on-chain verifiers only need to pass around
// the 32 byte digest instead of the full body data. The digest covers the
// body only, never the header, so identical bodies hash identically
// regardless of which guardians signed.
func doubleKeccak(bz []byte) common.Hash {
	first := keccak256(bz)
	return keccak256(first[:])
}

// SigningDigest returns the hash of the VAA body that guardians sign.
func (v *VAA) SigningDigest() common.Hash {
	return doubleKeccak(v.serializeBody())
}

// HexDigest returns the hex-encoded signing digest.
func (v *VAA) HexDigest() string {
	return hex.EncodeToString(v.SigningDigest().Bytes())
}

// MessageID returns a human-readable emitter_chain/emitter_address/sequence tuple.
func (v *VAA) MessageID() string {
	return fmt.Sprintf("%d/%s/%d", v.EmitterChain, v.EmitterAddress, v.Sequence)
}

// AddSignature signs the digest with the given key and appends the signature.
// Intended for tooling and tests; callers must append in guardian index order.
func (v *VAA) AddSignature(key *ecdsa.PrivateKey, index uint8) {
	sig, err := ethcrypto.Sign(v.SigningDigest().Bytes(), key)
	if err != nil {
		panic(err)
	}
	sigData := SignatureData{}
	copy(sigData[:], sig)

	v.Signatures = append(v.Signatures, &Signature{
		Index:     index,
		Signature: sigData,
	})
}

// MustWrite calls binary.Write and panics on errors
func MustWrite(w io.Writer, order binary.ByteOrder, data interface{}) {
	if err := binary.Write(w, order, data); err != nil {
		panic(fmt.Errorf("failed to write binary data: %v", data).Error())
	}
}

// StringToAddress converts a hex-encoded address into a vaa.Address
func StringToAddress(value string) (Address, error) {
	var address Address

	if len(value) < 2 {
		return address, fmt.Errorf("value must be at least 1 byte")
	}

	value = strings.TrimPrefix(value, "0x")

	res, err := hex.DecodeString(value)
	if err != nil {
		return address, err
	}

	return BytesToAddress(res)
}

func BytesToAddress(b []byte) (Address, error) {
	var address Address
	if len(b) > 32 {
		return address, fmt.Errorf("value must be no more than 32 bytes")
	}

	copy(address[32-len(b):], b)
	return address, nil
}
