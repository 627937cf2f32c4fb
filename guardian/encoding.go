package guardian

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/wormhole-foundation/corebridge/vaa"
)

// MarshalBinary encodes a set for storage: index u32, expiration u64,
// key count u8, then the 20 byte keys in order. All integers big-endian.
func (s Set) MarshalBinary() ([]byte, error) {
	if len(s.Keys) > vaa.MaxGuardianCount {
		return nil, fmt.Errorf("%w: %d keys", ErrTooManyGuardians, len(s.Keys))
	}

	buf := new(bytes.Buffer)
	vaa.MustWrite(buf, binary.BigEndian, s.Index)
	vaa.MustWrite(buf, binary.BigEndian, s.ExpirationTime)
	vaa.MustWrite(buf, binary.BigEndian, uint8(len(s.Keys))) // #nosec G115 -- bounded above
	for _, k := range s.Keys {
		buf.Write(k[:])
	}

	return buf.Bytes(), nil
}

func (s *Set) UnmarshalBinary(data []byte) error {
	r := vaa.NewReader(data)

	var err error
	if s.Index, err = r.TakeU32(); err != nil {
		return fmt.Errorf("failed to read set index: %w", err)
	}
	if s.ExpirationTime, err = r.TakeU64(); err != nil {
		return fmt.Errorf("failed to read expiration time: %w", err)
	}

	count, err := r.TakeU8()
	if err != nil {
		return fmt.Errorf("failed to read key count: %w", err)
	}

	s.Keys = make([]common.Address, count)
	for i := 0; i < int(count); i++ {
		b, err := r.TakeBytes(20)
		if err != nil {
			return fmt.Errorf("failed to read key [%d]: %w", i, err)
		}
		s.Keys[i] = common.BytesToAddress(b)
	}

	return r.Finish()
}
