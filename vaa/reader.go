package vaa

import (
	"encoding/binary"
	"fmt"

	"github.com/holiman/uint256"
)

// Reader is a sequential big-endian cursor over an immutable byte buffer.
// Every Take* call either returns the requested field and advances the
// offset, or fails with ErrUnexpectedEndOfBuffer and leaves it unchanged.
type Reader struct {
	buf []byte
	off int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.off
}

func (r *Reader) IsEmpty() bool {
	return r.Len() == 0
}

func (r *Reader) TakeBytes(n int) ([]byte, error) {
	if r.Len() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrUnexpectedEndOfBuffer, n, r.off, r.Len())
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) TakeU8() (uint8, error) {
	b, err := r.TakeBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) TakeU16() (uint16, error) {
	b, err := r.TakeBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) TakeU32() (uint32, error) {
	b, err := r.TakeBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) TakeU64() (uint64, error) {
	b, err := r.TakeBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *Reader) TakeU256() (*uint256.Int, error) {
	b, err := r.TakeBytes(32)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(b), nil
}

func (r *Reader) TakeAddress() (Address, error) {
	var addr Address
	b, err := r.TakeBytes(32)
	if err != nil {
		return addr, err
	}
	copy(addr[:], b)
	return addr, nil
}

// TakeRest returns all remaining bytes and exhausts the reader. Used for
// trailing payloads, which carry no length prefix.
func (r *Reader) TakeRest() []byte {
	b := r.buf[r.off:]
	r.off = len(r.buf)
	return b
}

// Finish asserts that the buffer was fully consumed. Leftover bytes after
// a fixed-layout decode indicate a malformed message, not padding.
func (r *Reader) Finish() error {
	if n := r.Len(); n != 0 {
		return fmt.Errorf("%w: %d bytes remain", ErrTrailingBytes, n)
	}
	return nil
}
