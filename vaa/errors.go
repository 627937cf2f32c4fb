package vaa

import "errors"

// Parse errors. Every malformed input is rejected before any signature
// work happens.
var (
	ErrUnexpectedEndOfBuffer = errors.New("unexpected end of buffer")
	ErrTrailingBytes         = errors.New("buffer not fully consumed")
	ErrUnsupportedVersion    = errors.New("unsupported VAA version")
	ErrTooManySignatures     = errors.New("too many signatures")
	ErrSignaturesOutOfOrder  = errors.New("signature indices must be strictly increasing")
)

// Verification errors. Verification is all-or-nothing per VAA; the first
// failing check aborts it.
var (
	ErrNoSignatures             = errors.New("VAA was not signed")
	ErrNoQuorum                 = errors.New("no quorum on VAA")
	ErrGuardianIndexOutOfBounds = errors.New("guardian index out of bounds for the guardian set")
	ErrInvalidSignature         = errors.New("invalid signature on VAA")
)
