package wire

import "errors"

// ErrTooLargeAlloc guards SliceBytes against a corrupted or adversarial
// length prefix forcing an oversized allocation during decode.
var ErrTooLargeAlloc = errors.New("wire: decoded length exceeds limit")

// ErrTruncated is returned by Decode when the underlying buffer runs out
// before the requested decode completes.
var ErrTruncated = errors.New("wire: truncated input")
