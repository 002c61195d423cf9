// Package cryptobytes provides the binary-safe byte-string type used
// everywhere a public key, signature, blinded message, or hash crosses a
// JSON boundary. Every cryptographic value in this repository is, at rest,
// an opaque slice of bytes; this type just teaches that slice how to become
// base64 text and back, the way a voter's public key, an access token, or a
// vote signature needs to when it rides inside a JSON request body.
package cryptobytes

import (
	"encoding/base64"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrEmpty names the error for a zero-length value in a context where that
// is never legitimate (e.g. a signature). No function in this package
// returns it: FromString and Copy accept zero-length values.
var ErrEmpty = errors.New("cryptobytes: empty value")

// Bytes is a binary-safe byte string. The zero value is an empty slice.
type Bytes []byte

// Empty reports whether b holds no bytes.
func (b Bytes) Empty() bool {
	return len(b) == 0
}

// Copy returns an independent copy of b so callers can't mutate shared
// backing arrays (keys and tokens are handed around a lot in this codebase).
func (b Bytes) Copy() Bytes {
	if b == nil {
		return nil
	}
	out := make(Bytes, len(b))
	copy(out, b)
	return out
}

// String renders b as base64 (standard encoding), the canonical text form
// used in JSON and logs.
func (b Bytes) String() string {
	return base64.StdEncoding.EncodeToString(b)
}

// FromString decodes a base64 string produced by String.
func FromString(s string) (Bytes, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return Bytes(raw), nil
}

// MarshalText implements encoding.TextMarshaler so Bytes fields serialize
// to base64 JSON strings automatically.
func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Bytes) UnmarshalText(text []byte) error {
	decoded, err := FromString(string(text))
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}

// Equal reports whether a and b hold identical bytes.
func Equal(a, b Bytes) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Key renders b as a string suitable for use as a map key (e.g. the
// anti-double-vote token-tuple set). Unlike String, this has no particular
// wire format guarantee — only that equal Bytes produce equal keys.
func (b Bytes) Key() string {
	return string(b)
}

// Hex renders b as a "0x"-prefixed hex string, the form operators expect in
// log lines and error messages (as opposed to String's base64, which is the
// wire/JSON form). Truncated with a "…" when longer than 8 bytes, since log
// lines only need enough of a hash or key to eyeball-correlate, not the
// whole value.
func (b Bytes) Hex() string {
	if len(b) <= 8 {
		return "0x" + common.Bytes2Hex(b)
	}
	return "0x" + common.Bytes2Hex(b[:8]) + "…"
}
