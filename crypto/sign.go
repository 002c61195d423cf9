package crypto

import (
	"crypto/rand"

	"github.com/cloudflare/circl/sign/ed25519"

	"github.com/rony4d/go-voting-chain/cryptobytes"
)

// VoterSigningKey is the Ed25519-equivalent key pair a voter generates once
// per blockchain they register with (spec.md §3 VoterSigningKey).
type VoterSigningKey struct {
	Public  cryptobytes.Bytes
	Private cryptobytes.Bytes
}

// GenerateVoterSigningKey creates a fresh signing key pair.
func GenerateVoterSigningKey() (VoterSigningKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return VoterSigningKey{}, err
	}
	return VoterSigningKey{
		Public:  cryptobytes.Bytes(pub),
		Private: cryptobytes.Bytes(priv),
	}, nil
}

// Sign produces a detached signature over message.
func Sign(sk cryptobytes.Bytes, message []byte) (cryptobytes.Bytes, error) {
	if len(sk) != ed25519.PrivateKeySize {
		return nil, ErrInvalidPublicKey
	}
	sig := ed25519.Sign(ed25519.PrivateKey(sk), message)
	return cryptobytes.Bytes(sig), nil
}

// VerifySignature checks a detached signature produced by Sign. It returns
// ErrSignatureInvalid (never a bare bool) so callers can propagate it
// unchanged per spec.md §7's "cryptographic errors surface unchanged" rule.
func VerifySignature(pk cryptobytes.Bytes, message, sig []byte) error {
	if len(pk) != ed25519.PublicKeySize {
		return ErrInvalidPublicKey
	}
	if !ed25519.Verify(ed25519.PublicKey(pk), message, sig) {
		return ErrSignatureInvalid
	}
	return nil
}
