package crypto

import (
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"

	"github.com/rony4d/go-voting-chain/cryptobytes"
)

// PBKDF2 parameters from spec.md §4.1. 100 iterations is unusually low and
// is flagged, not silently strengthened — see spec.md §9 "Weak KDF
// parameters". A real deployment should raise
// this to the hundreds-of-thousands or move to Argon2id; this repository
// keeps the spec's stated value so the on-disk format matches what the
// spec documents.
const (
	pbkdf2Iterations = 100
	aeadKeySize      = 32
	saltSize         = 32
	nonceSize        = chacha20poly1305.NonceSize // 12
)

// Metadata is the public, non-secret envelope stored alongside every
// EncryptedStorageEntry: a per-user salt and a per-entry nonce. It doubles
// as the AEAD's additional authenticated data, so tampering with either
// field breaks decryption (spec.md §4.1).
type Metadata struct {
	Salt  cryptobytes.Bytes
	Nonce cryptobytes.Bytes
}

// Bytes renders metadata as salt‖nonce, the layout spec.md §4.1 describes.
func (m Metadata) Bytes() []byte {
	out := make([]byte, 0, len(m.Salt)+len(m.Nonce))
	out = append(out, m.Salt...)
	out = append(out, m.Nonce...)
	return out
}

// MetadataFromBytes splits a salt‖nonce blob back into its parts.
func MetadataFromBytes(b []byte) (Metadata, error) {
	if len(b) != saltSize+nonceSize {
		return Metadata{}, ErrInvalidMetadata
	}
	return Metadata{
		Salt:  cryptobytes.Bytes(b[:saltSize]).Copy(),
		Nonce: cryptobytes.Bytes(b[saltSize:]).Copy(),
	}, nil
}

// DeriveKey runs PBKDF2-HMAC-SHA256 over (password, salt), producing the
// 32-byte AEAD key. Callers derive this once at Register/Login time and
// hold onto the key, never the password itself (spec.md §4.6).
func DeriveKey(password string, salt cryptobytes.Bytes) cryptobytes.Bytes {
	return cryptobytes.Bytes(pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, aeadKeySize, sha256.New))
}

// NewSalt generates a fresh random per-user salt.
func NewSalt() (cryptobytes.Bytes, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, ErrSaltGeneration
	}
	return cryptobytes.Bytes(salt), nil
}

// Encrypt seals plaintext under the derived AEAD key (see DeriveKey),
// generating a fresh random nonce. It returns the ciphertext and the
// Metadata the caller must persist alongside it to decrypt later.
func Encrypt(key, salt cryptobytes.Bytes, plaintext []byte) (ciphertext cryptobytes.Bytes, meta Metadata, err error) {
	nonce := make([]byte, nonceSize)
	if _, err = rand.Read(nonce); err != nil {
		return nil, Metadata{}, ErrNonceGeneration
	}
	meta = Metadata{Salt: salt.Copy(), Nonce: cryptobytes.Bytes(nonce)}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, Metadata{}, ErrKeyDerive
	}
	sealed := aead.Seal(nil, nonce, plaintext, meta.Bytes())
	return cryptobytes.Bytes(sealed), meta, nil
}

// Decrypt opens ciphertext sealed by Encrypt under the same derived AEAD
// key. meta itself is the additional authenticated data, so a corrupted or
// swapped salt/nonce causes decryption to fail rather than silently
// producing garbage plaintext.
func Decrypt(key cryptobytes.Bytes, ciphertext cryptobytes.Bytes, meta Metadata) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, ErrKeyDerive
	}
	plaintext, err := aead.Open(nil, meta.Nonce, ciphertext, meta.Bytes())
	if err != nil {
		return nil, ErrDecryption
	}
	return plaintext, nil
}
