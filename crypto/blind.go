package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"errors"
	"io"
	"math/big"

	"github.com/rony4d/go-voting-chain/cryptobytes"
)

// Blind RSA signatures (spec.md §4.1), implemented as classic full-domain-
// hash RSA blinding rather than the pack's circl/blindsign/blindrsa — see
// SPEC_FULL.md §3 and DESIGN.md for why: the unblinding secret here must be
// persisted across a voter-client restart (spec.md §3 BlindingState), and
// that means it has to be a value this package controls the encoding of,
// not an opaque library state.
//
// The scheme:
//   m'        = FDH(pk, msg)                      (full-domain hash, in [1,N))
//   blinded   = m' * r^e mod N                     (blind)
//   blindSig  = blinded^d mod N                    (authority's blind_sign)
//   signature = blindSig * r^-1 mod N              (unblind)
//   verify:     signature^e mod N == FDH(pk, msg)

const rsaKeyBits = 2048

// AuthorityKeyPair holds an authority's blind-signing key pair.
type AuthorityKeyPair struct {
	Public  *rsa.PublicKey
	Private *rsa.PrivateKey
}

// GenerateAuthorityKeyPair creates a fresh 2048-bit RSA key pair.
func GenerateAuthorityKeyPair() (AuthorityKeyPair, error) {
	sk, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return AuthorityKeyPair{}, err
	}
	return AuthorityKeyPair{Public: &sk.PublicKey, Private: sk}, nil
}

// UnblindingSecret is the randomness (r) generated during Blind, retained
// by the voter so a later Unblind call can recover an ordinary signature.
// It is exactly the kind of value spec.md §4.6 persists per (voter,
// authority) pair and reloads after a client restart.
type UnblindingSecret struct {
	R *big.Int
}

// Bytes serializes the unblinding secret for storage.
func (s UnblindingSecret) Bytes() cryptobytes.Bytes {
	return cryptobytes.Bytes(s.R.Bytes())
}

// UnblindingSecretFromBytes reconstructs a secret saved by Bytes.
func UnblindingSecretFromBytes(b []byte) UnblindingSecret {
	return UnblindingSecret{R: new(big.Int).SetBytes(b)}
}

// fullDomainHash expands msg to a value in [1, N) via MGF1-style mask
// generation over SHA-256, the same masking primitive PSS padding uses.
func fullDomainHash(pub *rsa.PublicKey, msg []byte) *big.Int {
	n := pub.N
	byteLen := (n.BitLen() + 7) / 8

	var out []byte
	for counter := uint32(0); len(out) < byteLen; counter++ {
		h := sha256.New()
		h.Write(msg)
		var c [4]byte
		c[0] = byte(counter >> 24)
		c[1] = byte(counter >> 16)
		c[2] = byte(counter >> 8)
		c[3] = byte(counter)
		h.Write(c[:])
		out = append(out, h.Sum(nil)...)
	}
	out = out[:byteLen]
	// Clear the top bit so the value is guaranteed < N for any 2048-bit+
	// modulus with the same byte length, then reduce mod N for safety.
	out[0] &= 0x7F

	m := new(big.Int).SetBytes(out)
	m.Mod(m, n)
	if m.Sign() == 0 {
		m.SetInt64(1)
	}
	return m
}

// Blind prepares msg for blind signing under pub, returning the blinded
// message to hand to the authority and the secret needed to unblind later.
func Blind(random io.Reader, pub *rsa.PublicKey, msg []byte) (cryptobytes.Bytes, UnblindingSecret, error) {
	if random == nil {
		random = rand.Reader
	}
	n := pub.N
	e := big.NewInt(int64(pub.E))

	var r *big.Int
	for {
		candidate, err := rand.Int(random, n)
		if err != nil {
			return nil, UnblindingSecret{}, err
		}
		if candidate.Sign() == 0 {
			continue
		}
		if new(big.Int).GCD(nil, nil, candidate, n).Cmp(big.NewInt(1)) == 0 {
			r = candidate
			break
		}
	}

	m := fullDomainHash(pub, msg)
	rPowE := new(big.Int).Exp(r, e, n)
	blinded := new(big.Int).Mul(m, rPowE)
	blinded.Mod(blinded, n)

	return cryptobytes.Bytes(blinded.Bytes()), UnblindingSecret{R: r}, nil
}

// BlindSign is the authority's side: it signs a blinded message without
// ever seeing the real message. It is pure modular exponentiation and
// carries no eligibility check (spec.md §4.5 — the mock authority signs
// unconditionally; a deployment gates this at the caller).
func BlindSign(priv *rsa.PrivateKey, blindedMsg cryptobytes.Bytes) (cryptobytes.Bytes, error) {
	n := priv.N
	d := priv.D
	blinded := new(big.Int).SetBytes(blindedMsg)
	if blinded.Cmp(n) >= 0 {
		return nil, ErrBlindSignFailed
	}
	sig := new(big.Int).Exp(blinded, d, n)
	return cryptobytes.Bytes(sig.Bytes()), nil
}

// Unblind recovers an ordinary signature over msg from the authority's
// blind signature and the secret produced by Blind.
func Unblind(pub *rsa.PublicKey, blindSig cryptobytes.Bytes, secret UnblindingSecret, msg []byte) (cryptobytes.Bytes, error) {
	if secret.R == nil {
		return nil, ErrUnblindingSecretMissing
	}
	n := pub.N
	rInv := new(big.Int).ModInverse(secret.R, n)
	if rInv == nil {
		return nil, errors.New("crypto: blinding factor not invertible mod N")
	}
	blindSigInt := new(big.Int).SetBytes(blindSig)
	sig := new(big.Int).Mul(blindSigInt, rInv)
	sig.Mod(sig, n)

	padded := PaddedBytes(sig.Bytes(), (n.BitLen()+7)/8)
	return cryptobytes.Bytes(padded), nil
}

// VerifyBlindToken verifies an unblinded access token: signature^e mod N
// must equal FDH(pk, msg).
func VerifyBlindToken(pub *rsa.PublicKey, signature, msg []byte) error {
	n := pub.N
	e := big.NewInt(int64(pub.E))
	sig := new(big.Int).SetBytes(signature)
	if sig.Cmp(n) >= 0 {
		return ErrSignatureInvalid
	}
	got := new(big.Int).Exp(sig, e, n)
	want := fullDomainHash(pub, msg)
	if got.Cmp(want) != 0 {
		return ErrSignatureInvalid
	}
	return nil
}

// PaddedBytes left-pads b with zero bytes until it is at least n bytes
// long. Fixed-width integers (RSA signatures, moduli) need this because
// big.Int.Bytes() drops leading zero bytes.
func PaddedBytes(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	padding := make([]byte, n-len(b))
	return append(padding, b...)
}

// EncodePublicKey renders an RSA public key as (N, E) big-endian bytes for
// JSON transport: 4-byte length-prefixed N followed by a 4-byte E.
func EncodePublicKey(pub *rsa.PublicKey) cryptobytes.Bytes {
	nBytes := pub.N.Bytes()
	out := make([]byte, 0, 4+len(nBytes)+4)
	var lenBuf [4]byte
	lenBuf[0] = byte(len(nBytes) >> 24)
	lenBuf[1] = byte(len(nBytes) >> 16)
	lenBuf[2] = byte(len(nBytes) >> 8)
	lenBuf[3] = byte(len(nBytes))
	out = append(out, lenBuf[:]...)
	out = append(out, nBytes...)
	var eBuf [4]byte
	eBuf[0] = byte(pub.E >> 24)
	eBuf[1] = byte(pub.E >> 16)
	eBuf[2] = byte(pub.E >> 8)
	eBuf[3] = byte(pub.E)
	out = append(out, eBuf[:]...)
	return cryptobytes.Bytes(out)
}

// DecodePublicKey reverses EncodePublicKey.
func DecodePublicKey(b []byte) (*rsa.PublicKey, error) {
	if len(b) < 8 {
		return nil, ErrInvalidPublicKey
	}
	nLen := int(b[0])<<24 | int(b[1])<<16 | int(b[2])<<8 | int(b[3])
	if len(b) < 4+nLen+4 {
		return nil, ErrInvalidPublicKey
	}
	n := new(big.Int).SetBytes(b[4 : 4+nLen])
	eBytes := b[4+nLen : 4+nLen+4]
	e := int(eBytes[0])<<24 | int(eBytes[1])<<16 | int(eBytes[2])<<8 | int(eBytes[3])
	return &rsa.PublicKey{N: n, E: e}, nil
}

// EncodePrivateKey renders an RSA private key as a PKCS#1 DER encoding, the
// on-disk "sk" form spec.md §6 specifies.
func EncodePrivateKey(priv *rsa.PrivateKey) cryptobytes.Bytes {
	return cryptobytes.Bytes(x509.MarshalPKCS1PrivateKey(priv))
}

// DecodePrivateKey reverses EncodePrivateKey, recomputing the RSA CRT
// precomputation values on load.
func DecodePrivateKey(b []byte) (*rsa.PrivateKey, error) {
	priv, err := x509.ParsePKCS1PrivateKey(b)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	priv.Precompute()
	return priv, nil
}
