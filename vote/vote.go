// Package vote implements the Vote entity (spec.md §3, §4.3): its
// canonical signed-bytes encoding, construction, and pure verification.
// Verification never touches the ledger — double-vote and membership
// checks live one layer up, in the chain package.
package vote

import (
	"errors"
	"time"

	"github.com/rony4d/go-voting-chain/crypto"
	"github.com/rony4d/go-voting-chain/cryptobytes"
	"github.com/rony4d/go-voting-chain/wire"
)

// Errors a Vote's Verify call can return, matching spec.md §7's stance that
// cryptographic and validation failures are distinct, named error values.
var (
	ErrInvalidTimestamp        = errors.New("vote: timestamp outside election window")
	ErrAccessTokenVerification = errors.New("vote: access token verification failed")
	ErrSignatureVerification   = errors.New("vote: signature verification failed")
	ErrTokenCountMismatch      = errors.New("vote: access token count does not match verifier count")
)

// Vote is a single ballot cast by a voter (spec.md §3).
type Vote struct {
	PublicKey    cryptobytes.Bytes
	CandidateID  uint8
	Timestamp    time.Time
	AccessTokens []cryptobytes.Bytes
	Signature    cryptobytes.Bytes
}

// Construct builds and signs a Vote. Encoding the timestamp cannot fail for
// any time.Time value; the error return reports a signing failure, such as
// a signingKey of the wrong length.
func Construct(signingKey cryptobytes.Bytes, publicKey cryptobytes.Bytes, candidateID uint8, timestamp time.Time, accessTokens []cryptobytes.Bytes) (Vote, error) {
	v := Vote{
		PublicKey:    publicKey.Copy(),
		CandidateID:  candidateID,
		Timestamp:    timestamp,
		AccessTokens: copyTokens(accessTokens),
	}

	signedBytes, err := v.signedBytes()
	if err != nil {
		return Vote{}, err
	}

	sig, err := crypto.Sign(signingKey, signedBytes)
	if err != nil {
		return Vote{}, err
	}
	v.Signature = sig
	return v, nil
}

// BlindSigVerifier verifies an access token previously issued by one
// authority. config.Authority public keys implement this role through the
// crypto package's VerifyBlindToken, adapted here behind an interface so
// vote verification does not import the RSA-specific crypto.AuthorityKeyPair
// type directly.
type BlindSigVerifier interface {
	VerifyAccessToken(token, message []byte) error
}

// TimestampWindow bounds the timestamps spec.md §4.3 accepts.
type TimestampWindow struct {
	Lo time.Time
	Hi time.Time
}

// Verify checks a Vote against the authorities that issued its access
// tokens and the election's timestamp window (spec.md §4.3). It is pure:
// no ledger access, no side effects.
func (v Vote) Verify(verifiers []BlindSigVerifier, window TimestampWindow) error {
	if v.Timestamp.Before(window.Lo) || v.Timestamp.After(window.Hi) {
		return ErrInvalidTimestamp
	}
	if len(v.AccessTokens) != len(verifiers) {
		return ErrTokenCountMismatch
	}
	for i, verifier := range verifiers {
		if err := verifier.VerifyAccessToken(v.AccessTokens[i], v.PublicKey); err != nil {
			return ErrAccessTokenVerification
		}
	}

	signedBytes, err := v.signedBytes()
	if err != nil {
		return err
	}
	if err := crypto.VerifySignature(v.PublicKey, signedBytes, v.Signature); err != nil {
		return ErrSignatureVerification
	}
	return nil
}

// TokenTupleKey returns a map-safe key over the vote's access token tuple,
// used by the ledger to enforce the anti-double-vote invariant (spec.md
// §3 invariant 5): no two accepted votes may share the same token tuple.
func (v Vote) TokenTupleKey() string {
	key := ""
	for _, token := range v.AccessTokens {
		key += token.Key() + "|"
	}
	return key
}

// signedBytes builds the canonical signed-bytes encoding spec.md §4.3
// defines: public_key ‖ candidate_id_LE ‖ access_tokens_concat ‖
// serialize(timestamp), with the timestamp serialized as signed 64-bit
// seconds followed by 32-bit nanoseconds, both little-endian.
func (v Vote) signedBytes() ([]byte, error) {
	w := wire.NewWriter(nil)
	w.FixedBytes(v.PublicKey)
	w.U8(v.CandidateID)
	for _, token := range v.AccessTokens {
		w.FixedBytes(token)
	}
	w.I64(v.Timestamp.Unix())
	w.I32(int32(v.Timestamp.Nanosecond()))
	return w.Bytes(), nil
}

func copyTokens(tokens []cryptobytes.Bytes) []cryptobytes.Bytes {
	out := make([]cryptobytes.Bytes, len(tokens))
	for i, t := range tokens {
		out[i] = t.Copy()
	}
	return out
}
