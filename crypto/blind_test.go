package crypto

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBlindSignRoundTrip walks the full voter/authority exchange: blind a
// token request, have the authority sign it blind, unblind, and verify the
// result against the original message.
func TestBlindSignRoundTrip(t *testing.T) {
	require := require.New(t)

	kp, err := GenerateAuthorityKeyPair()
	require.NoError(err)

	msg := []byte("voter-election-nonce-001")

	blinded, secret, err := Blind(rand.Reader, kp.Public, msg)
	require.NoError(err)
	require.NotEmpty(blinded)

	blindSig, err := BlindSign(kp.Private, blinded)
	require.NoError(err)

	sig, err := Unblind(kp.Public, blindSig, secret, msg)
	require.NoError(err)

	require.NoError(VerifyBlindToken(kp.Public, sig, msg))
}

// TestBlindSignRejectsWrongMessage checks that a token signed over one
// message does not verify against a different one.
func TestBlindSignRejectsWrongMessage(t *testing.T) {
	require := require.New(t)

	kp, err := GenerateAuthorityKeyPair()
	require.NoError(err)

	blinded, secret, err := Blind(rand.Reader, kp.Public, []byte("nonce-a"))
	require.NoError(err)

	blindSig, err := BlindSign(kp.Private, blinded)
	require.NoError(err)

	sig, err := Unblind(kp.Public, blindSig, secret, []byte("nonce-a"))
	require.NoError(err)

	err = VerifyBlindToken(kp.Public, sig, []byte("nonce-b"))
	require.ErrorIs(err, ErrSignatureInvalid)
}

// TestUnblindRequiresSecret ensures a zero-value UnblindingSecret is
// rejected rather than silently producing garbage output.
func TestUnblindRequiresSecret(t *testing.T) {
	require := require.New(t)

	kp, err := GenerateAuthorityKeyPair()
	require.NoError(err)

	_, err = Unblind(kp.Public, cryptobytesFixture(), UnblindingSecret{}, []byte("msg"))
	require.ErrorIs(err, ErrUnblindingSecretMissing)
}

// TestUnblindingSecretSerialization checks the secret survives a
// bytes-round-trip, the property a voter client relies on across restarts.
func TestUnblindingSecretSerialization(t *testing.T) {
	require := require.New(t)

	kp, err := GenerateAuthorityKeyPair()
	require.NoError(err)

	_, secret, err := Blind(rand.Reader, kp.Public, []byte("nonce"))
	require.NoError(err)

	restored := UnblindingSecretFromBytes(secret.Bytes())
	require.Equal(0, secret.R.Cmp(restored.R))
}

// TestPublicKeyEncodeDecode round-trips EncodePublicKey/DecodePublicKey.
func TestPublicKeyEncodeDecode(t *testing.T) {
	require := require.New(t)

	kp, err := GenerateAuthorityKeyPair()
	require.NoError(err)

	encoded := EncodePublicKey(kp.Public)
	decoded, err := DecodePublicKey(encoded)
	require.NoError(err)

	require.Equal(0, kp.Public.N.Cmp(decoded.N))
	require.Equal(kp.Public.E, decoded.E)
}

func cryptobytesFixture() []byte {
	return []byte{0x01, 0x02, 0x03}
}
