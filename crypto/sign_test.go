package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	require := require.New(t)

	key, err := GenerateVoterSigningKey()
	require.NoError(err)

	msg := []byte("candidate-1|2026-01-01T00:00:00Z")
	sig, err := Sign(key.Private, msg)
	require.NoError(err)

	require.NoError(VerifySignature(key.Public, msg, sig))
}

func TestVerifySignatureRejectsTamperedMessage(t *testing.T) {
	require := require.New(t)

	key, err := GenerateVoterSigningKey()
	require.NoError(err)

	sig, err := Sign(key.Private, []byte("original"))
	require.NoError(err)

	err = VerifySignature(key.Public, []byte("tampered"), sig)
	require.ErrorIs(err, ErrSignatureInvalid)
}

func TestSignRejectsWrongKeySize(t *testing.T) {
	_, err := Sign(cryptobytesFixtureKey(), []byte("msg"))
	require.ErrorIs(t, err, ErrInvalidPublicKey)
}

func cryptobytesFixtureKey() []byte {
	return []byte{0x01, 0x02}
}
