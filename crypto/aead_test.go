package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	require := require.New(t)

	salt, err := NewSalt()
	require.NoError(err)
	key := DeriveKey("correct-horse", salt)

	plaintext := []byte("a voter's private key material")
	ciphertext, meta, err := Encrypt(key, salt, plaintext)
	require.NoError(err)
	require.NotEqual(plaintext, []byte(ciphertext))

	decrypted, err := Decrypt(key, ciphertext, meta)
	require.NoError(err)
	require.Equal(plaintext, decrypted)
}

func TestDecryptFailsWithWrongPassword(t *testing.T) {
	require := require.New(t)

	salt, err := NewSalt()
	require.NoError(err)
	key := DeriveKey("correct-horse", salt)

	ciphertext, meta, err := Encrypt(key, salt, []byte("secret"))
	require.NoError(err)

	wrongKey := DeriveKey("wrong-password", salt)
	_, err = Decrypt(wrongKey, ciphertext, meta)
	require.ErrorIs(err, ErrDecryption)
}

func TestDecryptFailsWithTamperedMetadata(t *testing.T) {
	require := require.New(t)

	salt, err := NewSalt()
	require.NoError(err)
	key := DeriveKey("correct-horse", salt)

	ciphertext, meta, err := Encrypt(key, salt, []byte("secret"))
	require.NoError(err)

	meta.Nonce[0] ^= 0xFF
	_, err = Decrypt(key, ciphertext, meta)
	require.ErrorIs(err, ErrDecryption)
}

func TestMetadataBytesRoundTrip(t *testing.T) {
	require := require.New(t)

	salt, err := NewSalt()
	require.NoError(err)
	key := DeriveKey("pw", salt)
	_, meta, err := Encrypt(key, salt, []byte("x"))
	require.NoError(err)

	restored, err := MetadataFromBytes(meta.Bytes())
	require.NoError(err)
	require.Equal(meta.Salt, restored.Salt)
	require.Equal(meta.Nonce, restored.Nonce)
}

func TestMetadataFromBytesRejectsWrongLength(t *testing.T) {
	_, err := MetadataFromBytes([]byte{0x01, 0x02})
	require.ErrorIs(t, err, ErrInvalidMetadata)
}

func TestDeriveKeyIsDeterministicPerSalt(t *testing.T) {
	require := require.New(t)

	salt, err := NewSalt()
	require.NoError(err)

	require.Equal(DeriveKey("pw", salt), DeriveKey("pw", salt))
	require.NotEqual(DeriveKey("pw", salt), DeriveKey("other-pw", salt))
}
