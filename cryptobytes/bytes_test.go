package cryptobytes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringFromStringRoundTrip(t *testing.T) {
	require := require.New(t)

	b := Bytes{0xAA, 0xBB, 0xCC}
	s := b.String()

	decoded, err := FromString(s)
	require.NoError(err)
	require.Equal(b, decoded)
}

func TestFromStringRejectsInvalidBase64(t *testing.T) {
	_, err := FromString("not-base64!!")
	require.Error(t, err)
}

func TestCopyIsIndependent(t *testing.T) {
	require := require.New(t)

	original := Bytes{0x01, 0x02}
	copied := original.Copy()
	copied[0] = 0xFF

	require.Equal(uint8(0x01), original[0])
	require.NotEqual(original, copied)
}

func TestCopyOfNilIsNil(t *testing.T) {
	var b Bytes
	require.Nil(t, b.Copy())
}

func TestEmpty(t *testing.T) {
	require := require.New(t)
	require.True(Bytes(nil).Empty())
	require.True(Bytes{}.Empty())
	require.False(Bytes{0x01}.Empty())
}

func TestEqual(t *testing.T) {
	require := require.New(t)
	require.True(Equal(Bytes{0x01, 0x02}, Bytes{0x01, 0x02}))
	require.False(Equal(Bytes{0x01}, Bytes{0x01, 0x02}))
	require.False(Equal(Bytes{0x01}, Bytes{0x02}))
}

func TestMarshalUnmarshalJSON(t *testing.T) {
	require := require.New(t)

	type wrapper struct {
		Value Bytes `json:"value"`
	}

	original := wrapper{Value: Bytes{0x01, 0x02, 0x03}}
	data, err := json.Marshal(original)
	require.NoError(err)

	var decoded wrapper
	require.NoError(json.Unmarshal(data, &decoded))
	require.Equal(original.Value, decoded.Value)
}

func TestKeyDistinguishesDistinctValues(t *testing.T) {
	require := require.New(t)

	a := Bytes{0x01}
	b := Bytes{0x02}
	require.NotEqual(a.Key(), b.Key())

	c := Bytes{0x01}
	require.Equal(a.Key(), c.Key())
}
