package chain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBlockEncodeDecodeRoundTrip(t *testing.T) {
	require := require.New(t)

	b := Block{
		ValueTypeTag:  VoteBatchTag,
		ValueBytes:    []byte{0x01, 0x02, 0x03},
		Timestamp:     time.Unix(1700000000, 0).UTC(),
		PrevBlockHash: ZeroHash.Copy(),
	}

	decoded, err := DecodeBlock(b.Encode())
	require.NoError(err)
	require.Equal(b.ValueTypeTag, decoded.ValueTypeTag)
	require.Equal(b.ValueBytes, decoded.ValueBytes)
	require.Equal(b.Timestamp.Unix(), decoded.Timestamp.Unix())
	require.Equal(b.PrevBlockHash, decoded.PrevBlockHash)
}

func TestBlockHashChangesWithAnyField(t *testing.T) {
	require := require.New(t)

	base := Block{
		ValueTypeTag:  VoteBatchTag,
		ValueBytes:    []byte("votes"),
		Timestamp:     time.Unix(1700000000, 0).UTC(),
		PrevBlockHash: ZeroHash.Copy(),
	}
	baseHash := base.Hash()

	changedBytes := base
	changedBytes.ValueBytes = []byte("other")
	require.NotEqual(baseHash, changedBytes.Hash())

	changedTime := base
	changedTime.Timestamp = base.Timestamp.Add(time.Second)
	require.NotEqual(baseHash, changedTime.Hash())

	changedPrev := base
	changedPrev.PrevBlockHash = make([]byte, len(ZeroHash))
	changedPrev.PrevBlockHash[0] = 0xFF
	require.NotEqual(baseHash, changedPrev.Hash())
}

func TestDecodeBlockTruncatedReturnsError(t *testing.T) {
	_, err := DecodeBlock([]byte{0x01})
	require.Error(t, err)
}
