package vote

import (
	"time"

	"github.com/rony4d/go-voting-chain/cryptobytes"
	"github.com/rony4d/go-voting-chain/wire"
)

func timeFromUnix(sec int64, nsec int32) time.Time {
	return time.Unix(sec, int64(nsec)).UTC()
}

// maxFieldSize bounds every length-prefixed field decoded from on-disk
// block bytes. 1 MiB is far beyond any real public key, token, or
// signature; it exists only to stop a corrupted length field from
// triggering a huge allocation (wire.SliceBytes).
const maxFieldSize = 1 << 20

// Encode writes a Vote in the batch-storage wire format a Block's
// value_bytes holds a sequence of (spec.md §3 Block.value_bytes).
func (v Vote) Encode(w *wire.Writer) {
	w.SliceBytes(v.PublicKey)
	w.U8(v.CandidateID)
	w.I64(v.Timestamp.Unix())
	w.I32(int32(v.Timestamp.Nanosecond()))
	w.U32(uint32(len(v.AccessTokens)))
	for _, token := range v.AccessTokens {
		w.SliceBytes(token)
	}
	w.SliceBytes(v.Signature)
}

// Decode reads a Vote written by Encode.
func Decode(r *wire.Reader) Vote {
	var v Vote
	v.PublicKey = cryptobytes.Bytes(r.SliceBytes(maxFieldSize))
	v.CandidateID = r.U8()
	sec := r.I64()
	nsec := r.I32()
	v.Timestamp = timeFromUnix(sec, nsec)

	n := r.U32()
	if uint64(n) > uint64(r.Remaining()) {
		panic(wire.ErrTruncated)
	}
	v.AccessTokens = make([]cryptobytes.Bytes, n)
	for i := range v.AccessTokens {
		v.AccessTokens[i] = cryptobytes.Bytes(r.SliceBytes(maxFieldSize))
	}
	v.Signature = cryptobytes.Bytes(r.SliceBytes(maxFieldSize))
	return v
}

// EncodeBatch serializes a slice of votes for storage inside one Block.
func EncodeBatch(votes []Vote) []byte {
	w := wire.NewWriter(nil)
	w.U32(uint32(len(votes)))
	for _, v := range votes {
		v.Encode(w)
	}
	return w.Bytes()
}

// DecodeBatch reverses EncodeBatch, converting any out-of-range read into
// wire.ErrTruncated via wire.Decode.
func DecodeBatch(data []byte) ([]Vote, error) {
	var votes []Vote
	err := wire.Decode(data, func(r *wire.Reader) error {
		n := r.U32()
		if uint64(n) > uint64(r.Remaining()) {
			return wire.ErrTruncated
		}
		votes = make([]Vote, n)
		for i := range votes {
			votes[i] = Decode(r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return votes, nil
}
