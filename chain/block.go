package chain

import (
	"time"

	"github.com/rony4d/go-voting-chain/crypto"
	"github.com/rony4d/go-voting-chain/cryptobytes"
	"github.com/rony4d/go-voting-chain/wire"
)

// ValueTypeTag identifies what kind of payload a Block carries. This
// ledger only ever stores vote batches, but the tag is kept (rather than
// hard-coded into the hash preimage) so the on-disk format can grow a
// second payload kind without changing the hashing rule.
type ValueTypeTag uint16

// VoteBatchTag is the only ValueTypeTag this ledger currently writes.
const VoteBatchTag ValueTypeTag = 1

// ZeroHash is the sentinel prev_block_hash for the genesis block (height 0).
var ZeroHash = cryptobytes.Bytes(make([]byte, crypto.HashSize))

// Block is the unit of the hash chain (spec.md §3, §4.4). ValueBytes holds
// a serialized batch of votes (vote.EncodeBatch); the block itself is
// value-type agnostic.
type Block struct {
	ValueTypeTag  ValueTypeTag
	ValueBytes    []byte
	Timestamp     time.Time
	PrevBlockHash cryptobytes.Bytes
}

// Hash computes H(value_type_tag ‖ value_bytes ‖ unix_seconds_LE ‖
// prev_block_hash), spec.md §4.4's block hashing rule. Blocks never store
// their own hash; it is always recomputed from these fields.
func (b Block) Hash() cryptobytes.Bytes {
	w := wire.NewWriter(nil)
	w.U16(uint16(b.ValueTypeTag))
	w.FixedBytes(b.ValueBytes)
	w.I64(b.Timestamp.Unix())
	w.FixedBytes(b.PrevBlockHash)
	return crypto.Hash(w.Bytes())
}

// Encode serializes a Block for storage. The length-prefixed ValueBytes is
// the only variable-length field; the hash and height are never stored.
func (b Block) Encode() []byte {
	w := wire.NewWriter(nil)
	w.U16(uint16(b.ValueTypeTag))
	w.SliceBytes(b.ValueBytes)
	w.I64(b.Timestamp.Unix())
	w.FixedBytes(b.PrevBlockHash)
	return w.Bytes()
}

// maxValueBytes bounds the ValueBytes length decoded from storage, guarding
// against a corrupted length field forcing a huge allocation.
const maxValueBytes = 64 << 20

// DecodeBlock reverses Encode, converting any truncation into
// wire.ErrTruncated.
func DecodeBlock(data []byte) (Block, error) {
	var b Block
	err := wire.Decode(data, func(r *wire.Reader) error {
		b.ValueTypeTag = ValueTypeTag(r.U16())
		b.ValueBytes = r.SliceBytes(maxValueBytes)
		sec := r.I64()
		b.Timestamp = time.Unix(sec, 0).UTC()
		b.PrevBlockHash = cryptobytes.Bytes(r.FixedBytes(crypto.HashSize))
		return nil
	})
	if err != nil {
		return Block{}, err
	}
	return b, nil
}
