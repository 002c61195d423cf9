package crypto

import (
	"github.com/zeebo/blake3"

	"github.com/rony4d/go-voting-chain/cryptobytes"
)

// HashSize is the width of the block-chaining hash H (spec.md §4.4).
const HashSize = 32

// Hash computes H(data) = BLAKE3-256(data). Spec.md leaves H parametric
// between BLAKE3 and SHA-256; BLAKE3 is picked here because it is the hash
// named in the pack (luxfi-consensus's go.mod) and is noticeably faster on
// the repeated whole-ledger validation pass (spec.md §4.4 Integrity
// validation), which rehashes every block in order.
func Hash(data ...[]byte) cryptobytes.Bytes {
	h := blake3.New()
	for _, d := range data {
		_, _ = h.Write(d)
	}
	sum := h.Sum(nil)
	return cryptobytes.Bytes(sum[:HashSize])
}
