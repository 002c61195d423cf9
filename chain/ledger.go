package chain

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rony4d/go-voting-chain/cryptobytes"
	"github.com/rony4d/go-voting-chain/vote"
)

// ErrWrongKey is returned by Get when no block exists at the requested height.
var ErrWrongKey = errors.New("chain: no block at requested height")

// HashIntegrityError is surfaced by ValidateIntegrity. Height is the block
// whose PrevBlockHash (Got) disagrees with the recomputed hash of the block
// before it, or with ZeroHash at height 0 (Expected).
type HashIntegrityError struct {
	Height   uint64
	Expected cryptobytes.Bytes
	Got      cryptobytes.Bytes
}

func (e *HashIntegrityError) Error() string {
	return fmt.Sprintf("chain: hash integrity failure at height %d: expected %s, got %s", e.Height, e.Expected, e.Got)
}

// ErrDuplicateVote is returned by AppendVotes when a vote's access-token
// tuple has already been committed to the ledger (spec.md §3 invariant 5,
// the anti-double-vote rule).
var ErrDuplicateVote = errors.New("chain: vote reuses an already-committed access token tuple")

// Ledger is the ordered, hash-chained sequence of Blocks (spec.md §4.4). It
// owns the Storage handle exclusively and maintains the in-memory state
// (block_count, last_hash) and the seen-token-tuple set needed for the
// anti-double-vote check, both rebuilt from storage on Open.
type Ledger struct {
	mu sync.Mutex

	storage    *Storage
	blockCount uint64
	lastHash   cryptobytes.Bytes
	seenTokens map[string]struct{}
}

// Open opens or creates the ledger's storage file and rebuilds in-memory
// state by scanning it (spec.md §4.4 Startup recovery + Double-vote check).
func Open(path string) (*Ledger, error) {
	storage, err := OpenStorage(path, false)
	if err != nil {
		return nil, err
	}

	l := &Ledger{
		storage:    storage,
		lastHash:   ZeroHash.Copy(),
		seenTokens: make(map[string]struct{}),
	}

	count, err := storage.Len()
	if err != nil {
		_ = storage.Close()
		return nil, err
	}
	l.blockCount = count

	if count == 0 {
		return l, nil
	}

	if err := l.rebuildSeenTokens(); err != nil {
		_ = storage.Close()
		return nil, err
	}

	lastBlock, err := l.Get(count - 1)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}
	l.lastHash = lastBlock.Hash()

	return l, nil
}

// Close releases the underlying storage file.
func (l *Ledger) Close() error {
	return l.storage.Close()
}

// SetNoSync toggles the underlying storage's fsync-on-commit behavior.
func (l *Ledger) SetNoSync(noSync bool) {
	l.storage.SetNoSync(noSync)
}

// BlockCount returns the number of blocks currently appended.
func (l *Ledger) BlockCount() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.blockCount
}

// LastHash returns the hash of the most recently appended block, or
// ZeroHash if the ledger is empty.
func (l *Ledger) LastHash() cryptobytes.Bytes {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastHash.Copy()
}

// Get loads and deserializes the block at height, or ErrWrongKey if absent.
func (l *Ledger) Get(height uint64) (Block, error) {
	data, ok, err := l.storage.Get(height)
	if err != nil {
		return Block{}, err
	}
	if !ok {
		return Block{}, ErrWrongKey
	}
	return DecodeBlock(data)
}

// Append stores block at the current block_count height. The caller is
// responsible for having set block.PrevBlockHash to LastHash() before
// calling (spec.md §4.4's append contract); Append does not enforce this
// itself, matching the spec's "contract, not runtime check" wording.
func (l *Ledger) Append(block Block) (height uint64, hash cryptobytes.Bytes, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	h := block.Hash()
	height = l.blockCount
	if err := l.storage.Put(height, block.Encode()); err != nil {
		return 0, nil, err
	}
	l.blockCount++
	l.lastHash = h
	return height, h, nil
}

// AppendVotes builds a Block carrying votes, chained onto the current tip,
// after rejecting any vote whose access-token tuple has already been
// committed (spec.md §4.4 Double-vote check). It is all-or-nothing: if any
// vote in the batch is a duplicate, nothing is appended.
func (l *Ledger) AppendVotes(votes []vote.Vote, timestamp time.Time) (height uint64, hash cryptobytes.Bytes, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, v := range votes {
		if _, seen := l.seenTokens[v.TokenTupleKey()]; seen {
			return 0, nil, ErrDuplicateVote
		}
	}

	block := Block{
		ValueTypeTag:  VoteBatchTag,
		ValueBytes:    vote.EncodeBatch(votes),
		Timestamp:     timestamp,
		PrevBlockHash: l.lastHash.Copy(),
	}

	h := block.Hash()
	height = l.blockCount
	if err := l.storage.Put(height, block.Encode()); err != nil {
		return 0, nil, err
	}

	l.blockCount++
	l.lastHash = h
	for _, v := range votes {
		l.seenTokens[v.TokenTupleKey()] = struct{}{}
	}
	return height, h, nil
}

// HasToken reports whether a vote's access-token tuple has already been
// committed to the ledger.
func (l *Ledger) HasToken(v vote.Vote) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, seen := l.seenTokens[v.TokenTupleKey()]
	return seen
}

// ValidateIntegrity recomputes hash(block[h]) for every height in order
// and fails on the first mismatch against the next block's recorded
// prev_block_hash (spec.md §4.4 Integrity validation).
func (l *Ledger) ValidateIntegrity() error {
	count := l.BlockCount()
	if count == 0 {
		return nil
	}

	prev, err := l.Get(0)
	if err != nil {
		return err
	}
	if !cryptobytes.Equal(prev.PrevBlockHash, ZeroHash) {
		return &HashIntegrityError{Height: 0, Expected: ZeroHash, Got: prev.PrevBlockHash}
	}

	prevHash := prev.Hash()
	for h := uint64(1); h < count; h++ {
		b, err := l.Get(h)
		if err != nil {
			return err
		}
		if !cryptobytes.Equal(b.PrevBlockHash, prevHash) {
			return &HashIntegrityError{Height: h, Expected: prevHash, Got: b.PrevBlockHash}
		}
		prevHash = b.Hash()
	}
	return nil
}

// rebuildSeenTokens scans every persisted block and repopulates the
// in-memory anti-double-vote set, the recovery procedure spec.md §4.4
// names explicitly: "rebuilt on startup by scanning all persisted blocks".
func (l *Ledger) rebuildSeenTokens() error {
	return l.storage.ForEach(func(height uint64, data []byte) error {
		block, err := DecodeBlock(data)
		if err != nil {
			return err
		}
		if block.ValueTypeTag != VoteBatchTag {
			return nil
		}
		votes, err := vote.DecodeBatch(block.ValueBytes)
		if err != nil {
			return err
		}
		for _, v := range votes {
			l.seenTokens[v.TokenTupleKey()] = struct{}{}
		}
		return nil
	})
}
