// Package voter implements the voter protocol driver (spec.md §4.7): the
// LoggedOut → LoggedIn → Validated → Voted state machine that wraps a
// voterstore.Session and walks a voter through token acquisition and vote
// submission.
package voter

import (
	"errors"
	"fmt"
	"time"

	"github.com/rony4d/go-voting-chain/config"
	"github.com/rony4d/go-voting-chain/crypto"
	"github.com/rony4d/go-voting-chain/cryptobytes"
	"github.com/rony4d/go-voting-chain/vote"
	"github.com/rony4d/go-voting-chain/voterstore"
)

// State is one of the four stages of the voter protocol driver.
type State int

const (
	LoggedOut State = iota
	LoggedIn
	Validated
	Voted
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "LoggedOut"
	case LoggedIn:
		return "LoggedIn"
	case Validated:
		return "Validated"
	case Voted:
		return "Voted"
	default:
		return "Unknown"
	}
}

var (
	// ErrWrongState is returned when an operation is attempted outside the
	// state it requires.
	ErrWrongState = errors.New("voter: operation not valid in current state")
	// ErrAccessTokenMissing is returned by SubmitVote when not every
	// authority has produced a token yet.
	ErrAccessTokenMissing = errors.New("voter: one or more access tokens missing")
)

// AuthorityClient is the transport the driver uses to reach an authority's
// HTTP API (spec.md §6 /authenticate, /pkey). A real implementation talks
// HTTP; tests supply an in-process fake.
type AuthorityClient interface {
	BlindSign(blindedMsg cryptobytes.Bytes) (cryptobytes.Bytes, error)
	PublicKey() (cryptobytes.Bytes, error)
}

// NodeClient is the transport the driver uses to submit a finished vote to
// a node (spec.md §6 POST /vote).
type NodeClient interface {
	SubmitVote(v vote.Vote) error
}

// Driver drives one voter's registration-through-voting flow for one
// blockchain address.
type Driver struct {
	session    *voterstore.Session
	blockchain string
	state      State
}

// Register creates a new user and returns a Driver in LoggedIn state
// (spec.md §4.7: "successful register or login" -> LoggedIn).
func Register(store *voterstore.Store, username, password string) (*Driver, error) {
	sess, err := store.Register(username, password)
	if err != nil {
		return nil, err
	}
	return &Driver{session: sess, state: LoggedIn}, nil
}

// Login authenticates an existing user and returns a Driver in LoggedIn
// state.
func Login(store *voterstore.Store, username, password string) (*Driver, error) {
	sess, err := store.Login(username, password)
	if err != nil {
		return nil, err
	}
	return &Driver{session: sess, state: LoggedIn}, nil
}

// State returns the driver's current protocol state.
func (d *Driver) State() State { return d.state }

// SelectBlockchain registers (if new) or attaches to an already-registered
// blockchain address, the prerequisite for token acquisition.
func (d *Driver) SelectBlockchain(address string, electionCfg config.ElectionConfig) error {
	blockchains, err := d.session.Blockchains()
	if err != nil {
		return err
	}
	known := false
	for _, b := range blockchains {
		if b == address {
			known = true
			break
		}
	}
	if !known {
		if err := d.session.AddBlockchain(address, electionCfg); err != nil {
			return err
		}
	}
	d.blockchain = address
	return nil
}

// AcquireToken runs the five-step token-acquisition sequence spec.md §4.7
// names for the authority at authorityIndex: fetch the stored blinded
// public key, submit it to the authority, unblind the response, sanity-
// verify it, and persist it.
func (d *Driver) AcquireToken(authorityIndex int, client AuthorityClient) error {
	if d.blockchain == "" {
		return fmt.Errorf("voter: no blockchain selected")
	}

	record, err := d.session.BlockchainRecord(d.blockchain)
	if err != nil {
		return err
	}
	if authorityIndex < 0 || authorityIndex >= len(record.Blinding) {
		return fmt.Errorf("voter: authority index %d out of range", authorityIndex)
	}

	blinding := record.Blinding[authorityIndex]
	blindSig, err := client.BlindSign(blinding.BlindedPublicKey)
	if err != nil {
		return fmt.Errorf("voter: blind sign request: %w", err)
	}

	authorityPubBytes, err := client.PublicKey()
	if err != nil {
		return fmt.Errorf("voter: fetch authority public key: %w", err)
	}
	authorityPub, err := crypto.DecodePublicKey(authorityPubBytes)
	if err != nil {
		return fmt.Errorf("voter: decode authority public key: %w", err)
	}

	secret := crypto.UnblindingSecretFromBytes(blinding.UnblindingSecret)
	token, err := crypto.Unblind(authorityPub, blindSig, secret, record.SigningKeyPublic)
	if err != nil {
		return fmt.Errorf("voter: unblind: %w", err)
	}

	if err := crypto.VerifyBlindToken(authorityPub, token, record.SigningKeyPublic); err != nil {
		return fmt.Errorf("voter: access token failed sanity check: %w", err)
	}

	if err := d.session.SetAccessToken(d.blockchain, authorityIndex, token); err != nil {
		return err
	}

	return d.advanceIfValidated(len(record.Blinding))
}

// advanceIfValidated moves LoggedIn -> Validated once every authority has
// produced a token (spec.md §4.7).
func (d *Driver) advanceIfValidated(authorityCount int) error {
	record, err := d.session.BlockchainRecord(d.blockchain)
	if err != nil {
		return err
	}
	for _, token := range record.AccessTokens {
		if token == nil {
			return nil
		}
	}
	if len(record.AccessTokens) == authorityCount && d.state == LoggedIn {
		d.state = Validated
	}
	return nil
}

// SubmitVote constructs and submits a Vote for candidateID. Valid only in
// Validated state; on transport failure the driver remains in Validated so
// the caller may retry (spec.md §4.7 Vote submission).
func (d *Driver) SubmitVote(candidateID uint8, node NodeClient) error {
	if d.state != Validated {
		return ErrWrongState
	}

	record, err := d.session.BlockchainRecord(d.blockchain)
	if err != nil {
		return err
	}

	tokens := make([]cryptobytes.Bytes, len(record.AccessTokens))
	for i, t := range record.AccessTokens {
		if t == nil {
			return ErrAccessTokenMissing
		}
		tokens[i] = t.Copy()
	}

	v, err := vote.Construct(record.SigningKeyPrivate, record.SigningKeyPublic, candidateID, time.Now().UTC(), tokens)
	if err != nil {
		return err
	}

	if err := node.SubmitVote(v); err != nil {
		return fmt.Errorf("voter: submit vote: %w", err)
	}

	// Persisted only after the node acknowledges receipt, so a crash
	// before this point safely recovers back into Validated, not Voted
	// (spec.md §4.7 Idempotence).
	if err := d.session.SetCandidate(d.blockchain, candidateID); err != nil {
		return err
	}
	d.state = Voted
	return nil
}
