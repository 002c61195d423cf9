// Package voterstore implements the voter's encrypted local key-value
// store (spec.md §4.6): a logical per-voter namespace of AEAD-sealed
// entries, keyed by derived string paths, backed by a single bbolt file.
package voterstore

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/rony4d/go-voting-chain/config"
	"github.com/rony4d/go-voting-chain/crypto"
	"github.com/rony4d/go-voting-chain/cryptobytes"
)

var (
	// ErrUserAlreadyExists is returned by Register when username is taken.
	ErrUserAlreadyExists = errors.New("voterstore: user already exists")
	// ErrAuthFailed is returned by Login on any decryption failure.
	ErrAuthFailed = errors.New("voterstore: authentication failed")
	// ErrUnknownUser is returned when an operation references a username
	// that was never registered.
	ErrUnknownUser = errors.New("voterstore: unknown user")
	// ErrBlockchainAlreadyAdded is returned by AddBlockchain for a
	// duplicate address in the user's blockchain list.
	ErrBlockchainAlreadyAdded = errors.New("voterstore: blockchain already added")
	// ErrUnknownBlockchain is returned when an operation references a
	// blockchain address the user never added.
	ErrUnknownBlockchain = errors.New("voterstore: unknown blockchain")
)

var entriesBucket = []byte("entries")

// entry is the on-disk EncryptedStorageEntry (spec.md §3): AEAD metadata
// plus the sealed ciphertext, JSON-encoded as the bbolt value.
type entry struct {
	Metadata   crypto.Metadata   `json:"metadata"`
	Ciphertext cryptobytes.Bytes `json:"ciphertext"`
}

// UserBlockchains is the decrypted value stored at the top-level
// "{username}" key: the list of blockchain addresses the user registered.
type UserBlockchains struct {
	Blockchains []string `json:"blockchains"`
}

// BlindingState is the per (voter, authority) pair spec.md §3 describes:
// the blinded public key handed to the authority and the unblinding
// secret retained to recover the access token.
type BlindingState struct {
	BlindedPublicKey cryptobytes.Bytes `json:"blinded_public_key"`
	UnblindingSecret cryptobytes.Bytes `json:"unblinding_secret"`
}

// BlockchainRecord is everything persisted under one
// "{username}/{blockchain}/*" namespace, stored as a single encrypted
// blob for simplicity (the logical keys spec.md §4.6 lists are fields
// here rather than separate bbolt entries, since they are always read
// and written together within one blockchain's lifecycle).
type BlockchainRecord struct {
	SigningKeyPublic  cryptobytes.Bytes     `json:"signing_key_public"`
	SigningKeyPrivate cryptobytes.Bytes     `json:"signing_key_private"`
	Blinding          []BlindingState       `json:"blinding"`
	AccessTokens      []*cryptobytes.Bytes  `json:"access_tokens"`
	CandidateID       *uint8                `json:"candidate_id,omitempty"`
	Config            config.ElectionConfig `json:"config"`
}

// Store is the voter's encrypted local key-value store.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if absent) the bbolt file at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(entriesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying file handle.
func (s *Store) Close() error { return s.db.Close() }

// Session is the handle Login/Register return: the username and the derived
// AEAD key (never the password itself). The blockchain list is not cached
// here; Blockchains decrypts it from the store on each call.
type Session struct {
	store    *Store
	username string
	key      cryptobytes.Bytes
	salt     cryptobytes.Bytes
}

// Register creates a new user with an empty blockchain list (spec.md
// §4.6 Registration).
func (s *Store) Register(username, password string) (*Session, error) {
	exists, err := s.has(userKey(username))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, err
	}
	key := crypto.DeriveKey(password, salt)

	empty := UserBlockchains{Blockchains: []string{}}
	if err := s.putEncrypted(userKey(username), key, salt, empty); err != nil {
		return nil, err
	}

	return &Session{store: s, username: username, key: key, salt: salt}, nil
}

// Login derives the AEAD key from (password, the user's stored salt),
// decrypts the user's outer entry with it, and returns a Session. Any
// decryption failure surfaces as ErrAuthFailed (spec.md §4.6 Login), never
// the underlying crypto error, so callers cannot distinguish "wrong
// password" from "corrupted store".
func (s *Store) Login(username, password string) (*Session, error) {
	e, ok, err := s.getEntry(userKey(username))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownUser
	}

	key := crypto.DeriveKey(password, e.Metadata.Salt)
	var blockchains UserBlockchains
	if err := decryptInto(key, e, &blockchains); err != nil {
		return nil, ErrAuthFailed
	}

	return &Session{store: s, username: username, key: key, salt: e.Metadata.Salt}, nil
}

// Blockchains returns the user's currently registered blockchain addresses.
func (sess *Session) Blockchains() ([]string, error) {
	var blockchains UserBlockchains
	if err := sess.loadUser(&blockchains); err != nil {
		return nil, err
	}
	return blockchains.Blockchains, nil
}

// AddBlockchain runs the six-step sequence spec.md §4.6 names: register
// the address, generate a signing key, blind the voter's public key
// under every authority, and persist placeholders for the access tokens
// still to be collected.
func (sess *Session) AddBlockchain(address string, electionCfg config.ElectionConfig) error {
	var blockchains UserBlockchains
	if err := sess.loadUser(&blockchains); err != nil {
		return err
	}
	for _, existing := range blockchains.Blockchains {
		if existing == address {
			return ErrBlockchainAlreadyAdded
		}
	}

	signingKey, err := crypto.GenerateVoterSigningKey()
	if err != nil {
		return err
	}

	blinding := make([]BlindingState, len(electionCfg.Authorities))
	for i, auth := range electionCfg.Authorities {
		pub, err := decodeAuthorityKey(auth.PublicKey)
		if err != nil {
			return fmt.Errorf("voterstore: decode authority key %q: %w", auth.Name, err)
		}
		blinded, secret, err := crypto.Blind(nil, pub, signingKey.Public)
		if err != nil {
			return err
		}
		blinding[i] = BlindingState{
			BlindedPublicKey: blinded,
			UnblindingSecret: secret.Bytes(),
		}
	}

	record := BlockchainRecord{
		SigningKeyPublic:  signingKey.Public,
		SigningKeyPrivate: signingKey.Private,
		Blinding:          blinding,
		AccessTokens:      make([]*cryptobytes.Bytes, len(electionCfg.Authorities)),
		Config:            electionCfg,
	}

	if err := sess.putEncrypted(blockchainKey(sess.username, address), sess.key, sess.salt, record); err != nil {
		return err
	}

	blockchains.Blockchains = append(blockchains.Blockchains, address)
	if err := sess.putEncrypted(userKey(sess.username), sess.key, sess.salt, blockchains); err != nil {
		// Roll back the per-blockchain record spec.md §4.6 says must not
		// be left orphaned if the outer list write fails.
		_ = sess.store.delete(blockchainKey(sess.username, address))
		return err
	}

	return nil
}

// RemoveBlockchain deletes a blockchain's per-namespace record and its
// entry in the user's blockchain list (spec.md §4.6).
func (sess *Session) RemoveBlockchain(address string) error {
	var blockchains UserBlockchains
	if err := sess.loadUser(&blockchains); err != nil {
		return err
	}

	idx := -1
	for i, existing := range blockchains.Blockchains {
		if existing == address {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrUnknownBlockchain
	}

	if err := sess.store.delete(blockchainKey(sess.username, address)); err != nil {
		return err
	}

	blockchains.Blockchains = append(blockchains.Blockchains[:idx], blockchains.Blockchains[idx+1:]...)
	return sess.putEncrypted(userKey(sess.username), sess.key, sess.salt, blockchains)
}

// DeleteUser removes every per-blockchain record and the outer user key.
func (sess *Session) DeleteUser() error {
	var blockchains UserBlockchains
	if err := sess.loadUser(&blockchains); err != nil {
		return err
	}
	for _, address := range blockchains.Blockchains {
		if err := sess.store.delete(blockchainKey(sess.username, address)); err != nil {
			return err
		}
	}
	return sess.store.delete(userKey(sess.username))
}

// BlockchainRecord returns the decrypted per-blockchain record.
func (sess *Session) BlockchainRecord(address string) (BlockchainRecord, error) {
	var record BlockchainRecord
	e, ok, err := sess.store.getEntry(blockchainKey(sess.username, address))
	if err != nil {
		return BlockchainRecord{}, err
	}
	if !ok {
		return BlockchainRecord{}, ErrUnknownBlockchain
	}
	if err := decryptInto(sess.key, e, &record); err != nil {
		return BlockchainRecord{}, ErrAuthFailed
	}
	return record, nil
}

// SetAccessToken stores the access token recovered for authority index i
// and persists the updated record.
func (sess *Session) SetAccessToken(address string, authorityIndex int, token cryptobytes.Bytes) error {
	record, err := sess.BlockchainRecord(address)
	if err != nil {
		return err
	}
	if authorityIndex < 0 || authorityIndex >= len(record.AccessTokens) {
		return fmt.Errorf("voterstore: authority index %d out of range", authorityIndex)
	}
	t := token.Copy()
	record.AccessTokens[authorityIndex] = &t
	return sess.putEncrypted(blockchainKey(sess.username, address), sess.key, sess.salt, record)
}

// SetCandidate persists the chosen candidate id after a vote is
// acknowledged by a node (spec.md §4.7 Idempotence: written only after
// the node confirms receipt, so recovery after a crash is safe).
func (sess *Session) SetCandidate(address string, candidateID uint8) error {
	record, err := sess.BlockchainRecord(address)
	if err != nil {
		return err
	}
	record.CandidateID = &candidateID
	return sess.putEncrypted(blockchainKey(sess.username, address), sess.key, sess.salt, record)
}

func (sess *Session) loadUser(out *UserBlockchains) error {
	e, ok, err := sess.store.getEntry(userKey(sess.username))
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownUser
	}
	if err := decryptInto(sess.key, e, out); err != nil {
		return ErrAuthFailed
	}
	return nil
}

func (sess *Session) putEncrypted(bucketKey string, aeadKey, salt cryptobytes.Bytes, value interface{}) error {
	return sess.store.putEncrypted(bucketKey, aeadKey, salt, value)
}

func (s *Store) putEncrypted(bucketKey string, aeadKey, salt cryptobytes.Bytes, value interface{}) error {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return err
	}
	ciphertext, meta, err := crypto.Encrypt(aeadKey, salt, plaintext)
	if err != nil {
		return err
	}
	data, err := json.Marshal(entry{Metadata: meta, Ciphertext: ciphertext})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(entriesBucket).Put([]byte(bucketKey), data)
	})
}

func (s *Store) getEntry(key string) (entry, bool, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(entriesBucket).Get([]byte(key))
		if v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return entry{}, false, err
	}
	if raw == nil {
		return entry{}, false, nil
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return entry{}, false, err
	}
	return e, true, nil
}

func (s *Store) has(key string) (bool, error) {
	_, ok, err := s.getEntry(key)
	return ok, err
}

func (s *Store) delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(entriesBucket).Delete([]byte(key))
	})
}

func decryptInto(key cryptobytes.Bytes, e entry, out interface{}) error {
	plaintext, err := crypto.Decrypt(key, e.Ciphertext, e.Metadata)
	if err != nil {
		return err
	}
	return json.Unmarshal(plaintext, out)
}

func decodeAuthorityKey(base64Key string) (*rsa.PublicKey, error) {
	raw, err := cryptobytes.FromString(base64Key)
	if err != nil {
		return nil, err
	}
	return crypto.DecodePublicKey(raw)
}

func userKey(username string) string {
	return username
}

func blockchainKey(username, blockchain string) string {
	return username + "/" + blockchain
}
