// Package authority implements the election authority's blind-signing
// service (spec.md §4.5): key lifecycle at startup and the two stateless
// operations a mock authority exposes, get_public_key and blind_sign.
package authority

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-voting-chain/crypto"
	"github.com/rony4d/go-voting-chain/cryptobytes"
)

// keyFile is the on-disk JSON representation of an AuthorityKeyPair,
// written atomically (truncate-write) to configPath: {"pk":"<base64>",
// "sk":"<base64>"} per spec.md §6, where sk is a PKCS#1 DER encoding.
type keyFile struct {
	PK cryptobytes.Bytes `json:"pk"`
	SK cryptobytes.Bytes `json:"sk"`
}

// Service holds one AuthorityKeypair loaded at startup (spec.md §4.5
// State). It is safe for concurrent use: both operations are read-only
// over an immutable key pair.
type Service struct {
	keyPair crypto.AuthorityKeyPair
	log     *logrus.Entry
}

// Open loads or creates the authority's key pair at configPath, following
// the sequence spec.md §4.5 names:
//  1. ensure the parent directory exists;
//  2. if generateNew, delete any existing config file (no-error if absent);
//  3. try to load {pk, sk} from JSON; on any failure, generate a fresh
//     key pair and persist it atomically.
func Open(configPath string, generateNew bool, log *logrus.Entry) (*Service, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0700); err != nil {
		return nil, fmt.Errorf("authority: create config directory: %w", err)
	}

	if generateNew {
		if err := os.Remove(configPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("authority: delete existing config: %w", err)
		}
	}

	keyPair, err := loadKeyPair(configPath)
	if err != nil {
		log.WithError(err).Info("authority: no usable key pair on disk, generating a new one")
		keyPair, err = crypto.GenerateAuthorityKeyPair()
		if err != nil {
			return nil, fmt.Errorf("authority: generate key pair: %w", err)
		}
		if err := saveKeyPair(configPath, keyPair); err != nil {
			return nil, fmt.Errorf("authority: persist key pair: %w", err)
		}
	}

	return &Service{keyPair: keyPair, log: log}, nil
}

// GetPublicKey returns the authority's public key. Free of side effects.
func (s *Service) GetPublicKey() cryptobytes.Bytes {
	return crypto.EncodePublicKey(s.keyPair.Public)
}

// PublicKey exposes the underlying *rsa.PublicKey for callers (e.g. the
// vote package's verification path) that need it directly rather than its
// encoded bytes.
func (s *Service) PublicKey() *rsa.PublicKey {
	return s.keyPair.Public
}

// BlindSign signs a blinded message. It is stateless and never logs the
// input (spec.md §4.5: "does not log the input") — the authority must
// never learn which blinded value corresponds to which voter.
func (s *Service) BlindSign(blindedMsg cryptobytes.Bytes) (cryptobytes.Bytes, error) {
	sig, err := crypto.BlindSign(s.keyPair.Private, blindedMsg)
	if err != nil {
		return nil, fmt.Errorf("authority: blind sign: %w", err)
	}
	return sig, nil
}

// VerifyAccessToken satisfies vote.BlindSigVerifier so Vote.Verify can
// check tokens this authority issued without importing the crypto/rsa
// specifics itself.
func (s *Service) VerifyAccessToken(token, message []byte) error {
	return crypto.VerifyBlindToken(s.keyPair.Public, token, message)
}

func loadKeyPair(path string) (crypto.AuthorityKeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return crypto.AuthorityKeyPair{}, err
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return crypto.AuthorityKeyPair{}, err
	}
	return keyPairFromFile(kf)
}

func saveKeyPair(path string, kp crypto.AuthorityKeyPair) error {
	kf := keyFileFromPair(kp)
	data, err := json.Marshal(kf)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}
	return nil
}
