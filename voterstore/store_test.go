package voterstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-voting-chain/authority"
	"github.com/rony4d/go-voting-chain/config"
	"github.com/rony4d/go-voting-chain/crypto"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voter.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleElectionConfig(t *testing.T) config.ElectionConfig {
	t.Helper()
	svc, err := authority.Open(filepath.Join(t.TempDir(), "authority.json"), false, nil)
	require.NoError(t, err)

	start := time.Now().UTC()
	return config.ElectionConfig{
		Name:  "sample",
		Start: start,
		End:   start.Add(time.Hour),
		Nodes: []string{"127.0.0.1:9000"},
		Authorities: []config.Authority{
			{Name: "a1", PublicKey: svc.GetPublicKey().String(), Address: "127.0.0.1:9100"},
		},
		Candidates: []config.Candidate{{Name: "Alice", ID: 1}},
	}
}

func TestRegisterThenLogin(t *testing.T) {
	require := require.New(t)
	s := openStore(t)

	_, err := s.Register("alice", "hunter2")
	require.NoError(err)

	sess, err := s.Login("alice", "hunter2")
	require.NoError(err)

	blockchains, err := sess.Blockchains()
	require.NoError(err)
	require.Empty(blockchains)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	require := require.New(t)
	s := openStore(t)

	_, err := s.Register("alice", "hunter2")
	require.NoError(err)

	_, err = s.Register("alice", "different")
	require.ErrorIs(err, ErrUserAlreadyExists)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	require := require.New(t)
	s := openStore(t)

	_, err := s.Register("alice", "hunter2")
	require.NoError(err)

	_, err = s.Login("alice", "wrong")
	require.ErrorIs(err, ErrAuthFailed)
}

func TestLoginRejectsUnknownUser(t *testing.T) {
	s := openStore(t)
	_, err := s.Login("nobody", "pw")
	require.ErrorIs(t, err, ErrUnknownUser)
}

func TestAddBlockchainPersistsBlindingState(t *testing.T) {
	require := require.New(t)
	s := openStore(t)
	cfg := sampleElectionConfig(t)

	_, err := s.Register("alice", "hunter2")
	require.NoError(err)
	sess, err := s.Login("alice", "hunter2")
	require.NoError(err)

	require.NoError(sess.AddBlockchain("127.0.0.1:9000", cfg))

	blockchains, err := sess.Blockchains()
	require.NoError(err)
	require.Equal([]string{"127.0.0.1:9000"}, blockchains)

	record, err := sess.BlockchainRecord("127.0.0.1:9000")
	require.NoError(err)
	require.Len(record.Blinding, 1)
	require.NotEmpty(record.Blinding[0].BlindedPublicKey)
	require.NotEmpty(record.SigningKeyPublic)
	require.Len(record.AccessTokens, 1)
	require.Nil(record.AccessTokens[0])
}

func TestAddBlockchainRejectsDuplicateAddress(t *testing.T) {
	require := require.New(t)
	s := openStore(t)
	cfg := sampleElectionConfig(t)

	_, err := s.Register("alice", "hunter2")
	require.NoError(err)
	sess, err := s.Login("alice", "hunter2")
	require.NoError(err)

	require.NoError(sess.AddBlockchain("127.0.0.1:9000", cfg))
	err = sess.AddBlockchain("127.0.0.1:9000", cfg)
	require.ErrorIs(err, ErrBlockchainAlreadyAdded)
}

func TestSetAccessTokenPersists(t *testing.T) {
	require := require.New(t)
	s := openStore(t)
	cfg := sampleElectionConfig(t)

	_, err := s.Register("alice", "hunter2")
	require.NoError(err)
	sess, err := s.Login("alice", "hunter2")
	require.NoError(err)
	require.NoError(sess.AddBlockchain("127.0.0.1:9000", cfg))

	token := crypto.Hash([]byte("fake-token"))
	require.NoError(sess.SetAccessToken("127.0.0.1:9000", 0, token))

	record, err := sess.BlockchainRecord("127.0.0.1:9000")
	require.NoError(err)
	require.NotNil(record.AccessTokens[0])
	require.Equal(token, *record.AccessTokens[0])
}

func TestRemoveBlockchain(t *testing.T) {
	require := require.New(t)
	s := openStore(t)
	cfg := sampleElectionConfig(t)

	_, err := s.Register("alice", "hunter2")
	require.NoError(err)
	sess, err := s.Login("alice", "hunter2")
	require.NoError(err)
	require.NoError(sess.AddBlockchain("127.0.0.1:9000", cfg))

	require.NoError(sess.RemoveBlockchain("127.0.0.1:9000"))

	blockchains, err := sess.Blockchains()
	require.NoError(err)
	require.Empty(blockchains)

	_, err = sess.BlockchainRecord("127.0.0.1:9000")
	require.ErrorIs(err, ErrUnknownBlockchain)
}

func TestRemoveBlockchainRejectsUnknownAddress(t *testing.T) {
	require := require.New(t)
	s := openStore(t)

	_, err := s.Register("alice", "hunter2")
	require.NoError(err)
	sess, err := s.Login("alice", "hunter2")
	require.NoError(err)

	err = sess.RemoveBlockchain("127.0.0.1:9999")
	require.ErrorIs(err, ErrUnknownBlockchain)
}

func TestDeleteUserRemovesEverything(t *testing.T) {
	require := require.New(t)
	s := openStore(t)
	cfg := sampleElectionConfig(t)

	_, err := s.Register("alice", "hunter2")
	require.NoError(err)
	sess, err := s.Login("alice", "hunter2")
	require.NoError(err)
	require.NoError(sess.AddBlockchain("127.0.0.1:9000", cfg))

	require.NoError(sess.DeleteUser())

	_, err = s.Login("alice", "hunter2")
	require.ErrorIs(err, ErrUnknownUser)
}
