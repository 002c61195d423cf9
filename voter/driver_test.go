package voter

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-voting-chain/authority"
	"github.com/rony4d/go-voting-chain/config"
	"github.com/rony4d/go-voting-chain/cryptobytes"
	"github.com/rony4d/go-voting-chain/vote"
	"github.com/rony4d/go-voting-chain/voterstore"
)

// fakeAuthorityClient wraps an in-process authority.Service so tests don't
// need an HTTP server.
type fakeAuthorityClient struct {
	svc *authority.Service
}

func (f fakeAuthorityClient) BlindSign(blindedMsg cryptobytes.Bytes) (cryptobytes.Bytes, error) {
	return f.svc.BlindSign(blindedMsg)
}

func (f fakeAuthorityClient) PublicKey() (cryptobytes.Bytes, error) {
	return f.svc.GetPublicKey(), nil
}

// fakeNodeClient verifies submitted votes the way a real node would and
// records the accepted ones in-memory; with fail set it rejects every
// submission as a transport failure.
type fakeNodeClient struct {
	verifiers []vote.BlindSigVerifier
	window    vote.TimestampWindow
	submitted []vote.Vote
	fail      bool
}

func (f *fakeNodeClient) SubmitVote(v vote.Vote) error {
	if f.fail {
		return errSubmitFailed
	}
	if err := v.Verify(f.verifiers, f.window); err != nil {
		return err
	}
	f.submitted = append(f.submitted, v)
	return nil
}

var errSubmitFailed = &transportError{"simulated transport failure"}

type transportError struct{ msg string }

func (e *transportError) Error() string { return e.msg }

func setupElection(t *testing.T) (config.ElectionConfig, *authority.Service) {
	t.Helper()
	svc, err := authority.Open(filepath.Join(t.TempDir(), "authority.json"), false, nil)
	require.NoError(t, err)

	start := time.Now().UTC().Add(-time.Hour)
	cfg := config.ElectionConfig{
		Name:  "driver-test",
		Start: start,
		End:   start.Add(2 * time.Hour),
		Nodes: []string{"127.0.0.1:9000"},
		Authorities: []config.Authority{
			{Name: "a1", PublicKey: svc.GetPublicKey().String(), Address: "127.0.0.1:9100"},
		},
		Candidates: []config.Candidate{{Name: "Alice", ID: 1}},
	}
	return cfg, svc
}

func TestDriverFullFlowRegisterToVoted(t *testing.T) {
	require := require.New(t)
	cfg, svc := setupElection(t)

	store, err := voterstore.Open(filepath.Join(t.TempDir(), "voter.db"))
	require.NoError(err)
	defer store.Close()

	d, err := Register(store, "alice", "hunter2")
	require.NoError(err)
	require.Equal(LoggedIn, d.State())

	require.NoError(d.SelectBlockchain("127.0.0.1:9000", cfg))
	require.NoError(d.AcquireToken(0, fakeAuthorityClient{svc}))
	require.Equal(Validated, d.State())

	node := &fakeNodeClient{
		verifiers: []vote.BlindSigVerifier{svc},
		window:    vote.TimestampWindow{Lo: cfg.Start, Hi: cfg.End},
	}
	require.NoError(d.SubmitVote(1, node))
	require.Equal(Voted, d.State())
	require.Len(node.submitted, 1)
	require.Equal(uint8(1), node.submitted[0].CandidateID)
}

func TestSubmitVoteRejectedOutsideValidated(t *testing.T) {
	require := require.New(t)
	cfg, _ := setupElection(t)

	store, err := voterstore.Open(filepath.Join(t.TempDir(), "voter.db"))
	require.NoError(err)
	defer store.Close()

	d, err := Register(store, "alice", "hunter2")
	require.NoError(err)
	require.NoError(d.SelectBlockchain("127.0.0.1:9000", cfg))

	err = d.SubmitVote(1, &fakeNodeClient{})
	require.ErrorIs(err, ErrWrongState)
}

func TestSubmitVoteTransportFailureStaysValidated(t *testing.T) {
	require := require.New(t)
	cfg, svc := setupElection(t)

	store, err := voterstore.Open(filepath.Join(t.TempDir(), "voter.db"))
	require.NoError(err)
	defer store.Close()

	d, err := Register(store, "alice", "hunter2")
	require.NoError(err)
	require.NoError(d.SelectBlockchain("127.0.0.1:9000", cfg))
	require.NoError(d.AcquireToken(0, fakeAuthorityClient{svc}))
	require.Equal(Validated, d.State())

	err = d.SubmitVote(1, &fakeNodeClient{fail: true})
	require.Error(err)
	require.Equal(Validated, d.State())
}

func TestAcquireTokenOutOfRangeIndex(t *testing.T) {
	require := require.New(t)
	cfg, svc := setupElection(t)

	store, err := voterstore.Open(filepath.Join(t.TempDir(), "voter.db"))
	require.NoError(err)
	defer store.Close()

	d, err := Register(store, "alice", "hunter2")
	require.NoError(err)
	require.NoError(d.SelectBlockchain("127.0.0.1:9000", cfg))

	err = d.AcquireToken(5, fakeAuthorityClient{svc})
	require.Error(err)
}
