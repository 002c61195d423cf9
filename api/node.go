// Package api implements the HTTP surface spec.md §6 describes: a node's
// /vote, /config, /health endpoints and an authority's /authenticate,
// /pkey, /health endpoints, both routed with gorilla/mux.
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/rony4d/go-voting-chain/batcher"
	"github.com/rony4d/go-voting-chain/chain"
	"github.com/rony4d/go-voting-chain/config"
	"github.com/rony4d/go-voting-chain/cryptobytes"
	"github.com/rony4d/go-voting-chain/vote"
)

// voteRequest is the wire shape of POST /vote's JSON body (spec.md §6).
type voteRequest struct {
	PublicKey    string    `json:"public_key"`
	Candidate    uint8     `json:"candidate"`
	Timestamp    time.Time `json:"timestamp"`
	AccessTokens []string  `json:"access_tokens"`
	Signature    string    `json:"signature"`
}

// NodeServer serves a node's HTTP API: vote ingestion, config lookup, and
// health. It owns the batcher input channel — AppendVotes happens on the
// consumer goroutine started by Run, not inline in the handler, so many
// concurrent /vote requests can be validated and queued without each one
// blocking on a ledger write.
type NodeServer struct {
	ledger    *chain.Ledger
	cfg       config.ElectionConfig
	verifiers []vote.BlindSigVerifier
	log       *logrus.Entry

	batch   *batcher.Batcher[vote.Vote]
	votesIn chan<- vote.Vote

	mu      sync.Mutex
	pending map[string]struct{} // token tuples enqueued but not yet appended
}

// NewNodeServer wires a ledger, election config, and one BlindSigVerifier
// per authority (in config order) into a NodeServer, along with a batcher
// sized by batchSize/batchInterval (spec.md §4.8).
func NewNodeServer(ledger *chain.Ledger, cfg config.ElectionConfig, verifiers []vote.BlindSigVerifier, batchSize int, batchInterval time.Duration, log *logrus.Entry) *NodeServer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	b, in := batcher.New[vote.Vote](batchSize, batchInterval, batchSize*2)
	return &NodeServer{
		ledger:    ledger,
		cfg:       cfg,
		verifiers: verifiers,
		log:       log,
		batch:     b,
		votesIn:   in,
		pending:   make(map[string]struct{}),
	}
}

// Run drains batches off the batcher and appends them to the ledger. It
// returns once the input channel is closed and the final (possibly
// partial) batch has been flushed; callers run it in its own goroutine.
func (s *NodeServer) Run() {
	for {
		batch := s.batch.WaitForBatch()
		if len(batch) == 0 {
			if s.batch.Done() {
				return
			}
			continue
		}
		s.commitBatch(batch)
	}
}

func (s *NodeServer) commitBatch(batch []vote.Vote) {
	height, hash, err := s.ledger.AppendVotes(batch, time.Now().UTC())

	s.mu.Lock()
	for _, v := range batch {
		delete(s.pending, v.TokenTupleKey())
	}
	s.mu.Unlock()

	if err != nil {
		s.log.WithError(err).Error("node: failed to commit vote batch")
		return
	}
	s.log.WithFields(logrus.Fields{
		"height": height,
		"hash":   hash.Hex(),
		"votes":  len(batch),
	}).Debug("node: committed vote batch")
}

// Router builds the node's mux router.
func (s *NodeServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/vote", s.handleVote).Methods(http.MethodPost)
	r.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	return r
}

func (s *NodeServer) handleVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	v, err := decodeVoteRequest(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	window := vote.TimestampWindow{Lo: s.cfg.Start, Hi: s.cfg.End}
	if err := v.Verify(s.verifiers, window); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if _, ok := s.cfg.CandidateByID(v.CandidateID); !ok {
		http.Error(w, "unknown candidate id", http.StatusUnprocessableEntity)
		return
	}

	if s.isDuplicate(v) {
		http.Error(w, "duplicate vote", http.StatusConflict)
		return
	}

	s.markPending(v)
	select {
	case s.votesIn <- v:
		w.WriteHeader(http.StatusOK)
	default:
		s.clearPending(v)
		http.Error(w, "node is overloaded", http.StatusInternalServerError)
	}
}

func (s *NodeServer) isDuplicate(v vote.Vote) bool {
	if s.ledger.HasToken(v) {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[v.TokenTupleKey()]
	return ok
}

func (s *NodeServer) markPending(v vote.Vote) {
	s.mu.Lock()
	s.pending[v.TokenTupleKey()] = struct{}{}
	s.mu.Unlock()
}

func (s *NodeServer) clearPending(v vote.Vote) {
	s.mu.Lock()
	delete(s.pending, v.TokenTupleKey())
	s.mu.Unlock()
}

func (s *NodeServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.cfg)
}

func (s *NodeServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func decodeVoteRequest(req voteRequest) (vote.Vote, error) {
	pub, err := cryptobytes.FromString(req.PublicKey)
	if err != nil {
		return vote.Vote{}, err
	}
	sig, err := cryptobytes.FromString(req.Signature)
	if err != nil {
		return vote.Vote{}, err
	}
	tokens := make([]cryptobytes.Bytes, len(req.AccessTokens))
	for i, t := range req.AccessTokens {
		tok, err := cryptobytes.FromString(t)
		if err != nil {
			return vote.Vote{}, err
		}
		tokens[i] = tok
	}

	return vote.Vote{
		PublicKey:    pub,
		CandidateID:  req.Candidate,
		Timestamp:    req.Timestamp,
		AccessTokens: tokens,
		Signature:    sig,
	}, nil
}
