package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rony4d/go-voting-chain/authority"
	"github.com/rony4d/go-voting-chain/cryptobytes"
)

// authenticateRequest is the wire shape of POST /authenticate's JSON body
// (spec.md §6), grounded on the original Actix service's {"blinded_pkey"}
// body (original_source/subcrates/mock_authority/src/server.rs).
type authenticateRequest struct {
	BlindedPKey string `json:"blinded_pkey"`
}

type authenticateResponse struct {
	Signature string `json:"signature"`
}

type pkeyResponse struct {
	PublicKey string `json:"public_key"`
}

// AuthorityServer serves an authority's HTTP API: blind-sign requests,
// public key lookup, and health.
type AuthorityServer struct {
	svc *authority.Service
}

// NewAuthorityServer wraps an authority.Service for HTTP serving.
func NewAuthorityServer(svc *authority.Service) *AuthorityServer {
	return &AuthorityServer{svc: svc}
}

// Router builds the authority's mux router.
func (s *AuthorityServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/authenticate", s.handleAuthenticate).Methods(http.MethodPost)
	r.HandleFunc("/pkey", s.handlePublicKey).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	return r
}

func (s *AuthorityServer) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req authenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	blinded, err := cryptobytes.FromString(req.BlindedPKey)
	if err != nil {
		http.Error(w, "malformed blinded_pkey", http.StatusBadRequest)
		return
	}

	sig, err := s.svc.BlindSign(blinded)
	if err != nil {
		// Blind signing failures never surface their cause: the authority
		// never logs or echoes the blinded message it was asked to sign
		// (spec.md §4.5, §7).
		http.Error(w, "blind signing failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(authenticateResponse{Signature: sig.String()})
}

func (s *AuthorityServer) handlePublicKey(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pkeyResponse{PublicKey: s.svc.GetPublicKey().String()})
}

func (s *AuthorityServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
