package api

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-voting-chain/authority"
	"github.com/rony4d/go-voting-chain/crypto"
	"github.com/rony4d/go-voting-chain/cryptobytes"
)

func setupAuthorityServer(t *testing.T) (*AuthorityServer, *authority.Service) {
	t.Helper()
	svc, err := authority.Open(filepath.Join(t.TempDir(), "authority.json"), false, nil)
	require.NoError(t, err)
	return NewAuthorityServer(svc), svc
}

func TestHandleAuthenticateReturnsValidBlindSignature(t *testing.T) {
	s, svc := setupAuthorityServer(t)

	signKey, err := crypto.GenerateVoterSigningKey()
	require.NoError(t, err)
	blinded, secret, err := crypto.Blind(rand.Reader, svc.PublicKey(), signKey.Public)
	require.NoError(t, err)

	body, err := json.Marshal(authenticateRequest{BlindedPKey: blinded.String()})
	require.NoError(t, err)

	r := httptest.NewRequest("POST", "/authenticate", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, r)
	require.Equal(t, 200, w.Code)

	var resp authenticateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	blindSig, err := cryptobytes.FromString(resp.Signature)
	require.NoError(t, err)

	token, err := crypto.Unblind(svc.PublicKey(), blindSig, secret, signKey.Public)
	require.NoError(t, err)
	require.NoError(t, crypto.VerifyBlindToken(svc.PublicKey(), token, signKey.Public))
}

func TestHandleAuthenticateRejectsMalformedBody(t *testing.T) {
	s, _ := setupAuthorityServer(t)

	r := httptest.NewRequest("POST", "/authenticate", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, r)
	require.Equal(t, 400, w.Code)
}

func TestHandlePublicKeyReturnsDecodableKey(t *testing.T) {
	s, svc := setupAuthorityServer(t)

	r := httptest.NewRequest("GET", "/pkey", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, r)
	require.Equal(t, 200, w.Code)

	var resp pkeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	keyBytes, err := cryptobytes.FromString(resp.PublicKey)
	require.NoError(t, err)
	pub, err := crypto.DecodePublicKey(keyBytes)
	require.NoError(t, err)
	require.Equal(t, svc.PublicKey().N, pub.N)
}

func TestAuthorityHandleHealthReturnsOK(t *testing.T) {
	s, _ := setupAuthorityServer(t)

	r := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, r)
	require.Equal(t, 200, w.Code)
}
