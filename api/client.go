package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rony4d/go-voting-chain/config"
	"github.com/rony4d/go-voting-chain/cryptobytes"
	"github.com/rony4d/go-voting-chain/vote"
)

// AuthorityHTTPClient talks to an authority's /authenticate and /pkey
// endpoints over HTTP, implementing voter.AuthorityClient.
type AuthorityHTTPClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewAuthorityHTTPClient builds a client against an authority reachable at
// baseURL (e.g. "http://127.0.0.1:9100").
func NewAuthorityHTTPClient(baseURL string) *AuthorityHTTPClient {
	return &AuthorityHTTPClient{BaseURL: baseURL, HTTP: &http.Client{Timeout: 10 * time.Second}}
}

// BlindSign posts a blinded voter public key and returns the authority's
// blind signature over it.
func (c *AuthorityHTTPClient) BlindSign(blindedMsg cryptobytes.Bytes) (cryptobytes.Bytes, error) {
	body, err := json.Marshal(authenticateRequest{BlindedPKey: blindedMsg.String()})
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Post(c.BaseURL+"/authenticate", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api: authenticate returned status %d", resp.StatusCode)
	}

	var out authenticateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return cryptobytes.FromString(out.Signature)
}

// PublicKey fetches the authority's RSA public key.
func (c *AuthorityHTTPClient) PublicKey() (cryptobytes.Bytes, error) {
	resp, err := c.HTTP.Get(c.BaseURL + "/pkey")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api: pkey returned status %d", resp.StatusCode)
	}

	var out pkeyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return cryptobytes.FromString(out.PublicKey)
}

// NodeHTTPClient talks to a node's /vote and /config endpoints over HTTP,
// implementing voter.NodeClient.
type NodeHTTPClient struct {
	BaseURL string
	HTTP    *http.Client
}

// NewNodeHTTPClient builds a client against a node reachable at baseURL.
func NewNodeHTTPClient(baseURL string) *NodeHTTPClient {
	return &NodeHTTPClient{BaseURL: baseURL, HTTP: &http.Client{Timeout: 10 * time.Second}}
}

// SubmitVote posts v to the node's /vote endpoint. Any response other than
// 200 OK is returned as an error carrying the status code; the response
// body is not read.
func (c *NodeHTTPClient) SubmitVote(v vote.Vote) error {
	tokens := make([]string, len(v.AccessTokens))
	for i, t := range v.AccessTokens {
		tokens[i] = t.String()
	}
	req := voteRequest{
		PublicKey:    v.PublicKey.String(),
		Candidate:    v.CandidateID,
		Timestamp:    v.Timestamp,
		AccessTokens: tokens,
		Signature:    v.Signature.String(),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	resp, err := c.HTTP.Post(c.BaseURL+"/vote", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("api: vote rejected with status %d", resp.StatusCode)
	}
	return nil
}

// FetchConfig retrieves the election configuration a node is serving.
func (c *NodeHTTPClient) FetchConfig() (config.ElectionConfig, error) {
	resp, err := c.HTTP.Get(c.BaseURL + "/config")
	if err != nil {
		return config.ElectionConfig{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return config.ElectionConfig{}, fmt.Errorf("api: config returned status %d", resp.StatusCode)
	}

	var cfg config.ElectionConfig
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return config.ElectionConfig{}, err
	}
	return cfg, nil
}
