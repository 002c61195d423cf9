// Package config defines the election configuration structure and
// validation logic. The election config is the first artifact every
// participant (node, authority, voter) loads and establishes the election's
// name, schedule, authority set, and candidate list that everyone must
// agree on.
//
// Key concepts:
//   - Authority: a blind-signing identity voters must collect an access
//     token from before they can cast a valid vote.
//   - Candidate: an option on the ballot, identified by a small unsigned id.
//   - ElectionConfig: the complete, immutable description of one election.
//
// The config is typically loaded from a JSON file and is immutable once
// loaded (spec.md §4.2) — changing it mid-election would invalidate every
// vote already cast against the old ordering of authorities.
package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Authority identifies one blind-signing authority voters must obtain an
// access token from. Order within ElectionConfig.Authorities is semantic:
// a vote's access tokens are positional, one per authority, in this order.
type Authority struct {
	Name      string `json:"name"`
	PublicKey string `json:"public_key"` // base64-encoded RSA public key
	Address   string `json:"address"`    // host:port the authority's HTTP API listens on
}

// Candidate is one option on the ballot.
type Candidate struct {
	Name string `json:"name"`
	ID   uint8  `json:"id"`
}

// ElectionConfig is the complete, immutable description of one election
// (spec.md §4.2). It is JSON-encoded and distributed to every node,
// authority, and voter before the election opens.
type ElectionConfig struct {
	Name        string      `json:"name"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Nodes       []string    `json:"nodes"`
	Authorities []Authority `json:"authorities"`
	Candidates  []Candidate `json:"candidates"`
}

// Parse decodes an ElectionConfig from JSON and validates it.
func Parse(data []byte) (ElectionConfig, error) {
	var cfg ElectionConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ElectionConfig{}, fmt.Errorf("config: decode election config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ElectionConfig{}, err
	}
	return cfg, nil
}

// Validate checks the structural invariants spec.md §4.2 and §8 require:
// a non-empty name, a schedule where end follows start, at least one
// authority and one candidate, and no duplicate candidate ids.
func (c ElectionConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config: name must not be empty")
	}
	if !c.End.After(c.Start) {
		return fmt.Errorf("config: end (%s) must be after start (%s)", c.End, c.Start)
	}
	if len(c.Authorities) == 0 {
		return fmt.Errorf("config: at least one authority is required")
	}
	if len(c.Candidates) == 0 {
		return fmt.Errorf("config: at least one candidate is required")
	}

	seenAuthorities := make(map[string]struct{}, len(c.Authorities))
	for _, a := range c.Authorities {
		if a.Name == "" {
			return fmt.Errorf("config: authority name must not be empty")
		}
		if _, dup := seenAuthorities[a.Name]; dup {
			return fmt.Errorf("config: duplicate authority name %q", a.Name)
		}
		seenAuthorities[a.Name] = struct{}{}
	}

	seenCandidates := make(map[uint8]struct{}, len(c.Candidates))
	for _, cand := range c.Candidates {
		if _, dup := seenCandidates[cand.ID]; dup {
			return fmt.Errorf("config: duplicate candidate id %d", cand.ID)
		}
		seenCandidates[cand.ID] = struct{}{}
	}

	return nil
}

// IsOpen reports whether at is within [Start, End).
func (c ElectionConfig) IsOpen(at time.Time) bool {
	return !at.Before(c.Start) && at.Before(c.End)
}

// AuthorityCount returns the number of authorities a vote's access token
// list must carry one entry per.
func (c ElectionConfig) AuthorityCount() int {
	return len(c.Authorities)
}

// CandidateByID looks up a candidate by its ballot id.
func (c ElectionConfig) CandidateByID(id uint8) (Candidate, bool) {
	for _, cand := range c.Candidates {
		if cand.ID == id {
			return cand, true
		}
	}
	return Candidate{}, false
}
