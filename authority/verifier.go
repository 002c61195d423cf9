package authority

import (
	"crypto/rsa"

	"github.com/rony4d/go-voting-chain/crypto"
)

// RemoteVerifier checks access tokens against an authority's public key
// alone, for participants (nodes, voters) that only ever see that key
// through config.Authority.PublicKey and never hold the matching private
// key. It satisfies vote.BlindSigVerifier the same way *Service does.
type RemoteVerifier struct {
	PublicKey *rsa.PublicKey
}

// VerifyAccessToken satisfies vote.BlindSigVerifier.
func (v RemoteVerifier) VerifyAccessToken(token, message []byte) error {
	return crypto.VerifyBlindToken(v.PublicKey, token, message)
}
