package authority

import (
	"github.com/rony4d/go-voting-chain/crypto"
)

// keyFileFromPair renders an AuthorityKeyPair as its JSON-serializable
// form: the public key and a PKCS#1 DER-encoded private key, both
// base64'd via cryptobytes.Bytes' JSON marshaling (spec.md §6: {"pk","sk"}).
func keyFileFromPair(kp crypto.AuthorityKeyPair) keyFile {
	return keyFile{
		PK: crypto.EncodePublicKey(kp.Public),
		SK: crypto.EncodePrivateKey(kp.Private),
	}
}

// keyPairFromFile reconstructs an AuthorityKeyPair from its JSON form. The
// private key alone carries the full key pair (PKCS#1 includes N and E),
// so Public is taken from the decoded private key rather than re-parsed
// from PK independently.
func keyPairFromFile(kf keyFile) (crypto.AuthorityKeyPair, error) {
	priv, err := crypto.DecodePrivateKey(kf.SK)
	if err != nil {
		return crypto.AuthorityKeyPair{}, err
	}
	return crypto.AuthorityKeyPair{Public: &priv.PublicKey, Private: priv}, nil
}
