package crypto

import "errors"

// Error kinds from spec.md §4.1/§7. Kept as sentinel errors rather than a
// custom error type, matching the teacher's convention (see
// opera/genesis and flags packages, which both use plain errors.New/fmt.Errorf).
var (
	ErrSaltGeneration          = errors.New("crypto: salt generation failed")
	ErrNonceGeneration         = errors.New("crypto: nonce generation failed")
	ErrKeyDerive               = errors.New("crypto: key derivation failed")
	ErrEncryption              = errors.New("crypto: encryption failed")
	ErrDecryption              = errors.New("crypto: decryption failed")
	ErrUnblindingSecretMissing = errors.New("crypto: unblinding secret missing")
	ErrSignatureInvalid        = errors.New("crypto: signature invalid")
	ErrBlindSignFailed         = errors.New("crypto: blind signing failed")
	ErrInvalidPublicKey        = errors.New("crypto: invalid public key")
	ErrInvalidPrivateKey       = errors.New("crypto: invalid private key")
	ErrInvalidMetadata         = errors.New("crypto: invalid metadata")
)
