package jwtx

import (
	"fmt"

	"github.com/aussiebroadwan/scaconnect/pkg/cryptox"
)

// KeyManager wires a signer, its KeySet and a matching verifier together.
type KeyManager struct {
	Signer   Signer
	Verifier Verifier
	KeySet   *KeySet
}

// KeyManagerOptions configures NewKeyManager.
type KeyManagerOptions struct {
	// KID published in the JWKS and token headers.
	KID string
	// PrivateKeyPEM is a PKCS8 Ed25519 key. Empty generates an ephemeral one,
	// so every restart invalidates issued bearers.
	PrivateKeyPEM []byte

	Issuer   string
	Audience []string
}

// NewKeyManager builds an EdDSA KeyManager.
func NewKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}

	pemKey := opts.PrivateKeyPEM
	if len(pemKey) == 0 {
		var err error
		if pemKey, err = cryptox.GenerateEd25519Key(); err != nil {
			return nil, err
		}
	}

	kid := opts.KID
	if kid == "" {
		kid = "ledgers-" + NewJTI()[:8]
	}

	signer, err := NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, err
	}

	keys := NewKeySet()
	if err := keys.AddSigner(signer); err != nil {
		return nil, fmt.Errorf("jwtx: register signer: %w", err)
	}

	return &KeyManager{
		Signer:   signer,
		Verifier: NewVerifierEdDSA(keys, opts.Issuer, opts.Audience),
		KeySet:   keys,
	}, nil
}
