package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aussiebroadwan/scaconnect/pkg/jwtx"
)

// InitKeys loads the signing key from cfg.SigningKeyFile, or generates an
// ephemeral one. With an ephemeral key every restart invalidates the
// bearers issued so far.
func InitKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	var pemKey []byte
	if cfg.SigningKeyFile != "" {
		var err error
		if pemKey, err = os.ReadFile(cfg.SigningKeyFile); err != nil {
			return nil, fmt.Errorf("read signing key: %w", err)
		}
	}

	km, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{
		PrivateKeyPEM: pemKey,
		Issuer:        cfg.Issuer,
		Audience:      cfg.Audience,
	})
	if err != nil {
		return nil, err
	}

	if len(pemKey) == 0 {
		logger.Warn("using an ephemeral signing key, bearers will not survive a restart")
	}
	logger.Info("signing key loaded", "kid", km.Signer.KID(), "issuer", cfg.Issuer)
	return km, nil
}
