package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/domain"
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/store"
	"github.com/aussiebroadwan/scaconnect/pkg/cryptox"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

// authenticate checks login and PIN. Unknown logins and wrong PINs are
// indistinguishable to the caller.
func authenticate(ctx context.Context, st store.Store, hasher cryptox.SecretHasher, login, pin string) (domain.PSU, error) {
	login = strings.TrimSpace(login)
	if login == "" || pin == "" {
		return domain.PSU{}, ErrInvalidRequest
	}

	psu, err := st.PSUs().GetPSUByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.PSU{}, ErrPSUCredentialsInvalid
		}
		return domain.PSU{}, err
	}

	if err := hasher.Verify(pin, psu.PINHash); err != nil {
		slogx.FromContext(ctx).Info("psu login failed", "login", login)
		return domain.PSU{}, ErrPSUCredentialsInvalid
	}
	return psu, nil
}
