package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/service"
	"github.com/aussiebroadwan/scaconnect/pkg/httpx"
	"github.com/aussiebroadwan/scaconnect/pkg/ledgersdk"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

var serviceErrors = []struct {
	err error
	api *ledgersdk.APIError
}{
	{service.ErrInvalidRequest, ledgersdk.ErrInvalidRequest},
	{service.ErrPSUCredentialsInvalid, ledgersdk.ErrPSUCredentialsInvalid},
	{service.ErrInvalidToken, ledgersdk.ErrInvalidToken},
	{service.ErrNotFound, ledgersdk.ErrNotFound},
	{service.ErrIllegalState, ledgersdk.ErrIllegalState},
	{service.ErrInvalidGrant, ledgersdk.ErrInvalidGrant},
	{service.ErrInvalidClient, ledgersdk.ErrInvalidClient},
}

// writeServiceError maps a service error to its wire error. Wrapped
// sentinels keep their detail as description.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range serviceErrors {
		if !errors.Is(err, m.err) {
			continue
		}
		if err == m.err {
			m.api.WriteError(w)
			return
		}
		ledgersdk.NewAPIError(m.api.StatusCode, m.api.Code, err.Error()).WriteError(w)
		return
	}

	slogx.FromContext(r.Context()).Error("request failed", "err", err)
	ledgersdk.ErrServerError.WriteError(w)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(r, v); err != nil {
		ledgersdk.NewAPIError(http.StatusBadRequest, ledgersdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
		return false
	}
	return true
}
