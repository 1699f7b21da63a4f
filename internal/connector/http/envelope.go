package http

import (
	"net/http"

	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
	"github.com/aussiebroadwan/scaconnect/internal/connector/service"
	"github.com/aussiebroadwan/scaconnect/pkg/httpx"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

const codeOAuthTokenRequired = "oauth_token_required"

func writeStep(w http.ResponseWriter, status int, res StepResponse) {
	httpx.WriteJSON(w, status, Envelope{Success: true, Payload: res})
}

// writeError answers with the failure envelope. Technical failures are
// logged with their cause; the caller only sees the safe message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := domain.AsError(err)
	if e.Technical() {
		slogx.FromContext(r.Context()).Error("step failed", "error_code", e.Code(), "err", err)
	}
	httpx.WriteJSON(w, e.HTTPStatus(), Envelope{
		Error: &ErrorDetail{
			Code:      e.Code(),
			Message:   e.Message,
			Technical: e.Technical(),
		},
	})
}

func writeTokenRequired(w http.ResponseWriter, oauthURL string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="scaconnect"`)
	httpx.WriteJSON(w, http.StatusUnauthorized, Envelope{
		Error: &ErrorDetail{
			Code:     codeOAuthTokenRequired,
			Message:  "an OAuth token is required for the pre-step approach",
			ScaOAuth: oauthURL,
		},
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(r, v); err != nil {
		writeError(w, r, domain.Errorf(domain.ErrFormat, "request body: %v", err))
		return false
	}
	return true
}

// requireToken rejects a step request that carries no opaque token.
func requireToken(w http.ResponseWriter, r *http.Request, token string) bool {
	if token == "" {
		writeError(w, r, domain.Errorf(domain.ErrInvalidToken, "token is required"))
		return false
	}
	return true
}

// respond writes either the step or the error of an engine call.
func respond(w http.ResponseWriter, r *http.Request, step *service.Step, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeStep(w, http.StatusOK, stepResponse(step))
}
