package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/service"
	"github.com/aussiebroadwan/scaconnect/pkg/httpx"
	"github.com/aussiebroadwan/scaconnect/pkg/ledgersdk"
)

// SCAHandler serves the authorisation steps.
type SCAHandler struct {
	SCAService *service.SCAService
}

// HandleLogin handles POST /v1/sca/login
func (h *SCAHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req ledgersdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	// A plain login carries no operation to match against.
	opType := req.OperationType
	if opType == ledgersdk.OperationLogin {
		opType = ""
	}

	res, err := h.SCAService.Login(r.Context(), service.LoginInput{
		Login:           strings.TrimSpace(req.Login),
		PIN:             req.PIN,
		OperationID:     req.OperationID,
		AuthorisationID: req.AuthorisationID,
		OperationType:   opType,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, scaResponse(res))
}

// HandleStartAuthorisation handles POST /v1/sca/{op}/authorisations
func (h *SCAHandler) HandleStartAuthorisation(w http.ResponseWriter, r *http.Request) {
	res, err := h.SCAService.StartAuthorisation(r.Context(), r.PathValue("op"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, scaResponse(res))
}

// HandleSelectMethod handles PUT /v1/sca/{op}/authorisations/{auth}/methods/{method}
func (h *SCAHandler) HandleSelectMethod(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		ledgersdk.ErrInvalidToken.WriteError(w)
		return
	}

	res, err := h.SCAService.SelectMethod(r.Context(), claims, r.PathValue("op"), r.PathValue("auth"), r.PathValue("method"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, scaResponse(res))
}

// HandleVerifyCode handles POST /v1/sca/{op}/authorisations/{auth}/code
//
// A wrong code is not an error: the authorisation stays on
// SCA_METHOD_SELECTED with fewer attempts left until it fails.
func (h *SCAHandler) HandleVerifyCode(w http.ResponseWriter, r *http.Request) {
	claims, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		ledgersdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req ledgersdk.CodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.SCAService.VerifyCode(r.Context(), claims, r.PathValue("op"), r.PathValue("auth"), strings.TrimSpace(req.Code))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, scaResponse(res))
}

// HandleConfirmation handles POST /v1/sca/{op}/authorisations/{auth}/confirmation
func (h *SCAHandler) HandleConfirmation(w http.ResponseWriter, r *http.Request) {
	var req ledgersdk.CodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.SCAService.VerifyConfirmation(r.Context(), r.PathValue("op"), r.PathValue("auth"), strings.TrimSpace(req.Code))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, confirmationResponse(res))
}

// HandleCompleteConfirmation handles POST /v1/sca/{op}/authorisations/{auth}/confirmation/complete
func (h *SCAHandler) HandleCompleteConfirmation(w http.ResponseWriter, r *http.Request) {
	var req ledgersdk.CompleteConfirmationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.SCAService.CompleteConfirmation(r.Context(), r.PathValue("op"), r.PathValue("auth"), req.Confirmed)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, confirmationResponse(res))
}

// HandleRevoke handles DELETE /v1/sca/{op}/authorisations/{auth}
func (h *SCAHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	res, err := h.SCAService.Revoke(r.Context(), r.PathValue("op"), r.PathValue("auth"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, scaResponse(res))
}

// HandleValidateToken handles POST /v1/token/validate
func (h *SCAHandler) HandleValidateToken(w http.ResponseWriter, r *http.Request) {
	var req ledgersdk.ValidateTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tok, err := h.SCAService.ValidateToken(r.Context(), strings.TrimSpace(req.Token))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bearerToken(tok))
}
