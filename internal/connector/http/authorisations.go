package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/scaconnect/internal/connector/approach"
	"github.com/aussiebroadwan/scaconnect/internal/connector/service"
	"github.com/aussiebroadwan/scaconnect/pkg/httpx"
)

// AuthorisationHandler drives an initiated authorisation one step at a
// time. Every request carries the token of the previous step.
type AuthorisationHandler struct {
	Engine   *service.Engine
	Resolver *approach.Resolver
}

// HandleLogin handles POST /v1/login
//
//	@Summary		Log in a PSU
//	@Description	Authenticates a PSU without an operation and returns a login token.
//	@Tags			Authorisations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"PSU credentials"
//	@Success		200		{object}	StepEnvelope
//	@Failure		400		{object}	ErrorEnvelope
//	@Failure		401		{object}	ErrorEnvelope
//	@Router			/v1/login [post]
func (h *AuthorisationHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	step, err := h.Engine.Login(r.Context(), strings.TrimSpace(req.Login), req.PIN)
	respond(w, r, step, err)
}

// HandlePSUAuthentication handles POST /v1/authorisations/psu-authentication
//
//	@Summary		Identify the PSU
//	@Description	Checks login and PIN for an initiated operation. Without SCA methods the authorisation lands on PSU_AUTHENTICATED or EXEMPTED, with one method it is selected automatically.
//	@Tags			Authorisations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PSUAuthenticationRequest	true	"Token and PSU credentials"
//	@Success		200		{object}	StepEnvelope
//	@Failure		400		{object}	ErrorEnvelope
//	@Failure		401		{object}	ErrorEnvelope
//	@Failure		409		{object}	ErrorEnvelope
//	@Router			/v1/authorisations/psu-authentication [post]
func (h *AuthorisationHandler) HandlePSUAuthentication(w http.ResponseWriter, r *http.Request) {
	var req PSUAuthenticationRequest
	if !decodeBody(w, r, &req) || !requireToken(w, r, req.Token) {
		return
	}
	step, err := h.Engine.IdentifyPSU(r.Context(), req.Token, strings.TrimSpace(req.Login), req.PIN)
	respond(w, r, step, err)
}

// HandleOAuth handles POST /v1/authorisations/oauth
//
//	@Summary		Authorise with an OAuth token
//	@Description	Validates an OAuth access token at the ledgers backend. The token is read from the body or, when absent there, from the Authorization header.
//	@Tags			Authorisations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		OAuthRequest	true	"Token and optional access token"
//	@Success		200		{object}	StepEnvelope
//	@Failure		400		{object}	ErrorEnvelope
//	@Failure		401		{object}	ErrorEnvelope
//	@Router			/v1/authorisations/oauth [post]
func (h *AuthorisationHandler) HandleOAuth(w http.ResponseWriter, r *http.Request) {
	var req OAuthRequest
	if !decodeBody(w, r, &req) || !requireToken(w, r, req.Token) {
		return
	}

	access := req.AccessToken
	if access == "" {
		access, _ = httpx.BearerToken(r)
	}
	if access == "" {
		writeTokenRequired(w, h.Resolver.Resolve(r).OAuthURL)
		return
	}

	step, err := h.Engine.AuthorizeWithToken(r.Context(), req.Token, access)
	respond(w, r, step, err)
}

// HandleSelectMethod handles POST /v1/authorisations/sca-method
//
//	@Summary		Select an SCA method
//	@Description	Selects one of the offered SCA methods; the backend delivers a code through it.
//	@Tags			Authorisations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SelectMethodRequest	true	"Token and method id"
//	@Success		200		{object}	StepEnvelope
//	@Failure		400		{object}	ErrorEnvelope
//	@Failure		409		{object}	ErrorEnvelope
//	@Router			/v1/authorisations/sca-method [post]
func (h *AuthorisationHandler) HandleSelectMethod(w http.ResponseWriter, r *http.Request) {
	var req SelectMethodRequest
	if !decodeBody(w, r, &req) || !requireToken(w, r, req.Token) {
		return
	}
	step, err := h.Engine.SelectMethod(r.Context(), req.Token, strings.TrimSpace(req.MethodID))
	respond(w, r, step, err)
}

// HandleCode handles POST /v1/authorisations/code
//
//	@Summary		Verify the SCA code
//	@Description	Finalises the authorisation on a valid code. A wrong code keeps SCA_METHOD_SELECTED until the backend runs out of attempts and fails it.
//	@Tags			Authorisations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CodeRequest	true	"Token and code"
//	@Success		200		{object}	StepEnvelope
//	@Failure		400		{object}	ErrorEnvelope
//	@Failure		409		{object}	ErrorEnvelope
//	@Router			/v1/authorisations/code [post]
func (h *AuthorisationHandler) HandleCode(w http.ResponseWriter, r *http.Request) {
	var req CodeRequest
	if !decodeBody(w, r, &req) || !requireToken(w, r, req.Token) {
		return
	}
	step, err := h.Engine.VerifyCode(r.Context(), req.Token, strings.TrimSpace(req.Code))
	respond(w, r, step, err)
}

// HandleConfirmation handles POST /v1/authorisations/confirmation
//
//	@Summary		Check the confirmation code
//	@Description	Checks the redirect confirmation code. Under the OAuth approaches scaData is compared with the code kept in the token; otherwise the code is checked by the backend.
//	@Tags			Authorisations
//	@Accept			json
//	@Produce		json
//	@Param			X-OAUTH-PREFERRED		header		string				false	"pre-step or integrated"
//	@Param			TPP-Redirect-Preferred	header		bool				false	"true selects REDIRECT"
//	@Param			request					body		ConfirmationRequest	true	"Token and confirmation code"
//	@Success		200						{object}	StepEnvelope
//	@Failure		400						{object}	ErrorEnvelope
//	@Failure		401						{object}	ErrorEnvelope
//	@Router			/v1/authorisations/confirmation [post]
func (h *AuthorisationHandler) HandleConfirmation(w http.ResponseWriter, r *http.Request) {
	var req ConfirmationRequest
	if !decodeBody(w, r, &req) || !requireToken(w, r, req.Token) {
		return
	}

	mode := h.Resolver.Approach(r)
	step, err := h.Engine.Confirm(r.Context(), req.Token, mode, strings.TrimSpace(req.Code), strings.TrimSpace(req.ScaData))
	if err != nil {
		writeError(w, r, err)
		return
	}

	body := stepResponse(step)
	body.ScaApproach = mode
	writeStep(w, http.StatusOK, body)
}

// HandleRevoke handles POST /v1/authorisations/revoke
//
//	@Summary		Revoke an authorisation
//	@Description	Cancels a non-terminal authorisation. It ends FINALISED with revoked set and without a bearer.
//	@Tags			Authorisations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TokenRequest	true	"Token"
//	@Success		200		{object}	StepEnvelope
//	@Failure		400		{object}	ErrorEnvelope
//	@Failure		409		{object}	ErrorEnvelope
//	@Router			/v1/authorisations/revoke [post]
func (h *AuthorisationHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decodeBody(w, r, &req) || !requireToken(w, r, req.Token) {
		return
	}
	step, err := h.Engine.Revoke(r.Context(), req.Token)
	respond(w, r, step, err)
}

// HandleStatus handles POST /v1/authorisations/status
//
//	@Summary		Read an authorisation
//	@Description	Decodes the token without calling the backend.
//	@Tags			Authorisations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		TokenRequest	true	"Token"
//	@Success		200		{object}	StepEnvelope
//	@Failure		400		{object}	ErrorEnvelope
//	@Router			/v1/authorisations/status [post]
func (h *AuthorisationHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decodeBody(w, r, &req) || !requireToken(w, r, req.Token) {
		return
	}
	step, err := h.Engine.Status(r.Context(), req.Token)
	respond(w, r, step, err)
}
