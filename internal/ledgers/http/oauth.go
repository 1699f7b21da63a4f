package http

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/service"
	"github.com/aussiebroadwan/scaconnect/pkg/httpx"
	"github.com/aussiebroadwan/scaconnect/pkg/ledgersdk"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

var (
	errInvalidContentType = ledgersdk.NewAPIError(http.StatusBadRequest, ledgersdk.ErrorCodeInvalidRequest,
		"content type must be application/x-www-form-urlencoded")
	errInvalidFormBody = ledgersdk.NewAPIError(http.StatusBadRequest, ledgersdk.ErrorCodeInvalidRequest,
		"invalid form body")
	errUnsupportedGrantType = ledgersdk.NewAPIError(http.StatusBadRequest, "unsupported_grant_type",
		"only authorization_code is supported")
)

// OAuthHandler is the sandbox OAuth server: the authorise form post, the
// token endpoint and its metadata.
type OAuthHandler struct {
	OAuthService *service.OAuthService
	Issuer       string
}

// HandleAuthorise handles POST /oauth/authorise
//
// The PSU's login and PIN come with the form; on success the PSU is
// redirected with the code.
func (h *OAuthHandler) HandleAuthorise(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}

	req := service.AuthoriseRequest{
		ResponseType:        strings.TrimSpace(r.Form.Get("response_type")),
		ClientID:            strings.TrimSpace(r.Form.Get("client_id")),
		RedirectURI:         strings.TrimSpace(r.Form.Get("redirect_uri")),
		Scope:               strings.Fields(r.Form.Get("scope")),
		State:               r.Form.Get("state"),
		CodeChallenge:       strings.TrimSpace(r.Form.Get("code_challenge")),
		CodeChallengeMethod: strings.TrimSpace(r.Form.Get("code_challenge_method")),
		Login:               strings.TrimSpace(r.Form.Get("login")),
		PIN:                 r.Form.Get("pin"),
	}

	redirect, err := h.OAuthService.Authorise(r.Context(), req)
	if err != nil {
		slogx.FromContext(r.Context()).Warn("authorise rejected", "client_id", req.ClientID, "err", err)
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	http.Redirect(w, r, redirect, http.StatusFound)
}

// HandleToken handles POST /oauth/token
func (h *OAuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	if !parseForm(w, r) {
		return
	}
	if r.Form.Get("grant_type") != "authorization_code" {
		errUnsupportedGrantType.WriteError(w)
		return
	}

	tok, err := h.OAuthService.Exchange(r.Context(),
		strings.TrimSpace(r.Form.Get("client_id")),
		strings.TrimSpace(r.Form.Get("code")),
		strings.TrimSpace(r.Form.Get("redirect_uri")),
		strings.TrimSpace(r.Form.Get("code_verifier")),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, bearerToken(tok))
}

// HandleServerInfo handles GET /oauth/server
func (h *OAuthHandler) HandleServerInfo(w http.ResponseWriter, r *http.Request) {
	base := baseURL(r)
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.OAuthServerInfo{
		Issuer:                        h.Issuer,
		AuthorizationEndpoint:         base + "/oauth/authorise",
		TokenEndpoint:                 base + "/oauth/token",
		JWKSURI:                       base + "/.well-known/jwks.json",
		ResponseTypesSupported:        []string{"code"},
		GrantTypesSupported:           []string{"authorization_code"},
		CodeChallengeMethodsSupported: []string{"S256", "plain"},
	})
}

func parseForm(w http.ResponseWriter, r *http.Request) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		errInvalidContentType.WriteError(w)
		return false
	}
	if err := r.ParseForm(); err != nil {
		errInvalidFormBody.WriteError(w)
		return false
	}
	return true
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + r.Host
}
