package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/scaconnect/internal/connector/approach"
	"github.com/aussiebroadwan/scaconnect/internal/connector/domain"
	"github.com/aussiebroadwan/scaconnect/internal/connector/service"
)

// OperationsHandler initiates consents and payments and attaches the links
// of the approach that applies to the request.
type OperationsHandler struct {
	Engine   *service.Engine
	Resolver *approach.Resolver
	IDs      approach.IDEncrypter
}

// HandleCreateConsent handles POST /v1/consents
//
// The consent exists at the authority once InitiateConsent returns. When the
// link or the pre-step authorisation fails after that, the caller gets no
// token and the consent is left to expire at the authority.
//
//	@Summary		Initiate a consent
//	@Description	Creates an account-information consent at the ledgers backend and starts its SCA. Under OAUTH_PRE_STEP the bearer is validated right away and the authorisation continues at PSU_AUTHENTICATED.
//	@Tags			Operations
//	@Accept			json
//	@Produce		json
//	@Param			X-OAUTH-PREFERRED		header		string					false	"pre-step or integrated"
//	@Param			TPP-Redirect-Preferred	header		bool					false	"true selects REDIRECT, false EMBEDDED"
//	@Param			request					body		domain.ConsentRequest	true	"Consent to create"
//	@Success		201						{object}	StepEnvelope
//	@Failure		400						{object}	ErrorEnvelope
//	@Failure		401						{object}	ErrorEnvelope	"OAuth token required"
//	@Failure		500						{object}	ErrorEnvelope	"SCA link could not be built"
//	@Failure		502						{object}	ErrorEnvelope
//	@Router			/v1/consents [post]
func (h *OperationsHandler) HandleCreateConsent(w http.ResponseWriter, r *http.Request) {
	res := h.Resolver.Resolve(r)
	if res.TokenMissing {
		writeTokenRequired(w, res.OAuthURL)
		return
	}

	var req domain.ConsentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	step, err := h.Engine.InitiateConsent(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	links := &Links{}
	if res.Approach != domain.ApproachEmbedded {
		consent := step.State.(*domain.ConsentState)
		link, err := res.ConsentLink(h.IDs, consent.ConsentID, consent.AuthorisationID)
		if err != nil {
			writeError(w, r, linkError("consent", consent.ConsentID, err))
			return
		}
		h.place(links, res, link)
	}

	step, err = h.preStep(r, res, step)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body := stepResponse(step)
	body.ScaApproach = res.Approach
	body.Links = links.orNil()
	writeStep(w, http.StatusCreated, body)
}

// HandleCreatePayment handles POST /v1/payments/{paymentProduct}
//
// As with consents, a payment whose link or pre-step fails after creation
// is left to expire at the authority.
//
//	@Summary		Initiate a payment
//	@Description	Creates a payment of the given product at the ledgers backend and starts its SCA.
//	@Tags			Operations
//	@Accept			json
//	@Produce		json
//	@Param			paymentProduct			path		string					true	"Payment product, e.g. sepa-credit-transfers"
//	@Param			X-OAUTH-PREFERRED		header		string					false	"pre-step or integrated"
//	@Param			TPP-Redirect-Preferred	header		bool					false	"true selects REDIRECT, false EMBEDDED"
//	@Param			request					body		domain.PaymentRequest	true	"Payment to create"
//	@Success		201						{object}	StepEnvelope
//	@Failure		400						{object}	ErrorEnvelope
//	@Failure		401						{object}	ErrorEnvelope	"OAuth token required"
//	@Failure		500						{object}	ErrorEnvelope	"SCA link could not be built"
//	@Failure		502						{object}	ErrorEnvelope
//	@Router			/v1/payments/{paymentProduct} [post]
func (h *OperationsHandler) HandleCreatePayment(w http.ResponseWriter, r *http.Request) {
	res := h.Resolver.Resolve(r)
	if res.TokenMissing {
		writeTokenRequired(w, res.OAuthURL)
		return
	}

	var req domain.PaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.PaymentProduct = strings.TrimSpace(r.PathValue("paymentProduct"))

	step, err := h.Engine.InitiatePayment(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	links := &Links{}
	payment := step.State.(*domain.PaymentState)
	if res.Approach != domain.ApproachEmbedded {
		link, err := res.PaymentLink(h.IDs, payment.PaymentID, payment.AuthorisationID)
		if err != nil {
			writeError(w, r, linkError("payment", payment.PaymentID, err))
			return
		}
		h.place(links, res, link)
	}

	if res.Approach == domain.ApproachRedirect || res.Approach == domain.ApproachOAuthPreStep {
		cancel, err := res.CancellationLink(h.IDs, payment.PaymentID, payment.AuthorisationID)
		if err != nil {
			writeError(w, r, linkError("cancellation", payment.PaymentID, err))
			return
		}
		links.StartCancelling = cancel
	}

	step, err = h.preStep(r, res, step)
	if err != nil {
		writeError(w, r, err)
		return
	}

	body := stepResponse(step)
	body.ScaApproach = res.Approach
	body.Links = links.orNil()
	writeStep(w, http.StatusCreated, body)
}

// place files the rendered link under the key the approach uses.
func (h *OperationsHandler) place(links *Links, res approach.Resolution, link string) {
	switch res.Approach {
	case domain.ApproachRedirect, domain.ApproachOAuthPreStep:
		links.ScaRedirect = link
	case domain.ApproachOAuthIntegrated:
		links.ScaOAuth = link
	}
}

// preStep authorises a freshly initiated operation with the pre-step bearer.
func (h *OperationsHandler) preStep(r *http.Request, res approach.Resolution, step *service.Step) (*service.Step, error) {
	if res.Approach != domain.ApproachOAuthPreStep {
		return step, nil
	}
	return h.Engine.AuthorizeWithToken(r.Context(), step.Token, res.PreStepToken)
}

// linkError reports a link that could not be rendered for an operation the
// authority already holds.
func linkError(kind, operationID string, err error) error {
	return &domain.Error{
		Kind:    domain.ErrLinkUnavailable,
		Message: fmt.Sprintf("%s link for operation %s could not be built", kind, operationID),
		Cause:   err,
	}
}

func (l *Links) orNil() *Links {
	if *l == (Links{}) {
		return nil
	}
	return l
}
