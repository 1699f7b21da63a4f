package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/domain"
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/service"
	"github.com/aussiebroadwan/scaconnect/pkg/httpx"
	"github.com/aussiebroadwan/scaconnect/pkg/ledgersdk"
)

// OperationsHandler creates consents and payments. The request body is
// kept as the operation's payload.
type OperationsHandler struct {
	SCAService *service.SCAService
}

// HandleCreateConsent handles POST /v1/consents
func (h *OperationsHandler) HandleCreateConsent(w http.ResponseWriter, r *http.Request) {
	var req ledgersdk.ConsentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	h.create(w, r, domain.OperationConsent, req, service.OperationInput{
		PSULogin:          strings.TrimSpace(req.PSUID),
		RequiredApprovals: req.RequiredApprovals,
	})
}

// HandleCreatePayment handles POST /v1/payments/{product}
func (h *OperationsHandler) HandleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req ledgersdk.PaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Amount == "" || req.Currency == "" {
		ledgersdk.NewAPIError(http.StatusBadRequest, ledgersdk.ErrorCodeInvalidRequest, "amount and currency are required").WriteError(w)
		return
	}

	h.create(w, r, domain.OperationPayment, req, service.OperationInput{
		PSULogin:          strings.TrimSpace(req.PSUID),
		Product:           r.PathValue("product"),
		RequiredApprovals: req.RequiredApprovals,
	})
}

func (h *OperationsHandler) create(w http.ResponseWriter, r *http.Request, typ domain.OperationType, body any, in service.OperationInput) {
	payload, err := json.Marshal(body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	in.Payload = payload

	res, err := h.SCAService.CreateOperation(r.Context(), typ, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, scaResponse(res))
}
