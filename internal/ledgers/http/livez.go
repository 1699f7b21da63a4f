package http

import (
	"net/http"

	"github.com/aussiebroadwan/scaconnect/pkg/httpx"
	"github.com/aussiebroadwan/scaconnect/pkg/ledgersdk"
)

// LivezHandler answers as long as the process serves requests.
func LivezHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, ledgersdk.HealthResponse{Status: "ok"})
	}
}
