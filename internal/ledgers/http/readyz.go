package http

import (
	"net/http"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/store"
	"github.com/aussiebroadwan/scaconnect/pkg/httpx"
	"github.com/aussiebroadwan/scaconnect/pkg/jwtx"
	"github.com/aussiebroadwan/scaconnect/pkg/ledgersdk"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

// ReadyzHandler reports degraded while the store is unreachable or no
// signing key is loaded.
func ReadyzHandler(st store.Store, keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Warn("store not ready", "err", err)
			httpx.WriteJSON(w, http.StatusServiceUnavailable, ledgersdk.HealthResponse{Status: "degraded"})
			return
		}
		if !keys.IsReady() {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, ledgersdk.HealthResponse{Status: "degraded"})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ledgersdk.HealthResponse{Status: "ok"})
	}
}
