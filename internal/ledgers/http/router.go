package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/service"
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/store"
	"github.com/aussiebroadwan/scaconnect/pkg/httpx"
	"github.com/aussiebroadwan/scaconnect/pkg/jwtx"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	issuer       string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	SCAService   *service.SCAService
	OAuthService *service.OAuthService
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	issuer, buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		issuer:       issuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOperations()
	r.registerSCA()
	r.registerOAuth()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOperations() {
	h := &OperationsHandler{SCAService: r.SCAService}

	r.Mux.Handle("POST /v1/consents",
		httpx.Chain(http.HandlerFunc(h.HandleCreateConsent),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/payments/{product}",
		httpx.Chain(http.HandlerFunc(h.HandleCreatePayment),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSCA() {
	h := &SCAHandler{SCAService: r.SCAService}

	// PIN guessing is limited per IP and login
	r.Mux.Handle("POST /v1/sca/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/sca/{op}/authorisations",
		httpx.Chain(http.HandlerFunc(h.HandleStartAuthorisation),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// Method selection and codes need the bearer handed out by login
	r.Mux.Handle("PUT /v1/sca/{op}/authorisations/{auth}/methods/{method}",
		httpx.Chain(http.HandlerFunc(h.HandleSelectMethod),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(jwtx.ScopeSCA),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/sca/{op}/authorisations/{auth}/code",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyCode),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyScope(jwtx.ScopeSCA),
			httpx.RateLimitBySubject(httpx.StrictLimit),
		),
	)

	// The confirmation code authenticates itself
	r.Mux.Handle("POST /v1/sca/{op}/authorisations/{auth}/confirmation",
		httpx.Chain(http.HandlerFunc(h.HandleConfirmation),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/sca/{op}/authorisations/{auth}/confirmation/complete",
		httpx.Chain(http.HandlerFunc(h.HandleCompleteConfirmation),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/sca/{op}/authorisations/{auth}",
		httpx.Chain(http.HandlerFunc(h.HandleRevoke),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("POST /v1/token/validate",
		httpx.Chain(http.HandlerFunc(h.HandleValidateToken),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerOAuth() {
	h := &OAuthHandler{OAuthService: r.OAuthService, Issuer: r.issuer}

	// PIN guessing again, keyed on the posted login
	r.Mux.Handle("POST /oauth/authorise",
		httpx.Chain(http.HandlerFunc(h.HandleAuthorise),
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "login"),
		),
	)
	r.Mux.Handle("POST /oauth/token",
		httpx.Chain(http.HandlerFunc(h.HandleToken),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("GET /oauth/server",
		httpx.Chain(http.HandlerFunc(h.HandleServerInfo),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
