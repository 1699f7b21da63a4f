package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aussiebroadwan/scaconnect/api/connector" // Swagger docs
	"github.com/aussiebroadwan/scaconnect/internal/connector/approach"
	"github.com/aussiebroadwan/scaconnect/internal/connector/service"
	"github.com/aussiebroadwan/scaconnect/pkg/httpx"
	"github.com/aussiebroadwan/scaconnect/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	logger   *slog.Logger
	gatherer prometheus.Gatherer

	Engine   *service.Engine
	Resolver *approach.Resolver
	IDs      approach.IDEncrypter

	// Checks are run by /readyz.
	Checks []Check
}

func NewRouter(
	engine *service.Engine,
	resolver *approach.Resolver,
	ids approach.IDEncrypter,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:      http.NewServeMux(),
		logger:   logger,
		gatherer: gatherer,
		Engine:   engine,
		Resolver: resolver,
		IDs:      ids,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOperations()
	r.registerAuthorisations()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			scaconnect XS2A Connector API
//	@version		0.1.0
//	@description	Drives consents and payments of a ledgers backend through Strong Customer Authentication.
//	@description
//	@description	Every step returns an opaque token that must be sent with the next step. The connector keeps no authorisation state of its own.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/scaconnect
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOperations() {
	h := &OperationsHandler{Engine: r.Engine, Resolver: r.Resolver, IDs: r.IDs}

	r.Mux.Handle("POST /v1/consents",
		httpx.Chain(http.HandlerFunc(h.HandleCreateConsent),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/payments/{paymentProduct}",
		httpx.Chain(http.HandlerFunc(h.HandleCreatePayment),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAuthorisations() {
	h := &AuthorisationHandler{Engine: r.Engine, Resolver: r.Resolver}

	// PIN guessing is limited per IP
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/authorisations/psu-authentication",
		httpx.Chain(http.HandlerFunc(h.HandlePSUAuthentication),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/authorisations/oauth",
		httpx.Chain(http.HandlerFunc(h.HandleOAuth),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/authorisations/sca-method",
		httpx.Chain(http.HandlerFunc(h.HandleSelectMethod),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	// TAN guessing is limited per IP and authorisation; a wrong code keeps
	// the token, so retries share a bucket
	r.Mux.Handle("POST /v1/authorisations/code",
		httpx.Chain(http.HandlerFunc(h.HandleCode),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "token"),
		),
	)
	r.Mux.Handle("POST /v1/authorisations/confirmation",
		httpx.Chain(http.HandlerFunc(h.HandleConfirmation),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/authorisations/revoke",
		httpx.Chain(http.HandlerFunc(h.HandleRevoke),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/authorisations/status",
		httpx.Chain(http.HandlerFunc(h.HandleStatus),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.Checks...),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
}
