package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/millhouse-dev/taskgate/internal/gate/service"
	"github.com/millhouse-dev/taskgate/internal/gate/store"
	"github.com/millhouse-dev/taskgate/pkg/httpx"
	"github.com/millhouse-dev/taskgate/pkg/jwtx"
	"github.com/millhouse-dev/taskgate/pkg/slogx"

	_ "github.com/millhouse-dev/taskgate/api/gate" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       *jwtx.Signer
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService    *service.AuthService
	SessionService *service.SessionService
}

func NewRouter(
	signer *jwtx.Signer,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
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
	r.registerAuth()
	r.registerSession()
	r.registerEvents()
	r.registerWipe()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
//
//	@title			TaskGate Local Authentication API
//	@version		0.1.0
//	@description	Loopback-only authentication gate for the task app: biometric
//	@description	unlock with PIN fallback and a one-hour bounded session.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host						127.0.0.1:8321
//	@BasePath					/
//
//	@schemes					http
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		SessionService: r.SessionService,
		AuthService:    r.AuthService,
		Signer:         r.signer,
	}

	// Authentication attempts get the strict budget.
	r.Mux.Handle("POST /v1/auth/biometric",
		httpx.Chain(http.HandlerFunc(h.HandleBiometric),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/pin",
		httpx.Chain(http.HandlerFunc(h.HandlePIN),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSession() {
	h := &SessionHandler{
		SessionService: r.SessionService,
		AuthService:    r.AuthService,
	}

	// The UI polls the snapshot every second; lenient budget.
	r.Mux.Handle("GET /v1/session",
		httpx.Chain(http.HandlerFunc(h.HandleSnapshot),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("POST /v1/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerEvents() {
	h := &EventsHandler{Store: r.store}

	secured := httpx.Chain(h,
		httpx.AuthnMiddleware(r.signer),
		r.requireLiveSession(),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	)
	r.Mux.Handle("GET /v1/events", secured)
}

func (r *Router) registerWipe() {
	h := &WipeHandler{
		Store:          r.store,
		SessionService: r.SessionService,
	}

	secured := httpx.Chain(h,
		httpx.AuthnMiddleware(r.signer),
		r.requireLiveSession(),
		httpx.RateLimitByIP(httpx.StrictLimit),
	)
	r.Mux.Handle("POST /v1/wipe", secured)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

// requireLiveSession re-checks the session marker behind a verified token.
// The token is a transport convenience; the marker is the source of truth,
// so a logged-out or expired session rejects even an unexpired token.
func (r *Router) requireLiveSession() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !r.AuthService.IsSessionValid(req.Context()) {
				httpx.WriteError(w, http.StatusUnauthorized,
					"session_expired", "The session is no longer valid.")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
