// Package http wires the auth service's HTTP surface: the token endpoints,
// account administration, notifications and system probes.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/strataworks/gatehouse/internal/auth/domain"
	"github.com/strataworks/gatehouse/internal/auth/service"
	"github.com/strataworks/gatehouse/internal/auth/store"
	"github.com/strataworks/gatehouse/pkg/httpx"
	"github.com/strataworks/gatehouse/pkg/slogx"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/strataworks/gatehouse/api/auth" // Swagger docs
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier      httpx.TokenVerifier
	buildVersion  string
	secureCookies bool
	startTime     time.Time
	logger        *slog.Logger

	store   store.Store
	revoked Pinger

	TokenService        *service.TokenService
	AccountService      *service.AccountService
	NotificationService *service.NotificationService
}

func NewRouter(
	verifier httpx.TokenVerifier,
	buildVersion string,
	secureCookies bool,
	st store.Store,
	revoked Pinger,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		verifier:      verifier,
		buildVersion:  buildVersion,
		secureCookies: secureCookies,
		startTime:     time.Now(),
		store:         st,
		revoked:       revoked,
		logger:        logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAccounts()
	r.registerNotifications()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Gatehouse Authentication Service API
//	@version		0.1.0
//	@description	Token-based authentication and authorization for the society management platform:
//	@description	login, refresh-token rotation, session checks and account administration.
//	@description
//	@description				Access and refresh tokens are HS256 JWTs signed with separate secrets.
//
//	@contact.name				StrataWorks Platform Team
//	@contact.url				https://github.com/strataworks/gatehouse
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /auth/login - strict rate limit (credential guessing surface)
	login := &LoginHandler{TokenService: r.TokenService, SecureCookies: r.secureCookies}
	r.Mux.Handle("POST /auth/login",
		httpx.Chain(login,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /auth/refresh - strict rate limit (stolen-token replay surface)
	refresh := &RefreshHandler{TokenService: r.TokenService, SecureCookies: r.secureCookies}
	r.Mux.Handle("POST /auth/refresh",
		httpx.Chain(refresh,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /auth/check-session - authenticated, but failures answer with a
	// parseable body instead of the API-wide 401 error shape
	r.Mux.Handle("GET /auth/check-session",
		httpx.Chain(&SessionHandler{},
			httpx.AuthnWithReject(r.verifier, sessionReject),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /auth/logout - moderate rate limit, no authentication required
	logout := &LogoutHandler{TokenService: r.TokenService, SecureCookies: r.secureCookies}
	r.Mux.Handle("POST /auth/logout",
		httpx.Chain(logout,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{AccountService: r.AccountService}

	admin := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(domain.RoleSuperAdmin.String()),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/accounts", admin(http.HandlerFunc(h.HandleCreate)))
	r.Mux.Handle("GET /v1/accounts/{id}", admin(http.HandlerFunc(h.HandleGet)))
	r.Mux.Handle("POST /v1/accounts/{id}/active", admin(http.HandlerFunc(h.HandleSetActive)))
	r.Mux.Handle("POST /v1/accounts/{id}/revoke-sessions", admin(http.HandlerFunc(h.HandleRevokeSessions)))
}

func (r *Router) registerNotifications() {
	h := &NotificationsHandler{NotificationService: r.NotificationService}

	secured := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRole(domain.RoleSuperAdmin.String(), domain.RoleClient.String()),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /v1/notifications", secured(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("POST /v1/notifications/{id}/read", secured(http.HandlerFunc(h.HandleMarkRead)))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.revoked),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
