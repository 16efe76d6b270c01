package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/ledger/internal/ledger/service"
	"github.com/aussiebroadwan/ledger/internal/ledger/store"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"

	_ "github.com/aussiebroadwan/ledger/api/ledger" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	RegistrarService  *service.RegistrarService
	ProofService      *service.ProofService
	WithdrawalService *service.WithdrawalService

	// UploadDir receives proof images; MaxUploadBytes bounds each request.
	UploadDir      string
	MaxUploadBytes int64
}

const defaultMaxUploadBytes = 10 << 20

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		store:          st,
		logger:         logger,
		UploadDir:      "uploads",
		MaxUploadBytes: defaultMaxUploadBytes,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerProofs()
	r.registerWithdrawals()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Referral Ledger API
//	@version		0.1.0
//	@description	Accounts earn balance through a welcome bonus, referrals and approved task proofs.
//	@description	Withdrawals are requested here and resolved by the administrator over the admin channel.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/ledger
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

func (r *Router) registerAccounts() {
	h := &AccountsHandler{RegistrarService: r.RegistrarService}

	// Registration hashes a credential and may credit a referrer.
	r.Mux.Handle("POST /v1/accounts",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("GET /v1/accounts/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PUT /v1/accounts/{id}/payout-address",
		httpx.Chain(http.HandlerFunc(h.HandleSetPayoutAddress),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerProofs() {
	h := &ProofHandler{
		ProofService:   r.ProofService,
		UploadDir:      r.UploadDir,
		MaxUploadBytes: r.MaxUploadBytes,
	}
	r.Mux.Handle("POST /v1/proofs",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerWithdrawals() {
	h := &WithdrawalHandler{WithdrawalService: r.WithdrawalService}

	// Every request pages the administrator.
	r.Mux.Handle("POST /v1/withdrawals",
		httpx.Chain(h,
			httpx.RateLimitByIPAndFormField(httpx.ModerateLimit, "user_id"),
		),
	)
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
