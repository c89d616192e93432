package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/paycalc/internal/cart"
	"github.com/noah-isme/paycalc/internal/config"
	"github.com/noah-isme/paycalc/internal/health"
	"github.com/noah-isme/paycalc/internal/obs"
	"github.com/noah-isme/paycalc/internal/ratelimit"
	"github.com/noah-isme/paycalc/internal/security"
)

const calculatePaymentPath = "/cart/calculate-payment"

// NewRouter assembles middleware and routes for the API.
func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	validate := deps.Validator
	if validate == nil {
		validate = cart.NewValidator()
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = Tracer("cart")
	}

	cartHandler := &cart.Handler{
		Svc:      &cart.Service{Logger: deps.Logger, Tracer: tracer},
		Validate: validate,
	}

	var checker health.Checker
	if deps.Redis != nil {
		checker = readinessChecker{redis: deps.Redis}
	}
	healthHandler := health.Handler{Checker: checker, RedisTimeout: cfg.RedisPingTimeout}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.TracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if deps.HTTPMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: deps.HTTPMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: deps.Logger}.Middleware)
	r.Use(security.Headers{Enable: cfg.SecurityHeadersEnabled, EnableHSTS: cfg.AppEnv == "production"}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}))

	if deps.HTTPMetrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	calculate := chi.Chain(calculateMiddlewares(deps, cfg)...).HandlerFunc(cartHandler.CalculatePayment)
	r.Route("/api", func(api chi.Router) {
		api.Method(http.MethodPost, calculatePaymentPath, calculate)
		api.Method(http.MethodPost, "/v1"+calculatePaymentPath, calculate)
	})

	return r
}

func calculateMiddlewares(deps Dependencies, cfg *config.Config) []func(http.Handler) http.Handler {
	var mws []func(http.Handler) http.Handler
	if cfg.BodyMaxBytes > 0 {
		mws = append(mws, security.BodyLimit{Max: cfg.BodyMaxBytes}.Middleware)
	}
	if deps.Limiter != nil && cfg.RateLimitEnabled() {
		logger := deps.Logger
		mws = append(mws, ratelimit.Handler{
			Limiter: deps.Limiter,
			Config: ratelimit.Config{
				Key:    ratelimit.KeyByClientIP("calculate:"),
				Window: cfg.RateLimitWindow,
				Max:    cfg.RateLimitMax,
			},
			OnError: func(err error) {
				logger.Warn().Err(err).Msg("rate limiter unavailable")
			},
		}.Middleware)
	}
	return mws
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}
