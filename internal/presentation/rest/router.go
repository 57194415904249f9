package rest

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RouterConfig holds the cross-cutting HTTP settings.
type RouterConfig struct {
	Metrics        http.Handler
	AllowedOrigins []string
	// TrainRateLimit caps /train and /retrain requests per second; 0 disables it.
	TrainRateLimit int
}

// NewRouter assembles the API, health and metrics endpoints behind the
// tracing, logging and CORS middleware.
func NewRouter(api *ChurnHandler, health *HealthHandler, cfg RouterConfig, logger *slog.Logger) http.Handler {
	if cfg.TrainRateLimit > 0 {
		api.limiter = NewRateLimiter(cfg.TrainRateLimit)
	}

	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	health.RegisterRoutes(mux)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	var handler http.Handler = mux
	handler = LoggingMiddleware(logger)(handler)
	handler = corsHandler.Handler(handler)
	return otelhttp.NewHandler(handler, "churnd",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
