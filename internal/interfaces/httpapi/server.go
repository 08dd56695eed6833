package httpapi

import (
	"net/http"

	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

type RouterConfig struct {
	Logger             *logging.Logger
	CORSAllowedOrigins []string
	AdminToken         string
	// Metrics, when set, is served on GET /metrics.
	Metrics  http.Handler
	Observer RequestObserver
}

// NewRouter wires the routes behind tracing, logging, CORS, panic recovery
// and request metrics, outermost first.
func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.Metrics)
	registerPublicRoutes(mux, handler)
	registerAdminRoutes(mux, handler, cfg.AdminToken)

	var chain http.Handler = RequestMetrics(cfg.Observer, mux)
	chain = recoverPanic(logger, chain)
	chain = CORS(cfg.CORSAllowedOrigins, chain)
	chain = RequestLogging(logger, chain)
	return RequestTracing(chain)
}
