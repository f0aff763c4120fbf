package httpapi

import (
	"net/http"

	"github.com/riskibarqy/match-stats-scheduler/internal/platform/logging"
)

// RouterConfig carries the transport settings of the HTTP surface.
type RouterConfig struct {
	CORSAllowedOrigins []string
	InternalJobToken   string
	CollectJobPath     string
}

func NewRouter(handler *Handler, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerReadRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, cfg.InternalJobToken, cfg.CollectJobPath)

	return RequestTracing(RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
