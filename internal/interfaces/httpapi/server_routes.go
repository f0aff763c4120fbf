package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerReadRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches/upcoming", handler.ListUpcomingMatches)
	mux.HandleFunc("GET /v1/statistics", handler.ListStatistics)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken, collectJobPath string) {
	if collectJobPath == "" {
		collectJobPath = "/v1/internal/jobs/collect-stats"
	}

	mux.Handle("POST /v1/internal/jobs/update-schedule", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunUpdateSchedule)))
	mux.Handle("POST "+collectJobPath, RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCollectStats)))
	mux.Handle("POST /v1/internal/jobs/mirror", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunMirror)))
}
