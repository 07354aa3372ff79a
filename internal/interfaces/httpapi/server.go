package httpapi

import (
	"net/http"

	"github.com/SaloAlex/clasharena/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, internalJobToken string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPublicRoutes(mux, handler)
	registerInternalJobRoutes(mux, handler, internalJobToken)

	return RequestTracing(RequestLogging(logger, recoverPanic(logger, mux)))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tournaments", handler.ListActiveTournaments)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/registrations/{registrationID}/matches", handler.GetMatchHistory)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/scans/tournaments/{tournamentID}",
		RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunTournamentScan)))
	mux.Handle("POST /v1/internal/jobs/scans/registrations/{registrationID}",
		RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRegistrationScan)))
}
