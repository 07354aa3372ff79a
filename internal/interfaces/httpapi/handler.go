package httpapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/SaloAlex/clasharena/internal/platform/logging"
	"github.com/SaloAlex/clasharena/internal/usecase"
)

type Handler struct {
	scanService        *usecase.ScanService
	leaderboardService *usecase.LeaderboardService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	scanService *usecase.ScanService,
	leaderboardService *usecase.LeaderboardService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scanService:        scanService,
		leaderboardService: leaderboardService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
