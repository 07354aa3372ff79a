package httpapi

import (
	"fmt"
	"net/http"

	"github.com/SaloAlex/clasharena/internal/usecase"
)

type scanTargetRequest struct {
	ID string `validate:"required,min=1,max=128"`
}

// RunTournamentScan triggers a full ingestion pass for one tournament. The
// scheduler calls this; it is never exposed to browsers.
func (h *Handler) RunTournamentScan(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunTournamentScan")
	defer span.End()

	req := scanTargetRequest{ID: r.PathValue("tournamentID")}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	summary, err := h.scanService.ScanTournament(ctx, req.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "tournament scan failed", "tournament_id", req.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

// RunRegistrationScan triggers an ingestion pass for a single entrant, used
// right after an account link completes so the player sees points quickly.
func (h *Handler) RunRegistrationScan(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRegistrationScan")
	defer span.End()

	req := scanTargetRequest{ID: r.PathValue("registrationID")}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	summary, err := h.scanService.ScanRegistration(ctx, req.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "registration scan failed", "registration_id", req.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}
