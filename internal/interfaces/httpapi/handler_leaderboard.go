package httpapi

import (
	"net/http"
	"time"

	"github.com/SaloAlex/clasharena/internal/domain/match"
	"github.com/SaloAlex/clasharena/internal/domain/tournament"
)

type tournamentResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	StartAt        time.Time `json:"startAt"`
	EndAt          time.Time `json:"endAt"`
	Status         string    `json:"status"`
	MaxGamesPerDay int       `json:"maxGamesPerDay,omitempty"`
}

type matchRecordResponse struct {
	MatchID   string               `json:"matchId"`
	QueueID   int                  `json:"queueId"`
	StartedAt time.Time            `json:"startedAt"`
	Points    int                  `json:"points"`
	Entries   []pointEntryResponse `json:"entries"`
	ScoredAt  time.Time            `json:"scoredAt"`
}

type pointEntryResponse struct {
	Reason string `json:"reason"`
	Points int    `json:"points"`
}

func (h *Handler) ListActiveTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListActiveTournaments")
	defer span.End()

	tours, err := h.leaderboardService.ListActiveTournaments(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]tournamentResponse, 0, len(tours))
	for _, tour := range tours {
		out = append(out, toTournamentResponse(tour))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	rows, err := h.leaderboardService.Standings(ctx, r.PathValue("tournamentID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) GetMatchHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchHistory")
	defer span.End()

	records, err := h.leaderboardService.MatchHistory(ctx, r.PathValue("tournamentID"), r.PathValue("registrationID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]matchRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toMatchRecordResponse(rec))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func toTournamentResponse(tour tournament.Tournament) tournamentResponse {
	return tournamentResponse{
		ID:             tour.ID,
		Title:          tour.Title,
		StartAt:        tour.StartAt,
		EndAt:          tour.EndAt,
		Status:         string(tour.Status),
		MaxGamesPerDay: tour.MaxGamesPerDay,
	}
}

func toMatchRecordResponse(rec match.Record) matchRecordResponse {
	entries := make([]pointEntryResponse, 0, len(rec.Entries))
	for _, entry := range rec.Entries {
		entries = append(entries, pointEntryResponse{Reason: string(entry.Reason), Points: entry.Points})
	}
	return matchRecordResponse{
		MatchID:   rec.MatchID,
		QueueID:   rec.QueueID,
		StartedAt: rec.StartTimestamp,
		Points:    rec.Points,
		Entries:   entries,
		ScoredAt:  rec.ScoredAt,
	}
}
