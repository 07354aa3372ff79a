package app

import (
	"fmt"
	"net/http"

	"github.com/SaloAlex/clasharena/external/riot"
	"github.com/SaloAlex/clasharena/internal/config"
	"github.com/SaloAlex/clasharena/internal/domain/match"
	"github.com/SaloAlex/clasharena/internal/domain/registration"
	"github.com/SaloAlex/clasharena/internal/domain/tournament"
	"github.com/SaloAlex/clasharena/internal/infrastructure/repository/memory"
	"github.com/SaloAlex/clasharena/internal/infrastructure/repository/postgres"
	"github.com/SaloAlex/clasharena/internal/interfaces/httpapi"
	"github.com/SaloAlex/clasharena/internal/platform/logging"
	"github.com/SaloAlex/clasharena/internal/platform/ratelimit"
	"github.com/SaloAlex/clasharena/internal/platform/resilience"
	"github.com/SaloAlex/clasharena/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	tournamentRepo, registrationRepo, recordRepo, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	// One limiter for the whole process. Every provider call path shares it,
	// whatever triggered the scan.
	limiter, err := ratelimit.NewLimiter(cfg.RiotRateLimit, cfg.RiotRateWindow)
	if err != nil {
		return nil, fmt.Errorf("build rate limiter: %w", err)
	}

	riotClient, err := riot.NewClient(riot.ClientConfig{
		BaseURL:    cfg.RiotBaseURL,
		APIKey:     cfg.RiotAPIKey,
		Timeout:    cfg.RiotTimeout,
		MaxRetries: cfg.RiotMaxRetries,
		Logger:     logger,
		Limiter:    limiter,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.RiotCircuitEnabled,
			FailureThreshold: cfg.RiotCircuitFailureCount,
			OpenTimeout:      cfg.RiotCircuitOpenTimeout,
			ProbeBudget:      cfg.RiotCircuitProbeBudget,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build riot client: %w", err)
	}

	scanSvc := usecase.NewScanService(tournamentRepo, registrationRepo, recordRepo, riotClient, logger)
	scanSvc.SetBatching(cfg.ScanIDPageSize, cfg.ScanDetailWorkers)

	leaderboardSvc := usecase.NewLeaderboardService(tournamentRepo, registrationRepo, recordRepo)

	handler := httpapi.NewHandler(scanSvc, leaderboardSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// buildRepositories picks postgres when DATABASE_URL is set and falls back
// to in-memory stores for local development.
func buildRepositories(cfg config.Config, logger *logging.Logger) (tournament.Repository, registration.Repository, match.RecordRepository, error) {
	if cfg.DBURL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		return memory.NewTournamentRepository(), memory.NewRegistrationRepository(), memory.NewMatchRecordRepository(), nil
	}

	db, err := openDatabase(cfg.DBURL)
	if err != nil {
		return nil, nil, nil, err
	}

	return postgres.NewTournamentRepository(db), postgres.NewRegistrationRepository(db), postgres.NewMatchRecordRepository(db), nil
}
