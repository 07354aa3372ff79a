package riot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/SaloAlex/clasharena/internal/domain/match"
	"github.com/SaloAlex/clasharena/internal/platform/logging"
	"github.com/SaloAlex/clasharena/internal/platform/ratelimit"
	"github.com/SaloAlex/clasharena/internal/platform/resilience"
	"github.com/SaloAlex/clasharena/internal/usecase"
)

const (
	apiKeyHeader       = "X-Riot-Token"
	maxResponseBytes   = 4 << 20
	defaultMaxRetries  = 3
	defaultHTTPTimeout = 15 * time.Second
)

// Typed failures per response class. Callers branch on these with errors.Is;
// each is also marked with the matching usecase provider class.
var (
	ErrNotFound            = crerr.Mark(crerr.New("riot: resource not found"), usecase.ErrProviderNotFound)
	ErrForbidden           = crerr.New("riot: access forbidden")
	ErrRateLimited         = crerr.Mark(crerr.New("riot: rate limited after retries"), usecase.ErrProviderRateLimited)
	ErrUpstreamUnavailable = crerr.Mark(crerr.New("riot: upstream unavailable after retries"), usecase.ErrProviderUnavailable)
)

// routingHostByPlatform maps a platform (na1, euw1, kr, ...) to the regional
// routing host match-v5 lives on.
var routingHostByPlatform = map[string]string{
	"na1": "americas", "br1": "americas", "la1": "americas", "la2": "americas",
	"euw1": "europe", "eun1": "europe", "tr1": "europe", "ru": "europe",
	"kr": "asia", "jp1": "asia",
	"oc1": "sea", "ph2": "sea", "sg2": "sea", "th2": "sea", "tw2": "sea", "vn2": "sea",
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string // overrides regional routing when set (tests)
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	Limiter        *ratelimit.Limiter
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client issues idempotent reads against the Riot match-v5 API. Every attempt
// passes through the shared process-wide rate limiter before leaving the
// process.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	limiter        *ratelimit.Limiter
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	sleep          func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Limiter == nil {
		return nil, fmt.Errorf("rate limiter is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("riot api key is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultHTTPTimeout
	}

	// Zero means no retries; only a negative value falls back to the default.
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxRetries,
		logger:         logger,
		limiter:        cfg.Limiter,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.ProbeBudget),
		circuitEnabled: breakerCfg.Enabled,
		sleep:          sleepContext,
	}, nil
}

// ListMatchIDs returns match ids for a player inside the window, newest
// first, paginated by start/count as the provider defines them.
func (c *Client) ListMatchIDs(ctx context.Context, platform, puuid string, window usecase.MatchWindow, start, count int) ([]string, error) {
	if puuid == "" {
		return nil, fmt.Errorf("puuid is required")
	}
	if count <= 0 {
		return nil, fmt.Errorf("count must be greater than zero")
	}

	query := url.Values{}
	if !window.Start.IsZero() {
		query.Set("startTime", strconv.FormatInt(window.Start.Unix(), 10))
	}
	if !window.End.IsZero() {
		query.Set("endTime", strconv.FormatInt(window.End.Unix(), 10))
	}
	query.Set("start", strconv.Itoa(start))
	query.Set("count", strconv.Itoa(count))

	path := "/lol/match/v5/matches/by-puuid/" + url.PathEscape(puuid) + "/ids"
	raw, err := c.do(ctx, platform, path, query)
	if err != nil {
		return nil, fmt.Errorf("list match ids puuid=%s: %w", abbreviatePUUID(puuid), err)
	}

	var ids []string
	if err := sonic.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode match id list: %w", err)
	}
	return ids, nil
}

// GetMatch fetches full detail for one match. Concurrent fetches of the same
// match id share a single provider call.
func (c *Client) GetMatch(ctx context.Context, platform, matchID string) (match.External, error) {
	if matchID == "" {
		return match.External{}, fmt.Errorf("match id is required")
	}

	key := "match:" + matchID
	out, err, _ := c.flight.Do(key, func() (any, error) {
		path := "/lol/match/v5/matches/" + url.PathEscape(matchID)
		raw, reqErr := c.do(ctx, platform, path, nil)
		if reqErr != nil {
			return nil, reqErr
		}

		var envelope matchEnvelope
		if decodeErr := sonic.Unmarshal(raw, &envelope); decodeErr != nil {
			return nil, fmt.Errorf("decode match payload: %w", decodeErr)
		}
		return mapMatch(matchID, envelope), nil
	})
	if err != nil {
		return match.External{}, fmt.Errorf("get match id=%s: %w", matchID, err)
	}

	fetched, ok := out.(match.External)
	if !ok {
		return match.External{}, fmt.Errorf("unexpected match payload type %T", out)
	}
	return fetched, nil
}

// do executes one logical read with rate limiting, bounded retries and
// circuit breaking. Retry policy: 429 waits Retry-After (fallback 2^attempt
// seconds); 5xx and transport errors wait 2^attempt seconds; other 4xx fail
// immediately.
func (c *Client) do(ctx context.Context, platform, path string, query url.Values) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "riot circuit breaker rejected request", "state", c.breaker.State().String())
			return nil, fmt.Errorf("%w: match data provider is temporarily unavailable", ErrUpstreamUnavailable)
		}
	}

	fullURL, err := c.buildURL(platform, path, query)
	if err != nil {
		return nil, err
	}

	raw, reqErr := c.execute(ctx, fullURL)
	if c.circuitEnabled {
		if reqErr != nil && isCircuitFailure(reqErr) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	return raw, reqErr
}

func (c *Client) execute(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Acquire(ctx); err != nil {
			return nil, fmt.Errorf("acquire rate limit slot: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(apiKeyHeader, c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: send request: %s", ErrUpstreamUnavailable, c.redact(err.Error()))
			if waitErr := c.backoff(ctx, attempt); waitErr != nil {
				return nil, waitErr
			}
			continue
		}

		raw, status, readErr := drainBody(resp)
		if readErr != nil {
			lastErr = fmt.Errorf("%w: read response body: %v", ErrUpstreamUnavailable, readErr)
			if waitErr := c.backoff(ctx, attempt); waitErr != nil {
				return nil, waitErr
			}
			continue
		}

		switch {
		case status >= 200 && status < 300:
			return raw, nil

		case status == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("%w: provider status=429", ErrRateLimited)
			if attempt == c.maxRetries {
				break
			}
			wait := retryAfter(resp.Header.Get("Retry-After"), attempt)
			c.logger.WarnContext(ctx, "riot throttled request, backing off",
				"retry_after", wait, "attempt", attempt)
			if waitErr := c.sleep(ctx, wait); waitErr != nil {
				return nil, waitErr
			}
			continue

		case status == http.StatusNotFound:
			return nil, fmt.Errorf("%w: provider status=404", ErrNotFound)

		case status == http.StatusForbidden:
			return nil, fmt.Errorf("%w: provider status=403", ErrForbidden)

		case status >= 500:
			lastErr = fmt.Errorf("%w: provider status=%d body=%s", ErrUpstreamUnavailable, status, abbreviateBody(raw))
			if waitErr := c.backoff(ctx, attempt); waitErr != nil {
				return nil, waitErr
			}
			continue

		default:
			// Remaining 4xx have no retry value.
			return nil, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(raw))
		}

		break
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "riot request exhausted retries", "url", c.redact(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) backoff(ctx context.Context, attempt int) error {
	if attempt >= c.maxRetries {
		return nil
	}
	return c.sleep(ctx, (1<<attempt)*time.Second)
}

func (c *Client) buildURL(platform, path string, query url.Values) (string, error) {
	base := c.baseURL
	if base == "" {
		routing, ok := routingHostByPlatform[strings.ToLower(strings.TrimSpace(platform))]
		if !ok {
			return "", fmt.Errorf("unknown platform %q", platform)
		}
		base = "https://" + routing + ".api.riotgames.com"
	}

	fullURL := base + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	return fullURL, nil
}

func (c *Client) redact(value string) string {
	if c.apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, c.apiKey, "REDACTED")
}

func drainBody(resp *http.Response) ([]byte, int, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	defer func() { _ = resp.Body.Close() }()

	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		return nil, resp.StatusCode, err
	}

	raw := make([]byte, buf.Len())
	copy(raw, buf.Bytes())
	return raw, resp.StatusCode, nil
}

// retryAfter parses the Retry-After header in seconds, falling back to
// exponential backoff when absent or malformed.
func retryAfter(header string, attempt int) time.Duration {
	header = strings.TrimSpace(header)
	if header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return (1 << attempt) * time.Second
}

func mapMatch(matchID string, envelope matchEnvelope) match.External {
	if envelope.Metadata.MatchID != "" {
		matchID = envelope.Metadata.MatchID
	}

	participants := make(map[string]match.ParticipantStats, len(envelope.Info.Participants))
	for _, p := range envelope.Info.Participants {
		if p.PUUID == "" {
			continue
		}
		participants[p.PUUID] = match.ParticipantStats{
			Win:            p.Win,
			Kills:          p.Kills,
			Deaths:         p.Deaths,
			Assists:        p.Assists,
			FirstBloodKill: p.FirstBloodKill,
			FirstTowerKill: p.FirstTowerKill,
		}
	}

	return match.External{
		MatchID:         matchID,
		QueueID:         envelope.Info.QueueID,
		StartTimestamp:  time.UnixMilli(envelope.Info.GameStartTimestamp).UTC(),
		DurationSeconds: envelope.Info.GameDuration,
		Participants:    participants,
	}
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, ErrRateLimited) || crerr.Is(err, ErrUpstreamUnavailable)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func abbreviateBody(raw []byte) string {
	const maxLen = 256
	text := strings.TrimSpace(string(raw))
	if len(text) > maxLen {
		return text[:maxLen] + "..."
	}
	return text
}

func abbreviatePUUID(puuid string) string {
	if len(puuid) <= 8 {
		return puuid
	}
	return puuid[:8] + "..."
}
