package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/desertthunder/soundscout/internal/shared"
)

const (
	defaultBaseURL       = "https://www.youtube.com/youtubei/v1"
	webClientName        = "WEB"
	webClientVersion     = "2.20250312.04.00"
	androidClientName    = "ANDROID"
	androidClientVersion = "19.09.37"
	androidUserAgent     = "com.google.android.youtube/19.09.37 (Linux; U; Android 11) gzip"

	// playlists tab of a channel browse
	channelPlaylistsParams = "EglwbGF5bGlzdHPyBgQKAkIA"
)

var visitorDataPattern = regexp.MustCompile(`"(Cg[A-Za-z0-9_%-]{10,}={0,2})"`)

// Innertube calls the youtubei v1 search, browse and player endpoints.
//
// Requests are paced by a token bucket, retried on transient HTTP failures and
// short-circuited by a breaker after repeated upstream failures.
type Innertube struct {
	http    *retryablehttp.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	logger  *log.Logger

	baseURL   string
	language  string
	location  string
	userAgent string

	mu          sync.RWMutex
	visitorData string
}

// NewInnertube creates an innertube client from the [catalog] config section.
func NewInnertube(cfg shared.CatalogConfig, logger *log.Logger) *Innertube {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.RetryMax
	client.RetryWaitMin = cfg.RetryWaitMin
	client.RetryWaitMax = cfg.RetryWaitMax
	client.Logger = nil

	trips := cfg.BreakerTrips
	if trips == 0 {
		trips = 5
	}
	reset := cfg.BreakerReset
	if reset <= 0 {
		reset = 30 * time.Second
	}
	settings := gobreaker.Settings{
		Name:        "innertube",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     reset,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > trips
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			}
		},
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := max(cfg.Burst, 1)

	if logger == nil {
		logger = log.Default()
	}

	return &Innertube{
		http:      client,
		breaker:   gobreaker.NewCircuitBreaker(settings),
		limiter:   rate.NewLimiter(limit, burst),
		logger:    shared.WithLogger(logger, "component", "innertube"),
		baseURL:   defaultBaseURL,
		language:  cfg.Language,
		location:  cfg.Location,
		userAgent: cfg.UserAgent,
	}
}

// Bootstrap fetches a visitor id for the session.
//
// Transport failures are returned; an unrecognized response is logged and the session continues without one.
func (t *Innertube) Bootstrap(ctx context.Context) error {
	endpoint := strings.TrimSuffix(t.baseURL, "/youtubei/v1") + "/sw.js_data"
	body, err := t.do(ctx, http.MethodGet, endpoint, nil, t.userAgent)
	if err != nil {
		return fmt.Errorf("session bootstrap failed: %w", err)
	}

	match := visitorDataPattern.FindSubmatch(body)
	if match == nil {
		t.logger.Warn("no visitor data in bootstrap response")
		return nil
	}

	t.mu.Lock()
	t.visitorData = string(match[1])
	t.mu.Unlock()
	return nil
}

// Search runs one search request.
func (t *Innertube) Search(ctx context.Context, q Query) (*SearchResults, error) {
	body := map[string]any{
		"context": t.clientContext(webClientName, webClientVersion, q.Locale, q.Region),
		"query":   q.Text,
	}
	if params := searchParams(q); params != "" {
		body["params"] = params
	}

	decoded, err := t.post(ctx, "search", body, t.userAgent)
	if err != nil {
		return nil, err
	}
	return &SearchResults{Results: parseSearch(decoded)}, nil
}

// Channel browses a channel's home tab and, best effort, its playlists tab.
func (t *Innertube) Channel(ctx context.Context, id string) (*Channel, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, InvalidInput("channel", "Channel ID is required")
	}

	home, err := t.browse(ctx, id, "")
	if err != nil {
		return nil, err
	}

	playlists, err := t.browse(ctx, id, channelPlaylistsParams)
	if err != nil {
		t.logger.Warn("channel playlists tab unavailable", "channel", id, "error", err)
		playlists = nil
	}

	return parseChannel(id, home, playlists), nil
}

// Playlist browses a playlist page.
func (t *Innertube) Playlist(ctx context.Context, id string) (*Playlist, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, InvalidInput("playlist", "Playlist ID is required")
	}

	decoded, err := t.browse(ctx, "VL"+strings.TrimPrefix(id, "VL"), "")
	if err != nil {
		return nil, err
	}
	if alerts := firstText(decoded, []any{"alerts", 0, "alertRenderer", "text"}); alerts != "" && dig(decoded, "contents") == nil {
		return nil, NotFound("playlist", alerts)
	}
	return parsePlaylist(id, decoded), nil
}

// Player fetches a video's player response through the android client, which returns direct format urls.
func (t *Innertube) Player(ctx context.Context, id string) (*VideoInfo, error) {
	cc := t.clientContext(androidClientName, androidClientVersion, "", "")
	cc["client"].(map[string]any)["androidSdkVersion"] = 30

	body := map[string]any{
		"context":        cc,
		"videoId":        id,
		"contentCheckOk": true,
		"racyCheckOk":    true,
	}
	decoded, err := t.post(ctx, "player", body, androidUserAgent)
	if err != nil {
		return nil, err
	}
	return parsePlayer(id, decoded), nil
}

func (t *Innertube) browse(ctx context.Context, browseID, params string) (map[string]any, error) {
	body := map[string]any{
		"context":  t.clientContext(webClientName, webClientVersion, "", ""),
		"browseId": browseID,
	}
	if params != "" {
		body["params"] = params
	}
	return t.post(ctx, "browse", body, t.userAgent)
}

func (t *Innertube) clientContext(name, version, hl, gl string) map[string]any {
	if hl == "" {
		hl = t.language
	}
	if gl == "" {
		gl = t.location
	}

	client := map[string]any{
		"hl":            hl,
		"gl":            gl,
		"clientName":    name,
		"clientVersion": version,
	}
	if vd := t.visitor(); vd != "" {
		client["visitorData"] = vd
	}
	return map[string]any{"client": client}
}

func (t *Innertube) visitor() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.visitorData
}

func (t *Innertube) post(ctx context.Context, endpoint string, body map[string]any, userAgent string) (map[string]any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?prettyPrint=false", t.baseURL, endpoint)
	data, err := t.do(ctx, http.MethodPost, url, payload, userAgent)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", endpoint, err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("%s response decode failed: %w", endpoint, err)
	}
	return decoded, nil
}

// do paces, guards and retries one request, returning the response body.
func (t *Innertube) do(ctx context.Context, method, url string, payload []byte, userAgent string) ([]byte, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	res, err := t.breaker.Execute(func() (any, error) {
		var body any
		if payload != nil {
			body = payload
		}
		req, err := retryablehttp.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("User-Agent", userAgent)
		if vd := t.visitor(); vd != "" {
			req.Header.Set("X-Goog-Visitor-Id", vd)
		}

		resp, err := t.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
			return nil, fmt.Errorf("unexpected status %s (%s)", resp.Status, strings.TrimSpace(string(snippet)))
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}
	return res.([]byte), nil
}
