package stream

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lrstanley/go-ytdlp"

	"github.com/desertthunder/soundscout/internal/cache"
	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/normalize"
	"github.com/desertthunder/soundscout/internal/shared"
)

// AudioFormat is the yt-dlp format selector for audio-only renditions.
const AudioFormat = "bestaudio[ext=m4a]/bestaudio[ext=webm]"

// URLFetcher asks an external extractor for a direct media url.
type URLFetcher interface {
	AudioURL(ctx context.Context, videoID string) (string, error)
}

// AudioStore persists resolved audio urls across restarts.
type AudioStore interface {
	Get(ctx context.Context, videoID string) (string, bool, error)
	Put(ctx context.Context, videoID, url string, ttl time.Duration) error
}

// YtDlp fetches audio urls by running yt-dlp.
type YtDlp struct {
	Binary string // empty resolves yt-dlp from PATH
}

// AudioURL runs yt-dlp with --get-url and returns its raw stdout.
func (y *YtDlp) AudioURL(ctx context.Context, videoID string) (string, error) {
	cmd := ytdlp.New().Format(AudioFormat).GetURL().NoWarnings()
	if y.Binary != "" {
		cmd = cmd.SetExecutable(y.Binary)
	}

	res, err := cmd.Run(ctx, normalize.WatchURL(videoID))
	if err != nil {
		return "", fmt.Errorf("yt-dlp: %w", err)
	}
	return res.Stdout, nil
}

// AudioResolver resolves audio-only urls through yt-dlp, caching them in memory and,
// when a store is set, on disk.
type AudioResolver struct {
	fetcher URLFetcher
	mem     *cache.Cache[string]
	store   AudioStore
	ttl     time.Duration
	logger  *log.Logger
}

// NewAudioResolver creates a resolver keeping at most maxEntries urls in memory for ttl.
// store may be nil.
func NewAudioResolver(fetcher URLFetcher, store AudioStore, cfg shared.YtDlpConfig, logger *log.Logger) *AudioResolver {
	if logger == nil {
		logger = log.Default()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	maxEntries := cfg.MaxCache
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &AudioResolver{
		fetcher: fetcher,
		mem:     cache.NewBounded[string](maxEntries),
		store:   store,
		ttl:     ttl,
		logger:  shared.WithLogger(logger, "component", "audio"),
	}
}

// Resolve returns a direct audio url for videoID.
func (a *AudioResolver) Resolve(ctx context.Context, videoID string) (string, error) {
	videoID = strings.TrimSpace(videoID)
	if !catalog.ValidVideoID(videoID) {
		return "", &catalog.Error{Kind: shared.ErrInvalidID, Op: "audio", Msg: "Invalid or missing video ID"}
	}

	if url, ok := a.mem.Get(videoID); ok {
		a.logger.Debug("serving cached audio", "video", videoID)
		return url, nil
	}
	if a.store != nil {
		url, ok, err := a.store.Get(ctx, videoID)
		if err != nil {
			a.logger.Warn("audio store read failed", "video", videoID, "error", err)
		} else if ok {
			a.mem.Set(videoID, url, a.ttl)
			return url, nil
		}
	}

	out, err := a.fetcher.AudioURL(ctx, videoID)
	if err != nil {
		return "", &catalog.Error{Kind: shared.ErrUnavailable, Op: "audio", Msg: "Internal Server Error", Err: err}
	}

	url := firstLine(out)
	if !strings.HasPrefix(url, "http") {
		a.logger.Error("invalid audio url received", "video", videoID, "output", url)
		return "", &catalog.Error{Kind: shared.ErrInvalidAudioURL, Op: "audio", Msg: "Failed to retrieve audio"}
	}

	a.mem.Set(videoID, url, a.ttl)
	if a.store != nil {
		if err := a.store.Put(ctx, videoID, url, a.ttl); err != nil {
			a.logger.Warn("audio store write failed", "video", videoID, "error", err)
		}
	}
	return url, nil
}

// Purge empties the in-memory tier.
func (a *AudioResolver) Purge() { a.mem.Purge() }

func firstLine(s string) string {
	for line := range strings.Lines(s) {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
