package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/soundscout/internal/aggregate"
	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/normalize"
	"github.com/desertthunder/soundscout/internal/resolver"
	"github.com/desertthunder/soundscout/internal/shared"
	"github.com/desertthunder/soundscout/internal/stream"
	"github.com/desertthunder/soundscout/internal/tasks"
)

// Service is the read-only music surface shared by the HTTP server, the CLI and the browser.
type Service interface {
	// Artist resolves name to a channel and returns one page of its deep search.
	Artist(ctx context.Context, name string, page int) (*models.ArtistPage, error)

	// ChannelData returns a channel's metadata and categorized playlists.
	ChannelData(ctx context.Context, channelID string) (*models.ChannelData, error)

	GenreSongs(ctx context.Context, genre string) ([]models.Track, error)
	MoodPlaylists(ctx context.Context, mood string) (*models.MoodResult, error)
	Search(ctx context.Context, query string) ([]models.Track, error)
	Popular(ctx context.Context, country string) ([]models.Track, error)
	Recommended(ctx context.Context) ([]models.Track, error)
	LongListens(ctx context.Context) ([]models.Track, error)
	ArtistSongs(ctx context.Context, artist string) ([]models.Track, error)

	// Stream resolves a video id to its best playable rendition.
	Stream(ctx context.Context, videoID string) (*models.StreamResult, error)

	// Audio resolves a video id to a direct audio-only url.
	Audio(ctx context.Context, videoID string) (string, error)

	Health(ctx context.Context) Health
}

// Health is the service status reported by /health.
type Health struct {
	Status       string    `json:"status"`
	CatalogReady bool      `json:"catalogReady"`
	AudioEnabled bool      `json:"audioEnabled"`
	Time         time.Time `json:"time"`
}

// Readiness reports whether the catalog handle has been constructed.
type Readiness interface {
	Ready() bool
}

// MusicService composes the resolver, aggregator and stream resolvers over one catalog.
type MusicService struct {
	catalog    catalog.Client
	resolver   *resolver.Resolver
	aggregator *aggregate.Aggregator
	streams    *stream.Resolver
	audio      *stream.AudioResolver
	logger     *log.Logger
	now        func() time.Time
}

// MusicOpts holds the collaborators of a [MusicService]. Audio may be nil to disable /api/audio.
type MusicOpts struct {
	Catalog    catalog.Client
	Resolver   *resolver.Resolver
	Aggregator *aggregate.Aggregator
	Streams    *stream.Resolver
	Audio      *stream.AudioResolver
	Logger     *log.Logger
}

// NewMusicService creates a MusicService. Missing resolvers are built over opts.Catalog with defaults.
func NewMusicService(opts MusicOpts) *MusicService {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	cfg := shared.DefaultConfig()
	scheduler := tasks.NewScheduler(cfg.Catalog.Cooldown, logger)

	if opts.Resolver == nil {
		opts.Resolver = resolver.NewResolver(opts.Catalog, cfg.Resolver, scheduler, logger)
	}
	if opts.Aggregator == nil {
		opts.Aggregator = aggregate.New(opts.Catalog, cfg.Aggregate, scheduler, logger)
	}
	if opts.Streams == nil {
		opts.Streams = stream.NewResolver(opts.Catalog, logger)
	}

	return &MusicService{
		catalog:    opts.Catalog,
		resolver:   opts.Resolver,
		aggregator: opts.Aggregator,
		streams:    opts.Streams,
		audio:      opts.Audio,
		logger:     shared.WithLogger(logger, "component", "music"),
		now:        time.Now,
	}
}

// WithProgress returns a copy of s whose multi-step plans report to progress.
func (s *MusicService) WithProgress(progress chan<- tasks.ProgressUpdate) *MusicService {
	c := *s
	c.resolver = s.resolver.WithProgress(progress)
	c.aggregator = s.aggregator.WithProgress(progress)
	return &c
}

// Artist resolves name, fetches the channel header, and deep searches by the channel's own title.
func (s *MusicService) Artist(ctx context.Context, name string, page int) (*models.ArtistPage, error) {
	identity, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}

	ch, err := s.catalog.GetChannel(ctx, identity.ChannelID)
	if err != nil {
		return nil, err
	}
	metadata := normalize.ChannelMetadata(ch)

	seed := metadata.Name
	if seed == "" {
		seed = identity.ChannelName
	}
	videos, err := s.aggregator.DeepSearch(ctx, seed, page)
	if err != nil {
		return nil, err
	}

	s.logger.Info("artist page", "artist", name, "channel", identity.ChannelID, "source", identity.Source, "items", videos.Pagination.TotalItems)
	return &models.ArtistPage{
		ChannelInfo: *identity,
		Metadata:    metadata,
		Content:     models.ArtistContent{Videos: videos.Tracks},
		Pagination:  videos.Pagination,
	}, nil
}

func (s *MusicService) ChannelData(ctx context.Context, channelID string) (*models.ChannelData, error) {
	return s.aggregator.ChannelData(ctx, channelID)
}

func (s *MusicService) GenreSongs(ctx context.Context, genre string) ([]models.Track, error) {
	return s.aggregator.GenreSongs(ctx, genre)
}

func (s *MusicService) MoodPlaylists(ctx context.Context, mood string) (*models.MoodResult, error) {
	return s.aggregator.MoodPlaylists(ctx, mood)
}

func (s *MusicService) Search(ctx context.Context, query string) ([]models.Track, error) {
	return s.aggregator.Search(ctx, query)
}

func (s *MusicService) Popular(ctx context.Context, country string) ([]models.Track, error) {
	return s.aggregator.Popular(ctx, country)
}

func (s *MusicService) Recommended(ctx context.Context) ([]models.Track, error) {
	return s.aggregator.Recommended(ctx)
}

func (s *MusicService) LongListens(ctx context.Context) ([]models.Track, error) {
	return s.aggregator.LongListens(ctx)
}

func (s *MusicService) ArtistSongs(ctx context.Context, artist string) ([]models.Track, error) {
	return s.aggregator.ArtistSongs(ctx, artist)
}

func (s *MusicService) Stream(ctx context.Context, videoID string) (*models.StreamResult, error) {
	return s.streams.Resolve(ctx, videoID)
}

func (s *MusicService) Audio(ctx context.Context, videoID string) (string, error) {
	if s.audio == nil {
		return "", &catalog.Error{Kind: shared.ErrNotImplemented, Op: "audio", Msg: "Audio extraction is disabled"}
	}
	return s.audio.Resolve(ctx, videoID)
}

func (s *MusicService) Health(ctx context.Context) Health {
	h := Health{Status: "ok", AudioEnabled: s.audio != nil, Time: s.now().UTC()}
	if r, ok := s.catalog.(Readiness); ok {
		h.CatalogReady = r.Ready()
	}
	return h
}

var _ Service = (*MusicService)(nil)
