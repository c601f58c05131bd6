package catalog

import (
	"context"
	"net/http"
	"regexp"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/shared"
)

var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ValidVideoID reports whether id has the shape of a catalog video id.
func ValidVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// YouTube is the production [Client].
type YouTube struct {
	tube   *Innertube
	player *Player
	logger *log.Logger
}

// NewYouTube combines an innertube client and a kkdai player.
func NewYouTube(tube *Innertube, player *Player, logger *log.Logger) *YouTube {
	if logger == nil {
		logger = log.Default()
	}
	return &YouTube{tube: tube, player: player, logger: logger}
}

// NewFactory returns a [Factory] building a bootstrapped [YouTube] client from cfg.
func NewFactory(cfg shared.CatalogConfig, logger *log.Logger) Factory {
	return func(ctx context.Context) (Client, error) {
		tube := NewInnertube(cfg, logger)
		if err := tube.Bootstrap(ctx); err != nil {
			return nil, err
		}
		player := NewPlayer(&http.Client{Timeout: cfg.StreamTimeout}, logger)
		return NewYouTube(tube, player, logger), nil
	}
}

func (y *YouTube) Search(ctx context.Context, q Query) (*SearchResults, error) {
	return y.tube.Search(ctx, q)
}

func (y *YouTube) GetChannel(ctx context.Context, id string) (*Channel, error) {
	return y.tube.Channel(ctx, id)
}

// GetPlaylist browses through innertube and falls back to the kkdai playlist parser.
func (y *YouTube) GetPlaylist(ctx context.Context, id string) (*Playlist, error) {
	pl, err := y.tube.Playlist(ctx, id)
	if err == nil && len(pl.Videos) > 0 {
		return pl, nil
	}
	if err != nil {
		y.logger.Warn("playlist browse failed, falling back", "playlist", id, "error", err)
	}

	fallback, ferr := y.player.Playlist(ctx, id)
	if ferr != nil {
		if err != nil {
			return nil, err
		}
		return pl, nil
	}
	return fallback, nil
}

func (y *YouTube) GetInfo(ctx context.Context, id string) (*VideoInfo, error) {
	return y.player.Info(ctx, id)
}

func (y *YouTube) GetBasicInfo(ctx context.Context, id string) (*VideoInfo, error) {
	return y.tube.Player(ctx, id)
}

func (y *YouTube) GetStreamingData(ctx context.Context, id string, opts StreamOptions) (*models.StreamFormat, error) {
	return y.player.StreamingData(ctx, id, opts)
}

var _ Client = (*YouTube)(nil)
