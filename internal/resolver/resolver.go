// Package resolver maps a free-text artist name to a catalog channel.
//
// A curated known-channel table is consulted first. Otherwise an ordered list of
// search strategies runs through a cooldown scheduler until one yields a channel
// whose cleaned name matches the artist.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/normalize"
	"github.com/desertthunder/soundscout/internal/shared"
	"github.com/desertthunder/soundscout/internal/tasks"
)

// ErrNoMatch is the client-facing message when resolution finds nothing.
const ErrNoMatch = "No matching channel found"

// Catalog is the subset of the catalog adapter the resolver calls.
type Catalog interface {
	Search(ctx context.Context, q catalog.Query) (*catalog.SearchResults, error)
	GetChannel(ctx context.Context, id string) (*catalog.Channel, error)
}

// Strategy is one search template tried during resolution.
type Strategy struct {
	Source   models.MatchSource
	Template string // fmt template receiving the artist name
	Type     catalog.ContentType
}

// DefaultStrategies in priority order.
var DefaultStrategies = []Strategy{
	{Source: models.SourceOfficialArtist, Template: "%s official artist channel", Type: catalog.TypeChannel},
	{Source: models.SourceVevo, Template: "%s vevo", Type: catalog.TypeChannel},
	{Source: models.SourceTopic, Template: "%s topic", Type: catalog.TypeChannel},
	{Source: models.SourceOfficialVideo, Template: "%s official music video", Type: catalog.TypeVideo},
}

// DefaultKnownChannels maps lowercased names to channel ids whose search results are unreliable.
var DefaultKnownChannels = map[string]string{
	"ajsbhbhbhb": "UCBJycsmduvYEL83R_U4JriQ",
	"nlnndsjjce": "UCANLZYMidaCbLQFWXBC95Jg",
	"endnrerefe": "UC2XdaAVUannpujzv32jcouQ",
}

// Resolver resolves artist names to channel identities.
type Resolver struct {
	catalog    Catalog
	known      map[string]string
	strategies []Strategy
	scheduler  *tasks.Scheduler
	logger     *log.Logger
}

// NewResolver creates a resolver. Entries of cfg.KnownChannels extend and override the defaults.
func NewResolver(c Catalog, cfg shared.ResolverConfig, scheduler *tasks.Scheduler, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	if scheduler == nil {
		scheduler = tasks.NewScheduler(0, logger)
	}

	known := maps.Clone(DefaultKnownChannels)
	for name, id := range cfg.KnownChannels {
		known[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(id)
	}

	return &Resolver{
		catalog:    c,
		known:      known,
		strategies: DefaultStrategies,
		scheduler:  scheduler,
		logger:     shared.WithLogger(logger, "component", "resolver"),
	}
}

// WithProgress returns a copy of r whose strategy plan reports to progress.
func (r *Resolver) WithProgress(progress chan<- tasks.ProgressUpdate) *Resolver {
	c := *r
	c.scheduler = r.scheduler.WithProgress(progress)
	return &c
}

// KnownChannel returns the curated channel id for name, if any.
func (r *Resolver) KnownChannel(name string) (string, bool) {
	id, ok := r.known[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// Resolve finds the channel for artistName.
//
// A known name fetches its channel directly and never searches. Strategy failures are logged
// and skipped; when every strategy failed the last upstream failure is reported as unavailable,
// otherwise a miss is [shared.ErrNotFound].
func (r *Resolver) Resolve(ctx context.Context, artistName string) (*models.ResolvedIdentity, error) {
	name := strings.TrimSpace(artistName)
	if name == "" {
		return nil, catalog.InvalidInput("resolve", "Artist name is required")
	}

	if id, ok := r.KnownChannel(name); ok {
		return r.resolveKnown(ctx, id)
	}

	if err := catalog.Ensure(ctx, r.catalog); err != nil {
		return nil, err
	}

	var found *models.ResolvedIdentity
	plan := make([]tasks.Task, 0, len(r.strategies))
	for _, s := range r.strategies {
		plan = append(plan, tasks.Task{
			Name: string(s.Source),
			Run: func(ctx context.Context) error {
				identity, err := r.try(ctx, s, name)
				if catalog.IsInit(err) {
					return tasks.Abort(err)
				}
				if err != nil {
					return err
				}
				if identity != nil {
					found = identity
					return tasks.Stop
				}
				return nil
			},
		})
	}

	report, err := r.scheduler.Run(ctx, tasks.ResolveIdentity, plan)
	if err != nil {
		return nil, err
	}
	if found != nil {
		r.logger.Debug("artist resolved", "artist", name, "channel", found.ChannelID, "source", found.Source)
		return found, nil
	}
	if report.AllFailed() {
		errs := report.Errors()
		return nil, catalog.Unavailable("resolve", errors.Join(errs...))
	}
	return nil, catalog.NotFound("resolve", ErrNoMatch)
}

func (r *Resolver) resolveKnown(ctx context.Context, id string) (*models.ResolvedIdentity, error) {
	ch, err := r.catalog.GetChannel(ctx, id)
	if err != nil {
		return nil, err
	}

	channelID := ch.ID
	if channelID == "" {
		channelID = id
	}
	return &models.ResolvedIdentity{
		ChannelID:   channelID,
		ChannelName: normalize.ChannelMetadata(ch).Name,
		Thumbnail:   normalize.AvatarURL(ch),
		Source:      models.SourceKnownChannel,
	}, nil
}

// try runs one strategy, returning its first matching candidate or nil.
func (r *Resolver) try(ctx context.Context, s Strategy, name string) (*models.ResolvedIdentity, error) {
	results, err := r.catalog.Search(ctx, catalog.Query{Text: fmt.Sprintf(s.Template, name), Type: s.Type})
	if err != nil {
		return nil, err
	}

	if s.Type == catalog.TypeVideo {
		for _, v := range results.Videos() {
			author := normalize.AuthorName(v)
			if author == "" || !IsArtistMatch(author, name) {
				continue
			}
			thumbs := normalize.AuthorThumbnails(v)
			identity := &models.ResolvedIdentity{
				ChannelID:   normalize.Text(authorField(v, "id")),
				ChannelName: author,
				Source:      s.Source,
			}
			if len(thumbs) > 0 {
				identity.Thumbnail = thumbs[0].URL
			}
			return identity, nil
		}
		return nil, nil
	}

	for _, c := range results.Channels() {
		channelName := normalize.ChannelName(c)
		if channelName == "" || !IsArtistMatch(channelName, name) {
			continue
		}
		return &models.ResolvedIdentity{
			ChannelID:   normalize.ID(c),
			ChannelName: channelName,
			Thumbnail:   normalize.FirstThumbnail(c, ""),
			Source:      s.Source,
		}, nil
	}
	return nil, nil
}

func authorField(r catalog.Result, key string) any {
	author, _ := r["author"].(map[string]any)
	return author[key]
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

func clean(s string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(s), "")
}

// IsArtistMatch reports whether a channel name plausibly belongs to artist.
//
// Both are lowercased and stripped of everything but a-z and 0-9. The channel matches when it
// contains the artist, or equals the artist followed by "vevo" or "topic".
func IsArtistMatch(channel, artist string) bool {
	c, a := clean(channel), clean(artist)
	return strings.Contains(c, a) || c == a+"vevo" || c == a+"topic"
}
