package aggregate

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/normalize"
	"github.com/desertthunder/soundscout/internal/tasks"
)

// Categorize files a playlist by a case-insensitive substring of its title.
// "album" wins over "single", which wins over "mix"; everything else is songs.
func Categorize(title string) models.PlaylistKind {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "album"):
		return models.KindAlbum
	case strings.Contains(t, "single"):
		return models.KindSingle
	case strings.Contains(t, "mix"):
		return models.KindMix
	default:
		return models.KindSongs
	}
}

// ChannelData fetches a channel page and files each of its playlists by title.
//
// Every playlist is fetched for its own title and year; one that fails is logged and left out.
func (a *Aggregator) ChannelData(ctx context.Context, channelID string) (*models.ChannelData, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, catalog.InvalidInput("channel_data", "Channel ID is required")
	}

	ch, err := a.catalog.GetChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, catalog.NotFound("channel_data", "Channel not found")
	}

	data := &models.ChannelData{
		Metadata: normalize.ChannelMetadata(ch),
		Content: models.ChannelContent{
			Songs:   []models.PlaylistSummary{},
			Albums:  []models.PlaylistSummary{},
			Singles: []models.PlaylistSummary{},
			Videos:  normalize.Tracks(ch.Videos, "channel"),
			Mixes:   []models.PlaylistSummary{},
		},
	}

	plan := make([]tasks.Task, 0, len(ch.Playlists))
	for _, p := range ch.Playlists {
		id := normalize.ID(p)
		if id == "" {
			continue
		}
		plan = append(plan, tasks.Task{
			Name: id,
			Run: func(ctx context.Context) error {
				pl, err := a.catalog.GetPlaylist(ctx, id)
				if catalog.IsInit(err) {
					return tasks.Abort(err)
				}
				if err != nil {
					return err
				}
				if pl == nil {
					return fmt.Errorf("playlist %s: empty response", id)
				}
				summary := normalize.PlaylistInfo(pl)
				if len(summary.Thumbnails) == 0 {
					summary.Thumbnails = normalize.Thumbnails(p)
					summary.Thumbnail = normalize.FirstThumbnail(p, "")
				}
				kind := Categorize(summary.Title)
				if kind == models.KindMix || kind == models.KindSongs {
					summary.Year = ""
				}
				data.Content.Add(kind, summary)
				return nil
			},
		})
	}

	if _, err := a.scheduler.WithCooldown(0).Run(ctx, tasks.CategorizePlaylists, plan); err != nil {
		return nil, err
	}

	data.LastUpdated = a.now().UTC()
	return data, nil
}
