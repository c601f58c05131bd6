package aggregate

import (
	"context"
	"errors"

	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/normalize"
	"github.com/desertthunder/soundscout/internal/tasks"
)

// LongListenMinSeconds is the shortest video counted as a long listen.
const LongListenMinSeconds = 3600

// LongListens fans out the configured long-form queries and returns the hour-plus videos,
// deduplicated in query order and capped at LongListenLimit, with cleaned titles and creators.
func (a *Aggregator) LongListens(ctx context.Context) ([]models.Track, error) {
	if err := catalog.Ensure(ctx, a.catalog); err != nil {
		return nil, err
	}

	settled := tasks.AllSettled(ctx, tasks.FetchQueries, 0, a.progress, a.cfg.LongListenQueries,
		func(ctx context.Context, q string) ([]catalog.Result, error) {
			results, err := a.catalog.Search(ctx, catalog.Query{
				Text:     q,
				Type:     catalog.TypeVideo,
				SortBy:   "rating",
				Duration: "long",
				Features: []string{"hd", "cc"},
			})
			if err != nil {
				return nil, err
			}
			return results.Videos(), nil
		})

	if errs, failed := allFailed(settled); failed {
		return nil, catalog.Unavailable("long_listens", errors.Join(errs...))
	}

	seen := make(map[string]struct{})
	out := []models.Track{}
	for _, s := range settled {
		if s.Err != nil {
			a.logger.Warn("long listen query failed", "query", s.Name, "error", s.Err)
			continue
		}
		for _, r := range s.Value {
			id := normalize.ID(r)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}

			if normalize.DurationSeconds(r) < LongListenMinSeconds || len(out) >= a.cfg.LongListenLimit {
				continue
			}
			out = append(out, longListen(r))
		}
	}
	return out, nil
}

func longListen(r catalog.Result) models.Track {
	raw := normalize.RawTitle(r)
	title := normalize.CleanTitle(raw)
	if title == "" {
		title = models.UnknownTitle
	}
	creator := normalize.CleanCreator(normalize.AuthorName(r))
	if creator == "" {
		creator = models.UnknownArtist
	}

	id := normalize.ID(r)
	secs := normalize.DurationSeconds(r)
	return models.Track{
		ID:              id,
		Title:           title,
		Artist:          creator,
		Thumbnail:       normalize.BestThumbnailByQuality(normalize.Thumbnails(r), normalize.DefaultLongListenThumbnail),
		Duration:        normalize.HoursMinutes(secs),
		DurationSeconds: secs,
		Source:          "longlistens",
		URL:             normalize.WatchURL(id),
		ContentType:     normalize.ContentType(raw),
	}
}
