package aggregate

import (
	"context"
	"errors"
	"strings"

	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/classify"
	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/normalize"
	"github.com/desertthunder/soundscout/internal/rank"
	"github.com/desertthunder/soundscout/internal/tasks"
)

// DefaultCountry is the popular flow's country when none is given.
const DefaultCountry = "US"

// popularConcurrency bounds in-flight genre searches.
const popularConcurrency = 4

func genreQuery(genre string) string { return genre + " music" }

// GenreSongs returns the videos of a single "{genre} music" search.
func (a *Aggregator) GenreSongs(ctx context.Context, genre string) ([]models.Track, error) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return nil, catalog.InvalidInput("genre_songs", "Genre is required")
	}

	results, err := a.catalog.Search(ctx, catalog.Query{Text: genreQuery(genre), Type: catalog.TypeVideo})
	if err != nil {
		return nil, err
	}

	tracks := normalize.Tracks(results.Videos(), "genre")
	for i := range tracks {
		tracks[i] = tracks[i].Summary()
	}
	a.logger.Debug("genre songs", "genre", genre, "count", len(tracks))
	return tracks, nil
}

// MoodPlaylists picks the first playlist of a "{mood} music playlist" search and lists its videos.
func (a *Aggregator) MoodPlaylists(ctx context.Context, mood string) (*models.MoodResult, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return nil, catalog.InvalidInput("mood_playlists", "Mood is required")
	}

	results, err := a.catalog.Search(ctx, catalog.Query{Text: mood + " music playlist", Type: catalog.TypePlaylist})
	if err != nil {
		return nil, err
	}
	if results == nil || len(results.Results) == 0 {
		return nil, catalog.NotFound("mood_playlists", "No playlists found")
	}

	var selected catalog.Result
	for _, p := range results.Playlists() {
		if normalize.ID(p) != "" {
			selected = p
			break
		}
	}
	if selected == nil {
		return nil, catalog.NotFound("mood_playlists", "No valid playlists found")
	}

	id := normalize.ID(selected)
	pl, err := a.catalog.GetPlaylist(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &models.MoodResult{Mood: mood, Playlists: []models.PlaylistSummary{}, Songs: []models.Track{}}
	if pl == nil || len(pl.Videos) == 0 {
		return out, nil
	}

	summary := normalize.PlaylistSummary(selected)
	out.Playlists = append(out.Playlists, models.PlaylistSummary{ID: id, Title: summary.Title, Thumbnail: summary.Thumbnail})
	for _, t := range normalize.Tracks(pl.Videos, "mood") {
		out.Songs = append(out.Songs, t.Summary())
	}
	return out, nil
}

// Popular searches every configured genre in country's language and returns the music-looking
// videos, deduplicated, sorted by view count and capped at PopularLimit.
//
// Genre searches run concurrently; their results merge in genre order. A failing genre is
// skipped unless every genre failed.
func (a *Aggregator) Popular(ctx context.Context, country string) ([]models.Track, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		country = DefaultCountry
	}
	locale := strings.ToLower(country)

	if err := catalog.Ensure(ctx, a.catalog); err != nil {
		return nil, err
	}

	settled := tasks.AllSettled(ctx, tasks.FetchGenres, popularConcurrency, a.progress, a.cfg.PopularGenres,
		func(ctx context.Context, genre string) ([]catalog.Result, error) {
			results, err := a.catalog.Search(ctx, catalog.Query{Text: genreQuery(genre), Type: catalog.TypeVideo, Locale: locale})
			if err != nil {
				return nil, err
			}
			return results.Videos(), nil
		})

	if errs, failed := allFailed(settled); failed {
		return nil, catalog.Unavailable("popular", errors.Join(errs...))
	}

	music := classify.NewPositivePattern()
	merged := newMergeSet()
	for _, s := range settled {
		if s.Err != nil {
			a.logger.Warn("genre search failed", "genre", s.Name, "country", country, "error", s.Err)
			continue
		}
		for _, r := range s.Value {
			if !music.IsMusic(normalize.RawTitle(r), normalize.AuthorName(r)) {
				continue
			}
			merged.add(popularTrack(r, s.Name))
		}
	}

	tracks := rank.ByViews(merged.tracks)
	if len(tracks) > a.cfg.PopularLimit {
		tracks = tracks[:a.cfg.PopularLimit]
	}
	if tracks == nil {
		tracks = []models.Track{}
	}
	return tracks, nil
}

func popularTrack(r catalog.Result, genre string) models.Track {
	title := normalize.RawTitle(r)
	artist, ok := normalize.ArtistBeforeDelimiter(title)
	if !ok || artist == "" {
		artist = normalize.AuthorName(r)
	}
	if artist == "" {
		artist = models.UnknownArtist
	}

	id := normalize.ID(r)
	return models.Track{
		ID:        id,
		Title:     normalize.SongTitle(title),
		Artist:    artist,
		Thumbnail: normalize.LargestThumbnail(normalize.Thumbnails(r)),
		Duration:  orNA(normalize.DurationText(r)),
		ViewCount: orNA(normalize.ViewCount(r)),
		Source:    "popular",
		URL:       normalize.WatchURL(id),
		Genre:     genre,
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Recommended lists the video results of each recommendation genre in order.
// Genres are searched one after another and any failure fails the whole list.
func (a *Aggregator) Recommended(ctx context.Context) ([]models.Track, error) {
	out := []models.Track{}
	for _, genre := range a.cfg.RecommendGenres {
		results, err := a.catalog.Search(ctx, catalog.Query{Text: genreQuery(genre), Type: catalog.TypeVideo})
		if err != nil {
			return nil, err
		}
		for _, t := range normalize.Tracks(results.Videos(), "recommendation") {
			s := t.Summary()
			s.Genre = genre
			out = append(out, s)
		}
	}
	return out, nil
}
