package aggregate

import (
	"context"
	"strings"

	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/classify"
	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/normalize"
)

// Search runs a free-text video search and drops non-music results.
//
// When any remaining title equals the query (ignoring case) only those exact matches are returned.
func (a *Aggregator) Search(ctx context.Context, query string) ([]models.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, catalog.InvalidInput("search", "Missing search query")
	}

	results, err := a.catalog.Search(ctx, catalog.Query{Text: query, Type: catalog.TypeVideo})
	if err != nil {
		return nil, err
	}

	songs := make([]models.Track, 0, len(results.Results))
	for _, r := range results.Videos() {
		if normalize.ID(r) == "" {
			continue
		}
		songs = append(songs, models.Track{
			ID:        normalize.ID(r),
			Title:     normalize.Title(r),
			Artist:    unknownIfEmpty(normalize.AuthorName(r)),
			Duration:  unknownIfEmpty(normalize.DurationText(r)),
			Thumbnail: normalize.FirstThumbnail(r, normalize.DefaultVideoThumbnail),
		})
	}

	songs = classify.Filter(songs, classify.NewNegativeKeyword(), func(t models.Track) (string, string) {
		return t.Title, t.Artist
	})

	exact := make([]models.Track, 0)
	for _, s := range songs {
		if strings.EqualFold(s.Title, query) {
			exact = append(exact, s)
		}
	}
	if len(exact) > 0 {
		return exact, nil
	}
	return songs, nil
}

func unknownIfEmpty(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// ArtistSongs returns the complete video records of an "{artist} songs" search: each must carry
// an id, a title, at least one thumbnail and an author name.
func (a *Aggregator) ArtistSongs(ctx context.Context, artist string) ([]models.Track, error) {
	artist = strings.TrimSpace(artist)
	if artist == "" {
		return nil, catalog.InvalidInput("artist_songs", "Artist name is required")
	}

	results, err := a.catalog.Search(ctx, catalog.Query{Text: artist + " songs", Type: catalog.TypeVideo})
	if err != nil {
		return nil, err
	}

	videos := results.Videos()
	if len(videos) == 0 {
		return nil, catalog.NotFound("artist_songs", "No songs found")
	}

	songs := []models.Track{}
	for _, r := range videos {
		if normalize.ID(r) == "" || normalize.RawTitle(r) == "" || len(normalize.Thumbnails(r)) == 0 || normalize.AuthorName(r) == "" {
			continue
		}
		songs = append(songs, normalize.Track(r, "artist_songs").Summary())
	}
	return songs, nil
}
