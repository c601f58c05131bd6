package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/soundscout/internal/formatter"
	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/shared"
	"github.com/urfave/cli/v3"
)

func requireArg(cmd *cli.Command, name string) (string, error) {
	value := strings.TrimSpace(cmd.StringArg(name))
	if value == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return value, nil
}

// Artist resolves an artist name and prints one page of their videos.
func (r *Runner) Artist(ctx context.Context, cmd *cli.Command) error {
	name, err := requireArg(cmd, "name")
	if err != nil {
		return err
	}
	page := int(cmd.Int("page"))
	if page < 1 {
		page = 1
	}

	svc, err := r.music()
	if err != nil {
		return err
	}

	r.logger.Info("resolving artist", "name", name, "page", page)
	result, err := svc.Artist(ctx, name, page)
	if err != nil {
		return fmt.Errorf("failed to fetch artist: %w", err)
	}
	return r.emit(cmd, formatter.ArtistListing(result))
}

// Channel prints a channel's categorized playlists.
func (r *Runner) Channel(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.music()
	if err != nil {
		return err
	}

	data, err := svc.ChannelData(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch channel data: %w", err)
	}
	return r.emit(cmd, formatter.ChannelListing(data))
}

// Search prints the music results for a free-text query.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query, err := requireArg(cmd, "query")
	if err != nil {
		return err
	}
	return r.tracks(ctx, cmd, "Search: "+query, func(ctx context.Context) ([]models.Track, error) {
		svc, err := r.music()
		if err != nil {
			return nil, err
		}
		return svc.Search(ctx, query)
	})
}

// Genre prints the songs of one genre.
func (r *Runner) Genre(ctx context.Context, cmd *cli.Command) error {
	genre, err := requireArg(cmd, "genre")
	if err != nil {
		return err
	}
	return r.tracks(ctx, cmd, "Genre: "+genre, func(ctx context.Context) ([]models.Track, error) {
		svc, err := r.music()
		if err != nil {
			return nil, err
		}
		return svc.GenreSongs(ctx, genre)
	})
}

// Mood prints the playlists and songs of one mood.
func (r *Runner) Mood(ctx context.Context, cmd *cli.Command) error {
	mood, err := requireArg(cmd, "mood")
	if err != nil {
		return err
	}
	svc, err := r.music()
	if err != nil {
		return err
	}

	result, err := svc.MoodPlaylists(ctx, mood)
	if err != nil {
		return fmt.Errorf("failed to fetch mood playlists: %w", err)
	}
	return r.emit(cmd, formatter.MoodListing(result))
}

// Popular prints popular songs for a country.
func (r *Runner) Popular(ctx context.Context, cmd *cli.Command) error {
	country := cmd.String("country")
	title := "Popular"
	if country != "" {
		title = "Popular (" + strings.ToUpper(country) + ")"
	}
	return r.tracks(ctx, cmd, title, func(ctx context.Context) ([]models.Track, error) {
		svc, err := r.music()
		if err != nil {
			return nil, err
		}
		return svc.Popular(ctx, country)
	})
}

// Recommend prints the mixed recommendation set.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	return r.tracks(ctx, cmd, "Recommended", func(ctx context.Context) ([]models.Track, error) {
		svc, err := r.music()
		if err != nil {
			return nil, err
		}
		return svc.Recommended(ctx)
	})
}

// LongListens prints long-form listening content.
func (r *Runner) LongListens(ctx context.Context, cmd *cli.Command) error {
	return r.tracks(ctx, cmd, "Long Listens", func(ctx context.Context) ([]models.Track, error) {
		svc, err := r.music()
		if err != nil {
			return nil, err
		}
		return svc.LongListens(ctx)
	})
}

// ArtistSongs prints songs credited to an artist.
func (r *Runner) ArtistSongs(ctx context.Context, cmd *cli.Command) error {
	artist, err := requireArg(cmd, "artist")
	if err != nil {
		return err
	}
	return r.tracks(ctx, cmd, "Songs: "+artist, func(ctx context.Context) ([]models.Track, error) {
		svc, err := r.music()
		if err != nil {
			return nil, err
		}
		return svc.ArtistSongs(ctx, artist)
	})
}

func (r *Runner) tracks(ctx context.Context, cmd *cli.Command, title string, fetch func(context.Context) ([]models.Track, error)) error {
	r.logger.Debug("fetching tracks", "listing", title)
	tracks, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", strings.ToLower(title), err)
	}
	return r.emit(cmd, formatter.TrackListing(title, tracks))
}

// Stream resolves and prints the playable stream of a video.
func (r *Runner) Stream(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.music()
	if err != nil {
		return err
	}

	result, err := svc.Stream(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch stream: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	d := result.VideoDetails
	r.writePlainHeader(d.Title)
	r.writePlain("Author:   %s\n", d.Author)
	r.writePlain("Length:   %s\n", shared.FormatDuration(d.Length))
	if f := result.Format; f.MimeType != "" {
		r.writePlain("Format:   %s (%d bps)\n", f.MimeType, f.Bitrate)
	}
	langs := make([]string, 0, len(result.Captions))
	for _, c := range result.Captions {
		langs = append(langs, c.LanguageCode)
	}
	if len(langs) > 0 {
		r.writePlain("Captions: %s\n", strings.Join(langs, ", "))
	}
	r.writePlainln("%s", result.URL)
	return nil
}

// Audio prints a direct audio-only URL.
func (r *Runner) Audio(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	svc, err := r.music()
	if err != nil {
		return err
	}

	url, err := svc.Audio(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to resolve audio: %w", err)
	}
	return r.writePlain("%s\n", url)
}
