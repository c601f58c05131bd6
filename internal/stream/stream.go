// Package stream resolves a video id to a playable rendition.
//
// Full player info is tried first and basic info second. Formats are chosen in strict tiers:
// combined formats, then adaptive formats carrying video and audio, then adaptive audio. When
// the catalog returned no streaming data at all a direct best-quality lookup is the last resort.
package stream

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/models"
	"github.com/desertthunder/soundscout/internal/shared"
)

// Catalog is the subset of the catalog adapter stream resolution calls.
type Catalog interface {
	GetInfo(ctx context.Context, id string) (*catalog.VideoInfo, error)
	GetBasicInfo(ctx context.Context, id string) (*catalog.VideoInfo, error)
	GetStreamingData(ctx context.Context, id string, opts catalog.StreamOptions) (*models.StreamFormat, error)
}

// Resolver resolves playable streams.
type Resolver struct {
	catalog Catalog
	logger  *log.Logger
}

func NewResolver(c Catalog, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{catalog: c, logger: shared.WithLogger(logger, "component", "stream")}
}

// Resolve returns the url, captions and details of id's best playable rendition.
//
// A malformed id fails with [shared.ErrInvalidID] before any catalog call.
func (r *Resolver) Resolve(ctx context.Context, id string) (*models.StreamResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, catalog.InvalidInput("stream", "Missing video ID")
	}
	if !catalog.ValidVideoID(id) {
		return nil, catalog.InvalidID("stream", id)
	}

	info, err := r.catalog.GetInfo(ctx, id)
	if err != nil {
		r.logger.Warn("full info failed, trying basic info", "video", id, "error", err)
		info, err = r.catalog.GetBasicInfo(ctx, id)
		if err != nil {
			return nil, err
		}
	}
	if info == nil || info.Basic == nil {
		return nil, catalog.NotFound("stream", "Could not retrieve video information")
	}

	format, ok := SelectFormat(info.Basic.StreamingData)
	if !ok && info.Basic.StreamingData == nil {
		direct, err := r.catalog.GetStreamingData(ctx, id, catalog.StreamOptions{Quality: "best", Type: "video+audio"})
		if err != nil {
			r.logger.Error("direct streaming data failed", "video", id, "error", err)
		} else if direct != nil {
			format, ok = *direct, true
		}
	}
	if !ok {
		return nil, catalog.NoPlayableStream("stream", "No suitable stream found")
	}

	return &models.StreamResult{
		URL:          format.URL,
		Captions:     Captions(info.Captions),
		VideoDetails: details(info.Basic),
		Format:       format,
	}, nil
}

// SelectFormat applies the format tiers to sd. ok is false when no tier yields a format.
func SelectFormat(sd *catalog.StreamingData) (models.StreamFormat, bool) {
	if sd == nil {
		return models.StreamFormat{}, false
	}
	tiers := []struct {
		formats []models.StreamFormat
		keep    func(models.StreamFormat) bool
	}{
		{sd.Formats, func(f models.StreamFormat) bool { return f.HasVideo && f.HasAudio }},
		{sd.AdaptiveFormats, func(f models.StreamFormat) bool { return f.HasVideo && f.HasAudio }},
		{sd.AdaptiveFormats, func(f models.StreamFormat) bool { return f.HasAudio }},
	}
	for _, tier := range tiers {
		if f, ok := highestBitrate(tier.formats, tier.keep); ok {
			return f, true
		}
	}
	return models.StreamFormat{}, false
}

// highestBitrate returns the first format with the highest bitrate among those keep accepts.
func highestBitrate(formats []models.StreamFormat, keep func(models.StreamFormat) bool) (models.StreamFormat, bool) {
	candidates := make([]models.StreamFormat, 0, len(formats))
	for _, f := range formats {
		if keep(f) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return models.StreamFormat{}, false
	}
	slices.SortStableFunc(candidates, func(a, b models.StreamFormat) int {
		return cmp.Compare(b.Bitrate, a.Bitrate)
	})
	return candidates[0], true
}

// Captions converts catalog caption tracks. A track without a name is labelled with its
// uppercased language code. The result is never nil.
func Captions(tracks []catalog.CaptionTrack) []models.CaptionTrack {
	out := make([]models.CaptionTrack, 0, len(tracks))
	for _, t := range tracks {
		name := t.Name
		if name == "" {
			name = strings.ToUpper(t.LanguageCode)
		}
		out = append(out, models.CaptionTrack{
			LanguageName:   name,
			LanguageCode:   t.LanguageCode,
			URL:            t.URL,
			IsTranslatable: t.IsTranslatable,
		})
	}
	return out
}

func details(b *catalog.BasicInfo) models.VideoDetails {
	d := models.VideoDetails{Title: b.Title, Author: b.Author, Length: b.Duration}
	if len(b.Thumbnails) > 0 {
		d.Thumbnail = b.Thumbnails[0].URL
	}
	return d
}
