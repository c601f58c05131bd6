package catalog

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/kkdai/youtube/v2"

	"github.com/desertthunder/soundscout/internal/models"
)

// VideoSource is the subset of [youtube.Client] the player needs.
type VideoSource interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamURLContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (string, error)
	GetPlaylistContext(ctx context.Context, url string) (*youtube.Playlist, error)
}

// Player resolves playback metadata through github.com/kkdai/youtube, which handles signature deciphering.
type Player struct {
	source VideoSource
	logger *log.Logger
}

// NewPlayer wraps a kkdai client using httpClient.
func NewPlayer(httpClient *http.Client, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.Default()
	}
	return &Player{
		source: &youtube.Client{HTTPClient: httpClient},
		logger: logger.With("component", "player"),
	}
}

// Info returns full player info.
//
// Deciphering costs a request per format, so only the rendition stream selection would pick
// is deciphered and reported: formats carrying video and audio first, then audio-only ones,
// highest bitrate first. A format that fails to decipher yields to the next. The pick is
// reported as combined when it carries both tracks, as adaptive otherwise; when nothing
// deciphers the streaming data is present but empty.
func (p *Player) Info(ctx context.Context, id string) (*VideoInfo, error) {
	video, err := p.source.GetVideoContext(ctx, id)
	if err != nil {
		return nil, err
	}

	basic := &BasicInfo{
		Title:    video.Title,
		Author:   video.Author,
		Duration: int(video.Duration.Seconds()),
	}
	for _, t := range video.Thumbnails {
		basic.Thumbnails = append(basic.Thumbnails, models.Thumbnail{URL: t.URL, Width: int(t.Width), Height: int(t.Height)})
	}

	if len(video.Formats) > 0 {
		sd := &StreamingData{}
		if sf, ok := p.first(ctx, video, playbackOrder(video.Formats)); ok {
			if sf.HasVideo && sf.HasAudio {
				sd.Formats = append(sd.Formats, sf)
			} else {
				sd.AdaptiveFormats = append(sd.AdaptiveFormats, sf)
			}
		}
		basic.StreamingData = sd
	}

	info := &VideoInfo{ID: video.ID, Basic: basic}
	for _, ct := range video.CaptionTracks {
		info.Captions = append(info.Captions, CaptionTrack{
			Name:           ct.Name.SimpleText,
			LanguageCode:   ct.LanguageCode,
			URL:            ct.BaseURL,
			IsTranslatable: ct.IsTranslatable,
		})
	}
	return info, nil
}

// StreamingData picks the single best rendition of the requested type.
func (p *Player) StreamingData(ctx context.Context, id string, opts StreamOptions) (*models.StreamFormat, error) {
	video, err := p.source.GetVideoContext(ctx, id)
	if err != nil {
		return nil, err
	}

	candidates := make([]*youtube.Format, 0, len(video.Formats))
	for i := range video.Formats {
		f := &video.Formats[i]
		hasVideo, hasAudio := formatTracks(f)
		switch opts.Type {
		case "audio":
			if !hasAudio || hasVideo {
				continue
			}
		case "video":
			if !hasVideo {
				continue
			}
		default:
			if !hasVideo || !hasAudio {
				continue
			}
		}
		candidates = append(candidates, f)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return formatBitrate(candidates[i]) > formatBitrate(candidates[j])
	})
	if opts.Quality == "worst" {
		for i, j := 0, len(candidates)-1; i < j; i, j = i+1, j-1 {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		}
	}

	if sf, ok := p.first(ctx, video, candidates); ok {
		return &sf, nil
	}
	return nil, NoPlayableStream("streaming_data", fmt.Sprintf("No %s stream available", streamType(opts)))
}

// Playlist lists a playlist through the kkdai client.
func (p *Player) Playlist(ctx context.Context, id string) (*Playlist, error) {
	pl, err := p.source.GetPlaylistContext(ctx, id)
	if err != nil {
		return nil, err
	}

	info := Result{
		"title":       pl.Title,
		"video_count": map[string]any{"text": strconv.Itoa(len(pl.Videos))},
	}
	if pl.Author != "" {
		info["author"] = map[string]any{"name": pl.Author}
	}

	videos := make([]Result, 0, len(pl.Videos))
	for _, e := range pl.Videos {
		if e == nil || e.ID == "" {
			continue
		}
		r := Result{"type": KindVideo, "id": e.ID, "title": e.Title}
		if e.Author != "" {
			r["author"] = map[string]any{"name": e.Author}
		}
		if len(e.Thumbnails) > 0 {
			thumbs := make([]any, 0, len(e.Thumbnails))
			for _, t := range e.Thumbnails {
				thumbs = append(thumbs, map[string]any{"url": t.URL, "width": int(t.Width), "height": int(t.Height)})
			}
			r["thumbnails"] = thumbs
			if _, ok := info["thumbnails"]; !ok {
				info["thumbnails"] = thumbs
			}
		}
		if secs := int(e.Duration.Seconds()); secs > 0 {
			r["duration"] = map[string]any{"text": clock(secs), "seconds": secs}
		}
		videos = append(videos, r)
	}

	return &Playlist{ID: pl.ID, Info: info, Videos: videos}, nil
}

// playbackOrder ranks the formats worth deciphering for playback: both tracks, then audio
// only, each by descending bitrate. Video-only formats are never played.
func playbackOrder(formats []youtube.Format) []*youtube.Format {
	var combined, audio []*youtube.Format
	for i := range formats {
		f := &formats[i]
		switch hasVideo, hasAudio := formatTracks(f); {
		case hasVideo && hasAudio:
			combined = append(combined, f)
		case hasAudio:
			audio = append(audio, f)
		}
	}
	byBitrate := func(fs []*youtube.Format) {
		sort.SliceStable(fs, func(i, j int) bool { return formatBitrate(fs[i]) > formatBitrate(fs[j]) })
	}
	byBitrate(combined)
	byBitrate(audio)
	return append(combined, audio...)
}

// first deciphers candidates in order and returns the first that resolves.
func (p *Player) first(ctx context.Context, video *youtube.Video, candidates []*youtube.Format) (models.StreamFormat, bool) {
	for _, f := range candidates {
		if sf, ok := p.resolve(ctx, video, f); ok {
			return sf, true
		}
	}
	return models.StreamFormat{}, false
}

func (p *Player) resolve(ctx context.Context, video *youtube.Video, f *youtube.Format) (models.StreamFormat, bool) {
	url, err := p.source.GetStreamURLContext(ctx, video, f)
	if err != nil || url == "" {
		p.logger.Debug("skipping undecipherable format", "video", video.ID, "itag", f.ItagNo, "error", err)
		return models.StreamFormat{}, false
	}

	hasVideo, hasAudio := formatTracks(f)
	quality := f.QualityLabel
	if quality == "" {
		quality = f.AudioQuality
	}
	return models.StreamFormat{
		URL:      url,
		Bitrate:  formatBitrate(f),
		HasVideo: hasVideo,
		HasAudio: hasAudio,
		MimeType: f.MimeType,
		Quality:  quality,
	}, true
}

func formatTracks(f *youtube.Format) (hasVideo, hasAudio bool) {
	hasVideo = strings.HasPrefix(f.MimeType, "video/") || f.Width > 0 || f.Height > 0
	hasAudio = strings.HasPrefix(f.MimeType, "audio/") || f.AudioChannels > 0 || f.AudioQuality != ""
	return hasVideo, hasAudio
}

func formatBitrate(f *youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	return f.AverageBitrate
}

func streamType(opts StreamOptions) string {
	if opts.Type == "" {
		return "video+audio"
	}
	return opts.Type
}

func clock(secs int) string {
	h, m, s := secs/3600, secs%3600/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
