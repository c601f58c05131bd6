package normalize

import (
	"github.com/desertthunder/soundscout/internal/catalog"
	"github.com/desertthunder/soundscout/internal/models"
)

// ChannelMetadata reads a channel page header.
func ChannelMetadata(ch *catalog.Channel) models.ChannelMetadata {
	if ch == nil {
		return models.ChannelMetadata{Thumbnails: []models.Thumbnail{}, Banners: []models.Thumbnail{}}
	}

	m := ch.Metadata
	thumbs := thumbnailsOf(lookup(m, "avatar", "thumbnails"))
	if len(thumbs) == 0 {
		thumbs = thumbnailsOf(lookup(m, "avatar"))
	}
	banners := thumbnailsOf(lookup(m, "banners"))

	verified, _ := lookup(m, "is_verified").(bool)
	return models.ChannelMetadata{
		ID:          ch.ID,
		Name:        Text(lookup(m, "title")),
		Description: Text(lookup(m, "description")),
		Subscribers: Text(lookup(m, "subscriber_count")),
		Thumbnails:  nonNil(thumbs),
		Banners:     nonNil(banners),
		IsVerified:  verified,
		ViewCount:   Text(lookup(m, "view_count")),
	}
}

// AvatarURL returns the first avatar url of a channel page, or "".
func AvatarURL(ch *catalog.Channel) string {
	if ch == nil {
		return ""
	}
	if url := str(lookup(ch.Metadata, "avatar", "url")); url != "" {
		return url
	}
	if thumbs := thumbnailsOf(lookup(ch.Metadata, "avatar", "thumbnails")); len(thumbs) > 0 {
		return thumbs[0].URL
	}
	return ""
}

// PlaylistSummary reads a raw playlist node.
func PlaylistSummary(r catalog.Result) models.PlaylistSummary {
	thumbs := Thumbnails(r)
	return models.PlaylistSummary{
		ID:         ID(r),
		Title:      orDefault(RawTitle(r), models.UnknownPlaylist),
		Thumbnail:  FirstThumbnail(r, ""),
		Thumbnails: thumbs,
		VideoCount: Text(lookup(r, "video_count")),
		Year:       str(lookup(r, "year")),
	}
}

// PlaylistInfo reads the header of a fetched playlist.
func PlaylistInfo(pl *catalog.Playlist) models.PlaylistSummary {
	if pl == nil {
		return models.PlaylistSummary{Title: models.UnknownPlaylist}
	}
	s := PlaylistSummary(pl.Info)
	s.ID = pl.ID
	return s
}

func nonNil(thumbs []models.Thumbnail) []models.Thumbnail {
	if thumbs == nil {
		return []models.Thumbnail{}
	}
	return thumbs
}
