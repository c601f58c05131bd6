package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/soundscout/internal/models"
)

// dig walks nested maps (string keys) and slices (int keys), returning nil on any miss.
func dig(v any, keys ...any) any {
	cur := v
	for _, k := range keys {
		switch key := k.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur = m[key]
		case int:
			a, ok := cur.([]any)
			if !ok || key < 0 || key >= len(a) {
				return nil
			}
			cur = a[key]
		}
	}
	return cur
}

func cleanText(v any) string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "<nil>" {
		return ""
	}
	return s
}

// flatText reads a text node in any of its shapes: plain string, {simpleText}, {content} or {runs: [{text}]}.
func flatText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case map[string]any:
		if s := cleanText(t["simpleText"]); s != "" {
			return s
		}
		if s := cleanText(t["content"]); s != "" {
			return s
		}
		runs, _ := t["runs"].([]any)
		var b strings.Builder
		for _, r := range runs {
			b.WriteString(cleanText(dig(r, "text")))
		}
		return strings.TrimSpace(b.String())
	}
	return ""
}

func firstText(node any, paths ...[]any) string {
	for _, p := range paths {
		if s := flatText(dig(node, p...)); s != "" {
			return s
		}
	}
	return ""
}

func firstString(node any, paths ...[]any) string {
	for _, p := range paths {
		if s := cleanText(dig(node, p...)); s != "" {
			return s
		}
	}
	return ""
}

func intOf(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(n))
		return i
	case fmt.Stringer:
		i, _ := strconv.Atoi(n.String())
		return i
	}
	return 0
}

// thumbnailList copies a raw thumbnail array, fixing protocol-relative urls and dropping entries without one.
func thumbnailList(v any) []any {
	raw, _ := v.([]any)
	out := make([]any, 0, len(raw))
	for _, t := range raw {
		m, _ := t.(map[string]any)
		url := cleanText(m["url"])
		if url == "" {
			continue
		}
		if strings.HasPrefix(url, "//") {
			url = "https:" + url
		}
		thumb := map[string]any{"url": url}
		if w := intOf(m["width"]); w > 0 {
			thumb["width"] = w
		}
		if h := intOf(m["height"]); h > 0 {
			thumb["height"] = h
		}
		out = append(out, thumb)
	}
	return out
}

// parseClock turns "1:02:03" or "4:05" into seconds.
func parseClock(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	total := 0
	for _, part := range strings.Split(s, ":") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// collectRenderers gathers every node stored under one of keys, in document order.
// Matched nodes are not searched further.
func collectRenderers(node any, keys map[string]bool, out *[]renderer) {
	switch typed := node.(type) {
	case map[string]any:
		names := make([]string, 0, len(typed))
		for k := range typed {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			if keys[k] {
				if m, ok := typed[k].(map[string]any); ok {
					*out = append(*out, renderer{kind: k, node: m})
					continue
				}
			}
			collectRenderers(typed[k], keys, out)
		}
	case []any:
		for _, v := range typed {
			collectRenderers(v, keys, out)
		}
	}
}

type renderer struct {
	kind string
	node map[string]any
}

var searchRenderers = map[string]bool{
	"videoRenderer":    true,
	"channelRenderer":  true,
	"playlistRenderer": true,
	"lockupViewModel":  true,
}

var videoRenderers = map[string]bool{
	"videoRenderer":         true,
	"gridVideoRenderer":     true,
	"compactVideoRenderer":  true,
	"playlistVideoRenderer": true,
	"lockupViewModel":       true,
}

var playlistRenderers = map[string]bool{
	"playlistRenderer":     true,
	"gridPlaylistRenderer": true,
	"lockupViewModel":      true,
}

// lift converts one renderer into a raw Result, or nil when it carries no id.
func lift(r renderer) Result {
	switch r.kind {
	case "channelRenderer":
		return liftChannel(r.node)
	case "playlistRenderer", "gridPlaylistRenderer":
		return liftPlaylist(r.node)
	case "lockupViewModel":
		return liftLockup(r.node)
	default:
		return liftVideo(r.node)
	}
}

func liftAll(rs []renderer, kind string) []Result {
	seen := make(map[string]bool)
	out := make([]Result, 0, len(rs))
	for _, r := range rs {
		res := lift(r)
		if res == nil || (kind != "" && res.Kind() != kind) || seen[res.ID()] {
			continue
		}
		seen[res.ID()] = true
		out = append(out, res)
	}
	return out
}

func liftVideo(m map[string]any) Result {
	id := cleanText(m["videoId"])
	if id == "" {
		return nil
	}

	r := Result{"type": KindVideo, "id": id}
	if title, ok := m["title"]; ok {
		r["title"] = title
	} else if headline, ok := m["headline"]; ok {
		r["title"] = headline
	}

	if author := liftAuthor(m); author != nil {
		r["author"] = author
	}

	if thumbs := thumbnailList(dig(m, "thumbnail", "thumbnails")); len(thumbs) > 0 {
		r["thumbnails"] = thumbs
	}

	text := firstText(m, []any{"lengthText"}, []any{"thumbnailOverlays", 0, "thumbnailOverlayTimeStatusRenderer", "text"})
	seconds := intOf(m["lengthSeconds"])
	if seconds == 0 {
		seconds = parseClock(text)
	}
	if text != "" || seconds > 0 {
		r["duration"] = map[string]any{"text": text, "seconds": seconds}
	}

	if views := firstText(m, []any{"viewCountText"}, []any{"shortViewCountText"}); views != "" {
		r["view_count"] = map[string]any{"text": views}
	}
	if short := flatText(m["shortViewCountText"]); short != "" {
		r["short_view_count"] = map[string]any{"text": short}
	}
	if published := flatText(m["publishedTimeText"]); published != "" {
		r["published"] = map[string]any{"text": published}
	}
	return r
}

func liftAuthor(m map[string]any) map[string]any {
	bylines := [][]any{
		{"ownerText", "runs", 0},
		{"longBylineText", "runs", 0},
		{"shortBylineText", "runs", 0},
	}

	var name, id string
	for _, p := range bylines {
		run := dig(m, p...)
		if name == "" {
			name = cleanText(dig(run, "text"))
		}
		if id == "" {
			id = cleanText(dig(run, "navigationEndpoint", "browseEndpoint", "browseId"))
		}
	}
	if name == "" && id == "" {
		return nil
	}

	author := map[string]any{"id": id, "name": name}
	thumbs := thumbnailList(dig(m, "channelThumbnailSupportedRenderers", "channelThumbnailWithLinkRenderer", "thumbnail", "thumbnails"))
	if len(thumbs) > 0 {
		author["thumbnails"] = thumbs
	}
	return author
}

func liftChannel(m map[string]any) Result {
	id := cleanText(m["channelId"])
	if id == "" {
		return nil
	}

	r := Result{"type": KindChannel, "id": id, "name": flatText(m["title"])}
	if thumbs := thumbnailList(dig(m, "thumbnail", "thumbnails")); len(thumbs) > 0 {
		r["thumbnails"] = thumbs
	}

	// Newer layouts put the handle in subscriberCountText and the count in videoCountText.
	subs := flatText(m["subscriberCountText"])
	if strings.HasPrefix(subs, "@") {
		r["handle"] = subs
		subs = flatText(m["videoCountText"])
	}
	if subs != "" {
		r["subscribers"] = map[string]any{"text": subs}
	}
	if desc := flatText(m["descriptionSnippet"]); desc != "" {
		r["description"] = desc
	}
	return r
}

func liftPlaylist(m map[string]any) Result {
	id := cleanText(m["playlistId"])
	if id == "" {
		return nil
	}

	r := Result{"type": KindPlaylist, "id": id}
	if title, ok := m["title"]; ok {
		r["title"] = title
	}

	thumbs := thumbnailList(dig(m, "thumbnails", 0, "thumbnails"))
	if len(thumbs) == 0 {
		thumbs = thumbnailList(dig(m, "thumbnail", "thumbnails"))
	}
	if len(thumbs) > 0 {
		r["thumbnails"] = thumbs
	}

	count := cleanText(m["videoCount"])
	if count == "" {
		count = firstText(m, []any{"videoCountText"}, []any{"videoCountShortText"})
	}
	if count != "" {
		r["video_count"] = map[string]any{"text": count}
	}

	if author := liftAuthor(m); author != nil {
		r["author"] = author
	}
	return r
}

func liftLockup(m map[string]any) Result {
	id := cleanText(m["contentId"])
	if id == "" {
		return nil
	}

	title := cleanText(dig(m, "metadata", "lockupMetadataViewModel", "title", "content"))
	byline := cleanText(dig(m, "metadata", "lockupMetadataViewModel", "metadata", "contentMetadataViewModel",
		"metadataRows", 0, "metadataParts", 0, "text", "content"))

	switch cleanText(m["contentType"]) {
	case "LOCKUP_CONTENT_TYPE_PLAYLIST", "LOCKUP_CONTENT_TYPE_ALBUM", "LOCKUP_CONTENT_TYPE_PODCAST":
		r := Result{"type": KindPlaylist, "id": id, "title": title}
		primary := dig(m, "contentImage", "collectionThumbnailViewModel", "primaryThumbnail", "thumbnailViewModel")
		if thumbs := thumbnailList(dig(primary, "image", "sources")); len(thumbs) > 0 {
			r["thumbnails"] = thumbs
		}
		badge := firstString(primary,
			[]any{"overlays", 0, "thumbnailOverlayBadgeViewModel", "thumbnailBadges", 0, "thumbnailBadgeViewModel", "text"},
			[]any{"overlays", 0, "thumbnailBottomOverlayViewModel", "badges", 0, "thumbnailBadgeViewModel", "text"})
		if badge != "" {
			r["video_count"] = map[string]any{"text": badge}
		}
		if byline != "" {
			r["author"] = map[string]any{"name": byline}
		}
		return r
	case "LOCKUP_CONTENT_TYPE_VIDEO":
		r := Result{"type": KindVideo, "id": id, "title": title}
		image := dig(m, "contentImage", "thumbnailViewModel")
		if thumbs := thumbnailList(dig(image, "image", "sources")); len(thumbs) > 0 {
			r["thumbnails"] = thumbs
		}
		length := firstString(image,
			[]any{"overlays", 0, "thumbnailOverlayBadgeViewModel", "thumbnailBadges", 0, "thumbnailBadgeViewModel", "text"},
			[]any{"overlays", 0, "thumbnailBottomOverlayViewModel", "badges", 0, "thumbnailBadgeViewModel", "text"})
		if secs := parseClock(length); secs > 0 {
			r["duration"] = map[string]any{"text": length, "seconds": secs}
		}
		if byline != "" {
			r["author"] = map[string]any{"name": byline}
		}
		return r
	}
	return nil
}

// parseSearch lifts every video, channel and playlist node of a search response.
func parseSearch(decoded map[string]any) []Result {
	var rs []renderer
	collectRenderers(dig(decoded, "contents"), searchRenderers, &rs)
	return liftAll(rs, "")
}

func parseChannel(id string, home, playlists map[string]any) *Channel {
	header := dig(home, "header")
	c4 := dig(header, "c4TabbedHeaderRenderer")
	page := dig(header, "pageHeaderRenderer", "content", "pageHeaderViewModel")
	meta := dig(home, "metadata", "channelMetadataRenderer")

	m := Result{
		"title": firstString(meta, []any{"title"}),
	}
	if m["title"] == "" {
		m["title"] = firstText(header, []any{"c4TabbedHeaderRenderer", "title"}, []any{"pageHeaderRenderer", "pageTitle"})
	}
	if desc := cleanText(dig(meta, "description")); desc != "" {
		m["description"] = desc
	}

	avatar := thumbnailList(dig(meta, "avatar", "thumbnails"))
	if len(avatar) == 0 {
		avatar = thumbnailList(dig(c4, "avatar", "thumbnails"))
	}
	if len(avatar) == 0 {
		avatar = thumbnailList(dig(page, "image", "decoratedAvatarViewModel", "avatar", "avatarViewModel", "image", "sources"))
	}
	if len(avatar) > 0 {
		m["avatar"] = map[string]any{"thumbnails": avatar, "url": dig(avatar, 0, "url")}
	}

	subs := flatText(dig(c4, "subscriberCountText"))
	if subs == "" {
		rows, _ := dig(page, "metadata", "contentMetadataViewModel", "metadataRows").([]any)
		for _, row := range rows {
			parts, _ := dig(row, "metadataParts").([]any)
			for _, part := range parts {
				if text := cleanText(dig(part, "text", "content")); strings.Contains(strings.ToLower(text), "subscriber") {
					subs = text
				}
			}
		}
	}
	if subs != "" {
		m["subscriber_count"] = subs
	}

	banners := thumbnailList(dig(c4, "banner", "thumbnails"))
	if len(banners) == 0 {
		banners = thumbnailList(dig(page, "banner", "imageBannerViewModel", "image", "sources"))
	}
	if len(banners) > 0 {
		m["banners"] = banners
	}

	m["is_verified"] = isVerified(c4, page)
	if views := flatText(dig(c4, "viewCountText")); views != "" {
		m["view_count"] = views
	}

	var videos []renderer
	collectRenderers(dig(home, "contents"), videoRenderers, &videos)

	var lists []renderer
	collectRenderers(dig(home, "contents"), playlistRenderers, &lists)
	if playlists != nil {
		collectRenderers(dig(playlists, "contents"), playlistRenderers, &lists)
	}

	return &Channel{
		ID:        id,
		Metadata:  m,
		Videos:    liftAll(videos, KindVideo),
		Playlists: liftAll(lists, KindPlaylist),
	}
}

func isVerified(c4, page any) bool {
	badges, _ := dig(c4, "badges").([]any)
	for _, b := range badges {
		if strings.Contains(cleanText(dig(b, "metadataBadgeRenderer", "style")), "VERIFIED") {
			return true
		}
	}
	runs, _ := dig(page, "title", "dynamicTextViewModel", "text", "attachmentRuns").([]any)
	return len(runs) > 0
}

func parsePlaylist(id string, decoded map[string]any) *Playlist {
	header := dig(decoded, "header")
	ph := dig(header, "playlistHeaderRenderer")

	info := Result{}
	title := firstString(decoded, []any{"metadata", "playlistMetadataRenderer", "title"})
	if title == "" {
		title = firstText(header, []any{"playlistHeaderRenderer", "title"}, []any{"pageHeaderRenderer", "pageTitle"})
	}
	if title != "" {
		info["title"] = title
	}

	if count := firstText(ph, []any{"numVideosText"}, []any{"stats", 0}); count != "" {
		info["video_count"] = map[string]any{"text": count}
	}
	if owner := flatText(dig(ph, "ownerText")); owner != "" {
		info["author"] = map[string]any{"name": owner}
	}
	thumbs := thumbnailList(dig(decoded, "microformat", "microformatDataRenderer", "thumbnail", "thumbnails"))
	if len(thumbs) > 0 {
		info["thumbnails"] = thumbs
	}
	if year := yearFrom(flatText(dig(ph, "byline", 0, "playlistBylineRenderer", "text"))); year != "" {
		info["year"] = year
	}

	var rs []renderer
	collectRenderers(dig(decoded, "contents"), videoRenderers, &rs)
	return &Playlist{ID: id, Info: info, Videos: liftAll(rs, KindVideo)}
}

func yearFrom(s string) string {
	for _, f := range strings.Fields(s) {
		if len(f) == 4 {
			if n, err := strconv.Atoi(f); err == nil && n > 1900 && n < 2100 {
				return f
			}
		}
	}
	return ""
}

// parsePlayer reads a youtubei player response.
func parsePlayer(id string, decoded map[string]any) *VideoInfo {
	info := &VideoInfo{ID: id, Captions: parseCaptions(decoded)}

	details, _ := decoded["videoDetails"].(map[string]any)
	if details == nil {
		return info
	}

	basic := &BasicInfo{
		Title:    cleanText(details["title"]),
		Author:   cleanText(details["author"]),
		Duration: intOf(details["lengthSeconds"]),
	}
	for _, t := range thumbnailList(dig(details, "thumbnail", "thumbnails")) {
		basic.Thumbnails = append(basic.Thumbnails, thumbnailOf(t))
	}

	if sd, ok := decoded["streamingData"].(map[string]any); ok {
		basic.StreamingData = &StreamingData{
			Formats:         parseFormats(sd["formats"]),
			AdaptiveFormats: parseFormats(sd["adaptiveFormats"]),
		}
	}
	info.Basic = basic
	return info
}

func parseCaptions(decoded map[string]any) []CaptionTrack {
	raw, _ := dig(decoded, "captions", "playerCaptionsTracklistRenderer", "captionTracks").([]any)
	tracks := make([]CaptionTrack, 0, len(raw))
	for _, t := range raw {
		url := cleanText(dig(t, "baseUrl"))
		if url == "" {
			continue
		}
		translatable, _ := dig(t, "isTranslatable").(bool)
		tracks = append(tracks, CaptionTrack{
			Name:           flatText(dig(t, "name")),
			LanguageCode:   cleanText(dig(t, "languageCode")),
			URL:            url,
			IsTranslatable: translatable,
		})
	}
	return tracks
}

func thumbnailOf(v any) models.Thumbnail {
	return models.Thumbnail{
		URL:    cleanText(dig(v, "url")),
		Width:  intOf(dig(v, "width")),
		Height: intOf(dig(v, "height")),
	}
}

// parseFormats reads a raw format list. Ciphered entries without a direct url are skipped.
func parseFormats(v any) []models.StreamFormat {
	raw, _ := v.([]any)
	out := make([]models.StreamFormat, 0, len(raw))
	for _, f := range raw {
		url := cleanText(dig(f, "url"))
		if url == "" {
			continue
		}
		mime := cleanText(dig(f, "mimeType"))
		out = append(out, models.StreamFormat{
			URL:      url,
			Bitrate:  intOf(dig(f, "bitrate")),
			HasVideo: strings.HasPrefix(mime, "video/"),
			HasAudio: strings.HasPrefix(mime, "audio/") || cleanText(dig(f, "audioQuality")) != "" || intOf(dig(f, "audioChannels")) > 0,
			MimeType: mime,
			Quality:  firstString(f, []any{"qualityLabel"}, []any{"audioQuality"}, []any{"quality"}),
		})
	}
	return out
}
