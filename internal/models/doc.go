// Package models defines the records soundscout emits at its API and CLI boundaries.
//
// Everything here is built fresh per request from raw catalog responses and is never mutated afterwards:
//   - [Track] : the normalized song/video record every flow produces
//   - [ResolvedIdentity] : the channel an artist name resolved to, with the strategy that matched
//   - [ResultSet] : an ordered, deduplicated page of tracks plus [Pagination]
//   - [ChannelMetadata], [PlaylistSummary], [ChannelContent] : channel pages and their categorized playlists
//   - [StreamFormat], [CaptionTrack], [StreamResult] : playback resolution for a single video
package models
