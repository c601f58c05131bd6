// Package services composes the catalog adapter, resolver, aggregator and stream resolvers into the
// [Service] consumed by the HTTP server, the CLI and the terminal browser.
//
// # Music Service
//
// [MusicService] is the only [Service] implementation. Each method delegates to one flow:
//   - Artist: resolver.Resolve, then catalog GetChannel, then aggregate DeepSearch on the channel title
//   - ChannelData, GenreSongs, MoodPlaylists, Search, Popular, Recommended, LongListens, ArtistSongs: aggregate
//   - Stream: stream.Resolver
//   - Audio: stream.AudioResolver, disabled unless ytdlp.enabled is set
//
// # Wiring
//
// [Build] reads a [shared.Config] and returns [Deps]: the sqlite handle (optional), the catalog
// adapter with its persistent response cache, the audio url repository and the music service.
//
// # API Client
//
// [APIService] is a GET-only client for a running server, used by the `api` CLI commands.
// Non-2xx replies surface as [shared.ErrAPIRequest] carrying the server's "error" message.
package services
