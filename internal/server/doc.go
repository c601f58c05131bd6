// Package server provides HTTP routing, middleware and the JSON handlers of the music API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering, so route
// patterns may use {name} wildcards read back with [http.Request.PathValue].
//
// # Middleware
//
//   - [WithRequestID]: reuses or assigns an X-Request-Id (uuid)
//   - [Recover]: converts panics into a JSON 500
//   - [AccessLog]: one structured log line per request
//   - [CORS]: applied only to /api/video-stream and /api/audio
//
// # Routes
//
// All routes are GET and delegate to a [services.Service]:
//
//	/health                   service status
//	/api/artist               ?name= or ?artist=, ?page=
//	/api/channel-data         ?channelId=
//	/api/genre/{genre}        genre songs
//	/api/genre-songs          ?genre=
//	/api/mood-playlists       ?mood=
//	/api/search               ?q=
//	/api/popular              ?country= (default US)
//	/api/recommendation       fixed genre list
//	/api/longlistens          long-form listening content
//	/api/artist-songs         ?artist=
//	/api/video-stream         ?id= best playable rendition
//	/api/audio                ?id= 302 to an audio-only url
//
// # Errors
//
// Every failure is written as {"error": msg}. [StatusFor] picks the status from the error's kind:
// invalid input and ids are 400, not found and no playable stream are 404, everything else is 500.
// The underlying error is added as "details" only when server.environment is "development".
package server
