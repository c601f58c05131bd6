// Package catalog wraps the unofficial YouTube catalog behind a small fallible contract.
//
// The [Adapter] owns one lazily constructed, process-wide [Client] handle. Construction
// is raced against an init timeout and concurrent callers share a single in-flight
// attempt; a failed attempt is not cached. Every operation is raced against its own
// timeout and its responses pass through a TTL cache that callers cannot bypass.
//
// [YouTube] is the production [Client]: search, channel and playlist browsing go through
// the youtubei v1 endpoints via [Innertube], while playback metadata, formats and captions
// come from github.com/kkdai/youtube via [Player].
//
// Search, channel and playlist responses are returned as raw [Result] nodes: loosely
// shaped maps whose fields may be absent. Field extraction lives in package normalize.
package catalog
