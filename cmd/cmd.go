// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// outputFlags are shared by every command that prints a listing.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (text, markdown, csv, json)",
			Value:   "text",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON (same as --format json)",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print JSON output",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to a file instead of stdout",
		},
		&cli.StringFlag{
			Name:  "export",
			Usage: "Write a Markdown export (README.md and cover.jpg) into this directory",
		},
	}
}

func withOutputFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags, outputFlags()...)
}

// serveCommand starts the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to bind (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides server.port)",
			},
			&cli.StringFlag{
				Name:  "environment",
				Usage: "Server environment; development exposes error details",
			},
		},
		Action: r.Serve,
	}
}

func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "artist",
		Usage:     "Resolve an artist and list one page of their videos",
		ArgsUsage: "<name>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "name"},
		},
		Flags: withOutputFlags(
			&cli.IntFlag{
				Name:  "page",
				Usage: "Page number (1-based)",
				Value: 1,
			},
		),
		Action: r.Artist,
	}
}

func channelCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "channel",
		Usage:     "Show a channel's metadata and categorized playlists",
		ArgsUsage: "<channel-id>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags:  outputFlags(),
		Action: r.Channel,
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search for songs",
		ArgsUsage: "<query>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags:  outputFlags(),
		Action: r.Search,
	}
}

func genreCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "genre",
		Usage:     "List songs for a genre",
		ArgsUsage: "<genre>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "genre"},
		},
		Flags:  outputFlags(),
		Action: r.Genre,
	}
}

func moodCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "mood",
		Usage:     "List playlists for a mood",
		ArgsUsage: "<mood>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "mood"},
		},
		Flags:  outputFlags(),
		Action: r.Mood,
	}
}

func popularCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "popular",
		Usage: "List popular songs across genres",
		Flags: withOutputFlags(
			&cli.StringFlag{
				Name:  "country",
				Usage: "Country code used to pick the search language",
			},
		),
		Action: r.Popular,
	}
}

func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recommend",
		Aliases: []string{"recommended"},
		Usage:   "List a mixed set of recommended songs",
		Flags:   outputFlags(),
		Action:  r.Recommend,
	}
}

func listensCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "listens",
		Aliases: []string{"longlistens"},
		Usage:   "List long-form listening content (mixes, compilations)",
		Flags:   outputFlags(),
		Action:  r.LongListens,
	}
}

func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "songs",
		Usage:     "List an artist's songs",
		ArgsUsage: "<artist>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "artist"},
		},
		Flags:  outputFlags(),
		Action: r.ArtistSongs,
	}
}

func streamCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "stream",
		Usage:     "Resolve a video id to a playable stream",
		ArgsUsage: "<video-id>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Stream,
	}
}

func audioCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "audio",
		Usage:     "Resolve a video id to a direct audio URL (requires yt-dlp)",
		ArgsUsage: "<video-id>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Action: r.Audio,
	}
}

// browseCommand launches the interactive artist browser.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Aliases:   []string{"tui", "ui"},
		Usage:     "Browse an artist interactively",
		ArgsUsage: "<name>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "name"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "File receiving logs while the browser owns the terminal",
				Value: "./tmp/soundscout-tui.log",
			},
		},
		Action: r.Browse,
	}
}

// setupCommand handles configuration and database setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "migrations",
				Usage: "Show applied and pending migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MigrationStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.Rollback,
			},
		},
	}
}

// cacheCommand manages the in-memory and persisted response caches.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage the response cache",
		Commands: []*cli.Command{
			{
				Name:  "stats",
				Usage: "Show cached entries per catalog operation",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheStats,
			},
			{
				Name:   "prune",
				Usage:  "Remove expired entries",
				Action: r.CachePrune,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached entry",
				Action: r.CacheClear,
			},
		},
	}
}

// apiCommand calls a running soundscout server.
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to a running soundscout server",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "GET a server path, prints the response body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Query parameter as key=value (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "dump",
				Usage: "Fetch health and the discovery endpoints in one document",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save dump to api_dump.json",
						Value: false,
					},
				},
				Action: r.APIDump,
			},
		},
	}
}
