package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundscout/internal/formatter"
	"github.com/desertthunder/soundscout/internal/services"
	"github.com/desertthunder/soundscout/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The catalog graph is built on first use so that setup commands never open the database.
type Runner struct {
	config     *shared.Config
	configPath string
	deps       *services.Deps
	service    services.Service
	api        *services.APIService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	build      func(*shared.Config, *log.Logger) (*services.Deps, error)
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Deps and Service are optional; when Service is nil the first music command builds Deps from Config.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Deps       *services.Deps
	Service    services.Service
	API        *services.APIService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.API == nil {
		opts.API = services.NewAPIService("http://"+opts.Config.Server.Addr(), opts.HTTPClient)
	}
	if opts.Service == nil && opts.Deps != nil {
		opts.Service = opts.Deps.Music
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		deps:       opts.Deps,
		service:    opts.Service,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		build: func(cfg *shared.Config, logger *log.Logger) (*services.Deps, error) {
			return services.Build(cfg, nil, logger)
		},
	}
}

// SetLogger swaps the logger used by subsequent commands.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, artistCommand, channelCommand, searchCommand, genreCommand, moodCommand,
		popularCommand, recommendCommand, listensCommand, songsCommand, streamCommand, audioCommand,
		browseCommand, setupCommand, cacheCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before reloads configuration from --config and applies --log-level ahead of every command.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if path := cmd.String("config"); path != "" && path != r.configPath {
		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return ctx, err
			}
			r.config = config
			r.api = services.NewAPIService("http://"+config.Server.Addr(), r.httpClient)
		} else {
			r.logger.Debug("config file not found, using defaults", "path", path)
		}
		r.configPath = path
	}

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(level))
	return ctx, nil
}

// music returns the configured service, building the dependency graph on first use.
func (r *Runner) music() (services.Service, error) {
	if r.service != nil {
		return r.service, nil
	}
	deps, err := r.dependencies()
	if err != nil {
		return nil, err
	}
	r.service = deps.Music
	return r.service, nil
}

func (r *Runner) dependencies() (*services.Deps, error) {
	if r.deps != nil {
		return r.deps, nil
	}
	deps, err := r.build(r.config, r.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	r.deps = deps
	return deps, nil
}

// Close releases whatever the runner built.
func (r *Runner) Close() error {
	return r.deps.Close()
}

// emit renders l according to the --format, --json, --pretty, --output and --export flags.
func (r *Runner) emit(cmd *cli.Command, l formatter.Listing) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		format = formatter.FormatJSON
	}
	pretty := cmd.Bool("pretty")

	if dir := cmd.String("export"); dir != "" {
		result, err := formatter.WriteMarkdownExport(r.httpClient, l, dir)
		if err != nil {
			return err
		}
		r.logger.Info("markdown export written", "dir", result.Directory, "files", len(result.Files))
		for _, f := range result.Files {
			r.writePlain("✓ %s\n", f)
		}
		return nil
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteFile(path, l, format, pretty); err != nil {
			return err
		}
		r.logger.Info("output saved", "file", path, "format", format)
		return nil
	}

	return formatter.Write(r.output, l, format, pretty)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
