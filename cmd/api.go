package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/desertthunder/soundscout/internal/services"
	"github.com/desertthunder/soundscout/internal/shared"
	"github.com/urfave/cli/v3"
)

// parseQuery turns repeated key=value flags into url.Values.
func parseQuery(pairs []string) (url.Values, error) {
	query := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: query %q must be key=value", shared.ErrInvalidFlag, pair)
		}
		query.Add(key, value)
	}
	return query, nil
}

// APIGet makes a direct GET request to a running server
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	query, err := parseQuery(cmd.StringSlice("query"))
	if err != nil {
		return err
	}

	r.logger.Info("GET request", "path", path, "query", query.Encode())

	resp, err := r.api.Get(ctx, path, query)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, resp.ErrorMessage())
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, !cmd.Bool("json"))
	}

	r.output.Write(resp.Body)
	r.output.Write([]byte("\n"))
	return nil
}

// dumpEndpoints are the parameterless discovery routes captured by [Runner.APIDump].
var dumpEndpoints = []struct {
	label string
	path  string
}{
	{"🎵 Fetching recommendations...", "/api/recommendation"},
	{"🔥 Fetching popular songs...", "/api/popular"},
	{"⏳ Fetching long listens...", "/api/longlistens"},
}

// APIDump fetches health and every discovery endpoint of a running server.
func (r *Runner) APIDump(ctx context.Context, cmd *cli.Command) error {
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")

	r.logger.Info("dumping API state")
	r.writePlain("Fetching server state...\n\n")

	type DumpData struct {
		Health    *services.Health `json:"health,omitempty"`
		Endpoints map[string]any   `json:"endpoints"`
		Errors    []any            `json:"errors,omitempty"`
	}

	dump := DumpData{
		Endpoints: map[string]any{},
		Errors:    []any{},
	}

	r.writePlain("📊 Fetching health status...\n")
	var health services.Health
	if err := r.api.GetJSON(ctx, "/health", nil, &health); err == nil {
		dump.Health = &health
	} else {
		dump.Errors = append(dump.Errors, map[string]string{"endpoint": "/health", "error": err.Error()})
		r.logger.Warn("failed to fetch health", "error", err)
	}

	for _, e := range dumpEndpoints {
		r.writePlain("%s\n", e.label)
		resp, err := r.api.Get(ctx, e.path, nil)
		switch {
		case err != nil:
			dump.Errors = append(dump.Errors, map[string]string{"endpoint": e.path, "error": err.Error()})
			r.logger.Warn("dump request failed", "endpoint", e.path, "error", err)
		case !resp.OK():
			dump.Errors = append(dump.Errors, map[string]string{"endpoint": e.path, "error": resp.ErrorMessage()})
			r.logger.Warn("dump request failed", "endpoint", e.path, "status", resp.StatusCode)
		default:
			dump.Endpoints[e.path] = resp.JSONData
		}
	}

	r.writePlain("\n✓ Dump complete\n\n")

	if save {
		saveFile := "api_dump.json"
		data, err := shared.MarshalJSON(dump, true)
		if err != nil {
			return fmt.Errorf("failed to marshal dump: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save dump", "error", err)
		} else {
			r.logger.Info("dump saved", "file", saveFile)
			r.writePlain("✓ Dump saved to %s\n\n", saveFile)
		}
	}

	return r.writeJSON(dump, pretty)
}
