package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/soundscout/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheStats prints per-operation counts of the persisted response cache.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	deps, err := r.dependencies()
	if err != nil {
		return err
	}
	if deps.DB == nil {
		return fmt.Errorf("%w: database.path is empty, nothing is persisted", shared.ErrMissingConfig)
	}

	stats, err := deps.Responses.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}
	urls, err := deps.AudioURLs.Count()
	if err != nil {
		return fmt.Errorf("failed to count audio urls: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"operations": stats, "audioUrls": urls}, true)
	}

	r.writePlainHeader("Response cache")
	if len(stats) == 0 {
		r.writePlain("(empty)\n")
	}
	for _, s := range stats {
		r.writePlain("%-16s %6d entries  %6d expired  %10d bytes\n", s.Operation, s.Entries, s.Expired, s.Bytes)
	}
	r.writePlainln("Audio URLs: %d", urls)
	return nil
}

// CachePrune drops expired persisted entries.
func (r *Runner) CachePrune(ctx context.Context, cmd *cli.Command) error {
	deps, err := r.dependencies()
	if err != nil {
		return err
	}

	n, err := deps.PruneCaches()
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}
	r.logger.Info("cache pruned", "removed", n)
	r.writePlain("✓ Removed %d expired entries\n", n)
	return nil
}

// CacheClear empties every cache tier.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	deps, err := r.dependencies()
	if err != nil {
		return err
	}

	n, err := deps.ClearCaches()
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	r.logger.Info("cache cleared", "removed", n)
	r.writePlain("✓ Removed %d entries\n", n)
	return nil
}
