package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adhocore/gronx"

	"imageboard/pkg/config"
	"imageboard/pkg/logger"
)

// StartSweeper schedules periodic cleanup of stale .part files left behind
// by aborted uploads. Returns a cancel func; when sweeping is disabled the
// cancel is a no-op.
func (p *Pipeline) StartSweeper(ctx context.Context, cfg config.SweepConfig) (context.CancelFunc, error) {
	if !cfg.Enabled {
		logger.Info("media_sweep_disabled")
		return func() {}, nil
	}
	cronExpr := cfg.Cron
	if cronExpr == "" {
		cronExpr = "*/30 * * * *"
	}
	if !gronx.IsValid(cronExpr) {
		return nil, fmt.Errorf("invalid sweep cron expression: %s", cfg.Cron)
	}
	minAge := time.Hour
	if cfg.MinAge != "" {
		d, err := time.ParseDuration(cfg.MinAge)
		if err != nil {
			return nil, fmt.Errorf("invalid sweep min_age: %w", err)
		}
		minAge = d
	}

	logger.Info("media_sweep_enabled", "cron", cronExpr, "min_age", minAge.String())
	ctx2, cancel := context.WithCancel(ctx)
	go p.runSweeper(ctx2, cronExpr, minAge)
	return cancel, nil
}

// runSweeper sleeps until each cron tick and sweeps once per tick.
func (p *Pipeline) runSweeper(ctx context.Context, cronExpr string, minAge time.Duration) {
	for {
		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("media_sweep_next_tick_failed", "error", err)
			return
		}
		select {
		case <-ctx.Done():
			logger.Info("media_sweep_stopping")
			return
		case <-time.After(next.Sub(now)):
		}
		removed, err := p.SweepOnce(minAge)
		if err != nil {
			logger.Error("media_sweep_failed", "error", err)
			continue
		}
		if removed > 0 {
			logger.Info("media_sweep_done", "removed", removed)
		}
	}
}

// SweepOnce removes .part files older than minAge from the media
// directories and reports how many were deleted.
func (p *Pipeline) SweepOnce(minAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-minAge)
	removed := 0
	for _, dir := range []string{p.ImageDir, p.VideoDir, p.ThumbDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, err
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), partSuffix) {
				continue
			}
			fi, err := e.Info()
			if err != nil {
				continue
			}
			if fi.ModTime().After(cutoff) {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if err := os.Remove(path); err != nil {
				logger.Warn("media_sweep_remove_failed", "file", path, "error", err)
				continue
			}
			sweepRemoved.Inc()
			removed++
		}
	}
	return removed, nil
}
