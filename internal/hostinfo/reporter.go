package hostinfo

import (
	"context"
	"log/slog"
	"time"
)

// Reporter periodically takes a Snapshot and logs it until its context is
// cancelled.
type Reporter struct {
	interval time.Duration
	logger   *slog.Logger
}

// NewReporter builds a Reporter. interval must be positive.
func NewReporter(interval time.Duration, logger *slog.Logger) *Reporter {
	return &Reporter{interval: interval, logger: logger}
}

// Run blocks, logging one snapshot per tick, until ctx is done.
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, err := Take()
			if err != nil {
				r.logger.Warn("hostinfo: snapshot failed", "error", err)
				continue
			}
			r.logger.Info("hostinfo: snapshot", snap.LogAttrs()...)
		}
	}
}
