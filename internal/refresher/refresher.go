// Package refresher re-resolves cached cluster endpoints on a cron
// schedule so that a migrated or recreated cluster does not serve stale
// connect addresses until process restart.
package refresher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Target is the slice of the endpoint resolver the refresher drives.
type Target interface {
	// Refresh re-resolves every cached endpoint and reports per-cluster
	// failures. Failed entries keep their previous value.
	Refresh(ctx context.Context) map[string]error
}

// Refresher runs Target.Refresh on a cron schedule. A TryLock guards the
// job so a slow refresh never overlaps the next tick.
type Refresher struct {
	target   Target
	schedule string
	logger   *slog.Logger

	mu     sync.Mutex
	lock   sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

// New creates a refresher for a 5-field cron schedule (e.g. "*/30 * * * *").
func New(target Target, schedule string, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		target:   target,
		schedule: schedule,
		logger:   logger.With("component", "refresher"),
	}
}

// Start validates the schedule and begins ticking. Returns an error for a
// malformed cron expression.
func (r *Refresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	r.cron = cron.New(cron.WithParser(parser))

	if _, err := r.cron.AddFunc(r.schedule, func() { r.tick(ctx) }); err != nil {
		cancel()
		return fmt.Errorf("refresher: invalid schedule %q: %w", r.schedule, err)
	}

	r.cron.Start()
	r.logger.Info("endpoint refresh scheduled", "schedule", r.schedule)
	return nil
}

// tick runs one refresh pass. Previous-tick overlap is skipped, not queued.
func (r *Refresher) tick(ctx context.Context) {
	if !r.lock.TryLock() {
		r.logger.Warn("refresh still running, skipping tick")
		return
	}
	defer r.lock.Unlock()

	failures := r.target.Refresh(ctx)
	for clusterID, err := range failures {
		r.logger.Warn("endpoint refresh failed, keeping cached value",
			"cluster_id", clusterID,
			"error", err,
		)
	}
	r.logger.Debug("endpoint refresh completed", "failures", len(failures))
}

// Stop shuts the scheduler down, waiting for an in-flight refresh.
func (r *Refresher) Stop(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}
	if r.cron != nil {
		<-r.cron.Stop().Done()
		r.logger.Info("endpoint refresh stopped")
	}
	return nil
}
