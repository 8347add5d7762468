// Package scheduler runs the periodic expiry sweep of the appointment store.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/robfig/cron/v3"
)

// Sweeper removes expired appointments and reports how many were removed.
type Sweeper interface {
	Sweep(ctx context.Context) int
}

// SweepJob triggers Sweeper.Sweep on a cron schedule. Runs never overlap.
type SweepJob struct {
	cron    *cron.Cron
	sweeper Sweeper
	spec    string
	logger  *slog.Logger
}

// NewSweepJob validates spec and prepares a job. Specs use the standard five
// field cron syntax or descriptors such as "@every 1m".
func NewSweepJob(spec string, sweeper Sweeper, logger *slog.Logger) (*SweepJob, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, errors.New("sweep schedule is empty")
	}
	if sweeper == nil {
		return nil, errors.New("sweeper is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SweepJob{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sweeper: sweeper,
		spec:    spec,
		logger:  logger.With("component", "sweep_job", "schedule", spec),
	}, nil
}

// Start registers the job and starts the cron runner. Runs use ctx, so
// cancelling it ends in-flight sweeps as well.
func (j *SweepJob) Start(ctx context.Context) error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", j.spec, err)
	}
	j.cron.Start()
	j.logger.InfoContext(ctx, "sweep job started")
	return nil
}

// Stop stops scheduling new runs. The returned context is done once the
// running sweep, if any, has finished.
func (j *SweepJob) Stop() context.Context {
	return j.cron.Stop()
}

// RunOnce performs a single sweep and returns the number of removed appointments.
func (j *SweepJob) RunOnce(ctx context.Context) int {
	removed := j.sweeper.Sweep(ctx)
	if removed > 0 {
		j.logger.InfoContext(ctx, "expired appointments swept", "removed", removed)
	} else {
		j.logger.DebugContext(ctx, "sweep found nothing to remove")
	}
	return removed
}
