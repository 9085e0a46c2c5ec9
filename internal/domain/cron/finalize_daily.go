package cron

import (
	"context"
	"time"

	"github.com/questx-lab/focus/internal/domain"
	"github.com/questx-lab/focus/internal/model"
	"github.com/questx-lab/focus/pkg/dateutil"
	"github.com/questx-lab/focus/pkg/xcontext"
)

// FinalizeDailyCronJob closes the previous day of every user shortly after
// midnight in the ledger time zone.
type FinalizeDailyCronJob struct {
	finalizerDomain domain.FinalizerDomain
	location        *time.Location
	runAt           time.Duration
	now             func() time.Time
}

func NewFinalizeDailyCronJob(ctx context.Context, finalizerDomain domain.FinalizerDomain) *FinalizeDailyCronJob {
	cfg := xcontext.Configs(ctx)
	return &FinalizeDailyCronJob{
		finalizerDomain: finalizerDomain,
		location:        cfg.Ledger.Location(),
		runAt:           cfg.Finalizer.RunAt,
		now:             time.Now,
	}
}

func (job *FinalizeDailyCronJob) Do(ctx context.Context) {
	resp, err := job.finalizerDomain.FinalizeDay(ctx, &model.FinalizeDayRequest{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot finalize the previous day: %v", err)
		return
	}

	if resp.Skipped {
		xcontext.Logger(ctx).Infof("Day %s was finalized by another instance", resp.DateKey)
	}
}

// RunNow is true because a run finalizing an already finalized day changes
// nothing, and a missed run is caught up at startup.
func (job *FinalizeDailyCronJob) RunNow() bool {
	return true
}

func (job *FinalizeDailyCronJob) Next() time.Time {
	return dateutil.NextDailyRun(job.now(), job.location, job.runAt)
}
