package jobs

import (
	"context"
	"log/slog"
)

// Purger deletes expired deduplication keys.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// DedupPurgeJob deletes expired deduplication keys every five minutes.
type DedupPurgeJob struct {
	scheduler
	purger Purger
}

// NewDedupPurgeJob creates the job. It does nothing until Start is called.
func NewDedupPurgeJob(purger Purger, logger *slog.Logger) *DedupPurgeJob {
	return &DedupPurgeJob{
		scheduler: newScheduler("dedup_purge_job", "0 */5 * * * *", logger),
		purger:    purger,
	}
}

// Start schedules the job.
func (j *DedupPurgeJob) Start() error {
	return j.start(func(ctx context.Context) {
		_ = j.RunOnce(ctx)
	})
}

// RunOnce purges expired keys once and logs how many were removed.
func (j *DedupPurgeJob) RunOnce(ctx context.Context) error {
	removed, err := j.purger.Purge(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Purging processed messages failed", "error", err)
		return err
	}

	if removed > 0 {
		j.logger.InfoContext(ctx, "Expired processed messages removed", "count", removed)
	}
	return nil
}
