package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// scheduler runs one function on a cron spec and never overlaps runs.
type scheduler struct {
	name   string
	spec   string
	cron   *cron.Cron
	logger *slog.Logger
}

func newScheduler(name, spec string, logger *slog.Logger) scheduler {
	return scheduler{
		name: name,
		spec: spec,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With("component", name),
	}
}

func (s scheduler) Name() string {
	return s.name
}

func (s scheduler) start(run func(ctx context.Context)) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		run(context.Background())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.InfoContext(context.Background(), "Job started", "schedule", s.spec)
	return nil
}

// Stop stops scheduling and waits for a running invocation to return.
func (s scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.InfoContext(context.Background(), "Job stopped")
}
