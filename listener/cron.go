package listener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/webitel/wlog"
)

// Scheduler opens and closes listeners on cron schedules.
type Scheduler struct {
	Cron *gocron.Scheduler
	log  *wlog.Logger
}

func NewScheduler(location *time.Location, log *wlog.Logger) *Scheduler {
	scheduler := gocron.NewScheduler(location)
	scheduler.StartAsync()

	return &Scheduler{
		Cron: scheduler,
		log:  log,
	}
}

// Stop the scheduler
func (s *Scheduler) Stop() {
	s.Cron.Stop()
}

func (s *Scheduler) ScheduleJob(interval string, jobTag string, jobFun interface{}, params ...interface{}) (*gocron.Job, error) {
	job, err := s.Cron.Cron(interval).Tag(jobTag).DoWithJobDetails(jobFun, params...)
	if err != nil {
		return nil, fmt.Errorf("scheduling job: %v", err)
	}

	return job, nil
}

// ScheduleWindow starts ls on every start expression and closes them on every
// stop expression. Without start expressions ls are started right away and
// stay open.
func (s *Scheduler) ScheduleWindow(ctx context.Context, start, stop []string, ls []Listener) error {
	if len(start) == 0 {
		return listenAll(ctx, ls)
	}

	for i, expr := range start {
		if _, err := s.ScheduleJob(expr, fmt.Sprintf("start-%d", i), func(job gocron.Job) error {
			s.log.Info("open listeners window", wlog.String("cron", expr))

			return listenAll(ctx, ls)
		}); err != nil {
			return err
		}
	}

	for i, expr := range stop {
		if _, err := s.ScheduleJob(expr, fmt.Sprintf("stop-%d", i), func(job gocron.Job) error {
			s.log.Info("close listeners window", wlog.String("cron", expr))

			return CloseAll(ls)
		}); err != nil {
			return err
		}
	}

	return nil
}

func listenAll(ctx context.Context, ls []Listener) error {
	for _, l := range ls {
		if err := l.Listen(ctx); err != nil {
			return fmt.Errorf("%s listen: %w", l.String(), err)
		}
	}

	return nil
}

func CloseAll(ls []Listener) error {
	var errs []error
	for _, l := range ls {
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s close: %w", l.String(), err))
		}
	}

	return errors.Join(errs...)
}
