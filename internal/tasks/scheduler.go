package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
)

// Stop is returned by a [Task] to end its plan after the task succeeds.
var Stop = errors.New("stop plan")

// aborted wraps a task error that ends the plan and is returned by [Scheduler.Run].
type aborted struct{ err error }

func (e *aborted) Error() string { return e.err.Error() }
func (e *aborted) Unwrap() error { return e.err }

// Abort marks err as fatal to the plan: the remaining tasks are skipped and Run returns err.
func Abort(err error) error {
	if err == nil {
		return nil
	}
	return &aborted{err: err}
}

// Task is one named step of a sequential plan.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Outcome records what happened to one task.
type Outcome struct {
	Name string
	Err  error // nil on success
}

// Report summarizes a finished plan.
type Report struct {
	Outcomes []Outcome // attempted tasks, in order
	Skipped  []string  // tasks never attempted because the plan stopped
	Stopped  bool      // a task returned Stop
}

// Failed reports how many attempted tasks failed.
func (r Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// AllFailed reports whether every attempted task failed. An empty plan has not failed.
func (r Report) AllFailed() bool {
	return len(r.Outcomes) > 0 && r.Failed() == len(r.Outcomes)
}

// Errors returns the errors of failed tasks, in order.
func (r Report) Errors() []error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errs
}

// Scheduler runs tasks strictly one at a time with a cooldown between them.
type Scheduler struct {
	cooldown time.Duration
	logger   *log.Logger
	progress chan<- ProgressUpdate
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewScheduler creates a scheduler waiting cooldown between tasks.
func NewScheduler(cooldown time.Duration, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{cooldown: cooldown, logger: logger, sleep: sleepContext}
}

// WithProgress returns a copy of s reporting to progress.
func (s *Scheduler) WithProgress(progress chan<- ProgressUpdate) *Scheduler {
	c := *s
	c.progress = progress
	return &c
}

// WithCooldown returns a copy of s waiting d between tasks.
func (s *Scheduler) WithCooldown(d time.Duration) *Scheduler {
	c := *s
	c.cooldown = d
	return &c
}

// Cooldown returns the inter-task delay.
func (s *Scheduler) Cooldown() time.Duration { return s.cooldown }

// Run executes tasks in order.
//
// Task failures are logged and recorded, never returned, unless the task wrapped its error
// with [Abort]. Otherwise the only error Run returns is the context's, when it is cancelled
// before the plan finishes.
func (s *Scheduler) Run(ctx context.Context, phase Phase, tasks []Task) (Report, error) {
	var report Report
	total := len(tasks)

	for i, task := range tasks {
		if i > 0 {
			if err := s.sleep(ctx, s.cooldown); err != nil {
				report.Skipped = names(tasks[i:])
				return report, err
			}
		}
		if err := ctx.Err(); err != nil {
			report.Skipped = names(tasks[i:])
			return report, err
		}

		sendProgress(s.progress, startedUpdate(phase, i+1, total, task.Name))
		err := task.Run(ctx)

		if errors.Is(err, Stop) {
			report.Outcomes = append(report.Outcomes, Outcome{Name: task.Name})
			report.Skipped = names(tasks[i+1:])
			report.Stopped = true
			sendProgress(s.progress, stoppedUpdate(phase, i+1, total, task.Name))
			s.logger.Debug("plan stopped early", "phase", phase, "task", task.Name, "skipped", len(report.Skipped))
			return report, nil
		}

		var fatal *aborted
		if errors.As(err, &fatal) {
			report.Outcomes = append(report.Outcomes, Outcome{Name: task.Name, Err: fatal.err})
			report.Skipped = names(tasks[i+1:])
			sendProgress(s.progress, failedUpdate(phase, i+1, total, task.Name, fatal.err))
			s.logger.Error("plan aborted", "phase", phase, "task", task.Name, "error", fatal.err)
			return report, fatal.err
		}

		report.Outcomes = append(report.Outcomes, Outcome{Name: task.Name, Err: err})
		if err != nil {
			sendProgress(s.progress, failedUpdate(phase, i+1, total, task.Name, err))
			s.logger.Warn("task failed", "phase", phase, "task", task.Name, "error", err)
		}
	}
	return report, nil
}

func names(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Name)
	}
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
