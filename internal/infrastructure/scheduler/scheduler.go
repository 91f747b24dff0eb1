package scheduler

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/loro/backend/internal/infrastructure/config"
	"github.com/loro/backend/internal/infrastructure/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the outcome of a job run
type JobStatus string

const (
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobFunc is the body of a scheduled job. now is the trigger time in the
// scheduler's timezone.
type JobFunc func(ctx context.Context, now time.Time) error

// Recorder observes job runs
type Recorder interface {
	JobRun(job string, err error, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) JobRun(string, error, time.Duration) {}

// Run is the record of one job execution
type Run struct {
	Job         string     `json:"job"`
	Status      JobStatus  `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// JobInfo describes a registered job
type JobInfo struct {
	Name    string    `json:"name"`
	Spec    string    `json:"spec"`
	Next    time.Time `json:"next"`
	LastRun *Run      `json:"last_run,omitempty"`
}

type job struct {
	name    string
	spec    string
	id      cron.EntryID
	fn      JobFunc
	lastRun *Run
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithRecorder reports job runs to r
func WithRecorder(r Recorder) Option {
	return func(s *Scheduler) {
		if r != nil {
			s.recorder = r
		}
	}
}

// Scheduler runs named jobs on cron specs in one timezone. A job that is
// still running when its next trigger fires is skipped for that trigger.
type Scheduler struct {
	cron     *cron.Cron
	location *time.Location
	timeout  time.Duration
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time

	mu        sync.Mutex
	jobs      map[string]*job
	baseCtx   context.Context
	cancel    context.CancelFunc
	isRunning bool
}

// New creates a scheduler from configuration
func New(cfg config.SchedulerConfig, log *zap.Logger, opts ...Option) (*Scheduler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tz := cfg.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, tz, err)
	}
	timeout := cfg.JobTimeout
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}

	s := &Scheduler{
		location: loc,
		timeout:  timeout,
		logger:   log.Named("scheduler"),
		recorder: nopRecorder{},
		now:      time.Now,
		jobs:     make(map[string]*job),
		baseCtx:  context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	cl := cronLogger{s.logger}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.SkipIfStillRunning(cl)),
	)
	return s, nil
}

// Register adds a job under a unique name. spec is a standard five-field
// cron expression or a descriptor such as "@hourly" or "@every 5m".
func (s *Scheduler) Register(name, spec string, fn JobFunc) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return fmt.Errorf("%w: job needs a name and a function", ErrInvalidConfig)
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("%w: job %s: %v", ErrInvalidConfig, name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrJobAlreadyRegistered, name)
	}
	j := &job{name: name, spec: spec, fn: fn}
	j.id = s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.mu.Lock()
		ctx := s.baseCtx
		s.mu.Unlock()
		_ = s.run(ctx, j)
	}))
	s.jobs[name] = j
	return nil
}

// Start starts firing registered jobs. Jobs run with a context derived from ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.baseCtx, s.cancel = context.WithCancel(ctx)
	names := s.jobNamesLocked()
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("Scheduler started",
		zap.String("timezone", s.location.String()),
		zap.Strings("jobs", names),
	)
	return nil
}

// Stop stops firing jobs and waits for running ones until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	done := s.cron.Stop()
	cancel()

	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// RunNow runs a job immediately in the calling goroutine
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.run(ctx, j)
}

// Jobs lists registered jobs with their next trigger and last run
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]JobInfo, 0, len(s.jobs))
	for _, name := range s.jobNamesLocked() {
		j := s.jobs[name]
		info := JobInfo{Name: j.name, Spec: j.spec, Next: s.cron.Entry(j.id).Next}
		if j.lastRun != nil {
			run := *j.lastRun
			info.LastRun = &run
		}
		out = append(out, info)
	}
	return out
}

// Location is the timezone jobs are triggered in
func (s *Scheduler) Location() *time.Location {
	return s.location
}

func (s *Scheduler) run(ctx context.Context, j *job) (err error) {
	started := s.now().In(s.location)
	s.setLastRun(j, &Run{Job: j.name, Status: JobStatusRunning, StartedAt: started})

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	log := logger.Enrich(ctx, s.logger).With(zap.String("job", j.name))
	log.Info("Job started")

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", j.name, r)
		}
		elapsed := time.Since(started)
		completed := s.now().In(s.location)
		run := &Run{Job: j.name, Status: JobStatusSuccess, StartedAt: started, CompletedAt: &completed}
		if err != nil {
			run.Status = JobStatusFailed
			run.Error = err.Error()
			log.Error("Job failed", zap.Duration("duration", elapsed), zap.Error(err))
		} else {
			log.Info("Job completed", zap.Duration("duration", elapsed))
		}
		s.setLastRun(j, run)
		s.recorder.JobRun(j.name, err, elapsed)
	}()

	return j.fn(ctx, started)
}

func (s *Scheduler) setLastRun(j *job, run *Run) {
	s.mu.Lock()
	j.lastRun = run
	s.mu.Unlock()
}

func (s *Scheduler) jobNamesLocked() []string {
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// cronLogger routes cron's own logging to zap
type cronLogger struct {
	l *zap.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Sugar().Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
