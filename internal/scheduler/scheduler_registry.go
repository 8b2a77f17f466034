package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	schedulererrors "github.com/Muhannad-Khaled/Ailigent/internal/scheduler/errors"
)

const jobTimeout = 5 * time.Minute

// RunFunc is the body of one scheduled job.
type RunFunc func(ctx context.Context) error

type job struct {
	id      string
	name    string
	spec    string
	run     RunFunc
	entryID cron.EntryID
	paused  bool
	running bool
	lastRun time.Time
	lastErr string
}

// Registry owns the cron instance and the per-job state around it.
// Pausing removes the cron entry but keeps the registration, so a
// paused job can still be triggered and later resumed.
type Registry struct {
	cron   *cron.Cron
	mu     sync.Mutex
	wg     sync.WaitGroup
	jobs   map[string]*job
	order  []string
	logger *zap.Logger
	now    func() time.Time
}

func NewRegistry(logger ...*zap.Logger) *Registry {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Registry{
		cron:   cron.New(),
		jobs:   make(map[string]*job),
		logger: l.Named("scheduler"),
		now:    time.Now,
	}
}

// Register adds a job under the given five-field cron spec.
func (r *Registry) Register(id, name, spec string, run RunFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[id]; exists {
		return fmt.Errorf("scheduler: job %q already registered", id)
	}

	j := &job{id: id, name: name, spec: spec, run: run}
	entryID, err := r.cron.AddFunc(spec, func() { r.execute(j) })
	if err != nil {
		return fmt.Errorf("scheduler: register %q: %w", id, err)
	}
	j.entryID = entryID
	r.jobs[id] = j
	r.order = append(r.order, id)
	return nil
}

func (r *Registry) Start() {
	r.cron.Start()
	r.logger.Info("scheduler started", zap.Int("jobs", len(r.order)))
}

// Stop halts scheduling and waits for in-flight runs to finish.
func (r *Registry) Stop() {
	<-r.cron.Stop().Done()
	r.wg.Wait()
	r.logger.Info("scheduler stopped")
}

// Jobs returns the registered jobs in registration order.
func (r *Registry) Jobs() []JobResponse {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]JobResponse, 0, len(r.order))
	for _, id := range r.order {
		j := r.jobs[id]
		resp := JobResponse{
			ID:        j.id,
			Name:      j.name,
			Spec:      j.spec,
			Paused:    j.paused,
			Running:   j.running,
			LastError: j.lastErr,
		}
		if !j.lastRun.IsZero() {
			t := j.lastRun
			resp.LastRun = &t
		}
		if !j.paused {
			if next := r.cron.Entry(j.entryID).Next; !next.IsZero() {
				n := next
				resp.NextRun = &n
			}
		}
		out = append(out, resp)
	}
	return out
}

// Trigger runs a job out of schedule. The run happens asynchronously;
// a job that is already running is not started a second time.
func (r *Registry) Trigger(id string) error {
	r.mu.Lock()
	j, ok := r.jobs[id]
	if !ok {
		r.mu.Unlock()
		return schedulererrors.ErrJobNotFound
	}
	if j.running {
		r.mu.Unlock()
		return schedulererrors.ErrJobRunning
	}
	r.mu.Unlock()

	go r.execute(j)
	return nil
}

func (r *Registry) Pause(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok {
		return schedulererrors.ErrJobNotFound
	}
	if j.paused {
		return nil
	}
	r.cron.Remove(j.entryID)
	j.paused = true
	r.logger.Info("job paused", zap.String("job", id))
	return nil
}

func (r *Registry) Resume(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok {
		return schedulererrors.ErrJobNotFound
	}
	if !j.paused {
		return nil
	}
	entryID, err := r.cron.AddFunc(j.spec, func() { r.execute(j) })
	if err != nil {
		return fmt.Errorf("scheduler: resume %q: %w", id, err)
	}
	j.entryID = entryID
	j.paused = false
	r.logger.Info("job resumed", zap.String("job", id))
	return nil
}

func (r *Registry) execute(j *job) {
	r.mu.Lock()
	if j.running {
		r.mu.Unlock()
		r.logger.Warn("job still running, skipping this tick", zap.String("job", j.id))
		return
	}
	j.running = true
	j.lastRun = r.now().UTC()
	r.wg.Add(1)
	r.mu.Unlock()
	defer r.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	err := j.run(ctx)

	r.mu.Lock()
	j.running = false
	j.lastErr = ""
	if err != nil {
		j.lastErr = err.Error()
	}
	r.mu.Unlock()

	if err != nil {
		r.logger.Error("job failed",
			zap.String("job", j.id),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	r.logger.Info("job finished",
		zap.String("job", j.id),
		zap.Duration("took", time.Since(start)),
	)
}
