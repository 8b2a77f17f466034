package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusUp       = "up"
	statusDown     = "down"
)

const checkTimeout = 3 * time.Second

// CheckFunc probes one dependency. It must honor the context deadline.
type CheckFunc func(ctx context.Context) error

// Checker runs registered dependency probes and reports readiness.
type Checker struct {
	names   []string
	checks  map[string]CheckFunc
	timeout time.Duration
	logger  *zap.Logger
}

func NewChecker(logger ...*zap.Logger) *Checker {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &Checker{
		checks:  make(map[string]CheckFunc),
		timeout: checkTimeout,
		logger:  l.Named("health"),
	}
}

// Register adds a named probe. Registration order is kept for reporting.
func (c *Checker) Register(name string, fn CheckFunc) {
	if _, exists := c.checks[name]; !exists {
		c.names = append(c.names, name)
	}
	c.checks[name] = fn
}

// Run executes all probes concurrently, each under its own timeout.
func (c *Checker) Run(ctx context.Context) ReadyResponse {
	type result struct {
		name  string
		check Check
	}

	results := make(chan result, len(c.names))
	var wg sync.WaitGroup
	for _, name := range c.names {
		wg.Add(1)
		go func(name string, fn CheckFunc) {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			start := time.Now()
			err := fn(checkCtx)
			elapsed := time.Since(start).Milliseconds()

			ck := Check{Status: statusUp, LatencyMS: elapsed}
			if err != nil {
				ck = Check{Status: statusDown, Error: err.Error(), LatencyMS: elapsed}
				c.logger.Warn("dependency check failed",
					zap.String("dependency", name),
					zap.Error(err),
				)
			}
			results <- result{name: name, check: ck}
		}(name, c.checks[name])
	}
	wg.Wait()
	close(results)

	resp := ReadyResponse{Status: statusOK, Checks: make(map[string]Check, len(c.names))}
	for r := range results {
		resp.Checks[r.name] = r.check
		if r.check.Status == statusDown {
			resp.Status = statusDegraded
		}
	}
	return resp
}
