package health

import (
	"context"
	"fmt"
	"time"
)

// Status is the health state of a dependency or of the whole service.
type Status string

const (
	StatusUp       Status = "UP"
	StatusDown     Status = "DOWN"
	StatusDegraded Status = "DEGRADED"
)

// Result is the outcome of one dependency probe. Immutable once
// produced; latency never exceeds the probe's deadline.
type Result struct {
	Name      string
	Status    Status
	Latency   time.Duration
	Err       string
	CheckedAt time.Time
}

// Prober checks one external dependency. Implementations must honor the
// context deadline and return rather than block past it; the aggregator
// additionally enforces the deadline from the outside.
type Prober interface {
	Name() string
	Check(ctx context.Context) Result
}

// ProbeFunc adapts an ordinary function to the Prober interface.
type ProbeFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewProbeFunc creates a Prober from a function.
func NewProbeFunc(name string, fn func(context.Context) Result) *ProbeFunc {
	return &ProbeFunc{name: name, fn: fn}
}

func (f *ProbeFunc) Name() string { return f.name }

func (f *ProbeFunc) Check(ctx context.Context) Result { return f.fn(ctx) }

// Up builds a successful result.
func Up(latency time.Duration) Result {
	return Result{Status: StatusUp, Latency: latency, CheckedAt: time.Now()}
}

// Degraded builds a degraded result.
func Degraded(latency time.Duration, reason string) Result {
	return Result{Status: StatusDegraded, Latency: latency, Err: reason, CheckedAt: time.Now()}
}

// Down builds a failed result.
func Down(latency time.Duration, err error) Result {
	r := Result{Status: StatusDown, Latency: latency, CheckedAt: time.Now()}
	if err != nil {
		r.Err = err.Error()
	}
	return r
}

// runProbe executes one probe under its deadline. Probe panics and
// errors never escape: both collapse into a DOWN result.
func runProbe(ctx context.Context, p Prober, deadline time.Duration) Result {
	cctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	start := time.Now()
	ch := make(chan Result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- Result{
					Status: StatusDown,
					Err:    fmt.Sprintf("probe panic: %v", rec),
				}
			}
		}()
		ch <- p.Check(cctx)
	}()

	var result Result
	select {
	case result = <-ch:
		if result.Latency == 0 {
			result.Latency = time.Since(start)
		}
	case <-cctx.Done():
		result = Result{Status: StatusDown, Err: "timeout", Latency: deadline}
	}

	result.Name = p.Name()
	if result.Latency > deadline {
		result.Latency = deadline
	}
	if result.CheckedAt.IsZero() {
		result.CheckedAt = start
	}
	return result
}
