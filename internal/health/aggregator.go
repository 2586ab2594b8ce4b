package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Verdict is the aggregated health of all registered dependencies.
// Components preserve registration order. Recomputed on every call,
// never cached.
type Verdict struct {
	Overall     Status
	Components  []Result
	GeneratedAt time.Time
}

// AggregatorConfig configures the health aggregator.
type AggregatorConfig struct {
	// ProbeTimeout is the per-probe deadline used when a probe is
	// registered without its own. Default: 2 seconds.
	ProbeTimeout time.Duration

	// ReadinessMargin is added to the slowest probe deadline to bound
	// the total readiness wait. Default: 250 milliseconds.
	ReadinessMargin time.Duration
}

type registration struct {
	prober   Prober
	deadline time.Duration
}

// Aggregator fans out to all registered probes concurrently and reduces
// their results into liveness and readiness verdicts.
type Aggregator struct {
	config AggregatorConfig

	mu     sync.RWMutex
	probes map[string]registration
	order  []string

	shuttingDown atomic.Bool
}

// NewAggregator creates a new health aggregator.
func NewAggregator(config ...AggregatorConfig) *Aggregator {
	cfg := AggregatorConfig{
		ProbeTimeout:    2 * time.Second,
		ReadinessMargin: 250 * time.Millisecond,
	}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.ProbeTimeout <= 0 {
			cfg.ProbeTimeout = 2 * time.Second
		}
		if cfg.ReadinessMargin <= 0 {
			cfg.ReadinessMargin = 250 * time.Millisecond
		}
	}

	return &Aggregator{
		config: cfg,
		probes: make(map[string]registration),
		order:  make([]string, 0),
	}
}

// Register adds a probe under its name with the default deadline.
// Re-registration replaces the probe but keeps its position.
func (a *Aggregator) Register(p Prober) {
	a.RegisterWithTimeout(p, a.config.ProbeTimeout)
}

// RegisterWithTimeout adds a probe with an individual deadline.
func (a *Aggregator) RegisterWithTimeout(p Prober, deadline time.Duration) {
	if deadline <= 0 {
		deadline = a.config.ProbeTimeout
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	name := p.Name()
	if _, exists := a.probes[name]; !exists {
		a.order = append(a.order, name)
	}
	a.probes[name] = registration{prober: p, deadline: deadline}
}

// ProbeNames returns the names of all registered probes in registration order.
func (a *Aggregator) ProbeNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, len(a.order))
	copy(names, a.order)
	return names
}

// SetShuttingDown flips the process-wide shutdown flag consulted by
// liveness. Set before draining the listeners so the orchestrator stops
// routing new traffic.
func (a *Aggregator) SetShuttingDown(v bool) {
	a.shuttingDown.Store(v)
}

// Liveness reports whether the process itself can serve requests. No
// probes run: liveness is independent of dependency health.
func (a *Aggregator) Liveness() Status {
	if a.shuttingDown.Load() {
		return StatusDown
	}
	return StatusUp
}

// Readiness runs every registered probe concurrently, each under its
// own deadline, and reduces the results. The total wait is bounded by
// the slowest probe deadline plus the readiness margin; probes that
// have not finished by then are reported DOWN with a timeout error and
// their eventual results are discarded.
func (a *Aggregator) Readiness(ctx context.Context) Verdict {
	a.mu.RLock()
	names := make([]string, len(a.order))
	copy(names, a.order)
	regs := make([]registration, len(names))
	maxDeadline := time.Duration(0)
	for i, name := range names {
		regs[i] = a.probes[name]
		if regs[i].deadline > maxDeadline {
			maxDeadline = regs[i].deadline
		}
	}
	a.mu.RUnlock()

	components := make([]Result, len(names))
	if len(names) == 0 {
		return Verdict{Overall: StatusUp, Components: components, GeneratedAt: time.Now()}
	}

	type indexed struct {
		i int
		r Result
	}
	results := make(chan indexed, len(regs))

	for i, reg := range regs {
		go func(i int, reg registration) {
			results <- indexed{i: i, r: runProbe(ctx, reg.prober, reg.deadline)}
		}(i, reg)
	}

	globalDeadline := time.NewTimer(maxDeadline + a.config.ReadinessMargin)
	defer globalDeadline.Stop()

	done := make([]bool, len(regs))
	pending := len(regs)
collect:
	for pending > 0 {
		select {
		case res := <-results:
			components[res.i] = res.r
			done[res.i] = true
			pending--
		case <-globalDeadline.C:
			break collect
		}
	}

	// Stragglers past the global deadline count as DOWN.
	for i := range components {
		if !done[i] {
			components[i] = Result{
				Name:      names[i],
				Status:    StatusDown,
				Err:       "timeout",
				Latency:   regs[i].deadline,
				CheckedAt: time.Now(),
			}
		}
	}

	return Verdict{
		Overall:     Overall(components),
		Components:  components,
		GeneratedAt: time.Now(),
	}
}

// Overall reduces component results with strict worst-of precedence:
// any DOWN wins, then any DEGRADED, else UP.
func Overall(components []Result) Status {
	hasDown := false
	hasDegraded := false

	for _, c := range components {
		switch c.Status {
		case StatusDown:
			hasDown = true
		case StatusDegraded:
			hasDegraded = true
		}
	}

	if hasDown {
		return StatusDown
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusUp
}
