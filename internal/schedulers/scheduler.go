package schedulers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"os-scheduler/internal/core"
	"os-scheduler/internal/logger"
	"os-scheduler/internal/responses"
)

var (
	ErrInvalidQuantum = errors.New("round robin quantum must be a positive integer")
	ErrUnknownPolicy  = errors.New("unknown scheduling policy")
)

// Policy identifies one of the supported scheduling algorithms.
type Policy string

const (
	FirstComeFirstServe Policy = "fcfs"
	ShortestJobFirst    Policy = "sjf"
	RoundRobin          Policy = "rr"
)

// Policies lists every policy in presentation order.
var Policies = []Policy{FirstComeFirstServe, ShortestJobFirst, RoundRobin}

// ParsePolicy accepts the short identifiers plus a few long aliases.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fcfs", "fifo", "first-come-first-serve":
		return FirstComeFirstServe, nil
	case "sjf", "shortest-job-first":
		return ShortestJobFirst, nil
	case "rr", "round-robin", "roundrobin":
		return RoundRobin, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// RoundRobinConfig is the payload only the round-robin variant reads.
type RoundRobinConfig struct {
	Quantum int
}

type Config struct {
	Policy     Policy
	RoundRobin RoundRobinConfig
	Logger     *slog.Logger
}

// Validate rejects configurations before any simulation starts.
func (c Config) Validate() error {
	switch c.Policy {
	case FirstComeFirstServe, ShortestJobFirst:
		return nil
	case RoundRobin:
		if c.RoundRobin.Quantum <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidQuantum, c.RoundRobin.Quantum)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownPolicy, c.Policy)
}

// Scheduler drives one process manager through a policy loop.
type Scheduler interface {
	Policy() Policy
	// Run schedules every ready process to completion and returns the
	// timeline. Running again after the queues drain is a no-op.
	Run() []responses.Interval
	Timeline() []responses.Interval
	// ComputeMetrics is a pure function of the manager's terminated list.
	ComputeMetrics() responses.Metrics
}

// New validates cfg, claims pm and returns the scheduler for cfg.Policy.
func New(pm *core.Manager, cfg Config) (Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := pm.Claim(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	b := base{pm: pm, log: log.With(slog.String("policy", string(cfg.Policy)))}
	switch cfg.Policy {
	case FirstComeFirstServe:
		return &firstComeFirstServe{base: b}, nil
	case ShortestJobFirst:
		return &shortestJobFirst{base: b}, nil
	default:
		return &roundRobin{base: b, quantum: cfg.RoundRobin.Quantum}, nil
	}
}

// base holds what every policy shares: the manager, the virtual clock and
// the timeline.
type base struct {
	pm       *core.Manager
	clock    int
	timeline []responses.Interval
	log      *slog.Logger
}

func (b *base) Timeline() []responses.Interval {
	return append([]responses.Interval(nil), b.timeline...)
}

func (b *base) ComputeMetrics() responses.Metrics {
	return computeMetrics(b.pm.Terminated())
}

func (b *base) record(pid, start, end int) {
	if end <= start {
		return
	}
	b.timeline = append(b.timeline, responses.Interval{ProcessId: pid, Start: start, End: end})
}

// runToCompletion executes the running process for all its remaining time
// and terminates it.
func (b *base) runToCompletion() {
	p := b.pm.Current()
	if p == nil {
		return
	}
	burst := p.RemainingTime
	start := b.clock
	b.clock += burst
	b.record(p.PID, start, b.clock)
	b.pm.ExecuteCurrent(burst)
	b.pm.TerminateCurrentProcess(b.clock)
	b.log.Debug("process completed", logger.PIDAttr(p.PID), slog.Int("start", start), slog.Int("end", b.clock))
}

func byArrival(a, b *core.Process) bool {
	return a.ArrivalTime < b.ArrivalTime
}
