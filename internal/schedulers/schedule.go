package schedulers

import (
	"errors"
	"log/slog"

	"os-scheduler/internal/core"
	"os-scheduler/internal/metrics"
	"os-scheduler/internal/requests"
	"os-scheduler/internal/responses"
)

// Schedule builds a fresh manager from the request's jobs, runs the policy
// described by cfg over it and returns the timeline, metrics and details.
func Schedule(request *requests.ScheduleRequests, cfg Config) (responses.ScheduleResponse, error) {
	if err := cfg.Validate(); err != nil {
		metrics.IncRejected(rejectReason(err))
		return responses.ScheduleResponse{}, err
	}
	if err := request.Validate(); err != nil {
		metrics.IncRejected("invalid_job")
		return responses.ScheduleResponse{}, err
	}
	pm := NewManager(cfg)
	for _, job := range request.Jobs {
		pm.CreateProcess(job.ProcessId, job.BurstTime, job.ArrivalTime, job.Priority, job.User)
	}
	return Simulate(pm, cfg)
}

// NewManager returns an empty manager that logs through cfg.Logger and
// reports state transitions to the metrics package under cfg.Policy.
func NewManager(cfg Config) *core.Manager {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	policy := string(cfg.Policy)
	return core.NewManager(
		core.WithLogger(log),
		core.WithObserver(func(e core.Event) {
			metrics.RecordStateTransition(policy, string(e.From), string(e.To))
		}),
	)
}

// Simulate runs cfg's policy over an already populated manager.
func Simulate(pm *core.Manager, cfg Config) (responses.ScheduleResponse, error) {
	s, err := New(pm, cfg)
	if err != nil {
		return responses.ScheduleResponse{}, err
	}
	s.Run()

	var quantum int
	if cfg.Policy == RoundRobin {
		quantum = cfg.RoundRobin.Quantum
	}
	response := generateResponse(s, pm, quantum)
	metrics.ObserveSimulation(response.Policy, response.TotalTime, response.ContextSwitches)

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Info("simulation finished",
		slog.String("policy", response.Policy),
		slog.Int("processes", len(response.Details)),
		slog.Int("total_time", response.TotalTime),
		slog.Float64("avg_waiting", response.Metrics.AverageWaitingTime),
		slog.Float64("avg_turnaround", response.Metrics.AverageTurnAroundTime),
		slog.Float64("throughput", response.Metrics.Throughput),
	)
	return response, nil
}

func ScheduleFirstComeFirstServe(request *requests.ScheduleRequests) (responses.ScheduleResponse, error) {
	return Schedule(request, Config{Policy: FirstComeFirstServe})
}

func ScheduleShortestJobFirst(request *requests.ScheduleRequests) (responses.ScheduleResponse, error) {
	return Schedule(request, Config{Policy: ShortestJobFirst})
}

func ScheduleRoundRobin(request *requests.ScheduleRequests, timeQuantum int) (responses.ScheduleResponse, error) {
	return Schedule(request, Config{Policy: RoundRobin, RoundRobin: RoundRobinConfig{Quantum: timeQuantum}})
}

// ScheduleAll runs every policy over its own copy of the request's jobs.
// The quantum is checked before any policy runs.
func ScheduleAll(request *requests.ScheduleRequests, timeQuantum int, log *slog.Logger) (responses.CompareResponse, error) {
	rr := Config{Policy: RoundRobin, RoundRobin: RoundRobinConfig{Quantum: timeQuantum}}
	if err := rr.Validate(); err != nil {
		metrics.IncRejected(rejectReason(err))
		return responses.CompareResponse{}, err
	}
	var out responses.CompareResponse
	for _, policy := range Policies {
		cfg := Config{Policy: policy, RoundRobin: RoundRobinConfig{Quantum: timeQuantum}, Logger: log}
		res, err := Schedule(request, cfg)
		if err != nil {
			return responses.CompareResponse{}, err
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidQuantum):
		return "invalid_quantum"
	case errors.Is(err, ErrUnknownPolicy):
		return "unknown_policy"
	}
	return "other"
}
