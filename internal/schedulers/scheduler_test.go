package schedulers

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"os-scheduler/internal/core"
	"os-scheduler/internal/requests"
	"os-scheduler/internal/responses"
)

type job struct{ pid, arrival, burst int }

// newManager loads jobs and fails the test if any observed transition
// leaves a process outside every queue or puts two processes on the CPU.
func newManager(t *testing.T, jobs ...job) *core.Manager {
	t.Helper()
	running := map[int]bool{}
	var pm *core.Manager
	pm = core.NewManager(core.WithObserver(func(e core.Event) {
		c := pm.Counts()
		assert.Equal(t, c.Created, c.Located(), "process lost at clock %d", e.Clock)
		if e.To == core.StateRunning {
			running[e.PID] = true
		}
		if e.From == core.StateRunning {
			delete(running, e.PID)
		}
		assert.LessOrEqual(t, len(running), 1, "two processes running at clock %d", e.Clock)
	}))
	for _, j := range jobs {
		pm.CreateProcess(j.pid, j.burst, j.arrival, 0, "")
	}
	return pm
}

func run(t *testing.T, cfg Config, jobs ...job) (Scheduler, *core.Manager, []responses.Interval) {
	t.Helper()
	pm := newManager(t, jobs...)
	s, err := New(pm, cfg)
	require.NoError(t, err)
	return s, pm, s.Run()
}

func iv(pid, start, end int) responses.Interval {
	return responses.Interval{ProcessId: pid, Start: start, End: end}
}

var allConfigs = []Config{
	{Policy: FirstComeFirstServe},
	{Policy: ShortestJobFirst},
	{Policy: RoundRobin, RoundRobin: RoundRobinConfig{Quantum: 2}},
	{Policy: RoundRobin, RoundRobin: RoundRobinConfig{Quantum: 1}},
}

func TestFirstComeFirstServe(t *testing.T) {
	s, _, timeline := run(t, Config{Policy: FirstComeFirstServe}, job{1, 0, 5}, job{2, 1, 3})

	assert.Equal(t, []responses.Interval{iv(1, 0, 5), iv(2, 5, 8)}, timeline)
	assert.Equal(t, responses.Metrics{
		AverageWaitingTime:    2.0,
		AverageTurnAroundTime: 6.0,
		Throughput:            0.25,
	}, s.ComputeMetrics())
}

func TestFirstComeFirstServeSortsByArrivalAndIdles(t *testing.T) {
	_, _, timeline := run(t, Config{Policy: FirstComeFirstServe},
		job{1, 6, 1}, job{2, 0, 2}, job{3, 0, 1})

	assert.Equal(t, []responses.Interval{iv(2, 0, 2), iv(3, 2, 3), iv(1, 6, 7)}, timeline)
}

func TestShortestJobFirst(t *testing.T) {
	_, _, timeline := run(t, Config{Policy: ShortestJobFirst},
		job{1, 0, 8}, job{2, 1, 4}, job{3, 2, 9})

	assert.Equal(t, []responses.Interval{iv(1, 0, 8), iv(2, 8, 12), iv(3, 12, 21)}, timeline)
}

func TestShortestJobFirstTieBreak(t *testing.T) {
	_, _, timeline := run(t, Config{Policy: ShortestJobFirst},
		job{1, 0, 4}, job{5, 1, 2}, job{3, 1, 2}, job{2, 2, 2})

	assert.Equal(t, []responses.Interval{iv(1, 0, 4), iv(3, 4, 6), iv(5, 6, 8), iv(2, 8, 10)}, timeline)
}

func TestShortestJobFirstWaitsForArrival(t *testing.T) {
	_, pm, timeline := run(t, Config{Policy: ShortestJobFirst}, job{1, 3, 2}, job{2, 9, 1})

	assert.Equal(t, []responses.Interval{iv(1, 3, 5), iv(2, 9, 10)}, timeline)
	assert.Equal(t, 0, pm.Terminated()[0].WaitingTime)
}

func TestRoundRobin(t *testing.T) {
	_, _, timeline := run(t, Config{Policy: RoundRobin, RoundRobin: RoundRobinConfig{Quantum: 2}},
		job{1, 0, 5}, job{2, 0, 3})

	assert.Equal(t, []responses.Interval{
		iv(1, 0, 2), iv(2, 2, 4), iv(1, 4, 6), iv(2, 6, 7), iv(1, 7, 8),
	}, timeline)

	executed := map[int]int{}
	for _, i := range timeline {
		executed[i.ProcessId] += i.End - i.Start
	}
	assert.Equal(t, map[int]int{1: 5, 2: 3}, executed)
}

func TestRoundRobinNeverRunsBeforeArrival(t *testing.T) {
	_, _, timeline := run(t, Config{Policy: RoundRobin, RoundRobin: RoundRobinConfig{Quantum: 2}},
		job{1, 0, 5}, job{2, 10, 3})

	assert.Equal(t, []responses.Interval{
		iv(1, 0, 2), iv(1, 2, 4), iv(1, 4, 5), iv(2, 10, 12), iv(2, 12, 13),
	}, timeline)
}

func TestRoundRobinLateArrivalJoinsBeforePreempted(t *testing.T) {
	_, _, timeline := run(t, Config{Policy: RoundRobin, RoundRobin: RoundRobinConfig{Quantum: 3}},
		job{1, 0, 4}, job{2, 2, 2})

	assert.Equal(t, []responses.Interval{iv(1, 0, 3), iv(2, 3, 5), iv(1, 5, 6)}, timeline)
}

func TestEveryPolicyCompletesConsistently(t *testing.T) {
	jobs := []job{{1, 0, 7}, {2, 2, 4}, {3, 4, 1}, {4, 5, 4}, {5, 30, 2}}
	for _, cfg := range allConfigs {
		t.Run(string(cfg.Policy), func(t *testing.T) {
			_, pm, timeline := run(t, cfg, jobs...)

			terminated := pm.Terminated()
			require.Len(t, terminated, len(jobs))
			assert.Nil(t, pm.Current())
			assert.False(t, pm.HasReadyProcesses())

			lastEnd := map[int]int{}
			for i, interval := range timeline {
				assert.Less(t, interval.Start, interval.End)
				if i > 0 {
					assert.GreaterOrEqual(t, interval.Start, timeline[i-1].End, "clock ran backward")
				}
				lastEnd[interval.ProcessId] = interval.End
			}
			for _, p := range terminated {
				assert.Equal(t, core.StateTerminated, p.State)
				assert.Zero(t, p.RemainingTime)
				assert.Equal(t, p.BurstTime, p.ProgramCounter)
				assert.Equal(t, lastEnd[p.PID], p.CompletionTime)
				assert.Equal(t, p.CompletionTime-p.ArrivalTime, p.TurnaroundTime)
				assert.Equal(t, p.TurnaroundTime-p.BurstTime, p.WaitingTime)
				assert.GreaterOrEqual(t, p.StartTime, p.ArrivalTime)
				assert.GreaterOrEqual(t, p.CompletionTime, p.StartTime)
			}
		})
	}
}

func TestEmptyProcessSet(t *testing.T) {
	for _, cfg := range allConfigs {
		s, _, timeline := run(t, cfg)
		assert.Empty(t, timeline)
		assert.Equal(t, responses.Metrics{}, s.ComputeMetrics())
	}
}

func TestRunAndMetricsAreIdempotent(t *testing.T) {
	for _, cfg := range allConfigs {
		s, _, timeline := run(t, cfg, job{1, 0, 3}, job{2, 1, 5})
		first := s.ComputeMetrics()
		assert.Equal(t, first, s.ComputeMetrics())
		assert.Equal(t, timeline, s.Run(), "a drained manager has nothing left to schedule")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	pm := core.NewManager()
	for _, q := range []int{0, -3} {
		_, err := New(pm, Config{Policy: RoundRobin, RoundRobin: RoundRobinConfig{Quantum: q}})
		assert.ErrorIs(t, err, ErrInvalidQuantum)
	}
	_, err := New(pm, Config{Policy: "lottery"})
	assert.ErrorIs(t, err, ErrUnknownPolicy)

	_, err = New(pm, Config{Policy: FirstComeFirstServe})
	require.NoError(t, err, "rejected configs must not claim the manager")
	_, err = New(pm, Config{Policy: ShortestJobFirst})
	assert.ErrorIs(t, err, core.ErrManagerClaimed)
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{
		"fcfs": FirstComeFirstServe, "FIFO": FirstComeFirstServe,
		"sjf": ShortestJobFirst, " rr ": RoundRobin, "round-robin": RoundRobin,
	} {
		got, err := ParsePolicy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParsePolicy("mlfq")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestScheduleBuildsResponse(t *testing.T) {
	req := &requests.ScheduleRequests{Jobs: []requests.Job{
		{ProcessId: 1, ArrivalTime: 0, BurstTime: 5, User: "alice"},
		{ProcessId: 2, ArrivalTime: 1, BurstTime: 3, User: "bob"},
	}}
	res, err := ScheduleFirstComeFirstServe(req)
	require.NoError(t, err)

	assert.Equal(t, "fcfs", res.Policy)
	assert.Equal(t, 8, res.TotalTime)
	assert.Equal(t, 8, res.BusyTime)
	assert.Equal(t, 0, res.IdleTime)
	assert.Equal(t, 1.0, res.CpuUtilization)
	assert.Equal(t, 2, res.ContextSwitches)
	assert.Equal(t, 2.0, res.AverageResponseTime)
	require.Len(t, res.Details, 2)
	assert.Equal(t, responses.ProcessResponse{
		ProcessId: 2, User: "bob", ArrivalTime: 1, BurstTime: 3,
		StartTime: 5, CompletionTime: 8, ResponseTime: 4, TurnAroundTime: 7, WaitingTime: 4,
	}, res.Details[1])
}

func TestScheduleRejectsBeforeSimulating(t *testing.T) {
	req := &requests.ScheduleRequests{Jobs: []requests.Job{{ProcessId: 1, BurstTime: 5}}}
	_, err := ScheduleRoundRobin(req, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantum)

	bad := &requests.ScheduleRequests{Jobs: []requests.Job{{ProcessId: 1, BurstTime: 0}}}
	_, err = ScheduleShortestJobFirst(bad)
	assert.ErrorIs(t, err, requests.ErrInvalidJob)
}

func TestScheduleAllRejectsQuantumFirst(t *testing.T) {
	req := &requests.ScheduleRequests{Jobs: []requests.Job{{ProcessId: 1, BurstTime: 5}}}
	var simulated int
	log := slog.New(slog.NewTextHandler(&countingWriter{n: &simulated}, nil))
	res, err := ScheduleAll(req, -1, log)
	assert.ErrorIs(t, err, ErrInvalidQuantum)
	assert.Empty(t, res.Results)
	assert.Zero(t, simulated, "no simulation may log before the quantum is rejected")
}

type countingWriter struct{ n *int }

func (w *countingWriter) Write(p []byte) (int, error) {
	*w.n++
	return len(p), nil
}

func TestScheduleAll(t *testing.T) {
	req := &requests.ScheduleRequests{Jobs: []requests.Job{
		{ProcessId: 1, ArrivalTime: 0, BurstTime: 8},
		{ProcessId: 2, ArrivalTime: 1, BurstTime: 4},
		{ProcessId: 3, ArrivalTime: 2, BurstTime: 9},
	}}
	res, err := ScheduleAll(req, 4, nil)
	require.NoError(t, err)
	require.Len(t, res.Results, 3)
	for i, policy := range Policies {
		assert.Equal(t, string(policy), res.Results[i].Policy)
		assert.Len(t, res.Results[i].Details, 3)
	}
	assert.Equal(t, 4, res.Results[2].Quantum)
	assert.Zero(t, res.Results[0].Quantum)
}
