package schedulers

import (
	"os-scheduler/internal/core"
	"os-scheduler/internal/responses"
)

// shortestJobFirst is non-preemptive: at every idle point it dispatches the
// arrived process with the smallest burst and runs it to completion.
type shortestJobFirst struct {
	base
}

func (s *shortestJobFirst) Policy() Policy { return ShortestJobFirst }

func (s *shortestJobFirst) Run() []responses.Interval {
	for s.pm.HasReadyProcesses() || s.pm.Current() != nil {
		if s.pm.Current() == nil {
			shortest := s.selectShortest()
			s.pm.MoveToFront(shortest)
			s.pm.ContextSwitch(s.clock)
		}
		s.runToCompletion()
	}
	return s.Timeline()
}

// selectShortest scans the ready queue for the shortest arrived job. When
// nothing has arrived the clock jumps to the earliest arrival first.
func (s *shortestJobFirst) selectShortest() *core.Process {
	ready := s.pm.ReadyQueue()
	earliest := ready[0].ArrivalTime
	for _, p := range ready[1:] {
		earliest = min(earliest, p.ArrivalTime)
	}
	s.clock = max(s.clock, earliest)

	var shortest *core.Process
	for _, p := range ready {
		if p.ArrivalTime > s.clock {
			continue
		}
		if shortest == nil || shorterJob(p, shortest) {
			shortest = p
		}
	}
	return shortest
}

// shorterJob orders by burst time, then arrival time, then pid.
func shorterJob(a, b *core.Process) bool {
	if a.BurstTime != b.BurstTime {
		return a.BurstTime < b.BurstTime
	}
	if a.ArrivalTime != b.ArrivalTime {
		return a.ArrivalTime < b.ArrivalTime
	}
	return a.PID < b.PID
}
