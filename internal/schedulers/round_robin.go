package schedulers

import (
	"log/slog"

	"os-scheduler/internal/core"
	"os-scheduler/internal/logger"
	"os-scheduler/internal/responses"
)

// roundRobin grants each dispatch at most quantum units and rotates through
// the ready queue with the manager's context switch.
type roundRobin struct {
	base
	quantum int
}

func (s *roundRobin) Policy() Policy { return RoundRobin }

func (s *roundRobin) Run() []responses.Interval {
	s.pm.SortReady(byArrival)

	for s.pm.HasReadyProcesses() || s.pm.Current() != nil {
		if s.pm.Current() == nil {
			s.dispatchNext()
		}

		p := s.pm.Current()
		slice := min(s.quantum, p.RemainingTime)
		start := s.clock
		s.clock += slice
		s.record(p.PID, start, s.clock)
		s.pm.ExecuteCurrent(slice)

		if p.IsFinished() {
			s.pm.TerminateCurrentProcess(s.clock)
			s.log.Debug("process completed", logger.PIDAttr(p.PID), slog.Int("clock", s.clock))
			continue
		}
		// a process that has not arrived yet never takes the CPU; with no
		// arrived competitor the current process keeps running
		if next := s.firstArrived(); next != nil {
			s.pm.MoveToFront(next)
			s.pm.ContextSwitch(s.clock)
			s.log.Debug("preempted", logger.PIDAttr(p.PID), slog.Int("next", next.PID), slog.Int("clock", s.clock))
		}
	}
	return s.Timeline()
}

// dispatchNext puts the first arrived ready process on an idle CPU, moving
// the clock forward to the next arrival when nothing is waiting yet.
func (s *roundRobin) dispatchNext() {
	next := s.firstArrived()
	if next == nil {
		ready := s.pm.ReadyQueue()
		earliest := ready[0].ArrivalTime
		for _, p := range ready[1:] {
			earliest = min(earliest, p.ArrivalTime)
		}
		s.clock = earliest
		next = s.firstArrived()
	}
	s.pm.MoveToFront(next)
	s.pm.ContextSwitch(s.clock)
}

// firstArrived returns the first process in ready-queue order whose arrival
// time has been reached.
func (s *roundRobin) firstArrived() *core.Process {
	for _, p := range s.pm.ReadyQueue() {
		if p.ArrivalTime <= s.clock {
			return p
		}
	}
	return nil
}
