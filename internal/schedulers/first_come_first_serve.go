package schedulers

import (
	"os-scheduler/internal/responses"
)

// firstComeFirstServe runs processes to completion in arrival order.
type firstComeFirstServe struct {
	base
}

func (s *firstComeFirstServe) Policy() Policy { return FirstComeFirstServe }

func (s *firstComeFirstServe) Run() []responses.Interval {
	// sort jobs by arrival time, ties keep submission order
	s.pm.SortReady(byArrival)

	for s.pm.HasReadyProcesses() || s.pm.Current() != nil {
		if s.pm.Current() == nil {
			next := s.pm.PeekReady()
			s.clock = max(s.clock, next.ArrivalTime)
			s.pm.ContextSwitch(s.clock)
		}
		s.runToCompletion()
	}
	return s.Timeline()
}
