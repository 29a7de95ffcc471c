package requests

import (
	"errors"
	"fmt"
)

var ErrInvalidJob = errors.New("invalid job")

type Job struct {
	ProcessId   int    `json:"process_id"`
	ArrivalTime int    `json:"arrival_time"`
	BurstTime   int    `json:"burst_time"`
	Priority    int    `json:"priority"`
	User        string `json:"user"`
}

type ScheduleRequests struct {
	Jobs []Job `json:"jobs"`
	// Quantum is only read by round-robin; zero means the configured default.
	Quantum int `json:"quantum,omitempty"`
}

// Validate checks that every job can run to completion: unique pid,
// non-negative arrival and a strictly positive burst.
func (r *ScheduleRequests) Validate() error {
	seen := make(map[int]struct{}, len(r.Jobs))
	for i, job := range r.Jobs {
		if _, dup := seen[job.ProcessId]; dup {
			return fmt.Errorf("%w: jobs[%d]: duplicate process_id %d", ErrInvalidJob, i, job.ProcessId)
		}
		seen[job.ProcessId] = struct{}{}
		if job.ArrivalTime < 0 {
			return fmt.Errorf("%w: jobs[%d]: negative arrival_time", ErrInvalidJob, i)
		}
		if job.BurstTime <= 0 {
			return fmt.Errorf("%w: jobs[%d]: burst_time must be positive", ErrInvalidJob, i)
		}
	}
	return nil
}
