package core

import (
	"errors"
	"fmt"
)

// ProcessState is the lifecycle state of a simulated process.
type ProcessState string

const (
	StateNew        ProcessState = "new"
	StateReady      ProcessState = "ready"
	StateRunning    ProcessState = "running"
	StateBlocked    ProcessState = "blocked"
	StateTerminated ProcessState = "terminated"
)

// NotStarted marks a process that has never been dispatched.
const NotStarted = -1

var ErrInvalidTransition = errors.New("invalid process state transition")

var transitions = map[ProcessState][]ProcessState{
	StateNew:     {StateReady},
	StateReady:   {StateRunning},
	StateRunning: {StateReady, StateBlocked, StateTerminated},
	StateBlocked: {StateReady},
}

// CanTransition reports whether from -> to is a legal lifecycle edge.
func CanTransition(from, to ProcessState) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Process is the record of one simulated process: identity fixed at creation
// plus the runtime state the manager mutates while scheduling it.
type Process struct {
	PID         int
	User        string
	ArrivalTime int
	BurstTime   int
	Priority    int // lower is higher priority; not read by any policy

	State          ProcessState
	RemainingTime  int
	ProgramCounter int

	StartTime      int
	CompletionTime int
	WaitingTime    int
	TurnaroundTime int
	ResponseTime   int
}

// NewProcess returns a process in StateNew with its full burst remaining.
func NewProcess(pid, burst, arrival, priority int, user string) *Process {
	return &Process{
		PID:           pid,
		User:          user,
		ArrivalTime:   arrival,
		BurstTime:     burst,
		Priority:      priority,
		State:         StateNew,
		RemainingTime: burst,
		StartTime:     NotStarted,
	}
}

// Transition moves the process to state at the given clock. The first move
// into StateRunning stamps StartTime; the move into StateTerminated stamps
// CompletionTime and derives the per-process metrics.
func (p *Process) Transition(state ProcessState, clock int) error {
	if !CanTransition(p.State, state) {
		return fmt.Errorf("%w: pid %d %s -> %s", ErrInvalidTransition, p.PID, p.State, state)
	}
	p.State = state
	switch state {
	case StateRunning:
		if p.StartTime == NotStarted {
			p.StartTime = clock
		}
	case StateTerminated:
		p.CompletionTime = clock
		p.TurnaroundTime = p.CompletionTime - p.ArrivalTime
		p.WaitingTime = p.TurnaroundTime - p.BurstTime
		if p.StartTime != NotStarted {
			p.ResponseTime = p.StartTime - p.ArrivalTime
		}
	}
	return nil
}

// Advance simulates units of CPU time spent on the process.
func (p *Process) Advance(units int) {
	p.RemainingTime = max(0, p.RemainingTime-units)
	p.ProgramCounter += units
}

func (p *Process) IsFinished() bool {
	return p.RemainingTime <= 0
}

func (p *Process) String() string {
	return fmt.Sprintf("Process(PID=%d, User=%s, State=%s, Remaining=%d, Priority=%d)",
		p.PID, p.User, p.State, p.RemainingTime, p.Priority)
}
