package core

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"os-scheduler/internal/logger"
)

var ErrManagerClaimed = errors.New("process manager already claimed by a scheduler")

// Event describes one state transition performed by the manager.
type Event struct {
	PID   int
	From  ProcessState
	To    ProcessState
	Clock int
}

// Counts is a snapshot of where every created process currently sits.
type Counts struct {
	Created    int
	Ready      int
	Blocked    int
	Running    int
	Terminated int
}

// Located returns the number of processes found in any queue or on the CPU.
func (c Counts) Located() int {
	return c.Ready + c.Blocked + c.Running + c.Terminated
}

type Option func(*Manager)

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithObserver registers fn to receive every transition after the manager
// has released its lock, so fn may call back into the manager.
func WithObserver(fn func(Event)) Option {
	return func(m *Manager) {
		if fn != nil {
			m.observers = append(m.observers, fn)
		}
	}
}

// Manager owns every process of one simulation: the ready queue, the blocked
// queue, the terminated list and the single CPU slot. All state changes go
// through its methods.
type Manager struct {
	mu sync.Mutex

	ready      []*Process
	blocked    []*Process
	terminated []*Process
	current    *Process

	created  int
	switches int
	claimed  bool

	log       *slog.Logger
	observers []func(Event)
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{log: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Claim binds the manager to a single scheduler for the rest of its life.
func (m *Manager) Claim() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimed {
		return ErrManagerClaimed
	}
	m.claimed = true
	return nil
}

// CreateProcess builds a process, marks it ready and appends it to the tail
// of the ready queue. Callers guarantee pid uniqueness.
func (m *Manager) CreateProcess(pid, burst, arrival, priority int, user string) *Process {
	p := NewProcess(pid, burst, arrival, priority, user)

	m.mu.Lock()
	var events []Event
	m.transition(p, StateReady, arrival, &events)
	m.ready = append(m.ready, p)
	m.created++
	m.mu.Unlock()

	m.notify(events)
	return p
}

// ContextSwitch requeues the running process (if any) at the tail of the
// ready queue and promotes the head of the ready queue onto the CPU.
func (m *Manager) ContextSwitch(clock int) {
	m.mu.Lock()
	var events []Event
	if m.current != nil && m.current.State != StateTerminated {
		m.transition(m.current, StateReady, clock, &events)
		m.ready = append(m.ready, m.current)
	}
	m.current = nil
	if len(m.ready) > 0 {
		next := m.ready[0]
		m.ready[0] = nil
		m.ready = m.ready[1:]
		m.transition(next, StateRunning, clock, &events)
		m.current = next
		m.switches++
		m.log.Debug("dispatch", logger.PIDAttr(next.PID), slog.Int("clock", clock))
	}
	m.mu.Unlock()

	m.notify(events)
}

// ExecuteCurrent advances the running process; no-op when the CPU is idle.
func (m *Manager) ExecuteCurrent(units int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.Advance(units)
	}
}

// TerminateCurrentProcess retires the running process at clock.
func (m *Manager) TerminateCurrentProcess(clock int) {
	m.mu.Lock()
	var events []Event
	if p := m.current; p != nil {
		m.transition(p, StateTerminated, clock, &events)
		m.terminated = append(m.terminated, p)
		m.current = nil
		m.log.Debug("terminated", logger.PIDAttr(p.PID), slog.Int("clock", clock),
			slog.Int("turnaround", p.TurnaroundTime), slog.Int("waiting", p.WaitingTime))
	}
	m.mu.Unlock()

	m.notify(events)
}

func (m *Manager) HasReadyProcesses() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ready) > 0
}

func (m *Manager) Current() *Process {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// PeekReady returns the head of the ready queue or nil.
func (m *Manager) PeekReady() *Process {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ready) == 0 {
		return nil
	}
	return m.ready[0]
}

// ReadyQueue returns the ready queue in order. The slice is a copy; the
// processes are shared.
func (m *Manager) ReadyQueue() []*Process {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Process(nil), m.ready...)
}

// SortReady stably reorders the ready queue.
func (m *Manager) SortReady(less func(a, b *Process) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sort.SliceStable(m.ready, func(i, j int) bool {
		return less(m.ready[i], m.ready[j])
	})
}

// MoveToFront moves p to the head of the ready queue, keeping the relative
// order of the others. It reports false when p is not ready.
func (m *Manager) MoveToFront(p *Process) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := indexOf(m.ready, p)
	if i < 0 {
		return false
	}
	copy(m.ready[1:i+1], m.ready[:i])
	m.ready[0] = p
	return true
}

// Terminated returns the terminated processes in completion order.
func (m *Manager) Terminated() []*Process {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Process(nil), m.terminated...)
}

func (m *Manager) Counts() Counts {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := Counts{
		Created:    m.created,
		Ready:      len(m.ready),
		Blocked:    len(m.blocked),
		Terminated: len(m.terminated),
	}
	if m.current != nil {
		c.Running = 1
	}
	return c
}

// ContextSwitches returns how many times a process was put on the CPU.
func (m *Manager) ContextSwitches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.switches
}

// transition must be called with m.mu held. A refused transition means a
// manager primitive broke the lifecycle, which is a programming error.
func (m *Manager) transition(p *Process, to ProcessState, clock int, events *[]Event) {
	from := p.State
	if err := p.Transition(to, clock); err != nil {
		panic(err)
	}
	*events = append(*events, Event{PID: p.PID, From: from, To: to, Clock: clock})
}

func (m *Manager) notify(events []Event) {
	for _, e := range events {
		for _, fn := range m.observers {
			fn(e)
		}
	}
}

func indexOf(queue []*Process, p *Process) int {
	for i, q := range queue {
		if q == p {
			return i
		}
	}
	return -1
}
