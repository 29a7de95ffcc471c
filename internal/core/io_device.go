package core

import (
	"log/slog"

	"os-scheduler/internal/logger"
)

// BlockCurrentProcess moves the running process to the blocked queue, as if
// it had issued an I/O request. No-op when the CPU is idle.
func (m *Manager) BlockCurrentProcess(clock int) {
	m.mu.Lock()
	var events []Event
	if p := m.current; p != nil {
		m.transition(p, StateBlocked, clock, &events)
		m.blocked = append(m.blocked, p)
		m.current = nil
		m.log.Debug("io request", logger.PIDAttr(p.PID), slog.Int("clock", clock))
	}
	m.mu.Unlock()

	m.notify(events)
}

// UnblockProcess returns a blocked process to the tail of the ready queue.
// It reports false when p is not blocked.
func (m *Manager) UnblockProcess(p *Process, clock int) bool {
	m.mu.Lock()
	var events []Event
	i := indexOf(m.blocked, p)
	if i >= 0 {
		m.blocked = append(m.blocked[:i], m.blocked[i+1:]...)
		m.transition(p, StateReady, clock, &events)
		m.ready = append(m.ready, p)
		m.log.Debug("io done", logger.PIDAttr(p.PID), slog.Int("clock", clock))
	}
	m.mu.Unlock()

	m.notify(events)
	return i >= 0
}

// Blocked returns the blocked queue in order.
func (m *Manager) Blocked() []*Process {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Process(nil), m.blocked...)
}
