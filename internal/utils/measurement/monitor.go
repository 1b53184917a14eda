package measurement

import "time"

// Monitor measures a single execution of a point.
type Monitor interface {
	Start()
	Stop() bool
	SetError()
	Accrued() time.Duration
}

var (
	_ Monitor = (*defaultMonitor)(nil)
	_ Monitor = (*nullMonitor)(nil)
)

type defaultMonitor struct {
	point   *Point
	start   time.Time
	accrued time.Duration
	running bool
	failed  bool
}

func (m *defaultMonitor) Start() {
	m.start = time.Now()
	m.running = true
}

func (m *defaultMonitor) Stop() bool {
	if !m.running {
		return false
	}
	m.running = false
	m.accrued = time.Since(m.start)
	m.point.process(m.accrued, m.failed)
	return true
}

func (m *defaultMonitor) SetError() {
	m.failed = true
}

func (m *defaultMonitor) Accrued() time.Duration {
	if m.running {
		return time.Since(m.start)
	}
	return m.accrued
}

// nullMonitor is used when measuring is switched off.
type nullMonitor struct{}

func (m *nullMonitor) Start()                 {}
func (m *nullMonitor) Stop() bool             { return true }
func (m *nullMonitor) SetError()              {}
func (m *nullMonitor) Accrued() time.Duration { return 0 }
