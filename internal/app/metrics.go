package app

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/richedit/internal/event/events"
)

// Metrics tracks editing activity.
type Metrics struct {
	mu sync.RWMutex

	// Document changes by origin
	changes     map[events.Origin]uint64
	steps       atomic.Uint64
	replaced    atomic.Uint64
	lastChangeT atomic.Int64

	// Script runs
	scriptCount   atomic.Uint64
	scriptFailed  atomic.Uint64
	scriptTotalNs atomic.Int64
	scriptMaxNs   atomic.Int64

	// Reloads
	schemaReloads atomic.Uint64
	configReloads atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		changes:   make(map[events.Origin]uint64),
		startTime: time.Now(),
	}
}

// RecordChange records an applied change and its step count.
func (m *Metrics) RecordChange(origin events.Origin, steps int) {
	m.mu.Lock()
	m.changes[origin]++
	m.mu.Unlock()
	m.steps.Add(uint64(steps))
	m.lastChangeT.Store(time.Now().UnixNano())
}

// RecordReplace records a wholesale document replacement.
func (m *Metrics) RecordReplace() {
	m.replaced.Add(1)
	m.lastChangeT.Store(time.Now().UnixNano())
}

// RecordScript records a script run.
func (m *Metrics) RecordScript(duration time.Duration, err error) {
	ns := duration.Nanoseconds()
	m.scriptCount.Add(1)
	m.scriptTotalNs.Add(ns)
	if err != nil {
		m.scriptFailed.Add(1)
	}

	// Update max (atomic compare-and-swap loop)
	for {
		old := m.scriptMaxNs.Load()
		if ns <= old {
			break
		}
		if m.scriptMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordSchemaReload records a successful schema reload.
func (m *Metrics) RecordSchemaReload() {
	m.schemaReloads.Add(1)
}

// RecordConfigReload records a successful settings reload.
func (m *Metrics) RecordConfigReload() {
	m.configReloads.Add(1)
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	changes := make(map[events.Origin]uint64, len(m.changes))
	for origin, n := range m.changes {
		changes[origin] = n
	}
	m.mu.RUnlock()

	scriptCount := m.scriptCount.Load()
	var avgScriptNs int64
	if scriptCount > 0 {
		avgScriptNs = m.scriptTotalNs.Load() / int64(scriptCount)
	}

	var lastChange time.Time
	if ns := m.lastChangeT.Load(); ns != 0 {
		lastChange = time.Unix(0, ns)
	}

	return MetricsSnapshot{
		Uptime:        time.Since(m.startTime),
		Changes:       changes,
		Steps:         m.steps.Load(),
		Replaced:      m.replaced.Load(),
		LastChange:    lastChange,
		ScriptCount:   scriptCount,
		ScriptFailed:  m.scriptFailed.Load(),
		AvgScriptNs:   avgScriptNs,
		MaxScriptNs:   m.scriptMaxNs.Load(),
		SchemaReloads: m.schemaReloads.Load(),
		ConfigReloads: m.configReloads.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime        time.Duration
	Changes       map[events.Origin]uint64
	Steps         uint64
	Replaced      uint64
	LastChange    time.Time
	ScriptCount   uint64
	ScriptFailed  uint64
	AvgScriptNs   int64
	MaxScriptNs   int64
	SchemaReloads uint64
	ConfigReloads uint64
}

// TotalChanges returns the number of applied changes of any origin.
func (s MetricsSnapshot) TotalChanges() uint64 {
	var n uint64
	for _, c := range s.Changes {
		n += c
	}
	return n
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
