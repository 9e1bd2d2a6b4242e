package observability

import (
	"sync"
	"time"
)

// Metrics collects in-process launch statistics. It is a cheap local
// view; exported telemetry goes through Telemetry.
type Metrics struct {
	mu      sync.RWMutex
	perFile map[string]*FileStats
	started time.Time
}

// FileStats holds statistics for a single file name.
type FileStats struct {
	Materialized int64
	Rejected     int64
	Exits        int64
	Successes    int64
	Failures     int64
	LastSeen     time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		perFile: make(map[string]*FileStats),
		started: time.Now(),
	}
}

// RecordMaterialized records a descriptor turned into a handle.
func (m *Metrics) RecordMaterialized(fileName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.statsLocked(fileName)
	stats.Materialized++
	stats.LastSeen = time.Now()
}

// RecordRejected records a descriptor that failed its checks.
func (m *Metrics) RecordRejected(fileName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.statsLocked(fileName)
	stats.Rejected++
	stats.LastSeen = time.Now()
}

// RecordExit records a reported process exit.
func (m *Metrics) RecordExit(fileName string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.statsLocked(fileName)
	stats.Exits++
	if success {
		stats.Successes++
	} else {
		stats.Failures++
	}
	stats.LastSeen = time.Now()
}

// Stats returns a copy of the statistics for a file name.
func (m *Metrics) Stats(fileName string) FileStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if stats, ok := m.perFile[fileName]; ok {
		return *stats
	}
	return FileStats{}
}

// AllStats returns a copy of all per-file statistics.
func (m *Metrics) AllStats() map[string]FileStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]FileStats, len(m.perFile))
	for name, stats := range m.perFile {
		out[name] = *stats
	}
	return out
}

// Uptime returns how long this collector has been running.
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.started)
}

func (m *Metrics) statsLocked(fileName string) *FileStats {
	stats, ok := m.perFile[fileName]
	if !ok {
		stats = &FileStats{}
		m.perFile[fileName] = stats
	}
	return stats
}
