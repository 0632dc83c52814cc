package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu             sync.Mutex
	requestCount   map[string]int64
	errorCount     map[string]int64
	scheduleRuns   map[string]int64
	violations     int64
	breaksPlaced   int64
	requestLatency time.Duration
}

// MetricsSnapshot is a point-in-time copy of the counters.
type MetricsSnapshot struct {
	Requests         map[string]int64 `json:"requests"`
	Errors           map[string]int64 `json:"errors"`
	ScheduleRuns     map[string]int64 `json:"schedule_runs"`
	Violations       int64            `json:"violations"`
	BreaksPlaced     int64            `json:"breaks_placed"`
	RequestLatencyMS int64            `json:"request_latency_ms_total"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		scheduleRuns: make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.requestLatency += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordScheduleRun counts a planner operation such as "generate" or "validate".
func (m *Metrics) RecordScheduleRun(operation string, breaks int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scheduleRuns[operation]++
	m.breaksPlaced += int64(breaks)
}

// RecordViolations adds to the running violation total.
func (m *Metrics) RecordViolations(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.violations += int64(n)
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		Requests:         copyCounts(m.requestCount),
		Errors:           copyCounts(m.errorCount),
		ScheduleRuns:     copyCounts(m.scheduleRuns),
		Violations:       m.violations,
		BreaksPlaced:     m.breaksPlaced,
		RequestLatencyMS: m.requestLatency.Milliseconds(),
	}
}

func copyCounts(src map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
