// Package metrics is a small observability counter for session health,
// trimmed from a general-purpose HTTP request tracker down to what this
// driver's session controller actually produces: counts of requests sent
// by command, responses received, error responses, and events received by
// type. It is pure bookkeeping, wired nowhere into protocol semantics.
package metrics

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time read of the tracker's counters.
type Snapshot struct {
	StartedAt       time.Time      `json:"startedAt"`
	UptimeSeconds   float64        `json:"uptimeSeconds"`
	RequestsByCmd   map[string]int64 `json:"requestsByCommand"`
	ResponsesOK     int64          `json:"responsesOk"`
	ResponsesError  int64          `json:"responsesError"`
	EventsByType    map[string]int64 `json:"eventsByType"`
}

// Tracker aggregates session counters. Safe for concurrent use; the
// controller's single event loop is the only writer in practice, and
// Snapshot may be read from another goroutine. The editor IPC socket does
// not serve a metrics query.
type Tracker struct {
	mu             sync.Mutex
	startedAt      time.Time
	requestsByCmd  map[string]int64
	responsesOK    int64
	responsesError int64
	eventsByType   map[string]int64
}

// NewTracker returns a tracker whose uptime clock starts now.
func NewTracker() *Tracker {
	return &Tracker{
		startedAt:     time.Now(),
		requestsByCmd: make(map[string]int64),
		eventsByType:  make(map[string]int64),
	}
}

// RecordRequest records an outbound request by its DAP command name.
func (t *Tracker) RecordRequest(command string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requestsByCmd[command]++
}

// RecordResponse records an inbound response's success flag.
func (t *Tracker) RecordResponse(success bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if success {
		t.responsesOK++
	} else {
		t.responsesError++
	}
}

// RecordEvent records an inbound event by its DAP event name.
func (t *Tracker) RecordEvent(event string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eventsByType[event]++
}

// Snapshot returns a copy of the current counters.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	requestsByCmd := make(map[string]int64, len(t.requestsByCmd))
	for k, v := range t.requestsByCmd {
		requestsByCmd[k] = v
	}
	eventsByType := make(map[string]int64, len(t.eventsByType))
	for k, v := range t.eventsByType {
		eventsByType[k] = v
	}

	return Snapshot{
		StartedAt:      t.startedAt,
		UptimeSeconds:  time.Since(t.startedAt).Seconds(),
		RequestsByCmd:  requestsByCmd,
		ResponsesOK:    t.responsesOK,
		ResponsesError: t.responsesError,
		EventsByType:   eventsByType,
	}
}
