package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	SourcesFetched    int64
	SourcesFailed     int64
	ItemsCollected    int64
	ItemsInserted     int64
	DuplicatesSkipped int64
	RowsExpired       int64

	// Status
	LastRunDuration time.Duration
	LastRunTime     time.Time
	LastErrorTime   time.Time
	LastError       string
	IsHealthy       bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementSourcesFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFetched++
}

func (m *Metrics) IncrementSourcesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed++
}

func (m *Metrics) IncrementDuplicatesSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesSkipped++
}

func (m *Metrics) AddItemsCollected(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsCollected += n
}

func (m *Metrics) AddItemsInserted(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsInserted += n
}

func (m *Metrics) AddRowsExpired(n int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RowsExpired += n
}

func (m *Metrics) RecordRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = duration
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"sources_fetched":      m.SourcesFetched,
		"sources_failed":       m.SourcesFailed,
		"items_collected":      m.ItemsCollected,
		"items_inserted":       m.ItemsInserted,
		"duplicates_skipped":   m.DuplicatesSkipped,
		"rows_expired":         m.RowsExpired,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
