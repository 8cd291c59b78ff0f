package services

import (
	"sync"
	"time"
)

// Recorder collects request and error counters. Handlers and middleware
// receive it as a dependency instead of mutating package globals, so the
// core stays stateless and tests can use their own instance.
type Recorder struct {
	mu sync.Mutex

	start         time.Time
	total         int64
	successful    int64
	failed        int64
	byMethod      map[string]int64
	byStatus      map[int]int64
	totalDuration time.Duration
}

func NewRecorder() *Recorder {
	return &Recorder{
		start:    time.Now(),
		byMethod: make(map[string]int64),
		byStatus: make(map[int]int64),
	}
}

// Record counts one completed request. Statuses >= 400 count as failed.
func (r *Recorder) Record(method string, status int, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.total++
	if status >= 400 {
		r.failed++
	} else {
		r.successful++
	}
	r.byMethod[method]++
	r.byStatus[status]++
	r.totalDuration += duration
}

// Snapshot returns the counters in the shape the metrics endpoint serves.
func (r *Recorder) Snapshot() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	byMethod := make(map[string]int64, len(r.byMethod))
	for k, v := range r.byMethod {
		byMethod[k] = v
	}
	byStatus := make(map[int]int64, len(r.byStatus))
	for k, v := range r.byStatus {
		byStatus[k] = v
	}

	var avgMs float64
	if r.total > 0 {
		avgMs = float64(r.totalDuration.Milliseconds()) / float64(r.total)
	}

	return map[string]interface{}{
		"uptime": time.Since(r.start).String(),
		"requests": map[string]interface{}{
			"total":      r.total,
			"successful": r.successful,
			"failed":     r.failed,
			"byMethod":   byMethod,
			"byStatus":   byStatus,
		},
		"performance": map[string]interface{}{
			"avgResponseTimeMs": avgMs,
		},
	}
}
