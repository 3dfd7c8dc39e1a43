// Copyright 2025 The GeoConverter Authors
// SPDX-License-Identifier: Apache-2.0

package webui

import (
	"sync"
	"time"

	"github.com/Connerpang/geo-converter/tabular"
)

type jobState string

const (
	stateRunning   jobState = "running"
	stateCompleted jobState = "completed"
	stateCancelled jobState = "cancelled"
	stateFailed    jobState = "failed"
)

// job is the single in-flight (or last finished) geocoding run. The
// server allows one at a time: the upstream rate limit makes parallel
// batches pointless.
type job struct {
	mu         sync.Mutex
	state      jobState
	processed  int
	total      int
	successful int
	failed     int
	started    time.Time
	finished   time.Time
	err        error
	result     *tabular.Table
	cancel     func()
}

// jobStatus is the JSON snapshot served to the progress poller.
type jobStatus struct {
	State          string  `json:"state"`
	Processed      int     `json:"processed"`
	Total          int     `json:"total"`
	Successful     int     `json:"successful"`
	Failed         int     `json:"failed"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	EtaSeconds     float64 `json:"eta_seconds"`
	Error          string  `json:"error,omitempty"`
}

func (j *job) running() bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.state == stateRunning
}

func (j *job) snapshot() jobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()

	status := jobStatus{
		State:      string(j.state),
		Processed:  j.processed,
		Total:      j.total,
		Successful: j.successful,
		Failed:     j.failed,
	}

	if j.err != nil {
		status.Error = j.err.Error()
	}

	end := j.finished
	if j.state == stateRunning {
		end = time.Now()
	}

	elapsed := end.Sub(j.started).Seconds()
	status.ElapsedSeconds = elapsed

	// ETA extrapolates the average time per processed row over the
	// remainder. Meaningless before the first row completes.
	if j.state == stateRunning && j.processed > 0 {
		status.EtaSeconds = elapsed / float64(j.processed) * float64(j.total-j.processed)
	}

	return status
}
