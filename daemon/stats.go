/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package daemon

import (
	"sync"
)

// Counter names a metric the daemon reports
type Counter string

// Metrics maintained by Daemon
const (
	// measured
	StatOffsetMS Counter = "offset_ms"
	StatRTTMS    Counter = "rtt_ms"
	// calculated
	StatErrorPPB          Counter = "error_ppb"
	StatCorrectedErrorPPB Counter = "corrected_error_ppb"
	StatDriftIntervalS    Counter = "drift_interval_s"
	StatDriftStepMS       Counter = "drift_step_ms"
	StatServoState        Counter = "servo_state"
	StatClockStatus       Counter = "clock_status"
	// events
	StatSteps       Counter = "steps"
	StatAdjustments Counter = "adjustments"
	StatFiltered    Counter = "filtered"
	// errors
	StatReferenceError  Counter = "reference_error"
	StatProcessingError Counter = "processing_error"
)

// daemonCounters are registered by New so they are exported before the first sample
var daemonCounters = []Counter{
	StatOffsetMS,
	StatRTTMS,
	StatErrorPPB,
	StatCorrectedErrorPPB,
	StatDriftIntervalS,
	StatDriftStepMS,
	StatServoState,
	StatClockStatus,
	StatSteps,
	StatAdjustments,
	StatFiltered,
	StatReferenceError,
	StatProcessingError,
}

// StatsServer receives daemon metrics
type StatsServer interface {
	Set(c Counter, val int64)
	Inc(c Counter)
	// Merge sets a batch of free-form metrics, like process stats
	Merge(vals map[string]int64)
}

// Stats keeps the latest value of every metric.
// Snapshot is shared by JSON and Prometheus exporters.
type Stats struct {
	sync.Mutex
	values map[Counter]int64
}

// NewStats returns empty Stats
func NewStats() *Stats {
	return &Stats{values: map[Counter]int64{}}
}

// Set stores the value of c
func (s *Stats) Set(c Counter, val int64) {
	s.Lock()
	defer s.Unlock()
	s.values[c] = val
}

// Inc counts one more event of c
func (s *Stats) Inc(c Counter) {
	s.Lock()
	defer s.Unlock()
	s.values[c]++
}

// Merge implements StatsServer
func (s *Stats) Merge(vals map[string]int64) {
	s.Lock()
	defer s.Unlock()
	for k, v := range vals {
		s.values[Counter(k)] = v
	}
}

// Value returns current value of c, 0 if it was never set
func (s *Stats) Value(c Counter) int64 {
	s.Lock()
	defer s.Unlock()
	return s.values[c]
}

// Snapshot returns a copy of all metrics keyed by name
func (s *Stats) Snapshot() map[string]int64 {
	s.Lock()
	defer s.Unlock()
	res := make(map[string]int64, len(s.values))
	for c, v := range s.values {
		res[string(c)] = v
	}
	return res
}
