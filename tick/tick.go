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

/*
Package tick provides free-running millisecond counters.

A counter is 32 bits wide and wraps around every ~49.7 days, the same way
a hardware timer or millis() on a microcontroller does. Consumers must
measure elapsed time with unsigned subtraction, which stays correct
across the wrap.
*/
package tick

import (
	"sync/atomic"
)

//go:generate mockgen -source=tick.go -destination=mock_tick.go -package=tick

// Source is a free-running millisecond counter
type Source interface {
	Millis() uint32
}

// Since returns milliseconds elapsed from sample to now.
// The subtraction is modulo 2^32 on purpose: it yields the true forward
// distance even when the counter wrapped in between.
func Since(now, sample uint32) uint32 {
	return now - sample
}

// Manual is a counter moved by hand, used in tests and simulations
type Manual struct {
	ms atomic.Uint32
}

// NewManual returns Manual counter starting at ms
func NewManual(ms uint32) *Manual {
	m := &Manual{}
	m.ms.Store(ms)
	return m
}

// Millis returns current counter value
func (m *Manual) Millis() uint32 {
	return m.ms.Load()
}

// Advance moves counter forward by ms, wrapping at 2^32
func (m *Manual) Advance(ms uint32) {
	m.ms.Add(ms)
}

// Set sets counter to ms
func (m *Manual) Set(ms uint32) {
	m.ms.Store(ms)
}
