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

package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/embedtime/softclock/calendar"
	"github.com/embedtime/softclock/tick"

	log "github.com/sirupsen/logrus"
)

// Status tells whether the clock was set from a reference
type Status uint8

// All the clock statuses
const (
	// NotSet means time was never set, Now counts seconds since start
	NotSet Status = iota
	// Set means time was set from a reference
	Set
	// NeedsSync means time was set, but sync interval passed since then
	NeedsSync
)

func (s Status) String() string {
	switch s {
	case NotSet:
		return "NOT_SET"
	case Set:
		return "SET"
	case NeedsSync:
		return "NEEDS_SYNC"
	}
	return "UNSUPPORTED"
}

// Instant is a point in time captured from the clock
type Instant struct {
	Sec  uint32 // epoch seconds
	Msec uint16 // 0-999
	Raw  uint32 // tick counter reading the instant was taken at
}

func (i Instant) String() string {
	return fmt.Sprintf("%d.%03d", i.Sec, i.Msec)
}

// InstantOf truncates t to milliseconds
func InstantOf(t time.Time) Instant {
	return Instant{Sec: calendar.FromTime(t), Msec: uint16(t.Nanosecond() / int(time.Millisecond))}
}

// Time returns the instant as UTC time
func (i Instant) Time() time.Time {
	return time.Unix(int64(i.Sec), int64(i.Msec)*int64(time.Millisecond)).UTC()
}

// Interval returns signed number of milliseconds from start to end.
// Both instants must come from the same clock.
func Interval(start, end Instant) int32 {
	return int32(end.Sec-start.Sec)*1000 + (int32(end.Msec) - int32(start.Msec))
}

// Clock is a software clock driven by a tick source
type Clock struct {
	mu  sync.Mutex
	src tick.Source

	sysTime    uint32 // integrated epoch seconds
	prevMillis uint32 // tick reading at the top of sysTime
	status     Status

	nextDrift     uint32 // epoch second of the next drift correction
	driftInterval uint16
	driftStep     int8

	lastSync     uint32
	syncInterval uint32

	// last reported instant, reads never go below it until Set or Adjust
	floor      Instant
	floorValid bool

	cache calendar.Cache
}

// New returns a clock which is not set yet
func New(src tick.Source) *Clock {
	return &Clock{
		src:        src,
		prevMillis: src.Millis(),
		status:     NotSet,
	}
}

// integrate folds elapsed ticks into sysTime. Must be called with mu held.
func (c *Clock) integrate() Instant {
	now := c.src.Millis()
	elapsed := tick.Since(now, c.prevMillis)
	secs := elapsed / 1000
	if secs > 1 {
		// keep one second of carry so prevMillis stays at the top of a second
		secs--
		c.sysTime += secs
		c.prevMillis += secs * 1000
		elapsed -= secs * 1000
		secs = 1
	}
	in := Instant{
		Sec:  c.sysTime + secs,
		Msec: uint16(elapsed % 1000),
		Raw:  now,
	}
	if c.driftStep != 0 && c.sysTime >= c.nextDrift {
		c.correct()
	}
	if c.floorValid && before(in, c.floor) {
		// a slowing correction moved the baseline, time stands still until it catches up
		in.Sec, in.Msec = c.floor.Sec, c.floor.Msec
	}
	c.floor = in
	c.floorValid = true
	if c.status == Set && c.syncInterval > 0 && in.Sec >= c.lastSync+c.syncInterval {
		log.Debugf("clock sync interval of %ds passed", c.syncInterval)
		c.status = NeedsSync
	}
	return in
}

// before reports whether a is earlier than b, tolerating wrap of seconds
func before(a, b Instant) bool {
	d := int32(a.Sec - b.Sec)
	return d < 0 || (d == 0 && a.Msec < b.Msec)
}

// NowMs returns current time with millisecond precision
func (c *Clock) NowMs() Instant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.integrate()
}

// Now returns current epoch seconds
func (c *Clock) Now() uint32 {
	return c.NowMs().Sec
}

// Status returns clock status
func (c *Clock) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.integrate()
	return c.status
}

// SetTime is a shortcut for Set
func (c *Clock) SetTime(sec uint32, msec uint16) {
	c.Set(Instant{Sec: sec, Msec: msec})
}

// Set jumps the clock to a given instant. Raw field is ignored.
func (c *Clock) Set(in Instant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prevMillis = c.src.Millis() - uint32(in.Msec%1000)
	c.sysTime = in.Sec
	c.status = Set
	c.lastSync = in.Sec
	c.nextDrift = c.sysTime + uint32(c.driftInterval)
	c.floorValid = false
	log.Debugf("clock set to %s", in)
}

// Adjust shifts the clock by deltaMillis, forward when positive.
// Status is kept and the drift schedule moves together with the clock.
func (c *Clock) Adjust(deltaMillis int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.integrate()
	secs := deltaMillis / 1000
	rem := deltaMillis % 1000
	if rem < 0 {
		rem += 1000
		secs--
	}
	// signed seconds are added modulo 2^32
	c.sysTime += uint32(secs)
	c.nextDrift += uint32(secs)
	c.prevMillis -= uint32(rem)
	c.floorValid = false
	log.Debugf("clock adjusted by %dms", deltaMillis)
}

// SetSyncInterval makes Status report NeedsSync once seconds passed since last Set.
// 0 disables it.
func (c *Clock) SetSyncInterval(seconds uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncInterval = seconds
}
