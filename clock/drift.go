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
	"errors"
	"math"

	log "github.com/sirupsen/logrus"
)

// Drift correction limits. One millisecond every 2s is 500ppm,
// one millisecond every 1000s is 1ppm.
const (
	MinDriftInterval = 2
	MaxDriftInterval = 1000
)

// errorScale converts fractional error into correction interval
const errorScale = 0.001

// Drift correction errors
var (
	ErrTimeNotSet      = errors.New("time must be set")
	ErrInvalidStep     = errors.New("invalid adjustment direction")
	ErrInvalidInterval = errors.New("invalid step interval")
)

// ResultCode maps drift correction errors to numeric codes:
// 0 on success, -1 for an invalid parameter, -2 when time is not set
func ResultCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrTimeNotSet):
		return -2
	}
	return -1
}

// correct applies all due drift corrections. Must be called with mu held.
func (c *Clock) correct() {
	interval := uint32(c.driftInterval)
	due := (c.sysTime-c.nextDrift)/interval + 1
	// moving the baseline back makes the clock go faster, and vice versa
	c.prevMillis -= uint32(int32(c.driftStep) * int32(due))
	c.nextDrift += due * interval
}

// SetDriftCorrection makes the clock add stepMillis every intervalSeconds.
// stepMillis of 1 speeds the clock up, -1 slows it down, 0 disables correction.
// The step is added to reported time, so it is subtracted from the tick baseline.
func (c *Clock) SetDriftCorrection(intervalSeconds uint16, stepMillis int8) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.integrate()
	if c.status == NotSet {
		return ErrTimeNotSet
	}
	if stepMillis < -1 || stepMillis > 1 {
		return ErrInvalidStep
	}
	if intervalSeconds < MinDriftInterval || intervalSeconds > MaxDriftInterval {
		return ErrInvalidInterval
	}
	c.driftInterval = intervalSeconds
	c.driftStep = stepMillis
	c.nextDrift = c.sysTime + uint32(intervalSeconds)
	log.Debugf("clock drift correction: %+dms every %ds", stepMillis, intervalSeconds)
	return nil
}

// SetDriftCorrectionByError configures drift correction from a fractional
// frequency error: positive when the local clock runs fast, negative when slow.
func (c *Clock) SetDriftCorrectionByError(fractionalError float64) error {
	if math.IsNaN(fractionalError) {
		return ErrInvalidInterval
	}
	if fractionalError == 0 {
		return c.SetDriftCorrection(MinDriftInterval, 0)
	}
	var step int8 = 1
	if fractionalError > 0 {
		step = -1
	}
	interval := errorScale/math.Abs(fractionalError) + 0.5
	if interval > MaxDriftInterval {
		interval = MaxDriftInterval
	}
	if interval < MinDriftInterval {
		interval = MinDriftInterval
	}
	return c.SetDriftCorrection(uint16(interval), step)
}

// CompensatedError returns fractional error compensated by drift correction settings
func CompensatedError(intervalSeconds uint16, stepMillis int8) float64 {
	if stepMillis == 0 || intervalSeconds == 0 {
		return 0
	}
	return -float64(stepMillis) * errorScale / float64(intervalSeconds)
}

// Drift returns current drift correction settings
func (c *Clock) Drift() (intervalSeconds uint16, stepMillis int8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.driftInterval, c.driftStep
}
