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

package servo

import (
	"container/ring"
	"math"

	"github.com/eclesh/welford"
	log "github.com/sirupsen/logrus"
)

type filterState uint8

const (
	filterNoSpike filterState = iota
	filterSpike
	filterReset
)

// FreqServoCfg is a frequency servo config
type FreqServoCfg struct {
	// MinSampleInterval is the minimum local time in ms between two samples
	MinSampleInterval uint64
	// PullIn is the time in ms over which a residual offset is removed by
	// running the clock slower or faster
	PullIn float64
}

// FreqServoFilterCfg is a filter configuration
type FreqServoFilterCfg struct {
	MinOffsetLocked int64   // offsets in ms below it are never spikes
	StdevFactor     float64 // offsets beyond StdevFactor standard deviations are spikes
	MaxSkipCount    int     // how many spikes in a row reset the servo
	RingSize        int     // how many samples are used for statistics
}

// FreqServoFilterSample is a sample remembered by filter
type FreqServoFilterSample struct {
	offset int64
	err    float64
}

// FreqServoFilter is a filter state structure
type FreqServoFilter struct {
	offsetStdev  float64
	errMean      float64
	skippedCount int
	samples      *ring.Ring
	samplesCount int
	cfg          *FreqServoFilterCfg
}

// FreqServo estimates fractional frequency error from offsets
type FreqServo struct {
	Servo
	offset    int64
	local     uint64
	count     int
	drift     float64
	lastError float64
	filter    *FreqServoFilter
	cfg       *FreqServoCfg
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Sample processes an offset in ms (local minus reference) measured at local time localTs in ms.
// It returns estimated fractional frequency error of the local clock.
func (s *FreqServo) Sample(offset int64, localTs uint64) (float64, State) {
	sOffset := abs(offset)
	if s.shouldStep(sOffset) {
		log.Infof("servo: offset %dms is over step threshold", offset)
		s.FirstUpdate = false
		s.count = 0
		if s.filter != nil {
			s.filter.Reset()
		}
		return s.lastError, StateJump
	}
	s.FirstUpdate = false

	if s.count == 0 {
		s.offset = offset
		s.local = localTs
		s.count = 1
		return s.lastError, StateInit
	}

	if localTs <= s.local {
		log.Warningf("servo: local time went back from %d to %d, restarting", s.local, localTs)
		s.count = 0
		return s.lastError, StateInit
	}
	dt := localTs - s.local
	if dt < s.cfg.MinSampleInterval {
		log.Warningf("servo Sample is called too often, not enough time passed since previous sample")
		if s.count == 1 {
			return s.lastError, StateInit
		}
		return s.lastError, StateLocked
	}

	switch s.isSpike(offset) {
	case filterSpike:
		s.filter.skippedCount++ // it's safe because fState can only be filterNoSpike without filter
		log.Warningf("servo filtered out offset %dms", offset)
		return s.MeanError(), StateFilter
	case filterReset:
		s.count = 0
		s.drift = 0
		s.lastError = 0
		s.filter.Reset()
		log.Warning("servo was reset")
		return s.lastError, StateInit
	}

	// how fast offset changed with the error we already compensate for
	residual := float64(offset-s.offset) / float64(dt)
	s.drift = s.clamp(s.lastError + residual)
	s.lastError = s.clamp(s.drift + float64(offset)/s.cfg.PullIn)
	log.Debugf("servo: offset %dms, dt %dms, residual %.3e, error %.3e", offset, dt, residual, s.lastError)

	s.offset = offset
	s.local = localTs
	s.count = 2
	if s.filter != nil {
		s.filter.Sample(&FreqServoFilterSample{offset: offset, err: s.lastError})
		s.filter.skippedCount = 0
	}
	return s.lastError, StateLocked
}

// Adjusted tells the servo the clock was shifted by delta ms after the last sample
func (s *FreqServo) Adjusted(delta int64) {
	s.offset += delta
}

// Reset forgets everything but the configuration
func (s *FreqServo) Reset() {
	s.count = 0
	s.drift = 0
	s.lastError = 0
	if s.filter != nil {
		s.filter.Reset()
	}
}

// SetLastError tells the servo which error the clock is actually corrected by
func (s *FreqServo) SetLastError(e float64) {
	s.lastError = e
}

// LastError returns the last estimated error
func (s *FreqServo) LastError() float64 {
	return s.lastError
}

func (s *FreqServo) isSpike(offset int64) filterState {
	if s.filter == nil {
		return filterNoSpike
	}
	return s.filter.isSpike(offset)
}

// MeanError to return best calculated error
func (s *FreqServo) MeanError() float64 {
	if s.filter != nil && s.filter.samplesCount > 0 {
		return s.filter.MeanError()
	}
	return s.lastError
}

// isSpike is used to check whether supplied offset is spike or not
func (f *FreqServoFilter) isSpike(offset int64) filterState {
	if f.skippedCount >= f.cfg.MaxSkipCount {
		return filterReset
	}
	maxOffsetLocked := int64(f.cfg.StdevFactor * f.offsetStdev)
	if maxOffsetLocked < f.cfg.MinOffsetLocked {
		maxOffsetLocked = f.cfg.MinOffsetLocked
	}
	if abs(offset) > maxOffsetLocked {
		return filterSpike
	}
	return filterNoSpike
}

// Sample to add a sample to filter and recalculate value
func (f *FreqServoFilter) Sample(s *FreqServoFilterSample) {
	f.samples.Value = s
	f.samples = f.samples.Next()
	if f.samplesCount != f.cfg.RingSize {
		f.samplesCount++
	}
	offsets := welford.New()
	errs := welford.New()
	f.samples.Do(func(val any) {
		if val == nil {
			return
		}
		v := val.(*FreqServoFilterSample)
		offsets.Add(float64(v.offset))
		errs.Add(v.err)
	})
	// offsets are centered around zero when locked
	f.offsetStdev = math.Sqrt(offsets.Variance() + offsets.Mean()*offsets.Mean())
	f.errMean = errs.Mean()
}

// Reset - cleanup and restart filter
func (f *FreqServoFilter) Reset() {
	f.samples = ring.New(f.cfg.RingSize)
	f.offsetStdev = 0
	f.errMean = 0
	f.skippedCount = 0
	f.samplesCount = 0
}

// MeanError to return mean error of the recent samples
func (f *FreqServoFilter) MeanError() float64 {
	return f.errMean
}

// NewFreqServo to create servo structure
func NewFreqServo(s Servo, cfg *FreqServoCfg) *FreqServo {
	return &FreqServo{
		Servo: s,
		cfg:   cfg,
	}
}

// NewFreqServoFilter to create new filter instance
func NewFreqServoFilter(s *FreqServo, cfg *FreqServoFilterCfg) *FreqServoFilter {
	filter := &FreqServoFilter{
		cfg: cfg,
	}
	filter.Reset()
	s.filter = filter
	return filter
}

// DefaultFreqServoCfg to create default servo config
func DefaultFreqServoCfg() *FreqServoCfg {
	return &FreqServoCfg{
		MinSampleInterval: 1000,
		PullIn:            600000,
	}
}

// DefaultFreqServoFilterCfg to create a default servo filter config
func DefaultFreqServoFilterCfg() *FreqServoFilterCfg {
	return &FreqServoFilterCfg{
		MinOffsetLocked: 100,
		StdevFactor:     3.0,
		MaxSkipCount:    5,
		RingSize:        16,
	}
}
