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
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateString(t *testing.T) {
	require.Equal(t, "INIT", StateInit.String())
	require.Equal(t, "JUMP", StateJump.String())
	require.Equal(t, "LOCKED", StateLocked.String())
	require.Equal(t, "FILTER", StateFilter.String())
	require.Equal(t, "UNSUPPORTED", State(42).String())
}

// simulate a local clock with a constant error, corrected by the servo output
func TestFreqServoConverges(t *testing.T) {
	for _, trueErr := range []float64{1e-4, -3e-5, 2e-6} {
		s := NewFreqServo(DefaultServoConfig(), DefaultFreqServoCfg())
		NewFreqServoFilter(s, DefaultFreqServoFilterCfg())
		var offset, estimate float64
		var local uint64
		dt := uint64(64000)
		for i := 0; i < 30; i++ {
			var state State
			estimate, state = s.Sample(int64(math.Round(offset)), local)
			if i == 0 {
				require.Equal(t, StateInit, state)
			} else {
				require.Equal(t, StateLocked, state, "sample %d", i)
			}
			offset += (trueErr - estimate) * float64(dt)
			local += dt
		}
		require.InDelta(t, trueErr, estimate, 2e-5)
		require.Less(t, math.Abs(offset), 10.0)
	}
}

func TestFreqServoFirstStep(t *testing.T) {
	s := NewFreqServo(DefaultServoConfig(), DefaultFreqServoCfg())
	_, state := s.Sample(5000, 0)
	require.Equal(t, StateJump, state)
	// only the first sample is stepped by default
	_, state = s.Sample(5000, 64000)
	require.Equal(t, StateInit, state)
	_, state = s.Sample(5000, 128000)
	require.Equal(t, StateLocked, state)
}

func TestFreqServoStepThreshold(t *testing.T) {
	cfg := DefaultServoConfig()
	cfg.StepThreshold = 200
	s := NewFreqServo(cfg, DefaultFreqServoCfg())
	_, state := s.Sample(10, 0)
	require.Equal(t, StateInit, state)
	_, state = s.Sample(-201, 64000)
	require.Equal(t, StateJump, state)
	_, state = s.Sample(0, 128000)
	require.Equal(t, StateInit, state)
}

func TestFreqServoMaxError(t *testing.T) {
	s := NewFreqServo(DefaultServoConfig(), DefaultFreqServoCfg())
	s.Sample(0, 0)
	e, state := s.Sample(900, 64000)
	require.Equal(t, StateLocked, state)
	require.Equal(t, 500e-6, e)

	s.SetMaxError(1e-3)
	s.Reset()
	s.Sample(0, 0)
	e, _ = s.Sample(-900, 64000)
	require.Equal(t, -1e-3, e)
}

func TestFreqServoTooOften(t *testing.T) {
	s := NewFreqServo(DefaultServoConfig(), DefaultFreqServoCfg())
	_, state := s.Sample(1, 0)
	require.Equal(t, StateInit, state)
	_, state = s.Sample(1, 10)
	require.Equal(t, StateInit, state)
	_, state = s.Sample(1, 64000)
	require.Equal(t, StateLocked, state)
	_, state = s.Sample(1, 64010)
	require.Equal(t, StateLocked, state)
	_, state = s.Sample(1, 63000)
	require.Equal(t, StateInit, state)
}

func TestFreqServoAdjusted(t *testing.T) {
	s := NewFreqServo(DefaultServoConfig(), DefaultFreqServoCfg())
	s.Sample(0, 0)
	e, _ := s.Sample(0, 64000)
	require.Equal(t, 0.0, e)
	s.Adjusted(-10)
	e, _ = s.Sample(-10, 128000)
	require.InDelta(t, -10.0/600000, e, 1e-12)
	require.Equal(t, e, s.LastError())
}

func TestFreqServoFilter(t *testing.T) {
	s := NewFreqServo(DefaultServoConfig(), DefaultFreqServoCfg())
	cfg := DefaultFreqServoFilterCfg()
	cfg.MaxSkipCount = 2
	NewFreqServoFilter(s, cfg)

	_, state := s.Sample(0, 0)
	require.Equal(t, StateInit, state)
	_, state = s.Sample(2, 64000)
	require.Equal(t, StateLocked, state)
	e, state := s.Sample(1, 128000)
	require.Equal(t, StateLocked, state)
	require.Equal(t, 0, s.filter.skippedCount)
	require.Equal(t, 2, s.filter.samplesCount)

	mean := s.MeanError()
	got, state := s.Sample(500, 192000)
	require.Equal(t, StateFilter, state)
	require.Equal(t, mean, got)
	require.NotEqual(t, e, 0.0)

	_, state = s.Sample(500, 256000)
	require.Equal(t, StateFilter, state)
	_, state = s.Sample(500, 320000)
	require.Equal(t, StateInit, state)
	require.Equal(t, 0.0, s.LastError())
}
