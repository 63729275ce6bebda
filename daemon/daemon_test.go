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
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/embedtime/softclock/clock"
	"github.com/embedtime/softclock/servo"
	"github.com/embedtime/softclock/tick"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testBaseMS = int64(1700000000000)

func newTestDaemon(t *testing.T) (*Daemon, *tick.Manual, *MockReference, *Stats) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.EvalAndValidate())
	src := tick.NewManual(5000)
	clk := clock.New(src)
	ref := NewMockReference(gomock.NewController(t))
	stats := NewStats()
	return New(cfg, clk, ref, stats, nil), src, ref, stats
}

func measurement(ms int64) *Measurement {
	return &Measurement{Time: time.UnixMilli(ms), RTT: 20 * time.Millisecond}
}

func TestOffsetMS(t *testing.T) {
	require.Equal(t, int64(1500), offsetMS(clock.Instant{Sec: 10, Msec: 700}, clock.Instant{Sec: 9, Msec: 200}))
	require.Equal(t, int64(-1500), offsetMS(clock.Instant{Sec: 9, Msec: 200}, clock.Instant{Sec: 10, Msec: 700}))
	// way beyond int32 milliseconds
	require.Equal(t, int64(-1700000000000), offsetMS(clock.Instant{}, clock.Instant{Sec: 1700000000}))
}

func TestAbs(t *testing.T) {
	require.Equal(t, int8(5), abs(int8(-5)))
	require.Equal(t, int64(7), abs(int64(7)))
	require.Equal(t, int32(0), abs(int32(0)))
}

func TestStepSetsClock(t *testing.T) {
	d, _, ref, stats := newTestDaemon(t)
	ref.EXPECT().Query(gomock.Any()).Return(measurement(testBaseMS+250), nil)

	require.NoError(t, d.Step(context.Background()))
	in := d.clk.NowMs()
	require.Equal(t, uint32(1700000000), in.Sec)
	require.Equal(t, uint16(250), in.Msec)
	require.Equal(t, clock.Set, d.clk.Status())
	require.Equal(t, int64(1), stats.Value(StatSteps))
	require.Equal(t, int64(20), stats.Value(StatRTTMS))
	require.Equal(t, int64(clock.Set), stats.Value(StatClockStatus))
}

func TestStepReferenceError(t *testing.T) {
	d, _, ref, stats := newTestDaemon(t)
	ref.EXPECT().Query(gomock.Any()).Return(nil, fmt.Errorf("timeout"))

	require.Error(t, d.Step(context.Background()))
	require.Equal(t, int64(1), stats.Value(StatReferenceError))
	require.Equal(t, clock.NotSet, d.clk.Status())
}

func TestStepAdjust(t *testing.T) {
	d, src, ref, stats := newTestDaemon(t)
	gomock.InOrder(
		ref.EXPECT().Query(gomock.Any()).Return(measurement(testBaseMS), nil),
		ref.EXPECT().Query(gomock.Any()).Return(measurement(testBaseMS+64000-500), nil),
	)
	require.NoError(t, d.Step(context.Background()))
	src.Advance(64000)
	require.NoError(t, d.Step(context.Background()))

	require.Equal(t, int64(500), stats.Value(StatOffsetMS))
	require.Equal(t, int64(1), stats.Value(StatAdjustments))
	require.Equal(t, int64(1), stats.Value(StatSteps))
	require.Equal(t, int64(servo.StateInit), stats.Value(StatServoState))
	now := d.clk.NowMs()
	require.Equal(t, uint32(1700000063), now.Sec)
	require.Equal(t, uint16(500), now.Msec)
}

func TestStepJump(t *testing.T) {
	d, src, ref, stats := newTestDaemon(t)
	gomock.InOrder(
		ref.EXPECT().Query(gomock.Any()).Return(measurement(testBaseMS), nil),
		ref.EXPECT().Query(gomock.Any()).Return(measurement(testBaseMS+64000+5000), nil),
	)
	require.NoError(t, d.Step(context.Background()))
	src.Advance(64000)
	require.NoError(t, d.Step(context.Background()))

	require.Equal(t, int64(-5000), stats.Value(StatOffsetMS))
	require.Equal(t, int64(2), stats.Value(StatSteps))
	require.Equal(t, int64(0), stats.Value(StatAdjustments))
	require.Equal(t, uint32(1700000069), d.clk.Now())
}

func TestStepHugeOffset(t *testing.T) {
	d, src, ref, stats := newTestDaemon(t)
	gomock.InOrder(
		ref.EXPECT().Query(gomock.Any()).Return(measurement(testBaseMS), nil),
		ref.EXPECT().Query(gomock.Any()).Return(measurement(testBaseMS+86400000), nil),
	)
	require.NoError(t, d.Step(context.Background()))
	src.Advance(1000)
	require.NoError(t, d.Step(context.Background()))
	require.Equal(t, int64(2), stats.Value(StatSteps))
	require.Equal(t, uint32(1700000000+86400), d.clk.Now())
}

// local oscillator runs 200ppm fast, daemon has to find the correction
func TestRunConverges(t *testing.T) {
	d, src, ref, stats := newTestDaemon(t)
	const clockErr = 2e-4
	start := src.Millis()
	ref.EXPECT().Query(gomock.Any()).DoAndReturn(func(context.Context) (*Measurement, error) {
		elapsed := float64(src.Millis() - start)
		return measurement(testBaseMS + int64(math.Floor(elapsed*(1-clockErr)))), nil
	}).Times(60)

	for i := 0; i < 60; i++ {
		require.NoError(t, d.Step(context.Background()))
		if i > 20 {
			require.LessOrEqual(t, math.Abs(float64(stats.Value(StatOffsetMS))), 20.0, "iteration %d", i)
		}
		src.Advance(64000)
	}
	interval, step := d.clk.Drift()
	require.Equal(t, int8(-1), step)
	require.GreaterOrEqual(t, interval, uint16(3))
	require.LessOrEqual(t, interval, uint16(7))
	require.Equal(t, int64(1), stats.Value(StatSteps))
	require.Equal(t, int64(0), stats.Value(StatAdjustments))
	require.Equal(t, int64(servo.StateLocked), stats.Value(StatServoState))
	require.Equal(t, int64(-1), stats.Value(StatDriftStepMS))
}

func TestRunStopsOnCancel(t *testing.T) {
	d, _, ref, stats := newTestDaemon(t)
	ctx, cancel := context.WithCancel(context.Background())
	ref.EXPECT().Query(gomock.Any()).DoAndReturn(func(context.Context) (*Measurement, error) {
		cancel()
		return measurement(testBaseMS), nil
	})
	require.NoError(t, d.Run(ctx))
	require.Equal(t, clock.Set, d.clk.Status())
	require.Greater(t, stats.Value(Counter("runtime.cpu.goroutines")), int64(0))
}

type recordingLogger struct {
	samples []*LogSample
}

func (l *recordingLogger) Log(s *LogSample) error {
	l.samples = append(l.samples, s)
	return nil
}

func TestStepLogsSamples(t *testing.T) {
	d, src, ref, _ := newTestDaemon(t)
	l := &recordingLogger{}
	d.l = l
	start := src.Millis()
	ref.EXPECT().Query(gomock.Any()).DoAndReturn(func(context.Context) (*Measurement, error) {
		return measurement(testBaseMS + int64(src.Millis()-start)), nil
	}).Times(4)
	for i := 0; i < 4; i++ {
		require.NoError(t, d.Step(context.Background()))
		src.Advance(64000)
	}
	// set, init, then two locked samples
	require.Len(t, l.samples, 2)
	require.Equal(t, 0.0, l.samples[1].OffsetMS)
	require.Equal(t, int8(0), l.samples[1].DriftStep)
}
