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
	"time"

	"github.com/embedtime/softclock/clock"
	"github.com/embedtime/softclock/servo"
	"github.com/embedtime/softclock/tick"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/constraints"
)

var errNotEnoughData = fmt.Errorf("not enough data points")

// offsets above it can't be adjusted and are always stepped
const maxAdjustMS = 12 * 3600 * 1000

// DataPoint is what we store in DataPoint ring buffer
type DataPoint struct {
	// OffsetMS is local clock minus reference, in milliseconds
	OffsetMS float64
	// RTTMS is round trip time to the reference, in milliseconds
	RTTMS float64
	// Error is fractional frequency error estimated by the servo
	Error float64
}

// Daemon keeps a software clock in sync with a reference:
// it queries the reference every so often,
// sets the clock when it's off too much,
// and tunes drift correction in between.
type Daemon struct {
	cfg   *Config
	clk   *clock.Clock
	ref   Reference
	servo *servo.FreqServo
	state *daemonState
	stats StatsServer
	sys   *SysStats
	l     Logger

	// local milliseconds elapsed, measured by the tick counter
	localMS uint64
	lastRaw uint32
	haveRaw bool
}

// New creates new daemon. cfg must be validated already.
func New(cfg *Config, clk *clock.Clock, ref Reference, stats StatsServer, l Logger) *Daemon {
	sc := servo.DefaultServoConfig()
	sc.StepThreshold = cfg.StepThreshold.Milliseconds()
	sc.SetMaxError(clock.CompensatedError(clock.MinDriftInterval, -1))
	pi := servo.NewFreqServo(sc, servo.DefaultFreqServoCfg())
	servo.NewFreqServoFilter(pi, servo.DefaultFreqServoFilterCfg())

	clk.SetSyncInterval(uint32(cfg.SyncInterval / time.Second))

	d := &Daemon{
		cfg:   cfg,
		clk:   clk,
		ref:   ref,
		servo: pi,
		state: newDaemonState(cfg.RingSize),
		stats: stats,
		sys:   &SysStats{},
		l:     l,
	}
	for _, c := range daemonCounters {
		d.stats.Set(c, 0)
	}
	d.stats.Set(StatServoState, int64(servo.StateInit))
	d.stats.Set(StatClockStatus, int64(clock.NotSet))
	return d
}

// offsetMS returns local minus reference in ms, without 32 bit overflow
func offsetMS(local, ref clock.Instant) int64 {
	return (int64(local.Sec)-int64(ref.Sec))*1000 + int64(local.Msec) - int64(ref.Msec)
}

func abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

func (d *Daemon) advanceLocal(raw uint32) {
	if d.haveRaw {
		d.localMS += uint64(tick.Since(raw, d.lastRaw))
	}
	d.lastRaw = raw
	d.haveRaw = true
}

// step sets the clock to the reference, keeping drift correction
func (d *Daemon) step(ref clock.Instant, reason string) {
	log.Infof("setting clock to %s: %s", ref, reason)
	d.clk.Set(ref)
	d.servo.Reset()
	d.servo.SetLastError(clock.CompensatedError(d.clk.Drift()))
	d.state.reset()
	d.stats.Inc(StatSteps)
	d.stats.Set(StatClockStatus, int64(d.clk.Status()))
}

// Step does a single sync iteration
func (d *Daemon) Step(ctx context.Context) error {
	m, err := d.ref.Query(ctx)
	if err != nil {
		d.stats.Inc(StatReferenceError)
		return fmt.Errorf("querying reference: %w", err)
	}
	local := d.clk.NowMs()
	d.advanceLocal(local.Raw)
	ref := clock.InstantOf(m.Time)
	rttMS := m.RTT.Milliseconds()
	d.stats.Set(StatRTTMS, rttMS)

	if d.clk.Status() == clock.NotSet {
		d.step(ref, "clock was never set")
		return nil
	}
	offset := offsetMS(local, ref)
	d.stats.Set(StatOffsetMS, offset)
	if abs(offset) > maxAdjustMS {
		d.step(ref, fmt.Sprintf("offset %dms is too big to adjust", offset))
		return nil
	}

	servoErr, state := d.servo.Sample(offset, d.localMS)
	d.stats.Set(StatServoState, int64(state))
	switch state {
	case servo.StateJump:
		d.step(ref, fmt.Sprintf("offset %dms is over step threshold", offset))
		return nil
	case servo.StateFilter:
		d.stats.Inc(StatFiltered)
		return nil
	}

	if abs(offset) > d.cfg.AdjustThreshold.Milliseconds() {
		log.Infof("adjusting clock by %dms", -offset)
		d.clk.Adjust(int32(-offset))
		d.servo.Adjusted(-offset)
		d.stats.Inc(StatAdjustments)
	}
	d.stats.Set(StatClockStatus, int64(d.clk.Status()))
	if state != servo.StateLocked {
		return nil
	}

	d.state.pushDataPoint(&DataPoint{OffsetMS: float64(offset), RTTMS: float64(rttMS), Error: servoErr})
	corrected, err := d.cfg.Math.EvalError(d.state.takeDataPoint(d.cfg.RingSize))
	if err != nil {
		d.stats.Inc(StatProcessingError)
		return fmt.Errorf("evaluating error: %w", err)
	}
	if err := d.clk.SetDriftCorrectionByError(corrected); err != nil {
		d.stats.Inc(StatProcessingError)
		return fmt.Errorf("setting drift correction for error %v: %w", corrected, err)
	}
	interval, stepMS := d.clk.Drift()
	d.servo.SetLastError(clock.CompensatedError(interval, stepMS))

	d.stats.Set(StatErrorPPB, int64(servoErr*1e9))
	d.stats.Set(StatCorrectedErrorPPB, int64(corrected*1e9))
	d.stats.Set(StatDriftIntervalS, int64(interval))
	d.stats.Set(StatDriftStepMS, int64(stepMS))

	if d.l != nil {
		if err := d.l.Log(&LogSample{
			OffsetMS:       float64(offset),
			RTTMS:          float64(rttMS),
			ServoError:     servoErr,
			CorrectedError: corrected,
			DriftInterval:  interval,
			DriftStep:      stepMS,
		}); err != nil {
			log.Errorf("failed to log sample: %v", err)
		}
	}
	return nil
}

func (d *Daemon) collectSysStats() {
	stats, err := d.sys.CollectRuntimeStats()
	if err != nil {
		log.Warningf("failed to collect process stats: %v", err)
		return
	}
	d.stats.Merge(stats)
}

// Run a daemon until ctx is done
func (d *Daemon) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()
	for {
		if err := d.Step(ctx); err != nil {
			log.Error(err)
		}
		d.collectSysStats()
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
