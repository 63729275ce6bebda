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

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/embedtime/softclock/clock"
	"github.com/embedtime/softclock/daemon"
	"github.com/embedtime/softclock/tick"

	sd "github.com/coreos/go-systemd/daemon"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// flags
var (
	runCfg     = daemon.DefaultConfig()
	runCfgPath string
	runCSVLog  bool
	runCSVPath string
)

func init() {
	RootCmd.AddCommand(runCmd)
	f := runCmd.Flags()
	f.StringVar(&runCfg.Server, "server", runCfg.Server, "NTP server used as a reference")
	f.DurationVarP(&runCfg.Interval, "interval", "i", runCfg.Interval, "Interval at which we query the reference")
	f.DurationVar(&runCfg.Timeout, "timeout", runCfg.Timeout, "Reference query timeout")
	f.IntVar(&runCfg.DSCP, "dscp", runCfg.DSCP, "DSCP for reference queries. 0 leaves system default")
	f.DurationVar(&runCfg.StepThreshold, "step", runCfg.StepThreshold, "Offset above which the clock is set. 0 means only when it was never set")
	f.DurationVar(&runCfg.AdjustThreshold, "adjust", runCfg.AdjustThreshold, "Offset above which the clock is adjusted")
	f.DurationVar(&runCfg.SyncInterval, "syncinterval", runCfg.SyncInterval, "Clock reports NEEDS_SYNC when not set for so long. 0 disables")
	f.IntVar(&runCfg.RingSize, "buffer", runCfg.RingSize, "Size of ring buffer, must be at least size of largest num of samples used in error formula")
	f.StringVar(&runCfg.Math.Error, "error", runCfg.Math.Error, "Math expression for the clock error")
	f.IntVar(&runCfg.MonitoringPort, "monitoringport", runCfg.MonitoringPort, "Port to run JSON monitoring server on. 0 disables")
	f.IntVar(&runCfg.PrometheusPort, "prometheusport", runCfg.PrometheusPort, "Port to run prometheus exporter on. 0 disables")
	f.StringVar(&runCfgPath, "cfg", "", "Path to config")
	f.BoolVar(&runCSVLog, "csvlog", false, "Log all the samples as CSV to log")
	f.StringVar(&runCSVPath, "csvpath", "", "write CSV log into this file")
	runCmd.Long = daemon.MathHelp
}

func runDaemon(ctx context.Context, cfg *daemon.Config, l daemon.Logger) error {
	clk := clock.New(tick.NewMonotonic())
	stats := daemon.NewStats()
	d := daemon.New(cfg, clk, daemon.NewNTPReference(cfg), stats, l)

	eg, ctx := errgroup.WithContext(ctx)
	if cfg.MonitoringPort != 0 {
		eg.Go(func() error {
			return daemon.NewJSONStats(stats).Start(ctx, cfg.MonitoringPort)
		})
	}
	if cfg.PrometheusPort != 0 {
		eg.Go(func() error {
			return daemon.NewPrometheusExporter(stats).Start(ctx, cfg.PrometheusPort)
		})
	}
	eg.Go(func() error {
		return d.Run(ctx)
	})
	if _, err := sd.SdNotify(false, sd.SdNotifyReady); err != nil {
		log.Warningf("failed to notify systemd: %v", err)
	}
	return eg.Wait()
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Keep a software clock disciplined by NTP server",
	RunE: func(_ *cobra.Command, _ []string) error {
		ConfigureVerbosity()
		var err error
		cfg := runCfg
		if runCSVPath != "" && !runCSVLog {
			return fmt.Errorf("'csvpath' flag requires 'csvlog' flag")
		}
		if runCfgPath != "" {
			log.Warningf("using config from %s, flag values are ignored", runCfgPath)
			cfg, err = daemon.ReadConfig(runCfgPath)
			if err != nil {
				return err
			}
		}
		if err := cfg.EvalAndValidate(); err != nil {
			return err
		}
		log.Debugf("Config: %+v", *cfg)

		// set up sample logging
		w := log.StandardLogger().Writer()
		defer w.Close()
		var l daemon.Logger = daemon.NewDummyLogger(w)
		if runCSVLog {
			csvW := io.Writer(w)
			if runCSVPath != "" {
				f, err := os.Create(runCSVPath)
				if err != nil {
					return err
				}
				defer f.Close()
				// write both to log and file
				csvW = io.MultiWriter(w, f)
			}
			l = daemon.NewCSVLogger(csvW)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runDaemon(ctx, cfg, l)
	},
}
