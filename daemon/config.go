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
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Defaults for the config
const (
	DefaultServer          = "pool.ntp.org"
	DefaultInterval        = 64 * time.Second
	DefaultTimeout         = 3 * time.Second
	DefaultStepThreshold   = time.Second
	DefaultAdjustThreshold = 128 * time.Millisecond
	DefaultMonitoringPort  = 21040
	DefaultPrometheusPort  = 21041
)

// Config represents configuration we expect to read from file
type Config struct {
	Server          string        // reference NTP server
	Interval        time.Duration // how often we query the reference
	Timeout         time.Duration // reference query timeout
	DSCP            int           // DSCP marking of reference queries, 0 leaves system default
	StepThreshold   time.Duration // offsets above it make us set the clock, 0 means only on start
	AdjustThreshold time.Duration // offsets above it are removed with a one-shot adjustment
	SyncInterval    time.Duration // clock reports NEEDS_SYNC if not set for so long, 0 disables
	RingSize        int           // must be at least the size of N samples we use in expressions
	Math            Math          // configuration for calculation we'll be doing
	MonitoringPort  int           // JSON stats port, 0 disables
	PrometheusPort  int           // prometheus exporter port, 0 disables
}

// DefaultConfig returns config with all the default values
func DefaultConfig() *Config {
	return &Config{
		Server:          DefaultServer,
		Interval:        DefaultInterval,
		Timeout:         DefaultTimeout,
		StepThreshold:   DefaultStepThreshold,
		AdjustThreshold: DefaultAdjustThreshold,
		RingSize:        MathDefaultHistory,
		Math:            Math{Error: MathDefaultError},
		MonitoringPort:  DefaultMonitoringPort,
		PrometheusPort:  DefaultPrometheusPort,
	}
}

// EvalAndValidate makes sure config is valid and evaluates expressions for further use.
func (c *Config) EvalAndValidate() error {
	if c.Server == "" {
		return fmt.Errorf("bad config: 'server' must be specified")
	}
	if c.Interval < time.Second || c.Interval > time.Hour {
		return fmt.Errorf("bad config: 'interval' must be between 1 second and 1 hour")
	}
	if c.Timeout <= 0 || c.Timeout >= c.Interval {
		return fmt.Errorf("bad config: 'timeout' must be positive and less than 'interval'")
	}
	if c.DSCP < 0 || c.DSCP > MaxDSCP {
		return fmt.Errorf("bad config: 'dscp' must be between 0 and %d", MaxDSCP)
	}
	if c.StepThreshold < 0 {
		return fmt.Errorf("bad config: 'stepthreshold' must be >=0")
	}
	if c.AdjustThreshold <= 0 || c.AdjustThreshold > 24*time.Hour {
		return fmt.Errorf("bad config: 'adjustthreshold' must be between 0 and 24 hours")
	}
	if c.SyncInterval < 0 {
		return fmt.Errorf("bad config: 'syncinterval' must be >=0")
	}
	if c.RingSize <= 0 {
		return fmt.Errorf("bad config: 'ringsize' must be >0")
	}
	if err := c.Math.Prepare(); err != nil {
		return err
	}
	return nil
}

// ReadConfig reads config and unmarshals it from yaml into Config
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := DefaultConfig()
	err = yaml.UnmarshalStrict(data, c)
	return c, err
}
