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

	"github.com/beevik/ntp"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=reference.go -destination=mock_reference.go -package=daemon

// Measurement is a reading of the reference clock
type Measurement struct {
	Time time.Time     // reference time when the reply was received
	RTT  time.Duration // round trip time to the reference
}

// Reference is an external source of true time
type Reference interface {
	Query(ctx context.Context) (*Measurement, error)
}

// NTPReference queries NTP server
type NTPReference struct {
	Server  string
	Timeout time.Duration
	DSCP    int
}

// NewNTPReference returns NTPReference for the config
func NewNTPReference(cfg *Config) *NTPReference {
	return &NTPReference{Server: cfg.Server, Timeout: cfg.Timeout, DSCP: cfg.DSCP}
}

// Query asks NTP server for the time
func (r *NTPReference) Query(ctx context.Context) (*Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := r.Timeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		timeout = time.Until(deadline)
	}
	opts := ntp.QueryOptions{Timeout: timeout}
	if r.DSCP != 0 {
		opts.Dialer = dscpDialer(r.DSCP)
	}
	resp, err := ntp.QueryWithOptions(r.Server, opts)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", r.Server, err)
	}
	// system clock is only used as a stopwatch between reply and now
	now := time.Now()
	if err := resp.Validate(); err != nil {
		return nil, fmt.Errorf("validating reply from %s: %w", r.Server, err)
	}
	log.Debugf("%s: stratum %d, offset %v, rtt %v", r.Server, resp.Stratum, resp.ClockOffset, resp.RTT)
	return &Measurement{Time: now.Add(resp.ClockOffset), RTT: resp.RTT}, nil
}
