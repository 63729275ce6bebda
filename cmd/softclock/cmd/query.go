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
	"time"

	"github.com/embedtime/softclock/clock"
	"github.com/embedtime/softclock/daemon"
	"github.com/embedtime/softclock/tick"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// flags
var (
	queryServerFlag    string
	queryTimeoutFlag   time.Duration
	queryThresholdFlag time.Duration
	queryDSCPFlag      int
)

func init() {
	RootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryServerFlag, "server", "s", daemon.DefaultServer, "NTP server to query")
	queryCmd.Flags().DurationVarP(&queryTimeoutFlag, "timeout", "t", daemon.DefaultTimeout, "query timeout")
	queryCmd.Flags().IntVar(&queryDSCPFlag, "dscp", 0, "DSCP for queries. 0 leaves system default")
	queryCmd.Flags().DurationVar(&queryThresholdFlag, "threshold", daemon.DefaultAdjustThreshold, "offsets above it are reported as a warning")
}

type queryResult struct {
	ref    clock.Instant
	rtt    time.Duration
	offset int32 // software clock minus reference, ms
	status clock.Status
}

// queryReference sets the clock from the reference and checks it against the next reading
func queryReference(ctx context.Context, ref daemon.Reference, clk *clock.Clock) (*queryResult, error) {
	m, err := ref.Query(ctx)
	if err != nil {
		return nil, err
	}
	clk.Set(clock.InstantOf(m.Time))
	check, err := ref.Query(ctx)
	if err != nil {
		return nil, err
	}
	local := clk.NowMs()
	refIn := clock.InstantOf(check.Time)
	return &queryResult{
		ref:    refIn,
		rtt:    check.RTT,
		offset: clock.Interval(refIn, local),
		status: clk.Status(),
	}, nil
}

func printQueryResult(w io.Writer, r *queryResult, threshold time.Duration) {
	status := color.GreenString("%s", r.status)
	if r.status != clock.Set {
		status = color.RedString("%s", r.status)
	}
	offset := color.GreenString("%dms", r.offset)
	if time.Duration(abs32(r.offset))*time.Millisecond > threshold {
		offset = color.YellowString("%dms", r.offset)
	}
	fmt.Fprintf(w, "reference: %s (%s)\n", r.ref, r.ref.Time().Format(time.RFC3339Nano))
	fmt.Fprintf(w, "rtt:       %v\n", r.rtt)
	fmt.Fprintf(w, "status:    %s\n", status)
	fmt.Fprintf(w, "offset:    %s\n", offset)
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Set a software clock from NTP server and check it",
	RunE: func(_ *cobra.Command, _ []string) error {
		ConfigureVerbosity()
		color.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
		ref := &daemon.NTPReference{Server: queryServerFlag, Timeout: queryTimeoutFlag, DSCP: queryDSCPFlag}
		clk := clock.New(tick.NewMonotonic())
		r, err := queryReference(context.Background(), ref, clk)
		if err != nil {
			return err
		}
		log.Debugf("clock fields: %s", clk.Fields())
		printQueryResult(os.Stdout, r, queryThresholdFlag)
		return nil
	},
}
