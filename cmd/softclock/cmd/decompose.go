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
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/embedtime/softclock/calendar"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var weekdays = []string{"", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

func init() {
	RootCmd.AddCommand(decomposeCmd)
}

func parseEpoch(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing epoch seconds %q: %w", s, err)
	}
	return uint32(v), nil
}

func printFields(w io.Writer, t uint32) error {
	f := calendar.Decompose(t)
	table := tablewriter.NewWriter(w)
	table.Header("field", "value")
	table.Append([]string{"epoch", strconv.FormatUint(uint64(t), 10)})
	table.Append([]string{"year", strconv.Itoa(calendar.YearToCalendar(f.Year))})
	table.Append([]string{"month", strconv.Itoa(int(f.Month))})
	table.Append([]string{"day", strconv.Itoa(int(f.Day))})
	table.Append([]string{"weekday", fmt.Sprintf("%d (%s)", f.Weekday, weekdays[f.Weekday])})
	ampm := "AM"
	if calendar.IsPM(f.Hour) {
		ampm = "PM"
	}
	table.Append([]string{"hour", fmt.Sprintf("%d (%d %s)", f.Hour, calendar.Hour12(f.Hour), ampm)})
	table.Append([]string{"minute", strconv.Itoa(int(f.Minute))})
	table.Append([]string{"second", strconv.Itoa(int(f.Second))})
	table.Append([]string{"leap year", strconv.FormatBool(calendar.IsLeapYear(f.Year))})
	return table.Render()
}

var decomposeCmd = &cobra.Command{
	Use:   "decompose <epoch seconds>",
	Short: "Print calendar fields of the epoch seconds",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ConfigureVerbosity()
		t, err := parseEpoch(args[0])
		if err != nil {
			return err
		}
		return printFields(os.Stdout, t)
	},
}
