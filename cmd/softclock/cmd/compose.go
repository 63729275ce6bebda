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

	"github.com/embedtime/softclock/calendar"

	"github.com/spf13/cobra"
)

// flags
var (
	composeYearFlag   int
	composeMonthFlag  uint8
	composeDayFlag    uint8
	composeHourFlag   uint8
	composeMinuteFlag uint8
	composeSecondFlag uint8
)

func init() {
	RootCmd.AddCommand(composeCmd)
	composeCmd.Flags().IntVar(&composeYearFlag, "year", calendar.EpochYear, "calendar year")
	composeCmd.Flags().Uint8Var(&composeMonthFlag, "month", 1, "month, 1-12")
	composeCmd.Flags().Uint8Var(&composeDayFlag, "day", 1, "day of month, 1-31")
	composeCmd.Flags().Uint8Var(&composeHourFlag, "hour", 0, "hour, 0-23")
	composeCmd.Flags().Uint8Var(&composeMinuteFlag, "minute", 0, "minute, 0-59")
	composeCmd.Flags().Uint8Var(&composeSecondFlag, "second", 0, "second, 0-59")
}

// maxYear is the last year epoch seconds can fully represent
const maxYear = 2105

func fieldsFromFlags(year int, month, day, hour, minute, second uint8) (calendar.Fields, error) {
	if year < calendar.EpochYear || year > maxYear {
		return calendar.Fields{}, fmt.Errorf("year must be between %d and %d", calendar.EpochYear, maxYear)
	}
	f := calendar.Fields{
		Year:   calendar.CalendarToYear(year),
		Month:  month,
		Day:    day,
		Hour:   hour,
		Minute: minute,
		Second: second,
	}
	if month < 1 || month > 12 {
		return f, fmt.Errorf("month must be between 1 and 12")
	}
	if day < 1 || day > calendar.MonthLength(f.Year, month) {
		return f, fmt.Errorf("day must be between 1 and %d", calendar.MonthLength(f.Year, month))
	}
	if hour > 23 || minute > 59 || second > 59 {
		return f, fmt.Errorf("time of day %02d:%02d:%02d is invalid", hour, minute, second)
	}
	return f, nil
}

var composeCmd = &cobra.Command{
	Use:   "compose",
	Short: "Print epoch seconds of the calendar fields",
	RunE: func(_ *cobra.Command, _ []string) error {
		ConfigureVerbosity()
		f, err := fieldsFromFlags(composeYearFlag, composeMonthFlag, composeDayFlag, composeHourFlag, composeMinuteFlag, composeSecondFlag)
		if err != nil {
			return err
		}
		fmt.Println(calendar.Compose(f))
		return nil
	},
}
