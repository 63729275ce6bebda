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

package calendar

import (
	"fmt"
	"time"
)

// EpochYear is the calendar year of offset 0
const EpochYear = 1970

// Seconds in larger units
const (
	SecsPerMin  = 60
	SecsPerHour = 3600
	SecsPerDay  = 86400
)

// Weekdays as stored in Fields.Weekday
const (
	Sunday uint8 = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// month lengths in a common year, January first
var monthDays = [12]uint8{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Fields is a broken-down representation of epoch seconds
type Fields struct {
	Second  uint8 // 0-59
	Minute  uint8 // 0-59
	Hour    uint8 // 0-23
	Weekday uint8 // 1-7, Sunday is 1
	Day     uint8 // 1-31
	Month   uint8 // 1-12
	Year    uint8 // offset from 1970
}

// String formats fields as an ISO 8601 timestamp
func (f Fields) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d",
		YearToCalendar(f.Year), f.Month, f.Day, f.Hour, f.Minute, f.Second)
}

// Time returns the instant described by fields as UTC time.Time
func (f Fields) Time() time.Time {
	return time.Date(YearToCalendar(f.Year), time.Month(f.Month), int(f.Day),
		int(f.Hour), int(f.Minute), int(f.Second), 0, time.UTC)
}

// YearToCalendar turns a year offset into the full calendar year
func YearToCalendar(offset uint8) int {
	return EpochYear + int(offset)
}

// CalendarToYear turns a full calendar year into a year offset.
// Years outside of 1970..2225 are truncated to 8 bits.
func CalendarToYear(year int) uint8 {
	return uint8(year - EpochYear)
}

// IsLeapYear reports whether year offset from 1970 is a leap year
func IsLeapYear(offset uint8) bool {
	y := YearToCalendar(offset)
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

// MonthLength returns number of days in a 1-based month of a given year offset,
// 0 for months outside 1-12
func MonthLength(offset uint8, month uint8) uint8 {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && IsLeapYear(offset) {
		return 29
	}
	return monthDays[month-1]
}

func yearLength(offset uint8) uint32 {
	if IsLeapYear(offset) {
		return 366
	}
	return 365
}

// Decompose breaks epoch seconds into calendar fields
func Decompose(t uint32) Fields {
	var f Fields

	f.Second = uint8(t % 60)
	t /= 60 // minutes
	f.Minute = uint8(t % 60)
	t /= 60 // hours
	f.Hour = uint8(t % 24)
	t /= 24 // days
	// 1970-01-01 was a Thursday
	f.Weekday = uint8((t+4)%7) + 1

	var year uint8
	var days uint32
	for {
		days += yearLength(year)
		if days > t {
			break
		}
		year++
	}
	f.Year = year

	days -= yearLength(year)
	t -= days // day of the year, 0-based

	var month uint8
	for month = 1; month < 12; month++ {
		l := uint32(MonthLength(year, month))
		if t < l {
			break
		}
		t -= l
	}
	f.Month = month
	f.Day = uint8(t + 1)
	return f
}

// Compose assembles calendar fields into epoch seconds.
// Fields are not validated: out of range values produce meaningless results.
func Compose(f Fields) uint32 {
	seconds := uint32(f.Year) * SecsPerDay * 365
	for i := uint8(0); i < f.Year; i++ {
		if IsLeapYear(i) {
			seconds += SecsPerDay
		}
	}
	for m := uint8(1); m < f.Month; m++ {
		seconds += SecsPerDay * uint32(MonthLength(f.Year, m))
	}
	seconds += (uint32(f.Day) - 1) * SecsPerDay
	seconds += uint32(f.Hour) * SecsPerHour
	seconds += uint32(f.Minute) * SecsPerMin
	seconds += uint32(f.Second)
	return seconds
}

// FromTime converts time.Time to epoch seconds, truncated to 32 bits
func FromTime(t time.Time) uint32 {
	return uint32(t.Unix())
}

// Hour12 converts hour of the day to the 12 hour format
func Hour12(hour uint8) uint8 {
	if hour == 0 {
		return 12 // midnight
	}
	if hour > 12 {
		return hour - 12
	}
	return hour
}

// IsPM reports whether hour of the day is after noon
func IsPM(hour uint8) bool {
	return hour >= 12
}

// IsAM reports whether hour of the day is before noon
func IsAM(hour uint8) bool {
	return !IsPM(hour)
}
