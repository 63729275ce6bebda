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

package clock

import (
	"github.com/embedtime/softclock/calendar"
)

// Fields returns calendar fields of current time
func (c *Clock) Fields() calendar.Fields {
	return c.FieldsAt(c.Now())
}

// FieldsAt returns calendar fields of t
func (c *Clock) FieldsAt(t uint32) calendar.Fields {
	return c.cache.Fields(t)
}

// CacheStats returns hits and misses of the calendar fields cache
func (c *Clock) CacheStats() (hits, misses int64) {
	return c.cache.Stats()
}

// Hour returns the hour now
func (c *Clock) Hour() uint8 { return c.HourAt(c.Now()) }

// HourAt returns the hour of t
func (c *Clock) HourAt(t uint32) uint8 { return c.FieldsAt(t).Hour }

// Hour12 returns the hour now in 12 hour format
func (c *Clock) Hour12() uint8 { return c.Hour12At(c.Now()) }

// Hour12At returns the hour of t in 12 hour format
func (c *Clock) Hour12At(t uint32) uint8 { return calendar.Hour12(c.HourAt(t)) }

// IsAM reports whether it's before noon now
func (c *Clock) IsAM() bool { return c.IsAMAt(c.Now()) }

// IsAMAt reports whether t is before noon
func (c *Clock) IsAMAt(t uint32) bool { return calendar.IsAM(c.HourAt(t)) }

// IsPM reports whether it's after noon now
func (c *Clock) IsPM() bool { return c.IsPMAt(c.Now()) }

// IsPMAt reports whether t is after noon
func (c *Clock) IsPMAt(t uint32) bool { return calendar.IsPM(c.HourAt(t)) }

// Minute returns the minute now
func (c *Clock) Minute() uint8 { return c.MinuteAt(c.Now()) }

// MinuteAt returns the minute of t
func (c *Clock) MinuteAt(t uint32) uint8 { return c.FieldsAt(t).Minute }

// Second returns the second now
func (c *Clock) Second() uint8 { return c.SecondAt(c.Now()) }

// SecondAt returns the second of t
func (c *Clock) SecondAt(t uint32) uint8 { return c.FieldsAt(t).Second }

// Day returns the day of the month now
func (c *Clock) Day() uint8 { return c.DayAt(c.Now()) }

// DayAt returns the day of the month of t
func (c *Clock) DayAt(t uint32) uint8 { return c.FieldsAt(t).Day }

// Weekday returns the day of the week now, Sunday is 1
func (c *Clock) Weekday() uint8 { return c.WeekdayAt(c.Now()) }

// WeekdayAt returns the day of the week of t, Sunday is 1
func (c *Clock) WeekdayAt(t uint32) uint8 { return c.FieldsAt(t).Weekday }

// Month returns the month now
func (c *Clock) Month() uint8 { return c.MonthAt(c.Now()) }

// MonthAt returns the month of t
func (c *Clock) MonthAt(t uint32) uint8 { return c.FieldsAt(t).Month }

// Year returns the full four digit year now
func (c *Clock) Year() int { return c.YearAt(c.Now()) }

// YearAt returns the full four digit year of t
func (c *Clock) YearAt(t uint32) int { return calendar.YearToCalendar(c.FieldsAt(t).Year) }
