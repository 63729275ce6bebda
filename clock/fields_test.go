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
	"testing"

	"github.com/embedtime/softclock/calendar"
	"github.com/embedtime/softclock/tick"

	"github.com/stretchr/testify/require"
)

func TestFieldAccessors(t *testing.T) {
	src := tick.NewManual(0)
	c := New(src)
	// 2024-12-31T23:59:59, Tuesday
	c.SetTime(1735689599, 0)

	require.Equal(t, uint8(23), c.Hour())
	require.Equal(t, uint8(11), c.Hour12())
	require.True(t, c.IsPM())
	require.False(t, c.IsAM())
	require.Equal(t, uint8(59), c.Minute())
	require.Equal(t, uint8(59), c.Second())
	require.Equal(t, uint8(31), c.Day())
	require.Equal(t, calendar.Tuesday, c.Weekday())
	require.Equal(t, uint8(12), c.Month())
	require.Equal(t, 2024, c.Year())

	src.Advance(1000)
	require.Equal(t, 2025, c.Year())
	require.Equal(t, uint8(1), c.Month())
	require.Equal(t, uint8(1), c.Day())
	require.Equal(t, uint8(12), c.Hour12())
	require.True(t, c.IsAM())
}

func TestFieldAccessorsAt(t *testing.T) {
	c := New(tick.NewManual(0))
	require.Equal(t, uint8(5), c.WeekdayAt(0))
	require.Equal(t, 1970, c.YearAt(0))
	require.Equal(t, uint8(3), c.MonthAt(951868800))
	require.Equal(t, uint8(1), c.DayAt(951868800))
	require.Equal(t, uint8(12), c.Hour12At(12*3600))
	require.Equal(t, uint8(1), c.Hour12At(13*3600))
	require.True(t, c.IsPMAt(12*3600))
	require.Equal(t, uint8(7), c.SecondAt(7))
	require.Equal(t, uint8(2), c.MinuteAt(120))
	require.Equal(t, uint8(3), c.HourAt(3*3600))
}

func TestFieldAccessorsUseCache(t *testing.T) {
	c := New(tick.NewManual(0))
	c.SetTime(1735689599, 0)
	f := c.FieldsAt(1735689599)
	require.Equal(t, calendar.Decompose(1735689599), f)
	_ = c.HourAt(1735689599)
	_ = c.MinuteAt(1735689599)
	hits, misses := c.CacheStats()
	require.Equal(t, int64(2), hits)
	require.Equal(t, int64(1), misses)
}
