// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineScheduleDescribe(t *testing.T) {
	s, err := New("cron(0 9 ? * SUN *)", "Etc/UTC")
	require.NoError(t, err)
	assert.Equal(t, "weekly, Sunday, 09:00 UTC", s.Describe())
	assert.Equal(t, ExpressionMatchOnly, s.StartCondition)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		expr string
		tz   string
		want string
	}{
		{"cron(30 2 * * ? *)", "", "daily, 02:30 UTC"},
		{"cron(0 0 ? * * *)", "UTC", "daily, 00:00 UTC"},
		{"cron(0 0 1 * ? *)", "Etc/UTC", "monthly, day 1, 00:00 UTC"},
		{"cron(0 9 ? * MON-FRI *)", "America/New_York",
			"weekly, Monday/Tuesday/Wednesday/Thursday/Friday, 09:00 America/New_York"},
		{"cron(0 9 ? * 1 *)", "Etc/UTC", "weekly, Sunday, 09:00 UTC"},
		{"cron(*/15 * * * ? *)", "Etc/UTC", "cron(*/15 * * * ? *) (UTC)"},
		{"cron(0 9 ? JAN SUN *)", "Etc/UTC", "cron(0 9 ? JAN SUN *) (UTC)"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			s, err := New(tt.expr, tt.tz)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Describe())
		})
	}
}

func TestParseCronRejects(t *testing.T) {
	tests := []string{
		"cron(0 9 * * SUN *)",
		"cron(0 9 ? * ? *)",
		"cron(60 9 ? * SUN *)",
		"cron(0 24 ? * SUN *)",
		"cron(0 9 ? 13 SUN *)",
		"cron(0 9 ? * FUNDAY *)",
		"cron(0 9 ? * 8 *)",
		"cron(0 9 ? * SUN)",
		"cron(? 9 ? * SUN *)",
		"cron(0 9 ? * SUN *",
		"cron(0 9 ? * SUN 1969)",
		"cron(0/0 9 ? * SUN *)",
		"cron(0 9-3 ? * SUN *)",
	}

	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseCron(expr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestParseCronFields(t *testing.T) {
	c, err := ParseCron("cron(10/20 */6 ? jan-mar,DEC 2,4 2026-2028)")
	require.NoError(t, err)

	for _, m := range []int{10, 30, 50} {
		assert.True(t, c.Minutes.Matches(m), "minute %d", m)
	}
	assert.False(t, c.Minutes.Matches(20))
	for _, h := range []int{0, 6, 12, 18} {
		assert.True(t, c.Hours.Matches(h), "hour %d", h)
	}
	assert.False(t, c.Hours.Matches(3))
	assert.True(t, c.DayOfMonth.Ignore)
	assert.False(t, c.DayOfMonth.Matches(1))
	assert.True(t, c.Month.Matches(2))
	assert.True(t, c.Month.Matches(12))
	assert.False(t, c.Month.Matches(4))
	assert.True(t, c.DayOfWeek.Matches(4))
	assert.False(t, c.DayOfWeek.Matches(3))
	assert.True(t, c.Year.Matches(2027))
	assert.False(t, c.Year.Matches(2029))

	_, ok := c.Minutes.Single()
	assert.False(t, ok)
}

func TestUnknownTimezone(t *testing.T) {
	_, err := New("cron(0 9 ? * SUN *)", "Mars/Olympus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestIsUTC(t *testing.T) {
	for _, tz := range []string{"", "UTC", "Etc/UTC", "GMT", "Zulu"} {
		assert.True(t, IsUTC(tz), tz)
	}
	for _, tz := range []string{"America/New_York", "Europe/London", "Etc/GMT+5"} {
		assert.False(t, IsUTC(tz), tz)
	}
}

func TestNextWeekly(t *testing.T) {
	s, err := New("cron(0 9 ? * SUN *)", "Etc/UTC")
	require.NoError(t, err)

	// 2026-10-18 is a Sunday.
	after := time.Date(2026, time.October, 18, 8, 0, 0, 0, time.UTC)
	got := s.Next(after, 3)
	require.Len(t, got, 3)
	assert.True(t, got[0].Equal(time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)))
	assert.True(t, got[1].Equal(time.Date(2026, time.October, 25, 9, 0, 0, 0, time.UTC)))
	assert.True(t, got[2].Equal(time.Date(2026, time.November, 1, 9, 0, 0, 0, time.UTC)))

	for _, ts := range got {
		assert.Equal(t, time.Sunday, ts.Weekday())
	}

	// A fire time is not repeated when it is the starting instant.
	got = s.Next(time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC), 1)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(time.Date(2026, time.October, 25, 9, 0, 0, 0, time.UTC)))
}

func TestNextInZone(t *testing.T) {
	s, err := New("cron(0 9 ? * SUN *)", "America/New_York")
	require.NoError(t, err)

	got := s.Next(time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC), 1)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(time.Date(2026, time.October, 18, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, 9, got[0].Hour())
}

func TestNextMonthly(t *testing.T) {
	s, err := New("cron(15 3 31 * ? *)", "")
	require.NoError(t, err)

	got := s.Next(time.Date(2026, time.October, 31, 4, 0, 0, 0, time.UTC), 2)
	require.Len(t, got, 2)
	assert.True(t, got[0].Equal(time.Date(2026, time.December, 31, 3, 15, 0, 0, time.UTC)))
	assert.True(t, got[1].Equal(time.Date(2027, time.January, 31, 3, 15, 0, 0, time.UTC)))
}

func TestNextYearRunsOut(t *testing.T) {
	s, err := New("cron(0 0 1 1 ? 2027)", "Etc/UTC")
	require.NoError(t, err)

	got := s.Next(time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC), 3)
	require.Len(t, got, 1)
	assert.True(t, got[0].Equal(time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)))
}
