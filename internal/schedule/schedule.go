// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/staranto/wsinfra/internal/log"
)

// Pipeline start conditions.
const (
	ExpressionMatchOnly                 = "EXPRESSION_MATCH_ONLY"
	ExpressionMatchAndDependencyUpdates = "EXPRESSION_MATCH_AND_DEPENDENCY_UPDATES_AVAILABLE"
)

// Schedule is a cron expression evaluated in a time zone.
type Schedule struct {
	Cron           Cron
	Timezone       string
	StartCondition string
	loc            *time.Location
}

// New parses expr and loads tz. An empty tz means UTC.
func New(expr, tz string) (Schedule, error) {
	c, err := ParseCron(expr)
	if err != nil {
		return Schedule{}, err
	}

	if tz == "" {
		tz = "Etc/UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: unknown timezone %q", ErrInvalid, tz)
	}

	return Schedule{
		Cron:           c,
		Timezone:       tz,
		StartCondition: ExpressionMatchOnly,
		loc:            loc,
	}, nil
}

// Location returns the schedule's time zone.
func (s Schedule) Location() *time.Location {
	if s.loc == nil {
		return time.UTC
	}
	return s.loc
}

var weekdayNames = []string{"", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Describe renders the schedule for people, e.g. "weekly, Sunday, 09:00 UTC".
// Shapes without a short form fall back to the raw fields.
func (s Schedule) Describe() string {
	c := s.Cron
	zone := zoneLabel(s.Timezone)

	minute, okMin := c.Minutes.Single()
	hour, okHour := c.Hours.Single()
	if !okMin || !okHour || !c.Year.Any || !c.Month.Any {
		return fmt.Sprintf("%s (%s)", c.Raw, zone)
	}
	at := fmt.Sprintf("%02d:%02d %s", hour, minute, zone)

	switch {
	case c.DayOfMonth.Ignore && c.DayOfWeek.Any,
		c.DayOfWeek.Ignore && c.DayOfMonth.Any:
		return "daily, " + at
	case c.DayOfMonth.Ignore:
		if dow, ok := c.DayOfWeek.Single(); ok {
			return fmt.Sprintf("weekly, %s, %s", weekdayNames[dow], at)
		}
		days := make([]string, 0, len(c.DayOfWeek.values))
		for _, d := range sortedValues(c.DayOfWeek.values) {
			days = append(days, weekdayNames[d])
		}
		return fmt.Sprintf("weekly, %s, %s", strings.Join(days, "/"), at)
	default:
		if dom, ok := c.DayOfMonth.Single(); ok {
			return fmt.Sprintf("monthly, day %d, %s", dom, at)
		}
		return fmt.Sprintf("%s (%s)", c.Raw, zone)
	}
}

func zoneLabel(tz string) string {
	if IsUTC(tz) {
		return "UTC"
	}
	return tz
}

// IsUTC reports whether tz names UTC. An empty zone is UTC.
func IsUTC(tz string) bool {
	switch tz {
	case "", "UTC", "Etc/UTC", "Etc/GMT", "GMT", "Etc/UCT", "UCT", "Etc/Zulu", "Zulu":
		return true
	}
	return false
}

// Next returns the next n fire times strictly after after, in the
// schedule's zone. Fewer are returned when the year field runs out.
func (s Schedule) Next(after time.Time, n int) []time.Time {
	var out []time.Time
	t := after
	for len(out) < n {
		next, ok := s.next(t)
		if !ok {
			break
		}
		out = append(out, next)
		t = next
	}
	log.Tracef("schedule next: expr=%s after=%s n=%d found=%d", s.Cron.Raw, after.Format(time.RFC3339), n, len(out))
	return out
}

func (s Schedule) next(after time.Time) (time.Time, bool) {
	c := s.Cron
	loc := s.Location()
	t := after.In(loc).Truncate(time.Minute).Add(time.Minute)

	for t.Year() <= yearBounds.max {
		switch {
		case !c.Year.Matches(t.Year()):
			t = time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, loc)
		case !c.Month.Matches(int(t.Month())):
			t = time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, loc)
		case !s.dayMatches(t):
			t = time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, loc)
		case !c.Hours.Matches(t.Hour()):
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+1, 0, 0, 0, loc)
		case !c.Minutes.Matches(t.Minute()):
			t = t.Add(time.Minute)
		default:
			return t, true
		}
	}
	return time.Time{}, false
}

func (s Schedule) dayMatches(t time.Time) bool {
	if s.Cron.DayOfMonth.Ignore {
		return s.Cron.DayOfWeek.Matches(int(t.Weekday()) + 1)
	}
	return s.Cron.DayOfMonth.Matches(t.Day())
}

func sortedValues(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for v := range m {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
