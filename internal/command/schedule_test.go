// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubNow(t *testing.T, at time.Time) {
	t.Helper()
	orig := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = orig })
}

func TestSchedule(t *testing.T) {
	dir := project(t)
	// A Sunday, after the 09:00 run.
	stubNow(t, time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "wsinfra", "schedule", dir, "-n", "2", "-o", "json")
		require.NoError(t, err)

		var r scheduleReport
		require.NoError(t, json.Unmarshal([]byte(out), &r))
		assert.Equal(t, "cron(0 9 ? * SUN *)", r.Expression)
		require.Len(t, r.Next, 2)
		assert.True(t, r.Next[0].Equal(time.Date(2026, 10, 25, 9, 0, 0, 0, time.UTC)), r.Next[0])
		assert.True(t, r.Next[1].Equal(time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC)), r.Next[1])
		assert.NotEmpty(t, r.Description)
	})

	t.Run("text", func(t *testing.T) {
		out, err := run(t, "wsinfra", "schedule", dir, "-n", "1", "--titles")
		require.NoError(t, err)
		assert.Contains(t, out, "cron(0 9 ? * SUN *)")
		assert.Contains(t, out, "Sun 2026-10-25 09:00")
		assert.Contains(t, out, "from now")
	})

	t.Run("bad output", func(t *testing.T) {
		_, err := run(t, "wsinfra", "schedule", dir, "-o", "xml")
		assert.Error(t, err)
	})
}
