// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package schedule understands the AWS six-field cron expressions used by
// Image Builder pipelines: cron(minutes hours day-of-month month day-of-week
// year).
//
// Exactly one of day-of-month and day-of-week must be "?". Day-of-week runs
// 1-7 starting at Sunday, or SUN-SAT. Months take 1-12 or JAN-DEC. Fields
// accept "*", lists, ranges and "/" steps.
package schedule
