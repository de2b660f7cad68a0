// Package schedule computes run instants for calendar-gated jobs.
//
// # Overview
//
// A job carries a cron-like start spec (per-field expressions for minute,
// hour, day, month and weekday), an optional fixed repetition frequency, a
// timezone and a calendar reference. The start spec is assembled into a
// five-field crontab line and compiled with robfig/cron; the resulting
// bitmasks drive both instant matching and the in-day search.
//
// NextRun walks forward one calendar day at a time in the job's zone,
// skipping days the resolved calendar rejects and days the spec's day-level
// fields reject, then picks the earliest matching time of day. With a
// frequency set, repetition anchors at the day's first hour+minute match and
// continues while the hour field still matches, so "minute:5 hour:*" with
// "15m" fires at :05, :20, :35 and :50 of every hour of a valid day.
//
// Like pkg/calendar, everything here is pure: no stored progress, no I/O,
// safe for concurrent use.
package schedule
