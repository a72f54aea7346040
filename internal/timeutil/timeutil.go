// Package timeutil formats timestamps as human-readable relative times.
package timeutil

import (
	"fmt"
	"time"
)

type unit struct {
	secs     int64
	singular string
	plural   string
}

var units = []unit{
	{365 * 24 * 60 * 60, "year", "years"},
	{30 * 24 * 60 * 60, "month", "months"},
	{7 * 24 * 60 * 60, "week", "weeks"},
	{24 * 60 * 60, "day", "days"},
	{60 * 60, "hour", "hours"},
	{60, "min", "mins"},
}

// RelativeUnix formats a Unix timestamp as relative time, e.g. "3 days ago".
func RelativeUnix(ts int64) string {
	if ts <= 0 {
		return "unknown"
	}
	return Relative(time.Unix(ts, 0))
}

// Relative formats a time as relative time, e.g. "3 days ago".
func Relative(t time.Time) string {
	return relativeAt(t, time.Now())
}

func relativeAt(t, now time.Time) string {
	secs := int64(now.Sub(t).Seconds())
	if secs < 60 {
		return "just now"
	}
	for _, u := range units {
		if secs >= u.secs {
			count := secs / u.secs
			label := u.plural
			if count == 1 {
				label = u.singular
			}
			return fmt.Sprintf("%d %s ago", count, label)
		}
	}
	return "just now"
}

var shortUnits = []struct {
	secs   int64
	suffix string
}{
	{7 * 24 * 60 * 60, "w"},
	{24 * 60 * 60, "d"},
	{60 * 60, "h"},
	{60, "m"},
}

// RelativeShort formats a time compactly, e.g. "3d ago", falling back to a
// "Jan 05" date for anything older than a month.
func RelativeShort(t time.Time) string {
	return relativeShortAt(t, time.Now())
}

func relativeShortAt(t, now time.Time) string {
	secs := int64(now.Sub(t).Seconds())
	if secs < 60 {
		return "now"
	}
	if secs >= 30*24*60*60 {
		return t.Format("Jan 02")
	}
	for _, u := range shortUnits {
		if secs >= u.secs {
			return fmt.Sprintf("%d%s ago", secs/u.secs, u.suffix)
		}
	}
	return "now"
}
