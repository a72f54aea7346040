package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestRelative(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "just now"},
		{30 * time.Second, "just now"},
		{time.Minute, "1 min ago"},
		{5 * time.Minute, "5 mins ago"},
		{time.Hour, "1 hour ago"},
		{2 * time.Hour, "2 hours ago"},
		{26 * time.Hour, "1 day ago"},
		{3 * 24 * time.Hour, "3 days ago"},
		{8 * 24 * time.Hour, "1 week ago"},
		{40 * 24 * time.Hour, "1 month ago"},
		{400 * 24 * time.Hour, "1 year ago"},
		{800 * 24 * time.Hour, "2 years ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relativeAt(now.Add(-tt.ago), now), "%v ago", tt.ago)
	}
}

func TestRelativeShort(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{3 * 24 * time.Hour, "3d ago"},
		{2 * 7 * 24 * time.Hour, "2w ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relativeShortAt(now.Add(-tt.ago), now), "%v ago", tt.ago)
	}
}

func TestRelativeShortFallsBackToDate(t *testing.T) {
	old := now.Add(-60 * 24 * time.Hour)
	assert.Equal(t, old.Format("Jan 02"), relativeShortAt(old, now))
}

func TestRelativeUnix(t *testing.T) {
	assert.Equal(t, "unknown", RelativeUnix(0))
	assert.Equal(t, "unknown", RelativeUnix(-5))
	assert.Equal(t, "just now", RelativeUnix(time.Now().Unix()))
}
