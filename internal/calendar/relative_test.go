package calendar

import (
	"testing"
	"time"
)

func TestRelativeAge(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{0, "Today"},
		{5 * time.Hour, "Today"},
		{-time.Hour, "Today"},
		{25 * time.Hour, "Yesterday"},
		{3 * 24 * time.Hour, "3 days ago"},
		{7 * 24 * time.Hour, "1 week ago"},
		{15 * 24 * time.Hour, "2 weeks ago"},
	}
	for _, c := range cases {
		if got := RelativeAge(now.Add(-c.ago), now); got != c.want {
			t.Fatalf("RelativeAge(-%v) = %q, want %q", c.ago, got, c.want)
		}
	}
}
