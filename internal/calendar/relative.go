package calendar

import (
	"fmt"
	"time"
)

// RelativeAge renders how long ago t was, in whole days, the way listings show
// a "last edited" column: Today, Yesterday, N days ago, N week(s) ago.
func RelativeAge(t, now time.Time) string {
	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	}
	weeks := days / 7
	if weeks == 1 {
		return "1 week ago"
	}
	return fmt.Sprintf("%d weeks ago", weeks)
}
