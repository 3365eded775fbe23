package common

import (
	"fmt"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/CrestNiraj12/skyterm/domain"
)

// TimestampLayout is how post times are shown, e.g. "Mar 01, 06:30 AM".
const TimestampLayout = "Jan 02, 03:04 PM"

// FormatTimestamp renders t in loc. A nil loc means UTC.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimestampLayout)
}

// RelativeTime renders how long ago t was, relative to now.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// ReplyLabel describes who a reply is addressed to.
func ReplyLabel(author, parent string, self bool) string {
	switch {
	case self:
		return fmt.Sprintf("@%s replied to themselves", author)
	case parent == "" || parent == domain.UnknownHandle:
		return fmt.Sprintf("@%s replied to %s", author, domain.UnknownHandle)
	default:
		return fmt.Sprintf("@%s replied to @%s", author, parent)
	}
}

// Preview shortens s to limit cells, marking the cut with "...".
func Preview(s string, limit int) string {
	if ansi.StringWidth(s) <= limit {
		return s
	}
	return ansi.Truncate(s, limit, "") + "..."
}
