package format

import (
	"fmt"
	"time"
)

// DateLayout is used for dates too old to show as a relative age.
const DateLayout = "2006-01-02"

// Age formats how long ago t was, relative to now, in a compact form:
// "now", "5h", "3d", "2w". Anything four weeks or older is shown as a
// date. The zero time renders as "-".
func Age(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t)
	if d < time.Hour {
		return "now"
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	days := int(d.Hours() / 24)
	if days < 7 {
		return fmt.Sprintf("%dd", days)
	}
	if weeks := days / 7; weeks < 4 {
		return fmt.Sprintf("%dw", weeks)
	}
	return t.Local().Format(DateLayout)
}

// Date formats t as a calendar date in local time, or "-" for the zero time.
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(DateLayout)
}
