package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Count abbreviates large counts: 999 stays "999", 1234 becomes "1.2k" and
// 2500000 becomes "2.5M".
func Count(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1000:
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	default:
		return strconv.Itoa(n)
	}
}

// Labels joins up to max label names and summarizes the rest as "+N".
func Labels(names []string, max int) string {
	if len(names) == 0 {
		return ""
	}
	if max <= 0 || len(names) <= max {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s +%d", strings.Join(names[:max], ", "), len(names)-max)
}
