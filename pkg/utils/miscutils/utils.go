package miscutils

import (
	"fmt"
	"strconv"
	"time"
)

// FormatDuration renders d with a unit chosen by magnitude and two decimals,
// e.g. "850ns", "12.40μs", "3.05ms", "1.20s".
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.2fμs", float64(d.Nanoseconds())/1e3)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// FormatCount renders n with a k or M suffix when it divides evenly,
// e.g. 1000 -> "1k", 250000 -> "250k", 1500 -> "1500".
func FormatCount(n int) string {
	switch {
	case n != 0 && n%1_000_000 == 0:
		return strconv.Itoa(n/1_000_000) + "M"
	case n != 0 && n%1_000 == 0:
		return strconv.Itoa(n/1_000) + "k"
	default:
		return strconv.Itoa(n)
	}
}
