package pretty

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// FmtNum formats n with a decimal unit prefix, e.g. 1234567 -> "1.2M".
func FmtNum(n float64, suffix string) string {
	for _, unit := range []string{"", "K", "M", "G", "T", "P", "E", "Z"} {
		if math.Abs(n) < 1000 {
			return fmt.Sprintf("%3.1f%s%s", n, unit, suffix)
		}

		n /= 1000
	}

	return fmt.Sprintf("%.1f%s%s", n, "Y", suffix)
}

// FmtSizeof formats a byte count with a binary unit prefix, e.g.
// 2048 -> "2.0KiB". An empty suffix defaults to "B".
func FmtSizeof(n float64, suffix string) string {
	if suffix == "" {
		suffix = "B"
	}

	for _, unit := range []string{"", "Ki", "Mi", "Gi", "Ti", "Pi", "Ei", "Zi"} {
		if math.Abs(n) < 1024 {
			return fmt.Sprintf("%3.1f%s%s", n, unit, suffix)
		}

		n /= 1024
	}

	return fmt.Sprintf("%.1f%s%s", n, "Yi", suffix)
}

// FmtDelta formats a duration compactly, e.g. "1d1h1m1s" or "42s".
// Sub-second remainders are rounded to whole seconds.
func FmtDelta(d time.Duration) string {
	return fmtSecs(d.Seconds())
}

func fmtSecs(secs float64) string {
	for _, u := range []struct {
		unit string
		size float64
	}{
		{"d", 86400},
		{"h", 3600},
		{"m", 60},
	} {
		if secs >= u.size {
			n := math.Floor(secs / u.size)

			return strconv.FormatInt(int64(n), 10) + u.unit + fmtSecs(secs-n*u.size)
		}
	}

	return strconv.FormatInt(int64(math.Round(secs)), 10) + "s"
}

// Sec2MMSS formats a number of seconds as "MM:SS". Minutes are not wrapped
// into hours.
func Sec2MMSS(sec int) string {
	sign := ""
	if sec < 0 {
		sign = "-"
		sec = -sec
	}

	return fmt.Sprintf("%s%02d:%02d", sign, sec/60, sec%60)
}

// RoundUp1Digit rounds n up to its leading digit, e.g. 123 -> 200.
// Non-positive values are returned unchanged.
func RoundUp1Digit(n int) int {
	if n <= 0 {
		return n
	}

	fact := 1
	for range len(strconv.Itoa(n)) - 1 {
		fact *= 10
	}

	return (n + fact - 1) / fact * fact
}

// NthSigDigit rounds f to n significant digits. n is at least 1.
func NthSigDigit(f float64, n int) float64 {
	n = max(n, 1)

	out, err := strconv.ParseFloat(strconv.FormatFloat(f, 'g', n, 64), 64)
	if err != nil {
		return f
	}

	return out
}

// Ordinal returns n with its English ordinal suffix: 1st, 2nd, 3rd, 4th,
// 11th, 21st, 112th.
func Ordinal(n int) string {
	suffix := "th"

	m := n % 100
	if m < 0 {
		m = -m
	}

	if m < 11 || m > 13 {
		switch m % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}

	return strconv.Itoa(n) + suffix
}
