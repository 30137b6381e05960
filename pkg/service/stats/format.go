package stats

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// NoValue is shown for latency figures that have no sample
const NoValue = "-"

// Percentile returns the p-th percentile of values using linear
// interpolation between the closest ranks. Empty input yields 0.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	index := float64(n-1) * (p / 100)
	lower := int(index)
	if float64(lower) == index {
		return sorted[lower]
	}

	upper := lower + 1
	upperValue := sorted[lower]
	if upper < n {
		upperValue = sorted[upper]
	}
	return sorted[lower] + (upperValue-sorted[lower])*(index-float64(lower))
}

// FormatDuration renders seconds with the largest fitting unit between
// microseconds and hours, one decimal
func FormatDuration(seconds float64) string {
	switch {
	case seconds < 0 || math.IsNaN(seconds):
		return "0 ms"
	case seconds < 0.001:
		return fmt.Sprintf("%.1f µs", seconds*1e6)
	case seconds < 1:
		return fmt.Sprintf("%.1f ms", seconds*1e3)
	case seconds < 60:
		return fmt.Sprintf("%.1f s", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.1f m", seconds/60)
	default:
		return fmt.Sprintf("%.1f h", seconds/3600)
	}
}

var rateUnits = []string{"", "K", "M", "G", "T", "P"}

// FormatDataRate renders bits per second with 1000-based prefixes
func FormatDataRate(bps float64) string {
	if bps < 0 || math.IsNaN(bps) {
		return "0 Bps"
	}
	if bps < 1000 {
		return fmt.Sprintf("%.1f Bps", bps)
	}

	idx := 0
	for bps >= 1000 && idx < len(rateUnits)-1 {
		bps /= 1000
		idx++
	}
	return fmt.Sprintf("%.1f %sBps", bps, rateUnits[idx])
}

var siUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB"}

// FormatBytesSI renders a byte count with 1000-based units. The unit is
// picked from the number of integer digits, so 1000 to 1023 stay in bytes.
func FormatBytesSI(value float64) string {
	if value < 1024 {
		return strconv.FormatFloat(value, 'f', -1, 64) + " Bytes"
	}

	digits := len(strconv.FormatInt(int64(value), 10))
	exp := (digits - 1) / 3
	if exp > len(siUnits)-1 {
		exp = len(siUnits) - 1
	}
	return fmt.Sprintf("%.1f %s", value/math.Pow(1000, float64(exp)), siUnits[exp])
}

// round1 rounds to one decimal place
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
