package profile

import (
	"fmt"
	"strconv"
)

const (
	UnitBytes       = "bytes"
	UnitCount       = "count"
	UnitNanoseconds = "nanoseconds"
)

// FormatterForUnit maps a sample unit to a display formatter. Unknown
// units format as plain numbers.
func FormatterForUnit(unit string) ValueFormatter {
	switch unit {
	case UnitNanoseconds:
		return formatNanoseconds
	case UnitBytes:
		return formatBytes
	default:
		return formatCount
	}
}

func formatNanoseconds(v uint64) string {
	switch {
	case v < 1_000:
		return strconv.FormatUint(v, 10) + "ns"
	case v < 1_000_000:
		return fmt.Sprintf("%.1fµs", float64(v)/1_000)
	case v < 1_000_000_000:
		return fmt.Sprintf("%.1fms", float64(v)/1_000_000)
	default:
		return fmt.Sprintf("%.2fs", float64(v)/1_000_000_000)
	}
}

func formatBytes(v uint64) string {
	switch {
	case v < 1<<10:
		return strconv.FormatUint(v, 10) + "B"
	case v < 1<<20:
		return fmt.Sprintf("%.1fKiB", float64(v)/(1<<10))
	case v < 1<<30:
		return fmt.Sprintf("%.1fMiB", float64(v)/(1<<20))
	default:
		return fmt.Sprintf("%.1fGiB", float64(v)/(1<<30))
	}
}

func formatCount(v uint64) string {
	return strconv.FormatUint(v, 10)
}
