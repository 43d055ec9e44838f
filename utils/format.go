package utils

import (
	"fmt"
	"math"
	"strconv"
)

const (
	crore   = 10_000_000
	million = 1_000_000
)

func FormatCrore(v int64) string {
	return fmt.Sprintf("%.2f Crore", float64(v)/crore)
}

func FormatMillion(v int64) string {
	return fmt.Sprintf("%.2f Million", float64(v)/million)
}

// FormatThousands groups digits in threes: 1234567 -> 1,234,567.
func FormatThousands(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
