package display

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatMicrons returns a grain-size label like "0.3 um".
func FormatMicrons(size float64) string {
	return strconv.FormatFloat(size, 'g', -1, 64) + " um"
}

// FormatTemperatures returns a compact Kelvin list like "10, 100, 200, 300 K".
func FormatTemperatures(temps []int) string {
	if len(temps) == 0 {
		return "none"
	}
	parts := make([]string, len(temps))
	for i, t := range temps {
		parts[i] = strconv.Itoa(t)
	}
	return strings.Join(parts, ", ") + " K"
}

// FormatPercent renders a mass fraction as a percentage with one decimal,
// e.g. 0.2 -> "20.0%".
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}
