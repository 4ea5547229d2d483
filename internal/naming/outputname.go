package naming

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Params carries everything that goes into an output filename.
// Temp == 0 means "no temperature"; MantleMaterial == "" means no mantle.
type Params struct {
	Material       string
	GrainSize      float64 // microns
	Temp           int     // Kelvin
	MantleMaterial string
	MantleFraction float64 // mass fraction in (0,1]
}

// reTempSuffix matches a trailing temperature qualifier like "_100K".
var reTempSuffix = regexp.MustCompile(`_\d+K$`)

// StripTempSuffix removes a trailing "_<digits>K" from a material identifier.
// Callers sometimes pass an already-temperature-qualified identifier; without
// stripping, the temperature would appear twice in the output name.
func StripTempSuffix(material string) string {
	return reTempSuffix.ReplaceAllString(material, "")
}

// FormatFraction renders a mantle mass fraction in fixed-point notation:
// ten decimal digits, trailing zeros stripped, then a trailing dot stripped.
// This never produces scientific notation for fractions in (0,1].
func FormatFraction(f float64) string {
	s := fmt.Sprintf("%.10f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// FormatGrainSize renders a grain size with the shortest representation that
// round-trips (0.3 -> "0.3", 1 -> "1").
func FormatGrainSize(g float64) string {
	return strconv.FormatFloat(g, 'g', -1, 64)
}

// OutputFileName builds the final opacity filename for a scheme. Field order
// is fixed: prefix, base material, mantle descriptor, temperature, grain size.
func OutputFileName(s Scheme, p Params) string {
	base := StripTempSuffix(p.Material)

	var b strings.Builder
	b.WriteString(s.Prefix())
	b.WriteByte('_')
	b.WriteString(base)

	if s == SchemePlain && p.MantleMaterial != "" {
		b.WriteString("_m")
		b.WriteString(p.MantleMaterial)
		b.WriteByte('_')
		b.WriteString(FormatFraction(p.MantleFraction))
	}

	if p.Temp > 0 {
		fmt.Fprintf(&b, "_%dK", p.Temp)
	}

	b.WriteString("_a")
	b.WriteString(FormatGrainSize(p.GrainSize))
	b.WriteString(".inp")
	return b.String()
}

// ScatMatWorkDir returns the per-request working directory name used by the
// scattering-matrix scheme under temp_optool_output/. The legacy layout keeps
// the empty temperature slot (double underscore) when no temperature is set,
// and that layout is preserved here.
func ScatMatWorkDir(p Params) string {
	base := StripTempSuffix(p.Material)
	tempStr := ""
	if p.Temp > 0 {
		tempStr = fmt.Sprintf("%dK", p.Temp)
	}
	return fmt.Sprintf("%s_%s_a%s", base, tempStr, FormatGrainSize(p.GrainSize))
}
