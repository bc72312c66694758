package abac

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Name parsing recovers curve parameters from human-authored names such as
// "1000 kg", "5000 ft" or "headwind 20". It runs when documents are imported
// and never while resolving a cascade.

var (
	windNameRe  = regexp.MustCompile(`(?i)(headwind|tailwind)\s*(-?\d+(?:\.\d+)?)`)
	unitSuffix  = regexp.MustCompile(`(?i)\s*(kt|kg|°C|m|ft|FL)\s*$`)
	firstNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

	leadingNumber = regexp.MustCompile(`^(-?[\d.]+)`)
	ordinalName   = regexp.MustCompile(`(?i)(?:courbe|curve|line)\s*(\d+)`)
	anyNumber     = regexp.MustCompile(`(-?[\d.]+)`)
	unitWord      = regexp.MustCompile(`\s+(\w+)$`)
)

// ParseCurveParameter extracts the family parameter from a curve name.
// "headwind N" and "tailwind N" give +N and -N with the matching direction;
// other names lose a trailing unit token and yield their first number.
func ParseCurveParameter(name string) (float64, WindDirection, bool) {
	clean := strings.TrimSpace(name)
	lower := strings.ToLower(clean)

	dir := WindDirection("")
	switch {
	case strings.Contains(lower, "headwind"):
		dir = WindHeadwind
	case strings.Contains(lower, "tailwind"):
		dir = WindTailwind
	}

	if m := windNameRe.FindStringSubmatch(clean); m != nil {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, dir, false
		}
		v = math.Abs(v)
		if strings.EqualFold(m[1], "tailwind") {
			v = -v
		}
		return v, dir, true
	}

	clean = unitSuffix.ReplaceAllString(clean, "")
	m := firstNumber.FindString(clean)
	if m == "" {
		return 0, dir, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, dir, false
	}
	return v, dir, true
}

// nameParameter tries, in order: a leading number, "courbe/curve/line N",
// then any number in the name.
func nameParameter(name string) (float64, bool) {
	for _, re := range []*regexp.Regexp{leadingNumber, ordinalName, anyNumber} {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if v, err := parseLooseFloat(m[1]); err == nil {
			return v, true
		}
	}
	return 0, false
}

// parseLooseFloat parses the longest valid numeric prefix, so "1.5.2"
// reads as 1.5.
func parseLooseFloat(s string) (float64, error) {
	var err error
	for end := len(s); end > 0; end-- {
		var v float64
		if v, err = strconv.ParseFloat(s[:end], 64); err == nil {
			return v, nil
		}
	}
	return 0, err
}

// unitOf returns the trailing word of a curve name ("1000 kg" -> "kg").
func unitOf(name string) string {
	if m := unitWord.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return ""
}

// MigrateCurve fills Parameter and WindDirection from the name when they are
// unset.
func MigrateCurve(c *Curve) {
	v, dir, ok := ParseCurveParameter(c.Name)
	if c.Parameter == nil && ok {
		c.Parameter = Float(v)
	}
	if c.WindDirection == "" && dir != "" {
		c.WindDirection = dir
	}
}

// MigrateGraph applies MigrateCurve to every curve and sets ReferenceEdge
// when it is empty: "max" for mass charts (name mentions mass, or the common
// fitted x-range lies above 800..1100), "min" otherwise.
func MigrateGraph(g *GraphConfig) {
	for i := range g.Curves {
		MigrateCurve(&g.Curves[i])
	}
	if g.ReferenceEdge == "" {
		if looksLikeMassGraph(g) {
			g.ReferenceEdge = EdgeMax
		} else {
			g.ReferenceEdge = EdgeMin
		}
	}
}

func looksLikeMassGraph(g *GraphConfig) bool {
	name := strings.ToLower(g.Name)
	if strings.Contains(name, "masse") || strings.Contains(name, "mass") {
		return true
	}
	lo, hi := math.Inf(-1), math.Inf(1)
	fitted := false
	for i := range g.Curves {
		a, b, ok := g.Curves[i].XRange()
		if !ok {
			continue
		}
		lo = math.Max(lo, a)
		hi = math.Min(hi, b)
		fitted = true
	}
	return fitted && lo > 800 && hi > 1100
}

var windKeywords = []string{
	"vent", "wind", "headwind", "tailwind", "crosswind", "vent de face", "vent arrière",
}

// DetectWindRelated reports whether the graph name or axis labels mention
// wind.
func DetectWindRelated(g *GraphConfig) bool {
	fields := []string{g.Name}
	if g.Axes != nil {
		fields = append(fields,
			g.Axes.XAxis.Title, g.Axes.XAxis.Unit,
			g.Axes.YAxis.Title, g.Axes.YAxis.Unit)
	}
	for _, f := range fields {
		f = strings.ToLower(f)
		for _, kw := range windKeywords {
			if strings.Contains(f, kw) {
				return true
			}
		}
	}
	return false
}
