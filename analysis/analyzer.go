// Package analysis extracts print-relevant facts from uploaded artwork
// markup: declared ink colors, tight content bounds, vectorization
// artifacts and preflight concerns. Results are cached per artwork source.
package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/flanksource/commons/logger"
	"github.com/rustyoz/svg"

	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
)

var (
	attrColorRe = regexp.MustCompile(`(fill|stroke)\s*=\s*"([^"]+)"`)
	// style attributes and inline <style> blocks share the property syntax
	styleColorRe = regexp.MustCompile(`(fill|stroke)\s*:\s*([^;"'}<]+)`)

	cmykRe       = regexp.MustCompile(`^device-cmyk\(\s*([0-9.]+%?)\s*[, ]\s*([0-9.]+%?)\s*[, ]\s*([0-9.]+%?)\s*[, ]\s*([0-9.]+%?)\s*\)$`)
	rgbRe        = regexp.MustCompile(`^rgb\(\s*([0-9.]+%?)\s*,\s*([0-9.]+%?)\s*,\s*([0-9.]+%?)\s*\)$`)
	hexRe        = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	spotMarkerRe = regexp.MustCompile(`(?i)PANTONE\s+[0-9A-Za-z][0-9A-Za-z ]*?\s*C\b`)
	spotHintRe   = regexp.MustCompile(`(?i)\b(pantone|spot|pms)\b`)
)

// Analyze scans artwork markup for ink declarations on drawable shapes and
// in style blocks, returning a de-duplicated ordered list and an overall
// color-space classification. An unreadable source yields an empty
// analysis; callers treat that as a "preserve original opaque" signal.
func Analyze(markup string) api.ColorAnalysis {
	if strings.TrimSpace(markup) == "" {
		return api.ColorAnalysis{}
	}
	if _, err := svg.ParseSvg(markup, "artwork", 1.0); err != nil {
		logger.Warnf("artwork markup is not readable, returning empty analysis: %v", err)
		return api.ColorAnalysis{}
	}

	spotHinted := spotHintRe.MatchString(markup)

	var colors []api.ColorDeclaration
	seen := map[string]bool{}

	add := func(decl api.ColorDeclaration) {
		// Dedup key: value + attribute + derived color.
		key := decl.OriginalText + "|" + decl.SourceSelector + "|" + string(decl.Format) + "|" + decl.SpotName
		if seen[key] {
			return
		}
		seen[key] = true
		decl.ID = fmt.Sprintf("color-%d", len(colors)+1)
		colors = append(colors, decl)
	}

	scan := func(matches [][]string) {
		for _, m := range matches {
			attr, value := m[1], strings.TrimSpace(m[2])
			decl, ok := parseColorValue(value, attr)
			if !ok {
				continue
			}
			if spotHinted && decl.Format != api.FormatCMYK && decl.SpotName == "" {
				if r, g, b, ok := decl.RGB(); ok {
					spot, dist := api.MatchSpot(r, g, b)
					decl.SpotName = spot.Name
					decl.SpotDistance = dist
				}
			}
			add(decl)
		}
	}

	scan(attrColorRe.FindAllStringSubmatch(markup, -1))
	scan(styleColorRe.FindAllStringSubmatch(markup, -1))

	// Embedded brand/spot markers in text or metadata are authoritative:
	// the named ink is declared even without a component value.
	for _, marker := range spotMarkerRe.FindAllString(markup, -1) {
		name := strings.Join(strings.Fields(marker), " ")
		spot, found := api.SpotByName(name)
		if !found {
			// Unknown ink name: nearest entry by the name's implied hue is
			// not derivable, so skip rather than guess.
			logger.Debugf("spot marker %q not in reference table, ignoring", name)
			continue
		}
		add(api.ColorDeclaration{
			OriginalText:   marker,
			Format:         api.FormatSpot,
			SourceSelector: "marker",
			SpotName:       spot.Name,
			SpotDistance:   0,
			Components: []float64{
				float64(spot.CMYK.C), float64(spot.CMYK.M),
				float64(spot.CMYK.Y), float64(spot.CMYK.K),
			},
		})
	}

	return api.ColorAnalysis{Colors: colors, Class: classify(colors)}
}

// parseColorValue recognizes the four supported syntaxes. "none" and
// "transparent" declarations are ignored, as are paint-server references.
func parseColorValue(value, attr string) (api.ColorDeclaration, bool) {
	lower := strings.ToLower(value)
	switch {
	case lower == "none" || lower == "transparent" || lower == "inherit" || lower == "currentcolor":
		return api.ColorDeclaration{}, false
	case strings.HasPrefix(lower, "url("):
		return api.ColorDeclaration{}, false
	}

	if m := cmykRe.FindStringSubmatch(lower); m != nil {
		return api.ColorDeclaration{
			OriginalText:   value,
			Format:         api.FormatCMYK,
			Components:     []float64{cmykComponent(m[1]), cmykComponent(m[2]), cmykComponent(m[3]), cmykComponent(m[4])},
			SourceSelector: attr,
		}, true
	}

	if m := rgbRe.FindStringSubmatch(lower); m != nil {
		return api.ColorDeclaration{
			OriginalText:   value,
			Format:         api.FormatRGB,
			Components:     []float64{rgbComponent(m[1]), rgbComponent(m[2]), rgbComponent(m[3])},
			SourceSelector: attr,
		}, true
	}

	if hexRe.MatchString(value) {
		r, g, b, err := api.HexToRGB(value)
		if err != nil {
			return api.ColorDeclaration{}, false
		}
		return api.ColorDeclaration{
			OriginalText:   value,
			Format:         api.FormatHex,
			Components:     []float64{float64(r), float64(g), float64(b)},
			SourceSelector: attr,
		}, true
	}

	return api.ColorDeclaration{}, false
}

// cmykComponent normalizes a device-cmyk component to a 0-100 percentage.
// Bare fractions (0-1) and explicit percentages are both accepted.
func cmykComponent(s string) float64 {
	if strings.HasSuffix(s, "%") {
		v, _ := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		return v
	}
	v, _ := strconv.ParseFloat(s, 64)
	if v <= 1.0 {
		return v * 100
	}
	return v
}

// rgbComponent normalizes an rgb() component to 0-255.
func rgbComponent(s string) float64 {
	if strings.HasSuffix(s, "%") {
		v, _ := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		return v / 100 * 255
	}
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func classify(colors []api.ColorDeclaration) api.ColorSpaceClass {
	var hasCMYK, hasRGB bool
	for _, c := range colors {
		switch c.Format {
		case api.FormatCMYK, api.FormatSpot:
			hasCMYK = true
		case api.FormatRGB, api.FormatHex:
			hasRGB = true
		}
	}
	switch {
	case hasCMYK && hasRGB:
		return api.ClassMixed
	case hasCMYK:
		return api.ClassCMYK
	case hasRGB:
		return api.ClassRGB
	}
	return api.ClassUnknown
}
