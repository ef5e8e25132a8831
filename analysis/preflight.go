package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/flanksource/commons/logger"
	"github.com/ledongthuc/pdf"
	"github.com/samber/lo"
)

// PreflightReport collects print-readiness findings for a single
// artwork file. It is advisory: nothing here blocks embedding, but the
// findings surface on the order summary so prepress can intervene
// before the press run.
type PreflightReport struct {
	HasLiveText     bool     `json:"has_live_text"`
	Fonts           []string `json:"fonts,omitempty"`
	MinStrokeWidth  float64  `json:"min_stroke_width,omitempty"`
	HasTransparency bool     `json:"has_transparency"`
	Warnings        []string `json:"warnings,omitempty"`
}

const hairlineThreshold = 0.25 // pt; below this strokes may not hold on press

var (
	textTagRe     = regexp.MustCompile(`<text\b`)
	strokeWidthRe = regexp.MustCompile(`stroke-width\s*[:=]\s*"?([0-9.]+)`)
	opacityRe     = regexp.MustCompile(`(?:fill-|stroke-)?opacity\s*[:=]\s*"?([0-9.]+)`)
)

// PreflightSVG inspects SVG markup for live text, hairline strokes and
// transparency.
func PreflightSVG(markup string) PreflightReport {
	r := PreflightReport{}

	if textTagRe.MatchString(markup) {
		r.HasLiveText = true
		r.Warnings = append(r.Warnings, "live text found: convert to outlines before production")
	}

	for _, m := range strokeWidthRe.FindAllStringSubmatch(markup, -1) {
		w, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if r.MinStrokeWidth == 0 || w < r.MinStrokeWidth {
			r.MinStrokeWidth = w
		}
	}
	if r.MinStrokeWidth > 0 && r.MinStrokeWidth < hairlineThreshold {
		r.Warnings = append(r.Warnings, "hairline strokes below 0.25pt may not print")
	}

	for _, m := range opacityRe.FindAllStringSubmatch(markup, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if v < 1.0 {
			r.HasTransparency = true
			r.Warnings = append(r.Warnings, "transparency found: flattening may shift colors")
			break
		}
	}

	return r
}

// PreflightPDF inspects a PDF file for embedded fonts. Live fonts in a
// passthrough PDF carry the same outline-conversion risk as SVG text.
func PreflightPDF(path string) PreflightReport {
	r := PreflightReport{}

	f, reader, err := pdf.Open(path)
	if err != nil {
		logger.Warnf("preflight: cannot open %s: %v", path, err)
		r.Warnings = append(r.Warnings, "file could not be inspected")
		return r
	}
	defer f.Close() // nolint: errcheck

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		r.Fonts = append(r.Fonts, page.Fonts()...)
	}
	r.Fonts = lo.Uniq(r.Fonts)

	if len(r.Fonts) > 0 {
		r.HasLiveText = true
		r.Warnings = append(r.Warnings,
			"embedded fonts found ("+strings.Join(r.Fonts, ", ")+"): convert to outlines before production")
	}
	return r
}
