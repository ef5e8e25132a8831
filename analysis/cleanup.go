package analysis

import (
	"regexp"
	"strings"

	"github.com/flanksource/commons/logger"
)

// Vectorization of raster logos tends to emit hairline stroke-only
// outlines hugging every filled region. Embedding those as-is doubles
// the apparent edge weight on press, so stroke-only shapes are either
// promoted to fills (genuine small marks) or dropped (tracing noise).

const (
	dotMaxSide      = 4.0
	narrowMaxSide   = 2.0
	narrowMinDetail = 8
)

// ShapeMetrics describes a single drawable shape for artifact
// classification.
type ShapeMetrics struct {
	Width     float64
	Height    float64
	Commands  int
	HasFill   bool
	HasStroke bool
}

// ShapeAction is the cleanup verdict for one shape.
type ShapeAction int

const (
	// ShapeKeep leaves the shape untouched.
	ShapeKeep ShapeAction = iota
	// ShapeKeepFilled keeps the shape but converts its stroke to a fill.
	ShapeKeepFilled
	// ShapeDrop removes the shape entirely.
	ShapeDrop
)

// ClassifyShape decides what to do with a shape produced by
// vectorization. Filled shapes always survive. Stroke-only shapes
// survive only when they look like deliberate marks: small dots, or
// narrow detail strokes with enough path commands to carry structure.
func ClassifyShape(m ShapeMetrics) ShapeAction {
	if m.HasFill {
		return ShapeKeep
	}
	if !m.HasStroke {
		return ShapeDrop
	}
	if m.Width <= dotMaxSide && m.Height <= dotMaxSide {
		return ShapeKeepFilled
	}
	minSide := m.Width
	if m.Height < minSide {
		minSide = m.Height
	}
	if minSide <= narrowMaxSide && m.Commands >= narrowMinDetail {
		return ShapeKeepFilled
	}
	return ShapeDrop
}

var (
	cleanupPathRe = regexp.MustCompile(`(?s)<path\b[^>]*/?>`)
	pathDAttrRe   = regexp.MustCompile(`\bd\s*=\s*"([^"]*)"`)
	fillAttrRe    = regexp.MustCompile(`\bfill\s*=\s*"([^"]*)"`)
	strokeAttrRe  = regexp.MustCompile(`\bstroke\s*=\s*"([^"]*)"`)
	drawCommandRe = regexp.MustCompile(`[MmLlHhVvCcSsQqTtAaZz]`)
)

// CleanVectorized removes tracing artifacts from vectorized markup.
// Each path element is measured and classified; dropped paths are cut
// from the markup, and stroke-only keepers have their stroke color
// rewritten as a fill. Non-vectorized artwork should not be passed
// through this function.
func CleanVectorized(markup string) string {
	dropped, promoted := 0, 0

	out := cleanupPathRe.ReplaceAllStringFunc(markup, func(tag string) string {
		m := measurePath(tag)
		switch ClassifyShape(m) {
		case ShapeDrop:
			dropped++
			return ""
		case ShapeKeepFilled:
			promoted++
			return promoteStrokeToFill(tag)
		default:
			return tag
		}
	})

	if dropped > 0 || promoted > 0 {
		logger.Debugf("vectorized cleanup: dropped %d artifact shapes, promoted %d stroke shapes to fills", dropped, promoted)
	}
	return out
}

func measurePath(tag string) ShapeMetrics {
	m := ShapeMetrics{}

	if d := pathDAttrRe.FindStringSubmatch(tag); d != nil {
		m.Commands = len(drawCommandRe.FindAllString(d[1], -1))
		if pairs := coordinatePairs(d[1]); len(pairs) > 0 {
			minX, minY := pairs[0][0], pairs[0][1]
			maxX, maxY := minX, minY
			for _, p := range pairs[1:] {
				if p[0] < minX {
					minX = p[0]
				}
				if p[0] > maxX {
					maxX = p[0]
				}
				if p[1] < minY {
					minY = p[1]
				}
				if p[1] > maxY {
					maxY = p[1]
				}
			}
			m.Width = maxX - minX
			m.Height = maxY - minY
		}
	}

	m.HasFill = hasPaint(fillAttrRe, tag)
	m.HasStroke = hasPaint(strokeAttrRe, tag)
	return m
}

func hasPaint(re *regexp.Regexp, tag string) bool {
	match := re.FindStringSubmatch(tag)
	if match == nil {
		return false
	}
	v := strings.ToLower(strings.TrimSpace(match[1]))
	return v != "" && v != "none" && v != "transparent"
}

// promoteStrokeToFill rewrites a stroke-only path so the stroke color
// becomes its fill. The stroke attribute is neutralized rather than
// removed to keep attribute ordering stable.
func promoteStrokeToFill(tag string) string {
	stroke := strokeAttrRe.FindStringSubmatch(tag)
	if stroke == nil {
		return tag
	}
	color := stroke[1]

	if fillAttrRe.MatchString(tag) {
		tag = fillAttrRe.ReplaceAllString(tag, `fill="`+color+`"`)
	} else {
		tag = strings.Replace(tag, "<path", `<path fill="`+color+`"`, 1)
	}
	return strokeAttrRe.ReplaceAllString(tag, `stroke="none"`)
}
