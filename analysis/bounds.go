package analysis

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/flanksource/commons/logger"

	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
)

// FallbackBoundsSize is the conservative square returned when no
// qualifying ink geometry exists, in source units.
const FallbackBoundsSize = 300.0

// cornerTolerance is the fraction of the document span within which a
// white rectangle counts as touching the page corners.
const cornerTolerance = 0.05

var (
	pathTagRe    = regexp.MustCompile(`<path\b[^>]*>`)
	rectTagRe    = regexp.MustCompile(`<rect\b[^>]*>`)
	polygonTagRe = regexp.MustCompile(`<polygon\b[^>]*>`)
	defsRe       = regexp.MustCompile(`(?s)<defs\b.*?</defs>`)
	numberRe     = regexp.MustCompile(`-?\d*\.?\d+(?:[eE][-+]?\d+)?`)
	viewBoxRe    = regexp.MustCompile(`viewBox\s*=\s*"([^"]+)"`)
	attrRe       = regexp.MustCompile(`([a-zA-Z-]+)\s*=\s*"([^"]*)"`)
	commandRe    = regexp.MustCompile(`[A-Za-z]`)
)

// ContentBounds computes the tight bounding box of the meaningful drawn
// geometry in the markup, excluding background fills and reused
// glyph-outline definitions. Never fails: when no qualifying geometry is
// found a fixed conservative fallback is returned. Identical input always
// yields identical output.
func ContentBounds(markup string) api.ContentBounds {
	docW, docH := documentSpan(markup)

	// Live text instantiated through glyph references draws via <use>;
	// the outline definitions themselves are not visible geometry.
	scanned := markup
	if strings.Contains(markup, "<use") && strings.Contains(markup, "#glyph") {
		scanned = defsRe.ReplaceAllString(markup, "")
	}

	var points [][2]float64
	for _, tag := range pathTagRe.FindAllString(scanned, -1) {
		attrs := parseAttrs(tag)
		d := attrs["d"]
		if d == "" {
			continue
		}
		pts := coordinatePairs(d)
		if len(pts) == 0 {
			continue
		}
		if isBackgroundShape(attrs, fillOf(attrs), pts, docW, docH) {
			continue
		}
		points = append(points, pts...)
	}
	for _, tag := range rectTagRe.FindAllString(scanned, -1) {
		attrs := parseAttrs(tag)
		x := floatAttr(attrs, "x")
		y := floatAttr(attrs, "y")
		w := floatAttr(attrs, "width")
		h := floatAttr(attrs, "height")
		if w <= 0 || h <= 0 {
			continue
		}
		pts := [][2]float64{{x, y}, {x + w, y + h}}
		if isBackgroundShape(attrs, fillOf(attrs), pts, docW, docH) {
			continue
		}
		points = append(points, pts...)
	}
	for _, tag := range polygonTagRe.FindAllString(scanned, -1) {
		attrs := parseAttrs(tag)
		pts := coordinatePairs(attrs["points"])
		if len(pts) == 0 {
			continue
		}
		if isBackgroundFill(fillOf(attrs)) {
			continue
		}
		points = append(points, pts...)
	}

	if len(points) == 0 {
		logger.Debugf("no qualifying ink geometry, using %gx%g fallback bounds", FallbackBoundsSize, FallbackBoundsSize)
		return api.ContentBounds{
			MaxX: FallbackBoundsSize, MaxY: FallbackBoundsSize,
			DocWidth: docW, DocHeight: docH,
		}
	}

	bounds := accumulate(points)

	// A span still wildly larger than the document indicates residual
	// background contamination; re-cluster around the centroid and keep
	// only the dense core.
	if exceedsSanitySpan(bounds, docW, docH) {
		if core := clusterCore(points); len(core) > 0 {
			bounds = accumulate(core)
		}
	}

	bounds.DocWidth = docW
	bounds.DocHeight = docH
	return bounds
}

func accumulate(points [][2]float64) api.ContentBounds {
	b := api.ContentBounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, p := range points {
		b.MinX = math.Min(b.MinX, p[0])
		b.MinY = math.Min(b.MinY, p[1])
		b.MaxX = math.Max(b.MaxX, p[0])
		b.MaxY = math.Max(b.MaxY, p[1])
	}
	return b
}

func exceedsSanitySpan(b api.ContentBounds, docW, docH float64) bool {
	if docW > 0 && docH > 0 {
		return b.Width() > docW*1.5 || b.Height() > docH*1.5
	}
	return b.Width() > 10000 || b.Height() > 10000
}

// clusterCore retains the points within a tolerance band around the
// centroid: three times the median centroid distance.
func clusterCore(points [][2]float64) [][2]float64 {
	var cx, cy float64
	for _, p := range points {
		cx += p[0]
		cy += p[1]
	}
	cx /= float64(len(points))
	cy /= float64(len(points))

	dists := make([]float64, len(points))
	for i, p := range points {
		dists[i] = math.Hypot(p[0]-cx, p[1]-cy)
	}
	sorted := append([]float64(nil), dists...)
	sort.Float64s(sorted)
	median := sorted[len(sorted)/2]
	band := median * 3
	if band == 0 {
		band = 1
	}

	var core [][2]float64
	for i, p := range points {
		if dists[i] <= band {
			core = append(core, p)
		}
	}
	return core
}

// isBackgroundShape classifies a shape as a background fill: pure white or
// transparent paint on a simple axis-aligned rectangle spanning near the
// document corners.
func isBackgroundShape(attrs map[string]string, fill string, pts [][2]float64, docW, docH float64) bool {
	if !isBackgroundFill(fill) {
		return false
	}
	if docW <= 0 || docH <= 0 {
		// Without a document span a white rectangle cannot be proven to be
		// a page background, so treat generously-sized ones as background.
		b := accumulate(pts)
		return len(pts) <= 6 && b.Width() > 0 && b.Height() > 0
	}
	if d, ok := attrs["d"]; ok && !isRectilinearPath(d) {
		return false
	}
	if len(pts) > 6 {
		return false
	}
	b := accumulate(pts)
	tolX := docW * cornerTolerance
	tolY := docH * cornerTolerance
	return b.MinX <= tolX && b.MinY <= tolY &&
		b.MaxX >= docW-tolX && b.MaxY >= docH-tolY
}

func isBackgroundFill(fill string) bool {
	switch strings.ToLower(strings.TrimSpace(fill)) {
	case "#fff", "#ffffff", "white", "rgb(255,255,255)", "rgb(255, 255, 255)", "none", "transparent":
		return true
	}
	return false
}

// isRectilinearPath reports whether a path uses only move/line/close
// commands, i.e. could be a plain rectangle.
func isRectilinearPath(d string) bool {
	for _, cmd := range commandRe.FindAllString(d, -1) {
		switch cmd {
		case "M", "m", "L", "l", "H", "h", "V", "v", "Z", "z":
		default:
			return false
		}
	}
	return true
}

// coordinatePairs extracts numeric coordinate pairs following path-drawing
// commands. Consecutive numbers are paired; an odd trailing value is
// dropped.
func coordinatePairs(d string) [][2]float64 {
	nums := numberRe.FindAllString(d, -1)
	pairs := make([][2]float64, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		x, errX := strconv.ParseFloat(nums[i], 64)
		y, errY := strconv.ParseFloat(nums[i+1], 64)
		if errX != nil || errY != nil {
			continue
		}
		pairs = append(pairs, [2]float64{x, y})
	}
	return pairs
}

func parseAttrs(tag string) map[string]string {
	attrs := map[string]string{}
	for _, m := range attrRe.FindAllStringSubmatch(tag, -1) {
		attrs[strings.ToLower(m[1])] = m[2]
	}
	return attrs
}

// fillOf resolves the effective fill of a shape tag, looking at both the
// fill attribute and any inline style.
func fillOf(attrs map[string]string) string {
	if f, ok := attrs["fill"]; ok {
		return f
	}
	if style, ok := attrs["style"]; ok {
		for _, part := range strings.Split(style, ";") {
			kv := strings.SplitN(part, ":", 2)
			if len(kv) == 2 && strings.TrimSpace(kv[0]) == "fill" {
				return strings.TrimSpace(kv[1])
			}
		}
	}
	// Unfilled shapes default to black ink in SVG.
	return "#000000"
}

func floatAttr(attrs map[string]string, name string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(attrs[name]), 64)
	return v
}

// documentSpan returns the artwork's nominal width and height in source
// units, from the viewBox when present, else from width/height attributes.
func documentSpan(markup string) (float64, float64) {
	if m := viewBoxRe.FindStringSubmatch(markup); m != nil {
		fields := strings.Fields(strings.ReplaceAll(m[1], ",", " "))
		if len(fields) == 4 {
			w, errW := strconv.ParseFloat(fields[2], 64)
			h, errH := strconv.ParseFloat(fields[3], 64)
			if errW == nil && errH == nil {
				return w, h
			}
		}
	}
	w := dimensionAttr(markup, "width")
	h := dimensionAttr(markup, "height")
	return w, h
}

func dimensionAttr(markup, name string) float64 {
	re := regexp.MustCompile(`<svg\b[^>]*\b` + name + `\s*=\s*"([^"]+)"`)
	m := re.FindStringSubmatch(markup)
	if m == nil {
		return 0
	}
	v := strings.TrimRight(m[1], "abcdefghijklmnopqrstuvwxyz% ")
	f, _ := strconv.ParseFloat(v, 64)
	return f
}
