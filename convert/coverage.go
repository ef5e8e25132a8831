package convert

import (
	"image"
	"strings"

	"github.com/flanksource/commons/logger"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const coverageSample = 128 // px; coarse but plenty for a yes/no ink signal

// InkCoverage rasterizes markup at a small sample size and reports the
// fraction of pixels that carry visible ink (opaque and not white).
// The normalization policy uses it to avoid trusting color
// declarations that never actually paint anything.
func InkCoverage(markup string) float64 {
	icon, err := oksvg.ReadIconStream(strings.NewReader(markup), oksvg.WarnErrorMode)
	if err != nil {
		logger.Debugf("ink coverage sample failed to parse markup: %v", err)
		return 0
	}

	w, h := coverageSample, coverageSample
	if icon.ViewBox.W > 0 && icon.ViewBox.H > 0 {
		if icon.ViewBox.W > icon.ViewBox.H {
			h = int(float64(w) * icon.ViewBox.H / icon.ViewBox.W)
		} else {
			w = int(float64(h) * icon.ViewBox.W / icon.ViewBox.H)
		}
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	inked := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := rgba.RGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			if c.R >= 250 && c.G >= 250 && c.B >= 250 {
				continue
			}
			inked++
		}
	}

	return float64(inked) / float64(w*h)
}
