// Package compose builds the final print document: garment-colored
// composite pages with labels, artwork placement in PDF point space,
// and the assembly state machine that stitches everything together.
package compose

import (
	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
)

// MMToPoint converts millimeters to PDF points (72 / 25.4).
const MMToPoint = 2.834645669

// minElementMM is the smallest dimension an element may collapse to.
const minElementMM = 1.0

// Placement is an element's box in PDF point space: origin at the
// bottom-left of the page, y growing upward. Width and height are the
// pre-rotation box; rotation pivots around the box center.
type Placement struct {
	X        float64
	Y        float64
	WidthPt  float64
	HeightPt float64
	Rotation float64
}

// CenterX returns the horizontal center of the placement
func (p Placement) CenterX() float64 { return p.X + p.WidthPt/2 }

// CenterY returns the vertical center of the placement
func (p Placement) CenterY() float64 { return p.Y + p.HeightPt/2 }

// Visual returns the axis-aligned box the placement occupies after
// rotation. Quarter turns swap width and height around the same
// center; other angles keep the original box.
func (p Placement) Visual() Placement {
	rot := normalizeAngle(p.Rotation)
	if rot != 90 && rot != 270 {
		return p
	}
	return Placement{
		X:        p.CenterX() - p.HeightPt/2,
		Y:        p.CenterY() - p.WidthPt/2,
		WidthPt:  p.HeightPt,
		HeightPt: p.WidthPt,
		Rotation: p.Rotation,
	}
}

func normalizeAngle(deg float64) float64 {
	r := deg
	for r < 0 {
		r += 360
	}
	for r >= 360 {
		r -= 360
	}
	return r
}

// Transform maps a placed element from the millimeter canvas (origin
// top-left, y down) into PDF point space (origin bottom-left, y up) on
// a page of the given size. Elements smaller than 1mm in either axis
// are clamped so they stay visible on press proofs.
func Transform(el api.PlacedElement, page api.PageSpec) Placement {
	w := el.Width
	h := el.Height
	if w < minElementMM {
		w = minElementMM
	}
	if h < minElementMM {
		h = minElementMM
	}

	wPt := w * MMToPoint
	hPt := h * MMToPoint
	pageHPt := page.HeightMM * MMToPoint

	return Placement{
		X:        el.X * MMToPoint,
		Y:        pageHPt - el.Y*MMToPoint - hPt,
		WidthPt:  wPt,
		HeightPt: hPt,
		Rotation: el.Rotation,
	}
}

// CorrectForBounds shifts a placement so the artwork's ink origin
// lands where the element box says it should. Artwork whose content
// bounds start away from its own coordinate origin would otherwise
// render offset inside the box by that margin. The margin scales in
// document proportions, matching how the stamp maps the whole fragment
// page into the element box (uniform, the smaller of the two ratios),
// so the correction requires the bounds to carry their document span.
func CorrectForBounds(p Placement, bounds *api.ContentBounds) Placement {
	if bounds == nil || bounds.Empty() || !bounds.HasOffset() {
		return p
	}
	if bounds.DocWidth <= 0 || bounds.DocHeight <= 0 {
		return p
	}

	scale := p.WidthPt / bounds.DocWidth
	if sy := p.HeightPt / bounds.DocHeight; sy < scale {
		scale = sy
	}

	p.X -= bounds.MinX * scale
	// y axis is flipped relative to the artwork's own space, so the
	// top margin pushes the placement up rather than down
	p.Y += bounds.MinY * scale
	return p
}
