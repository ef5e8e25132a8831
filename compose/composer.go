package compose

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
)

// Composer paints garment-colored backgrounds and production labels
// onto base pages. Artwork itself is stamped later by the assembler;
// the composer only draws what sits under and around it.
type Composer struct {
	// LabelHeightPt reserves a strip at the page bottom for labels.
	LabelHeightPt float64
}

// NewComposer creates a composer with the default label strip
func NewComposer() *Composer {
	return &Composer{LabelHeightPt: 28}
}

// Background fills the full page with the garment color
func (c *Composer) Background(doc *gofpdf.Fpdf, pageWPt, pageHPt float64, garment api.GarmentColor) {
	r, g, b := hexChannels(garment.Hex)
	doc.SetFillColor(r, g, b)
	doc.Rect(0, 0, pageWPt, pageHPt, "F")
}

// ElementSwatch fills the element's visual box with its garment color
// and writes the color's name just above the box. An element whose
// GarmentColor overrides the page garment gets its own swatch, so one
// sheet can proof a multi-garment order.
func (c *Composer) ElementSwatch(doc *gofpdf.Fpdf, pageHPt float64, p Placement, garment api.GarmentColor) {
	v := p.Visual()
	yTop := pageHPt - (v.Y + v.HeightPt)

	r, g, b := hexChannels(garment.Hex)
	doc.SetFillColor(r, g, b)
	doc.Rect(v.X, yTop, v.WidthPt, v.HeightPt, "F")

	nameY := yTop - 3
	if nameY < 8 {
		// no room above the box near the page top, drop inside it
		nameY = yTop + 9
	}
	doc.SetTextColor(0, 0, 0)
	doc.SetFont("Helvetica", "", 7)
	doc.Text(v.X, nameY, garment.Name)
}

// ElementFrame draws a hairline keyline around the visual box of a
// placement so prepress can see the ordered artwork extents on the
// garment view. gofpdf's y axis runs top-down, so the placement's
// bottom-left origin is flipped against the page height.
func (c *Composer) ElementFrame(doc *gofpdf.Fpdf, pageHPt float64, p Placement) {
	v := p.Visual()
	yTop := pageHPt - (v.Y + v.HeightPt)

	doc.SetDrawColor(128, 128, 128)
	doc.SetLineWidth(0.5)
	doc.Rect(v.X, yTop, v.WidthPt, v.HeightPt, "D")
}

// GarmentLabel writes the garment identification strip along the page
// bottom: swatch chip, color name and its ink values.
func (c *Composer) GarmentLabel(doc *gofpdf.Fpdf, pageWPt, pageHPt float64, garment api.GarmentColor) {
	y := pageHPt - c.LabelHeightPt

	// label strip background stays white for legibility on dark garments
	doc.SetFillColor(255, 255, 255)
	doc.Rect(0, y, pageWPt, c.LabelHeightPt, "F")

	r, g, b := hexChannels(garment.Hex)
	doc.SetFillColor(r, g, b)
	doc.SetDrawColor(0, 0, 0)
	doc.SetLineWidth(0.5)
	doc.Rect(6, y+6, 16, 16, "FD")

	doc.SetTextColor(0, 0, 0)
	doc.SetFont("Helvetica", "B", 9)
	doc.Text(28, y+12, garment.Label())
	doc.SetFont("Helvetica", "", 8)
	doc.Text(28, y+22, fmt.Sprintf("%s  %s", garment.Hex, garment.CMYK.String()))
}

// OrderLabel writes the project identification on the artwork page.
func (c *Composer) OrderLabel(doc *gofpdf.Fpdf, pageWPt, pageHPt float64, project *api.Project) {
	y := pageHPt - c.LabelHeightPt

	doc.SetTextColor(0, 0, 0)
	doc.SetFont("Helvetica", "B", 9)
	doc.Text(6, y+12, project.Name)

	line := fmt.Sprintf("%s  %.0fx%.0fmm", project.Template.Name, project.Template.WidthMM, project.Template.HeightMM)
	if project.Quantity > 0 {
		line += fmt.Sprintf("  qty %d", project.Quantity)
	}
	doc.SetFont("Helvetica", "", 8)
	doc.Text(6, y+22, line)
}

// hexChannels decodes a #RRGGBB value into 0-255 ints for gofpdf,
// falling back to white on malformed input.
func hexChannels(hex string) (int, int, int) {
	r, g, b, err := api.HexToRGB(hex)
	if err != nil {
		return 255, 255, 255
	}
	return r, g, b
}
