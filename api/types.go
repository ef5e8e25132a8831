package api

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ColorFormat identifies the syntax a color declaration was written in.
type ColorFormat string

const (
	FormatCMYK ColorFormat = "cmyk"
	FormatRGB  ColorFormat = "rgb"
	FormatHex  ColorFormat = "hex"
	FormatSpot ColorFormat = "spot"
)

// ColorSpaceClass is the overall classification of an artwork's declared inks.
type ColorSpaceClass string

const (
	ClassCMYK    ColorSpaceClass = "CMYK"
	ClassRGB     ColorSpaceClass = "RGB"
	ClassMixed   ColorSpaceClass = "MIXED"
	ClassUnknown ColorSpaceClass = ""
)

// ColorDeclaration is a single ink declaration extracted from artwork markup.
// OriginalText is preserved verbatim so overrides can substitute the exact
// token the designer wrote. Immutable once produced by analysis.
type ColorDeclaration struct {
	ID             string      `json:"id" yaml:"id"`
	OriginalText   string      `json:"original_text" yaml:"original_text"`
	Format         ColorFormat `json:"format" yaml:"format"`
	Components     []float64   `json:"components,omitempty" yaml:"components,omitempty"`
	SourceSelector string      `json:"source_selector,omitempty" yaml:"source_selector,omitempty"`
	SpotName       string      `json:"spot_name,omitempty" yaml:"spot_name,omitempty"`
	SpotDistance   float64     `json:"spot_distance,omitempty" yaml:"spot_distance,omitempty"`
}

// RGB returns the declaration's color as 8-bit RGB components, if the
// format carries enough information to derive them.
func (d ColorDeclaration) RGB() (r, g, b int, ok bool) {
	switch d.Format {
	case FormatRGB:
		if len(d.Components) >= 3 {
			return int(d.Components[0]), int(d.Components[1]), int(d.Components[2]), true
		}
	case FormatHex:
		rr, gg, bb, err := HexToRGB(d.OriginalText)
		if err == nil {
			return rr, gg, bb, true
		}
	case FormatSpot:
		if spot, found := SpotByName(d.SpotName); found {
			return int(spot.R), int(spot.G), int(spot.B), true
		}
	}
	return 0, 0, 0, false
}

// ColorAnalysis is the de-duplicated, ordered result of scanning artwork
// markup for ink declarations.
type ColorAnalysis struct {
	Colors []ColorDeclaration `json:"colors" yaml:"colors"`
	Class  ColorSpaceClass    `json:"class" yaml:"class"`
}

// Empty reports whether the analysis found no declarations. Callers treat
// an empty analysis as a "preserve original opaque" signal.
func (a ColorAnalysis) Empty() bool { return len(a.Colors) == 0 }

// HasCMYK reports whether any declaration is device-CMYK or a spot ink.
func (a ColorAnalysis) HasCMYK() bool {
	for _, c := range a.Colors {
		if c.Format == FormatCMYK || c.Format == FormatSpot {
			return true
		}
	}
	return false
}

// Declares reports whether the analysis contains a declaration whose
// original token matches exactly.
func (a ColorAnalysis) Declares(token string) bool {
	for _, c := range a.Colors {
		if c.OriginalText == token {
			return true
		}
	}
	return false
}

// ContentBounds is the tight rectangle enclosing the meaningful drawn
// geometry of a document, in source units. DocWidth and DocHeight carry
// the span of the document the bounds were measured in, so placement
// corrections can work in document proportions rather than ink units.
type ContentBounds struct {
	MinX      float64 `json:"min_x" yaml:"min_x"`
	MinY      float64 `json:"min_y" yaml:"min_y"`
	MaxX      float64 `json:"max_x" yaml:"max_x"`
	MaxY      float64 `json:"max_y" yaml:"max_y"`
	DocWidth  float64 `json:"doc_width,omitempty" yaml:"doc_width,omitempty"`
	DocHeight float64 `json:"doc_height,omitempty" yaml:"doc_height,omitempty"`
}

func (b ContentBounds) Width() float64  { return b.MaxX - b.MinX }
func (b ContentBounds) Height() float64 { return b.MaxY - b.MinY }

// Empty reports whether the bounds enclose no area.
func (b ContentBounds) Empty() bool { return b.Width() <= 0 || b.Height() <= 0 }

// HasOffset reports whether the ink origin differs from the document's
// nominal origin.
func (b ContentBounds) HasOffset() bool { return b.MinX != 0 || b.MinY != 0 }

// FileKind classifies an uploaded artwork document.
type FileKind string

const (
	KindVectorSVG  FileKind = "vector-svg"
	KindVectorPDF  FileKind = "vector-pdf"
	KindVectorAI   FileKind = "vector-ai"
	KindVectorEPS  FileKind = "vector-eps"
	KindRasterPNG  FileKind = "raster-png"
	KindRasterJPEG FileKind = "raster-jpeg"
	KindUnknown    FileKind = "unknown"
)

// KindOf determines the file kind from MIME type and filename, preferring
// the MIME type and falling back to the extension.
func KindOf(mimeType, filename string) FileKind {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	switch mimeType {
	case "image/svg+xml":
		return KindVectorSVG
	case "application/pdf":
		return KindVectorPDF
	case "application/postscript", "application/illustrator", "application/x-illustrator":
		if ext == "ai" {
			return KindVectorAI
		}
		return KindVectorEPS
	case "image/png":
		return KindRasterPNG
	case "image/jpeg", "image/jpg":
		return KindRasterJPEG
	}

	switch ext {
	case "svg":
		return KindVectorSVG
	case "pdf":
		return KindVectorPDF
	case "ai":
		return KindVectorAI
	case "eps":
		return KindVectorEPS
	case "png":
		return KindRasterPNG
	case "jpg", "jpeg":
		return KindRasterJPEG
	}
	return KindUnknown
}

// IsVector reports whether the kind carries resolution-independent geometry.
func (k FileKind) IsVector() bool {
	switch k {
	case KindVectorSVG, KindVectorPDF, KindVectorAI, KindVectorEPS:
		return true
	}
	return false
}

// IsRaster reports whether the kind is a pixel format.
func (k FileKind) IsRaster() bool {
	return k == KindRasterPNG || k == KindRasterJPEG
}

// IsPaginated reports whether the document is natively paginated and
// therefore eligible for first-page pass-through embedding.
func (k FileKind) IsPaginated() bool { return k == KindVectorPDF }

// ArtworkSource is an uploaded document together with its cached analysis
// results. Created at upload time, analyzed once, cached for the artwork's
// lifetime.
type ArtworkSource struct {
	ID         string   `json:"id" yaml:"id"`
	Filename   string   `json:"filename" yaml:"filename"`
	Path       string   `json:"path" yaml:"path"`
	MarkupPath string   `json:"markup_path,omitempty" yaml:"markup_path,omitempty"`
	Kind       FileKind `json:"kind" yaml:"kind"`
	// Vectorized marks artwork produced by automatic raster-to-vector
	// tracing, which tends to introduce stroke-only decorative artifacts.
	Vectorized bool `json:"vectorized,omitempty" yaml:"vectorized,omitempty"`

	Analysis *ColorAnalysis `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Bounds   *ContentBounds `json:"bounds,omitempty" yaml:"bounds,omitempty"`
}

// PlacedElement is a user-placed artwork instance on the millimeter canvas.
// Position and size describe the pre-rotation, axis-aligned box; rotation
// pivots around the box center. Owned by the design-editing collaborator
// and consumed read-only here.
type PlacedElement struct {
	ID           string  `json:"id" yaml:"id"`
	SourceID     string  `json:"source_id" yaml:"source_id"`
	X            float64 `json:"x" yaml:"x"`
	Y            float64 `json:"y" yaml:"y"`
	Width        float64 `json:"width" yaml:"width"`
	Height       float64 `json:"height" yaml:"height"`
	Rotation     float64 `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	ZIndex       int     `json:"z_index,omitempty" yaml:"z_index,omitempty"`
	GarmentColor string  `json:"garment_color,omitempty" yaml:"garment_color,omitempty"`

	// ColorOverrides maps an original declaration token to its replacement.
	// Keys that do not match a declaration in the source's analysis are
	// never applied.
	ColorOverrides map[string]string `json:"color_overrides,omitempty" yaml:"color_overrides,omitempty"`
}

// TemplateSize is a named product template in millimeters.
type TemplateSize struct {
	Name     string  `json:"name" yaml:"name"`
	WidthMM  float64 `json:"width_mm" yaml:"width_mm"`
	HeightMM float64 `json:"height_mm" yaml:"height_mm"`
}

// PageSpec describes one output page before assembly.
type PageSpec struct {
	WidthMM    float64         `json:"width_mm" yaml:"width_mm"`
	HeightMM   float64         `json:"height_mm" yaml:"height_mm"`
	Background string          `json:"background,omitempty" yaml:"background,omitempty"`
	Elements   []PlacedElement `json:"elements" yaml:"elements"`
}

// CompositeDocument is the ordered set of pages built for one export
// request. It is discarded after the output byte stream is returned.
type CompositeDocument struct {
	Pages []PageSpec `json:"pages" yaml:"pages"`
}

// Project is one artwork project as handed over by the persistence
// collaborator: the template, the placed elements and the selected garment
// colors.
type Project struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	Template      TemplateSize    `json:"template" yaml:"template"`
	Sources       []ArtworkSource `json:"sources,omitempty" yaml:"sources,omitempty"`
	Elements      []PlacedElement `json:"elements" yaml:"elements"`
	GarmentColor  string          `json:"garment_color,omitempty" yaml:"garment_color,omitempty"`
	GarmentColors []string        `json:"garment_colors,omitempty" yaml:"garment_colors,omitempty"`
	Comments      string          `json:"comments,omitempty" yaml:"comments,omitempty"`
	Quantity      int             `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}

// Validate checks the project is complete enough to export.
func (p *Project) Validate() error {
	if p.Template.WidthMM <= 0 || p.Template.HeightMM <= 0 {
		return fmt.Errorf("project %s: template %q has no usable dimensions", p.ID, p.Template.Name)
	}
	return nil
}

// SourceMap indexes the project's artwork sources by ID.
func (p *Project) SourceMap() map[string]*ArtworkSource {
	m := make(map[string]*ArtworkSource, len(p.Sources))
	for i := range p.Sources {
		m[p.Sources[i].ID] = &p.Sources[i]
	}
	return m
}

// GarmentViews returns the ordered, de-duplicated list of garment colors
// that need a composite page: the project-level selection first, then any
// per-element overrides.
func (p *Project) GarmentViews() []string {
	var views []string
	seen := map[string]bool{}
	add := func(hex string) {
		if hex == "" || hex == "transparent" || seen[hex] {
			return
		}
		seen[hex] = true
		views = append(views, hex)
	}
	add(p.GarmentColor)
	for _, hex := range p.GarmentColors {
		add(hex)
	}
	for _, el := range p.Elements {
		add(el.GarmentColor)
	}
	if len(views) == 0 {
		views = []string{"#FFFFFF"}
	}
	return views
}
