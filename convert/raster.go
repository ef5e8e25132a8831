package convert

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// RasterConverter is the pure-Go fallback. It rasterizes SVG artwork
// with oksvg and, for PDF output, embeds the raster into a
// single-page PDF. Vector fidelity is lost, so the manager only
// reaches for it when every external converter is missing or failed.
type RasterConverter struct{}

// NewRasterConverter creates a new raster fallback converter
func NewRasterConverter() *RasterConverter {
	return &RasterConverter{}
}

// Name returns the name of this converter
func (c *RasterConverter) Name() string {
	return "raster"
}

// IsAvailable always reports true; the rasterizer has no external dependencies
func (c *RasterConverter) IsAvailable() bool {
	return true
}

// SupportedFormats returns formats supported by the rasterizer
func (c *RasterConverter) SupportedFormats() []string {
	return []string{"png", "pdf"}
}

// Convert rasterizes an SVG file
func (c *RasterConverter) Convert(ctx context.Context, svgPath, outputPath string, options *Options) error {
	if options == nil {
		options = DefaultOptions()
	}

	if err := ctx.Err(); err != nil {
		return NewConverterError(c.Name(), "convert", err)
	}

	svgBytes, err := os.ReadFile(svgPath)
	if err != nil {
		return NewConverterError(c.Name(), "read SVG", err)
	}

	pngBytes, w, h, err := c.rasterize(svgBytes, options)
	if err != nil {
		return NewConverterError(c.Name(), "rasterize", err)
	}

	format := strings.ToLower(options.Format)
	switch format {
	case "png":
		if err := os.WriteFile(outputPath, pngBytes, 0644); err != nil {
			return NewConverterError(c.Name(), "write PNG", err)
		}
		return nil

	case "pdf":
		if err := c.wrapInPDF(pngBytes, w, h, options, outputPath); err != nil {
			return NewConverterError(c.Name(), "write PDF", err)
		}
		return nil

	default:
		return NewConverterError(c.Name(), "convert", fmt.Errorf("unsupported format: %s", format))
	}
}

// rasterize renders SVG bytes to PNG, preserving aspect ratio
func (c *RasterConverter) rasterize(svgBytes []byte, options *Options) ([]byte, int, int, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgBytes), oksvg.StrictErrorMode)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to parse SVG: %w", err)
	}

	width, height := options.Width, options.Height
	if width == 0 && height == 0 {
		vw, vh := icon.ViewBox.W, icon.ViewBox.H
		if vw <= 0 || vh <= 0 {
			vw, vh = 512, 512
		}
		dpi := options.DPI
		if dpi == 0 {
			dpi = 300
		}
		// SVG user units are nominally 96/inch
		width = int(vw * float64(dpi) / 96.0)
		height = int(vh * float64(dpi) / 96.0)
	} else if width == 0 {
		width = int(float64(height) * icon.ViewBox.W / icon.ViewBox.H)
	} else if height == 0 {
		height = int(float64(width) * icon.ViewBox.H / icon.ViewBox.W)
	}
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	icon.SetTarget(0, 0, float64(width), float64(height))

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, rgba); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return pngBuf.Bytes(), width, height, nil
}

// wrapInPDF embeds a PNG into a single-page PDF sized to the image
func (c *RasterConverter) wrapInPDF(pngBytes []byte, w, h int, options *Options, outputPath string) error {
	dpi := options.DPI
	if dpi == 0 {
		dpi = 300
	}
	// page size in points so downstream placement sees true dimensions
	wPt := float64(w) * 72.0 / float64(dpi)
	hPt := float64(h) * 72.0 / float64(dpi)

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: wPt, Ht: hPt},
	})
	doc.AddPage()

	doc.RegisterImageOptionsReader("artwork", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(pngBytes))
	doc.ImageOptions("artwork", 0, 0, wPt, hPt, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	if doc.Err() {
		return doc.Error()
	}
	return doc.OutputFileAndClose(outputPath)
}
