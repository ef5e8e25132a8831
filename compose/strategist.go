package compose

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flanksource/commons/logger"
	"github.com/jung-kurt/gofpdf"

	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/analysis"
	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/convert"
)

// Strategy names how an element's artwork reaches the output PDF.
type Strategy string

const (
	// StrategyPassthrough embeds an already-paginated PDF untouched,
	// keeping its native color values intact.
	StrategyPassthrough Strategy = "passthrough"
	// StrategyRecolor rewrites color tokens in the markup before
	// conversion.
	StrategyRecolor Strategy = "recolor"
	// StrategyConvert converts the artwork to PDF as-is.
	StrategyConvert Strategy = "convert"
)

// Strategist decides and executes the embedding path for each placed
// element.
type Strategist struct {
	Converters *convert.Manager
	Bridge     *convert.PostScriptBridge
	// Timeout bounds a single element's conversion; zero means no limit.
	Timeout time.Duration
}

// NewStrategist creates a strategist with auto-detected converters and
// a 60 second per-element conversion budget.
func NewStrategist() *Strategist {
	return &Strategist{
		Converters: convert.NewManager(),
		Bridge:     convert.NewPostScriptBridge(),
		Timeout:    60 * time.Second,
	}
}

// Plan returns the strategy for one element without executing it.
// Color overrides force re-conversion through markup; a paginated
// document with overrides but no markup companion has nothing to
// rewrite and stays on pass-through.
func (s *Strategist) Plan(src *api.ArtworkSource, el api.PlacedElement) Strategy {
	if src.Kind.IsPaginated() {
		if len(el.ColorOverrides) > 0 && src.MarkupPath != "" {
			return StrategyRecolor
		}
		return StrategyPassthrough
	}
	if len(el.ColorOverrides) > 0 && src.Kind == api.KindVectorSVG {
		return StrategyRecolor
	}
	return StrategyConvert
}

// Embed produces the PDF fragment for one element, writing any
// intermediate files under workDir. The returned path is either the
// source file itself (passthrough) or a freshly converted PDF.
func (s *Strategist) Embed(ctx context.Context, src *api.ArtworkSource, el api.PlacedElement, workDir string) (string, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	strategy := s.Plan(src, el)
	logger.Debugf("embedding element %s from %s via %s", el.ID, src.Filename, strategy)

	switch {
	case strategy == StrategyPassthrough:
		if len(el.ColorOverrides) > 0 {
			logger.Warnf("element %s: no markup for %s, color overrides dropped", el.ID, src.Filename)
		}
		return src.Path, nil

	case strategy == StrategyRecolor, src.Kind == api.KindVectorSVG:
		// recolored paginated artwork re-converts through its markup
		// companion, same as native SVG
		return s.embedSVG(ctx, src, el, workDir)

	case src.Kind == api.KindVectorAI || src.Kind == api.KindVectorEPS:
		out := filepath.Join(workDir, cleanIdentifier(el.ID)+".pdf")
		if err := s.Bridge.ToPDF(ctx, src.Path, out); err != nil {
			return "", err
		}
		return out, nil

	case src.Kind.IsRaster():
		return s.embedRaster(src, el, workDir)
	}

	return "", fmt.Errorf("element %s: unsupported artwork kind %q", el.ID, src.Kind)
}

func (s *Strategist) embedSVG(ctx context.Context, src *api.ArtworkSource, el api.PlacedElement, workDir string) (string, error) {
	markup, err := s.loadMarkup(src)
	if err != nil {
		return "", err
	}

	if len(el.ColorOverrides) > 0 {
		colorAnalysis := api.ColorAnalysis{}
		if src.Analysis != nil {
			colorAnalysis = *src.Analysis
		} else {
			colorAnalysis = analysis.Analyze(markup)
		}

		recolored, applied := analysis.ApplyOverrides(markup, el.ColorOverrides, colorAnalysis)
		logger.Debugf("element %s: applied %d of %d color overrides", el.ID, applied, len(el.ColorOverrides))
		markup = recolored
	}

	if src.Vectorized {
		markup = analysis.CleanVectorized(markup)
	}

	svgPath := filepath.Join(workDir, cleanIdentifier(el.ID)+".svg")
	if err := os.WriteFile(svgPath, []byte(markup), 0644); err != nil {
		return "", fmt.Errorf("element %s: failed to stage markup: %w", el.ID, err)
	}

	pdfPath := filepath.Join(workDir, cleanIdentifier(el.ID)+".pdf")
	opts := convert.DefaultOptions()
	if err := s.Converters.ConvertWithFallback(ctx, svgPath, pdfPath, opts); err != nil {
		return "", fmt.Errorf("element %s: conversion failed: %w", el.ID, err)
	}
	return pdfPath, nil
}

// embedRaster wraps a raster image into a single-page PDF sized to the
// image so placement math sees true proportions.
func (s *Strategist) embedRaster(src *api.ArtworkSource, el api.PlacedElement, workDir string) (string, error) {
	f, err := os.Open(src.Path)
	if err != nil {
		return "", fmt.Errorf("element %s: %w", el.ID, err)
	}
	cfg, _, err := image.DecodeConfig(f)
	f.Close() // nolint: errcheck
	if err != nil {
		return "", fmt.Errorf("element %s: cannot decode %s: %w", el.ID, src.Filename, err)
	}

	// assume 300dpi placement scale for uploaded photos
	wPt := float64(cfg.Width) * 72.0 / 300.0
	hPt := float64(cfg.Height) * 72.0 / 300.0

	imageType := "PNG"
	if src.Kind == api.KindRasterJPEG {
		imageType = "JPG"
	}

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: wPt, Ht: hPt},
	})
	doc.AddPage()
	doc.ImageOptions(src.Path, 0, 0, wPt, hPt, false, gofpdf.ImageOptions{ImageType: imageType}, 0, "")
	if doc.Err() {
		return "", fmt.Errorf("element %s: %w", el.ID, doc.Error())
	}

	out := filepath.Join(workDir, cleanIdentifier(el.ID)+".pdf")
	if err := doc.OutputFileAndClose(out); err != nil {
		return "", fmt.Errorf("element %s: %w", el.ID, err)
	}
	return out, nil
}

func (s *Strategist) loadMarkup(src *api.ArtworkSource) (string, error) {
	path := src.MarkupPath
	if path == "" {
		path = src.Path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read artwork markup %s: %w", path, err)
	}
	return string(data), nil
}

// NormalizationPolicy decides the one-time color pass for a finished
// document. Colors are preserved when any element carries genuine CMYK
// (declared CMYK ink that actually paints, or a passthrough PDF);
// otherwise everything is converted to CMYK.
func (s *Strategist) NormalizationPolicy(sources map[string]*api.ArtworkSource, elements []api.PlacedElement) convert.Policy {
	for _, el := range elements {
		src, ok := sources[el.SourceID]
		if !ok {
			continue
		}

		if s.Plan(src, el) == StrategyPassthrough {
			return convert.PolicyPreserve
		}

		if src.Kind == api.KindVectorSVG && src.Analysis != nil && src.Analysis.HasCMYK() {
			markup, err := s.loadMarkup(src)
			if err != nil {
				continue
			}
			if convert.InkCoverage(markup) > 0 {
				return convert.PolicyPreserve
			}
			logger.Debugf("element %s declares CMYK but paints no ink, not preserving", el.ID)
		}
	}
	return convert.PolicyConvert
}

// cleanIdentifier keeps element IDs filesystem-safe for temp filenames.
func cleanIdentifier(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
}
