package compose

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/convert"
)

// stubConverter copies the staged markup to the output path, optionally
// stalling until the context is cancelled.
type stubConverter struct {
	name  string
	delay time.Duration
	calls int
}

func (c *stubConverter) Name() string               { return c.name }
func (c *stubConverter) IsAvailable() bool          { return true }
func (c *stubConverter) SupportedFormats() []string { return []string{"pdf"} }

func (c *stubConverter) Convert(ctx context.Context, svgPath, outputPath string, _ *convert.Options) error {
	c.calls++
	if c.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.delay):
		}
	}
	data, err := os.ReadFile(svgPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0644)
}

func stubStrategist(c convert.Converter) *Strategist {
	return &Strategist{
		Converters: convert.NewManager(c),
		Bridge:     convert.NewPostScriptBridge(),
		Timeout:    time.Second,
	}
}

func TestPlan(t *testing.T) {
	s := NewStrategist()

	pdfSource := &api.ArtworkSource{Kind: api.KindVectorPDF}
	pdfWithMarkup := &api.ArtworkSource{Kind: api.KindVectorPDF, MarkupPath: "/orders/artwork.svg"}
	svgSource := &api.ArtworkSource{Kind: api.KindVectorSVG}
	pngSource := &api.ArtworkSource{Kind: api.KindRasterPNG}

	overrides := map[string]string{"#FF0000": "#00FF00"}

	assert.Equal(t, StrategyPassthrough, s.Plan(pdfSource, api.PlacedElement{}))
	assert.Equal(t, StrategyRecolor, s.Plan(svgSource, api.PlacedElement{ColorOverrides: overrides}))
	assert.Equal(t, StrategyConvert, s.Plan(svgSource, api.PlacedElement{}))
	assert.Equal(t, StrategyConvert, s.Plan(pngSource, api.PlacedElement{}))
	// overrides on a PDF with a markup companion re-convert; without one
	// there is nothing to rewrite and the PDF passes through
	assert.Equal(t, StrategyRecolor, s.Plan(pdfWithMarkup, api.PlacedElement{ColorOverrides: overrides}))
	assert.Equal(t, StrategyPassthrough, s.Plan(pdfSource, api.PlacedElement{ColorOverrides: overrides}))
}

func TestEmbed_PassthroughReturnsSourcePath(t *testing.T) {
	s := NewStrategist()
	src := &api.ArtworkSource{ID: "s1", Kind: api.KindVectorPDF, Path: "/orders/artwork.pdf"}

	got, err := s.Embed(context.Background(), src, api.PlacedElement{ID: "e1", SourceID: "s1"}, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "/orders/artwork.pdf", got)
}

func TestEmbed_RecoloredPDFConverts(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">` +
		`<rect x="0" y="0" width="10" height="10" fill="#FF0000"/></svg>`
	markupPath := filepath.Join(t.TempDir(), "artwork.svg")
	require.NoError(t, os.WriteFile(markupPath, []byte(markup), 0644))

	src := &api.ArtworkSource{
		ID: "s1", Filename: "artwork.pdf", Kind: api.KindVectorPDF,
		Path: "/orders/artwork.pdf", MarkupPath: markupPath,
	}
	el := api.PlacedElement{ID: "e1", SourceID: "s1", ColorOverrides: map[string]string{"#FF0000": "#00FF00"}}

	stub := &stubConverter{name: "stub"}
	s := stubStrategist(stub)
	workDir := t.TempDir()

	got, err := s.Embed(context.Background(), src, el, workDir)
	require.NoError(t, err)

	// plan said recolor, so execution must not hand back the source PDF
	assert.NotEqual(t, src.Path, got)
	assert.Equal(t, workDir, filepath.Dir(got))
	assert.Equal(t, 1, stub.calls)

	staged, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Contains(t, string(staged), "#00FF00")
	assert.False(t, strings.Contains(string(staged), "#FF0000"))
}

func TestEmbed_ConversionTimeout(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">` +
		`<rect x="0" y="0" width="10" height="10" fill="#333333"/></svg>`
	markupPath := filepath.Join(t.TempDir(), "slow.svg")
	require.NoError(t, os.WriteFile(markupPath, []byte(markup), 0644))

	src := &api.ArtworkSource{ID: "s1", Filename: "slow.svg", Kind: api.KindVectorSVG, Path: markupPath}

	s := stubStrategist(&stubConverter{name: "stall", delay: 10 * time.Second})
	s.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := s.Embed(context.Background(), src, api.PlacedElement{ID: "e1", SourceID: "s1"}, t.TempDir())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestEmbed_UnknownKind(t *testing.T) {
	s := NewStrategist()
	src := &api.ArtworkSource{ID: "s1", Kind: api.KindUnknown, Path: "/orders/mystery.bin"}

	_, err := s.Embed(context.Background(), src, api.PlacedElement{ID: "e1"}, t.TempDir())
	assert.Error(t, err)
}

func TestNormalizationPolicy_PassthroughPreserves(t *testing.T) {
	s := NewStrategist()

	sources := map[string]*api.ArtworkSource{
		"s1": {ID: "s1", Kind: api.KindVectorPDF, Path: "/orders/artwork.pdf"},
	}
	elements := []api.PlacedElement{{ID: "e1", SourceID: "s1"}}

	assert.Equal(t, convert.PolicyPreserve, s.NormalizationPolicy(sources, elements))
}

func TestNormalizationPolicy_CMYKWithInkPreserves(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">` +
		`<rect x="0" y="0" width="10" height="10" fill="#FF0000"/></svg>`
	path := filepath.Join(t.TempDir(), "art.svg")
	require.NoError(t, os.WriteFile(path, []byte(markup), 0644))

	s := NewStrategist()
	sources := map[string]*api.ArtworkSource{
		"s1": {
			ID: "s1", Kind: api.KindVectorSVG, Path: path,
			Analysis: &api.ColorAnalysis{
				Colors: []api.ColorDeclaration{{Format: api.FormatCMYK}},
				Class:  api.ClassCMYK,
			},
		},
	}
	elements := []api.PlacedElement{{ID: "e1", SourceID: "s1"}}

	assert.Equal(t, convert.PolicyPreserve, s.NormalizationPolicy(sources, elements))
}

func TestNormalizationPolicy_ConvertsByDefault(t *testing.T) {
	s := NewStrategist()

	// RGB-only SVG artwork converts
	sources := map[string]*api.ArtworkSource{
		"s1": {
			ID: "s1", Kind: api.KindVectorSVG, Path: "/missing.svg",
			Analysis: &api.ColorAnalysis{Class: api.ClassRGB},
		},
	}
	elements := []api.PlacedElement{{ID: "e1", SourceID: "s1"}}
	assert.Equal(t, convert.PolicyConvert, s.NormalizationPolicy(sources, elements))

	// no elements at all converts
	assert.Equal(t, convert.PolicyConvert, s.NormalizationPolicy(nil, nil))
}

func TestNormalizationPolicy_DeclaredCMYKWithoutInkConverts(t *testing.T) {
	// CMYK is declared but nothing paints: the declaration is not trusted
	markup := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">` +
		`<rect x="0" y="0" width="10" height="10" fill="none"/></svg>`
	path := filepath.Join(t.TempDir(), "empty.svg")
	require.NoError(t, os.WriteFile(path, []byte(markup), 0644))

	s := NewStrategist()
	sources := map[string]*api.ArtworkSource{
		"s1": {
			ID: "s1", Kind: api.KindVectorSVG, Path: path,
			Analysis: &api.ColorAnalysis{
				Colors: []api.ColorDeclaration{{Format: api.FormatCMYK}},
				Class:  api.ClassCMYK,
			},
		},
	}
	elements := []api.PlacedElement{{ID: "e1", SourceID: "s1"}}

	assert.Equal(t, convert.PolicyConvert, s.NormalizationPolicy(sources, elements))
}

func TestCleanIdentifier(t *testing.T) {
	assert.Equal(t, "el-1_front", cleanIdentifier("el-1_front"))
	assert.Equal(t, "a_b_c", cleanIdentifier("a/b:c"))
}
