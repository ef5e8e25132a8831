package compose

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/convert"
)

// copyNormalizer stands in for Ghostscript in tests.
type copyNormalizer struct {
	policies []convert.Policy
}

func (n *copyNormalizer) Normalize(ctx context.Context, inputPath, outputPath string, policy convert.Policy) error {
	n.policies = append(n.policies, policy)
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0644)
}

func writeFragmentPDF(t *testing.T, path string) {
	t.Helper()

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: 200, Ht: 100},
	})
	doc.AddPage()
	doc.SetFillColor(200, 30, 30)
	doc.Rect(0, 0, 200, 100, "F")
	require.NoError(t, doc.OutputFileAndClose(path))
}

func assertValidPDF(t *testing.T, path string) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = pdfapi.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	require.NoError(t, err, "output is not a structurally valid PDF")
}

func testAssembler(normalizer convert.Normalizer) *Assembler {
	a := NewAssembler()
	a.Normalizer = normalizer
	return a
}

func testProject() *api.Project {
	return &api.Project{
		ID:           "p1",
		Name:         "Front Print",
		Template:     api.TemplateSize{Name: "A4", WidthMM: 210, HeightMM: 297},
		GarmentColor: "#FF0000",
		Elements: []api.PlacedElement{
			{ID: "e1", SourceID: "s1", X: 20, Y: 30, Width: 60, Height: 30},
			{ID: "e2", SourceID: "missing", X: 100, Y: 100, Width: 40, Height: 40},
			{ID: "e3", SourceID: "s1", X: 20, Y: 120, Width: 60, Height: 30, ZIndex: 1},
		},
	}
}

func TestAssemble_SkipsFailingElements(t *testing.T) {
	dir := t.TempDir()
	fragment := filepath.Join(dir, "artwork.pdf")
	writeFragmentPDF(t, fragment)

	sources := map[string]*api.ArtworkSource{
		"s1": {ID: "s1", Filename: "artwork.pdf", Kind: api.KindVectorPDF, Path: fragment},
	}

	normalizer := &copyNormalizer{}
	assembler := testAssembler(normalizer)
	output := filepath.Join(dir, "out.pdf")

	result, err := assembler.Assemble(context.Background(), testProject(), sources, output)
	require.NoError(t, err)
	require.NotNil(t, result)

	// one element references a missing source; the other two embed
	assert.Equal(t, 2, result.Embedded)
	assert.Equal(t, []string{"e2"}, result.Skipped)
	assert.Equal(t, StateDone, assembler.State())
	assert.Equal(t, output, result.Path)

	// artwork page plus one red garment view
	assert.Equal(t, 2, result.Pages)
	pageCount, err := pdfapi.PageCountFile(output)
	require.NoError(t, err)
	assert.Equal(t, 2, pageCount)

	assertValidPDF(t, output)

	// passthrough PDF artwork preserves colors
	require.Len(t, normalizer.policies, 1)
	assert.Equal(t, convert.PolicyPreserve, normalizer.policies[0])
}

func TestAssemble_ZeroEmbeddedStillValid(t *testing.T) {
	dir := t.TempDir()

	project := testProject()
	project.Elements = []api.PlacedElement{
		{ID: "e1", SourceID: "missing", X: 10, Y: 10, Width: 50, Height: 50},
	}

	assembler := testAssembler(&copyNormalizer{})
	output := filepath.Join(dir, "out.pdf")

	result, err := assembler.Assemble(context.Background(), project, nil, output)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Embedded)
	assert.Equal(t, []string{"e1"}, result.Skipped)
	assert.Equal(t, StateDone, assembler.State())
	assert.Equal(t, convert.PolicyConvert, result.Policy)
	assertValidPDF(t, output)
}

func TestAssemble_SingleUse(t *testing.T) {
	dir := t.TempDir()
	assembler := testAssembler(&copyNormalizer{})
	output := filepath.Join(dir, "out.pdf")

	project := testProject()
	project.Elements = nil

	_, err := assembler.Assemble(context.Background(), project, nil, output)
	require.NoError(t, err)

	_, err = assembler.Assemble(context.Background(), project, nil, output)
	assert.Error(t, err)
}

func TestAssemble_InvalidProjectFails(t *testing.T) {
	assembler := testAssembler(&copyNormalizer{})

	project := &api.Project{ID: "broken", Template: api.TemplateSize{Name: "empty"}}
	_, err := assembler.Assemble(context.Background(), project, nil, filepath.Join(t.TempDir(), "out.pdf"))

	require.Error(t, err)
	assert.Equal(t, StateFailed, assembler.State())

	var asmErr *AssemblyError
	assert.ErrorAs(t, err, &asmErr)
}

func TestRenderPage_PerElementGarment(t *testing.T) {
	assembler := testAssembler(&copyNormalizer{})

	page := api.PageSpec{
		WidthMM: 210, HeightMM: 297, Background: "#FF0000",
		Elements: []api.PlacedElement{
			{ID: "e1", SourceID: "s1", X: 10, Y: 10, Width: 50, Height: 30, GarmentColor: "#000080"},
			{ID: "e2", SourceID: "s1", X: 10, Y: 60, Width: 50, Height: 30},
		},
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: 210 * MMToPoint, Ht: 297 * MMToPoint},
	})
	pdf.SetCompression(false)
	assembler.renderPage(pdf, testProject(), page)
	require.False(t, pdf.Err(), "%v", pdf.Error())

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	content := buf.String()

	// red page garment fill, a navy swatch where the overriding element
	// sits, and both color names rendered
	assert.Contains(t, content, "1.000 0.000 0.000 rg")
	assert.Contains(t, content, "0.000 0.000 0.502 rg")
	assert.Contains(t, content, "(Navy)")
	assert.Contains(t, content, "(Red)")
}

func TestStampScale(t *testing.T) {
	box := Placement{WidthPt: 100, HeightPt: 50}

	// matching aspect maps the page edge-to-edge
	assert.InDelta(t, 0.5, stampScale(convert.PageHandle{WidthPt: 200, HeightPt: 100}, box), 1e-9)
	// a taller fragment is limited by the box height, not stretched
	assert.InDelta(t, 0.25, stampScale(convert.PageHandle{WidthPt: 100, HeightPt: 200}, box), 1e-9)
	// a wider fragment is limited by the box width
	assert.InDelta(t, 0.25, stampScale(convert.PageHandle{WidthPt: 400, HeightPt: 50}, box), 1e-9)
}

func TestAssemble_ConversionTimeoutSkips(t *testing.T) {
	dir := t.TempDir()
	markup := `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">` +
		`<rect x="0" y="0" width="10" height="10" fill="#333333"/></svg>`
	svgPath := filepath.Join(dir, "slow.svg")
	require.NoError(t, os.WriteFile(svgPath, []byte(markup), 0644))

	sources := map[string]*api.ArtworkSource{
		"s1": {ID: "s1", Filename: "slow.svg", Kind: api.KindVectorSVG, Path: svgPath},
	}
	project := testProject()
	project.Elements = []api.PlacedElement{
		{ID: "e1", SourceID: "s1", X: 10, Y: 10, Width: 50, Height: 30},
	}

	assembler := testAssembler(&copyNormalizer{})
	assembler.Strategist = stubStrategist(&stubConverter{name: "stall", delay: 10 * time.Second})
	assembler.Strategist.Timeout = 50 * time.Millisecond

	output := filepath.Join(dir, "out.pdf")
	result, err := assembler.Assemble(context.Background(), project, sources, output)
	require.NoError(t, err)

	// the stalled conversion times out, the element is skipped, the
	// document still ships
	assert.Equal(t, 0, result.Embedded)
	assert.Equal(t, []string{"e1"}, result.Skipped)
	assert.Equal(t, StateDone, assembler.State())
	assertValidPDF(t, output)
}

func TestAssemble_WithSummarySheet(t *testing.T) {
	dir := t.TempDir()
	fragment := filepath.Join(dir, "artwork.pdf")
	writeFragmentPDF(t, fragment)

	sources := map[string]*api.ArtworkSource{
		"s1": {ID: "s1", Filename: "artwork.pdf", Kind: api.KindVectorPDF, Path: fragment},
	}

	project := testProject()
	project.Quantity = 25
	project.Comments = "rush order"

	assembler := testAssembler(&copyNormalizer{})
	assembler.IncludeSummary = true
	output := filepath.Join(dir, "out.pdf")

	result, err := assembler.Assemble(context.Background(), project, sources, output)
	require.NoError(t, err)

	// artwork page, garment view, summary sheet
	assert.Equal(t, 3, result.Pages)
	pageCount, err := pdfapi.PageCountFile(output)
	require.NoError(t, err)
	assert.Equal(t, 3, pageCount)

	assertValidPDF(t, output)
}
