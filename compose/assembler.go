package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/flanksource/commons/logger"
	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	uploader "github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/convert"
)

// State tracks an assembler through its single run.
type State string

const (
	StateIdle             State = "idle"
	StateBuilding         State = "building"
	StateColorNormalizing State = "color-normalizing"
	StateDone             State = "done"
	StateFailed           State = "failed"
)

// Assembler builds the final print PDF for a project: an artwork page
// showing every placed element on white, followed by one composite
// page per selected garment color. An assembler is single-use; create
// a fresh one per export.
type Assembler struct {
	Strategist *Strategist
	Composer   *Composer
	Loader     convert.PageLoader
	Normalizer convert.Normalizer

	// IncludeSummary appends the order summary sheet after the
	// composite pages.
	IncludeSummary bool

	state State
}

// Result reports what an assembly run produced.
type Result struct {
	Path     string
	Pages    int
	Embedded int
	// Skipped lists element IDs whose artwork could not be embedded.
	Skipped []string
	Policy  convert.Policy
}

// NewAssembler creates an assembler with production collaborators
func NewAssembler() *Assembler {
	return &Assembler{
		Strategist: NewStrategist(),
		Composer:   NewComposer(),
		Loader:     convert.FileLoader{},
		Normalizer: convert.NewGhostscriptNormalizer(),
		state:      StateIdle,
	}
}

// State returns the assembler's current state
func (a *Assembler) State() State {
	return a.state
}

// Assemble builds the print document and writes it to outputPath.
// Elements whose artwork fails to convert or stamp are skipped with a
// warning; a document with zero embedded elements is still a valid
// result. Only document-level failures move the assembler to Failed.
func (a *Assembler) Assemble(ctx context.Context, project *uploader.Project, sources map[string]*uploader.ArtworkSource, outputPath string) (*Result, error) {
	if a.state != StateIdle {
		return nil, fmt.Errorf("assembler already used (state %s)", a.state)
	}

	if err := project.Validate(); err != nil {
		a.state = StateFailed
		return nil, newAssemblyError(StateBuilding, err)
	}

	workDir, err := os.MkdirTemp("", "transfers-assemble-")
	if err != nil {
		a.state = StateFailed
		return nil, newAssemblyError(StateBuilding, err)
	}
	defer os.RemoveAll(workDir) // nolint: errcheck

	a.state = StateBuilding
	logger.Infof("assembling %s (%s, %d elements)", project.Name, project.Template.Name, len(project.Elements))

	doc := a.buildDocument(project)

	basePath := filepath.Join(workDir, "base.pdf")
	if err := a.writeBasePages(project, doc, basePath); err != nil {
		a.state = StateFailed
		return nil, newAssemblyError(StateBuilding, err)
	}

	stamped, result, err := a.stampElements(ctx, project, sources, doc, basePath, workDir)
	if err != nil {
		a.state = StateFailed
		return nil, newAssemblyError(StateBuilding, err)
	}

	if a.IncludeSummary {
		withSummary := filepath.Join(workDir, "with-summary.pdf")
		if err := a.appendSummary(project, result, stamped, workDir, withSummary); err != nil {
			// the summary sheet is informational, the order itself is intact
			logger.Warnf("order summary sheet skipped: %v", err)
		} else {
			stamped = withSummary
			result.Pages++
		}
	}

	a.state = StateColorNormalizing
	policy := a.Strategist.NormalizationPolicy(sources, project.Elements)
	result.Policy = policy
	logger.Infof("normalizing colors with policy %s", policy)

	if err := a.Normalizer.Normalize(ctx, stamped, outputPath, policy); err != nil {
		a.state = StateFailed
		return nil, newAssemblyError(StateColorNormalizing, err)
	}

	a.state = StateDone
	result.Path = outputPath
	logger.Infof("assembled %s: %d pages, %d of %d elements embedded", outputPath, result.Pages, result.Embedded, len(project.Elements))
	return result, nil
}

// buildDocument lays out the page set: artwork view first, then one
// composite page per garment view.
func (a *Assembler) buildDocument(project *uploader.Project) *uploader.CompositeDocument {
	doc := &uploader.CompositeDocument{}

	doc.Pages = append(doc.Pages, uploader.PageSpec{
		WidthMM:  project.Template.WidthMM,
		HeightMM: project.Template.HeightMM,
		Elements: project.Elements,
	})

	for _, hex := range project.GarmentViews() {
		doc.Pages = append(doc.Pages, uploader.PageSpec{
			WidthMM:    project.Template.WidthMM,
			HeightMM:   project.Template.HeightMM,
			Background: hex,
			Elements:   project.Elements,
		})
	}

	return doc
}

// writeBasePages renders background, frames and labels for every page
func (a *Assembler) writeBasePages(project *uploader.Project, doc *uploader.CompositeDocument, path string) error {
	if len(doc.Pages) == 0 {
		return fmt.Errorf("document has no pages")
	}

	first := doc.Pages[0]
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size: gofpdf.SizeType{
			Wd: first.WidthMM * MMToPoint,
			Ht: first.HeightMM * MMToPoint,
		},
	})

	for _, page := range doc.Pages {
		a.renderPage(pdf, project, page)
	}

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.OutputFileAndClose(path)
}

// renderPage draws one base page. The artwork page carries only the
// order label; garment pages get the page-wide garment fill, then a
// swatch per element in that element's own garment color with the
// color name above it, and the identification strip at the bottom.
func (a *Assembler) renderPage(pdf *gofpdf.Fpdf, project *uploader.Project, page uploader.PageSpec) {
	wPt := page.WidthMM * MMToPoint
	hPt := page.HeightMM * MMToPoint
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: wPt, Ht: hPt})

	if page.Background == "" {
		a.Composer.OrderLabel(pdf, wPt, hPt, project)
		return
	}

	garment := uploader.ResolveGarment("", page.Background)
	a.Composer.Background(pdf, wPt, hPt, garment)
	for _, el := range page.Elements {
		placement := Transform(el, page)
		swatch := uploader.ResolveGarment(el.GarmentColor, page.Background)
		a.Composer.ElementSwatch(pdf, hPt, placement, swatch)
		a.Composer.ElementFrame(pdf, hPt, placement)
	}
	a.Composer.GarmentLabel(pdf, wPt, hPt, garment)
}

// stampElements embeds every element's artwork fragment onto all pages
// in z order. Failing elements are logged and skipped.
func (a *Assembler) stampElements(ctx context.Context, project *uploader.Project, sources map[string]*uploader.ArtworkSource, doc *uploader.CompositeDocument, basePath, workDir string) (string, *Result, error) {
	result := &Result{Pages: len(doc.Pages)}

	elements := make([]uploader.PlacedElement, len(project.Elements))
	copy(elements, project.Elements)
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].ZIndex < elements[j].ZIndex
	})

	page := doc.Pages[0]
	current := basePath
	conf := model.NewDefaultConfiguration()

	for i, el := range elements {
		src, ok := sources[el.SourceID]
		if !ok {
			logger.Warnf("element %s: unknown artwork source %s, skipping", el.ID, el.SourceID)
			result.Skipped = append(result.Skipped, el.ID)
			continue
		}

		fragment, err := a.Strategist.Embed(ctx, src, el, workDir)
		if err != nil {
			logger.Warnf("element %s: embedding failed, skipping: %v", el.ID, err)
			result.Skipped = append(result.Skipped, el.ID)
			continue
		}

		handles, err := a.Loader.LoadPages(fragment)
		if err != nil {
			logger.Warnf("element %s: unreadable fragment, skipping: %v", el.ID, err)
			result.Skipped = append(result.Skipped, el.ID)
			continue
		}
		handle := handles[0]

		placement := CorrectForBounds(Transform(el, page), src.Bounds)

		next := filepath.Join(workDir, fmt.Sprintf("stamp-%d.pdf", i))
		if err := a.stampOne(handle, placement, page, current, next, conf); err != nil {
			logger.Warnf("element %s: stamping failed, skipping: %v", el.ID, err)
			result.Skipped = append(result.Skipped, el.ID)
			continue
		}

		current = next
		result.Embedded++
	}

	return current, result, nil
}

// stampScale maps a fragment page uniformly into the placement box:
// the smaller of the two axis ratios, so a fragment whose aspect ratio
// differs from the box fits inside it instead of overflowing on the
// tighter axis.
func stampScale(handle convert.PageHandle, placement Placement) float64 {
	scale := placement.WidthPt / handle.WidthPt
	if sy := placement.HeightPt / handle.HeightPt; sy < scale {
		scale = sy
	}
	return scale
}

// stampOne places a single fragment page onto every page of the
// working document. pdfcpu anchors at the page center, so the offset
// is the vector from page center to element center and the absolute
// scale fits the fragment page into the placement box.
func (a *Assembler) stampOne(handle convert.PageHandle, placement Placement, page uploader.PageSpec, inPath, outPath string, conf *model.Configuration) error {
	if handle.WidthPt <= 0 || handle.HeightPt <= 0 {
		return fmt.Errorf("fragment %s has no area", handle.Path)
	}

	pageWPt := page.WidthMM * MMToPoint
	pageHPt := page.HeightMM * MMToPoint

	scale := stampScale(handle, placement)
	if boxRatio, fragRatio := placement.WidthPt/placement.HeightPt, handle.WidthPt/handle.HeightPt; boxRatio/fragRatio > 1.01 || boxRatio/fragRatio < 0.99 {
		logger.Debugf("fragment %s aspect %.3f differs from element box %.3f, fitting within", handle.Path, fragRatio, boxRatio)
	}
	dx := placement.CenterX() - pageWPt/2
	dy := placement.CenterY() - pageHPt/2

	desc := fmt.Sprintf("pos:c, off:%.2f %.2f, scale:%.4f abs, rot:%.2f", dx, dy, scale, placement.Rotation)
	fileRef := fmt.Sprintf("%s:%d", handle.Path, handle.Page)

	wm, err := api.PDFWatermark(fileRef, desc, true, false, types.POINTS)
	if err != nil {
		return fmt.Errorf("invalid stamp %q: %w", desc, err)
	}

	return api.AddWatermarksFile(inPath, outPath, nil, wm, conf)
}

// appendSummary renders the order summary sheet and merges it after
// the composite pages
func (a *Assembler) appendSummary(project *uploader.Project, result *Result, current, workDir, outPath string) error {
	summaryPath := filepath.Join(workDir, "summary.pdf")
	if err := WriteSummary(project, result, summaryPath); err != nil {
		return err
	}

	conf := model.NewDefaultConfiguration()
	return api.MergeCreateFile([]string{current, summaryPath}, outPath, false, conf)
}
