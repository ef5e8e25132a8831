package compose

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	uploader "github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
)

// previewScale maps millimeters to preview pixels.
const previewScale = 4

// WritePreview renders a quick SVG mock-up of the project canvas:
// garment background, one outlined box per placed element, and the
// template caption. It is a browser-viewable approximation for the
// upload UI, not a print proof.
func WritePreview(project *uploader.Project, sources map[string]*uploader.ArtworkSource, w io.Writer) error {
	if err := project.Validate(); err != nil {
		return err
	}

	width := int(project.Template.WidthMM * previewScale)
	height := int(project.Template.HeightMM * previewScale)

	garment := uploader.ResolveGarment("", project.GarmentColor)

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+garment.Hex)

	for _, el := range project.Elements {
		x := int(el.X * previewScale)
		y := int(el.Y * previewScale)
		ew := int(el.Width * previewScale)
		eh := int(el.Height * previewScale)

		style := "fill:#ffffff;fill-opacity:0.35;stroke:#444444;stroke-width:1"
		if el.Rotation != 0 {
			canvas.Gtransform(fmt.Sprintf("rotate(%.1f %d %d)", el.Rotation, x+ew/2, y+eh/2))
			canvas.Rect(x, y, ew, eh, style)
			canvas.Gend()
		} else {
			canvas.Rect(x, y, ew, eh, style)
		}

		label := el.ID
		if src, ok := sources[el.SourceID]; ok {
			label = src.Filename
		}
		canvas.Text(x+2, y+12, label, "font-family:sans-serif;font-size:10px;fill:#222222")
	}

	caption := fmt.Sprintf("%s  %.0fx%.0fmm  %s", project.Template.Name, project.Template.WidthMM, project.Template.HeightMM, garment.Name)
	canvas.Text(4, height-6, caption, "font-family:sans-serif;font-size:11px;fill:#222222")
	canvas.End()

	return nil
}
