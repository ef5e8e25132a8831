package compose

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"

	uploader "github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
)

// WriteSummary renders the order summary sheet: project details,
// garment colors and the outcome of the embedding run. It lands as
// the last page of the finished document so prepress has the order
// context next to the proof.
func WriteSummary(project *uploader.Project, result *Result, outputPath string) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithRightMargin(10).
		WithTopMargin(10).
		WithBottomMargin(10).
		Build()

	m := maroto.New(cfg)

	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New("Order Summary", props.Text{
					Style: fontstyle.Bold,
					Size:  16,
					Align: align.Left,
				}),
			),
		),
		row.New(6),
	)

	addField := func(label, value string) {
		m.AddRows(row.New(7).Add(
			col.New(3).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 10})),
			col.New(9).Add(text.New(value, props.Text{Size: 10})),
		))
	}

	addField("Project", project.Name)
	addField("Template", fmt.Sprintf("%s (%.0f x %.0f mm)", project.Template.Name, project.Template.WidthMM, project.Template.HeightMM))
	if project.Quantity > 0 {
		addField("Quantity", fmt.Sprintf("%d", project.Quantity))
	}

	views := project.GarmentViews()
	names := make([]string, 0, len(views))
	for _, hex := range views {
		names = append(names, uploader.ResolveGarment("", hex).Name)
	}
	if len(names) > 0 {
		addField("Garments", strings.Join(names, ", "))
	}

	addField("Artwork", fmt.Sprintf("%d of %d elements embedded", result.Embedded, len(project.Elements)))
	if len(result.Skipped) > 0 {
		addField("Skipped", strings.Join(result.Skipped, ", "))
	}

	if project.Comments != "" {
		m.AddRows(
			row.New(6),
			row.New(7).Add(
				col.New(12).Add(text.New("Comments", props.Text{Style: fontstyle.Bold, Size: 10})),
			),
			row.New(10).Add(
				col.New(12).Add(text.New(project.Comments, props.Text{Size: 10})),
			),
		)
	}

	document, err := m.Generate()
	if err != nil {
		return fmt.Errorf("failed to generate summary sheet: %w", err)
	}

	return document.Save(outputPath)
}
