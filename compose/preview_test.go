package compose

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
)

func TestWritePreview(t *testing.T) {
	project := &api.Project{
		ID:           "p1",
		Name:         "Front Print",
		Template:     api.TemplateSize{Name: "A4", WidthMM: 210, HeightMM: 297},
		GarmentColor: "#FF0000",
		Elements: []api.PlacedElement{
			{ID: "e1", SourceID: "s1", X: 10, Y: 20, Width: 60, Height: 30},
			{ID: "e2", SourceID: "missing", X: 50, Y: 100, Width: 40, Height: 40, Rotation: 45},
		},
	}
	sources := map[string]*api.ArtworkSource{
		"s1": {ID: "s1", Filename: "logo.svg", Kind: api.KindVectorSVG},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePreview(project, sources, &buf))

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "</svg>")

	// garment background plus two element boxes
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("<rect")))
	assert.Contains(t, out, "fill:#FF0000")

	// resolved filename where the source is known, element ID otherwise
	assert.Contains(t, out, "logo.svg")
	assert.Contains(t, out, "e2")

	// the rotated element gets a transform group
	assert.Contains(t, out, "rotate(45.0")

	assert.Contains(t, out, "A4")
	assert.Contains(t, out, "210x297mm")
}

func TestWritePreview_InvalidProject(t *testing.T) {
	var buf bytes.Buffer
	err := WritePreview(&api.Project{ID: "bad"}, nil, &buf)
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}
