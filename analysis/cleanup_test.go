package analysis

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyShape(t *testing.T) {
	tests := []struct {
		name   string
		shape  ShapeMetrics
		action ShapeAction
	}{
		{"filled shape", ShapeMetrics{Width: 100, Height: 50, HasFill: true}, ShapeKeep},
		{"filled with stroke", ShapeMetrics{Width: 100, Height: 50, HasFill: true, HasStroke: true}, ShapeKeep},
		{"invisible shape", ShapeMetrics{Width: 10, Height: 10}, ShapeDrop},
		{"stroke-only dot", ShapeMetrics{Width: 2, Height: 2, Commands: 2, HasStroke: true}, ShapeKeepFilled},
		{"stroke-only dot at limit", ShapeMetrics{Width: 4, Height: 4, Commands: 3, HasStroke: true}, ShapeKeepFilled},
		{"narrow detail stroke", ShapeMetrics{Width: 80, Height: 1.5, Commands: 12, HasStroke: true}, ShapeKeepFilled},
		{"narrow but simple stroke", ShapeMetrics{Width: 80, Height: 1.5, Commands: 2, HasStroke: true}, ShapeDrop},
		{"large stroke outline", ShapeMetrics{Width: 100, Height: 100, Commands: 20, HasStroke: true}, ShapeDrop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.action, ClassifyShape(tt.shape))
		})
	}
}

func TestCleanVectorized_DropsTracingArtifacts(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 200">`)
	b.WriteString(`<path id="keep-filled" d="M10 10 L100 10 L100 100 Z" fill="#FF0000"/>`)
	// tracing noise: long hairline outlines with no fill
	for i := 0; i < 10; i++ {
		b.WriteString(fmt.Sprintf(`<path id="artifact-%d" d="M0 %d L150 %d" fill="none" stroke="#000000"/>`, i, i*10, i*10))
	}
	b.WriteString(`<path id="keep-dot" d="M50 50 L52 52" fill="none" stroke="#112233"/>`)
	b.WriteString(`</svg>`)

	out := CleanVectorized(b.String())

	assert.Equal(t, 2, strings.Count(out, "<path"))
	assert.Contains(t, out, "keep-filled")
	assert.Contains(t, out, "keep-dot")
	assert.NotContains(t, out, "artifact-")
}

func TestCleanVectorized_PromotesDotStrokeToFill(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">` +
		`<path d="M1 1 L3 3" fill="none" stroke="#AA00BB"/></svg>`

	out := CleanVectorized(markup)

	assert.Contains(t, out, `fill="#AA00BB"`)
	assert.Contains(t, out, `stroke="none"`)
}

func TestCleanVectorized_LeavesFilledShapesAlone(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">` +
		`<path d="M0 0 L10 0 L10 10 Z" fill="#00FF00" stroke="#000000"/></svg>`

	assert.Equal(t, markup, CleanVectorized(markup))
}
