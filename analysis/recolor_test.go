package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyOverrides_ReplacesEveryOccurrence(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
    <path d="M0 0 L50 50" fill="#FF0000"/>
    <rect x="10" y="10" width="20" height="20" fill="#FF0000" stroke="#FF0000"/>
</svg>`

	colors := Analyze(markup)
	out, applied := ApplyOverrides(markup, map[string]string{"#FF0000": "#00AA00"}, colors)

	assert.Equal(t, 1, applied)
	assert.False(t, strings.Contains(out, "#FF0000"))
	assert.Equal(t, 3, strings.Count(out, "#00AA00"))
}

func TestApplyOverrides_SkipsUndeclaredColors(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
    <path d="M0 0 L5 5" fill="#112233"/>
</svg>`

	colors := Analyze(markup)
	out, applied := ApplyOverrides(markup, map[string]string{"#FF0000": "#00AA00"}, colors)

	assert.Equal(t, 0, applied)
	assert.Equal(t, markup, out)
}

func TestApplyOverrides_NoOverrides(t *testing.T) {
	markup := `<svg></svg>`
	out, applied := ApplyOverrides(markup, nil, Analyze(markup))

	assert.Equal(t, 0, applied)
	assert.Equal(t, markup, out)
}

func TestApplyOverrides_IgnoresIdentityAndEmpty(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
    <path d="M0 0 L5 5" fill="#112233"/>
</svg>`

	colors := Analyze(markup)
	out, applied := ApplyOverrides(markup, map[string]string{"#112233": ""}, colors)
	assert.Equal(t, 0, applied)
	assert.Equal(t, markup, out)

	out, applied = ApplyOverrides(markup, map[string]string{"#112233": "#112233"}, colors)
	assert.Equal(t, 0, applied)
	assert.Equal(t, markup, out)
}
