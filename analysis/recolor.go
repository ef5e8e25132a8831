package analysis

import (
	"strings"

	"github.com/flanksource/commons/logger"

	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
)

// ApplyOverrides substitutes exact original-format color tokens in the
// markup. Only override keys that match a declaration found by analysis
// are applied; unknown keys are skipped so overrides can never touch
// colors the artwork does not actually declare. Returns the recolored
// markup and the number of overrides applied.
func ApplyOverrides(markup string, overrides map[string]string, analysis api.ColorAnalysis) (string, int) {
	if len(overrides) == 0 {
		return markup, 0
	}

	applied := 0
	for original, replacement := range overrides {
		if !analysis.Declares(original) {
			logger.Debugf("override for %q skipped: color not declared in artwork", original)
			continue
		}
		if replacement == "" || original == replacement {
			continue
		}
		if strings.Contains(markup, original) {
			markup = strings.ReplaceAll(markup, original, replacement)
			applied++
		}
	}
	return markup, applied
}
