package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/flanksource/commons/logger"
	"github.com/spf13/pflag"

	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/analysis"
	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/compose"
)

// generateOptions holds flags for the generate command
type generateOptions struct {
	Output         string
	Converter      string
	Timeout        time.Duration
	CacheTTL       time.Duration
	CachePath      string
	IncludeSummary bool
}

// Bind registers the options on a pflag set
func (o *generateOptions) Bind(flags *pflag.FlagSet) {
	flags.StringVarP(&o.Output, "output", "o", "output.pdf", "Output PDF path")
	flags.StringVar(&o.Converter, "converter", "", "Preferred SVG converter (rsvg-convert, inkscape, chromium, raster)")
	flags.DurationVar(&o.Timeout, "timeout", 60*time.Second, "Per-element conversion timeout")
	flags.DurationVar(&o.CacheTTL, "cache-ttl", 24*time.Hour, "Analysis cache TTL (0 disables caching)")
	flags.StringVar(&o.CachePath, "cache-path", "", "Analysis cache database path")
	flags.BoolVar(&o.IncludeSummary, "summary", true, "Append the order summary sheet")
}

func runGenerate(ctx context.Context, projectPath string, opts generateOptions) error {
	project, err := api.LoadProject(projectPath)
	if err != nil {
		return err
	}

	cache, err := analysis.NewCache(analysis.CacheConfig{TTL: opts.CacheTTL, DBPath: opts.CachePath})
	if err != nil {
		logger.Warnf("analysis cache unavailable, continuing without: %v", err)
	} else {
		defer cache.Close()
	}

	sources := project.SourceMap()
	for _, src := range sources {
		if err := analyzeSource(src, cache); err != nil {
			logger.Warnf("analysis of %s failed: %v", src.Filename, err)
		}
	}

	assembler := compose.NewAssembler()
	assembler.IncludeSummary = opts.IncludeSummary
	assembler.Strategist.Timeout = opts.Timeout
	if opts.Converter != "" {
		if err := assembler.Strategist.Converters.SetPreferred(opts.Converter); err != nil {
			return err
		}
	}
	defer assembler.Strategist.Converters.Close()

	result, err := assembler.Assemble(ctx, project, sources, opts.Output)
	if err != nil {
		return err
	}

	printResult(project, result)
	return nil
}

// analyzeSource fills in missing color analysis and content bounds for
// SVG artwork, going through the cache when one is available.
func analyzeSource(src *api.ArtworkSource, cache *analysis.Cache) error {
	if src.Kind != api.KindVectorSVG {
		return nil
	}
	if src.Analysis != nil && src.Bounds != nil {
		return nil
	}

	path := src.MarkupPath
	if path == "" {
		path = src.Path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	markup := string(data)

	if cache != nil {
		if colors, bounds, err := cache.Get(markup); err == nil && colors != nil {
			src.Analysis = colors
			src.Bounds = bounds
			return nil
		}
	}

	colors := analysis.Analyze(markup)
	bounds := analysis.ContentBounds(markup)
	src.Analysis = &colors
	src.Bounds = &bounds

	if cache != nil {
		if err := cache.Set(markup, colors, bounds); err != nil {
			logger.Debugf("failed to cache analysis of %s: %v", src.Filename, err)
		}
	}
	return nil
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func printResult(project *api.Project, result *compose.Result) {
	fmt.Println(styled(headingStyle, project.Name))
	fmt.Printf("  %s\n", styled(okStyle, fmt.Sprintf("%s (%d pages, policy %s)", result.Path, result.Pages, result.Policy)))
	fmt.Printf("  %d of %d elements embedded\n", result.Embedded, len(project.Elements))
	for _, id := range result.Skipped {
		fmt.Printf("  %s\n", styled(warnStyle, "skipped "+id))
	}
}

func printAnalysis(name string, colors api.ColorAnalysis, preflight analysis.PreflightReport) {
	fmt.Println(styled(headingStyle, name))

	if colors.Empty() {
		fmt.Println(styled(mutedStyle, "  no color declarations"))
	} else {
		fmt.Printf("  class: %s\n", colors.Class)
		for _, c := range colors.Colors {
			line := fmt.Sprintf("  %-8s %s", c.Format, c.OriginalText)
			if c.SpotName != "" {
				line += fmt.Sprintf("  (%s, distance %.1f)", c.SpotName, c.SpotDistance)
			}
			fmt.Println(line)
		}
	}

	for _, w := range preflight.Warnings {
		fmt.Printf("  %s\n", styled(warnStyle, w))
	}
}

func printPalette() {
	for _, g := range api.GarmentColors() {
		line := fmt.Sprintf("%-28s %-8s %s", g.Name, g.Hex, g.CMYK)
		if g.Specialty != "" {
			line += styled(mutedStyle, "  "+g.Specialty)
		}
		fmt.Println(line)
	}
}
