package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/flanksource/commons/logger"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/analysis"
	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/api"
	"github.com/darrenpunk/Complete-Transfers-Uploader-sub002/compose"
)

// Build information (set by goreleaser)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "transfers",
		Short: "Garment transfer artwork pipeline",
		Long: `Transfers prepares uploaded artwork for garment transfer printing.
It analyzes color declarations, computes content bounds, composes
garment-colored proof pages and assembles the final print PDF.`,
		Example: `  transfers analyze logo.svg
  transfers generate order.yaml --output order.pdf
  transfers preview order.yaml --output preview.svg`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.StandardLogger().SetLogLevel(1)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(
		newGenerateCommand(),
		newAnalyzeCommand(),
		newBoundsCommand(),
		newColorsCommand(),
		newPreviewCommand(),
		newVersionCommand(),
	)

	return rootCmd
}

func newGenerateCommand() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate <project-file>",
		Short: "Assemble the print PDF for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), args[0], opts)
		},
	}

	opts.Bind(cmd.Flags())
	return cmd
}

func newAnalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <artwork.svg>",
		Short: "Report color declarations and preflight findings for SVG artwork",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markup, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			printAnalysis(args[0], analysis.Analyze(string(markup)), analysis.PreflightSVG(string(markup)))
			return nil
		},
	}
}

func newBoundsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bounds <artwork.svg>",
		Short: "Report the tight ink bounding box of SVG artwork",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markup, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			b := analysis.ContentBounds(string(markup))
			fmt.Printf("x=%.2f y=%.2f width=%.2f height=%.2f\n", b.MinX, b.MinY, b.Width(), b.Height())
			return nil
		},
	}
}

func newColorsCommand() *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "colors",
		Short: "List the garment color palette",
		RunE: func(cmd *cobra.Command, args []string) error {
			if match != "" {
				g := api.ClosestGarment(match)
				fmt.Printf("%s -> %s (%s, %s)\n", match, g.Name, g.Hex, g.CMYK)
				return nil
			}
			printPalette()
			return nil
		},
	}

	cmd.Flags().StringVar(&match, "match", "", "Find the closest garment color to a hex value")
	return cmd
}

func newPreviewCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "preview <project-file>",
		Short: "Render an SVG mock-up of the project canvas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := api.LoadProject(args[0])
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()

			return compose.WritePreview(project, project.SourceMap(), f)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "preview.svg", "Output SVG path")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("transfers %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// isTTY reports whether stdout is an interactive terminal; styling is
// dropped for pipes and CI logs.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func styled(s lipgloss.Style, text string) string {
	if !isTTY() {
		return text
	}
	return s.Render(text)
}
