package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/palette"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
	"github.com/matzehuels/sankeyflow/pkg/render"
	"github.com/matzehuels/sankeyflow/pkg/ribbon"
)

// styleFlags holds the visual flags of the render command. Like
// layoutFlags, only changed flags override the configured style.
type styleFlags struct {
	curve       string
	palette     string
	colors      []string
	linkColor   string
	linkOpacity float64
	shape       string
	radius      float64
	gradient    bool
	shadow      bool
	theme       string
	noLabels    bool
}

func (f *styleFlags) register(cmd *cobra.Command) {
	d := render.DefaultStyle()
	fs := cmd.Flags()
	fs.StringVar(&f.curve, "curve", string(d.Curve), "link shape: curved, straight, gradient")
	fs.StringVar(&f.palette, "palette", d.Palette, "colour scheme (see 'sankeyflow schemes')")
	fs.StringSliceVar(&f.colors, "colors", nil, "custom node colours, comma-separated hex values")
	fs.StringVar(&f.linkColor, "link-color", "", "link fill colour (default: from the palette)")
	fs.Float64Var(&f.linkOpacity, "link-opacity", d.LinkOpacity, "link opacity between 0 and 1")
	fs.StringVar(&f.shape, "shape", string(d.NodeShape), "node shape: rectangle, rounded, ellipse")
	fs.Float64Var(&f.radius, "radius", d.CornerRadius, "corner radius for rounded nodes")
	fs.BoolVar(&f.gradient, "gradient", false, "fill links with a source-to-target gradient")
	fs.BoolVar(&f.shadow, "shadow", false, "draw a drop shadow under nodes")
	fs.StringVar(&f.theme, "theme", string(d.Theme), "background theme: light, dark")
	fs.BoolVar(&f.noLabels, "no-labels", false, "omit node labels")

	_ = cmd.RegisterFlagCompletionFunc("palette", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return palette.Schemes(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("curve", fixedCompletion(
		string(ribbon.StyleCurved), string(ribbon.StyleStraight), string(ribbon.StyleGradient)))
	_ = cmd.RegisterFlagCompletionFunc("shape", fixedCompletion(
		string(render.ShapeRectangle), string(render.ShapeRounded), string(render.ShapeEllipse)))
	_ = cmd.RegisterFlagCompletionFunc("theme", fixedCompletion(
		string(render.ThemeLight), string(render.ThemeDark)))
}

func (f *styleFlags) apply(cmd *cobra.Command, s *render.Style) {
	fs := cmd.Flags()
	if fs.Changed("curve") {
		s.Curve = ribbon.Style(f.curve)
	}
	if fs.Changed("colors") {
		s.Colors = f.colors
		if !fs.Changed("palette") {
			s.Palette = palette.CustomScheme
		}
	}
	if fs.Changed("palette") {
		s.Palette = f.palette
	}
	if fs.Changed("link-color") {
		s.LinkColor = f.linkColor
	}
	if fs.Changed("link-opacity") {
		s.LinkOpacity = f.linkOpacity
	}
	if fs.Changed("shape") {
		s.NodeShape = render.Shape(f.shape)
	}
	if fs.Changed("radius") {
		s.CornerRadius = f.radius
	}
	if fs.Changed("gradient") {
		s.Gradient = f.gradient
	}
	if fs.Changed("shadow") {
		s.Shadow = f.shadow
	}
	if fs.Changed("theme") {
		s.Theme = render.Theme(f.theme)
	}
	if f.noLabels {
		s.Labels = false
	}
}

func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// renderCommand creates the render command, which runs the whole pipeline
// and writes one file per requested format.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		formats  string
		title    string
		scale    float64
		detailed bool
		layout   layoutFlags
		style    styleFlags
	)

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Render flow data as a Sankey diagram",
		Long: `Render flow data as a Sankey diagram.

Input is JSON ({"nodes": [...], "links": [...]}), CSV or TSV with source,
target and value columns. The format is detected from the file extension or
the content; use --input-format to force it.

Output formats:
  svg       Sankey diagram (default)
  png, pdf  converted from the SVG (requires rsvg-convert)
  json      the styled scene: node boxes, colours, labels and link paths
  dot       the flow graph in Graphviz DOT
  nodelink  a plain node-link view of the graph rendered with Graphviz

Files are written next to the input as <input>.<format>, or under the base
path given with --output.`,
		Example: `  sankeyflow render energy.csv
  sankeyflow render flows.json -f svg,png --palette ocean --curve gradient
  cat flows.tsv | sankeyflow render - -o out/flows --theme dark`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			if err := layout.apply(cmd, &opts); err != nil {
				return err
			}
			style.apply(cmd, &opts.Style)
			if formats != "" {
				if opts.Formats, err = pipeline.ParseFormats(formats); err != nil {
					return err
				}
			}
			opts.Title = title
			opts.Scale = scale
			opts.Detailed = detailed
			return c.runRender(cmd.Context(), args[0], opts, output, layout.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple formats)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot, nodelink (comma-separated)")
	cmd.Flags().StringVar(&title, "title", "", "diagram title")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultPNGScale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show node values in the nodelink view")
	layout.register(cmd)
	style.register(cmd)

	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(
		pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF,
		pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatNodelink))

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	data, name, err := readInput(input)
	if err != nil {
		return err
	}
	opts.Data = data
	opts.Filename = name

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", name))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths := outputPaths(output, name, opts.Formats)
	for _, format := range opts.Formats {
		if err := writeFile(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	cached := result.CacheInfo.ParseHit && result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	printSuccess("Rendered %s", plural(len(opts.Formats), "file"))
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats, cached)
	if result.Stats.Crossings > 0 && opts.Layout.Iterations == 0 {
		printNewline()
		printInfo("%s with relaxation disabled; try --iterations 6", plural(result.Stats.Crossings, "crossing"))
	}
	return nil
}

// outputPaths maps each format to the file it is written to. A single
// format with an explicit output file uses that file as is. A derived path
// never overwrites the input.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && hasFormatExtension(output) {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		p := base + pipeline.Extension(f)
		if p == input {
			p = base + ".sankey" + pipeline.Extension(f)
		}
		paths[f] = p
	}
	return paths
}

func hasFormatExtension(path string) bool {
	if strings.HasSuffix(path, pipeline.Extension(pipeline.FormatNodelink)) {
		return true
	}
	return pipeline.ValidFormats[strings.TrimPrefix(filepath.Ext(path), ".")]
}
