package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow/transform"
	"github.com/matzehuels/sankeyflow/pkg/frame"
	flowio "github.com/matzehuels/sankeyflow/pkg/io"
	"github.com/matzehuels/sankeyflow/pkg/layout"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// layoutFlags are the geometry flags shared by layout and render. Only
// flags the user set override the configuration.
type layoutFlags struct {
	width       float64
	height      float64
	thickness   float64
	padding     float64
	iterations  int
	align       string
	frame       string
	frameMargin float64
	inFormat    string
	noCache     bool
	refresh     bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	d := layout.DefaultConfig()
	fs := cmd.Flags()
	fs.Float64Var(&f.width, "width", d.Width, "diagram width")
	fs.Float64Var(&f.height, "height", d.Height, "diagram height")
	fs.Float64Var(&f.thickness, "node-width", d.NodeThickness, "node thickness along the flow axis")
	fs.Float64Var(&f.padding, "node-padding", d.NodePadding, "vertical gap between nodes in a column")
	fs.IntVar(&f.iterations, "iterations", d.Iterations, "relaxation passes (0 keeps column order)")
	fs.StringVar(&f.align, "align", string(d.Align), "column alignment: justify, left, right, center")
	fs.StringVar(&f.frame, "frame", "", "fit the diagram into a frame, WxH or WxH+X+Y")
	fs.Float64Var(&f.frameMargin, "frame-margin", frame.DefaultMargin, "inner margin kept free inside the frame")
	fs.StringVar(&f.inFormat, "input-format", "", "input format: json, csv, tsv (default: detect)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results and recompute")

	_ = cmd.RegisterFlagCompletionFunc("align", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{
			string(transform.AlignJustify), string(transform.AlignLeft),
			string(transform.AlignRight), string(transform.AlignCenter),
		}, cobra.ShellCompDirectiveNoFileComp
	})
}

// apply copies the flags the user changed onto opts.
func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	fs := cmd.Flags()
	if fs.Changed("width") {
		opts.Layout.Width = f.width
	}
	if fs.Changed("height") {
		opts.Layout.Height = f.height
	}
	if fs.Changed("node-width") {
		opts.Layout.NodeThickness = f.thickness
	}
	if fs.Changed("node-padding") {
		opts.Layout.NodePadding = f.padding
	}
	if fs.Changed("iterations") {
		opts.Layout.Iterations = f.iterations
	}
	if fs.Changed("align") {
		opts.Layout.Align = transform.Align(f.align)
	}
	if f.frame != "" {
		t, err := parseFrame(f.frame)
		if err != nil {
			return err
		}
		opts.Frame = &t
	}
	opts.FrameMargin = f.frameMargin
	opts.Format = flowio.Format(f.inFormat)
	opts.Refresh = f.refresh
	return nil
}

var frameRE = regexp.MustCompile(`^\s*([0-9.]+)\s*[xX]\s*([0-9.]+)(?:\s*([+-][0-9.]+)\s*([+-][0-9.]+))?\s*$`)

// parseFrame parses a frame in the X11 geometry style: "400x300" or
// "400x300+20+10".
func parseFrame(s string) (frame.Target, error) {
	m := frameRE.FindStringSubmatch(s)
	if m == nil {
		return frame.Target{}, errors.New(errors.ErrCodeInvalidInput, "invalid frame %q", s).
			WithSuggestion("use WIDTHxHEIGHT or WIDTHxHEIGHT+X+Y, for example 400x300+20+10")
	}
	var vals [4]float64
	for i, raw := range m[1:] {
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return frame.Target{}, errors.New(errors.ErrCodeInvalidInput, "invalid frame %q: %v", s, err)
		}
		vals[i] = v
	}
	t := frame.Target{Width: vals[0], Height: vals[1], X: vals[2], Y: vals[3]}
	if err := t.Validate(); err != nil {
		return frame.Target{}, err
	}
	return t, nil
}

// layoutCommand creates the layout command, which writes the geometry
// payload as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [file|-]",
		Short: "Compute node and link geometry for flow data",
		Long: `Compute node and link geometry for flow data.

The output is a JSON payload with one entry per node (column, x0, y0, x1, y1,
value) and per link (width, source and target band offsets). It is written to
<input>.layout.json unless --output is given; "-o -" writes to stdout.

Results are cached, so repeated runs with the same data and settings are
instant.`,
		Example: `  sankeyflow layout flows.csv
  sankeyflow layout flows.json --align left --frame 400x300+20+20 -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.baseOptions()
			if err != nil {
				return err
			}
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	spinner := newSpinner(ctx, "Parsing flows...")
	spinner.Start()

	g, parseHit, err := runner.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Parse failed")
		return err
	}
	spinner.Update("Computing layout...")
	geom, layoutHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	out, err := json.MarshalIndent(geom.Payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	out = append(out, '\n')

	if output == stdinName {
		_, err := c.Out.Write(out)
		return err
	}
	if output == "" {
		output = basePath("", name) + ".layout.json"
	}
	if err := writeFile(output, out); err != nil {
		return err
	}

	stats := pipeline.Stats{
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
		Columns:   geom.Payload.Columns,
		Crossings: pipeline.Crossings(g, geom.Payload),
	}
	printSuccess("Layout complete")
	printFile(output)
	printStats(stats, parseHit && layoutHit)
	if pl := geom.Placement; pl != nil {
		printDetail("framed at scale %.3f, offset (%.1f, %.1f)", pl.Scale, pl.OffsetX, pl.OffsetY)
	}
	printNewline()
	printNextStep("Render", appName+" render "+input)
	return nil
}
