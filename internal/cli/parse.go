package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	flowio "github.com/matzehuels/sankeyflow/pkg/io"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// stdinName is the input argument that reads from standard input.
const stdinName = "-"

// parseCommand creates the parse command, which validates flow data and
// writes it back out in a normalised form.
func (c *CLI) parseCommand() *cobra.Command {
	var (
		output   string
		inFormat string
		toFormat string
	)

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Validate flow data and convert it between JSON, CSV and TSV",
		Long: `Validate flow data and convert it between JSON, CSV and TSV.

The input format is detected from the file extension or the content unless
--input-format is given. The graph is validated (positive finite values,
existing endpoints, no self-loops, no cycles) and written to --output, or to
stdout when no output is given.`,
		Example: `  sankeyflow parse flows.csv -o flows.json
  cat flows.json | sankeyflow parse - --to tsv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd.Context(), args[0], inFormat, toFormat, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&inFormat, "input-format", "", "input format: json, csv, tsv (default: detect)")
	cmd.Flags().StringVar(&toFormat, "to", "", "output format: json, csv, tsv (default: from output extension, else json)")

	return cmd
}

func (c *CLI) runParse(ctx context.Context, input, inFormat, toFormat, output string) error {
	data, name, err := readInput(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts, err := c.baseOptions()
	if err != nil {
		return err
	}
	opts.Data = data
	opts.Filename = name
	opts.Format = flowio.Format(inFormat)

	prog := newProgress(loggerFromContext(ctx))
	g, cached, err := runner.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return err
	}
	prog.done("parsed flows", "nodes", g.NodeCount(), "links", g.EdgeCount(), "cached", cached)

	format, err := outputDataFormat(toFormat, output)
	if err != nil {
		return err
	}
	out, err := flowio.Marshal(g, format)
	if err != nil {
		return err
	}

	if output == "" {
		_, err := c.Out.Write(out)
		return err
	}
	if err := writeFile(output, out); err != nil {
		return err
	}
	printSuccess("Parsed %s", name)
	printFile(output)
	printStats(pipeline.Stats{NodeCount: g.NodeCount(), EdgeCount: g.EdgeCount()}, cached)
	printNewline()
	printNextStep("Render", appName+" render "+output)
	return nil
}

// outputDataFormat picks the format for converted data: the explicit flag,
// then the output extension, then JSON.
func outputDataFormat(flag, output string) (flowio.Format, error) {
	if flag != "" {
		return flowio.ParseFormat(flag)
	}
	if output != "" {
		if f, err := flowio.ParseFormat(strings.TrimPrefix(filepath.Ext(output), ".")); err == nil {
			return f, nil
		}
	}
	return flowio.FormatJSON, nil
}

// =============================================================================
// File helpers
// =============================================================================

// readInput reads a file, or stdin when path is "-". It returns the data
// and a display name.
func readInput(path string) ([]byte, string, error) {
	if path == stdinName {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "stdin", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return data, path, nil
}

// writeFile creates parent directories as needed and writes data.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// basePath derives the output path stem. An empty output strips the input
// extension; stdin becomes "sankey". A known extension is stripped from
// the output.
func basePath(output, input string) string {
	if output == "" {
		if input == stdinName || input == "stdin" {
			return "sankey"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, ext := range []string{".nodelink.svg", ".layout.json"} {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
