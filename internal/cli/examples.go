package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/examples"
	flowio "github.com/matzehuels/sankeyflow/pkg/io"
)

// examplesCommand creates the examples command with its subcommands.
func (c *CLI) examplesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "examples",
		Short: "List, print or pick bundled example datasets",
		Long: `List, print or pick bundled example datasets.

Examples are small flow graphs embedded in the binary. Print one with
'examples show', or pick one interactively and write it to a file.`,
	}

	cmd.AddCommand(c.examplesListCommand())
	cmd.AddCommand(c.examplesShowCommand())
	cmd.AddCommand(c.examplesPickCommand())

	return cmd
}

func (c *CLI) examplesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bundled examples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := loadExampleRows()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, exampleTable(rows, -1))
			return nil
		},
	}
}

func (c *CLI) examplesShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print an example dataset",
		Example: `  sankeyflow examples show energy-flow
  sankeyflow examples show budget-flow --format csv | sankeyflow render -`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return examples.IDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := exampleText(args[0], format)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(c.Out, text)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(flowio.FormatJSON), "output format: json, csv, tsv")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletion(
		string(flowio.FormatJSON), string(flowio.FormatCSV), string(flowio.FormatTSV)))

	return cmd
}

func (c *CLI) examplesPickCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose an example interactively and write it to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := loadExampleRows()
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewExampleListModel(rows),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(os.Stderr))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("picker: %w", err)
			}
			m, _ := final.(ExampleListModel)
			if m.Selected == nil {
				printInfo("No example selected")
				return nil
			}

			text, err := exampleText(m.Selected.ID, format)
			if err != nil {
				return err
			}
			path := output
			if path == "" {
				path = m.Selected.ID + "." + format
			}
			if err := writeFile(path, []byte(text)); err != nil {
				return err
			}

			printSuccess("Saved %s", m.Selected.Name)
			printFile(path)
			printNewline()
			printNextStep("Render", appName+" render "+path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(flowio.FormatJSON), "output format: json, csv, tsv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <id>.<format>)")

	return cmd
}

func exampleText(id, format string) (string, error) {
	ex, err := examples.Get(id)
	if err != nil {
		return "", err
	}
	f, err := flowio.ParseFormat(format)
	if err != nil {
		return "", err
	}
	return ex.Text(f)
}
