package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/palette"
)

// schemesCommand lists the built-in colour schemes with swatches.
func (c *CLI) schemesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schemes",
		Short: "List colour schemes",
		Long: `List colour schemes.

Each scheme has node colours, assigned to nodes in order and repeated as
needed, and a link colour. The "custom" scheme takes its node colours from
--colors or the colors setting in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := palette.Schemes()
			width := 0
			for _, id := range ids {
				width = max(width, len(id))
			}
			for _, id := range ids {
				p, _ := palette.Scheme(id)
				fmt.Fprintln(c.Out, schemeLine(p, width+2))
			}
			return nil
		},
	}
}
