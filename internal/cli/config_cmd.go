package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/config"
)

// configCommand creates the config command with its subcommands.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration file",
		Long: `Show or create the configuration file.

Settings are resolved from built-in defaults, the config file, a .env file
in the working directory and SANKEYFLOW_* environment variables, in that
order. Command-line flags override all of them.`,
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			return config.Encode(c.Out, cfg)
		},
	}
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, path)
			return nil
		},
	}
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				printWarning("%s already exists", path)
				printNextStep("Overwrite", appName+" config init --force")
				return nil
			}

			var buf bytes.Buffer
			if err := config.Encode(&buf, config.Default()); err != nil {
				return err
			}
			if err := writeFile(path, buf.Bytes()); err != nil {
				return err
			}
			printSuccess("Wrote default configuration")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

// configFile returns the --config path or the default location.
func (c *CLI) configFile() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	path, err := config.DefaultPath()
	if err != nil {
		return "", fmt.Errorf("get config path: %w", err)
	}
	return path, nil
}
