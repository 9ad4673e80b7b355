package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/buildinfo"
	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/config"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "sankeyflow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output such as generated files written to stdout.
	Out io.Writer

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Sankeyflow lays out and renders Sankey flow diagrams",
		Long: `Sankeyflow turns weighted flow data (JSON, CSV or TSV) into Sankey diagrams.

Nodes are arranged in columns, sized by the flow passing through them, and
connected by ribbons whose width is proportional to each flow value.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/sankeyflow/config.toml)")

	// Register all subcommands
	root.AddCommand(c.parseCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.examplesCommand())
	root.AddCommand(c.schemesCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config resolves the configuration once per process.
func (c *CLI) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Resolve(c.configPath)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend)
	c.cfg = &cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A cache backend that
// cannot be opened is reported and replaced by no caching.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, opts cache.Options, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	store, err := cache.Open(ctx, opts)
	if err != nil {
		if opts.Backend == "" || opts.Backend == cache.BackendFile {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return nil, err
	}
	return store, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the configuration.
// Command flags are applied on top.
func (c *CLI) baseOptions() (pipeline.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.DefaultOptions()
	opts.Layout = cfg.LayoutConfig()
	opts.Style = cfg.RenderStyle()
	opts.Logger = c.Logger
	return opts, nil
}
