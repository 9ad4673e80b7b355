package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/internal/api"
	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/observability"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
		maxBody int64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Routes:
  GET  /healthz             liveness and build information
  GET  /v1/schemes          colour schemes
  GET  /v1/examples         bundled examples
  GET  /v1/examples/{id}    one example (?format=json|csv|tsv)
  GET  /v1/stats            request and cache counters
  POST /v1/layout           geometry payload for flow data
  POST /v1/render           rendered artifact (?format=svg|png|pdf|json|dot|nodelink)

The server caches in memory unless --cache or the config selects another
backend. Layout and style defaults come from the config file.`,
		Example: `  sankeyflow serve --addr :9000
  sankeyflow serve --cache redis`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("max-body") {
				cfg.Server.MaxBodyBytes = maxBody
			}

			cacheOpts := cfg.Cache
			switch {
			case cmd.Flags().Changed("cache"):
				cacheOpts.Backend = backend
			case cacheOpts.Backend == "" || cacheOpts.Backend == cache.BackendFile:
				cacheOpts.Backend = cache.BackendMemory
			}
			store, err := cache.Open(ctx, cacheOpts)
			if err != nil {
				return fmt.Errorf("open %s cache: %w", cacheOpts.Backend, err)
			}

			counters := observability.NewCounters()
			observability.SetCacheHooks(counters)
			observability.SetAPIHooks(counters)
			defer observability.Reset()

			defaults, err := c.baseOptions()
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(store, nil, c.Logger)
			defer runner.Close()

			srv := api.New(api.Options{
				Runner:   runner,
				Logger:   c.Logger,
				Config:   cfg.Server,
				Defaults: &defaults,
				Counters: counters,
			})

			printSuccess("Listening on %s", StyleHighlight.Render(srv.Addr()))
			printKeyValue("Cache", cacheOpts.Backend)
			printKeyValue("Body limit", fmt.Sprintf("%d bytes", cfg.Server.MaxBodyBytes))
			printNewline()

			if err := srv.ListenAndServe(ctx); err != nil {
				return err
			}
			printInfo("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config, :8080)")
	cmd.Flags().StringVar(&backend, "cache", "", "cache backend: memory, file, redis, mongo, none")
	cmd.Flags().Int64Var(&maxBody, "max-body", 0, "maximum request body size in bytes")
	_ = cmd.RegisterFlagCompletionFunc("cache", fixedCompletion(cache.Backends...))

	return cmd
}
