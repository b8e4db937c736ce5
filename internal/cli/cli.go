// Package cli implements the stackdiagram command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdiagram/pkg/buildinfo"
	"github.com/matzehuels/stackdiagram/pkg/cache"
	"github.com/matzehuels/stackdiagram/pkg/config"
	"github.com/matzehuels/stackdiagram/pkg/pipeline"
	"github.com/matzehuels/stackdiagram/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "stackdiagram"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is replaced by the loaded configuration file before any
	// command runs.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	buildinfo.Resolve()

	root := &cobra.Command{
		Use:   appName,
		Short: "Stackdiagram renders infrastructure diagrams from manifests",
		Long: `Stackdiagram turns declarative manifests (YAML, JSON, TOML or HCL) of
nodes, nested clusters and edges into Graphviz DOT and rendered images.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvPath+" or the user config dir)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOptions are the per-command overrides of the configured runner.
type runnerOptions struct {
	noCache bool
	backend string
}

// newRunner creates a pipeline runner from the configuration. The caller
// owns the runner and must Close it.
func (c *CLI) newRunner(ctx context.Context, ro runnerOptions) (*pipeline.Runner, error) {
	kind := c.Config.Render.Backend
	if ro.backend != "" {
		kind = ro.backend
	}
	backend, err := render.NewBackend(kind, c.Config.Render.DotBinary)
	if err != nil {
		return nil, err
	}

	ch := c.newCache(ctx, ro.noCache)
	runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, buildinfo.Version), backend, c.Logger)
	runner.TTL = c.Config.Cache.TTL.Std()
	return runner, nil
}

// newCache picks redis, the file cache or no cache at all. A cache that
// cannot be opened is logged and replaced by the null cache, so rendering
// never depends on it.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	cfg := c.Config.Cache
	if noCache || cfg.Disabled {
		return cache.NewNullCache()
	}

	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "addr", cfg.RedisAddr, "error", err)
			return cache.NewNullCache()
		}
		c.Logger.Debug("using redis cache", "addr", cfg.RedisAddr)
		return rc
	}

	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "error", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "dir", dir, "error", err)
		return cache.NewNullCache()
	}
	c.Logger.Debug("using file cache", "dir", dir)
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the user
// cache dir (~/.cache/stackdiagram/artifacts on Linux).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats splits a comma-separated format list. An empty flag falls
// back to fallback, which may itself be empty to keep the manifest's own
// formats.
func parseFormats(s string, fallback []string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
