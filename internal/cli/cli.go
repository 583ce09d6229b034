// Package cli implements the cardfan command-line interface.
//
// Commands:
//   - render: render a deck at one or more scroll offsets
//   - animate: render a swipe as numbered frames
//   - inspect: print per-card transforms as a table
//   - play: drive the fan interactively in the terminal
//   - serve: browser preview server
//   - init: write the sample deck
//   - cache: inspect or clear the render cache
//
// Every command takes an optional deck file; without one the built-in
// sample deck is used. --verbose switches logging to debug level.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardfan/internal/config"
	"github.com/matzehuels/cardfan/pkg/buildinfo"
	"github.com/matzehuels/cardfan/pkg/cache"
	"github.com/matzehuels/cardfan/pkg/deck"
	"github.com/matzehuels/cardfan/pkg/observability"
	"github.com/matzehuels/cardfan/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "cardfan"

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
	Config config.Config

	verbose bool
}

// New creates a CLI logging to w at level.
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

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "cardfan renders and previews card fan carousels",
		Long:         `cardfan computes the transforms of a card fan carousel, where the front card sits at full size and its neighbours shrink, shift and tilt away, and renders them as SVG, PNG, WebP or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				hooks := observability.NewLogHooks(c.Logger)
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.initCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, c.keyer(), c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		r := c.Config.Redis
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
		})
	default:
		fc, err := cache.NewFileCache(c.Config.Cache.Dir)
		if err != nil {
			c.Logger.Warn("cache disabled", "dir", c.Config.Cache.Dir, "err", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// keyer scopes redis keys with the configured prefix. File caches are
// per-user already.
func (c *CLI) keyer() cache.Keyer {
	if c.Config.Cache.Backend == config.BackendRedis && c.Config.Redis.Prefix != "" {
		return cache.NewScopedKeyer(nil, c.Config.Redis.Prefix)
	}
	return cache.NewDefaultKeyer()
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderFlags are the render options shared by render, animate and serve.
type renderFlags struct {
	formats    string
	style      string
	scale      float64
	labels     bool
	background string
	noCache    bool
	refresh    bool
}

func (f *renderFlags) register(cmd *cobra.Command, defaultFormats string) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", defaultFormats, "output formats (comma-separated: svg, png, webp, json)")
	cmd.Flags().StringVar(&f.style, "style", "", "card style (simple, shaded, outlined)")
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "raster scale factor")
	cmd.Flags().BoolVar(&f.labels, "labels", false, "draw card labels")
	cmd.Flags().StringVar(&f.background, "background", "", `background color, or "none"`)
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// apply fills opts from the flags, falling back to the configured defaults.
func (f *renderFlags) apply(opts *pipeline.Options, cfg config.RenderConfig) {
	opts.Formats = parseFormats(f.formats)
	if len(opts.Formats) == 0 {
		opts.Formats = cfg.Formats
	}
	opts.Style = firstNonEmpty(f.style, cfg.Style)
	opts.Scale = cfg.Scale
	if f.scale != 0 {
		opts.Scale = f.scale
	}
	opts.Labels = f.labels || cfg.Labels
	opts.Background = firstNonEmpty(f.background, cfg.Background)
	opts.Refresh = f.refresh
}

// deckOptions points opts at the deck argument, if any.
func deckOptions(opts *pipeline.Options, args []string) {
	if len(args) > 0 {
		opts.DeckPath = args[0]
	}
}

// loadDeck loads the deck argument or the sample deck.
func loadDeck(args []string) (*deck.Deck, error) {
	var opts pipeline.Options
	deckOptions(&opts, args)
	return pipeline.LoadDeck(opts)
}

// parseFormats splits a comma-separated format list, dropping blanks.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func deckName(args []string) string {
	if len(args) == 0 {
		return "sample deck"
	}
	return args[0]
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
