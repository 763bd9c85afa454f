package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archsketch/internal/config"
	"github.com/matzehuels/archsketch/pkg/assistant"
	"github.com/matzehuels/archsketch/pkg/buildinfo"
	"github.com/matzehuels/archsketch/pkg/cache"
	"github.com/matzehuels/archsketch/pkg/llm"
	"github.com/matzehuels/archsketch/pkg/render/nodelink"
	"github.com/matzehuels/archsketch/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "archsketch"

	// defaultSession is the session used when --session is not given.
	defaultSession = "default"

	// cachePrefix scopes cache keys when the cache is shared through Redis.
	cachePrefix = "archsketch:cache:"
)

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

	// Generator replaces the configured provider when set.
	Generator llm.Generator

	configPath string
	sessionID  string
	noCache    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Archsketch turns plain-language requests into architecture diagrams",
		Long: `Archsketch keeps an architecture diagram per session and grows it from
natural-language requests, component lists or hand edits. Proposed components
are matched against what is already on the canvas, so repeated requests refine
the design instead of duplicating it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/archsketch/config.toml)")
	flags.StringVarP(&c.sessionID, "session", "s", defaultSession, "session to work on")
	flags.BoolVar(&c.noCache, "no-cache", false, "bypass the response and render cache")

	root.AddCommand(c.promptCommand())
	root.AddCommand(c.chatCommand())
	root.AddCommand(c.ingestCommand())
	root.AddCommand(c.applyCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.contextCommand())
	root.AddCommand(c.nodeCommand())
	root.AddCommand(c.edgeCommand())
	root.AddCommand(c.clearCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config returns the loaded configuration, falling back to defaults when a
// command runs without the root pre-run (as in tests of single commands).
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Service Factories
// =============================================================================

// openService opens the session store and builds an assistant service. When
// withGenerator is false the service can only apply payloads and edits, which
// keeps offline commands working without an API key. The returned close
// function releases the store.
func (c *CLI) openService(ctx context.Context, withGenerator bool) (*assistant.Service, func(), error) {
	cfg := c.config()
	store, err := session.Open(ctx, cfg.Sessions())
	if err != nil {
		return nil, nil, err
	}

	var gen llm.Generator
	if withGenerator {
		gen, err = c.newGenerator(ctx)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
	}

	svc := assistant.New(store, gen, c.Logger,
		assistant.WithMode(cfg.Mode()),
		assistant.WithTTL(cfg.Store.TTL),
	)
	return svc, func() { store.Close() }, nil
}

// newGenerator builds the configured provider, wrapped in a response cache
// unless caching is off.
func (c *CLI) newGenerator(ctx context.Context) (llm.Generator, error) {
	if c.Generator != nil {
		return c.Generator, nil
	}
	cfg := c.config()
	gen, err := llm.New(ctx, cfg.Generator())
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	if _, off := store.(cache.NullCache); off {
		return gen, nil
	}
	c.Logger.Debug("caching responses", "provider", gen.Name(), "ttl", cfg.Cache.TTL)
	return llm.NewCached(gen, store, c.keyer(), cfg.Cache.TTL, c.Logger), nil
}

// newRenderer builds a renderer sharing the response cache.
func (c *CLI) newRenderer(ctx context.Context) (*nodelink.Renderer, error) {
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return nodelink.NewRenderer(store, c.keyer(), c.Logger), nil
}

func (c *CLI) keyer() cache.Keyer {
	if c.config().Cache.Backend == config.CacheRedis {
		return cache.NewScopedKeyer(cache.NewDefaultKeyer(), cachePrefix)
	}
	return cache.NewDefaultKeyer()
}

// newCache opens the configured cache. An unusable file cache degrades to no
// caching; an unreachable Redis is an error.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.config()
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, "")
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}
