// Package config loads archsketch settings.
//
// Settings come from three layers, later layers winning:
//
//  1. [Default]
//  2. the TOML file at [DefaultPath] (or --config)
//  3. environment variables, after loading a .env file from the working
//     directory if one exists
//
// API keys are read from the environment only and never from the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	apperrors "github.com/matzehuels/archsketch/pkg/errors"
	"github.com/matzehuels/archsketch/pkg/llm"
	"github.com/matzehuels/archsketch/pkg/session"
)

const appName = "archsketch"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete application configuration.
type Config struct {
	LLM    LLM     `toml:"llm"`
	Store  Store   `toml:"store"`
	Cache  Cache   `toml:"cache"`
	Server Server  `toml:"server"`
	Blocks []Block `toml:"blocks"`

	// Path is the file the config was read from, if any.
	Path string `toml:"-"`
}

// LLM configures the generative service.
type LLM struct {
	Provider    string        `toml:"provider"`
	Model       string        `toml:"model"`
	BaseURL     string        `toml:"base_url"`
	Mode        string        `toml:"mode"`
	Temperature *float64      `toml:"temperature"`
	Timeout     time.Duration `toml:"timeout"`
}

// Store configures session storage.
type Store struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	MongoURI      string        `toml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database"`
	TTL           time.Duration `toml:"ttl"`
	MemorySize    int           `toml:"memory_size"`
}

// Cache configures the response and render cache.
type Cache struct {
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Block is a reusable custom node template.
type Block struct {
	Name        string `toml:"name"`
	Type        string `toml:"type"`
	Description string `toml:"description"`
	Color       string `toml:"color"`
}

// Default returns a complete working configuration.
func Default() *Config {
	return &Config{
		LLM: LLM{
			Provider: llm.ProviderGemini,
			Model:    llm.DefaultModel,
			Mode:     string(llm.ModeStructured),
		},
		Store: Store{
			Backend:       session.BackendFile,
			MongoDatabase: session.DefaultMongoDatabase,
			TTL:           session.DefaultTTL,
			MemorySize:    session.DefaultMemorySize,
		},
		Cache: Cache{
			Backend: CacheFile,
			TTL:     24 * time.Hour,
		},
		Server: Server{Addr: ":8080"},
	}
}

// Load builds the configuration. An empty path means [DefaultPath]; a
// missing file at the default path is not an error, a missing explicit path
// is.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := cfg.decodeFile(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			err = nil
		} else {
			return nil, err
		}
	} else {
		cfg.Path = path
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// applyEnv overrides file settings with ARCHSKETCH_* variables.
func (c *Config) applyEnv() {
	setFromEnv(&c.LLM.Provider, "ARCHSKETCH_PROVIDER")
	setFromEnv(&c.LLM.Model, "ARCHSKETCH_MODEL")
	setFromEnv(&c.LLM.BaseURL, "ARCHSKETCH_BASE_URL")
	setFromEnv(&c.LLM.Mode, "ARCHSKETCH_MODE")
	setFromEnv(&c.Store.Backend, "ARCHSKETCH_STORE")
	setFromEnv(&c.Store.RedisAddr, "ARCHSKETCH_REDIS_ADDR")
	setFromEnv(&c.Store.MongoURI, "ARCHSKETCH_MONGO_URI")
	setFromEnv(&c.Cache.Backend, "ARCHSKETCH_CACHE")
	setFromEnv(&c.Server.Addr, "ARCHSKETCH_ADDR")
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = c.Store.RedisAddr
	}
}

func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate rejects unknown providers, modes and backends, and malformed
// blocks.
func (c *Config) Validate() error {
	if !llm.IsProvider(c.LLM.Provider) {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown provider %q (want one of %s)",
			c.LLM.Provider, strings.Join(llm.Providers, ", "))
	}
	if _, err := llm.ParseMode(c.LLM.Mode); err != nil {
		return err
	}
	if t := c.LLM.Temperature; t != nil && (*t < 0 || *t > 2) {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "temperature %.2f out of range [0, 2]", *t)
	}
	backends := []string{session.BackendFile, session.BackendMemory, session.BackendRedis, session.BackendMongo}
	if !slices.Contains(backends, c.Store.Backend) {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown store backend %q (want one of %s)",
			c.Store.Backend, strings.Join(backends, ", "))
	}
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheNone}, c.Cache.Backend) {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "redis cache requires redis_addr")
	}

	seen := map[string]bool{}
	for _, b := range c.Blocks {
		key := strings.ToLower(strings.TrimSpace(b.Name))
		if key == "" {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "block with empty name")
		}
		if seen[key] {
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "duplicate block %q", b.Name)
		}
		seen[key] = true
		if err := apperrors.ValidateColor(b.Color); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "block %q", b.Name)
		}
	}
	return nil
}

// Block returns the custom block with the given name, ignoring case.
func (c *Config) Block(name string) (Block, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, b := range c.Blocks {
		if strings.ToLower(strings.TrimSpace(b.Name)) == key {
			return b, true
		}
	}
	return Block{}, false
}

// Generator returns the provider settings with the API key taken from the
// environment.
func (c *Config) Generator() llm.Config {
	return llm.Config{
		Provider:    c.LLM.Provider,
		Model:       c.model(),
		BaseURL:     c.LLM.BaseURL,
		APIKey:      apiKey(c.LLM.Provider),
		Temperature: c.LLM.Temperature,
	}
}

// model swaps the Gemini default for the selected provider's default when no
// other model was configured.
func (c *Config) model() string {
	if c.LLM.Model == "" || (c.LLM.Provider != llm.ProviderGemini && c.LLM.Model == llm.DefaultModel) {
		return llm.DefaultModelFor(c.LLM.Provider)
	}
	return c.LLM.Model
}

func apiKey(provider string) string {
	switch provider {
	case llm.ProviderGemini:
		if k := os.Getenv("GEMINI_API_KEY"); k != "" {
			return k
		}
		return os.Getenv("GOOGLE_API_KEY")
	case llm.ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case llm.ProviderOllama:
		return os.Getenv("OLLAMA_API_KEY")
	}
	return ""
}

// Mode returns the configured response mode.
func (c *Config) Mode() llm.Mode {
	m, _ := llm.ParseMode(c.LLM.Mode)
	return m
}

// Sessions returns the session store settings.
func (c *Config) Sessions() session.Config {
	return session.Config{
		Backend:       c.Store.Backend,
		Dir:           c.Store.Dir,
		MemorySize:    c.Store.MemorySize,
		RedisAddr:     c.Store.RedisAddr,
		MongoURI:      c.Store.MongoURI,
		MongoDatabase: c.Store.MongoDatabase,
	}
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns $XDG_CONFIG_HOME/archsketch/config.toml, falling back
// to ~/.config/archsketch/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the cache directory: the configured one, else
// $XDG_CACHE_HOME/archsketch, else ~/.cache/archsketch.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
