package llm

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archsketch/pkg/cache"
	"github.com/matzehuels/archsketch/pkg/observability"
)

const generationKeyType = "generation"

// Cached memoises another generator's responses. Identical prompts against an
// identical diagram context return the stored response without a service
// call. Cache failures are logged and never fail a request.
type Cached struct {
	inner  Generator
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// NewCached wraps inner. A nil keyer means [cache.DefaultKeyer]; a nil
// logger discards cache warnings.
func NewCached(inner Generator, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *Cached {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Cached{inner: inner, cache: c, keyer: keyer, ttl: ttl, logger: logger}
}

// Name returns the wrapped generator's name.
func (c *Cached) Name() string { return c.inner.Name() }

// Generate implements [Generator].
func (c *Cached) Generate(ctx context.Context, req Request) (Response, error) {
	key := c.keyer.GenerationKey(cache.GenerationKeyOpts{
		Provider: c.inner.Name(),
		Mode:     string(req.Mode),
		Prompt:   req.Prompt,
		Context:  req.Context,
	})

	data, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "error", err)
	}
	if hit {
		var resp Response
		if err := json.Unmarshal(data, &resp); err == nil {
			observability.Cache().OnCacheHit(ctx, generationKeyType)
			emit(req, resp.Text)
			return resp, nil
		}
		_ = c.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, generationKeyType)

	resp, err := c.inner.Generate(ctx, req)
	if err != nil {
		return Response{}, err
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, generationKeyType, len(data))
		}
	}
	return resp, nil
}

var _ Generator = (*Cached)(nil)
