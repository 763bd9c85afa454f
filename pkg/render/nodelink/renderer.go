package nodelink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archsketch/pkg/cache"
	"github.com/matzehuels/archsketch/pkg/diagram"
	"github.com/matzehuels/archsketch/pkg/errors"
	dio "github.com/matzehuels/archsketch/pkg/io"
	"github.com/matzehuels/archsketch/pkg/observability"
	"github.com/matzehuels/archsketch/pkg/render"
)

// TTLRender is how long rendered images are cached.
const TTLRender = 7 * 24 * time.Hour

const (
	renderKeyType = "render"
	engineName    = "neato"
)

// Renderer produces export artifacts. Images are cached by diagram content;
// JSON snapshots are never cached because they carry an export timestamp.
type Renderer struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Scale is the PNG scale factor. Zero means 2.
	Scale float64
}

// NewRenderer creates a renderer. A nil cache disables caching; a nil keyer
// means [cache.DefaultKeyer].
func NewRenderer(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Renderer {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{Cache: c, Keyer: keyer, Logger: logger}
}

// Render encodes d in the given format (see [render.Formats]). An empty
// diagram cannot be exported.
func (r *Renderer) Render(ctx context.Context, d diagram.Diagram, format string, opts Options) ([]byte, error) {
	if d.IsEmpty() {
		return nil, dio.ErrEmpty
	}
	switch format {
	case render.FormatJSON:
		var buf bytes.Buffer
		if err := dio.WriteSnapshot(d, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case render.FormatDOT:
		return []byte(ToDOT(d, opts)), nil
	case render.FormatSVG, render.FormatPNG, render.FormatPDF:
		return r.renderImage(ctx, d, format, opts)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
}

func (r *Renderer) renderImage(ctx context.Context, d diagram.Diagram, format string, opts Options) ([]byte, error) {
	data, _ := json.Marshal(struct {
		Diagram  diagram.Diagram
		Detailed bool
		Scale    float64
	}{d, opts.Detailed, r.scale()})
	key := r.Keyer.RenderKey(cache.Hash(data), cache.RenderKeyOpts{Format: format, Engine: engineName})

	if out, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, renderKeyType)
		return out, nil
	}
	observability.Cache().OnCacheMiss(ctx, renderKeyType)

	start := time.Now()
	dot := ToDOT(d, opts)
	var (
		out []byte
		err error
	)
	switch format {
	case render.FormatSVG:
		out, err = RenderSVG(dot)
	case render.FormatPNG:
		out, err = RenderPNG(dot, r.scale())
	case render.FormatPDF:
		out, err = RenderPDF(dot)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	r.Logger.Debug("rendered diagram", "format", format, "bytes", len(out), "duration", time.Since(start))

	if err := r.Cache.Set(ctx, key, out, TTLRender); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, renderKeyType, len(out))
	}
	return out, nil
}

func (r *Renderer) scale() float64 {
	if r.Scale <= 0 {
		return 2
	}
	return r.Scale
}
