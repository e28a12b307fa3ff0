package backend

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/gogpu/purrmoji/internal/logx"
)

// Chain tries each available backend in order and returns the first
// success. A Chain is itself a Backend.
type Chain struct {
	backends []Backend
	log      *slog.Logger
}

// NewChain creates a chain. Nil backends are dropped.
func NewChain(backends ...Backend) *Chain {
	c := &Chain{log: logx.Nop()}
	for _, b := range backends {
		if b != nil {
			c.backends = append(c.backends, b)
		}
	}
	return c
}

// SetLogger sets the logger used to report fallbacks. Nil disables
// logging.
func (c *Chain) SetLogger(l *slog.Logger) {
	c.log = logx.OrNop(l)
}

// Backends returns the chained backends in order.
func (c *Chain) Backends() []Backend {
	return append([]Backend(nil), c.backends...)
}

// Name returns the chained names, e.g. "chain(vector,basic)".
func (c *Chain) Name() string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Available reports whether any chained backend is available.
func (c *Chain) Available() bool {
	for _, b := range c.backends {
		if b.Available() {
			return true
		}
	}
	return false
}

// RasterizeImage implements Backend.
func (c *Chain) RasterizeImage(data []byte, size int) (*image.NRGBA, error) {
	return c.try("image", func(b Backend) (*image.NRGBA, error) {
		return b.RasterizeImage(data, size)
	})
}

// RasterizeSVG implements Backend.
func (c *Chain) RasterizeSVG(data []byte, size int) (*image.NRGBA, error) {
	return c.try("svg", func(b Backend) (*image.NRGBA, error) {
		return b.RasterizeSVG(data, size)
	})
}

// RasterizeText implements Backend.
func (c *Chain) RasterizeText(font *Font, text string, size int, style Style) (*image.NRGBA, error) {
	return c.try("text", func(b Backend) (*image.NRGBA, error) {
		return b.RasterizeText(font, text, size, style)
	})
}

func (c *Chain) try(kind string, fn func(Backend) (*image.NRGBA, error)) (*image.NRGBA, error) {
	var errs []error
	tried := 0
	for _, b := range c.backends {
		if !b.Available() {
			continue
		}
		tried++
		img, err := call(b, fn)
		if err == nil && img != nil {
			if tried > 1 {
				c.log.Warn("backend: fell back", "kind", kind, "backend", b.Name())
			}
			return img, nil
		}
		if err == nil {
			err = fmt.Errorf("%s: no image", b.Name())
		}
		c.log.Debug("backend: failed", "kind", kind, "backend", b.Name(), "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
	}
	if tried == 0 {
		return nil, ErrNotAvailable
	}
	return nil, errors.Join(errs...)
}

// call runs fn on b, turning a panic into an error so the next backend
// still gets its turn.
func call(b Backend, fn func(Backend) (*image.NRGBA, error)) (img *image.NRGBA, err error) {
	defer Recover(&err)
	return fn(b)
}
