// Package backend defines the rendering capability used to turn emoji
// assets into bitmaps.
//
// A Backend rasterizes encoded images, SVG documents and font text into a
// square transparent canvas. Two implementations ship with the module:
//
//   - "vector" (backend/vector): high quality. Lanczos resampling, a full
//     SVG renderer, HarfBuzz shaping and color font tables.
//   - "basic" (backend/basic): built-in fallback. Bilinear resampling, a
//     subset SVG renderer and plain outline fonts.
//
// # Selection
//
// Backends are constructed and injected; there is no global default.
// A Registry maps names to factories and builds a Chain that tries every
// available backend in priority order:
//
//	reg := backend.NewRegistry(vector.Name, basic.Name)
//	reg.Register(vector.Name, func() backend.Backend { return vector.New() })
//	reg.Register(basic.Name, func() backend.Backend { return basic.New() })
//
//	chain := reg.Chain()
//	img, err := chain.RasterizeImage(pngData, 48)
//
// A backend that cannot handle an input returns an error wrapping
// ErrUnsupported and the chain moves on to the next one.
package backend
