// Package bitmap holds the canvas helpers shared by the rendering
// backends: fitting, centering, and contrast inversion of square icons.
package bitmap

import (
	"image"
	"image/color"
	"image/draw"
)

// FitSize returns the largest w x h, preserving aspect ratio, that fits in
// a size x size square. Both results are at least 1 for non-empty input.
func FitSize(w, h, size int) (int, int) {
	if w <= 0 || h <= 0 || size <= 0 {
		return 0, 0
	}
	if w >= h {
		th := h * size / w
		return size, max(th, 1)
	}
	tw := w * size / h
	return max(tw, 1), size
}

// Canvas returns a transparent size x size image.
func Canvas(size int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, size, size))
}

// Center draws src over a transparent size x size canvas, centered.
// src is not scaled.
func Center(src image.Image, size int) *image.NRGBA {
	dst := Canvas(size)
	b := src.Bounds()
	off := image.Pt((size-b.Dx())/2, (size-b.Dy())/2)
	draw.Draw(dst, b.Sub(b.Min).Add(off), src, b.Min, draw.Over)
	return dst
}

// ToNRGBA returns img as an *image.NRGBA with origin (0, 0), copying only
// when needed.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}

// Invert flips the color channels of img in place and keeps alpha, so a
// black glyph on a transparent background turns white.
func Invert(img *image.NRGBA) {
	for y := img.Rect.Min.Y; y < img.Rect.Max.Y; y++ {
		row := img.Pix[img.PixOffset(img.Rect.Min.X, y):]
		for x := 0; x < img.Rect.Dx(); x++ {
			p := row[x*4 : x*4+3 : x*4+3]
			p[0], p[1], p[2] = 0xFF-p[0], 0xFF-p[1], 0xFF-p[2]
		}
	}
}

// Inverted returns an inverted copy of img.
func Inverted(img *image.NRGBA) *image.NRGBA {
	out := &image.NRGBA{
		Pix:    append([]uint8(nil), img.Pix...),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	Invert(out)
	return out
}

// Fill paints every pixel of img with c, keeping each pixel's alpha
// scaled by c's alpha. It turns an outline coverage mask into a solid
// glyph of one color.
func Fill(img *image.NRGBA, c color.NRGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := img.Pix[i+3]
		if a == 0 {
			continue
		}
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = c.R, c.G, c.B
		img.Pix[i+3] = uint8(uint16(a) * uint16(c.A) / 0xFF)
	}
}

// Empty reports whether every pixel of img is fully transparent.
func Empty(img *image.NRGBA) bool {
	if img == nil {
		return true
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			return false
		}
	}
	return true
}
