package main

import (
	"image"
	"image/png"
	"math"
	"os"
)

// Heightmap is a square single-channel intensity raster. Intensity is
// stored as 8-bit gray and read back in the range 0..1. The buffer is
// written once by the rasterizer and is read-only afterwards.
type Heightmap struct {
	w   int
	h   int
	pix []uint8
}

func NewHeightmap(w, h int) *Heightmap {
	return &Heightmap{
		w:   w,
		h:   h,
		pix: make([]uint8, w*h),
	}
}

func (hm *Heightmap) Width() int  { return hm.w }
func (hm *Heightmap) Height() int { return hm.h }

// Canvas exposes the buffer as an alpha image so the rasterizer can
// composite stamps into it directly. Alpha and gray share the same
// one-byte-per-pixel layout.
func (hm *Heightmap) Canvas() *image.Alpha {
	return &image.Alpha{
		Pix:    hm.pix,
		Stride: hm.w,
		Rect:   image.Rect(0, 0, hm.w, hm.h),
	}
}

// At returns the intensity at a pixel, wrapping out-of-range coordinates
// around the raster in both axes.
func (hm *Heightmap) At(px, py int) float64 {
	px = ((px % hm.w) + hm.w) % hm.w
	py = ((py % hm.h) + hm.h) % hm.h
	return float64(hm.pix[py*hm.w+px]) / 255.0
}

// Sample maps UV coordinates in 0..1 to a pixel and returns its
// intensity. U wraps around the seam rather than mirroring.
func (hm *Heightmap) Sample(u, v float64) float64 {
	if math.IsNaN(u) || math.IsNaN(v) {
		return 0
	}
	px := int(math.Floor(u * float64(hm.w)))
	py := int(math.Floor(v * float64(hm.h)))
	return hm.At(px, py)
}

func (hm *Heightmap) WritePNG(path string) error {
	img := image.NewGray(image.Rect(0, 0, hm.w, hm.h))
	copy(img.Pix, hm.pix)

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	err = png.Encode(out, img)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}
